package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
)

type reviewInput struct {
	Rating       int     `json:"rating" binding:"required,min=1,max=5"`
	Comment      *string `json:"comment"`
	ReceiverID   string  `json:"receiverId" binding:"required"`
	TravelPlanID *string `json:"travelPlanId"`
}

// CreateReview rates another traveler. When the review is tied to a
// travel plan, it can only be filed after the plan's end date.
func (h *Handler) CreateReview(c *gin.Context) {
	var input reviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("receiverId and a rating between 1 and 5 are required"))
		return
	}

	reviewerID := middlewares.CurrentUserID(c)
	if input.ReceiverID == reviewerID {
		c.Error(utils.BadRequest("you cannot review yourself"))
		return
	}

	if err := h.DB.First(&model.User{}, "id = ?", input.ReceiverID).Error; err != nil {
		c.Error(err)
		return
	}

	if input.TravelPlanID != nil {
		var plan model.TravelPlan
		if err := h.DB.First(&plan, "id = ?", *input.TravelPlanID).Error; err != nil {
			c.Error(err)
			return
		}
		if plan.EndDate.After(time.Now()) {
			c.Error(utils.BadRequest("you can only review a travel plan after it has ended"))
			return
		}
	}

	review := model.Review{
		Rating:       input.Rating,
		Comment:      input.Comment,
		ReviewerID:   reviewerID,
		ReceiverID:   input.ReceiverID,
		TravelPlanID: input.TravelPlanID,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusCreated, "review created successfully", review)
}

// ListReviewsForUser returns the reviews a traveler has received plus
// their average rating.
func (h *Handler) ListReviewsForUser(c *gin.Context) {
	if err := h.DB.First(&model.User{}, "id = ?", c.Param("userId")).Error; err != nil {
		c.Error(err)
		return
	}

	var reviews []model.Review
	if err := h.DB.Preload("Reviewer").
		Where("receiver_id = ?", c.Param("userId")).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		c.Error(err)
		return
	}

	var averageRating float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		averageRating = float64(sum) / float64(len(reviews))
	}

	utils.SendResponse(c, http.StatusOK, "reviews fetched successfully", gin.H{
		"reviews":       reviews,
		"averageRating": averageRating,
	})
}

// GetReview returns a single review with both parties.
func (h *Handler) GetReview(c *gin.Context) {
	var review model.Review
	if err := h.DB.Preload("Reviewer").Preload("Receiver").
		First(&review, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "review fetched successfully", review)
}

// ListReviewsForPlan returns the reviews tied to a travel plan plus
// the plan's average rating.
func (h *Handler) ListReviewsForPlan(c *gin.Context) {
	if err := h.DB.First(&model.TravelPlan{}, "id = ?", c.Param("planId")).Error; err != nil {
		c.Error(err)
		return
	}

	var reviews []model.Review
	if err := h.DB.Preload("Reviewer").
		Where("travel_plan_id = ?", c.Param("planId")).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		c.Error(err)
		return
	}

	var averageRating float64
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		averageRating = float64(sum) / float64(len(reviews))
	}

	utils.SendResponse(c, http.StatusOK, "reviews fetched successfully", gin.H{
		"reviews":       reviews,
		"averageRating": averageRating,
	})
}

// AdminListReviews is the paginated moderation listing.
func (h *Handler) AdminListReviews(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.Review{})
	if rating := c.Query("rating"); rating != "" {
		query = query.Where("rating = ?", rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var reviews []model.Review
	if err := query.Preload("Reviewer").Preload("Receiver").
		Scopes(opts.Scope).
		Find(&reviews).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "reviews fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: reviews,
	})
}

// MyReviews lists the reviews written by the caller.
func (h *Handler) MyReviews(c *gin.Context) {
	var reviews []model.Review
	if err := h.DB.Preload("Receiver").
		Where("reviewer_id = ?", middlewares.CurrentUserID(c)).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "reviews fetched successfully", reviews)
}

// UpdateReview edits the caller's own review.
func (h *Handler) UpdateReview(c *gin.Context) {
	var review model.Review
	if err := h.DB.First(&review, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if review.ReviewerID != middlewares.CurrentUserID(c) {
		c.Error(utils.Forbidden("you can only edit your own reviews"))
		return
	}

	var input struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("invalid review payload"))
		return
	}

	updates := map[string]interface{}{}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			c.Error(utils.BadRequest("rating must be between 1 and 5"))
			return
		}
		updates["rating"] = *input.Rating
	}
	if input.Comment != nil {
		updates["comment"] = *input.Comment
	}
	if len(updates) == 0 {
		c.Error(utils.BadRequest("nothing to update"))
		return
	}

	if err := h.DB.Model(&review).Updates(updates).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "review updated successfully", review)
}

// DeleteReview removes a review. Author or admin only.
func (h *Handler) DeleteReview(c *gin.Context) {
	var review model.Review
	if err := h.DB.First(&review, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if review.ReviewerID != middlewares.CurrentUserID(c) && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you can only delete your own reviews"))
		return
	}
	if err := h.DB.Delete(&review).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "review deleted successfully", nil)
}
