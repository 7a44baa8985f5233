package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"travelbuddy-server/model"
	"travelbuddy-server/utils"
)

// ExploreTravelPlans is the public plan discovery feed: public plans
// that have not ended yet, with destination, travel type, date window
// and budget filters.
func (h *Handler) ExploreTravelPlans(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.TravelPlan{}).
		Where("is_public = ?", model.VisibilityPublic).
		Where("end_date >= ?", time.Now())
	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
	}
	if travelType := c.Query("travelType"); travelType != "" {
		if !model.ValidTravelType(travelType) {
			c.Error(utils.BadRequest("travelType must be one of ADVENTURE, LEISURE, BUSINESS, FAMILY"))
			return
		}
		query = query.Where("travel_type = ?", travelType)
	}
	if from := c.Query("startDate"); from != "" {
		date, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.Error(utils.BadRequest("startDate must be formatted YYYY-MM-DD"))
			return
		}
		query = query.Where("end_date >= ?", date)
	}
	if to := c.Query("endDate"); to != "" {
		date, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.Error(utils.BadRequest("endDate must be formatted YYYY-MM-DD"))
			return
		}
		query = query.Where("start_date <= ?", date)
	}
	if maxBudget := c.Query("maxBudget"); maxBudget != "" {
		query = query.Where("max_budget IS NULL OR max_budget <= ?", maxBudget)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var plans []model.TravelPlan
	if err := query.Preload("User").Scopes(opts.Scope).Find(&plans).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "travel plans fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: plans,
	})
}

// exploreTraveler is a public profile enriched with discovery stats.
type exploreTraveler struct {
	model.PublicUser
	UpcomingPlansCount int64   `json:"upcomingPlansCount"`
	AverageRating      float64 `json:"averageRating"`
}

// ExploreTravelers surfaces public, active profiles, optionally
// filtered by shared interests and visited countries. Array filters use
// the postgres overlap operator against the stored text[] columns.
// Each traveler carries their upcoming public plan count and average
// received rating.
func (h *Handler) ExploreTravelers(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.User{}).
		Where("is_public = ?", true).
		Where("user_status = ?", model.UserStatusActive)
	if interests := c.QueryArray("interests"); len(interests) > 0 {
		query = query.Where("interests && ?", pq.StringArray(interests))
	}
	if countries := c.QueryArray("visitedCountries"); len(countries) > 0 {
		query = query.Where("visited_countries && ?", pq.StringArray(countries))
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("current_location ILIKE ?", "%"+location+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var users []model.User
	if err := query.Scopes(opts.Scope).Find(&users).Error; err != nil {
		c.Error(err)
		return
	}

	userIDs := make([]string, 0, len(users))
	for i := range users {
		userIDs = append(userIDs, users[i].ID)
	}

	planCounts := map[string]int64{}
	ratings := map[string]float64{}
	if len(userIDs) > 0 {
		var planRows []struct {
			UserID string
			Count  int64
		}
		if err := h.DB.Model(&model.TravelPlan{}).
			Select("user_id, COUNT(*) as count").
			Where("user_id IN ? AND is_public = ? AND end_date >= ?", userIDs, model.VisibilityPublic, time.Now()).
			Group("user_id").
			Scan(&planRows).Error; err != nil {
			c.Error(err)
			return
		}
		for _, row := range planRows {
			planCounts[row.UserID] = row.Count
		}

		var ratingRows []struct {
			ReceiverID string
			Avg        float64
		}
		if err := h.DB.Model(&model.Review{}).
			Select("receiver_id, AVG(rating) as avg").
			Where("receiver_id IN ?", userIDs).
			Group("receiver_id").
			Scan(&ratingRows).Error; err != nil {
			c.Error(err)
			return
		}
		for _, row := range ratingRows {
			ratings[row.ReceiverID] = row.Avg
		}
	}

	travelers := make([]exploreTraveler, 0, len(users))
	for i := range users {
		travelers = append(travelers, exploreTraveler{
			PublicUser:         users[i].Public(),
			UpcomingPlansCount: planCounts[users[i].ID],
			AverageRating:      ratings[users[i].ID],
		})
	}

	utils.SendResponse(c, http.StatusOK, "travelers fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: travelers,
	})
}
