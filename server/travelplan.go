package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"travelbuddy-server/externals"
	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
)

type travelPlanInput struct {
	Destination string    `form:"destination" json:"destination" binding:"required"`
	StartDate   time.Time `form:"startDate" json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate     time.Time `form:"endDate" json:"endDate" binding:"required" time_format:"2006-01-02"`
	MinBudget   *float64  `form:"minBudget" json:"minBudget"`
	MaxBudget   *float64  `form:"maxBudget" json:"maxBudget"`
	TravelType  string    `form:"travelType" json:"travelType" binding:"required"`
	Description *string   `form:"description" json:"description"`
	IsPublic    *string   `form:"isPublic" json:"isPublic"`
}

func validateTravelPlanInput(input *travelPlanInput) *utils.AppError {
	if !model.ValidTravelType(input.TravelType) {
		return utils.BadRequest("travelType must be one of ADVENTURE, LEISURE, BUSINESS, FAMILY")
	}
	if input.EndDate.Before(input.StartDate) {
		return utils.BadRequest("endDate must not be before startDate")
	}
	if input.IsPublic != nil && *input.IsPublic != model.VisibilityPublic && *input.IsPublic != model.VisibilityPrivate {
		return utils.BadRequest("isPublic must be PUBLIC or PRIVATE")
	}
	if input.MinBudget != nil && input.MaxBudget != nil && *input.MaxBudget < *input.MinBudget {
		return utils.BadRequest("maxBudget must not be below minBudget")
	}
	return nil
}

// CreateTravelPlan stores a new itinerary. Coordinates are resolved
// from the destination on a best-effort basis; a geocoding failure
// never fails the request.
func (h *Handler) CreateTravelPlan(c *gin.Context) {
	var input travelPlanInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(utils.BadRequest("destination, startDate, endDate and travelType are required"))
		return
	}
	if appErr := validateTravelPlanInput(&input); appErr != nil {
		c.Error(appErr)
		return
	}

	plan := model.TravelPlan{
		Destination: input.Destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MinBudget:   input.MinBudget,
		MaxBudget:   input.MaxBudget,
		TravelType:  input.TravelType,
		Description: input.Description,
		UserID:      middlewares.CurrentUserID(c),
	}
	if input.IsPublic != nil {
		plan.IsPublic = *input.IsPublic
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := h.Images.Upload(file, "travel-plans")
		if err != nil {
			c.Error(err)
			return
		}
		plan.ImageURL = &url
	}

	if lat, lng, ok := externals.GeocodeDestination(input.Destination); ok {
		plan.Latitude = &lat
		plan.Longitude = &lng
	}

	if err := h.DB.Create(&plan).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusCreated, "travel plan created successfully", plan)
}

// ListTravelPlans returns public plans, paginated, with optional
// destination and travel type filters.
func (h *Handler) ListTravelPlans(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.TravelPlan{}).Where("is_public = ?", model.VisibilityPublic)
	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
	}
	if travelType := c.Query("travelType"); travelType != "" {
		query = query.Where("travel_type = ?", travelType)
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

// MyTravelPlans returns every plan owned by the caller, private ones
// included.
func (h *Handler) MyTravelPlans(c *gin.Context) {
	var plans []model.TravelPlan
	if err := h.DB.
		Where("user_id = ?", middlewares.CurrentUserID(c)).
		Order("start_date asc").
		Find(&plans).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel plans fetched successfully", plans)
}

func (h *Handler) loadPlan(c *gin.Context, id string) (*model.TravelPlan, bool) {
	var plan model.TravelPlan
	if err := h.DB.Preload("User").First(&plan, "id = ?", id).Error; err != nil {
		c.Error(err)
		return nil, false
	}
	return &plan, true
}

func canManagePlan(c *gin.Context, plan *model.TravelPlan) bool {
	return plan.UserID == middlewares.CurrentUserID(c) || middlewares.IsAdmin(c)
}

// GetTravelPlan returns a single plan. Private plans are visible to the
// owner and admins only.
func (h *Handler) GetTravelPlan(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if plan.IsPublic != model.VisibilityPublic && !canManagePlan(c, plan) {
		c.Error(utils.NotFound("travel plan not found"))
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel plan fetched successfully", plan)
}

// UpdateTravelPlan edits an owned plan. Changing the destination
// re-resolves coordinates; the date invariant is re-checked against the
// merged values.
func (h *Handler) UpdateTravelPlan(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if !canManagePlan(c, plan) {
		c.Error(utils.Forbidden("you can only update your own travel plans"))
		return
	}

	var input struct {
		Destination *string    `form:"destination" json:"destination"`
		StartDate   *time.Time `form:"startDate" json:"startDate" time_format:"2006-01-02"`
		EndDate     *time.Time `form:"endDate" json:"endDate" time_format:"2006-01-02"`
		MinBudget   *float64   `form:"minBudget" json:"minBudget"`
		MaxBudget   *float64   `form:"maxBudget" json:"maxBudget"`
		TravelType  *string    `form:"travelType" json:"travelType"`
		Description *string    `form:"description" json:"description"`
		IsPublic    *string    `form:"isPublic" json:"isPublic"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.Error(utils.BadRequest("invalid travel plan payload"))
		return
	}

	startDate, endDate := plan.StartDate, plan.EndDate
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	if input.EndDate != nil {
		endDate = *input.EndDate
	}
	if endDate.Before(startDate) {
		c.Error(utils.BadRequest("endDate must not be before startDate"))
		return
	}

	updates := map[string]interface{}{
		"start_date": startDate,
		"end_date":   endDate,
	}
	if input.Destination != nil && *input.Destination != plan.Destination {
		updates["destination"] = *input.Destination
		if lat, lng, ok := externals.GeocodeDestination(*input.Destination); ok {
			updates["latitude"] = lat
			updates["longitude"] = lng
		} else {
			updates["latitude"] = nil
			updates["longitude"] = nil
		}
	}
	if input.MinBudget != nil {
		updates["min_budget"] = *input.MinBudget
	}
	if input.MaxBudget != nil {
		updates["max_budget"] = *input.MaxBudget
	}
	if input.TravelType != nil {
		if !model.ValidTravelType(*input.TravelType) {
			c.Error(utils.BadRequest("travelType must be one of ADVENTURE, LEISURE, BUSINESS, FAMILY"))
			return
		}
		updates["travel_type"] = *input.TravelType
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsPublic != nil {
		if *input.IsPublic != model.VisibilityPublic && *input.IsPublic != model.VisibilityPrivate {
			c.Error(utils.BadRequest("isPublic must be PUBLIC or PRIVATE"))
			return
		}
		updates["is_public"] = *input.IsPublic
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := h.Images.Upload(file, "travel-plans")
		if err != nil {
			c.Error(err)
			return
		}
		updates["image_url"] = url
	}

	if err := h.DB.Model(plan).Updates(updates).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel plan updated successfully", plan)
}

// DeleteTravelPlan removes a plan and its dependent matches, requests
// and review links.
func (h *Handler) DeleteTravelPlan(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if !canManagePlan(c, plan) {
		c.Error(utils.Forbidden("you can only delete your own travel plans"))
		return
	}
	if err := h.DB.Delete(plan).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel plan deleted successfully", nil)
}

// RequestToJoin files a join request against a public plan. The unique
// (plan, requester) index turns a duplicate submission into a conflict
// without a racy existence check.
func (h *Handler) RequestToJoin(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	userID := middlewares.CurrentUserID(c)
	if plan.UserID == userID {
		c.Error(utils.BadRequest("you cannot request to join your own travel plan"))
		return
	}
	if plan.IsPublic != model.VisibilityPublic {
		c.Error(utils.NotFound("travel plan not found"))
		return
	}

	var input struct {
		Message *string `json:"message"`
	}
	_ = c.ShouldBindJSON(&input)

	request := model.TravelPlanRequest{
		TravelPlanID: plan.ID,
		RequesterID:  userID,
		Message:      input.Message,
		Status:       model.RequestStatusPending,
	}
	result := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&request)
	if result.Error != nil {
		c.Error(result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.Error(utils.Conflict("you have already requested to join this travel plan"))
		return
	}

	utils.SendResponse(c, http.StatusCreated, "join request sent successfully", request)
}

// ListJoinRequests shows a plan's requests to its owner or an admin.
func (h *Handler) ListJoinRequests(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if !canManagePlan(c, plan) {
		c.Error(utils.Forbidden("only the plan owner can view join requests"))
		return
	}

	var requests []model.TravelPlanRequest
	if err := h.DB.Preload("Requester").
		Where("travel_plan_id = ?", plan.ID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "join requests fetched successfully", requests)
}

// RespondToJoinRequest accepts or rejects a pending request.
func (h *Handler) RespondToJoinRequest(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if !canManagePlan(c, plan) {
		c.Error(utils.Forbidden("only the plan owner can respond to join requests"))
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("status is required"))
		return
	}
	if input.Status != model.RequestStatusAccepted && input.Status != model.RequestStatusRejected {
		c.Error(utils.BadRequest("status must be ACCEPTED or REJECTED"))
		return
	}

	var request model.TravelPlanRequest
	if err := h.DB.First(&request, "id = ? AND travel_plan_id = ?", c.Param("requestId"), plan.ID).Error; err != nil {
		c.Error(err)
		return
	}
	if request.Status != model.RequestStatusPending {
		c.Error(utils.Conflict("this request has already been responded to"))
		return
	}

	if err := h.DB.Model(&request).Update("status", input.Status).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "join request updated successfully", request)
}
