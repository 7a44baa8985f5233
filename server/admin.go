package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travelbuddy-server/model"
	"travelbuddy-server/utils"
)

// AdminListUsers is the moderation listing with role and status
// filters.
func (h *Handler) AdminListUsers(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("userStatus"); status != "" {
		query = query.Where("user_status = ?", status)
	}
	if verified := c.Query("verified"); verified != "" {
		query = query.Where("verified_badge = ?", verified == "true")
	}
	if search := c.Query("searchTerm"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR username ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
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

	utils.SendResponse(c, http.StatusOK, "users fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: users,
	})
}

// AdminUpdateUserStatus bans or reinstates an account. Super admin
// accounts cannot be banned.
func (h *Handler) AdminUpdateUserStatus(c *gin.Context) {
	var input struct {
		UserStatus string `json:"userStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("userStatus is required"))
		return
	}
	if input.UserStatus != model.UserStatusActive && input.UserStatus != model.UserStatusBanned {
		c.Error(utils.BadRequest("userStatus must be ACTIVE or BANNED"))
		return
	}

	var user model.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if user.Role == model.RoleSuperAdmin {
		c.Error(utils.Forbidden("the super admin account cannot be banned"))
		return
	}

	if err := h.DB.Model(&user).Update("user_status", input.UserStatus).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "user status updated successfully", user)
}

// AdminListTravelPlans lists every plan regardless of visibility.
func (h *Handler) AdminListTravelPlans(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.TravelPlan{})
	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
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

// AdminListPayments lists every payment with its payer.
func (h *Handler) AdminListPayments(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var payments []model.Payment
	if err := query.Preload("User").Scopes(opts.Scope).Find(&payments).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "payments fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: payments,
	})
}

// AdminListSubscriptions lists every subscription with its owner.
func (h *Handler) AdminListSubscriptions(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.Subscription{})
	if plan := c.Query("plan"); plan != "" {
		query = query.Where("plan = ?", plan)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var subscriptions []model.Subscription
	if err := query.Preload("User").Scopes(opts.Scope).Find(&subscriptions).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "subscriptions fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: subscriptions,
	})
}

// AdminStats aggregates platform counters for the dashboard.
func (h *Handler) AdminStats(c *gin.Context) {
	counts := map[string]int64{}
	for name, target := range map[string]interface{}{
		"users":       &model.User{},
		"travelPlans": &model.TravelPlan{},
		"posts":       &model.Post{},
		"meetups":     &model.Meetup{},
		"reviews":     &model.Review{},
		"payments":    &model.Payment{},
	} {
		var count int64
		if err := h.DB.Model(target).Count(&count).Error; err != nil {
			c.Error(err)
			return
		}
		counts[name] = count
	}

	usersByStatus := map[string]int64{}
	for _, status := range []string{model.UserStatusActive, model.UserStatusBanned} {
		var count int64
		if err := h.DB.Model(&model.User{}).Where("user_status = ?", status).Count(&count).Error; err != nil {
			c.Error(err)
			return
		}
		usersByStatus[status] = count
	}

	var activeSubscriptions int64
	if err := h.DB.Model(&model.Subscription{}).
		Where("is_active = ? AND end_date >= ?", true, time.Now()).
		Count(&activeSubscriptions).Error; err != nil {
		c.Error(err)
		return
	}

	var revenue int64
	if err := h.DB.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "stats fetched successfully", gin.H{
		"counts":              counts,
		"usersByStatus":       usersByStatus,
		"activeSubscriptions": activeSubscriptions,
		"totalRevenue":        revenue,
	})
}
