package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
)

type createUserInput struct {
	FullName string  `json:"fullName" binding:"required"`
	Username *string `json:"username"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Gender   *string `json:"gender"`
}

type updateUserInput struct {
	FullName         *string  `form:"fullName" json:"fullName"`
	Username         *string  `form:"username" json:"username"`
	Bio              *string  `form:"bio" json:"bio"`
	Gender           *string  `form:"gender" json:"gender"`
	CurrentLocation  *string  `form:"currentLocation" json:"currentLocation"`
	Interests        []string `form:"interests" json:"interests"`
	VisitedCountries []string `form:"visitedCountries" json:"visitedCountries"`
	IsPublic         *bool    `form:"isPublic" json:"isPublic"`
}

// CreateUser registers a new traveler account. Email and username
// uniqueness is enforced by the database, so a duplicate signup comes
// back as a conflict rather than racing an existence check.
func (h *Handler) CreateUser(c *gin.Context) {
	var input createUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("fullName, email and a password of at least 6 characters are required"))
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.Error(err)
		return
	}

	user := model.User{
		FullName: input.FullName,
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
		Gender:   input.Gender,
		Role:     model.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			c.Error(utils.Conflict("an account with this email or username already exists"))
			return
		}
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "user created successfully", user)
}

// ListUsers is the paginated admin listing.
func (h *Handler) ListUsers(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.User{})
	if searchTerm := c.Query("searchTerm"); searchTerm != "" {
		pattern := "%" + searchTerm + "%"
		query = query.Where("full_name ILIKE ? OR username ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("userStatus"); status != "" {
		query = query.Where("user_status = ?", status)
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

// GetUser returns the full record to the owner or an admin, and the
// public projection to everyone else.
func (h *Handler) GetUser(c *gin.Context) {
	var user model.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	if user.ID == middlewares.CurrentUserID(c) || middlewares.IsAdmin(c) {
		utils.SendResponse(c, http.StatusOK, "user fetched successfully", user)
		return
	}
	utils.SendResponse(c, http.StatusOK, "user fetched successfully", user.Public())
}

// GetPublicProfile is the unauthenticated profile page: the public
// projection plus upcoming public plans, received reviews and the
// average rating. Private profiles return not found.
func (h *Handler) GetPublicProfile(c *gin.Context) {
	var user model.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if !user.IsPublic || user.UserStatus != model.UserStatusActive {
		c.Error(utils.NotFound("profile not found"))
		return
	}

	var plans []model.TravelPlan
	if err := h.DB.
		Where("user_id = ? AND is_public = ? AND end_date >= ?", user.ID, model.VisibilityPublic, time.Now()).
		Order("start_date asc").
		Limit(5).
		Find(&plans).Error; err != nil {
		c.Error(err)
		return
	}

	var reviews []model.Review
	if err := h.DB.Preload("Reviewer").
		Where("receiver_id = ?", user.ID).
		Order("created_at desc").
		Limit(5).
		Find(&reviews).Error; err != nil {
		c.Error(err)
		return
	}

	// Average over every received review, not just the recent page.
	var averageRating float64
	if err := h.DB.Model(&model.Review{}).
		Where("receiver_id = ?", user.ID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&averageRating).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "profile fetched successfully", gin.H{
		"user":          user.Public(),
		"upcomingPlans": plans,
		"reviews":       reviews,
		"averageRating": averageRating,
	})
}

// UpdateUser edits profile fields. Only the owner or an admin may edit,
// and a multipart profileImage upload replaces the stored image URL.
func (h *Handler) UpdateUser(c *gin.Context) {
	var user model.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if user.ID != middlewares.CurrentUserID(c) && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you can only update your own profile"))
		return
	}

	var input updateUserInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(utils.BadRequest("invalid profile payload"))
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}
	if input.CurrentLocation != nil {
		updates["current_location"] = *input.CurrentLocation
	}
	if input.Interests != nil {
		updates["interests"] = pq.StringArray(input.Interests)
	}
	if input.VisitedCountries != nil {
		updates["visited_countries"] = pq.StringArray(input.VisitedCountries)
	}
	if input.IsPublic != nil {
		updates["is_public"] = *input.IsPublic
	}

	if file, err := c.FormFile("profileImage"); err == nil {
		url, err := h.Images.Upload(file, "profiles")
		if err != nil {
			c.Error(err)
			return
		}
		updates["profile_image"] = url
	}

	if len(updates) == 0 {
		c.Error(utils.BadRequest("nothing to update"))
		return
	}

	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			c.Error(utils.Conflict("username is already taken"))
			return
		}
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "user updated successfully", user)
}

// UpdateUserRole promotes or demotes an account. Super admin only, and
// the SUPER_ADMIN role itself cannot be granted or removed here.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("role is required"))
		return
	}
	if input.Role != model.RoleUser && input.Role != model.RoleAdmin {
		c.Error(utils.BadRequest("role must be USER or ADMIN"))
		return
	}

	var user model.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if user.Role == model.RoleSuperAdmin {
		c.Error(utils.Forbidden("the super admin role cannot be changed"))
		return
	}

	if err := h.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "user role updated successfully", user)
}

// DeleteUser removes an account and all dependent rows via cascading
// foreign keys. Owner or admin only; the super admin account is
// protected.
func (h *Handler) DeleteUser(c *gin.Context) {
	var user model.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if user.ID != middlewares.CurrentUserID(c) && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you can only delete your own account"))
		return
	}
	if user.Role == model.RoleSuperAdmin {
		c.Error(utils.Forbidden("the super admin account cannot be deleted"))
		return
	}

	if err := h.DB.Delete(&user).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "user deleted successfully", nil)
}
