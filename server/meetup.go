package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
)

type meetupInput struct {
	Title       string    `json:"title" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Description *string   `json:"description"`
	MaxPeople   *int      `json:"maxPeople"`
}

// CreateMeetup opens a new meetup hosted by the caller.
func (h *Handler) CreateMeetup(c *gin.Context) {
	var input meetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("title, location and date are required"))
		return
	}
	if input.MaxPeople != nil && *input.MaxPeople < 1 {
		c.Error(utils.BadRequest("maxPeople must be at least 1"))
		return
	}

	meetup := model.Meetup{
		Title:       input.Title,
		Location:    input.Location,
		Date:        input.Date,
		Description: input.Description,
		MaxPeople:   input.MaxPeople,
		HostID:      middlewares.CurrentUserID(c),
	}
	if err := h.DB.Create(&meetup).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusCreated, "meetup created successfully", meetup)
}

// ListMeetups is paginated with optional location filter and an
// upcoming-only toggle.
func (h *Handler) ListMeetups(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.Meetup{})
	if location := c.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if c.Query("upcoming") == "true" {
		query = query.Where("date >= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var meetups []model.Meetup
	if err := query.Preload("Host").Scopes(opts.Scope).Find(&meetups).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "meetups fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: meetups,
	})
}

// GetMeetup returns one meetup with host and members.
func (h *Handler) GetMeetup(c *gin.Context) {
	var meetup model.Meetup
	if err := h.DB.Preload("Host").Preload("Members").Preload("Members.User").
		First(&meetup, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "meetup fetched successfully", meetup)
}

// UpdateMeetup edits a meetup. Host or admin only. Shrinking the
// capacity below the current member count is rejected.
func (h *Handler) UpdateMeetup(c *gin.Context) {
	var meetup model.Meetup
	if err := h.DB.First(&meetup, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if meetup.HostID != middlewares.CurrentUserID(c) && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you can only update your own meetups"))
		return
	}

	var input struct {
		Title       *string    `json:"title"`
		Location    *string    `json:"location"`
		Date        *time.Time `json:"date"`
		Description *string    `json:"description"`
		MaxPeople   *int       `json:"maxPeople"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("invalid meetup payload"))
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Date != nil {
		updates["date"] = *input.Date
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.MaxPeople != nil {
		if *input.MaxPeople < 1 {
			c.Error(utils.BadRequest("maxPeople must be at least 1"))
			return
		}
		var members int64
		if err := h.DB.Model(&model.MeetupMember{}).Where("meetup_id = ?", meetup.ID).Count(&members).Error; err != nil {
			c.Error(err)
			return
		}
		if int64(*input.MaxPeople) < members {
			c.Error(utils.BadRequest("maxPeople cannot be below the current member count"))
			return
		}
		updates["max_people"] = *input.MaxPeople
	}

	if len(updates) == 0 {
		c.Error(utils.BadRequest("nothing to update"))
		return
	}
	if err := h.DB.Model(&meetup).Updates(updates).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "meetup updated successfully", meetup)
}

// DeleteMeetup removes a meetup and its membership rows.
func (h *Handler) DeleteMeetup(c *gin.Context) {
	var meetup model.Meetup
	if err := h.DB.First(&meetup, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if meetup.HostID != middlewares.CurrentUserID(c) && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you can only delete your own meetups"))
		return
	}
	if err := h.DB.Delete(&meetup).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "meetup deleted successfully", nil)
}

// JoinMeetup adds the caller as a member. The meetup row is locked for
// the duration of the transaction so concurrent joins observe a
// consistent member count and the capacity cap cannot be overshot.
func (h *Handler) JoinMeetup(c *gin.Context) {
	userID := middlewares.CurrentUserID(c)

	var member model.MeetupMember
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var meetup model.Meetup
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&meetup, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if meetup.HostID == userID {
			return utils.BadRequest("you are the host of this meetup")
		}
		if meetup.Date.Before(time.Now()) {
			return utils.BadRequest("this meetup has already happened")
		}

		if meetup.MaxPeople != nil {
			var members int64
			if err := tx.Model(&model.MeetupMember{}).Where("meetup_id = ?", meetup.ID).Count(&members).Error; err != nil {
				return err
			}
			if members >= int64(*meetup.MaxPeople) {
				return utils.Conflict("this meetup is full")
			}
		}

		member = model.MeetupMember{MeetupID: meetup.ID, UserID: userID}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.Conflict("you have already joined this meetup")
		}
		return nil
	})
	if err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "meetup joined successfully", member)
}

// LeaveMeetup removes the caller's membership.
func (h *Handler) LeaveMeetup(c *gin.Context) {
	result := h.DB.Where("meetup_id = ? AND user_id = ?", c.Param("id"), middlewares.CurrentUserID(c)).
		Delete(&model.MeetupMember{})
	if result.Error != nil {
		c.Error(result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.Error(utils.NotFound("you are not a member of this meetup"))
		return
	}
	utils.SendResponse(c, http.StatusOK, "meetup left successfully", nil)
}

// ListMeetupMembers returns the member list with user profiles.
func (h *Handler) ListMeetupMembers(c *gin.Context) {
	if err := h.DB.First(&model.Meetup{}, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	var members []model.MeetupMember
	if err := h.DB.Preload("User").
		Where("meetup_id = ?", c.Param("id")).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "meetup members fetched successfully", members)
}
