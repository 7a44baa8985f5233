package server

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
)

const (
	overlapDayWeight     = 10
	sharedInterestWeight = 5
)

// overlapDays counts the inclusive days two date ranges share. Disjoint
// ranges score zero. Partial days round up, so a range intersection of
// any length within one calendar day still counts that day.
func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// matchScore combines date overlap and shared interests into a single
// comparable number.
func matchScore(days, sharedInterests int) int {
	return days*overlapDayWeight + sharedInterests*sharedInterestWeight
}

// GenerateMatches recomputes the matches for a plan. Candidates are
// other users' public plans for the same destination with overlapping
// dates; each candidate owner is upserted as one match row, so
// regeneration updates scores instead of duplicating rows. Owner or
// admin only.
func (h *Handler) GenerateMatches(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if !canManagePlan(c, plan) {
		c.Error(utils.Forbidden("only the plan owner can generate matches"))
		return
	}

	var owner model.User
	if err := h.DB.First(&owner, "id = ?", plan.UserID).Error; err != nil {
		c.Error(err)
		return
	}

	var matches []model.TravelMatch
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var candidates []model.TravelPlan
		if err := tx.Preload("User").
			Where("user_id <> ?", plan.UserID).
			Where("is_public = ?", model.VisibilityPublic).
			Where("destination ILIKE ?", "%"+plan.Destination+"%").
			Where("start_date <= ? AND end_date >= ?", plan.EndDate, plan.StartDate).
			Find(&candidates).Error; err != nil {
			return err
		}

		// Keep the best-scoring candidate plan per user.
		bestByUser := map[string]int{}
		for _, candidate := range candidates {
			days := overlapDays(plan.StartDate, plan.EndDate, candidate.StartDate, candidate.EndDate)
			if days == 0 {
				continue
			}
			shared := 0
			if candidate.User != nil {
				shared = utils.IntersectCount(owner.Interests, candidate.User.Interests)
			}
			score := matchScore(days, shared)
			if score > bestByUser[candidate.UserID] {
				bestByUser[candidate.UserID] = score
			}
		}

		for userID, score := range bestByUser {
			match := model.TravelMatch{
				TravelPlanID:  plan.ID,
				MatchedUserID: userID,
				MatchScore:    score,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "travel_plan_id"}, {Name: "matched_user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"match_score", "updated_at"}),
			}).Create(&match).Error; err != nil {
				return err
			}
		}

		return tx.Preload("MatchedUser").
			Where("travel_plan_id = ?", plan.ID).
			Order("match_score desc").
			Find(&matches).Error
	})
	if err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "travel matches generated successfully", matches)
}

// ListMatchesForPlan returns a plan's matches, best first. Owner or
// admin only.
func (h *Handler) ListMatchesForPlan(c *gin.Context) {
	plan, ok := h.loadPlan(c, c.Param("id"))
	if !ok {
		return
	}
	if !canManagePlan(c, plan) {
		c.Error(utils.Forbidden("only the plan owner can view matches"))
		return
	}

	var matches []model.TravelMatch
	if err := h.DB.Preload("MatchedUser").
		Where("travel_plan_id = ?", plan.ID).
		Order("match_score desc").
		Find(&matches).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel matches fetched successfully", matches)
}

// AdminListMatches is the paginated moderation view over every match,
// searchable by matched user name or plan destination.
func (h *Handler) AdminListMatches(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.TravelMatch{}).
		Joins("JOIN users ON users.id = travel_matches.matched_user_id").
		Joins("JOIN travel_plans ON travel_plans.id = travel_matches.travel_plan_id")
	if searchTerm := c.Query("searchTerm"); searchTerm != "" {
		pattern := "%" + searchTerm + "%"
		query = query.Where("users.full_name ILIKE ? OR travel_plans.destination ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var matches []model.TravelMatch
	if err := query.Preload("MatchedUser").Preload("TravelPlan").
		Order("travel_matches." + opts.Order()).
		Offset(opts.Offset()).Limit(opts.Limit).
		Find(&matches).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "travel matches fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: matches,
	})
}

// MyMatches lists matches where the caller is the matched traveler.
func (h *Handler) MyMatches(c *gin.Context) {
	var matches []model.TravelMatch
	if err := h.DB.Preload("TravelPlan").Preload("TravelPlan.User").
		Where("matched_user_id = ?", middlewares.CurrentUserID(c)).
		Order("match_score desc").
		Find(&matches).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel matches fetched successfully", matches)
}

// DeleteMatch removes a single match row. Allowed for the plan owner,
// the matched user, or an admin.
func (h *Handler) DeleteMatch(c *gin.Context) {
	var match model.TravelMatch
	if err := h.DB.Preload("TravelPlan").First(&match, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	userID := middlewares.CurrentUserID(c)
	ownsPlan := match.TravelPlan != nil && match.TravelPlan.UserID == userID
	if !ownsPlan && match.MatchedUserID != userID && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you cannot delete this match"))
		return
	}

	if err := h.DB.Delete(&match).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "travel match deleted successfully", nil)
}
