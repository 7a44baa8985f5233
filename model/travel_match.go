package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

TravelMatch is a scored pairing between a travel plan and another
traveler whose own public plan overlaps it

MatchScore: overlap days * 10 + shared interests * 5

The (plan, matched user) pair is unique; generation upserts on that
index so re-running never accumulates duplicate rows.

*/

type TravelMatch struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	TravelPlanID  string      `gorm:"type:uuid;not null;uniqueIndex:idx_plan_matched_user" json:"travelPlanId"`
	TravelPlan    *TravelPlan `gorm:"constraint:OnDelete:CASCADE" json:"travelPlan,omitempty"`
	MatchedUserID string      `gorm:"type:uuid;not null;uniqueIndex:idx_plan_matched_user" json:"matchedUserId"`
	MatchedUser   *User       `gorm:"foreignKey:MatchedUserID;constraint:OnDelete:CASCADE" json:"matchedUser,omitempty"`
	MatchScore    int         `gorm:"not null" json:"matchScore"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (m *TravelMatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
