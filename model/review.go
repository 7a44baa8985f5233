package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left by one traveler for another, optionally tied
// to a travel plan. When a plan is referenced, creation is rejected
// until the plan's end date has passed.
type Review struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Rating       int         `gorm:"not null" json:"rating"`
	Comment      *string     `json:"comment"`
	ReviewerID   string      `gorm:"type:uuid;not null;index" json:"reviewerId"`
	Reviewer     *User       `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"reviewer,omitempty"`
	ReceiverID   string      `gorm:"type:uuid;not null;index" json:"receiverId"`
	Receiver     *User       `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
	TravelPlanID *string     `gorm:"type:uuid" json:"travelPlanId"`
	TravelPlan   *TravelPlan `gorm:"constraint:OnDelete:SET NULL" json:"travelPlan,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
