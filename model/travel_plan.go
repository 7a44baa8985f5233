package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

const (
	TravelTypeAdventure = "ADVENTURE"
	TravelTypeLeisure   = "LEISURE"
	TravelTypeBusiness  = "BUSINESS"
	TravelTypeFamily    = "FAMILY"
)

const (
	RequestStatusPending  = "PENDING"
	RequestStatusAccepted = "ACCEPTED"
	RequestStatusRejected = "REJECTED"
)

/*

TravelPlan is a user-authored itinerary

Destination: free text, substring-matched by explore and match generation
StartDate / EndDate: inclusive date range, EndDate >= StartDate enforced
  at the handler layer
IsPublic: PUBLIC plans are visible in explore and eligible as match
  candidates
Latitude / Longitude: best-effort geocode of Destination, may be nil

Matches / Requests / Reviews: dependent rows, removed with the plan

*/

type TravelPlan struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Destination string    `gorm:"not null" json:"destination"`
	StartDate   time.Time `gorm:"not null" json:"startDate"`
	EndDate     time.Time `gorm:"not null" json:"endDate"`
	MinBudget   *float64  `json:"minBudget"`
	MaxBudget   *float64  `json:"maxBudget"`
	TravelType  string    `gorm:"not null" json:"travelType"`
	Description *string   `json:"description"`
	IsPublic    string    `gorm:"not null;default:PUBLIC" json:"isPublic"`
	ImageURL    *string   `json:"imageUrl"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"userId"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Matches  []TravelMatch       `gorm:"foreignKey:TravelPlanID;constraint:OnDelete:CASCADE" json:"matches,omitempty"`
	Requests []TravelPlanRequest `gorm:"foreignKey:TravelPlanID;constraint:OnDelete:CASCADE" json:"requests,omitempty"`
	Reviews  []Review            `gorm:"foreignKey:TravelPlanID;constraint:OnDelete:SET NULL" json:"reviews,omitempty"`
}

func (p *TravelPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TravelPlanRequest is a join request from a traveler to a plan owner.
// The (plan, requester) pair is unique so a duplicate submission fails
// at the storage layer instead of racing a prior existence check.
type TravelPlanRequest struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	TravelPlanID string    `gorm:"type:uuid;not null;uniqueIndex:idx_plan_requester" json:"travelPlanId"`
	RequesterID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_plan_requester" json:"requesterId"`
	Requester    *User     `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Message      *string   `json:"message"`
	Status       string    `gorm:"not null;default:PENDING" json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r *TravelPlanRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func ValidRequestStatus(s string) bool {
	return s == RequestStatusPending || s == RequestStatusAccepted || s == RequestStatusRejected
}

func ValidTravelType(s string) bool {
	switch s {
	case TravelTypeAdventure, TravelTypeLeisure, TravelTypeBusiness, TravelTypeFamily:
		return true
	}
	return false
}
