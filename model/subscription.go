package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanMonthly = "MONTHLY"
	PlanYearly  = "YEARLY"
)

const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

/*

Subscription is the single paid plan a user can hold

UserID is unique: reconciliation upserts on it, so a renewal or a plan
switch updates the existing row instead of stacking subscriptions.

Payment records one processor transaction. TransactionID is the
processor's identifier and is unique, which is what makes
reconciliation idempotent across the webhook and verify-session paths.

*/

type Subscription struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Plan      string    `gorm:"not null" json:"plan"`
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	Price     int64     `gorm:"not null" json:"price"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type Payment struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	Amount         int64         `gorm:"not null" json:"amount"`
	Status         string        `gorm:"not null" json:"status"`
	TransactionID  string        `gorm:"not null;uniqueIndex" json:"transactionId"`
	Purpose        string        `json:"purpose"`
	UserID         string        `gorm:"type:uuid;not null;index" json:"userId"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	SubscriptionID *string       `gorm:"type:uuid" json:"subscriptionId"`
	Subscription   *Subscription `gorm:"constraint:OnDelete:SET NULL" json:"subscription,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func ValidSubscriptionPlan(s string) bool {
	return s == PlanMonthly || s == PlanYearly
}
