package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

const (
	UserStatusActive = "ACTIVE"
	UserStatusBanned = "BANNED"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

/*

User is a registered traveler account

Id: primary key, uuid
Email: login identity, unique
Password: bcrypt hash, never serialized
Role: USER | ADMIN | SUPER_ADMIN
UserStatus: ACTIVE | BANNED, non-active users cannot authenticate
VerifiedBadge: set once a subscription payment is reconciled
Interests / VisitedCountries: free-form string sets, stored as text[]
IsPublic: whether the profile shows up in explore results

TravelPlans: plans authored by this user, "has-many" relation

*/

type User struct {
	ID               string  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName         string  `gorm:"not null" json:"fullName"`
	Username         *string `gorm:"uniqueIndex" json:"username"`
	Email            string  `gorm:"uniqueIndex;not null" json:"email"`
	Password         string  `gorm:"not null" json:"-"`
	Role             string  `gorm:"not null;default:USER" json:"role"`
	UserStatus       string  `gorm:"not null;default:ACTIVE" json:"userStatus"`
	Bio              *string `json:"bio"`
	ProfileImage     *string `json:"profileImage"`
	Gender           *string `json:"gender"`
	CurrentLocation  *string `json:"currentLocation"`
	VerifiedBadge    bool    `gorm:"not null;default:false" json:"verifiedBadge"`
	Interests        pq.StringArray `gorm:"type:text[]" json:"interests"`
	VisitedCountries pq.StringArray `gorm:"type:text[]" json:"visitedCountries"`
	IsPublic         bool           `gorm:"not null;default:true" json:"isPublic"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	TravelPlans []TravelPlan `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"travelPlans,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the projection of a User that is safe to embed in
// responses visible to other travelers.
type PublicUser struct {
	ID               string         `json:"id"`
	FullName         string         `json:"fullName"`
	Username         *string        `json:"username"`
	ProfileImage     *string        `json:"profileImage"`
	Bio              *string        `json:"bio"`
	Interests        pq.StringArray `json:"interests"`
	VisitedCountries pq.StringArray `json:"visitedCountries"`
	CurrentLocation  *string        `json:"currentLocation"`
	VerifiedBadge    bool           `json:"verifiedBadge"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		FullName:         u.FullName,
		Username:         u.Username,
		ProfileImage:     u.ProfileImage,
		Bio:              u.Bio,
		Interests:        u.Interests,
		VisitedCountries: u.VisitedCountries,
		CurrentLocation:  u.CurrentLocation,
		VerifiedBadge:    u.VerifiedBadge,
		CreatedAt:        u.CreatedAt,
	}
}
