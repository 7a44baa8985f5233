package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Meetup is a hosted event travelers can join

MaxPeople: optional capacity cap, enforced under a row lock when a
traveler joins so concurrent joins cannot overshoot it
HostID: the host is not a member and cannot join their own meetup

Members: one row per (meetup, user), enforced by unique index

*/

type Meetup struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Location    string    `gorm:"not null" json:"location"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description *string   `json:"description"`
	MaxPeople   *int      `json:"maxPeople"`
	HostID      string    `gorm:"type:uuid;not null;index" json:"hostId"`
	Host        *User     `gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE" json:"host,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Members []MeetupMember `gorm:"foreignKey:MeetupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (m *Meetup) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type MeetupMember struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	MeetupID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_meetup_member" json:"meetupId"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_meetup_member" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *MeetupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
