package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	ReactionLike  = "LIKE"
	ReactionLove  = "LOVE"
	ReactionWow   = "WOW"
	ReactionSad   = "SAD"
	ReactionAngry = "ANGRY"
)

/*

Post is a piece of social content authored by a traveler

Content: plain text body
Images: uploaded image URLs, stored as text[]

Reactions / Saves: one row per (post, user), enforced by unique index
Shares / Comments: append-only

*/

type Post struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	Images    pq.StringArray `gorm:"type:text[]" json:"images"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`

	Reactions []PostReaction `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"reactions,omitempty"`
	Saves     []PostSave     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"saves,omitempty"`
	Shares    []PostShare    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"shares,omitempty"`
	Comments  []PostComment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PostReaction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_reaction_user" json:"postId"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_reaction_user" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Type      string    `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *PostReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type PostSave struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_save_user" json:"postId"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE" json:"post,omitempty"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_save_user" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *PostSave) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type PostShare struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"postId"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *PostShare) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type PostComment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"postId"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *PostComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func ValidReactionType(s string) bool {
	switch s {
	case ReactionLike, ReactionLove, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}
