package server

import (
	"gorm.io/gorm"

	"travelbuddy-server/externals"
)

// Handler carries the shared dependencies of every route handler.
type Handler struct {
	DB     *gorm.DB
	Images externals.ImageStore
}

func NewHandler(db *gorm.DB, images externals.ImageStore) *Handler {
	if images == nil {
		images = externals.FakeImageStore{}
	}
	return &Handler{DB: db, Images: images}
}
