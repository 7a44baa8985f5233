package server

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"travelbuddy-server/model"
	"travelbuddy-server/utils"
	"travelbuddy-server/utils/log"
)

// SeedSuperAdmin makes sure the super admin account from the
// environment exists. Called once on startup; a no-op when the account
// is already there or the variables are unset.
func SeedSuperAdmin(db *gorm.DB) error {
	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Log.Info("super admin seeding skipped: credentials not configured")
		return nil
	}

	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		FullName: "Super Admin",
		Email:    email,
		Password: hash,
		Role:     model.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			// Lost a startup race against another replica.
			return nil
		}
		return err
	}
	// Keep the operator account out of explore results. Done as an
	// update because zero-valued fields fall back to column defaults on
	// insert.
	if err := db.Model(&admin).Update("is_public", false).Error; err != nil {
		return err
	}

	log.Log.WithField("email", email).Info("super admin account seeded")
	return nil
}
