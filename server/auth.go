package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"travelbuddy-server/externals"
	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
	"travelbuddy-server/utils/dotenv"
	"travelbuddy-server/utils/log"
)

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type resetPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

func setAuthCookies(c *gin.Context, pair *utils.TokenPair) {
	secure := dotenv.IsProduction()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", pair.AccessToken, int(utils.AccessTokenTTL().Seconds()), "/", "", secure, true)
	c.SetCookie("refreshToken", pair.RefreshToken, int(utils.RefreshTokenTTL().Seconds()), "/", "", secure, true)
}

func clearAuthCookies(c *gin.Context) {
	secure := dotenv.IsProduction()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", "", -1, "/", "", secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", secure, true)
}

// Login verifies credentials and issues the token pair as httpOnly
// cookies. Banned accounts cannot log in.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("email and password are required"))
		return
	}

	var user model.User
	err := h.DB.Where("email = ?", input.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(user.Password, input.Password)) {
		c.Error(utils.Unauthorized("invalid email or password"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	if user.UserStatus != model.UserStatusActive {
		c.Error(utils.Forbidden("your account is not active"))
		return
	}

	pair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		c.Error(err)
		return
	}
	if err := utils.StoreRefreshToken(pair.RefreshToken, utils.RefreshTokenTTL()); err != nil {
		c.Error(err)
		return
	}

	setAuthCookies(c, pair)
	utils.SendResponse(c, http.StatusOK, "logged in successfully", gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// RefreshToken rotates the refresh token. The presented token must be
// valid, on the allowlist, and belong to an active user.
func (h *Handler) RefreshToken(c *gin.Context) {
	tokenString, err := c.Cookie("refreshToken")
	if err != nil || tokenString == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			tokenString = body.RefreshToken
		}
	}
	if tokenString == "" {
		c.Error(utils.Unauthorized("refresh token is required"))
		return
	}

	claims, err := utils.ParseRefreshToken(tokenString)
	if err != nil || !utils.IsRefreshTokenAllowed(tokenString) {
		c.Error(utils.Unauthorized("invalid refresh token"))
		return
	}

	var user model.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.Error(utils.Unauthorized("invalid refresh token"))
		return
	}
	if user.UserStatus != model.UserStatusActive {
		c.Error(utils.Forbidden("your account is not active"))
		return
	}

	pair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		c.Error(err)
		return
	}

	// Rotation: the old token is revoked before the new one is stored so
	// a stolen token cannot be replayed after a legitimate refresh.
	if err := utils.RevokeRefreshToken(tokenString); err != nil {
		log.Log.WithError(err).Warn("failed to revoke rotated refresh token")
	}
	if err := utils.StoreRefreshToken(pair.RefreshToken, utils.RefreshTokenTTL()); err != nil {
		c.Error(err)
		return
	}

	setAuthCookies(c, pair)
	utils.SendResponse(c, http.StatusOK, "token refreshed", gin.H{"tokens": pair})
}

// Logout revokes the refresh token and clears both cookies.
func (h *Handler) Logout(c *gin.Context) {
	if tokenString, err := c.Cookie("refreshToken"); err == nil && tokenString != "" {
		if err := utils.RevokeRefreshToken(tokenString); err != nil {
			log.Log.WithError(err).Warn("failed to revoke refresh token on logout")
		}
	}
	clearAuthCookies(c)
	utils.SendResponse(c, http.StatusOK, "logged out successfully", nil)
}

// Me returns the authenticated user's own record.
func (h *Handler) Me(c *gin.Context) {
	var user model.User
	if err := h.DB.First(&user, "id = ?", middlewares.CurrentUserID(c)).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "user fetched successfully", user)
}

// ChangePassword verifies the old password before storing the new hash.
// All refresh sessions survive; only the credential changes.
func (h *Handler) ChangePassword(c *gin.Context) {
	var input changePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("old and new passwords are required"))
		return
	}

	var user model.User
	if err := h.DB.First(&user, "id = ?", middlewares.CurrentUserID(c)).Error; err != nil {
		c.Error(err)
		return
	}
	if !utils.CheckPassword(user.Password, input.OldPassword) {
		c.Error(utils.Unauthorized("old password is incorrect"))
		return
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.DB.Model(&user).Update("password", hash).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "password changed successfully", nil)
}

// ResetPassword generates a temporary password and mails it to the
// account owner. The response is identical whether or not the account
// exists.
func (h *Handler) ResetPassword(c *gin.Context) {
	var input resetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("email is required"))
		return
	}

	const response = "if the account exists, a new password has been sent"

	var user model.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.SendResponse(c, http.StatusOK, response, nil)
		return
	}

	tempPassword := utils.RandomAlphabetString(12)
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.DB.Model(&user).Update("password", hash).Error; err != nil {
		c.Error(err)
		return
	}

	body := "Your TravelBuddy password was reset at " + time.Now().Format(time.RFC1123) +
		".\n\nTemporary password: " + tempPassword +
		"\n\nPlease change it right after logging in."
	if err := externals.SendEmail(user.FullName, user.Email, "Password reset", body); err != nil {
		log.Log.WithError(err).Error("failed to send password reset mail")
	}

	utils.SendResponse(c, http.StatusOK, response, nil)
}
