package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"travelbuddy-server/model"
	"travelbuddy-server/utils"
	"travelbuddy-server/utils/dotenv"
	"travelbuddy-server/utils/log"
)

const (
	// Context keys set by CheckAuth for downstream handlers.
	ContextUserIDKey = "authUserID"
	ContextRoleKey   = "authRole"
	ContextEmailKey  = "authEmail"
)

// CheckAuth guards a route group behind a valid access token. The token
// is read from the accessToken cookie first, then from a Bearer header.
// When roles are given, the caller's role must be one of them.
func CheckAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			abortUnauthorized(c, "you are not authorized")
			return
		}

		claims, err := utils.ParseAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "you are not authorized")
			return
		}

		if len(roles) > 0 && !utils.ContainsString(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "you are not permitted to access this resource",
			})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// CurrentUserID returns the authenticated user id set by CheckAuth.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}

// CurrentRole returns the authenticated role set by CheckAuth.
func CurrentRole(c *gin.Context) string {
	return c.GetString(ContextRoleKey)
}

// IsAdmin reports whether the caller holds an admin role.
func IsAdmin(c *gin.Context) bool {
	role := CurrentRole(c)
	return role == model.RoleAdmin || role == model.RoleSuperAdmin
}

// ErrorHandler translates errors attached to the context into the
// uniform failure envelope. Handlers report failures with c.Error and
// return; this middleware decides status code and body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		message := "something went wrong"

		var appErr *utils.AppError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Code
			message = appErr.Message
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "resource not found"
		case utils.IsUniqueViolation(err):
			status = http.StatusConflict
			message = "resource already exists"
		}

		if status >= http.StatusInternalServerError {
			log.Log.WithError(err).Error("request failed")
		}

		body := gin.H{"success": false, "message": message}
		if !dotenv.IsProduction() {
			body["error"] = err.Error()
		}
		c.JSON(status, body)
	}
}
