package server

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"travelbuddy-server/externals"
	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils/dotenv"
)

func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowCredentials = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	config.MaxAge = 12 * time.Hour

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.AllowOrigins = strings.Split(origins, ",")
	} else if dotenv.IsProduction() {
		config.AllowOrigins = []string{"https://travelbuddy.app"}
	} else {
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	}
	return config
}

// SetupRouter wires every route group onto a fresh gin engine.
func SetupRouter(db *gorm.DB, images externals.ImageStore) *gin.Engine {
	if dotenv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(corsConfig()))
	router.Use(middlewares.ErrorHandler())

	h := NewHandler(db, images)

	startedAt := time.Now()
	router.GET("/", func(c *gin.Context) {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": env,
			"uptime":      fmt.Sprintf("%.0fs", time.Since(startedAt).Seconds()),
		})
	})

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh-token", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middlewares.CheckAuth(), h.Me)
		auth.POST("/change-password", middlewares.CheckAuth(), h.ChangePassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	user := api.Group("/user")
	{
		user.POST("/create-user", h.CreateUser)
		user.GET("", middlewares.CheckAuth(model.RoleAdmin, model.RoleSuperAdmin), h.ListUsers)
		user.GET("/:id", middlewares.CheckAuth(), h.GetUser)
		user.GET("/:id/profile", h.GetPublicProfile)
		user.PATCH("/:id", middlewares.CheckAuth(), h.UpdateUser)
		user.PATCH("/:id/role", middlewares.CheckAuth(model.RoleSuperAdmin), h.UpdateUserRole)
		user.DELETE("/:id", middlewares.CheckAuth(), h.DeleteUser)
	}

	plans := api.Group("/travelPlans", middlewares.CheckAuth())
	{
		plans.POST("", h.CreateTravelPlan)
		plans.GET("", h.ListTravelPlans)
		plans.GET("/me", h.MyTravelPlans)
		plans.GET("/:id", h.GetTravelPlan)
		plans.PATCH("/:id", h.UpdateTravelPlan)
		plans.DELETE("/:id", h.DeleteTravelPlan)
		plans.POST("/:id/request", h.RequestToJoin)
		plans.GET("/:id/requests", h.ListJoinRequests)
		plans.POST("/:id/requests/:requestId/respond", h.RespondToJoinRequest)
	}

	matches := api.Group("/travelMatches", middlewares.CheckAuth())
	{
		matches.POST("/:id/matches/generate", h.GenerateMatches)
		matches.GET("", middlewares.CheckAuth(model.RoleAdmin, model.RoleSuperAdmin), h.AdminListMatches)
		matches.GET("/:id/matches", h.ListMatchesForPlan)
		matches.GET("/matches/me", h.MyMatches)
		matches.DELETE("/matches/:id", h.DeleteMatch)
	}

	posts := api.Group("/posts", middlewares.CheckAuth())
	{
		posts.POST("", h.CreatePost)
		posts.GET("", h.ListPosts)
		posts.GET("/me", h.MyPosts)
		posts.GET("/saved/me", h.MySavedPosts)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/react", h.ReactToPost)
		posts.DELETE("/:id/react", h.RemoveReaction)
		posts.POST("/:id/save", h.SavePost)
		posts.DELETE("/:id/save", h.UnsavePost)
		posts.POST("/:id/share", h.SharePost)
		posts.POST("/:id/comments", h.CreateComment)
		posts.GET("/:id/comments", h.ListComments)
		posts.PATCH("/:id/comments/:commentId", h.UpdateComment)
		posts.DELETE("/:id/comments/:commentId", h.DeleteComment)
	}

	meetups := api.Group("/meetups", middlewares.CheckAuth())
	{
		meetups.POST("", h.CreateMeetup)
		meetups.GET("", h.ListMeetups)
		meetups.GET("/:id", h.GetMeetup)
		meetups.PATCH("/:id", h.UpdateMeetup)
		meetups.DELETE("/:id", h.DeleteMeetup)
		meetups.POST("/:id/join", h.JoinMeetup)
		meetups.DELETE("/:id/leave", h.LeaveMeetup)
		meetups.GET("/:id/members", h.ListMeetupMembers)
	}

	reviews := api.Group("/reviews", middlewares.CheckAuth())
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("", middlewares.CheckAuth(model.RoleAdmin, model.RoleSuperAdmin), h.AdminListReviews)
		reviews.GET("/user/:userId", h.ListReviewsForUser)
		reviews.GET("/plan/:planId", h.ListReviewsForPlan)
		reviews.GET("/me", h.MyReviews)
		reviews.GET("/:id", h.GetReview)
		reviews.PATCH("/:id", h.UpdateReview)
		reviews.DELETE("/:id", h.DeleteReview)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/create-session", middlewares.CheckAuth(), h.CreateCheckoutSession)
		payments.GET("/verify-session/:sessionId", middlewares.CheckAuth(), h.VerifyCheckoutSession)
		payments.POST("/webhook", h.StripeWebhook)
		payments.GET("/me", middlewares.CheckAuth(), h.MyPayments)
		payments.GET("/subscription/me", middlewares.CheckAuth(), h.MySubscription)
	}

	explore := api.Group("/explore")
	{
		explore.GET("/plans", h.ExploreTravelPlans)
		explore.GET("/travelers", h.ExploreTravelers)
	}

	admin := api.Group("/admin", middlewares.CheckAuth(model.RoleAdmin, model.RoleSuperAdmin))
	{
		admin.GET("/users", h.AdminListUsers)
		admin.PATCH("/users/:id/status", h.AdminUpdateUserStatus)
		admin.GET("/travelPlans", h.AdminListTravelPlans)
		admin.DELETE("/travelPlans/:id", h.DeleteTravelPlan)
		admin.GET("/payments", h.AdminListPayments)
		admin.GET("/subscriptions", h.AdminListSubscriptions)
		admin.GET("/stats", h.AdminStats)
	}

	api.POST("/contact", h.SubmitContact)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
		})
	})

	return router
}
