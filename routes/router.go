package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/config"
	"github.com/hobbyhub/hobbyhub/controllers"
	"github.com/hobbyhub/hobbyhub/middleware"
	"github.com/hobbyhub/hobbyhub/services"
	"github.com/hobbyhub/hobbyhub/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	seeder := services.NewSeeder(db, cfg.AdminEmail, cfg.AdminPassword)

	authController := controllers.NewAuthController(db)
	hobbyController := controllers.NewHobbyController(db)
	forumController := controllers.NewForumController(db)
	adminController := controllers.NewAdminController(db, seeder)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	// Public catalog browsing
	api.GET("/hobbies/discover", hobbyController.Discover)
	api.GET("/hobbies/categories", hobbyController.Categories)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired())

	hobbies := authed.Group("/hobbies")
	hobbies.GET("/random", hobbyController.Random)
	hobbies.GET("/recommendations", hobbyController.Recommendations)
	hobbies.GET("/my", hobbyController.My)
	hobbies.GET("/:id", hobbyController.Get)
	hobbies.POST("/:id/follow", hobbyController.Follow)
	hobbies.DELETE("/:id/follow", hobbyController.Unfollow)

	hobbies.GET("/:id/forum", forumController.ListThread)
	hobbies.POST("/:id/forum", forumController.CreatePost)
	hobbies.POST("/:id/forum/:postId/replies", forumController.CreateReply)

	authed.GET("/activity", hobbyController.Activity)
	authed.GET("/users/current", authController.Me)
	authed.DELETE("/settings/account", authController.DeleteAccount)

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("/hobbies", adminController.ListHobbies)
	admin.POST("/hobbies", adminController.CreateHobby)
	admin.PUT("/hobbies/:id", adminController.UpdateHobby)
	admin.DELETE("/hobbies/:id", adminController.DeleteHobby)
	admin.DELETE("/hobbies/:id/forum/:postId", adminController.DeleteForumPost)
	admin.GET("/users", adminController.ListUsers)
	admin.DELETE("/users/:id", adminController.DeleteUser)
	admin.GET("/statistics", adminController.Statistics)
	admin.POST("/seed", adminController.Seed)

	return r
}
