// File: /routes/routes.go
package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"globe-travel-api/config"
	"globe-travel-api/controllers"
	"globe-travel-api/database"
	"globe-travel-api/middleware"
	"globe-travel-api/repositories"
	"globe-travel-api/services"
)

func SetupRoutes(r *gin.Engine, store database.Store, cfg *config.Config, sessions *services.SessionService, emailService *services.EmailService) error {
	storage, err := services.NewMediaStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	// Repositories and services
	locationRepo := repositories.NewLocationRepository(store)
	mediaRepo := repositories.NewMediaRepository(store)
	tripRepo := repositories.NewTripRepository(store)

	locationService := services.NewLocationService(locationRepo, mediaRepo, storage)
	tripService := services.NewTripService(tripRepo, locationRepo)

	// Controllers
	healthController := controllers.NewHealthController(store)
	locationController := controllers.NewLocationController(locationService)
	mediaController := controllers.NewMediaController(locationRepo, mediaRepo, storage)
	commentController := controllers.NewCommentController(store, locationRepo)
	adviceController := controllers.NewAdviceController(store, locationRepo)
	tripController := controllers.NewTripController(tripService)
	authController := controllers.NewAuthController(store, sessions, emailService, cfg)
	groupController := controllers.NewGroupController(store)

	apiLimit := limiter(cfg, middleware.APIPolicy)
	uploadLimit := limiter(cfg, middleware.UploadPolicy)
	authLimit := limiter(cfg, middleware.AuthPolicy)
	optionalSession := middleware.OptionalSession(sessions)
	jsonBody := middleware.BodyLimit(10 << 20)

	r.Static("/uploads", storage.Dir())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(apiLimit)
	{
		api.GET("/health", healthController.Check)

		locations := api.Group("/locations", jsonBody)
		{
			locations.GET("", locationController.List)
			locations.POST("", locationController.Create)
			locations.GET("/:id", locationController.Get)
			locations.PUT("/:id", locationController.Update)
			locations.DELETE("/:id", locationController.Delete)
			locations.POST("/:id/like", locationController.Like)
			locations.POST("/:id/dislike", locationController.Dislike)
			locations.POST("/:id/share", locationController.Share)
			locations.POST("/:id/checkin", optionalSession, locationController.Checkin)
			locations.GET("/:id/visitors", locationController.Visitors)
		}

		media := api.Group("/media")
		{
			media.POST("/:locationId", uploadLimit, middleware.BodyLimit(controllers.MaxUploadBody), mediaController.Upload)
			media.DELETE("/:id", mediaController.Delete)
		}

		comments := api.Group("/comments", jsonBody)
		{
			comments.GET("/location/:id", commentController.ListByLocation)
			comments.POST("", commentController.Create)
			comments.DELETE("/:id", commentController.Delete)
		}

		advice := api.Group("/advice", jsonBody)
		{
			advice.GET("", adviceController.List)
			advice.POST("", adviceController.Create)
			advice.DELETE("/:id", adviceController.Delete)
		}

		trips := api.Group("/trips", jsonBody)
		{
			trips.GET("", tripController.List)
			trips.POST("", tripController.Create)
			trips.GET("/:id", tripController.Get)
			trips.PUT("/:id", tripController.Update)
			trips.DELETE("/:id", tripController.Delete)
			trips.POST("/:id/requests", tripController.AddRequest)
			trips.POST("/requests/:requestId/responses", tripController.AddResponse)
		}

		auth := api.Group("/auth", jsonBody)
		{
			auth.POST("/signup", authLimit, authController.Signup)
			auth.POST("/verify-otp", authLimit, authController.VerifyOTP)
			auth.POST("/resend-otp", authLimit, authController.ResendOTP)
			auth.POST("/login", authLimit, authController.Login)
			auth.POST("/logout", middleware.SessionAuth(sessions), authController.Logout)
			auth.GET("/me", middleware.SessionAuth(sessions), authController.Me)
		}

		groups := api.Group("/groups", jsonBody)
		{
			groups.POST("", optionalSession, groupController.Create)
			groups.GET("/:id", groupController.Get)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return nil
}

func limiter(cfg *config.Config, policy middleware.RateLimitPolicy) gin.HandlerFunc {
	if !cfg.RateLimitEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(policy)
}
