package api

import (
	"net/http"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the router exposes.
type Services struct {
	Auth          service.AuthService
	Subscriptions service.SubscriptionService
	SelfTraining  service.SelfTrainingService
	Habits        service.HabitService
}

// NewRouter builds the gin engine with logging, recovery, CORS and all routes.
func NewRouter(services Services, logger *zap.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(logger), RequestLogger(logger), cors.New(corsConfig(allowedOrigins)))
	SetupRoutes(router, services)
	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	subscriptionHandler := NewSubscriptionHandler(services.Subscriptions)
	selfTrainingHandler := NewSelfTrainingHandler(services.SelfTraining)
	habitHandler := NewHabitHandler(services.Habits)

	authMiddleware := AuthMiddleware(services.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
	}

	// Package catalogue is public.
	apiGroup.GET("/self-training/packages", subscriptionHandler.ListActivePackages)

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)

	selfTraining := protected.Group("/self-training")
	selfTraining.Use(RequireCapability(domain.CapUseSelfTraining))
	{
		selfTraining.GET("/my-subscription", subscriptionHandler.MySubscription)
		selfTraining.POST("/assessment", selfTrainingHandler.SaveAssessment)
		selfTraining.GET("/assessment", selfTrainingHandler.GetAssessment)
		selfTraining.POST("/complete-assessment", selfTrainingHandler.CompleteAssessment)
		selfTraining.GET("/my-plan", selfTrainingHandler.GetMyPlan)
		selfTraining.POST("/my-plan/export", selfTrainingHandler.ExportPlan)
		selfTraining.GET("/my-plans", selfTrainingHandler.ListMyPlans)
		selfTraining.GET("/plans/:id", selfTrainingHandler.GetPlan)
	}

	admin := protected.Group("/admin/self-training")
	{
		packages := admin.Group("/packages")
		packages.Use(RequireCapability(domain.CapManagePackages))
		{
			packages.GET("", subscriptionHandler.ListAllPackages)
			packages.POST("", subscriptionHandler.CreatePackage)
			packages.GET("/:id", subscriptionHandler.GetPackage)
			packages.PUT("/:id", subscriptionHandler.UpdatePackage)
			packages.DELETE("/:id", subscriptionHandler.DeletePackage)
		}

		subscriptions := admin.Group("/subscriptions")
		subscriptions.Use(RequireCapability(domain.CapGrantSubscriptions))
		{
			subscriptions.POST("", subscriptionHandler.Grant)
			subscriptions.PUT("/:id/cancel", subscriptionHandler.Cancel)
		}

		admin.GET("/stats", RequireCapability(domain.CapViewSelfTrainingStats), selfTrainingHandler.Stats)
	}

	habits := protected.Group("/habits")
	{
		habits.GET("", habitHandler.List)
		habits.POST("", habitHandler.Create)
		habits.GET("/stats", habitHandler.Stats)
		habits.POST("/:id/toggle", habitHandler.Toggle)
		habits.DELETE("/:id", habitHandler.Delete)
	}
}
