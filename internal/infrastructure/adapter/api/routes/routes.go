package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/usecase"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/handler"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Credit     *handler.CreditHandler
	Question   *handler.QuestionHandler
	Comment    *handler.CommentHandler
	Generation *handler.GenerationHandler
	Health     *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, auth usecase.AuthUseCase) {
	requireAuth := middleware.Auth(auth)

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.GET("/status/database", h.Health.DatabaseStatus)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.GET("/me", requireAuth, h.Auth.Me)
	}

	userRoutes := api.Group("/users", requireAuth)
	{
		userRoutes.GET("/profile", h.User.GetProfile)
		userRoutes.PUT("/profile", h.User.UpdateProfile)
		userRoutes.PUT("/password", h.User.ChangePassword)
		userRoutes.GET("/stats", h.User.GetStats)
		userRoutes.DELETE("/account", h.User.DeactivateAccount)

		userRoutes.GET("/credits", h.Credit.GetCredits)
		userRoutes.POST("/credits/refresh", h.Credit.RefreshCredits)
		userRoutes.GET("/credits/history", h.Credit.History)
		userRoutes.POST("/credits/deduct", h.Credit.Deduct)
		userRoutes.PUT("/timezone", h.Credit.UpdateTimezone)
	}

	questionRoutes := api.Group("/questions")
	{
		questionRoutes.POST("/save", requireAuth, h.Question.Save)
		questionRoutes.GET("/saved", requireAuth, h.Question.ListSaved)
		questionRoutes.GET("/topics", h.Question.ListTopics)
		questionRoutes.POST("/generate", h.Question.LegacyGenerate)

		questionRoutes.GET("/:id/comments", h.Comment.List)
		questionRoutes.POST("/:id/comments", requireAuth, h.Comment.Add)
		questionRoutes.PUT("/:id/comments/:commentId", requireAuth, h.Comment.Update)
		questionRoutes.DELETE("/:id/comments/:commentId", requireAuth, h.Comment.Delete)
	}

	generationRoutes := api.Group("/generations", requireAuth)
	{
		generationRoutes.POST("", h.Generation.Generate)
		generationRoutes.POST("/regenerate", h.Generation.Regenerate)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Route not found",
			"message": fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path),
		})
	})
}

// SetupMiddlewares configures global middlewares for the API. A nil limiter
// disables rate limiting.
func SetupMiddlewares(
	router *gin.Engine,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	production bool,
	limiter middleware.Limiter,
) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger, timeProvider, production))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	if limiter != nil {
		rateLimit := middleware.RateLimit(limiter, logger)
		router.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				rateLimit(c)
				return
			}
			c.Next()
		})
	}
}
