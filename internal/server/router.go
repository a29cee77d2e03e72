package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/wissamraji-ui/mathtutor-backend/internal/http/handlers"
	"github.com/wissamraji-ui/mathtutor-backend/internal/http/middleware"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	Mode            string
	CORSOrigins     []string
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimiter
	ChatHandler     *handlers.ChatHandler
	PracticeHandler *handlers.PracticeHandler
	RetrieveHandler *handlers.RetrieveHandler
	DocumentHandler *handlers.DocumentHandler
	CourseHandler   *handlers.CourseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("mathtutor"))
	router.Use(middleware.RequestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Tutoring
		tutoring := api.Group("/")
		tutoring.Use(cfg.RateLimiter.Limit())
		tutoring.POST("/chat", cfg.ChatHandler.Chat)
		tutoring.POST("/practice/generate", cfg.PracticeHandler.Generate)

		// Retrieval inspection
		api.POST("/retrieve", cfg.RetrieveHandler.Retrieve)

		// Courses
		api.GET("/courses", cfg.CourseHandler.List)

		// Admin
		admin := api.Group("/")
		admin.Use(cfg.AuthMiddleware.RequireRole(middleware.RoleAdmin))
		admin.POST("/courses", cfg.CourseHandler.Create)
		admin.POST("/documents", cfg.DocumentHandler.Upload)
		admin.DELETE("/documents/:id", cfg.DocumentHandler.Delete)
	}

	return router
}
