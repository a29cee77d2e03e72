package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wissamraji-ui/mathtutor-backend/internal/config"
	"github.com/wissamraji-ui/mathtutor-backend/internal/db"
	"github.com/wissamraji-ui/mathtutor-backend/internal/http/handlers"
	"github.com/wissamraji-ui/mathtutor-backend/internal/http/middleware"
	"github.com/wissamraji-ui/mathtutor-backend/internal/observability"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/envutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/openai"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/qdrant"
	"github.com/wissamraji-ui/mathtutor-backend/internal/repos"
	"github.com/wissamraji-ui/mathtutor-backend/internal/server"
	"github.com/wissamraji-ui/mathtutor-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Error("Config load failed", "error", err)
		os.Exit(1)
	}

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "mathtutor-backend",
		Environment: cfg.Server.Mode,
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional; plan cache and rate limiting degrade without it)
	var cache *redis.Client
	if addr := envutil.String("REDIS_ADDR", ""); addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, continuing without cache", "error", err)
			cache = nil
		}
	}

	// Repos
	log.Info("Setting up repos...")
	courseRepo := repos.NewCourseRepo(thePG, log)
	documentRepo := repos.NewDocumentRepo(thePG, log)
	documentChunkRepo := repos.NewDocumentChunkRepo(thePG, log)
	subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)

	// Upstream clients
	log.Info("Setting up upstream clients...")
	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	vectorStore, err := qdrant.NewVectorStore(log, qdrant.ConfigFromEnv())
	if err != nil {
		log.Error("Could not init vector store", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services...")
	planService := services.NewPlanService(thePG, log, subscriptionRepo, cache)
	retrievalService := services.NewRetrievalService(thePG, log, aiClient, vectorStore, documentChunkRepo, documentRepo)
	ingestService := services.NewIngestService(thePG, log, aiClient, vectorStore, courseRepo, documentRepo, documentChunkRepo)
	tutorService := services.NewTutorService(log, aiClient, planService, retrievalService, cfg.Retrieval.TopK)

	// Handlers
	log.Info("Setting up handlers...")
	chatHandler := handlers.NewChatHandler(log, tutorService)
	practiceHandler := handlers.NewPracticeHandler(log, tutorService)
	retrieveHandler := handlers.NewRetrieveHandler(log, retrievalService)
	documentHandler := handlers.NewDocumentHandler(log, ingestService)
	courseHandler := handlers.NewCourseHandler(log, courseRepo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.Auth.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(log, cache, cfg.RateLimit.RequestsPerMinute)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		Mode:            cfg.Server.Mode,
		CORSOrigins:     cfg.Server.CORSOrigins,
		AuthMiddleware:  authMiddleware,
		RateLimiter:     rateLimiter,
		ChatHandler:     chatHandler,
		PracticeHandler: practiceHandler,
		RetrieveHandler: retrieveHandler,
		DocumentHandler: documentHandler,
		CourseHandler:   courseHandler,
	})

	log.Info("Server listening", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
