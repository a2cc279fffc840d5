package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chenhw7/MoonLight/internal/config"
	"github.com/chenhw7/MoonLight/internal/handlers"
	"github.com/chenhw7/MoonLight/internal/interview"
	"github.com/chenhw7/MoonLight/internal/jobs"
	"github.com/chenhw7/MoonLight/internal/llm"
	"github.com/chenhw7/MoonLight/internal/llm/gemini"
	"github.com/chenhw7/MoonLight/internal/llm/openai"
	"github.com/chenhw7/MoonLight/internal/models"
	"github.com/chenhw7/MoonLight/internal/prompts"
	"github.com/chenhw7/MoonLight/internal/routers"
	"github.com/chenhw7/MoonLight/internal/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func initDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.InterviewSession{},
		&models.InterviewMessage{},
		&models.InterviewEvaluation{},
		&models.Resume{},
		&models.Education{},
		&models.WorkExperience{},
		&models.Project{},
		&models.Skill{},
		&models.AIConfig{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := initDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	st := store.NewStore(db)

	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("Failed to load prompt templates", zap.Error(err))
	}

	registry := llm.NewRegistry()
	openai.Register(registry)
	gemini.Register(registry)
	logger.Info("LLM providers registered", zap.Strings("providers", registry.Names()))

	service := interview.NewService(st, registry, promptManager, logger)

	sessionHandler := handlers.NewSessionHandler(service, logger)
	messageHandler := handlers.NewMessageHandler(service, logger)
	evaluationHandler := handlers.NewEvaluationHandler(service, logger)
	healthHandler := handlers.NewHealthHandler(db, registry, promptManager)

	reaper := jobs.NewSessionReaperJob(st, &jobs.ReaperConfig{
		Schedule: cfg.ReaperSchedule,
		Enabled:  cfg.ReaperEnabled,
		MaxIdle:  cfg.ReaperMaxIdle,
		Batch:    cfg.ReaperBatch,
	}, logger)
	if err := reaper.Start(); err != nil {
		logger.Error("Failed to start session reaper", zap.Error(err))
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-User-ID"},
		AllowCredentials: true,
	}))
	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)

	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, sessionHandler, messageHandler, evaluationHandler)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no write timeout: SSE turns stay open for as long as the model
		// keeps talking
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")
	reaper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
