package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/flashlearn/mooc-service/docs"
	"github.com/flashlearn/mooc-service/internal/auth"
	"github.com/flashlearn/mooc-service/internal/config"
	"github.com/flashlearn/mooc-service/internal/handlers"
	"github.com/flashlearn/mooc-service/internal/logger"
	"github.com/flashlearn/mooc-service/internal/middleware"
	"github.com/flashlearn/mooc-service/internal/queue"
	"github.com/flashlearn/mooc-service/internal/repositories"
	"github.com/flashlearn/mooc-service/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title FlashLearn MOOC API
// @version 1.0
// @description Courses built from flashcard decks: enrollment, progress tracking and deck unlocking

// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting MOOC Service API")

	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis holds unlock overrides and backs the event queue
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize repositories
	transactor := repositories.NewTransactor(db)
	moocRepo := repositories.NewMoocRepository(db)
	deckRepo := repositories.NewDeckRepository(db)
	cardRepo := repositories.NewCardRepository(db)
	classRepo := repositories.NewClassRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	overrideRepo := repositories.NewUnlockOverrideRepository(rdb)

	publisher := queue.NewPublisher(asynqClient)

	// Initialize services
	moocService := services.NewMoocService(
		transactor,
		moocRepo,
		deckRepo,
		cardRepo,
		classRepo,
		enrollmentRepo,
		overrideRepo,
		publisher,
		logger.Logger,
	)
	enrollmentService := services.NewEnrollmentService(transactor, moocRepo, classRepo, enrollmentRepo, publisher, logger.Logger)
	unlockService := services.NewUnlockService(moocRepo, overrideRepo, logger.Logger)
	notificationService := services.NewNotificationService(notificationRepo, moocRepo, classRepo, logger.Logger)

	// Initialize handlers
	moocHandler := handlers.NewMoocHandler(moocService, logger.Logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, unlockService, logger.Logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger.Logger)

	authMiddleware := middleware.AuthMiddleware(auth.NewTokenValidator(cfg.JWT.Secret))

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))
	r.Get("/health", healthHandler(db, rdb))

	moocHandler.RegisterRoutes(r, authMiddleware)
	enrollmentHandler.RegisterRoutes(r, authMiddleware)
	notificationHandler.RegisterRoutes(r, authMiddleware)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// healthHandler reports whether MySQL and Redis are reachable
func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"redis unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations applies the schema migrations in migrations/
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "mooc_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
