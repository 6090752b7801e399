package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/database"
	"github.com/aeroprep/aeroprep-backend/internal/handler"
	"github.com/aeroprep/aeroprep-backend/internal/logger"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/router"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/aeroprep/aeroprep-backend/internal/session"
	"github.com/aeroprep/aeroprep-backend/internal/validator"
	"github.com/aeroprep/aeroprep-backend/internal/worker"
	"github.com/rs/zerolog"
)

// workerDrainWait gives the checkpoint worker time to flush its queue
// after its context is cancelled.
const workerDrainWait = 2 * time.Second

func main() {
	zerolog.TimeFieldFormat = time.RFC3339

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting AeroPrep Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories share one pgx pool.
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// The registry holds every live exam session in process memory. It
	// must be shared by the HTTP and WebSocket paths.
	registry := session.NewRegistry()

	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, attemptRepo, authService)
	adminService := service.NewAdminService(adminRepo, dashboardRepo, authService)
	questionService := service.NewQuestionService(questionRepo)
	examService := service.NewExamService(examRepo, questionRepo)
	sessionService := service.NewSessionService(registry, examRepo, questionRepo, attemptRepo, rdb, log)
	statsService := service.NewStatsService(statsRepo, attemptRepo, rdb, log)
	certService := service.NewCertificateService(cfg, attemptRepo, userRepo, examRepo)

	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, userService, adminService),
		Question:    handler.NewQuestionHandler(questionService),
		Exam:        handler.NewExamHandler(examService),
		Session:     handler.NewSessionHandler(sessionService, questionService),
		Stats:       handler.NewStatsHandler(statsService, userService),
		Certificate: handler.NewCertificateHandler(certService),
		UserMgmt:    handler.NewUserManagementHandler(userService, authService),
		Dashboard:   handler.NewDashboardHandler(adminService),
		WS:          handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// Workers run on their own context so HTTP shutdown and worker
	// shutdown can be sequenced independently.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go worker.NewCheckpointWorker(pool, rdb, log).Start(workerCtx)
	go worker.NewLeaderboardWorker(statsService, rdb, cfg.LeaderboardRefresh, log).Start(workerCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router.SetupRouter(authService, handlers, cfg),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		serveErr <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}

	// Drain HTTP first, then workers, so late submissions can still
	// enqueue checkpoints before the queue is flushed.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	stopWorkers()
	time.Sleep(workerDrainWait)

	log.Info().Msg("Shutdown complete")
}
