package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"potd_board/internal/api"
	"potd_board/internal/app/service"
	"potd_board/internal/app/worker"
	"potd_board/internal/common/security"
	"potd_board/internal/domain/model"
	"potd_board/internal/domain/repository"
	"potd_board/internal/leetcode"
	"potd_board/internal/platform/cache"
	"potd_board/internal/platform/config"
	"potd_board/internal/platform/database"
	"potd_board/internal/platform/logger"
)

func main() {
	// 1. Configuration and logging
	config.Load()
	logger.Init(config.AppConfig.Debug)
	defer logger.Sync()
	log := logger.L()
	log.Info("Configuration loaded")

	// 2. JWT
	security.InitJWT()

	// 3. Database
	database.Connect()
	defer database.Close()
	database.Migrate()
	log.Info("Database connected")

	// 4. Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Info("Redis connected")

	// 5. Upstream client
	lcClient := leetcode.NewClient(
		config.AppConfig.LeetCodeBaseURL,
		config.AppConfig.UserAgent,
		config.AppConfig.UpstreamTimeout,
		config.AppConfig.UpstreamRetryAttempts,
	)
	defer lcClient.Close()

	// 6. Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	sessionRepo := repository.NewPgSessionRepository(database.DB)
	archiveRepo := repository.NewPgSubmissionArchiveRepository(database.DB)

	// 7. Queue and services
	pollQueue := worker.NewQueue(cache.RDB, config.AppConfig.PollQueueName)

	authService := service.NewAuthService(userRepo)
	potdService := service.NewPOTDService(lcClient, cache.RDB, config.AppConfig.POTDCacheTTL)
	referenceService := service.NewReferenceService(lcClient, config.AppConfig.LeetCodeBaseURL, cache.RDB, config.AppConfig.ReferenceCacheTTL)
	sessionService := service.NewSessionService(sessionRepo, model.SessionCredentials{
		LeetCodeSession: config.AppConfig.FallbackSession,
		CSRFToken:       config.AppConfig.FallbackCSRFToken,
	})
	submissionService := service.NewSubmissionService(
		lcClient,
		sessionService,
		archiveRepo,
		pollQueue,
		config.AppConfig.SubmitCheckAttempts,
		config.AppConfig.SubmitCheckInterval,
	)

	// 8. Poll worker (as a goroutine)
	pollWorker := worker.NewPollWorker(
		pollQueue,
		lcClient,
		sessionService,
		archiveRepo,
		potdService,
		config.AppConfig.WorkerPollAttempts,
		config.AppConfig.WorkerPollInterval,
	)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go pollWorker.Start(workerCtx)
	log.Info("Poll worker started")

	// 9. Router & HTTP server
	router := api.NewRouter(authService, potdService, referenceService, sessionService, submissionService)

	// The write deadline sits above the request timeout so a submit that
	// spends its whole inline check budget can still deliver the pending
	// response.
	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: config.AppConfig.RequestTimeout() + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop

	log.Info("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server and worker stopped gracefully")
}
