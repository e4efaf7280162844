package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"workspace-service/internal/config"
	"workspace-service/internal/generation"
	"workspace-service/internal/handler"
	"workspace-service/internal/notify"
	"workspace-service/internal/repository/BlackListRepo"
	"workspace-service/internal/repository/documentRepo"
	"workspace-service/internal/repository/refreshToken"
	"workspace-service/internal/repository/userRepo"
	"workspace-service/internal/repository/workspaceRepo"
	"workspace-service/internal/service"
	"workspace-service/internal/service/agentService"
	"workspace-service/internal/service/fileService"
	"workspace-service/internal/service/workspaceService"
	"workspace-service/internal/storage"
	"workspace-service/pkg/database/postgres"
	"workspace-service/pkg/database/redis"
	"workspace-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, err := logger.New(ctx)
	if err != nil {
		panic(err)
	}
	log := logger.GetLogger(ctx)

	cfg, err := config.New()
	if err != nil {
		log.Fatal("Error loading config", zap.Error(err))
	}

	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.New(cfg.Redis)
	defer redisClient.Close()

	objectStore, err := storage.New(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal("Failed to connect to object storage", zap.Error(err))
	}

	authSvc := service.NewAuthService(
		userRepo.New(pool),
		cfg.JWTSecret,
		refreshToken.New(redisClient),
		BlackListRepo.NewBlackListRepo(redisClient),
	)

	wsRepo := workspaceRepo.New(pool)
	docRepo := documentRepo.New(pool)
	workspaceSvc := workspaceService.New(wsRepo)

	genClient := generation.New(cfg.Generation)
	publisher := notify.NewPublisher(redisClient)

	editSvc := service.NewEditService(workspaceSvc, docRepo, genClient, publisher, log.Zap())
	fileSvc := fileService.New(docRepo, workspaceSvc, objectStore, cfg.MaxFileSize, log.Zap())
	agentSvc := agentService.New(workspaceSvc, docRepo, editSvc,
		func(model string) agentService.Generator { return genClient.WithModel(model) },
		log.Zap())

	router := handler.NewRouter(
		handler.NewAuthHandler(authSvc),
		handler.NewWorkspaceHandler(workspaceSvc),
		handler.NewFileHandler(fileSvc),
		handler.NewAgentHandler(agentSvc),
		authSvc,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("Server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
