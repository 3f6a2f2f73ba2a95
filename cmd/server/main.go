package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/projectpulse/backend/api/handler"
	"github.com/projectpulse/backend/internal/config"
	"github.com/projectpulse/backend/internal/infrastructure/activity"
	"github.com/projectpulse/backend/internal/infrastructure/monitor"
	pgInfra "github.com/projectpulse/backend/internal/infrastructure/postgres"
	redisInfra "github.com/projectpulse/backend/internal/infrastructure/redis"
	"github.com/projectpulse/backend/internal/middleware"
	"github.com/projectpulse/backend/internal/router"
	"github.com/projectpulse/backend/internal/services"
	"github.com/projectpulse/backend/internal/services/lifecycle"
	"github.com/projectpulse/backend/pkg/httpcontext"
	"github.com/projectpulse/backend/pkg/logger"
	"github.com/projectpulse/backend/repository/postgres"
	redisRepo "github.com/projectpulse/backend/repository/redis"
	commentUC "github.com/projectpulse/backend/usecase/comment"
	searchUC "github.com/projectpulse/backend/usecase/search"
	taskUC "github.com/projectpulse/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journal, err := activity.Open(cfg.Activity.Path, "activity")
	if err != nil {
		zapLogger.Fatal("failed to open activity journal", zap.Error(err))
	}
	manager.Register("activity_journal", func(ctx context.Context) error {
		return journal.Close()
	})

	mon := monitor.New(pool, redisClient, journal, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sweeper := services.NewActivitySweeper(journal, zapLogger, services.SweeperConfig{
		Interval:  cfg.Activity.SweepInterval,
		Retention: cfg.Activity.Retention,
	})
	sweeper.Start()
	manager.Register("activity_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	taskRepo := postgres.NewTaskRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	searchRepo := postgres.NewSearchRepository(pool)
	userRepo := redisRepo.NewIdentityCache(
		redisClient,
		postgres.NewUserRepository(pool),
		cfg.Redis.IdentityTTL,
	)

	journalBridge := services.NewActivityBridge(journal)

	taskUseCase := taskUC.New(taskRepo, journalBridge, zapLogger)
	commentUseCase := commentUC.New(commentRepo, taskRepo, userRepo, zapLogger)
	searchUseCase := searchUC.New(searchRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Comment: apiHandler.NewCommentHandler(commentUseCase, ctxAdapter, zapLogger),
		Search:  apiHandler.NewSearchHandler(searchUseCase, ctxAdapter, zapLogger),
		Project: apiHandler.NewProjectHandler(projectRepo, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(userRepo, teamRepo, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
