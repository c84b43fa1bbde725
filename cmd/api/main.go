package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/russellmoss/dashboard-api/internal/application/analytics"
	"github.com/russellmoss/dashboard-api/internal/application/auth"
	"github.com/russellmoss/dashboard-api/internal/application/refresh"
	"github.com/russellmoss/dashboard-api/internal/application/usecase"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/cache"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/pipeline"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/postgres"
	"github.com/russellmoss/dashboard-api/internal/infrastructure/warehouse"
	httpRouter "github.com/russellmoss/dashboard-api/internal/interfaces/http"
	"github.com/russellmoss/dashboard-api/pkg/config"
	"github.com/russellmoss/dashboard-api/pkg/logger"
	"github.com/russellmoss/dashboard-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	met := metrics.New(registry)

	// Caché: Redis si está configurado, memoria si no (dev / single node).
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	backend := cache.NewBackend(ctx, redisClient)
	cacheGateway := cache.NewGateway(backend, cfg.Cache.MaxValueBytes, log, met)

	userRepo := postgres.NewUserRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	scoreRepo := postgres.NewGameScoreRepository(pool)
	runRepo := postgres.NewRefreshRunRepository(pool)

	pipelineClient := pipeline.NewClient(cfg.Pipeline)
	warehouseClient := warehouse.NewClient(cfg.Warehouse)

	coordinator := refresh.NewCoordinator(runRepo, pipelineClient, cacheGateway, refresh.Config{
		CooldownWindow:    cfg.Refresh.CooldownWindow,
		EstimatedDuration: cfg.Refresh.EstimatedDuration,
		PipelineParentID:  cfg.Pipeline.ParentID,
	}, log, met)

	anonymizer := access.NewAnonymizer(cfg.App.AnonymizerSalt)
	analyticsSvc := analytics.NewService(
		warehouseClient, cacheGateway, anonymizer,
		cfg.Cache.AggregateTTL, cfg.Cache.DetailTTL, log,
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	goalUC := usecase.NewGoalUseCase(goalRepo)
	requestUC := usecase.NewRequestUseCase(requestRepo)
	scoreUC := usecase.NewScoreUseCase(scoreRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		Analytics:       analyticsSvc,
		Refresh:         coordinator,
		Cache:           cacheGateway,
		UserUC:          userUC,
		GoalUC:          goalUC,
		RequestUC:       requestUC,
		ScoreUC:         scoreUC,
		JWTSecret:       cfg.JWT.Secret,
		SchedulerSecret: cfg.Scheduler.Secret,
		Registry:        registry,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info().Msg("aplicación detenida")
}
