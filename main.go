package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/theleywin/feed-backend/src/cache"
	"github.com/theleywin/feed-backend/src/controllers"
	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/middleware"
	"github.com/theleywin/feed-backend/src/routes"
	"github.com/theleywin/feed-backend/src/social"
	"github.com/theleywin/feed-backend/src/store"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := lib.LoadConfig(*configPath)
	if err != nil {
		l := lib.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	lib.InitLogger(cfg.Log)
	logger := lib.L()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store
	if cfg.Mongo.URI != "" {
		client, err := lib.ConnectDB(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("error disconnecting from MongoDB")
			}
		}()

		mongoStore := store.NewMongoStore(client.Database(cfg.Mongo.Database), cfg.Mongo.Timeout)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to create indexes")
		}
		st = mongoStore
	} else {
		logger.Warn().Msg("MONGO_URI not configured; using in-memory store")
		st = store.NewMemoryStore()
	}

	var stats cache.StatsCache = cache.NoopCache{}
	if cfg.Redis.Address != "" {
		redisCache, err := cache.NewRedisStatsCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, stats cache disabled")
		} else {
			stats = redisCache
			logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
		}
	}
	defer stats.Close()

	svc := social.NewService(st, stats, social.Config{
		MaxAttempts: cfg.Social.MaxAttempts,
		RetryDelay:  cfg.Social.RetryDelay,
	})

	var rec *social.Reconciler
	if cfg.Reconciler.Interval > 0 {
		rec = social.NewReconciler(svc, cfg.Reconciler.Interval)
		rec.Start(ctx)
		logger.Info().Dur("interval", cfg.Reconciler.Interval).Msg("reconciler started")
	}

	tokens := lib.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handler := controllers.NewHandler(svc, st, tokens)

	app := fiber.New(fiber.Config{
		ErrorHandler: lib.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if len(cfg.Auth.AdminIDs) == 0 {
		logger.Info().Msg("no admin ids configured, admin routes refuse every request")
	}
	routes.Register(app, handler, middleware.ProtectRoute(tokens, st), middleware.AdminOnly(cfg.Auth.AdminIDs))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info().Str("addr", addr).Msg("server is running")
		if err := app.Listen(addr); err != nil {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	cancel()
	if rec != nil {
		rec.Stop()
		<-rec.Done()
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
	}
	logger.Info().Msg("server stopped")
}
