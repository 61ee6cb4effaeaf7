// Package main is the entry point for the scan server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beamscan/internal/config"
	"beamscan/internal/handlers"
	"beamscan/internal/metrics"
	"beamscan/internal/middleware"
	"beamscan/internal/repositories"
	"beamscan/internal/repositories/cache"
	"beamscan/internal/routes"
	"beamscan/internal/services/remotescan"
	"beamscan/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	db, err := repositories.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
	}()

	redisClient, verdicts := connectRedis(cfg)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}()
	}

	validator := buildValidator(cfg.Validator, verdicts)
	collector := metrics.NewCollector()
	records := repositories.NewScanRecordRepository(db)

	scans := remotescan.NewService(remotescan.Config{
		RetryDelay:  cfg.Scanner.RetryDelay,
		EventBuffer: cfg.Scanner.EventBuffer,
		Retention:   2 * cfg.Scanner.ResultWait,
	}, validator, records, collector, collector)

	h := routes.Handlers{
		Scans:     handlers.NewScanHandler(scans, records),
		Sessions:  handlers.NewSessionHandler(scans, cfg.Scanner.ResultWait),
		Addresses: handlers.NewAddressHandler(repositories.NewAddressRepository(db), validator),
		Health:    handlers.NewHealthHandler(db, verdicts),
		Metrics:   collector.Handler(),
	}
	if cfg.JWTSecret != "" {
		h.Auth = middleware.NewAuthMiddleware(cfg.JWTSecret)
	} else {
		log.Println("⚠️ JWT_SECRET not set, API runs without authentication")
	}

	app := fiber.New(fiber.Config{
		// Result long-polls hold the connection for up to ResultWait.
		WriteTimeout: cfg.Scanner.ResultWait + 5*time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,DELETE",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Frames arrive at camera rate; everything else is occasional.
	app.Use("/api/resolve", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return middleware.DeviceID(c, c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, h)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down, cancelling open scan sessions")
		scans.Shutdown()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

// verdictCache is the Redis-backed verdict store, also pinged by /health.
type verdictCache interface {
	validation.VerdictStore
	handlers.Pinger
}

// connectRedis returns nil values when Redis is unreachable; the server then
// validates addresses without a cache.
func connectRedis(cfg config.AppConfig) (*redis.Client, verdictCache) {
	client := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	verdicts := cache.NewVerdictCache(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := verdicts.HealthCheck(ctx); err != nil {
		log.Printf("⚠️ Redis unavailable, address verdicts will not be cached: %v", err)
		client.Close()
		return nil, nil
	}
	log.Println("✅ Redis connected")
	return client, verdicts
}

func buildValidator(cfg config.ValidatorConfig, verdicts validation.VerdictStore) validation.AddressValidator {
	var v validation.AddressValidator
	switch cfg.Kind {
	case "bech32":
		v = validation.NewBech32Validator(cfg.Bech32Prefixes, cfg.Bech32Length)
	default:
		v = validation.NewHexValidator()
	}
	if verdicts == nil {
		return v
	}
	return validation.NewCachedValidator(v, verdicts, cfg.CacheTTL)
}
