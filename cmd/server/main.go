// Package main is the entry point for the card management API.
// It initializes all dependencies, sets up the HTTP server,
// starts the card reconciler and serves requests until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cardhub/internal/config"
	"cardhub/internal/handlers"
	"cardhub/internal/issuing"
	"cardhub/internal/middleware"
	"cardhub/internal/repositories"
	"cardhub/internal/routes"
	"cardhub/internal/services/card"
	"cardhub/internal/services/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()

	stripeKey := config.GetEnv("STRIPE_SECRET_KEY", "")
	if stripeKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}
	jwtSecret := config.GetEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodic pool stats (Postgres + Redis)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
					stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
				redisStats := repositories.CacheService.GetStats()
				log.Printf("Redis Stats: Total=%d, Idle=%d, Stale=%d, Hits=%d, Misses=%d, Timeouts=%d",
					redisStats.TotalConns, redisStats.IdleConns, redisStats.StaleConns,
					redisStats.Hits, redisStats.Misses, redisStats.Timeouts)
			}
		}
	}()

	cardRepo := repositories.NewCardRepository(repositories.DB)
	intentRepo := repositories.NewCardSyncIntentRepository(repositories.DB)
	platform := issuing.NewStripePlatform(stripeKey)

	cardService := card.NewService(cardRepo, intentRepo, platform, repositories.CacheService)

	reconciler := reconcile.NewReconciler(intentRepo, platform, reconcile.Config{
		Interval:    config.GetDurationEnv("RECONCILE_INTERVAL", reconcile.DefaultInterval),
		MaxAttempts: config.GetIntEnv("RECONCILE_MAX_ATTEMPTS", reconcile.DefaultMaxAttempts),
	})
	go reconciler.Run(ctx)

	health := handlers.NewHealthHandler(
		func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		repositories.CacheService.HealthCheck,
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 30*time.Second),
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.GetListEnv("CORS_ORIGINS", []string{"http://localhost:5173"}), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Card issuing hits the platform; cap it per caller
	app.Use("/api/cards", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("CARD_RATE_LIMIT", 30),
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, cardService, health, middleware.NewAuthMiddleware(jwtSecret))

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Shutdown error: %v", err)
		}
	}()

	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
