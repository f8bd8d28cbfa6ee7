package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatherly/internal/cache"
	"gatherly/internal/config"
	"gatherly/internal/database"
	"gatherly/internal/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// A missing Redis only disables the aggregate read cache
	cache.InitRedis(cfg.RedisURL)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := stats.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	srv := stats.NewServer(cfg, db)

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName + "-stats",
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down stats collector...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Stats collector starting on port %s...", cfg.StatsPort)
	log.Fatal(app.Listen(":" + cfg.StatsPort))
}
