package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coding-profile-api/internal/aggregator"
	"coding-profile-api/internal/api"
	"coding-profile-api/internal/config"
	"coding-profile-api/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("🚀 Starting Coding Profile Analytics API...")
	log.Printf("Environment: %s", cfg.App.Environment)

	// Database connection; nothing can function without persistence.
	db, err := repository.InitDatabase(cfg.Database, cfg.App)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connected")
	defer repository.CloseDatabase(db)

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}
	log.Println("✅ Tables migrated")

	// Repositories
	statsRepo := repository.NewPlatformStatsRepository(db)
	activityRepo := repository.NewDailyActivityRepository(db)

	// Aggregation service + scheduler
	service := aggregator.NewService(
		statsRepo,
		activityRepo,
		cfg.Platforms.Usernames(),
		time.Duration(cfg.Aggregator.FetchDelay)*time.Second,
	)

	scheduler := aggregator.NewScheduler(
		service,
		cfg.Aggregator.Schedule,
		cfg.Aggregator.RunOnStart,
		time.Duration(cfg.Aggregator.StartDelay)*time.Second,
	)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// API server
	server := api.NewServer(cfg, statsRepo, activityRepo)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Stopped gracefully")
}
