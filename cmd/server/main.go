package main

import (
	"context"
	"log"
	"time"

	"anoa.com/vxrank/internal/bootstrap"
	"anoa.com/vxrank/internal/config"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/internal/server"
	"anoa.com/vxrank/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoRiders(context.Background(), profileRepo.NewProfileRepository(db)); err != nil {
			log.Fatalf("failed to seed demo riders: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv, err := server.NewServer(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}

	log.Printf("🛹 vxrank listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; the server
// then keeps pending verifications in memory and skips AI rate limiting.
func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("⚠️ REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis unreachable, running without redis: %v", err)
		client.Close()
		return nil
	}

	log.Println("✅ Connected to redis")
	return client
}
