package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"makechat-api/core"
)

func main() {
	cfg, err := core.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	redisClient, err := core.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	hasher, err := core.NewCredentialHasher(cfg.SecretKey)
	if err != nil {
		log.Fatalf("invalid secret key: %v", err)
	}

	userRepo := core.NewPgUserRepository(db)
	sessionStore := core.NewRedisSessionStore(redisClient)
	accounts := core.NewAccountService(userRepo, sessionStore, hasher, time.Duration(cfg.SessionTTL)*time.Second)
	stats := core.NewStatsService(userRepo, redisClient)

	if err := core.BootstrapAdmin(ctx, userRepo, hasher, cfg); err != nil {
		log.Fatalf("bootstrap admin failed: %v", err)
	}

	router := core.NewRouter(cfg, accounts, stats)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting api server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
