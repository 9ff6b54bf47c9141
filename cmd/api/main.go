package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/weareasocialyazilim/travelmatch/internal/config"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/dynamo"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/imagefetch"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/redisstore"
	s3infra "github.com/weareasocialyazilim/travelmatch/internal/infrastructure/s3"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/sns"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/token"
	transporthttp "github.com/weareasocialyazilim/travelmatch/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist) and seed
	// the landmark registry.
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	landmarkRepo := dynamo.NewLandmarkRepo(dynamoClient, cfg.DynamoTables.Landmarks)
	verificationRepo := dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications)

	// The landmark matcher works from an in-memory registry snapshot; the
	// registry is static, so one read at startup is enough.
	registry, err := landmarkRepo.Scan(context.Background())
	if err != nil || len(registry) == 0 {
		log.Printf("WARN: landmark registry unavailable, using builtin seed: %v", err)
		registry = domain.BuiltinLandmarks()
	}

	// Redis backs the result cache, embedding store and duplicate hash index.
	redisClient, err := redisstore.NewClient(cfg)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	// S3 store for proof images referenced as s3:// URLs.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SNS alert publisher (optional — graceful fallback).
	var alerts sns.AlertPublisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		alerts = p
	} else {
		log.Printf("WARN: manual-review alerts disabled: %v", err)
	}

	// Service-token provider (optional — graceful fallback).
	var tokenProvider *token.Provider
	if p, err := token.NewProvider(cfg.ServiceTokenSecret, 24*time.Hour); err == nil {
		tokenProvider = p
	} else {
		log.Printf("WARN: service auth disabled: %v", err)
	}

	deps := &transporthttp.Deps{
		LandmarkRepo:     landmarkRepo,
		VerificationRepo: verificationRepo,
		ResultCache:      redisstore.NewResultCache(redisClient),
		EmbeddingStore:   redisstore.NewEmbeddingStore(redisClient),
		HashIndex:        redisstore.NewHashIndex(redisClient),
		Fetcher:          imagefetch.NewHTTPFetcher(s3Store),
		AlertPublisher:   alerts,
		TokenProvider:    tokenProvider,
		Registry:         registry,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
