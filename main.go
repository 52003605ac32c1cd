package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-composer/internal/backend"
	"ms-composer/internal/config"
	"ms-composer/internal/draft"
	"ms-composer/internal/draft/api"
	"ms-composer/internal/draft/session"
	"ms-composer/internal/kafka"
	"ms-composer/internal/logger"
	"ms-composer/internal/media"
	"ms-composer/internal/utils"
)

func buildSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) session.Store {
	if cfg.Session.Store == "sqlite" {
		sqldb, err := sql.Open("sqlite", cfg.Session.SQLitePath)
		if err != nil {
			log.Fatal("SESSION", fmt.Sprintf("Failed to open sqlite session store: %v", err))
		}
		bunDB := bun.NewDB(sqldb, sqlitedialect.New())
		store := session.NewBunStore(bunDB)
		if err := store.Init(ctx); err != nil {
			log.Fatal("SESSION", fmt.Sprintf("Failed to init sqlite session table: %v", err))
		}
		log.Info("SESSION", fmt.Sprintf("Using sqlite session store at %s", cfg.Session.SQLitePath))
		return store
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("SESSION", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("SESSION", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
	return session.NewRedisStore(redisClient, cfg.Session.TTL)
}

func buildStager(cfg *config.Config, mediaClient *backend.MediaClient, log *logger.Logger) media.Stager {
	if cfg.Media.Stager == "cloudinary" {
		stager, err := media.NewCloudinaryStager(cfg.Media.CloudinaryFolder)
		if err != nil {
			log.Fatal("MEDIA", fmt.Sprintf("Cloudinary stager init failed: %v", err))
		}
		log.Info("MEDIA", fmt.Sprintf("Staging uploads to Cloudinary folder %q", cfg.Media.CloudinaryFolder))
		return stager
	}
	log.Info("MEDIA", "Staging uploads through the backend temp endpoint")
	return media.NewTempStager(mediaClient)
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Composer Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	httpClient := &http.Client{Timeout: cfg.Backend.RequestTimeout}
	base := backend.NewClient(cfg.Backend.BaseURL, httpClient, log)
	eventClient := backend.NewEventClient(base)
	venueClient := backend.NewVenueClient(base)
	ticketClient := backend.NewTicketClient(base)
	artistClient := backend.NewArtistClient(base)
	mediaClient := backend.NewMediaClient(base)
	log.Info("BACKEND", fmt.Sprintf("Event backend at %s", cfg.Backend.BaseURL))

	sessionStore := buildSessionStore(ctx, cfg, log)
	stager := buildStager(cfg, mediaClient, log)

	var producer draft.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
		requiredTopics := []string{
			cfg.Kafka.Topics.DraftCreated,
			cfg.Kafka.Topics.DraftStepSaved,
			cfg.Kafka.Topics.EventPublished,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		producer = kafkaProducer
		defer kafkaProducer.Close()
	} else {
		log.Warn("KAFKA", "Kafka disabled, draft lifecycle events will not be streamed")
	}

	composer := draft.NewService(
		eventClient,
		venueClient,
		ticketClient,
		artistClient,
		mediaClient,
		stager,
		sessionStore,
		producer,
		log,
		cfg.Backend.PublicEventURL,
	)

	handler := api.NewHandler(composer, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})

	handler.RegisterRoutes(r)
	log.Info("ROUTER", "Composer routes registered under /composer")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Composer Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Composer Service shutdown complete")
	}
}
