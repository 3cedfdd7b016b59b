package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tripquote/internal/app/generate"
	"tripquote/internal/app/prompt"
	"tripquote/internal/app/recalc"
	"tripquote/internal/domain/inventory"
	"tripquote/internal/domain/itinerary"
	"tripquote/internal/domain/pricing"
	"tripquote/internal/domain/trip"
	"tripquote/internal/infra/broker/kafka"
	"tripquote/internal/infra/config"
	mongodb "tripquote/internal/infra/db/mongo"
	"tripquote/internal/infra/events"
	"tripquote/internal/infra/genai"
	ginserver "tripquote/internal/infra/http/gin"
	"tripquote/internal/infra/obs"
	"tripquote/internal/infra/storage/memory"
	"tripquote/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "season", cfg.Season)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	var (
		inventoryRepo inventory.Repository
		recordsRepo   itinerary.Repository
		pricingRepo   pricing.Repository
		ready         = func() error { return nil }
	)
	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, fmt.Errorf("connect mongo: %w", err)
		}
		inventoryRepo = mongodb.NewInventoryRepository(client.DB)
		recordsRepo = mongodb.NewItineraryRepository(client.DB)
		pricingRepo = mongodb.NewPricingRepository(client.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("storage initialized", "driver", "mongo", "db", cfg.MongoDB)
	} else {
		memInventory := memory.NewInventoryRepository()
		if err := loadInventoryFixtures(memInventory, logger); err != nil {
			logger.Warn("inventory fixtures load failed", "error", err)
		}
		inventoryRepo = memInventory
		recordsRepo = memory.NewItineraryRepository()
		pricingRepo = memory.NewPricingRepository()
		logger.Info("storage initialized", "driver", "memory")
	}

	var publisher generate.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, fmt.Errorf("connect kafka: %w", err)
		}
		cleanup = func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka close failed", "error", err)
			}
		}
		publisher = &events.Publisher{
			Producer:    producer,
			TopicPrefix: cfg.KafkaTopicPrefix,
		}
		logger.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	var transcripts generate.TranscriptArchiver
	if cfg.S3Endpoint != "" {
		archiver, err := s3.NewArchiver(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
		if err != nil {
			logger.Warn("transcript archiving disabled", "error", err)
		} else {
			transcripts = archiver
		}
	}

	completion := &genai.Client{
		HTTP:      &http.Client{},
		Endpoint:  cfg.GenAIURL,
		Model:     cfg.GenAIModel,
		MaxTokens: cfg.GenAIMaxTokens,
		Timeout:   cfg.GenAITimeout,
		Logger:    logger,
	}

	generator := &generate.Service{
		Inventory:   inventoryRepo,
		Allocator:   &trip.Allocator{Cities: inventoryRepo, Logger: logger},
		Prompts:     prompt.Builder{},
		Completions: completion,
		Pricing:     pricingRepo,
		Records:     recordsRepo,
		Events:      publisher,
		Transcripts: transcripts,
		Season:      cfg.Season,
		Logger:      logger,
	}
	recalculator := &recalc.Service{
		Records: recordsRepo,
		Pricing: pricingRepo,
		Events:  publisher,
		Logger:  logger,
	}

	return application{
		handlers: ginserver.Handlers{
			Itinerary: ginserver.ItineraryHandler{
				Generator: generator,
				Records:   recordsRepo,
			},
			Pricing: ginserver.PricingHandler{
				Pricing: pricingRepo,
				Recalc:  recalculator,
			},
			PreviewLimiter: ginserver.NewPreviewLimiter(cfg.PreviewPerHour, cfg.PreviewBurst),
		},
		ready: ready,
	}, cleanup, nil
}

type inventoryFixtures struct {
	Hotels    []inventory.Hotel    `json:"hotels"`
	Tours     []inventory.Tour     `json:"tours"`
	Vehicles  []inventory.Vehicle  `json:"vehicles"`
	Transfers []inventory.Transfer `json:"transfers"`
}

// loadInventoryFixtures seeds the in-memory inventory from data/inventory.json
// so the service is usable without a database.
func loadInventoryFixtures(repo *memory.InventoryRepository, logger *slog.Logger) error {
	path := os.Getenv("INVENTORY_FIXTURES")
	if path == "" {
		path = filepath.Join("data", "inventory.json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("inventory fixtures file not found, starting empty", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures inventoryFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	repo.Seed(fixtures.Hotels, fixtures.Tours, fixtures.Vehicles, fixtures.Transfers)
	logger.Info("inventory fixtures imported",
		"hotels", len(fixtures.Hotels),
		"tours", len(fixtures.Tours),
		"vehicles", len(fixtures.Vehicles),
		"transfers", len(fixtures.Transfers),
		"path", path)
	return nil
}
