package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jansamadhan/backend/internal/ai"
	"github.com/jansamadhan/backend/internal/auth"
	"github.com/jansamadhan/backend/internal/config"
	"github.com/jansamadhan/backend/internal/db"
	httpapi "github.com/jansamadhan/backend/internal/http"
	"github.com/jansamadhan/backend/internal/metrics"
	"github.com/jansamadhan/backend/internal/ocr"
	"github.com/jansamadhan/backend/internal/service"
	"github.com/jansamadhan/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "jan-samadhan-api").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if cfg.RunMigrations {
		if err := store.Migrate(logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	metrics.Register()

	var blobs storage.BlobStore = store
	if strings.EqualFold(cfg.BlobBackend, "minio") {
		blobs, err = storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init minio image store")
		}
	}

	model := selectModel(cfg, logger)
	classifier := ai.NewClassifier(ai.Options{
		Model:              model,
		OCR:                ocr.New(logger),
		Languages:          ocr.ParseLanguages(cfg.OCRLanguages),
		MaxConcurrency:     cfg.AIMaxConcurrency,
		EnforceDepartments: cfg.EnforceDepartmentMap,
		Logger:             logger.With().Str("component", "classifier").Logger(),
	})

	intake := &service.IntakeService{
		Store:      store,
		Blobs:      blobs,
		Classifier: classifier,
		Timeout:    cfg.ClassifyTimeout,
		Logger:     logger.With().Str("component", "intake").Logger(),
	}

	router := httpapi.Router(cfg, httpapi.Deps{
		Store:  store,
		Blobs:  blobs,
		Intake: intake,
		Tokens: auth.NewTokenManager(cfg.SecretKey, cfg.AccessTokenTTL),
		Google: auth.GoogleVerifier{ClientID: cfg.GoogleClientID, BaseURL: cfg.GoogleTokenInfoURL},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		// submissions wait on the classifier
		WriteTimeout: cfg.RequestTimeout + cfg.ClassifyTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("ai_provider", cfg.AIProvider).Bool("ai_configured", classifier.Configured()).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

// selectModel returns nil when the chosen provider has no credential, which
// the classifier reports as configuration_missing on every call.
func selectModel(cfg config.Config, logger zerolog.Logger) ai.Model {
	switch strings.ToLower(cfg.AIProvider) {
	case "mock":
		logger.Info().Msg("using mock AI model")
		return ai.MockModel{ModelVersion: "mock-v1"}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn().Msg("OPENAI_API_KEY not set, AI classification disabled")
			return nil
		}
		return ai.OpenAICompatModel{BaseURL: cfg.OpenAIBaseURL, Model: cfg.OpenAIModel, APIKey: cfg.OpenAIAPIKey, MaxTokens: 1024}
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			logger.Warn().Msg("ANTHROPIC_API_KEY not set, AI classification disabled")
			return nil
		}
		return ai.NewAnthropicModel(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		if cfg.GoogleAPIKey == "" {
			logger.Warn().Msg("GOOGLE_API_KEY not set, AI classification disabled")
			return nil
		}
		return ai.GeminiModel{APIKey: cfg.GoogleAPIKey, Model: cfg.GeminiModel}
	}
}
