package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/credence/internal/api"
	"github.com/Harshitk-cp/credence/internal/config"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/lexicon"
	"github.com/Harshitk-cp/credence/internal/llm"
	"github.com/Harshitk-cp/credence/internal/plausibility"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/Harshitk-cp/credence/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	validator, err := newValidator(logger)
	if err != nil {
		logger.Fatal("failed to initialize plausibility validator", zap.Error(err))
	}

	settings := config.PipelineSettings()
	pipeline := service.NewPipeline(settings, lexicon.Default(), validator, logger)

	ttl := config.AnalysisTTL()
	analyses := store.NewAnalysisStore(ttl, ttl/2)

	app := api.NewApp(pipeline, analyses, api.Options{
		APIKeys:        config.APIKeys(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.Int("link_workers", settings.LinkWorkers),
			zap.Int("propagation_max_passes", settings.MaxPasses),
			zap.Bool("auth", len(config.APIKeys()) > 0))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	var cfg zap.Config
	if level == "debug" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newValidator builds the configured plausibility collaborator. A nil validator
// turns plausibility scaling off.
func newValidator(logger *zap.Logger) (domain.PlausibilityValidator, error) {
	switch provider := config.PlausibilityProvider(); provider {
	case "none":
		logger.Info("plausibility disabled")
		return nil, nil

	case "llm":
		client, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
		if err != nil {
			return nil, err
		}
		logger.Info("LLM plausibility initialized", zap.String("provider", config.LLMProvider()))
		return plausibility.NewCachingValidator(
			llm.NewValidator(client, llm.DefaultAssessTimeout, logger),
			config.PlausibilityCacheTTL(),
			logger,
		), nil

	case "rules":
		rules, err := plausibility.LoadRules(config.PlausibilityRulesPath())
		if err != nil {
			return nil, err
		}
		return plausibility.NewCachingValidator(
			plausibility.NewRuleValidator(rules, logger),
			config.PlausibilityCacheTTL(),
			logger,
		), nil

	default:
		logger.Warn("unknown plausibility provider, disabling", zap.String("provider", provider))
		return nil, nil
	}
}
