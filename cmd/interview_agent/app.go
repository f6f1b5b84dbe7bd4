package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-assistant/internal/config"
	"github.com/jonathan/interview-assistant/internal/engine"
	"github.com/jonathan/interview-assistant/internal/extract"
	"github.com/jonathan/interview-assistant/internal/llm"
	"github.com/jonathan/interview-assistant/internal/observability"
	"github.com/jonathan/interview-assistant/internal/store"
)

// app bundles the wired components shared by the serve and interview commands.
type app struct {
	logger    *zap.Logger
	engine    *engine.Engine
	extractor *extract.Extractor
	client    llm.Client
}

// loadConfig merges the optional config file with the environment.
func loadConfig(configPath string) (config.Config, error) {
	envCfg := config.FromEnv()

	cfg := config.Config{}
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *fileCfg
	}

	merged := cfg.MergeWithDefaults(envCfg)
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// buildApp wires storage, grading and the engine from configuration.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var client llm.Client
	if cfg.APIKey != "" {
		client, err = llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, running with deterministic fallback grading")
		client = llm.OfflineClient{}
	}

	st := store.New(store.NewFileStorage(cfg.DataFile), logger)
	eng := engine.New(st, llm.NewGrader(client, logger), logger,
		engine.WithQuestionDelay(time.Duration(cfg.QuestionDelay)*time.Second))

	return &app{
		logger:    logger,
		engine:    eng,
		extractor: extract.New(logger),
		client:    client,
	}, nil
}

// Close releases the AI client and flushes logs.
func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		a.logger.Warn("failed to close AI client", zap.Error(err))
	}
	_ = a.logger.Sync()
}
