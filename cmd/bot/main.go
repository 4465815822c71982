package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xaenox/router-bot/internal/ai"
	"github.com/xaenox/router-bot/internal/bot"
	"github.com/xaenox/router-bot/internal/calc"
	"github.com/xaenox/router-bot/internal/classifier"
	"github.com/xaenox/router-bot/internal/dispatcher"
	"github.com/xaenox/router-bot/internal/joke"
	"github.com/xaenox/router-bot/internal/search"
	"github.com/xaenox/router-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "router-bot",
		Short:         "Telegram bot that routes search, math, joke and chat commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to an optional YAML config file")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	logger := newLogger(cfg.Log)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// One pooled client for all plain HTTP calls
	httpClient := &http.Client{}

	searchClient, err := search.New(ctx, search.Config{
		APIKey:   cfg.Search.APIKey,
		EngineID: cfg.Search.EngineID,
		Endpoint: cfg.Search.Endpoint,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create search client", zap.Error(err))
	}

	provider, err := ai.NewProvider(ctx, ai.Config{
		Provider:        cfg.AI.Provider,
		Project:         cfg.AI.Project,
		Location:        cfg.AI.Location,
		Model:           cfg.AI.Model,
		CredentialsFile: cfg.AI.CredentialsFile,
		Temperature:     cfg.AI.Temperature,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
		OpenAIAPIKey:    cfg.OpenAI.APIKey,
		OpenAIModel:     cfg.OpenAI.Model,
		OpenAIBaseURL:   cfg.OpenAI.BaseURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create AI provider", zap.Error(err), zap.String("provider", cfg.AI.Provider))
	}
	defer provider.Close()

	b, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	d := dispatcher.New(classifier.NewRuleClassifier(), dispatcher.Handlers{
		Search: searchClient,
		Math:   calc.NewEvaluator(logger),
		Joke:   joke.New(cfg.Joke.Endpoint, httpClient, logger),
		Chat:   ai.NewHandler(provider, cfg.AI.Temperature, cfg.AI.MaxOutputTokens, logger),
	}, b, logger)

	logger.Info("🚀 Telegram bot is starting",
		zap.String("ai_provider", provider.Name()))

	// Start the bot
	if err := b.Run(ctx, d); err != nil {
		logger.Error("Bot error", zap.Error(err))
		return err
	}
	return nil
}

func newLogger(cfg config.LogConfig) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
