package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dinoai/omnicast/internal/config"
	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/events"
	"github.com/dinoai/omnicast/internal/generate"
	"github.com/dinoai/omnicast/internal/httpserver"
	"github.com/dinoai/omnicast/internal/linkedin"
	"github.com/dinoai/omnicast/internal/simulate"
	"github.com/dinoai/omnicast/internal/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the generation gateway
	apiKey := cfg.GeminiAPIKey
	if cfg.LLMProvider == "openai" {
		apiKey = cfg.OpenAIAPIKey
	}
	client, err := generate.NewClient(ctx, cfg.LLMProvider, cfg.LLMModel, apiKey, cfg.OpenAIBaseURL)
	if err != nil {
		return fmt.Errorf("create generation client: %w", err)
	}
	gateway := generate.NewGateway(client, cfg.GenerateTimeout, logger)
	logger.Info("generation backend ready", "provider", cfg.LLMProvider, "model", cfg.LLMModel)

	// Set up the SQLite repository for drafts and scheduled posts
	repo, err := sqlite.NewRepository(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("create repository: %w", err)
	}
	defer repo.Close()
	logger.Info("connected to database", "path", cfg.DatabasePath)

	// Set up the adapter registry: LinkedIn is live, the rest simulate
	liClient := linkedin.NewClient(linkedin.Config{
		ClientID:     cfg.LinkedInClientID,
		ClientSecret: cfg.LinkedInClientSecret,
		RedirectURI:  cfg.RedirectURI,
	})
	adapters := []domain.Adapter{linkedin.NewAdapter(liClient)}
	for id, p := range domain.Platforms {
		if p.LiveIntegration {
			continue
		}
		sim, err := simulate.NewAdapter(id, simulate.DefaultDelay)
		if err != nil {
			return fmt.Errorf("create %s adapter: %w", id, err)
		}
		adapters = append(adapters, sim)
	}
	registry := domain.NewRegistry(adapters...)

	var auth *linkedin.SessionManager
	if cfg.LinkedInClientID != "" {
		auth = linkedin.NewSessionManager(liClient, logger)
	} else {
		logger.Warn("linkedin credentials missing, oauth endpoints disabled")
	}

	// Set up graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	origins := make(map[string]bool)
	for _, o := range cfg.Origins() {
		origins[o] = true
	}
	hub := events.NewHub(logger, func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origins[origin]
	})

	server := httpserver.NewServer(cfg, gateway, registry, auth, repo, repo, hub, logger)

	// Start the scheduler in the background
	scheduler := domain.NewScheduler(repo, registry, func() *domain.Session { return nil }, hub, logger)
	go scheduler.Start(ctx, cfg.ScheduleInterval)

	// Start the HTTP server
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server exited with error", "error", err)
		}
	}()

	logger.Info("server started", "port", cfg.Port, "frontend", cfg.FrontendURL)

	// Wait for shutdown signal
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}

	return nil
}
