package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/generate"
	"github.com/dinoai/omnicast/internal/linkedin"
	"github.com/dinoai/omnicast/internal/prompt"
	"github.com/dinoai/omnicast/internal/simulate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	text      string
	platforms string
	mode      string
	tone      string
	provider  string
	model     string
	token     string
	urn       string
	dryRun    bool
}

func run() error {
	var opts options

	flag.StringVar(&opts.text, "text", "", "Post text to publish")
	flag.StringVar(&opts.platforms, "platforms", "twitter,instagram", "Comma-separated target platforms")
	flag.StringVar(&opts.mode, "mode", "", "Optional assist mode to run before publishing (rewrite, translate, hashtags, ...)")
	flag.StringVar(&opts.tone, "tone", "", "Tone for the assist pass (e.g. witty, formal)")
	flag.StringVar(&opts.provider, "provider", envOrDefault("LLM_PROVIDER", "gemini"), "Generation backend: gemini or openai")
	flag.StringVar(&opts.model, "model", envOrDefault("LLM_MODEL", "gemini-2.5-flash"), "Generation model name")
	flag.StringVar(&opts.token, "token", envOrDefault("LINKEDIN_ACCESS_TOKEN", ""), "LinkedIn access token for live publishing")
	flag.StringVar(&opts.urn, "urn", envOrDefault("LINKEDIN_ACTOR_URN", ""), "LinkedIn actor URN (urn:li:person:...)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Use the local stub generator and skip simulated delays")
	flag.Parse()

	return execute(context.Background(), opts, os.Stdout)
}

func execute(ctx context.Context, opts options, out io.Writer) error {
	if opts.text == "" {
		return fmt.Errorf("--text is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	var targets []domain.PlatformID
	for _, p := range strings.Split(opts.platforms, ",") {
		id := domain.PlatformID(strings.TrimSpace(p))
		if id == "" {
			continue
		}
		if _, err := domain.LookupPlatform(id); err != nil {
			return err
		}
		targets = append(targets, id)
	}
	if len(targets) == 0 {
		return fmt.Errorf("--platforms must name at least one platform")
	}

	var gen domain.Generator
	if opts.dryRun || opts.mode == "" {
		gen = generate.NewGateway(&generate.StubClient{Transform: func(s string) string { return s }}, 0, logger)
	} else {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if opts.provider == "openai" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		client, err := generate.NewClient(ctx, opts.provider, opts.model, apiKey, os.Getenv("OPENAI_BASE_URL"))
		if err != nil {
			return err
		}
		gen = generate.NewGateway(client, 0, logger)
	}

	delay := simulate.DefaultDelay
	if opts.dryRun {
		delay = time.Millisecond
	}
	liClient := linkedin.NewClient(linkedin.Config{})
	adapters := []domain.Adapter{linkedin.NewAdapter(liClient)}
	for id, p := range domain.Platforms {
		if p.LiveIntegration {
			continue
		}
		sim, err := simulate.NewAdapter(id, delay)
		if err != nil {
			return err
		}
		adapters = append(adapters, sim)
	}
	registry := domain.NewRegistry(adapters...)

	build := func(mode, tone string, platform domain.PlatformID, userText string) string {
		return prompt.BuildInstruction(prompt.ParseMode(mode), tone, platform, userText)
	}
	composer := domain.NewComposer(gen, build, registry, nil, logger)
	composer.SetText(opts.text)
	for _, id := range composer.Targets() {
		composer.TogglePlatform(id)
	}
	for _, id := range targets {
		composer.TogglePlatform(id)
	}
	if opts.token != "" && opts.urn != "" {
		composer.SetSession(&domain.Session{AccessToken: opts.token, ActorURN: opts.urn})
	}

	// A dry run still exercises the assist path, just through the stub.
	if opts.mode != "" {
		fmt.Fprintf(out, "Running %s assist...\n", opts.mode)
		result, err := composer.ApplyAssist(ctx, opts.mode, opts.tone)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Assisted text:\n%s\n\n", result)
	}

	sig := composer.Signals()
	fmt.Fprintf(out, "Publishing to %s (%d/%d chars, score %d)...\n",
		strings.Join(platformNames(targets), ", "), sig.CharCount, sig.CharLimit, sig.Score)

	outcomes := composer.DispatchAll(ctx)
	failed := 0
	for _, out2 := range outcomes {
		if out2.Success {
			kind := "simulated"
			if out2.Live {
				kind = "live"
			}
			fmt.Fprintf(out, "  %-10s ok (%s)\n", out2.Platform, kind)
			continue
		}
		failed++
		fmt.Fprintf(out, "  %-10s failed: %v\n", out2.Platform, out2.Err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d dispatches failed", failed, len(outcomes))
	}
	return nil
}

func platformNames(ids []domain.PlatformID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
