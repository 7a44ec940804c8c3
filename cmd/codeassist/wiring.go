package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/agent"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/config"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/llm"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/metrics"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/orchestrator"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/router"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/search"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/snippets"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/telemetry"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// assistant holds everything a query needs. Close releases it.
type assistant struct {
	orch     *orchestrator.Orchestrator
	tracer   *telemetry.Tracer
	store    *snippets.Store
	client   *llm.Client
	registry *prometheus.Registry
}

// newAssistant wires config into a ready orchestrator. withMetrics adds a
// Prometheus registry for the HTTP server.
func newAssistant(ctx context.Context, cfg *config.Config, logger *slog.Logger, withMetrics bool) (*assistant, error) {
	a := &assistant{}

	a.tracer = telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
		DialTimeout: cfg.Telemetry.DialTimeout,
	}, logger)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	store.SetTracer(a.tracer)
	a.store = store

	client, err := newLLMClient(cfg, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.client = client

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if withMetrics {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom, err := metrics.NewPrometheusRecorder(a.registry)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		rec = prom
	}

	tavilyKey, err := config.GetTavilyKey(cfg)
	if err != nil {
		logger.Warn("web search disabled; documentation agent will answer without it", "error", err)
	}
	searcher := search.NewTavily(search.TavilyConfig{
		APIKey:     tavilyKey,
		Depth:      cfg.Tavily.SearchDepth,
		MaxResults: cfg.Tavily.MaxResults,
		MaxRetries: cfg.Tavily.MaxRetries,
		BaseURL:    cfg.Tavily.BaseURL,
		Timeout:    cfg.Tavily.Timeout,
	})

	deps := agent.Deps{
		Reasoner:      llm.NewAnthropicReasoner(client),
		Searcher:      searcher,
		Snippets:      store,
		Tracer:        a.tracer,
		Metrics:       rec,
		Logger:        logger,
		MaxIterations: cfg.Agents.MaxIterations,
	}
	agents := make(map[models.AgentKind]orchestrator.Runner)
	for _, spec := range router.Specs() {
		ag, err := agent.New(spec, deps)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("build %s agent: %w", spec.Name, err)
		}
		agents[spec.Kind] = ag
	}

	a.orch, err = orchestrator.New(orchestrator.Config{
		Agents:  agents,
		Tracer:  a.tracer,
		Metrics: rec,
		Logger:  logger,
	})
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	logger.Info("assistant ready",
		"model", client.Model(),
		"bedrock", client.IsBedrock(),
		"db", store.Path(),
		"metrics", withMetrics,
	)
	return a, nil
}

// Close flushes traces and closes the store.
func (a *assistant) Close(ctx context.Context) {
	if a.store != nil {
		a.store.Close()
	}
	a.tracer.Shutdown(ctx)
}

// newLLMClient creates the model client. Transport retries are off: a
// failed reasoning step fails its agent.
func newLLMClient(cfg *config.Config, logger *slog.Logger) (*llm.Client, error) {
	apiKey := ""
	if !cfg.Anthropic.UseBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		if err := config.ValidateAPIKey(key); err != nil {
			logger.Warn("API key looks malformed", "key", config.MaskAPIKey(key), "error", err)
		}
		apiKey = key
	}

	client, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		MaxTokens:     int64(cfg.Anthropic.MaxTokens),
		BaseURL:       cfg.Anthropic.BaseURL,
		MaxRetries:    0,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return client, nil
}

// openStore opens and migrates the snippet database, loading the built-in
// samples when it is empty.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*snippets.Store, error) {
	store, err := snippets.Open(cfg.Snippets.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open snippet store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate snippet store: %w", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	if n == 0 {
		if err := store.Seed(ctx, snippets.DefaultSnippets()); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed snippet store: %w", err)
		}
		logger.Info("seeded empty snippet store with built-in samples", "path", store.Path())
	}
	return store, nil
}
