package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"LinkStash/internal/config"
	"LinkStash/internal/domain"
	"LinkStash/internal/enrich"
	"LinkStash/internal/infrastructure/llm"
	"LinkStash/internal/infrastructure/scrape"
	"LinkStash/internal/infrastructure/storage"
	"LinkStash/internal/logging"
	"LinkStash/internal/normalize"
	"LinkStash/internal/ports"
	"LinkStash/internal/resolver"
	"LinkStash/internal/usecase"
)

// Application wires config to the pipeline and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLiteStore
	pipeline *usecase.Pipeline
	worker   *enrich.Worker
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Services.Timeout()}

	res := resolver.New(resolver.Deps{
		Scraper:     scrape.NewMetaScraper(cfg.Services.ScraperURL, httpClient),
		OpenGraph:   scrape.NewOpenGraph(httpClient),
		OEmbed:      scrape.NewOEmbed(cfg.Services.OEmbedURL, httpClient),
		Readability: scrape.NewReadability(cfg.Services.ReadabilityURL, nil),
		Logger:      baseLogger.With("component", "resolver"),
	})

	keys := llm.NewEnvKeyProvider(cfg.LLM.KeyEnv, cfg.LLM.APIKey)

	var chatClient ports.ChatClient
	if _, kerr := keys.APIKey(); kerr == nil {
		chatClient = llm.NewChatGPTClient(cfg.LLM.Endpoint, cfg.LLM.Model, keys)
	} else {
		baseLogger.Warn("no llm api key configured, cleanup and enrichment disabled")
	}

	var worker *enrich.Worker
	var queue ports.EnrichmentQueue
	if cfg.Enrichment.Enabled && chatClient != nil {
		worker = enrich.NewWorker(
			enrich.NewAnalyzer(chatClient),
			store,
			cfg.Enrichment.QueueSize,
			cfg.Enrichment.Timeout(),
			baseLogger.With("component", "enricher"),
		)
		queue = worker
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:      store,
		Resolver:   res,
		Normalizer: normalize.New(chatClient, baseLogger.With("component", "normalizer")),
		Enricher:   queue,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
		worker:   worker,
	}, nil
}

// Run executes a single CLI command: "save <url>" or "list".
func (a *Application) Run(ctx context.Context, args []string) error {
	defer a.store.Close()

	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	if len(args) == 0 {
		return fmt.Errorf("usage: linkstash save <url> | linkstash list")
	}

	switch args[0] {
	case "save":
		if len(args) < 2 {
			return fmt.Errorf("usage: linkstash save <url>")
		}
		article, err := a.pipeline.SaveURL(ctx, args[1])
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateArticle) {
				fmt.Println("Already saved.")
				return nil
			}
			return err
		}
		fmt.Printf("Saved: %s [%s]\n", article.Title, article.Platform)
		return nil

	case "list":
		articles, err := a.pipeline.List(ctx)
		if err != nil {
			return err
		}
		for _, article := range articles {
			marker := " "
			if article.IsUnread {
				marker = "*"
			}
			fmt.Printf("%s %-40.40s %-10s %s\n", marker, article.Title, article.Platform, article.URL)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
