package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"LinkStash/internal/domain"
	"LinkStash/internal/ports"
)

// Worker runs enrichment off the save path. Enqueue never blocks and
// never reports failure; a full queue drops the job. There is no
// persisted pending queue: jobs in flight when the process exits are
// abandoned.
type Worker struct {
	analyzer *Analyzer
	store    ports.ArticleStore
	jobs     chan domain.Article
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.EnrichmentQueue = (*Worker)(nil)

// NewWorker builds a worker with the given queue capacity and per-job
// timeout.
func NewWorker(analyzer *Analyzer, store ports.ArticleStore, queueSize int, timeout time.Duration, logger *slog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 16
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		analyzer: analyzer,
		store:    store,
		jobs:     make(chan domain.Article, queueSize),
		timeout:  timeout,
		logger:   logger,
	}
}

// Start consumes jobs until the context is cancelled. Run it once, in
// its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case article := <-w.jobs:
			w.process(ctx, article)
		}
	}
}

// Enqueue hands an article to the worker without blocking the caller.
func (w *Worker) Enqueue(article domain.Article) {
	select {
	case w.jobs <- article:
	default:
		w.logger.Warn("enrichment queue full, dropping job", "id", article.ID)
	}
}

func (w *Worker) process(ctx context.Context, article domain.Article) {
	jobCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	enrichment, err := w.analyzer.Analyze(jobCtx, article)
	if err != nil {
		w.logger.Debug("enrichment skipped", "id", article.ID, "error", err)
		return
	}

	if err := w.store.ApplyEnrichment(jobCtx, article.ID, enrichment); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			// Deleted between save and enrichment; nothing to update.
			w.logger.Debug("article gone before enrichment landed", "id", article.ID)
			return
		}
		w.logger.Warn("enrichment update failed", "id", article.ID, "error", err)
		return
	}

	w.logger.Info("article enriched", "id", article.ID, "category", enrichment.Category)
}
