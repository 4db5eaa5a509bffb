package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"LinkStash/internal/builder"
	"LinkStash/internal/domain"
	"LinkStash/internal/normalize"
	"LinkStash/internal/platform"
	"LinkStash/internal/ports"
)

// PipelineDeps wires the driven adapters into the save pipeline.
type PipelineDeps struct {
	Store      ports.ArticleStore
	Resolver   ports.MetadataResolver
	Normalizer *normalize.Normalizer
	Enricher   ports.EnrichmentQueue
	Logger     *slog.Logger
}

// Pipeline implements the article-save workflow: validate, classify,
// resolve, normalize, build, persist, then hand off to the background
// enricher without awaiting it.
type Pipeline struct {
	store      ports.ArticleStore
	resolver   ports.MetadataResolver
	normalizer *normalize.Normalizer
	enricher   ports.EnrichmentQueue
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:      deps.Store,
		resolver:   deps.Resolver,
		normalizer: deps.Normalizer,
		enricher:   deps.Enricher,
		logger:     logger,
	}
}

// SaveURL runs the full extraction pipeline for a raw URL string and
// persists the result. The caller sees the saved record immediately;
// enrichment arrives later or never.
func (p *Pipeline) SaveURL(ctx context.Context, raw string) (*domain.Article, error) {
	normalized, err := platform.NormalizeURL(raw)
	if err != nil {
		return nil, err
	}

	tag := platform.Classify(normalized)
	p.logger.Debug("classified url", "url", normalized, "platform", tag)

	meta, err := p.resolver.Resolve(ctx, normalized, tag)
	if err != nil {
		return nil, fmt.Errorf("resolve metadata: %w", err)
	}

	content := p.normalizer.Normalize(ctx, normalized, tag, meta)

	article := builder.Build(builder.Input{
		URL:         normalized,
		Platform:    tag,
		Title:       content.Title,
		Content:     content.Content,
		Description: content.Description,
		Author:      meta.Author,
		Image:       meta.Image,
		PublishDate: meta.PublishDate,
		HasVideo:    content.HasVideo,
		Tags:        content.Tags,
	})

	if err := p.store.Save(ctx, &article); err != nil {
		return nil, err
	}

	p.logger.Info("article saved", "id", article.ID, "platform", article.Platform, "title", article.Title)

	if p.enricher != nil {
		p.enricher.Enqueue(article)
	}

	return &article, nil
}

// Get loads a single article by id.
func (p *Pipeline) Get(ctx context.Context, id string) (*domain.Article, error) {
	return p.store.GetByID(ctx, id)
}

// List returns every saved article, newest first.
func (p *Pipeline) List(ctx context.Context) ([]domain.Article, error) {
	return p.store.List(ctx)
}

// Delete removes an article permanently.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	return p.store.Delete(ctx, id)
}

// ToggleFavorite flips the favorite marker.
func (p *Pipeline) ToggleFavorite(ctx context.Context, id string) error {
	return p.toggleFlags(ctx, id, func(f *domain.Flags) { f.Favorite = !f.Favorite })
}

// ToggleBookmark flips the bookmark marker.
func (p *Pipeline) ToggleBookmark(ctx context.Context, id string) error {
	return p.toggleFlags(ctx, id, func(f *domain.Flags) { f.Bookmarked = !f.Bookmarked })
}

// MarkRead clears the unread marker.
func (p *Pipeline) MarkRead(ctx context.Context, id string) error {
	return p.toggleFlags(ctx, id, func(f *domain.Flags) { f.Unread = false })
}

func (p *Pipeline) toggleFlags(ctx context.Context, id string, mutate func(*domain.Flags)) error {
	article, err := p.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	flags := domain.Flags{
		Unread:     article.IsUnread,
		Favorite:   article.IsFavorite,
		Bookmarked: article.IsBookmarked,
	}
	mutate(&flags)
	return p.store.SetFlags(ctx, id, flags)
}

// AddTags merges new tags into the article's list without duplication,
// filtering platform/generic terms out of the additions.
func (p *Pipeline) AddTags(ctx context.Context, id string, tags []string) error {
	article, err := p.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	merged := normalize.MergeTags(article.Tags, tags)
	return p.store.UpdateTags(ctx, id, merged)
}

// IsDuplicate reports whether the error means the URL was saved before.
func IsDuplicate(err error) bool {
	return errors.Is(err, domain.ErrDuplicateArticle)
}
