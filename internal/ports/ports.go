package ports

import (
	"context"

	"LinkStash/internal/domain"
)

// ArticleStore persists articles as individual records. Save must reject
// a duplicate url or id with domain.ErrDuplicateArticle.
type ArticleStore interface {
	Save(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetByURL(ctx context.Context, url string) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Delete(ctx context.Context, id string) error

	// ApplyEnrichment merges AI-owned fields into an existing record.
	// A missing id yields domain.ErrArticleNotFound, never a crash.
	ApplyEnrichment(ctx context.Context, id string, e domain.Enrichment) error
	SetFlags(ctx context.Context, id string, f domain.Flags) error
	UpdateTags(ctx context.Context, id string, tags []string) error
}

// MetadataResolver obtains raw title/description/image/author for a URL
// using a strategy chain selected by platform.
type MetadataResolver interface {
	Resolve(ctx context.Context, rawURL string, platform domain.Platform) (domain.Metadata, error)
}

// ChatRequest describes a single chat-completion call.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ChatClient talks to an OpenAI-compatible chat-completion API.
// CompleteJSON returns the first JSON object found in the model output,
// with code fences stripped; a missing object yields domain.ErrLLMParse.
type ChatClient interface {
	CompleteJSON(ctx context.Context, req ChatRequest) ([]byte, error)
}

// KeyProvider resolves the LLM API key (secure storage first, then the
// configured build-time key).
type KeyProvider interface {
	APIKey() (string, error)
}

// EnrichmentQueue accepts articles for best-effort background analysis.
// Enqueue never blocks the caller and never reports failure.
type EnrichmentQueue interface {
	Enqueue(article domain.Article)
}
