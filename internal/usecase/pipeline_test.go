package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LinkStash/internal/domain"
	"LinkStash/internal/infrastructure/storage"
	"LinkStash/internal/normalize"
)

type stubResolver struct {
	meta domain.Metadata
	err  error
}

func (s *stubResolver) Resolve(ctx context.Context, rawURL string, p domain.Platform) (domain.Metadata, error) {
	return s.meta, s.err
}

type recordingEnricher struct {
	mu     sync.Mutex
	queued []string
}

func (r *recordingEnricher) Enqueue(article domain.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, article.ID)
}

func (r *recordingEnricher) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queued...)
}

func newTestPipeline(t *testing.T, resolver *stubResolver) (*Pipeline, *recordingEnricher) {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	enricher := &recordingEnricher{}
	p := NewPipeline(PipelineDeps{
		Store:      store,
		Resolver:   resolver,
		Normalizer: normalize.New(nil, nil),
		Enricher:   enricher,
	})
	return p, enricher
}

func TestSaveURL(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{meta: domain.Metadata{
		Title:       "How Gophers Swim",
		Description: "A nature documentary about gophers and water.",
		Author:      "Nature Channel",
		Image:       "https://img.example.com/t.jpg",
	}}
	p, enricher := newTestPipeline(t, resolver)

	article, err := p.SaveURL(context.Background(), "youtube.com/watch?v=abc12345678")
	require.NoError(t, err)

	assert.Equal(t, "https://youtube.com/watch?v=abc12345678", article.URL)
	assert.Equal(t, domain.PlatformYouTube, article.Platform)
	assert.Equal(t, "#FF0000", article.PlatformColor)
	assert.Equal(t, "How Gophers Swim", article.Title)
	assert.Equal(t, "Nature Channel", article.Author)
	assert.True(t, article.HasVideo)
	assert.True(t, article.IsUnread)
	assert.Contains(t, article.Tags, "youtube")

	// the save path completes before any enrichment lands
	assert.False(t, article.AIEnhanced)
	assert.Equal(t, []string{article.ID}, enricher.ids())

	stored, err := p.Get(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, stored.Title)
}

func TestSaveURLInvalid(t *testing.T) {
	t.Parallel()

	p, enricher := newTestPipeline(t, &stubResolver{})

	_, err := p.SaveURL(context.Background(), "not a url at all")
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
	assert.Empty(t, enricher.ids())
}

func TestSaveURLDuplicate(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{meta: domain.Metadata{Title: "T"}}
	p, _ := newTestPipeline(t, resolver)

	_, err := p.SaveURL(context.Background(), "https://example.com/post")
	require.NoError(t, err)

	_, err = p.SaveURL(context.Background(), "https://example.com/post")
	assert.ErrorIs(t, err, domain.ErrDuplicateArticle)
	assert.True(t, IsDuplicate(err))

	// exact-string dedup: a query parameter makes it a new article
	_, err = p.SaveURL(context.Background(), "https://example.com/post?ref=x")
	assert.NoError(t, err)
}

func TestSaveURLNetworkFailure(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{err: domain.ErrNetwork}
	p, enricher := newTestPipeline(t, resolver)

	_, err := p.SaveURL(context.Background(), "https://example.com/post")
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Empty(t, enricher.ids())

	articles, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestSaveURLEmptyMetadataStillSaves(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, &stubResolver{})

	article, err := p.SaveURL(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.NotEmpty(t, article.Title)
	assert.NotEqual(t, article.ID, article.Title)
}

func TestSaveURLMinimalSocialRecord(t *testing.T) {
	t.Parallel()

	// every extraction strategy came back empty but reachable
	p, enricher := newTestPipeline(t, &stubResolver{})

	article, err := p.SaveURL(context.Background(), "https://www.instagram.com/reel/ABC123/")
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformInstagram, article.Platform)
	assert.Equal(t, "Instagram Reel", article.Title)
	assert.True(t, article.HasVideo)
	assert.Contains(t, article.Tags, "instagram")
	assert.Contains(t, article.Tags, "reel")
	assert.Equal(t, "Unknown", article.Author)
	assert.Equal(t, []string{article.ID}, enricher.ids())
}

func TestToggleFlags(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, &stubResolver{meta: domain.Metadata{Title: "T"}})
	ctx := context.Background()

	article, err := p.SaveURL(ctx, "https://example.com/post")
	require.NoError(t, err)

	require.NoError(t, p.ToggleFavorite(ctx, article.ID))
	require.NoError(t, p.ToggleBookmark(ctx, article.ID))
	require.NoError(t, p.MarkRead(ctx, article.ID))

	got, err := p.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.True(t, got.IsBookmarked)
	assert.False(t, got.IsUnread)

	require.NoError(t, p.ToggleFavorite(ctx, article.ID))
	got, err = p.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorite)

	assert.ErrorIs(t, p.ToggleFavorite(ctx, "ghost"), domain.ErrArticleNotFound)
}

func TestAddTags(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, &stubResolver{meta: domain.Metadata{Title: "T"}})
	ctx := context.Background()

	article, err := p.SaveURL(ctx, "https://example.com/cooking-tips")
	require.NoError(t, err)

	require.NoError(t, p.AddTags(ctx, article.ID, []string{"Cooking", "web", "cooking"}))

	got, err := p.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Tags, "cooking")
	// denylisted additions are dropped, existing seeds survive
	assert.Equal(t, 1, countOf(got.Tags, "web"))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, &stubResolver{meta: domain.Metadata{Title: "T"}})
	ctx := context.Background()

	article, err := p.SaveURL(ctx, "https://example.com/post")
	require.NoError(t, err)
	require.NoError(t, p.Delete(ctx, article.ID))

	_, err = p.Get(ctx, article.ID)
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func countOf(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
