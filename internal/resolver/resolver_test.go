package resolver

import (
	"context"
	"errors"
	"testing"

	"LinkStash/internal/domain"
)

type stubStrategy struct {
	name  string
	meta  domain.Metadata
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(ctx context.Context, rawURL string) (domain.Metadata, error) {
	s.calls++
	return s.meta, s.err
}

func TestResolveScraperWinsFirst(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper", meta: domain.Metadata{Title: "From scraper"}}
	og := &stubStrategy{name: "opengraph", meta: domain.Metadata{Title: "From og"}}
	r := New(Deps{Scraper: scraper, OpenGraph: og})

	meta, err := r.Resolve(context.Background(), "https://instagram.com/p/ABC/", domain.PlatformInstagram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "From scraper" {
		t.Fatalf("got title %q", meta.Title)
	}
	if og.calls != 0 {
		t.Fatalf("opengraph should not run when scraper succeeds, ran %d times", og.calls)
	}
}

func TestResolveFallsBackToOpenGraph(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper", err: errors.New("503")}
	og := &stubStrategy{name: "opengraph", meta: domain.Metadata{Title: "From og"}}
	r := New(Deps{Scraper: scraper, OpenGraph: og})

	meta, err := r.Resolve(context.Background(), "https://www.tiktok.com/@u/video/1", domain.PlatformTikTok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "From og" {
		t.Fatalf("got title %q", meta.Title)
	}
	if scraper.calls != 1 || og.calls != 1 {
		t.Fatalf("scraper=%d og=%d calls", scraper.calls, og.calls)
	}
}

func TestResolveAllFailedIsNetworkError(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper", err: errors.New("timeout")}
	og := &stubStrategy{name: "opengraph", err: errors.New("refused")}
	r := New(Deps{Scraper: scraper, OpenGraph: og})

	_, err := r.Resolve(context.Background(), "https://instagram.com/p/ABC/", domain.PlatformInstagram)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestResolveEmptyButReachableIsNotAnError(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper"}
	og := &stubStrategy{name: "opengraph"}
	r := New(Deps{Scraper: scraper, OpenGraph: og})

	meta, err := r.Resolve(context.Background(), "https://instagram.com/p/ABC/", domain.PlatformInstagram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !meta.Empty() {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}

func TestResolveYouTubePlaceholderTriggersOEmbed(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper", meta: domain.Metadata{Title: "YouTube", Image: "thumb.jpg"}}
	og := &stubStrategy{name: "opengraph"}
	oembed := &stubStrategy{name: "oembed", meta: domain.Metadata{Title: "Actual Video Title", Author: "Channel"}}
	r := New(Deps{Scraper: scraper, OpenGraph: og, OEmbed: oembed})

	meta, err := r.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ", domain.PlatformYouTube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "Actual Video Title" {
		t.Fatalf("got title %q", meta.Title)
	}
	// the scraper's thumbnail survives the merge
	if meta.Image != "thumb.jpg" {
		t.Fatalf("got image %q", meta.Image)
	}
	if oembed.calls != 1 {
		t.Fatalf("oembed calls = %d", oembed.calls)
	}
}

func TestResolveYouTubeRealTitleSkipsOEmbed(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper", meta: domain.Metadata{Title: "A Real Title"}}
	oembed := &stubStrategy{name: "oembed", meta: domain.Metadata{Title: "Should not be used"}}
	r := New(Deps{Scraper: scraper, OpenGraph: &stubStrategy{name: "opengraph"}, OEmbed: oembed})

	meta, err := r.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ", domain.PlatformYouTube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "A Real Title" {
		t.Fatalf("got title %q", meta.Title)
	}
	if oembed.calls != 0 {
		t.Fatalf("oembed ran %d times", oembed.calls)
	}
}

func TestResolveTwitterUsesReadabilityOnly(t *testing.T) {
	t.Parallel()

	scraper := &stubStrategy{name: "scraper", meta: domain.Metadata{Title: "wrong"}}
	read := &stubStrategy{name: "readability", meta: domain.Metadata{Title: "Tweet text", Content: "post body"}}
	r := New(Deps{Scraper: scraper, Readability: read})

	meta, err := r.Resolve(context.Background(), "https://x.com/u/status/1", domain.PlatformTwitter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "Tweet text" {
		t.Fatalf("got title %q", meta.Title)
	}
	if scraper.calls != 0 {
		t.Fatalf("scraper should not run for this platform, ran %d times", scraper.calls)
	}
}

func TestResolveNilStrategiesSkipped(t *testing.T) {
	t.Parallel()

	og := &stubStrategy{name: "opengraph", meta: domain.Metadata{Description: "desc only"}}
	r := New(Deps{OpenGraph: og})

	meta, err := r.Resolve(context.Background(), "https://instagram.com/p/ABC/", domain.PlatformInstagram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Description != "desc only" {
		t.Fatalf("got %+v", meta)
	}
}

func TestPlaceholderTitle(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"", "YouTube", "  youtube ", "Log in to continue", "Login required"} {
		if !placeholderTitle(title) {
			t.Errorf("placeholderTitle(%q) = false, want true", title)
		}
	}
	for _, title := range []string{"My Cooking Video", "Gopher tricks"} {
		if placeholderTitle(title) {
			t.Errorf("placeholderTitle(%q) = true, want false", title)
		}
	}
}
