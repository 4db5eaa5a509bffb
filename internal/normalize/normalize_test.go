package normalize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"LinkStash/internal/domain"
	"LinkStash/internal/ports"
)

type spyChat struct {
	payload []byte
	err     error
	calls   int
	lastReq ports.ChatRequest
}

func (s *spyChat) CompleteJSON(ctx context.Context, req ports.ChatRequest) ([]byte, error) {
	s.calls++
	s.lastReq = req
	return s.payload, s.err
}

func longContent() string {
	return strings.Repeat("This is real extracted article content. ", 5)
}

func TestNormalizeTwitterNeverCallsLLM(t *testing.T) {
	t.Parallel()

	chat := &spyChat{payload: []byte(`{"title":"hallucinated"}`)}
	n := New(chat, nil)

	meta := domain.Metadata{
		Title:   `Jane on X: "Shipped the new release today, notes in thread."`,
		Content: longContent(),
	}
	out := n.Normalize(context.Background(), "https://x.com/jane/status/123", domain.PlatformTwitter, meta)

	if chat.calls != 0 {
		t.Fatalf("chat client was called %d times", chat.calls)
	}
	if out.Content != "Shipped the new release today, notes in thread." {
		t.Fatalf("content = %q", out.Content)
	}
	if out.Title == "" || strings.Contains(out.Title, "hallucinated") {
		t.Fatalf("title = %q", out.Title)
	}
}

func TestNormalizeTwitterNothingRecoverable(t *testing.T) {
	t.Parallel()

	chat := &spyChat{}
	n := New(chat, nil)

	out := n.Normalize(context.Background(), "https://x.com/jane/status/123", domain.PlatformTwitter, domain.Metadata{})
	if chat.calls != 0 {
		t.Fatalf("chat client was called %d times", chat.calls)
	}
	if out.Title == "" {
		t.Fatal("fallback title missing")
	}
	if !strings.Contains(out.Description, "X") {
		t.Fatalf("description = %q", out.Description)
	}
}

func TestNormalizeSocialBelowThreshold(t *testing.T) {
	t.Parallel()

	chat := &spyChat{}
	n := New(chat, nil)

	out := n.Normalize(context.Background(),
		"https://www.instagram.com/reel/ABC123/", domain.PlatformInstagram,
		domain.Metadata{Author: "@photoguy", Content: "tiny"})

	if chat.calls != 0 {
		t.Fatalf("chat client called %d times for below-threshold content", chat.calls)
	}
	if out.Title != "Instagram Reel by @photoguy" {
		t.Fatalf("title = %q", out.Title)
	}
	if !strings.Contains(out.Description, "reel") {
		t.Fatalf("description = %q", out.Description)
	}
	if !out.HasVideo {
		t.Fatal("reel should be flagged as video")
	}
}

func TestNormalizeSocialKeepsExtractedTitle(t *testing.T) {
	t.Parallel()

	n := New(nil, nil)
	out := n.Normalize(context.Background(),
		"https://youtu.be/abc12345678", domain.PlatformYouTube,
		domain.Metadata{Title: "How Gophers Swim"})
	if out.Title != "How Gophers Swim" {
		t.Fatalf("title = %q", out.Title)
	}

	// the bare site name is a placeholder, not a title
	out = n.Normalize(context.Background(),
		"https://youtu.be/abc12345678", domain.PlatformYouTube,
		domain.Metadata{Title: "YouTube"})
	if out.Title != "YouTube Video" {
		t.Fatalf("title = %q", out.Title)
	}
}

func TestNormalizeSocialUsernameFromURL(t *testing.T) {
	t.Parallel()

	n := New(nil, nil)
	out := n.Normalize(context.Background(),
		"https://www.tiktok.com/@dancer/video/728", domain.PlatformTikTok, domain.Metadata{})
	if out.Title != "TikTok Video by @dancer" {
		t.Fatalf("title = %q", out.Title)
	}
}

func TestNormalizeSocialLLMCleanup(t *testing.T) {
	t.Parallel()

	chat := &spyChat{payload: []byte(`{"title":"Sunset timelapse over the bay","description":"Caption text from the original post."}`)}
	n := New(chat, nil)

	meta := domain.Metadata{Title: "YouTube", Content: longContent()}
	out := n.Normalize(context.Background(),
		"https://youtu.be/abc12345678", domain.PlatformYouTube, meta)

	if chat.calls != 1 {
		t.Fatalf("chat calls = %d", chat.calls)
	}
	if chat.lastReq.Temperature != 0.1 {
		t.Fatalf("temperature = %v", chat.lastReq.Temperature)
	}
	if out.Title != "Sunset timelapse over the bay" {
		t.Fatalf("title = %q", out.Title)
	}
	if out.Description != "Caption text from the original post." {
		t.Fatalf("description = %q", out.Description)
	}
	if out.Content != strings.TrimSpace(longContent()) {
		t.Fatalf("content rewritten: %q", out.Content)
	}
}

func TestNormalizeLLMFailureFallsBack(t *testing.T) {
	t.Parallel()

	chat := &spyChat{err: errors.New("upstream down")}
	n := New(chat, nil)

	meta := domain.Metadata{Title: "Original Extracted Title", Description: "Extracted description.", Content: longContent()}
	out := n.Normalize(context.Background(),
		"https://example.com/blog/go-generics", domain.PlatformOther, meta)

	if out.Title != "Original Extracted Title" {
		t.Fatalf("title = %q", out.Title)
	}
	if out.Description != "Extracted description." {
		t.Fatalf("description = %q", out.Description)
	}
}

func TestNormalizeLLMBadPayloadFallsBack(t *testing.T) {
	t.Parallel()

	chat := &spyChat{payload: []byte(`{"description":"no title field"}`)}
	n := New(chat, nil)

	meta := domain.Metadata{Title: "Kept Title", Content: longContent()}
	out := n.Normalize(context.Background(),
		"https://example.com/post", domain.PlatformOther, meta)

	if out.Title != "Kept Title" {
		t.Fatalf("title = %q", out.Title)
	}
}

func TestNormalizeNilChatClient(t *testing.T) {
	t.Parallel()

	n := New(nil, nil)
	meta := domain.Metadata{Title: "Plain Title", Content: longContent()}
	out := n.Normalize(context.Background(),
		"https://example.com/post", domain.PlatformOther, meta)

	if out.Title != "Plain Title" {
		t.Fatalf("title = %q", out.Title)
	}
	if out.Content == "" {
		t.Fatal("content dropped")
	}
}

func TestNormalizeArticleTitleFromURL(t *testing.T) {
	t.Parallel()

	n := New(nil, nil)
	out := n.Normalize(context.Background(),
		"https://example.com/blog/my-great-post", domain.PlatformOther, domain.Metadata{})
	if out.Title != "My Great Post" {
		t.Fatalf("title = %q", out.Title)
	}
}

func TestFallbackTitleBareHost(t *testing.T) {
	t.Parallel()

	if got := fallbackTitle("https://example.com/", domain.PlatformOther); got != "example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateWords(t *testing.T) {
	t.Parallel()

	s := "alpha beta gamma delta epsilon"
	got := truncateWords(s, 16)
	if got != "alpha beta gamma..." && got != "alpha beta..." {
		t.Fatalf("got %q", got)
	}
	if truncateWords("short", 100) != "short" {
		t.Fatal("short strings must pass through")
	}
}
