package platform

import (
	"testing"

	"LinkStash/internal/domain"
)

func TestUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		p    domain.Platform
		want string
	}{
		{"https://www.tiktok.com/@dancer/video/728394", domain.PlatformTikTok, "dancer"},
		{"https://www.youtube.com/@channelname", domain.PlatformYouTube, "channelname"},
		{"https://x.com/someuser/status/123", domain.PlatformTwitter, "someuser"},
		{"https://instagram.com/photoguy/", domain.PlatformInstagram, "photoguy"},
		{"https://instagram.com/reel/ABC123/", domain.PlatformInstagram, ""},
		{"https://www.reddit.com/user/redditor1/", domain.PlatformReddit, "redditor1"},
		{"https://www.reddit.com/r/golang/comments/abc/x/", domain.PlatformReddit, ""},
		{"https://youtu.be/dQw4w9WgXcQ", domain.PlatformYouTube, ""},
	}

	for _, tt := range tests {
		if got := Username(tt.url, tt.p); got != tt.want {
			t.Errorf("Username(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestLastPathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/blog/my-great-post", "my-great-post"},
		{"https://example.com/articles/12345", "articles"},
		{"https://x.com/user/status/12345", ""},
		{"https://example.com/", ""},
		{"https://example.com/post/index.html", "post"},
	}

	for _, tt := range tests {
		if got := LastPathSegment(tt.url); got != tt.want {
			t.Errorf("LastPathSegment(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestYouTubeVideoID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abcDEF12345", "abcDEF12345"},
		{"https://www.youtube.com/embed/abcDEF12345", "abcDEF12345"},
		{"https://www.youtube.com/watch?v=tooshort", ""},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/@channel", ""},
	}

	for _, tt := range tests {
		if got := YouTubeVideoID(tt.url); got != tt.want {
			t.Errorf("YouTubeVideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestHostname(t *testing.T) {
	t.Parallel()

	if got := Hostname("https://www.example.com/x"); got != "example.com" {
		t.Fatalf("got %q", got)
	}
	if got := Hostname("https://sub.example.com/"); got != "sub.example.com" {
		t.Fatalf("got %q", got)
	}
}
