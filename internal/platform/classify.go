// Package platform holds the pure URL heuristics of the pipeline:
// validation, platform classification, and the path/username helpers the
// normalizer and builder rely on. Nothing here performs I/O.
package platform

import (
	"fmt"
	"net/url"
	"strings"

	"LinkStash/internal/domain"
)

// NormalizeURL prefixes https:// when no scheme is present and parses the
// result. Failure yields domain.ErrInvalidURL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty input: %w", domain.ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return "", fmt.Errorf("parse %q: %w", raw, domain.ErrInvalidURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q: %w", u.Scheme, domain.ErrInvalidURL)
	}
	return u.String(), nil
}

// Classify maps a URL to its source platform. Pure and deterministic:
// the same URL always yields the same tag. Unmatched URLs classify as
// PlatformOther.
func Classify(rawURL string) domain.Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.PlatformOther
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	switch {
	case host == "youtu.be" || hostIs(host, "youtube.com"):
		return domain.PlatformYouTube
	case hostIs(host, "tiktok.com"):
		return domain.PlatformTikTok
	case hostIs(host, "instagram.com") || host == "instagr.am":
		return domain.PlatformInstagram
	case hostIs(host, "twitter.com") || hostIs(host, "x.com"):
		return domain.PlatformTwitter
	case hostIs(host, "facebook.com") || host == "fb.com" || host == "fb.watch":
		return domain.PlatformFacebook
	case hostIs(host, "reddit.com") || host == "redd.it":
		return domain.PlatformReddit
	default:
		return domain.PlatformOther
	}
}

func hostIs(host, domainName string) bool {
	return host == domainName || strings.HasSuffix(host, "."+domainName)
}

// ContentType names what a URL points at on its platform: "video",
// "reel", "post", and so on. Drives tag seeding and fallback titles.
func ContentType(rawURL string, p domain.Platform) string {
	u, err := url.Parse(rawURL)
	path := ""
	if err == nil {
		path = strings.ToLower(u.Path)
	}

	switch p {
	case domain.PlatformYouTube:
		if strings.Contains(path, "/shorts/") {
			return "short"
		}
		return "video"
	case domain.PlatformTikTok:
		return "video"
	case domain.PlatformInstagram:
		switch {
		case strings.Contains(path, "/reel"):
			return "reel"
		case strings.Contains(path, "/stories/"):
			return "story"
		default:
			return "post"
		}
	case domain.PlatformTwitter:
		return "post"
	case domain.PlatformReddit:
		return "post"
	case domain.PlatformFacebook:
		if strings.Contains(path, "/videos/") || strings.Contains(path, "/watch") {
			return "video"
		}
		return "post"
	default:
		return "article"
	}
}

// HasVideo applies the platform/content heuristics for the video flag.
func HasVideo(rawURL string, p domain.Platform) bool {
	switch p {
	case domain.PlatformYouTube, domain.PlatformTikTok:
		return true
	case domain.PlatformInstagram:
		ct := ContentType(rawURL, p)
		return ct == "reel" || ct == "story"
	case domain.PlatformFacebook:
		return ContentType(rawURL, p) == "video"
	default:
		return false
	}
}
