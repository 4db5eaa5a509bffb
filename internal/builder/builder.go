// Package builder assembles the final Article from normalized data.
// Pure given its inputs: no I/O, and idempotent modulo the generated id.
package builder

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"LinkStash/internal/domain"
	"LinkStash/internal/platform"
)

// Input carries everything the builder needs; the pipeline maps
// resolver and normalizer output into it.
type Input struct {
	URL         string
	Platform    domain.Platform
	Title       string
	Content     string
	Description string
	Author      string
	Image       string
	PublishDate time.Time
	HasVideo    bool
	Tags        []string
}

// Build assembles a new Article. The title invariant holds on every
// path: non-empty, never equal to the generated id, never containing it.
func Build(in Input) domain.Article {
	id := newID()

	title := strings.TrimSpace(in.Title)
	if title == "" || title == id || strings.Contains(title, id) {
		title = hostFallbackTitle(in.URL)
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = "Unknown"
	}

	publishDate := in.PublishDate
	if publishDate.IsZero() {
		publishDate = time.Now().UTC()
	}

	return domain.Article{
		ID:            id,
		URL:           in.URL,
		Title:         title,
		Content:       in.Content,
		Summary:       in.Description,
		Author:        author,
		ImageURL:      resolveImage(in.URL, in.Platform, in.Image),
		PublishDate:   publishDate,
		Platform:      in.Platform,
		PlatformColor: in.Platform.Color(),
		Tags:          in.Tags,
		HasVideo:      in.HasVideo,
		IsUnread:      true,
		CreatedAt:     time.Now().UTC(),
	}
}

// newID builds a timestamp-plus-random identifier. Uniqueness is a soft
// invariant; the store's primary key is the hard one.
func newID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

// hostFallbackTitle derives a title from the URL hostname.
func hostFallbackTitle(rawURL string) string {
	if host := platform.Hostname(rawURL); host != "" {
		return "Saved from " + host
	}
	return "Saved link"
}

// resolveImage keeps the extracted image when present, then tries a
// platform thumbnail template, then leaves the field unset.
func resolveImage(rawURL string, p domain.Platform, extracted string) string {
	if extracted != "" {
		return extracted
	}
	if p == domain.PlatformYouTube {
		if id := platform.YouTubeVideoID(rawURL); id != "" {
			return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
		}
	}
	return ""
}
