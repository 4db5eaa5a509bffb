// Package resolver selects and runs metadata-extraction strategies per
// platform, in a strict fallback order. Strategies degrade silently;
// only a transport failure across the whole chain surfaces as an error.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"LinkStash/internal/domain"
	"LinkStash/internal/ports"
)

// Strategy is a single way of obtaining raw metadata for a URL.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (domain.Metadata, error)
}

// Deps wires the concrete strategies into the resolver.
type Deps struct {
	Scraper     Strategy // generic metadata-scraping service
	OpenGraph   Strategy // direct HTML fetch + Open-Graph tags
	OEmbed      Strategy // platform-official oEmbed endpoint
	Readability Strategy // readability/content-extraction service
	Logger      *slog.Logger
}

// Resolver runs the platform-appropriate strategy chain.
type Resolver struct {
	scraper     Strategy
	opengraph   Strategy
	oembed      Strategy
	readability Strategy
	logger      *slog.Logger
}

var _ ports.MetadataResolver = (*Resolver)(nil)

// New builds a resolver over the given strategies.
func New(deps Deps) *Resolver {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		scraper:     deps.Scraper,
		opengraph:   deps.OpenGraph,
		oembed:      deps.OEmbed,
		readability: deps.Readability,
		logger:      logger,
	}
}

// Resolve runs the fallback chain for the platform and returns whichever
// strategy produced a usable result first. When every strategy comes
// back empty but reachable, it returns empty metadata and no error; the
// caller derives a URL-based fallback. When every attempted strategy
// failed at the transport level, it returns domain.ErrNetwork.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, p domain.Platform) (domain.Metadata, error) {
	chain := r.chainFor(p)
	if len(chain) == 0 {
		return domain.Metadata{}, nil
	}

	var (
		best      domain.Metadata
		attempted int
		failed    int
		lastErr   error
	)

	for _, strategy := range chain {
		if strategy == nil {
			continue
		}
		attempted++

		meta, err := strategy.Fetch(ctx, rawURL)
		if err != nil {
			failed++
			lastErr = err
			r.logger.Debug("strategy failed", "strategy", strategy.Name(), "url", rawURL, "error", err)
			continue
		}

		if meta.Usable() {
			if p == domain.PlatformYouTube && placeholderTitle(meta.Title) && r.oembed != nil {
				if oe, oerr := r.oembed.Fetch(ctx, rawURL); oerr == nil && oe.Usable() {
					r.logger.Debug("oembed replaced placeholder title", "url", rawURL)
					return merge(oe, meta), nil
				}
			}
			return meta, nil
		}
		best = merge(best, meta)
	}

	// YouTube gets one more chance via oEmbed when both prior
	// strategies came back empty or placeholder-titled.
	if p == domain.PlatformYouTube && r.oembed != nil && placeholderTitle(best.Title) {
		attempted++
		if oe, err := r.oembed.Fetch(ctx, rawURL); err == nil {
			if oe.Usable() {
				return merge(oe, best), nil
			}
		} else {
			failed++
			lastErr = err
		}
	}

	if best.Usable() {
		return best, nil
	}
	if attempted > 0 && failed == attempted {
		return domain.Metadata{}, fmt.Errorf("all strategies failed (%v): %w", lastErr, domain.ErrNetwork)
	}
	return best, nil
}

func (r *Resolver) chainFor(p domain.Platform) []Strategy {
	switch p {
	case domain.PlatformYouTube, domain.PlatformTikTok, domain.PlatformInstagram,
		domain.PlatformReddit, domain.PlatformFacebook:
		return []Strategy{r.scraper, r.opengraph}
	case domain.PlatformTwitter:
		// Structured metadata APIs are unreliable here and the OG
		// fallback only yields login chrome; the extraction service is
		// the single strategy.
		return []Strategy{r.readability}
	default:
		return []Strategy{r.readability}
	}
}

// placeholderTitle recognizes titles that mean extraction silently
// failed: empty, the literal site name, or a login wall.
func placeholderTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return t == "" || t == "youtube" || strings.Contains(t, "login") || strings.Contains(t, "log in")
}

// merge fills zero fields of primary from secondary.
func merge(primary, secondary domain.Metadata) domain.Metadata {
	if primary.Title == "" {
		primary.Title = secondary.Title
	}
	if primary.Description == "" {
		primary.Description = secondary.Description
	}
	if primary.Content == "" {
		primary.Content = secondary.Content
	}
	if primary.Author == "" {
		primary.Author = secondary.Author
	}
	if primary.Image == "" {
		primary.Image = secondary.Image
	}
	if primary.PublishDate.IsZero() {
		primary.PublishDate = secondary.PublishDate
	}
	return primary
}
