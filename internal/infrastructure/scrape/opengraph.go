package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"LinkStash/internal/domain"
	"LinkStash/internal/resolver"
)

const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// OpenGraph fetches the page directly with a desktop user agent and
// reads og:* meta tags, the <title> element, and the author meta tag.
type OpenGraph struct {
	client *http.Client
}

var _ resolver.Strategy = (*OpenGraph)(nil)

// NewOpenGraph builds the direct-fetch strategy; client defaults to a
// 20s timeout.
func NewOpenGraph(client *http.Client) *OpenGraph {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &OpenGraph{client: client}
}

// Name identifies the strategy in logs.
func (o *OpenGraph) Name() string {
	return "opengraph"
}

// Fetch downloads the page HTML and extracts Open-Graph metadata.
func (o *OpenGraph) Fetch(ctx context.Context, rawURL string) (domain.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := o.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Metadata{}, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("parse html: %w", err)
	}

	return extractOpenGraph(doc), nil
}

func extractOpenGraph(doc *goquery.Document) domain.Metadata {
	meta := domain.Metadata{
		Title:       metaProperty(doc, "og:title"),
		Description: metaProperty(doc, "og:description"),
		Image:       metaProperty(doc, "og:image"),
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Description == "" {
		meta.Description = metaName(doc, "description")
	}

	meta.Author = metaName(doc, "author")
	if meta.Author == "" {
		meta.Author = metaProperty(doc, "article:author")
	}

	if published := metaProperty(doc, "article:published_time"); published != "" {
		if ts, err := time.Parse(time.RFC3339, published); err == nil {
			meta.PublishDate = ts
		}
	}

	return meta
}

func metaProperty(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}

func metaName(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First().Attr("content")
	return strings.TrimSpace(content)
}
