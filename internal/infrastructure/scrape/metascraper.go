// Package scrape implements the resolver strategies backed by upstream
// HTTP services: the generic metadata scraper, direct Open-Graph
// scraping, the oEmbed endpoint, and the readability service.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"LinkStash/internal/domain"
	"LinkStash/internal/resolver"
)

// MetaScraper calls the generic metadata-scraping service:
// GET {endpoint}?url=<url> -> {status, data:{title,description,image:{url},author}}.
type MetaScraper struct {
	endpoint string
	client   *http.Client
}

var _ resolver.Strategy = (*MetaScraper)(nil)

// NewMetaScraper wires the service endpoint; client defaults to a 15s timeout.
func NewMetaScraper(endpoint string, client *http.Client) *MetaScraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &MetaScraper{endpoint: endpoint, client: client}
}

// Name identifies the strategy in logs.
func (m *MetaScraper) Name() string {
	return "metascraper"
}

type scraperResponse struct {
	Status string `json:"status"`
	Data   struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Author      string `json:"author"`
		Image       struct {
			URL string `json:"url"`
		} `json:"image"`
		Date string `json:"date"`
	} `json:"data"`
}

// Fetch queries the service and maps the structured response.
func (m *MetaScraper) Fetch(ctx context.Context, rawURL string) (domain.Metadata, error) {
	if m.endpoint == "" {
		return domain.Metadata{}, fmt.Errorf("metascraper endpoint not configured")
	}

	reqURL := fmt.Sprintf("%s?url=%s", m.endpoint, url.QueryEscape(rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("request metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Metadata{}, fmt.Errorf("metascraper returned %s", resp.Status)
	}

	var body scraperResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Metadata{}, fmt.Errorf("decode response: %w", err)
	}

	meta := domain.Metadata{
		Title:       body.Data.Title,
		Description: body.Data.Description,
		Author:      body.Data.Author,
		Image:       body.Data.Image.URL,
	}
	if body.Data.Date != "" {
		if ts, perr := time.Parse(time.RFC3339, body.Data.Date); perr == nil {
			meta.PublishDate = ts
		}
	}
	return meta, nil
}
