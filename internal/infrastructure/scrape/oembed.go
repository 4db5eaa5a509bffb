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

// OEmbed calls a platform-official oEmbed endpoint:
// GET {endpoint}?url=<url>&format=json -> {title, author_name, thumbnail_url}.
// More reliable than scraping for video titles and authors.
type OEmbed struct {
	endpoint string
	client   *http.Client
}

var _ resolver.Strategy = (*OEmbed)(nil)

// NewOEmbed wires the endpoint; client defaults to a 15s timeout.
func NewOEmbed(endpoint string, client *http.Client) *OEmbed {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &OEmbed{endpoint: endpoint, client: client}
}

// Name identifies the strategy in logs.
func (o *OEmbed) Name() string {
	return "oembed"
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Fetch queries the oEmbed endpoint for the URL.
func (o *OEmbed) Fetch(ctx context.Context, rawURL string) (domain.Metadata, error) {
	if o.endpoint == "" {
		return domain.Metadata{}, fmt.Errorf("oembed endpoint not configured")
	}

	reqURL := fmt.Sprintf("%s?url=%s&format=json", o.endpoint, url.QueryEscape(rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("request oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Metadata{}, fmt.Errorf("oembed returned %s", resp.Status)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Metadata{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.Metadata{
		Title:  body.Title,
		Author: body.AuthorName,
		Image:  body.ThumbnailURL,
	}, nil
}
