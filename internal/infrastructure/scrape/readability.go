package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"LinkStash/internal/domain"
	"LinkStash/internal/resolver"
)

// maxReadabilityBody caps how much of a response body is read.
const maxReadabilityBody = 4 * 1024 * 1024

// Readability calls the readability/content-extraction service:
// GET {endpoint}/<url> -> JSON with extracted markdown/content and
// optional title/author/publish_date/image fields. Plain-text bodies
// are accepted verbatim as content. When the service yields nothing,
// the page is fetched directly and run through a local readability
// pass as a last resort.
type Readability struct {
	endpoint string
	client   *http.Client
}

var _ resolver.Strategy = (*Readability)(nil)

// NewReadability wires the endpoint; client defaults to a 30s timeout.
func NewReadability(endpoint string, client *http.Client) *Readability {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Readability{endpoint: endpoint, client: client}
}

// Name identifies the strategy in logs.
func (r *Readability) Name() string {
	return "readability"
}

type readabilityResponse struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Content     string `json:"content"`
	Markdown    string `json:"markdown"`
	Excerpt     string `json:"excerpt"`
	Image       string `json:"image"`
	PublishDate string `json:"publish_date"`
}

// Fetch asks the extraction service for the page, falling back to a
// local readability pass over a direct fetch when the service fails or
// returns nothing.
func (r *Readability) Fetch(ctx context.Context, rawURL string) (domain.Metadata, error) {
	meta, serviceErr := r.fromService(ctx, rawURL)
	if serviceErr == nil && (meta.Usable() || meta.Content != "") {
		return meta, nil
	}

	local, localErr := r.fromLocal(ctx, rawURL)
	if localErr != nil {
		if serviceErr != nil {
			return domain.Metadata{}, fmt.Errorf("service: %v; local: %w", serviceErr, localErr)
		}
		return meta, nil
	}
	return local, nil
}

func (r *Readability) fromService(ctx context.Context, rawURL string) (domain.Metadata, error) {
	if r.endpoint == "" {
		return domain.Metadata{}, fmt.Errorf("readability endpoint not configured")
	}

	reqURL := strings.TrimSuffix(r.endpoint, "/") + "/" + url.QueryEscape(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("request extraction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Metadata{}, fmt.Errorf("extraction service returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReadabilityBody))
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("read response: %w", err)
	}

	var body readabilityResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		// Not JSON: the service handed back the extracted text itself.
		return domain.Metadata{Content: strings.TrimSpace(string(raw))}, nil
	}

	content := body.Content
	if content == "" {
		content = body.Markdown
	}

	meta := domain.Metadata{
		Title:       body.Title,
		Description: body.Excerpt,
		Content:     content,
		Author:      body.Author,
		Image:       body.Image,
	}
	if body.PublishDate != "" {
		if ts, perr := time.Parse(time.RFC3339, body.PublishDate); perr == nil {
			meta.PublishDate = ts
		}
	}
	return meta, nil
}

func (r *Readability) fromLocal(ctx context.Context, rawURL string) (domain.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Metadata{}, fmt.Errorf("page returned %s", resp.Status)
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("parse url: %w", err)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxReadabilityBody), pageURL)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("local extraction: %w", err)
	}

	return domain.Metadata{
		Title:       article.Title,
		Description: article.Excerpt,
		Content:     article.TextContent,
		Author:      article.Byline,
		Image:       article.Image,
	}, nil
}
