// Package enrich performs best-effort AI analysis of saved articles:
// summary, key points, tags, category, sentiment, and reading time.
// Every failure results in "no enrichment", never in an error that the
// save path could observe.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"LinkStash/internal/domain"
	"LinkStash/internal/ports"
)

const (
	maxSummaryLen  = 500
	maxKeyPoints   = 5
	maxKeyPointLen = 200
	maxTags        = 5
	maxTagLen      = 30
	maxReadingTime = 60
	minReadingTime = 1
)

const analysisSystemPrompt = `You analyze saved articles for a read-it-later app. Given a title, content, and URL, respond with ONLY valid JSON, no prose, no code fences:
{"summary": "2-3 sentence summary", "keyPoints": ["3 to 5 key points"], "tags": ["up to 5 topical lowercase tags"], "category": "one of: technology, business, science, health, entertainment, sports, politics, lifestyle, education, other", "sentiment": "positive, neutral, or negative", "readingTimeMinutes": integer}`

// Analyzer turns an article into a validated Enrichment via the chat
// client.
type Analyzer struct {
	chat ports.ChatClient
}

// NewAnalyzer wires the chat client; nil disables analysis.
func NewAnalyzer(chat ports.ChatClient) *Analyzer {
	return &Analyzer{chat: chat}
}

type analysisResponse struct {
	Summary            string   `json:"summary"`
	KeyPoints          []string `json:"keyPoints"`
	Tags               []string `json:"tags"`
	Category           string   `json:"category"`
	Sentiment          string   `json:"sentiment"`
	ReadingTimeMinutes int      `json:"readingTimeMinutes"`
}

// Analyze requests the structured analysis and validates every field.
// Any failure (no client, network, malformed JSON, missing required
// fields) returns an error the caller logs and swallows.
func (a *Analyzer) Analyze(ctx context.Context, article domain.Article) (domain.Enrichment, error) {
	if a == nil || a.chat == nil {
		return domain.Enrichment{}, fmt.Errorf("no chat client configured")
	}

	payload, err := a.chat.CompleteJSON(ctx, ports.ChatRequest{
		System:      analysisSystemPrompt,
		User:        analysisInput(article),
		Temperature: 0.3,
		MaxTokens:   800,
	})
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("completion: %w", err)
	}

	var resp analysisResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.Enrichment{}, fmt.Errorf("unmarshal analysis: %w", domain.ErrLLMParse)
	}
	if strings.TrimSpace(resp.Summary) == "" && len(resp.KeyPoints) == 0 {
		return domain.Enrichment{}, fmt.Errorf("analysis missing summary and key points: %w", domain.ErrLLMParse)
	}

	return clamp(resp, article), nil
}

func analysisInput(article domain.Article) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(article.Title)
	b.WriteString("\nURL: ")
	b.WriteString(article.URL)
	b.WriteString("\n\nContent:\n")
	content := article.Content
	if len(content) > 8000 {
		content = content[:8000]
	}
	b.WriteString(content)
	return b.String()
}

// clamp enforces every field cap and enumeration of the enrichment
// contract.
func clamp(resp analysisResponse, article domain.Article) domain.Enrichment {
	e := domain.Enrichment{
		Summary:   capString(strings.TrimSpace(resp.Summary), maxSummaryLen),
		Category:  normalizeCategory(resp.Category),
		Sentiment: normalizeSentiment(resp.Sentiment),
	}

	for _, point := range resp.KeyPoints {
		point = strings.TrimSpace(point)
		if point == "" {
			continue
		}
		e.KeyPoints = append(e.KeyPoints, capString(point, maxKeyPointLen))
		if len(e.KeyPoints) == maxKeyPoints {
			break
		}
	}

	for _, tag := range resp.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		e.Tags = append(e.Tags, capString(tag, maxTagLen))
		if len(e.Tags) == maxTags {
			break
		}
	}

	e.ReadingTimeMinutes = resp.ReadingTimeMinutes
	if e.ReadingTimeMinutes == 0 {
		e.ReadingTimeMinutes = estimateReadingTime(article.Content)
	}
	if e.ReadingTimeMinutes < minReadingTime {
		e.ReadingTimeMinutes = minReadingTime
	}
	if e.ReadingTimeMinutes > maxReadingTime {
		e.ReadingTimeMinutes = maxReadingTime
	}

	return e
}

func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case domain.SentimentPositive:
		return domain.SentimentPositive
	case domain.SentimentNegative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func normalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	for _, known := range domain.Categories {
		if c == known {
			return c
		}
	}
	return domain.CategoryOther
}

func capString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// estimateReadingTime assumes ~200 words per minute.
func estimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := words / 200
	if minutes < minReadingTime {
		return minReadingTime
	}
	return minutes
}
