// Package normalize turns resolver output into the final title, content,
// description, video flag, and seed tags, with platform-specific policy
// on when an LLM may clean up extraction artifacts.
package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"LinkStash/internal/domain"
	"LinkStash/internal/platform"
	"LinkStash/internal/ports"
)

// minContentLen is the threshold below which raw extracted content is
// treated as "extraction failed silently" and no LLM call is made.
const minContentLen = 50

const maxTitleLen = 50

// Normalized is the cleaned output handed to the article builder.
type Normalized struct {
	Title       string
	Content     string
	Description string
	HasVideo    bool
	Tags        []string
}

// Normalizer applies the per-platform cleanup policy. A nil chat client
// disables LLM cleanup entirely; every path then uses the programmatic
// fallbacks.
type Normalizer struct {
	chat   ports.ChatClient
	logger *slog.Logger
}

// New builds a normalizer. chat may be nil.
func New(chat ports.ChatClient, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{chat: chat, logger: logger}
}

// Normalize produces the final record fields for the URL. Never fails:
// every error path degrades to a programmatic result.
func (n *Normalizer) Normalize(ctx context.Context, rawURL string, p domain.Platform, meta domain.Metadata) Normalized {
	out := Normalized{
		HasVideo: platform.HasVideo(rawURL, p),
		Tags:     SeedTags(rawURL, p),
	}

	switch p {
	case domain.PlatformTwitter:
		// The LLM is never invoked here: a model inventing post text
		// that was not in the source is a severe defect.
		post := PostText(meta.Title, joinContent(meta))
		if post == "" {
			out.Title = fallbackTitle(rawURL, p)
			out.Description = genericDescription(rawURL, p)
			return out
		}
		out.Content = post
		out.Title = truncate(post, maxTitleLen)
		out.Description = meta.Description
		return out

	case domain.PlatformYouTube, domain.PlatformTikTok, domain.PlatformInstagram,
		domain.PlatformReddit, domain.PlatformFacebook:
		raw := joinContent(meta)
		if len(raw) < minContentLen {
			n.logger.Debug("content below threshold, synthesizing minimal record",
				"url", rawURL, "length", len(raw))
			if t := strings.TrimSpace(meta.Title); t != "" && !strings.EqualFold(t, p.DisplayName()) {
				out.Title = truncateWords(t, 200)
			} else {
				out.Title = minimalTitle(rawURL, p, meta)
			}
			out.Description = genericDescription(rawURL, p)
			out.Content = raw
			return out
		}
		return n.llmCleanup(ctx, rawURL, p, meta, raw, socialPrompt(p), out)

	default:
		raw := joinContent(meta)
		if len(raw) < minContentLen {
			out.Title = pickTitle(meta.Title, rawURL, p)
			out.Description = meta.Description
			out.Content = raw
			return out
		}
		return n.llmCleanup(ctx, rawURL, p, meta, raw, articlePrompt(), out)
	}
}

type cleanupResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (n *Normalizer) llmCleanup(ctx context.Context, rawURL string, p domain.Platform, meta domain.Metadata, raw, system string, out Normalized) Normalized {
	out.Content = raw

	if n.chat == nil {
		out.Title = pickTitle(meta.Title, rawURL, p)
		out.Description = programmaticDescription(meta, raw)
		return out
	}

	payload, err := n.chat.CompleteJSON(ctx, ports.ChatRequest{
		System:      system,
		User:        buildCleanupInput(meta.Title, raw),
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err == nil {
		var result cleanupResult
		if jerr := json.Unmarshal(payload, &result); jerr == nil && strings.TrimSpace(result.Title) != "" {
			out.Title = truncateWords(strings.TrimSpace(result.Title), 200)
			out.Description = strings.TrimSpace(result.Description)
			if out.Description == "" {
				out.Description = programmaticDescription(meta, raw)
			}
			return out
		}
		err = fmt.Errorf("missing title field: %w", domain.ErrLLMParse)
	}

	n.logger.Debug("llm cleanup degraded to programmatic fallback", "url", rawURL, "error", err)
	out.Title = pickTitle(meta.Title, rawURL, p)
	out.Description = programmaticDescription(meta, raw)
	return out
}

func buildCleanupInput(title, content string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("Title: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString("Content:\n")
	b.WriteString(truncateWords(content, 6000))
	return b.String()
}

func socialPrompt(p domain.Platform) string {
	return fmt.Sprintf(`You clean up text extracted from a %s page. Extract the original caption or post text and lightly fix obvious OCR and markdown artifacts. Do NOT summarize, rewrite, or add anything that is not in the source. Respond with ONLY valid JSON: {"title": "...", "description": "..."} where title is the cleaned original title or first line and description the cleaned remaining text.`, p.DisplayName())
}

func articlePrompt() string {
	return `You clean up text extracted from a web article. Return the original article title and its intro paragraph, fixing extraction errors only. Do NOT summarize or rewrite. Respond with ONLY valid JSON: {"title": "...", "description": "..."}.`
}

// pickTitle prefers extracted metadata, then the URL-derived fallback.
func pickTitle(metaTitle, rawURL string, p domain.Platform) string {
	if t := strings.TrimSpace(metaTitle); t != "" {
		return truncateWords(t, 200)
	}
	return fallbackTitle(rawURL, p)
}

// fallbackTitle derives a title from the last meaningful URL path
// segment, or the hostname when the path yields nothing.
func fallbackTitle(rawURL string, p domain.Platform) string {
	if seg := platform.LastPathSegment(rawURL); seg != "" && !strings.HasPrefix(seg, "@") {
		return humanizeSegment(seg)
	}
	if host := platform.Hostname(rawURL); host != "" {
		return host
	}
	return p.DisplayName() + " " + capitalize(platform.ContentType(rawURL, p))
}

// minimalTitle synthesizes "<Platform> <ContentType> by @<username>",
// dropping the author part when no username is extractable.
func minimalTitle(rawURL string, p domain.Platform, meta domain.Metadata) string {
	title := p.DisplayName() + " " + capitalize(platform.ContentType(rawURL, p))
	user := platform.Username(rawURL, p)
	if user == "" {
		user = strings.TrimPrefix(strings.TrimSpace(meta.Author), "@")
	}
	if user != "" {
		title += " by @" + user
	}
	return title
}

func genericDescription(rawURL string, p domain.Platform) string {
	return fmt.Sprintf("View this %s on %s", platform.ContentType(rawURL, p), p.DisplayName())
}

func programmaticDescription(meta domain.Metadata, raw string) string {
	if d := strings.TrimSpace(meta.Description); d != "" {
		return truncateWords(d, 300)
	}
	return truncateWords(strings.TrimSpace(raw), 200)
}

func joinContent(meta domain.Metadata) string {
	content := strings.TrimSpace(meta.Content)
	if content != "" {
		return content
	}
	return strings.TrimSpace(meta.Description)
}

// truncate cuts at a rune boundary and appends an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// truncateWords cuts at the last space before max to avoid splitting a
// word mid-way.
func truncateWords(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func humanizeSegment(seg string) string {
	seg = strings.ReplaceAll(seg, "-", " ")
	seg = strings.ReplaceAll(seg, "_", " ")
	seg = strings.TrimSuffix(seg, ".html")
	words := strings.Fields(seg)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
