package domain

import "time"

// Article is the persisted unit of the read-it-later store. Identity
// (ID, URL) never changes after creation; every other field may be
// updated by the pipeline at creation, by the background enricher once,
// or by explicit user action.
type Article struct {
	ID            string
	URL           string
	Title         string
	Content       string
	Summary       string
	Author        string
	ImageURL      string
	PublishDate   time.Time
	Platform      Platform
	PlatformColor string
	Tags          []string
	HasVideo      bool

	IsUnread     bool
	IsFavorite   bool
	IsBookmarked bool

	// AI fields stay zero until the background enricher succeeds.
	// AIEnhanced is a one-way flag.
	AIEnhanced         bool
	AISummary          string
	AIKeyPoints        []string
	AITags             []string
	AICategory         string
	AISentiment        string
	ReadingTimeMinutes int

	CreatedAt time.Time
}

// Metadata is the raw output of a resolution strategy before
// normalization. A result is usable when at least one of Title,
// Description, or Image is non-empty.
type Metadata struct {
	Title       string
	Description string
	Content     string
	Author      string
	Image       string
	PublishDate time.Time
}

// Usable reports whether any strategy field worth keeping was extracted.
func (m Metadata) Usable() bool {
	return m.Title != "" || m.Description != "" || m.Image != ""
}

// Empty reports whether the metadata carries nothing at all.
func (m Metadata) Empty() bool {
	return !m.Usable() && m.Content == "" && m.Author == ""
}

// Flags groups the user-toggleable article markers.
type Flags struct {
	Unread     bool
	Favorite   bool
	Bookmarked bool
}

// Enrichment is the partial update produced by the background enricher.
// Applying it sets only AI-owned fields on the stored article.
type Enrichment struct {
	Summary            string
	KeyPoints          []string
	Tags               []string
	Category           string
	Sentiment          string
	ReadingTimeMinutes int
}

// Sentiment values allowed on an enrichment. Anything else collapses
// to SentimentNeutral during validation.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Categories the enricher may assign. Unrecognized values collapse to
// CategoryOther.
var Categories = []string{
	"technology", "business", "science", "health", "entertainment",
	"sports", "politics", "lifestyle", "education", "other",
}

// CategoryOther is the fallback enrichment category.
const CategoryOther = "other"
