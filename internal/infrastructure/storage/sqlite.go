// Package storage persists articles as individual sqlite rows. One row
// per article closes the lost-update window a whole-collection
// read-modify-write store would have: concurrent saves and the
// background enricher touch disjoint rows and columns.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"LinkStash/internal/domain"
	"LinkStash/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	publish_date TIMESTAMP,
	platform TEXT NOT NULL,
	platform_color TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	has_video INTEGER NOT NULL DEFAULT 0,
	is_unread INTEGER NOT NULL DEFAULT 1,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	is_bookmarked INTEGER NOT NULL DEFAULT 0,
	ai_enhanced INTEGER NOT NULL DEFAULT 0,
	ai_summary TEXT NOT NULL DEFAULT '',
	ai_key_points TEXT NOT NULL DEFAULT '[]',
	ai_tags TEXT NOT NULL DEFAULT '[]',
	ai_category TEXT NOT NULL DEFAULT '',
	ai_sentiment TEXT NOT NULL DEFAULT '',
	reading_time_minutes INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
`

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SQLiteStore implements ports.ArticleStore on an embedded database.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.ArticleStore = (*SQLiteStore)(nil)

// Open creates the database file (and parent directory) if needed and
// applies the schema. Use ":memory:" for tests.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts a new article. Duplicate id or url yields
// domain.ErrDuplicateArticle.
func (s *SQLiteStore) Save(ctx context.Context, article *domain.Article) error {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}

	query, args, err := builder.Insert("articles").
		Columns("id", "url", "title", "content", "summary", "author", "image_url",
			"publish_date", "platform", "platform_color", "tags", "has_video",
			"is_unread", "is_favorite", "is_bookmarked", "ai_enhanced",
			"ai_summary", "ai_key_points", "ai_tags", "ai_category",
			"ai_sentiment", "reading_time_minutes", "created_at").
		Values(article.ID, article.URL, article.Title, article.Content,
			article.Summary, article.Author, article.ImageURL,
			article.PublishDate, string(article.Platform), article.PlatformColor,
			marshalStrings(article.Tags), article.HasVideo,
			article.IsUnread, article.IsFavorite, article.IsBookmarked,
			article.AIEnhanced, article.AISummary,
			marshalStrings(article.AIKeyPoints), marshalStrings(article.AITags),
			article.AICategory, article.AISentiment, article.ReadingTimeMinutes,
			article.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("url %s: %w", article.URL, domain.ErrDuplicateArticle)
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID loads a single article or domain.ErrArticleNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return s.getOne(ctx, sq.Eq{"id": id})
}

// GetByURL loads the article saved for the exact URL string, or
// domain.ErrArticleNotFound. Dedup is exact-match: tracking params and
// host aliases count as distinct articles.
func (s *SQLiteStore) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	return s.getOne(ctx, sq.Eq{"url": url})
}

func (s *SQLiteStore) getOne(ctx context.Context, pred sq.Eq) (*domain.Article, error) {
	query, args, err := selectArticles().Where(pred).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	return article, nil
}

// List returns all articles, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Article, error) {
	query, args, err := selectArticles().OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

// Delete removes an article by id; a missing id yields
// domain.ErrArticleNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	query, args, err := builder.Delete("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	return s.execExpectingRow(ctx, query, args)
}

// ApplyEnrichment merges the AI-owned fields into the record. Only
// columns the enricher owns are touched, so concurrent user edits to
// flags or tags survive. Applying the same payload twice is idempotent.
func (s *SQLiteStore) ApplyEnrichment(ctx context.Context, id string, e domain.Enrichment) error {
	query, args, err := builder.Update("articles").
		Set("ai_enhanced", true).
		Set("ai_summary", e.Summary).
		Set("ai_key_points", marshalStrings(e.KeyPoints)).
		Set("ai_tags", marshalStrings(e.Tags)).
		Set("ai_category", e.Category).
		Set("ai_sentiment", e.Sentiment).
		Set("reading_time_minutes", e.ReadingTimeMinutes).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return s.execExpectingRow(ctx, query, args)
}

// SetFlags stores the user-toggleable markers.
func (s *SQLiteStore) SetFlags(ctx context.Context, id string, f domain.Flags) error {
	query, args, err := builder.Update("articles").
		Set("is_unread", f.Unread).
		Set("is_favorite", f.Favorite).
		Set("is_bookmarked", f.Bookmarked).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return s.execExpectingRow(ctx, query, args)
}

// UpdateTags replaces the user-visible tag list.
func (s *SQLiteStore) UpdateTags(ctx context.Context, id string, tags []string) error {
	query, args, err := builder.Update("articles").
		Set("tags", marshalStrings(tags)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return s.execExpectingRow(ctx, query, args)
}

func (s *SQLiteStore) execExpectingRow(ctx context.Context, query string, args []any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func selectArticles() sq.SelectBuilder {
	return builder.Select("id", "url", "title", "content", "summary", "author",
		"image_url", "publish_date", "platform", "platform_color", "tags",
		"has_video", "is_unread", "is_favorite", "is_bookmarked",
		"ai_enhanced", "ai_summary", "ai_key_points", "ai_tags",
		"ai_category", "ai_sentiment", "reading_time_minutes", "created_at").
		From("articles")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var (
		article     domain.Article
		platform    string
		publishDate sql.NullTime
		tags        string
		keyPoints   string
		aiTags      string
	)

	err := row.Scan(&article.ID, &article.URL, &article.Title, &article.Content,
		&article.Summary, &article.Author, &article.ImageURL, &publishDate,
		&platform, &article.PlatformColor, &tags, &article.HasVideo,
		&article.IsUnread, &article.IsFavorite, &article.IsBookmarked,
		&article.AIEnhanced, &article.AISummary, &keyPoints, &aiTags,
		&article.AICategory, &article.AISentiment, &article.ReadingTimeMinutes,
		&article.CreatedAt)
	if err != nil {
		return nil, err
	}

	article.Platform = domain.Platform(platform)
	if publishDate.Valid {
		article.PublishDate = publishDate.Time
	}
	article.Tags = unmarshalStrings(tags)
	article.AIKeyPoints = unmarshalStrings(keyPoints)
	article.AITags = unmarshalStrings(aiTags)
	return &article, nil
}

func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func unmarshalStrings(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
