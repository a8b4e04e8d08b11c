package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
)

// ErrNotFound indicates a lookup by id with no matching row.
var ErrNotFound = errors.New("knowledge item not found")

// Store is the SQLite-backed fact store. One store file per deployment:
// an items table, a sources table keyed by item id, and a mirrored FTS5
// index kept consistent with every upsert.
type Store struct {
	db     *sql.DB
	logger *observability.Logger
}

const itemColumns = `id, content, content_type, topic, subtopic, keywords, confidence_score, language, created_at, updated_at`

// Open opens (creating if necessary) the fact store at path.
func Open(path string, logger *observability.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open fact store: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// churn under concurrent upserts while reads stay cheap.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS knowledge_items (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			content_type TEXT NOT NULL,
			topic TEXT NOT NULL,
			subtopic TEXT,
			keywords TEXT NOT NULL DEFAULT '[]',
			confidence_score REAL NOT NULL DEFAULT 1.0,
			language TEXT NOT NULL DEFAULT 'en',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			knowledge_item_id TEXT NOT NULL REFERENCES knowledge_items(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			source_type TEXT NOT NULL,
			credibility TEXT NOT NULL,
			date_published TIMESTAMP,
			author TEXT,
			language TEXT NOT NULL DEFAULT 'en'
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS knowledge_fts USING fts5(
			id UNINDEXED,
			content,
			topic,
			subtopic,
			keywords
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_topic ON knowledge_items(topic)`,
		`CREATE INDEX IF NOT EXISTS idx_items_language ON knowledge_items(language)`,
		`CREATE INDEX IF NOT EXISTS idx_items_content_type ON knowledge_items(content_type)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_item ON sources(knowledge_item_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Upsert inserts or fully replaces a knowledge item by id. The item row, its
// source rows, and its text-index row are replaced in one transaction; on
// failure nothing is changed.
func (s *Store) Upsert(ctx context.Context, item *KnowledgeItem) error {
	applyDefaults(item)
	if err := item.Validate(); err != nil {
		return err
	}

	keywords, err := json.Marshal(item.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords for %s: %w", item.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO knowledge_items
			(id, content, content_type, topic, subtopic, keywords, confidence_score, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Content, string(item.ContentType), item.Topic, item.Subtopic,
		string(keywords), item.ConfidenceScore, item.Language,
		item.CreatedAt, item.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE knowledge_item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("clear sources for %s: %w", item.ID, err)
	}
	for _, src := range item.Sources {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sources
				(knowledge_item_id, url, title, source_type, credibility, date_published, author, language)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, src.URL, src.Title, src.SourceType, string(src.Credibility),
			src.PublishedAt, src.Author, src.Language,
		); err != nil {
			return fmt.Errorf("insert source for %s: %w", item.ID, err)
		}
	}

	// FTS5 has no primary key; delete-then-insert keeps exactly one index
	// row per item id.
	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_fts WHERE id = ?`, item.ID); err != nil {
		return fmt.Errorf("clear index row for %s: %w", item.ID, err)
	}
	subtopic := ""
	if item.Subtopic != nil {
		subtopic = *item.Subtopic
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO knowledge_fts (id, content, topic, subtopic, keywords)
		VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Content, item.Topic, subtopic, strings.Join(item.Keywords, " "),
	); err != nil {
		return fmt.Errorf("insert index row for %s: %w", item.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert %s: %w", item.ID, err)
	}

	s.logger.Debug().Str("item_id", item.ID).Str("topic", item.Topic).Msg("Upserted knowledge item")
	return nil
}

func applyDefaults(item *KnowledgeItem) {
	now := time.Now().UTC()
	if item.Keywords == nil {
		item.Keywords = []string{}
	}
	if item.ConfidenceScore == 0 {
		item.ConfidenceScore = 1.0
	}
	if item.Language == "" {
		item.Language = DefaultLanguage
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	for i := range item.Sources {
		if item.Sources[i].Language == "" {
			item.Sources[i].Language = DefaultLanguage
		}
	}
}

// GetByID retrieves a knowledge item with its sources, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*KnowledgeItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM knowledge_items WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachSources(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// SearchCandidates scans items in the requested language or the default
// language, optionally restricted to a topic set, ordered by stored
// confidence. It backs the exact-keyword and topic-hierarchy stages.
func (s *Store) SearchCandidates(ctx context.Context, language string, topics []string) ([]*KnowledgeItem, error) {
	query := `SELECT ` + itemColumns + ` FROM knowledge_items WHERE (language = ? OR language = ?)`
	args := []interface{}{language, DefaultLanguage}

	if len(topics) > 0 {
		query += ` AND topic IN (?` + strings.Repeat(",?", len(topics)-1) + `)`
		for _, t := range topics {
			args = append(args, t)
		}
	}
	query += ` ORDER BY confidence_score DESC`

	return s.queryItems(ctx, query, args...)
}

// MatchFullText runs an FTS5 MATCH expression against the mirrored index,
// restricted to the requested language or the default language. A
// syntactically invalid expression returns an error so the caller can fall
// back to substring matching.
func (s *Store) MatchFullText(ctx context.Context, match, language string, limit int) ([]*KnowledgeItem, error) {
	query := `
		SELECT ` + prefixColumns("ki") + `
		FROM knowledge_fts kf
		JOIN knowledge_items ki ON kf.id = ki.id
		WHERE knowledge_fts MATCH ?
		AND (ki.language = ? OR ki.language = ?)
		LIMIT ?`
	return s.queryItems(ctx, query, match, language, DefaultLanguage, limit)
}

// MatchSubstring finds items whose content or keywords contain the word,
// restricted to the requested language or the default language. Used when
// the full-text query cannot be built from the input.
func (s *Store) MatchSubstring(ctx context.Context, word, language string, limit int) ([]*KnowledgeItem, error) {
	pattern := "%" + word + "%"
	query := `
		SELECT ` + itemColumns + `
		FROM knowledge_items
		WHERE (content LIKE ? OR keywords LIKE ?)
		AND (language = ? OR language = ?)
		ORDER BY confidence_score DESC
		LIMIT ?`
	return s.queryItems(ctx, query, pattern, pattern, language, DefaultLanguage, limit)
}

// Statistics reports counts over committed upserts.
func (s *Store) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		ByContentType: map[string]int{},
		ByLanguage:    map[string]int{},
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM knowledge_items`).Scan(&stats.TotalItems); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	if err := s.countGroup(ctx,
		`SELECT content_type, COUNT(*) FROM knowledge_items GROUP BY content_type`,
		stats.ByContentType); err != nil {
		return nil, err
	}
	if err := s.countGroup(ctx,
		`SELECT language, COUNT(*) FROM knowledge_items GROUP BY language`,
		stats.ByLanguage); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT topic, COUNT(*) AS n
		FROM knowledge_items
		GROUP BY topic
		ORDER BY n DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, err
		}
		stats.TopTopics = append(stats.TopTopics, tc)
	}
	return stats, rows.Err()
}

func (s *Store) countGroup(ctx context.Context, query string, dest map[string]int) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("group count: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dest[key] = n
	}
	return rows.Err()
}

func (s *Store) queryItems(ctx context.Context, query string, args ...interface{}) ([]*KnowledgeItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*KnowledgeItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := s.attachSources(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *Store) attachSources(ctx context.Context, item *KnowledgeItem) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, source_type, credibility, date_published, author, language
		FROM sources
		WHERE knowledge_item_id = ?
		ORDER BY id`, item.ID)
	if err != nil {
		return fmt.Errorf("load sources for %s: %w", item.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var src KnowledgeSource
		var credibility string
		if err := rows.Scan(&src.URL, &src.Title, &src.SourceType, &credibility,
			&src.PublishedAt, &src.Author, &src.Language); err != nil {
			return err
		}
		src.Credibility, err = ParseSourceCredibility(credibility)
		if err != nil {
			return fmt.Errorf("item %s: %w", item.ID, err)
		}
		item.Sources = append(item.Sources, src)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (*KnowledgeItem, error) {
	var item KnowledgeItem
	var contentType, keywords string
	if err := row.Scan(&item.ID, &item.Content, &contentType, &item.Topic,
		&item.Subtopic, &keywords, &item.ConfidenceScore, &item.Language,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	item.ContentType, err = ParseContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	if err := json.Unmarshal([]byte(keywords), &item.Keywords); err != nil {
		return nil, fmt.Errorf("item %s: decode keywords: %w", item.ID, err)
	}
	if item.Keywords == nil {
		item.Keywords = []string{}
	}
	return &item, nil
}

func prefixColumns(alias string) string {
	cols := strings.Split(itemColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}
