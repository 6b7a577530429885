package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/byguide/byguide"
)

// Open opens the SQLite database at dbPath and verifies the connection.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY errors under concurrent requests.
	db.SetMaxOpenConns(1)

	return db, nil
}

// SQLiteStore implements byguide.PostStore on a single SQLite table.
type SQLiteStore struct {
	db        *sql.DB
	tableName string
}

func New(db *sql.DB, tableName string) *SQLiteStore {
	return &SQLiteStore{db: db, tableName: tableName}
}

// Init initializes the SQLiteStore, creating the necessary table and indexes
// if they do not exist. The unique index on slug is what turns a concurrent
// publish race into an explicit ErrSlugExists instead of silent corruption.
func (s *SQLiteStore) Init() error {
	query := `
		-- Table for holding posts
		CREATE TABLE IF NOT EXISTS ` + s.tableName + ` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT NOT NULL,
			rating REAL NOT NULL,
			affiliate_url TEXT NOT NULL,
			image_url TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'tech',
			verdict TEXT NOT NULL DEFAULT '',
			price_hint TEXT NOT NULL DEFAULT '',
			featured BOOL NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Unique index on slug
		CREATE UNIQUE INDEX IF NOT EXISTS ` + s.tableName + `_slug_idx ON ` + s.tableName + `(slug);

		-- Index on category
		CREATE INDEX IF NOT EXISTS ` + s.tableName + `_category_idx ON ` + s.tableName + `(category);

		-- Index on creation date
		CREATE INDEX IF NOT EXISTS ` + s.tableName + `_created_at_idx ON ` + s.tableName + `(created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Create inserts a new post and returns it with its assigned ID and CreatedAt.
func (s *SQLiteStore) Create(ctx context.Context, post *byguide.Post) (*byguide.Post, error) {
	created := *post
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO ` + s.tableName + ` (
			title, slug, content, excerpt,
			rating, affiliate_url, image_url, category,
			verdict, price_hint, featured, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		created.Title, created.Slug, created.Content, created.Excerpt,
		created.Rating, created.AffiliateURL, created.ImageURL, created.Category,
		created.Verdict, created.PriceHint, created.Featured,
		created.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s", byguide.ErrSlugExists, created.Slug)
		}
		return nil, fmt.Errorf("error inserting post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading inserted id: %w", err)
	}

	created.ID = id
	return &created, nil
}

// GetByID retrieves a post by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*byguide.Post, error) {
	row := s.db.QueryRowContext(ctx, s.selectQuery()+` WHERE id = ?`, id)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", byguide.ErrPostNotFound, id)
	}
	return post, err
}

// GetBySlug retrieves a post by its slug.
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (*byguide.Post, error) {
	row := s.db.QueryRowContext(ctx, s.selectQuery()+` WHERE slug = ?`, slug)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", byguide.ErrPostNotFound, slug)
	}
	return post, err
}

// likeEscaper neutralizes LIKE metacharacters so a prefix is always matched
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SlugsWithPrefix returns all slugs starting with the given prefix.
func (s *SQLiteStore) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT slug FROM ` + s.tableName + ` WHERE slug LIKE ? ESCAPE '\' ORDER BY slug`
	rows, err := s.db.QueryContext(ctx, query, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("error querying slugs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("error scanning slug: %w", err)
		}
		slugs = append(slugs, slug)
	}

	return slugs, rows.Err()
}

// All returns every post, newest first.
func (s *SQLiteStore) All(ctx context.Context) ([]*byguide.Post, error) {
	return s.queryPosts(ctx, s.selectQuery()+` ORDER BY created_at DESC, id DESC`)
}

// ByCategory returns the posts in a category, newest first.
func (s *SQLiteStore) ByCategory(ctx context.Context, category string) ([]*byguide.Post, error) {
	return s.queryPosts(ctx, s.selectQuery()+` WHERE category = ? ORDER BY created_at DESC, id DESC`, category)
}

// Delete removes a post by its ID.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.tableName+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: id %d", byguide.ErrPostNotFound, id)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) selectQuery() string {
	return `
		SELECT id, title, slug, content, excerpt,
			rating, affiliate_url, image_url, category,
			verdict, price_hint, featured, created_at
		FROM ` + s.tableName
}

func (s *SQLiteStore) queryPosts(ctx context.Context, query string, args ...any) ([]*byguide.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []*byguide.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*byguide.Post, error) {
	var (
		post    byguide.Post
		created string
	)
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.Excerpt,
		&post.Rating, &post.AffiliateURL, &post.ImageURL, &post.Category,
		&post.Verdict, &post.PriceHint, &post.Featured, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}

	// Timestamps are stored as RFC3339 text, which also keeps the
	// created_at ordering lexicographic.
	post.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at: %w", err)
	}

	return &post, nil
}
