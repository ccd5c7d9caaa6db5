package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store"
)

// runTimeLayout is fixed width so started_at sorts chronologically as text.
// Values are read back with time.RFC3339Nano, which accepts it.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// :memory: databases are per-connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS posts (
	uri TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	author TEXT,
	created_at TEXT,
	first_seen TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS post_categories (
	uri TEXT NOT NULL,
	category TEXT NOT NULL,
	UNIQUE(uri, category),
	FOREIGN KEY(uri) REFERENCES posts(uri) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_post_categories_category ON post_categories(category);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	fetched INTEGER NOT NULL,
	unique_posts INTEGER NOT NULL,
	added INTEGER NOT NULL,
	errors INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS geocache (
	query TEXT PRIMARY KEY,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	updated_at TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// ArchivePosts inserts posts not yet archived and returns how many were new.
func (s *sqliteStore) ArchivePosts(ctx context.Context, ps []posts.Post, seen time.Time) (int, error) {
	if len(ps) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO posts (uri, text, author, created_at, first_seen)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	seenAt := seen.UTC().Format(time.RFC3339)
	inserted := 0
	for _, p := range ps {
		if p.URI == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, p.URI, p.Text, p.Author, p.CreatedAt, seenAt)
		if err != nil {
			return 0, fmt.Errorf("archive %s: %w", p.URI, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// TagPosts links archived posts to a category. Unknown URIs are ignored.
func (s *sqliteStore) TagPosts(ctx context.Context, category string, uris []string) error {
	if category == "" || len(uris) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO post_categories (uri, category)
SELECT uri, ? FROM posts WHERE uri = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, uri := range uris {
		if _, err := stmt.ExecContext(ctx, category, uri); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PostsByCategory returns archived posts in category, oldest first.
func (s *sqliteStore) PostsByCategory(ctx context.Context, category string, limit int) ([]posts.Post, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT p.uri, p.text, p.author, p.created_at
FROM posts p
JOIN post_categories pc ON pc.uri = p.uri
WHERE pc.category = ?
ORDER BY p.first_seen ASC, p.rowid ASC
LIMIT ?`, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []posts.Post
	for rows.Next() {
		var (
			p      posts.Post
			author sql.NullString
			made   sql.NullString
		)
		if err := rows.Scan(&p.URI, &p.Text, &author, &made); err != nil {
			return nil, err
		}
		p.Author = author.String
		p.CreatedAt = made.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountPosts returns the archive size.
func (s *sqliteStore) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecordRun stores one collector cycle.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id required", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, fetched, unique_posts, added, errors)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	finished_at=excluded.finished_at,
	fetched=excluded.fetched,
	unique_posts=excluded.unique_posts,
	added=excluded.added,
	errors=excluded.errors`,
		r.ID,
		r.StartedAt.UTC().Format(runTimeLayout),
		r.FinishedAt.UTC().Format(runTimeLayout),
		r.Fetched, r.Unique, r.Added, r.Errors,
	)
	return err
}

// RecentRuns returns the latest runs, newest first.
func (s *sqliteStore) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, finished_at, fetched, unique_posts, added, errors
FROM runs
ORDER BY started_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var (
			r                 store.Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Fetched, &r.Unique, &r.Added, &r.Errors); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetCoord implements geocode.Cache.
func (s *sqliteStore) GetCoord(ctx context.Context, query string) (geocode.Coord, bool, error) {
	var c geocode.Coord
	err := s.db.QueryRowContext(ctx, `SELECT lat, lon FROM geocache WHERE query = ?`, query).Scan(&c.Lat, &c.Lon)
	if err == sql.ErrNoRows {
		return geocode.Coord{}, false, nil
	}
	if err != nil {
		return geocode.Coord{}, false, err
	}
	return c, true, nil
}

// PutCoord implements geocode.Cache.
func (s *sqliteStore) PutCoord(ctx context.Context, query string, c geocode.Coord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO geocache (query, lat, lon, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(query) DO UPDATE SET
	lat=excluded.lat,
	lon=excluded.lon,
	updated_at=excluded.updated_at`,
		query, c.Lat, c.Lon, time.Now().UTC().Format(time.RFC3339))
	return err
}
