package catalog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/okhotin/cliplink/app/database"
)

var _ Store = (*SQLiteStore)(nil)

const lastUpdateKey = "last_update"

// SQLiteStore is the durable catalog backend. A restart rehydrates the
// catalog and its freshness timestamp from the videos and metadata tables,
// so a recent catalog does not force an immediate refresh.
type SQLiteStore struct {
	db *database.DB
}

func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ReplaceAll swaps the entry set in a single transaction: delete-all then
// insert-all plus the freshness upsert, committed as a unit. Concurrent
// readers see the pre-commit or post-commit state, never the intermediate
// empty table.
func (s *SQLiteStore) ReplaceAll(entries []Entry, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM videos"); err != nil {
		return fmt.Errorf("failed to clear videos: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO videos (title, video_url) VALUES (?, ?)
		ON CONFLICT (title) DO UPDATE SET video_url = excluded.video_url
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.Exec(entry.Title, entry.URL); err != nil {
			return fmt.Errorf("failed to insert video %q: %w", entry.Title, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, lastUpdateKey, at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to update freshness: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog replacement: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Lookup(title string) (string, bool) {
	var url string
	err := s.db.QueryRow("SELECT video_url FROM videos WHERE title = ?", title).Scan(&url)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		slog.Error("Catalog lookup failed", "title", title, "error", err)
		return "", false
	}
	return url, true
}

func (s *SQLiteStore) AllTitles() []string {
	rows, err := s.db.Query("SELECT title FROM videos ORDER BY title")
	if err != nil {
		slog.Error("Catalog title enumeration failed", "error", err)
		return nil
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			slog.Error("Catalog title scan failed", "error", err)
			return nil
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		slog.Error("Catalog title iteration failed", "error", err)
		return nil
	}

	return titles
}

func (s *SQLiteStore) Freshness() (time.Time, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", lastUpdateKey).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false
	}
	if err != nil {
		slog.Error("Catalog freshness read failed", "error", err)
		return time.Time{}, false
	}

	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		slog.Error("Catalog freshness timestamp malformed", "value", value, "error", err)
		return time.Time{}, false
	}

	return at, true
}
