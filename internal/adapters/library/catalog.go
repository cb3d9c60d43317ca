// Package library provides the SQLite-backed song catalog: one
// directory of mp3 files per canonical mood label under a music root,
// scanned at startup and served by uniform-random pick.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// URLPrefix is where the server exposes catalogued files.
const URLPrefix = "/music/"

// Catalog implements the library and probe-store ports on SQLite.
type Catalog struct {
	db   *sql.DB
	root string
}

// compile-time interface assertions
var (
	_ ports.Library    = (*Catalog)(nil)
	_ ports.ProbeStore = (*Catalog)(nil)
)

// Entry is one catalogued file, as produced by Scan for the probe
// worker.
type Entry struct {
	ID      string
	Mood    domain.Mood
	File    string // relative to the music root, e.g. "happy/a.mp3"
	AbsPath string
}

// NewCatalog opens (or creates) the catalog database and runs the
// schema migration. musicRoot is the directory holding one
// subdirectory per mood label.
func NewCatalog(storagePath, musicRoot string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("library: failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("library: failed to ping sqlite db: %w", err)
	}

	c := &Catalog{db: db, root: musicRoot}
	if err := c.migrate(); err != nil {
		return nil, fmt.Errorf("library: migration failed: %w", err)
	}
	return c, nil
}

// Close ensures the DB connection is closed gracefully.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Root returns the music root directory the catalog was scanned from.
func (c *Catalog) Root() string {
	return c.root
}

// Scan walks <root>/<mood>/ for every canonical mood, replaces the
// catalog contents with what it finds, and returns the new entries.
// Only .mp3 files are catalogued; a missing mood directory simply
// contributes nothing.
func (c *Catalog) Scan(ctx context.Context) ([]Entry, error) {
	var found []Entry
	for _, mood := range domain.CanonicalMoods {
		dir := filepath.Join(c.root, string(mood))
		names, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("library: failed to read %s: %w", dir, err)
		}
		for _, de := range names {
			if de.IsDir() || !strings.HasSuffix(strings.ToLower(de.Name()), ".mp3") {
				continue
			}
			found = append(found, Entry{
				ID:      uuid.NewString(),
				Mood:    mood,
				File:    string(mood) + "/" + de.Name(),
				AbsPath: filepath.Join(dir, de.Name()),
			})
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("library: failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error before commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM songs"); err != nil {
		return nil, fmt.Errorf("library: failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO songs (id, mood, file) VALUES (?, ?, ?)
		ON CONFLICT(file) DO UPDATE SET mood=excluded.mood;
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, e := range found {
		if _, err := stmt.ExecContext(ctx, e.ID, string(e.Mood), e.File); err != nil {
			return nil, fmt.Errorf("library: failed to catalog %s: %w", e.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("library: transaction commit failed: %w", err)
	}
	return found, nil
}

// Random picks uniformly from the mood's file set. The returned error
// matches domain.ErrNoSongs when the mood has no catalogued files.
func (c *Catalog) Random(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT file, IFNULL(duration_ms, 0)
		FROM songs WHERE mood = ?
		ORDER BY RANDOM() LIMIT 1
	`, string(mood))

	var file string
	var durationMs int64
	if err := row.Scan(&file, &durationMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Song{}, fmt.Errorf("library: mood %q: %w", mood, domain.ErrNoSongs)
		}
		return domain.Song{}, fmt.Errorf("library: failed to pick song: %w", err)
	}

	return domain.Song{
		Mood:     mood,
		File:     file,
		Path:     URLPrefix + file,
		Source:   domain.SourceLocal,
		Duration: time.Duration(durationMs) * time.Millisecond,
	}, nil
}

// Counts reports the number of catalogued files per mood. Moods with no
// files are present with a zero count.
func (c *Catalog) Counts(ctx context.Context) (map[domain.Mood]int, error) {
	counts := make(map[domain.Mood]int, len(domain.CanonicalMoods))
	for _, m := range domain.CanonicalMoods {
		counts[m] = 0
	}

	rows, err := c.db.QueryContext(ctx, "SELECT mood, COUNT(*) FROM songs GROUP BY mood")
	if err != nil {
		return nil, fmt.Errorf("library: failed to count songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mood string
		var n int
		if err := rows.Scan(&mood, &n); err != nil {
			return nil, fmt.Errorf("library: failed to scan count: %w", err)
		}
		counts[domain.Mood(mood)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("library: failed to iterate counts: %w", err)
	}
	return counts, nil
}

// UpdateSongInfo records probed metadata for a catalogued song.
func (c *Catalog) UpdateSongInfo(ctx context.Context, songID string, duration time.Duration, sampleRate int) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE songs SET duration_ms = ?, sample_rate = ? WHERE id = ?
	`, duration.Milliseconds(), sampleRate, songID)
	if err != nil {
		return fmt.Errorf("library: failed to update song info: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("library: song %s: %w", songID, domain.ErrNotFound)
	}
	return nil
}

func (c *Catalog) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		mood TEXT NOT NULL,
		file TEXT NOT NULL UNIQUE,
		duration_ms INTEGER,
		sample_rate INTEGER,
		scanned_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_songs_mood ON songs(mood);
	`
	if _, err := c.db.Exec(query); err != nil {
		return err
	}
	return nil
}
