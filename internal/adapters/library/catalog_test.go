package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lumen-labs/moodamp/internal/core/domain"
)

// newTestCatalog builds a catalog over a temp music root populated with
// the given relative files (e.g. "happy/a.mp3").
func newTestCatalog(t *testing.T, files ...string) *Catalog {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("not really mp3 data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cat, err := NewCatalog(":memory:", root)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	if _, err := cat.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return cat
}

func TestCatalogScanAndCounts(t *testing.T) {
	cat := newTestCatalog(t,
		"happy/a.mp3",
		"happy/b.mp3",
		"neutral/calm.mp3",
		"sad/blue.MP3",       // extension match is case-insensitive
		"sad/notes.txt",      // ignored
		"angry/nested/x.mp3", // subdirectories are not walked
	)

	counts, err := cat.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}

	want := map[domain.Mood]int{
		domain.MoodHappy:   2,
		domain.MoodNeutral: 1,
		domain.MoodSad:     1,
	}
	for mood, n := range want {
		if counts[mood] != n {
			t.Errorf("counts[%s] = %d, want %d", mood, counts[mood], n)
		}
	}
	if counts[domain.MoodAngry] != 0 {
		t.Errorf("counts[angry] = %d, want 0", counts[domain.MoodAngry])
	}
	// Every canonical mood must be reported, even when empty.
	if len(counts) != len(domain.CanonicalMoods) {
		t.Errorf("counts has %d moods, want %d", len(counts), len(domain.CanonicalMoods))
	}
}

func TestCatalogRandom(t *testing.T) {
	cat := newTestCatalog(t, "happy/a.mp3", "happy/b.mp3")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		song, err := cat.Random(context.Background(), domain.MoodHappy)
		if err != nil {
			t.Fatalf("Random: %v", err)
		}
		if song.Source != domain.SourceLocal {
			t.Fatalf("song source = %q, want %q", song.Source, domain.SourceLocal)
		}
		if !strings.HasPrefix(song.Path, URLPrefix+"happy/") {
			t.Fatalf("song path = %q, want prefix %q", song.Path, URLPrefix+"happy/")
		}
		if song.Path == "" {
			t.Fatal("Random returned success with empty path")
		}
		seen[song.File] = true
	}
	// With 50 draws over 2 files, both should have shown up.
	if len(seen) != 2 {
		t.Errorf("expected both files to be drawn, saw %v", seen)
	}
}

func TestCatalogRandomEmptyMood(t *testing.T) {
	cat := newTestCatalog(t, "neutral/calm.mp3")

	_, err := cat.Random(context.Background(), domain.MoodFearful)
	if !errors.Is(err, domain.ErrNoSongs) {
		t.Fatalf("Random on empty mood: err = %v, want ErrNoSongs", err)
	}
}

func TestCatalogRescanReplaces(t *testing.T) {
	root := t.TempDir()
	happy := filepath.Join(root, "happy")
	if err := os.MkdirAll(happy, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(happy, "a.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := NewCatalog(":memory:", root)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	if _, err := cat.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(happy, "a.mp3")); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := cat.Random(context.Background(), domain.MoodHappy); !errors.Is(err, domain.ErrNoSongs) {
		t.Fatalf("after rescan of empty dir: err = %v, want ErrNoSongs", err)
	}
}

func TestCatalogUpdateSongInfo(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "neutral")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "calm.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := NewCatalog(":memory:", root)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	entries, err := cat.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("scanned %d entries, want 1", len(entries))
	}

	if err := cat.UpdateSongInfo(context.Background(), entries[0].ID, 3*time.Second, 44100); err != nil {
		t.Fatalf("UpdateSongInfo: %v", err)
	}

	song, err := cat.Random(context.Background(), domain.MoodNeutral)
	if err != nil {
		t.Fatal(err)
	}
	if song.Duration != 3*time.Second {
		t.Errorf("song duration = %v, want 3s", song.Duration)
	}

	if err := cat.UpdateSongInfo(context.Background(), "missing-id", time.Second, 44100); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateSongInfo on missing id: err = %v, want ErrNotFound", err)
	}
}
