package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/services"
)

// --- Mocks ---

// mockLibrary serves a fixed file set per mood. The Handler is tested
// against a real Selector wired to mock adapters.
type mockLibrary struct {
	files map[domain.Mood][]string
}

func (m *mockLibrary) Random(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	files := m.files[mood]
	if len(files) == 0 {
		return domain.Song{}, domain.NoSongsError{Mood: mood}
	}
	return domain.Song{
		Mood:   mood,
		File:   files[0],
		Path:   "/music/" + files[0],
		Source: domain.SourceLocal,
	}, nil
}

func (m *mockLibrary) Counts(ctx context.Context) (map[domain.Mood]int, error) {
	counts := map[domain.Mood]int{}
	for _, mood := range domain.CanonicalMoods {
		counts[mood] = len(m.files[mood])
	}
	return counts, nil
}

type mockPreview struct {
	song domain.Song
	err  error
}

func (m *mockPreview) PreviewForMood(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	if m.err != nil {
		return domain.Song{}, m.err
	}
	return m.song, nil
}

func doGet(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, songResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body songResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("GET %s: failed to decode body: %v", path, err)
	}
	return rec, body
}

// --- Tests ---

func TestGetSong(t *testing.T) {
	tests := []struct {
		name           string
		files          map[domain.Mood][]string
		path           string
		expectedStatus int
		expectOK       bool
		expectPathPart string
	}{
		{
			name:           "mood with files returns a path from that mood",
			files:          map[domain.Mood][]string{domain.MoodHappy: {"happy/a.mp3"}},
			path:           "/song/happy",
			expectedStatus: http.StatusOK,
			expectOK:       true,
			expectPathPart: "/music/happy/",
		},
		{
			name:           "empty mood falls back to neutral",
			files:          map[domain.Mood][]string{domain.MoodNeutral: {"neutral/calm.mp3"}},
			path:           "/song/sad",
			expectedStatus: http.StatusOK,
			expectOK:       true,
			expectPathPart: "/music/neutral/",
		},
		{
			name:           "neutral also empty yields ok=false with message",
			files:          map[domain.Mood][]string{},
			path:           "/song/sad",
			expectedStatus: http.StatusNotFound,
			expectOK:       false,
		},
		{
			name:           "unrecognized label is rejected",
			files:          map[domain.Mood][]string{domain.MoodNeutral: {"neutral/calm.mp3"}},
			path:           "/song/ecstatic",
			expectedStatus: http.StatusBadRequest,
			expectOK:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewSelector(&mockLibrary{files: tt.files}, nil)
			h := NewHandler(svc, &mockLibrary{files: tt.files}, "", false)

			rec, body := doGet(t, h, tt.path)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if body.OK != tt.expectOK {
				t.Fatalf("ok = %v, want %v (body %+v)", body.OK, tt.expectOK, body)
			}
			if tt.expectOK {
				if body.Path == "" {
					t.Fatal("ok=true must never carry an empty path")
				}
				if !strings.Contains(body.Path, tt.expectPathPart) {
					t.Errorf("path = %q, want it under %q", body.Path, tt.expectPathPart)
				}
			} else if body.Message == "" {
				t.Error("ok=false must carry a message")
			}
		})
	}
}

func TestGetSongSpotifyParam(t *testing.T) {
	preview := &mockPreview{song: domain.Song{
		Mood:   domain.MoodHappy,
		File:   "Artist - Track",
		Path:   "https://p.example/t.mp3",
		Source: domain.SourceSpotify,
	}}
	files := map[domain.Mood][]string{domain.MoodHappy: {"happy/a.mp3"}}
	svc := services.NewSelector(&mockLibrary{files: files}, preview)
	h := NewHandler(svc, &mockLibrary{files: files}, "", true)

	rec, body := doGet(t, h, "/song/happy?spotify=true")
	if rec.Code != http.StatusOK || !body.OK {
		t.Fatalf("status = %d, body = %+v", rec.Code, body)
	}
	if body.Source != domain.SourceSpotify {
		t.Errorf("source = %q, want spotify preferred", body.Source)
	}
}

func TestStatus(t *testing.T) {
	files := map[domain.Mood][]string{
		domain.MoodHappy:   {"happy/a.mp3", "happy/b.mp3"},
		domain.MoodNeutral: {"neutral/calm.mp3"},
	}
	svc := services.NewSelector(&mockLibrary{files: files}, nil)
	h := NewHandler(svc, &mockLibrary{files: files}, "", true)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.SpotifyConfigured || !body.LocalFilesAvailable {
		t.Errorf("flags = %+v", body)
	}
	if body.MoodFiles["happy"] != 2 || body.MoodFiles["sad"] != 0 {
		t.Errorf("mood files = %v", body.MoodFiles)
	}
}

func TestHealthCheck(t *testing.T) {
	svc := services.NewSelector(&mockLibrary{}, nil)
	h := NewHandler(svc, &mockLibrary{}, "", false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
