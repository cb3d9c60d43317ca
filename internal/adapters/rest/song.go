package rest

import (
	"errors"
	"net/http"

	"github.com/lumen-labs/moodamp/internal/core/domain"
)

// songResponse is the wire contract of GET /song/{mood}.
type songResponse struct {
	OK         bool   `json:"ok"`
	Path       string `json:"path,omitempty"`
	File       string `json:"file,omitempty"`
	Mood       string `json:"mood,omitempty"`
	Source     string `json:"source,omitempty"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
}

// GetSong handles GET /song/{mood}. The mood path segment must be one
// of the seven canonical labels; anything else yields ok=false rather
// than a coerced lookup. `?spotify=true` asks for an external preview
// before the local catalog.
func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("mood")

	mood := domain.Mood(raw)
	preferSpotify := r.URL.Query().Get("spotify") == "true"

	var song domain.Song
	var err error
	if preferSpotify {
		song, err = h.svc.LookupPreferPreview(r.Context(), mood)
	} else {
		song, err = h.svc.Lookup(r.Context(), mood)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownMood):
			writeError(w, http.StatusBadRequest, "unknown mood label: "+raw)
		case errors.Is(err, domain.ErrNoSongs):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, songResponse{
		OK:         true,
		Path:       song.Path,
		File:       song.File,
		Mood:       string(song.Mood),
		Source:     song.Source,
		Title:      song.Title,
		Artist:     song.Artist,
		DurationMs: song.Duration.Milliseconds(),
	})
}

// statusResponse summarises the deployment for GET /status.
type statusResponse struct {
	SpotifyConfigured   bool           `json:"spotify_configured"`
	LocalFilesAvailable bool           `json:"local_files_available"`
	MoodFiles           map[string]int `json:"mood_files"`
}

// Status reports per-mood file counts and whether the Spotify fallback
// is configured. The neutral count being zero is the deployment smell
// to look for: it breaks the fallback invariant.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	counts, err := h.library.Counts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total := 0
	moodFiles := make(map[string]int, len(counts))
	for mood, n := range counts {
		moodFiles[string(mood)] = n
		total += n
	}

	writeJSON(w, http.StatusOK, statusResponse{
		SpotifyConfigured:   h.spotifyOn,
		LocalFilesAvailable: total > 0,
		MoodFiles:           moodFiles,
	})
}
