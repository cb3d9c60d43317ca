package rest

import (
	"encoding/json"
	"net/http"

	"github.com/lumen-labs/moodamp/internal/core/ports"
	"github.com/lumen-labs/moodamp/internal/core/services"
)

// Handler manages the HTTP interface for the song selection service.
type Handler struct {
	svc       *services.Selector // Dependency on the Core Service
	library   ports.Library      // Counts for the status endpoint
	musicRoot string             // Directory served under /music/
	spotifyOn bool
	router    *http.ServeMux // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
// musicRoot may be empty to disable static file serving (tests).
func NewHandler(svc *services.Selector, library ports.Library, musicRoot string, spotifyOn bool) *Handler {
	h := &Handler{
		svc:       svc,
		library:   library,
		musicRoot: musicRoot,
		spotifyOn: spotifyOn,
		router:    http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Song Selection
	h.router.HandleFunc("GET /song/{mood}", h.GetSong)
	h.router.HandleFunc("GET /status", h.Status)
	// Static music files, so returned paths resolve against this server
	if h.musicRoot != "" {
		h.router.Handle("GET /music/", http.StripPrefix("/music/", http.FileServer(http.Dir(h.musicRoot))))
	}
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "moodamp is live 🎶"})
}
