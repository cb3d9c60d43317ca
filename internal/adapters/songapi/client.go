// Package songapi is the client-side adapter for the song selection
// service: it resolves a mood to a playable song over GET /song/{mood}.
package songapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// Client calls the song selection service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time interface assertion
var _ ports.SongSource = (*Client)(nil)

// songResponse mirrors the service's JSON contract.
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

// NewClient constructs a song service client. The client deliberately
// carries no timeout: a hanging lookup stalls one scheduler decision,
// nothing else.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Lookup asks the service for a song matching mood. A service-level
// rejection (ok=false) is returned as an error carrying the service's
// message.
func (c *Client) Lookup(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	url := fmt.Sprintf("%s/song/%s", c.baseURL, mood)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Song{}, fmt.Errorf("songapi: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Song{}, fmt.Errorf("songapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	var body songResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Song{}, fmt.Errorf("songapi: decode error (status %d): %w", resp.StatusCode, err)
	}

	if !body.OK {
		if body.Message == "" {
			body.Message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return domain.Song{}, fmt.Errorf("songapi: %s", body.Message)
	}
	if body.Path == "" {
		// The service guarantees success never carries an empty path.
		return domain.Song{}, fmt.Errorf("songapi: malformed response: ok with empty path")
	}

	path := body.Path
	if strings.HasPrefix(path, "/") {
		path = c.baseURL + path
	}
	return domain.Song{
		Mood:     domain.Mood(body.Mood),
		File:     body.File,
		Path:     path,
		Source:   body.Source,
		Title:    body.Title,
		Artist:   body.Artist,
		Duration: time.Duration(body.DurationMs) * time.Millisecond,
	}, nil
}
