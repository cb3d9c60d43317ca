// Package spotify provides the external preview fallback: when the
// local catalog has nothing for a mood, a preview track is searched on
// Spotify using mood-specific search terms.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	tokenURL       = "https://accounts.spotify.com/api/token"
	searchLimit    = 50
	searchMarket   = "US"
)

// moodSearchTerms maps each canonical mood to the search query used
// against the Spotify catalog.
var moodSearchTerms = map[domain.Mood]string{
	domain.MoodHappy:     "upbeat happy energetic",
	domain.MoodSad:       "sad melancholic emotional",
	domain.MoodAngry:     "intense aggressive powerful",
	domain.MoodNeutral:   "calm peaceful ambient",
	domain.MoodSurprised: "energetic exciting dynamic",
	domain.MoodFearful:   "dark atmospheric tense",
	domain.MoodDisgusted: "intense dramatic",
}

// Client searches Spotify for mood-matched preview tracks.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.PreviewSource = (*Client)(nil)

// NewClient constructs a Client around an already-authenticated HTTP
// client (used directly in tests).
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxRetries, baseBackoff := getRetryConfig()
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

// NewClientCredentials constructs a Client that authenticates with the
// client-credentials flow. Token acquisition and refresh are handled by
// the oauth2 transport.
func NewClientCredentials(ctx context.Context, clientID, clientSecret string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return NewClient(conf.Client(ctx), defaultBaseURL)
}

// PreviewForMood searches for tracks matching the mood's search terms
// and picks one at random among those that expose a preview URL. A
// track without a preview cannot be played, so none is an error.
func (c *Client) PreviewForMood(ctx context.Context, mood domain.Mood) (domain.Song, error) {
	term, ok := moodSearchTerms[mood]
	if !ok {
		return domain.Song{}, fmt.Errorf("spotify adapter: %w: %q", domain.ErrUnknownMood, mood)
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return domain.Song{}, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	query := searchURL.Query()
	query.Set("q", term)
	query.Set("type", "track")
	query.Set("limit", fmt.Sprint(searchLimit))
	query.Set("market", searchMarket)
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return domain.Song{}, fmt.Errorf("spotify adapter: failed to create search request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.Song{}, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Song{}, fmt.Errorf("spotify adapter: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Song{}, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}

	var playable []wireTrack
	for _, t := range body.Tracks.Items {
		if t.PreviewURL != "" {
			playable = append(playable, t)
		}
	}
	if len(playable) == 0 {
		return domain.Song{}, fmt.Errorf("spotify adapter: no previewable track for mood %q", mood)
	}

	return mapTrackToSong(playable[rand.Intn(len(playable))], mood), nil
}

// mapTrackToSong converts a raw Spotify track to a domain song with the
// preview URL as its playable path.
func mapTrackToSong(t wireTrack, mood domain.Mood) domain.Song {
	var artistNames []string
	for _, a := range t.Artists {
		artistNames = append(artistNames, a.Name)
	}
	artist := strings.Join(artistNames, ", ")

	return domain.Song{
		Mood:     mood,
		File:     fmt.Sprintf("%s - %s", artist, t.Name),
		Path:     t.PreviewURL,
		Source:   domain.SourceSpotify,
		Title:    t.Name,
		Artist:   artist,
		Duration: time.Duration(t.DurationMs) * time.Millisecond,
	}
}
