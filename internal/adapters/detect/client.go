// Package detect provides the HTTP adapter for the external
// facial-expression inference service. Given a camera frame it returns
// either a no-face signal or a confidence per canonical mood label;
// the inference itself happens out of process.
package detect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

const defaultBaseURL = "http://localhost:5005"

// Client talks to the expression inference service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// compile-time interface assertions
var (
	_ ports.Detector       = (*Client)(nil)
	_ ports.DetectorOpener = (*Client)(nil)
)

type detectRequest struct {
	// Image is a base64-encoded JPEG frame.
	Image string `json:"image"`
}

type detectResponse struct {
	Face   bool               `json:"face"`
	Scores map[string]float64 `json:"scores,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// NewClient constructs a detector client. httpClient may be nil.
// Detection requests carry no timeout of their own; overlapping
// in-flight calls are tolerated by the caller.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Open verifies the inference service is reachable. A failure here is
// fatal to the session being started.
func (c *Client) Open(ctx context.Context) (ports.Detector, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("detect adapter: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detect adapter: service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detect adapter: health status %d", resp.StatusCode)
	}
	return c, nil
}

// Detect sends one frame for inference.
func (c *Client) Detect(ctx context.Context, frame image.Image) (domain.Detection, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, nil); err != nil {
		return domain.Detection{}, fmt.Errorf("detect adapter: failed to encode frame: %w", err)
	}

	payload, err := json.Marshal(detectRequest{
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	if err != nil {
		return domain.Detection{}, fmt.Errorf("detect adapter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return domain.Detection{}, fmt.Errorf("detect adapter: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Detection{}, fmt.Errorf("detect adapter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Detection{}, fmt.Errorf("detect adapter: status %d", resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Detection{}, fmt.Errorf("detect adapter: decode error: %w", err)
	}
	if body.Error != "" {
		return domain.Detection{}, fmt.Errorf("detect adapter: %s", body.Error)
	}

	if !body.Face {
		return domain.Detection{FaceFound: false}, nil
	}

	scores := make(domain.ExpressionScores, len(body.Scores))
	for label, score := range body.Scores {
		mood, err := domain.ParseMood(label)
		if err != nil {
			// Labels outside the canonical set are dropped at the boundary.
			continue
		}
		scores[mood] = score
	}
	return domain.Detection{FaceFound: true, Scores: scores}, nil
}
