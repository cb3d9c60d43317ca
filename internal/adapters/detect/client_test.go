package detect

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumen-labs/moodamp/internal/core/domain"
)

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			http.NotFound(w, r)
			return
		}
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			http.Error(w, "missing image", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(detectResponse{
			Face: true,
			Scores: map[string]float64{
				"happy":   0.8,
				"sad":     0.1,
				"made-up": 0.99, // non-canonical labels must be dropped
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	det, err := c.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !det.FaceFound {
		t.Fatal("expected a face")
	}
	if got := det.Dominant(); got != domain.MoodHappy {
		t.Errorf("dominant = %q, want happy", got)
	}
	if _, ok := det.Scores[domain.Mood("made-up")]; ok {
		t.Error("non-canonical label leaked through the boundary")
	}
}

func TestDetectNoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(detectResponse{Face: false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	det, err := c.Detect(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.FaceFound {
		t.Fatal("expected no face")
	}
}

func TestOpenChecksHealth(t *testing.T) {
	healthy := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if _, err := c.Open(context.Background()); err == nil {
		t.Fatal("expected Open to fail while service is unhealthy")
	}

	healthy = true
	if _, err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
}
