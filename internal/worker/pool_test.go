package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type mockProbeStore struct {
	mu      sync.Mutex
	updates map[string]TrackInfo
	err     error
}

func newMockProbeStore() *mockProbeStore {
	return &mockProbeStore{updates: make(map[string]TrackInfo)}
}

func (m *mockProbeStore) UpdateSongInfo(ctx context.Context, songID string, duration time.Duration, sampleRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.updates[songID] = TrackInfo{Duration: duration, SampleRate: sampleRate}
	return nil
}

func (m *mockProbeStore) get(songID string) (TrackInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.updates[songID]
	return info, ok
}

func withProbe(t *testing.T, fn func(string) (TrackInfo, error)) {
	t.Helper()
	orig := ProbeFileFunc
	ProbeFileFunc = fn
	t.Cleanup(func() { ProbeFileFunc = orig })
}

func TestPoolProbesAndStores(t *testing.T) {
	withProbe(t, func(path string) (TrackInfo, error) {
		return TrackInfo{Duration: 3 * time.Minute, SampleRate: 44100}, nil
	})

	store := newMockProbeStore()
	pool := NewPool(store, 4)
	pool.Start(2)

	pool.Submit(Job{SongID: "song-1", Path: "/music/happy/a.mp3"})
	pool.Submit(Job{SongID: "song-2", Path: "/music/sad/b.mp3"})
	pool.Stop()

	for _, id := range []string{"song-1", "song-2"} {
		info, ok := store.get(id)
		if !ok {
			t.Fatalf("song %s was never updated", id)
		}
		if info.SampleRate != 44100 || info.Duration != 3*time.Minute {
			t.Errorf("song %s info = %+v", id, info)
		}
	}
}

func TestPoolSkipsEmptyPath(t *testing.T) {
	withProbe(t, func(path string) (TrackInfo, error) {
		t.Fatal("probe must not run for an empty path")
		return TrackInfo{}, nil
	})

	store := newMockProbeStore()
	pool := NewPool(store, 1)
	pool.Start(1)
	pool.Submit(Job{SongID: "song-1"})
	pool.Stop()

	if _, ok := store.get("song-1"); ok {
		t.Error("empty-path job must not reach the store")
	}
}

func TestPoolSurvivesProbeFailure(t *testing.T) {
	withProbe(t, func(path string) (TrackInfo, error) {
		if path == "/music/happy/bad.mp3" {
			return TrackInfo{}, errors.New("not an mp3")
		}
		return TrackInfo{Duration: time.Minute, SampleRate: 48000}, nil
	})

	store := newMockProbeStore()
	pool := NewPool(store, 4)
	pool.Start(1)
	pool.Submit(Job{SongID: "bad", Path: "/music/happy/bad.mp3"})
	pool.Submit(Job{SongID: "good", Path: "/music/happy/good.mp3"})
	pool.Stop()

	if _, ok := store.get("bad"); ok {
		t.Error("failed probe must not update the store")
	}
	if _, ok := store.get("good"); !ok {
		t.Error("later jobs must still be processed after a failure")
	}
}

func TestSubmitDropsWhenQueueFull(t *testing.T) {
	store := newMockProbeStore()
	pool := NewPool(store, 1)
	// No workers started: the queue fills and further submits drop
	// instead of blocking.
	pool.Submit(Job{SongID: "a", Path: "/music/happy/a.mp3"})

	done := make(chan struct{})
	go func() {
		pool.Submit(Job{SongID: "b", Path: "/music/happy/b.mp3"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}
