// Package worker provides background probing of scanned library tracks.
package worker

import (
	"context"
	"log"
	"sync"

	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// Job asks for one library file to be probed for audio metadata.
type Job struct {
	SongID string
	Path   string
}

// Pool runs probe jobs on a fixed set of workers. Results go straight
// into the catalog; playback never waits on a probe.
type Pool struct {
	store ports.ProbeStore
	jobs  chan Job
	wg    sync.WaitGroup
}

// NewPool creates a probe pool with the given queue size.
func NewPool(store ports.ProbeStore, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{store: store, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		log.Printf("WARN worker: queue full, dropping probe for %s", job.SongID)
	}
}

func (p *Pool) processJob(job Job) {
	if job.Path == "" {
		log.Printf("WARN worker: no path for song %s, skipping probe", job.SongID)
		return
	}

	info, err := ProbeFileFunc(job.Path)
	if err != nil {
		log.Printf("WARN worker: probe failed for %s: %v", job.Path, err)
		return
	}

	if err := p.store.UpdateSongInfo(context.Background(), job.SongID, info.Duration, info.SampleRate); err != nil {
		log.Printf("WARN worker: failed to update song %s: %v", job.SongID, err)
		return
	}
	log.Printf("worker: probed %s (%s, %d Hz)", job.Path, info.Duration, info.SampleRate)
}
