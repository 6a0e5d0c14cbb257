// Package dubbing tracks video translation jobs. The backend processes a
// job asynchronously; the client polls its status at a fixed interval until
// it reaches a terminal state. Cancellation means ceasing to poll, the
// remote job is never told to stop.
package dubbing

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is how often a job is polled.
const DefaultInterval = 5 * time.Second

// Status is the lifecycle status of a translation job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the job will make no further progress.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one video translation job as reported by the backend.
type Job struct {
	ID        string `json:"id"`
	Status    Status `json:"status"`
	Progress  int    `json:"progress"`
	Language  string `json:"language"`
	OutputURL string `json:"output_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Source fetches the current state of a translation job.
type Source interface {
	TranslationJob(ctx context.Context, jobID string) (Job, error)
}

// Poller polls a translation job until it reaches a terminal status. A
// poller is bound to the lifetime of the view showing the job: cancel the
// context when the view goes away and polling simply stops.
type Poller struct {
	src      Source
	interval time.Duration
	logger   *slog.Logger
	onUpdate func(Job)
}

// NewPoller creates a poller. interval <= 0 means DefaultInterval; onUpdate,
// when non-nil, observes every fetched state including the terminal one.
func NewPoller(src Source, interval time.Duration, logger *slog.Logger, onUpdate func(Job)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		src:      src,
		interval: interval,
		logger:   logger.With("component", "dubbing_poller"),
		onUpdate: onUpdate,
	}
}

// Run polls the job until it is terminal or ctx is cancelled. It returns the
// terminal job state, or the last known state with ctx.Err() on
// cancellation. A fetch error stops polling and is returned; the caller
// decides whether to start over.
func (p *Poller) Run(ctx context.Context, jobID string) (Job, error) {
	var last Job

	fetch := func() (bool, error) {
		job, err := p.src.TranslationJob(ctx, jobID)
		if err != nil {
			return false, fmt.Errorf("poll translation job %s: %w", jobID, err)
		}
		last = job
		if p.onUpdate != nil {
			p.onUpdate(job)
		}
		p.logger.Debug("translation job polled", "job_id", jobID, "status", job.Status, "progress", job.Progress)
		return job.Status.Terminal(), nil
	}

	done, err := fetch()
	if err != nil {
		return last, err
	}
	if done {
		return last, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("polling cancelled", "job_id", jobID)
			return last, ctx.Err()
		case <-ticker.C:
			done, err := fetch()
			if err != nil {
				return last, err
			}
			if done {
				return last, nil
			}
		}
	}
}
