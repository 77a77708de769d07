package waitlist

import (
	"context"
	"time"

	"tably/pkg/logger"
)

// JobProcessor runs the periodic expiry sweep decoupled from request
// handling.
type JobProcessor struct {
	service  Service
	interval time.Duration
	logger   *logger.Logger
	done     chan struct{}
}

// NewJobProcessor creates the background sweep runner.
func NewJobProcessor(service Service, interval time.Duration, log *logger.Logger) *JobProcessor {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &JobProcessor{
		service:  service,
		interval: interval,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Start starts the sweep loop.
func (jp *JobProcessor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(jp.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := jp.service.SweepExpired(ctx); err != nil {
					jp.logger.LogDegraded(ctx, "waitlist_sweep", err)
				}
			case <-jp.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweep loop.
func (jp *JobProcessor) Stop() {
	close(jp.done)
}
