// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/planboard/internal/app/system/tasks"
)

// Runner drives recurring maintenance jobs in the background, one ticker
// loop per job.
type Runner struct {
	jobs   []tasks.Job
	log    *zap.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRunner creates a runner for the given jobs. Jobs with a non-positive
// interval are skipped; that is how a job is disabled by configuration.
func NewRunner(logger *zap.Logger, jobs ...tasks.Job) *Runner {
	enabled := make([]tasks.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Interval > 0 {
			enabled = append(enabled, j)
		} else {
			logger.Info("background job disabled", zap.String("job", j.Name))
		}
	}
	return &Runner{
		jobs:   enabled,
		log:    logger,
		stopCh: make(chan struct{}),
	}
}

// Start launches every enabled job's loop.
func (r *Runner) Start() {
	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.run(j)
		r.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop signals every loop to stop and waits for them to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("background jobs stopped")
}

func (r *Runner) run(j tasks.Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			if err := j.Run(ctx); err != nil {
				r.log.Error("background job failed",
					zap.String("job", j.Name),
					zap.Error(err))
			}
			cancel()
		}
	}
}
