package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

type workerPool struct {
	scheduler *ScrapeScheduler
	logger    *zap.Logger
}

func newWorkerPool(scheduler *ScrapeScheduler, logger *zap.Logger) *workerPool {
	return &workerPool{
		scheduler: scheduler,
		logger:    logger,
	}
}

// start launches the search workers. Three is deliberately low: Adzuna
// rate-limits aggressively on free-tier credentials.
func (w *workerPool) start(ctx context.Context, stats *scrapeStats, taskChan chan searchTask) *sync.WaitGroup {
	var wg sync.WaitGroup

	const numWorkers = 3
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				published, err := w.scheduler.processTask(ctx, task)
				if err != nil {
					atomic.AddInt32(&stats.failures, 1)
					w.logger.Error("failed to process search task",
						zap.String("role", task.role),
						zap.String("location", task.location),
						zap.Int("page", task.page),
						zap.Error(err))
					continue
				}
				atomic.AddInt32(&stats.pagesFetched, 1)
				atomic.AddInt32(&stats.jobsPublished, int32(published))
			}
		}()
	}

	return &wg
}
