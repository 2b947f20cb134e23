// Package scheduler runs the periodic Adzuna scrape: every interval it
// fans role/location/page search tasks out to a worker pool and publishes
// each result onto NATS.
package scheduler

import (
	"context"
	"sync"
	"time"

	"jobradar/common/telemetry"
	"jobradar/internal/adzuna"
	"jobradar/internal/config"
	"jobradar/internal/messaging"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("jobradar/scheduler")

type searchTask struct {
	role     string
	location string
	page     int
}

type scrapeStats struct {
	pagesFetched  int32
	jobsPublished int32
	failures      int32
}

type ScrapeScheduler struct {
	client    adzuna.JobSearchClient
	publisher messaging.Publisher
	logger    *zap.Logger
	config    *config.Config
	mutex     sync.Mutex
	isActive  bool
	workers   *workerPool
}

func NewScrapeScheduler(client adzuna.JobSearchClient, publisher messaging.Publisher, logger *zap.Logger, config *config.Config) *ScrapeScheduler {
	scheduler := &ScrapeScheduler{
		client:    client,
		publisher: publisher,
		logger:    logger,
		config:    config,
	}
	scheduler.workers = newWorkerPool(scheduler, logger)
	return scheduler
}

// Start runs one scrape immediately, then one per ScrapeInterval until the
// context is cancelled.
func (s *ScrapeScheduler) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "ScrapeScheduler.Start")
	defer span.End()

	s.mutex.Lock()
	if s.isActive {
		s.mutex.Unlock()
		return nil
	}
	s.isActive = true
	s.mutex.Unlock()

	ticker := time.NewTicker(s.config.ScrapeInterval)
	defer ticker.Stop()

	if err := s.runScrape(ctx); err != nil {
		s.logger.Error("initial scrape failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.runScrape(ctx); err != nil {
				s.logger.Error("periodic scrape failed", zap.Error(err))
			}
		}
	}
}

func (s *ScrapeScheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isActive = false
}

func (s *ScrapeScheduler) runScrape(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "ScrapeScheduler.runScrape")
	defer span.End()

	tasks := s.buildTasks()
	span.SetAttributes(telemetry.Int("tasks.count", len(tasks)))
	s.logger.Info("starting scrape cycle",
		zap.Int("roles", len(s.config.ScrapeRoles)),
		zap.Int("locations", len(s.config.ScrapeLocations)),
		zap.Int("tasks", len(tasks)))

	stats := &scrapeStats{}
	taskChan := make(chan searchTask)
	doneChan := make(chan bool)

	wg := s.workers.start(ctx, stats, taskChan)

	go func() {
		defer close(taskChan)
		for _, task := range tasks {
			select {
			case <-ctx.Done():
				return
			case taskChan <- task:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(doneChan)
	}()

	return s.waitForCompletion(ctx, doneChan, stats)
}

func (s *ScrapeScheduler) buildTasks() []searchTask {
	tasks := make([]searchTask, 0, len(s.config.ScrapeRoles)*len(s.config.ScrapeLocations)*s.config.PagesPerSearch)
	for _, role := range s.config.ScrapeRoles {
		for _, location := range s.config.ScrapeLocations {
			for page := 1; page <= s.config.PagesPerSearch; page++ {
				tasks = append(tasks, searchTask{role: role, location: location, page: page})
			}
		}
	}
	return tasks
}

func (s *ScrapeScheduler) waitForCompletion(ctx context.Context, doneChan chan bool, stats *scrapeStats) error {
	ctx, span := tracer.Start(ctx, "ScrapeScheduler.waitForCompletion")
	defer span.End()

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return ctx.Err()
	case <-doneChan:
		span.SetAttributes(
			telemetry.Int("pages_fetched", int(stats.pagesFetched)),
			telemetry.Int("jobs_published", int(stats.jobsPublished)),
			telemetry.Int("failures", int(stats.failures)),
		)
		s.logger.Info("completed scrape cycle",
			zap.Int("pages_fetched", int(stats.pagesFetched)),
			zap.Int("jobs_published", int(stats.jobsPublished)),
			zap.Int("failures", int(stats.failures)))
		return nil
	}
}

// processTask fetches one search page and publishes every posting on it.
func (s *ScrapeScheduler) processTask(ctx context.Context, task searchTask) (published int, err error) {
	ctx, span := tracer.Start(ctx, "ScrapeScheduler.processTask")
	defer span.End()
	span.SetAttributes(
		telemetry.String("task.role", task.role),
		telemetry.String("task.location", task.location),
		telemetry.Int("task.page", task.page),
	)

	jobs, err := s.client.SearchJobs(ctx, task.role, task.location, task.page)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	for i := range jobs {
		posting := jobs[i].ToJobPosting()
		if err := s.publisher.PublishJobPosting(ctx, posting); err != nil {
			s.logger.Error("failed to publish posting",
				zap.String("source_id", posting.SourceID),
				zap.Error(err))
			continue
		}
		published++
	}
	return published, nil
}
