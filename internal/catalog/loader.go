package catalog

import (
	"context"
	"time"

	"jobradar/common/telemetry"
	"jobradar/internal/models"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecentSelector is the slice of the job store the loader needs.
type RecentSelector interface {
	SelectRecent(ctx context.Context, windowDays int) ([]models.JobPosting, error)
}

// Loader builds catalog snapshots: ClickHouse first, the newest CSV export
// when the database is unreachable, an empty snapshot as the last resort.
// A degraded catalog keeps the API serving; it never brings it down.
type Loader struct {
	selector   RecentSelector
	logger     *zap.Logger
	tracer     trace.Tracer
	windowDays int
	csvDir     string
}

func NewLoader(selector RecentSelector, logger *zap.Logger, windowDays int, csvDir string) *Loader {
	return &Loader{
		selector:   selector,
		logger:     logger,
		tracer:     telemetry.GetTracer("jobradar/catalog"),
		windowDays: windowDays,
		csvDir:     csvDir,
	}
}

func (l *Loader) Load(ctx context.Context) *Snapshot {
	ctx, span := l.tracer.Start(ctx, "Loader.Load")
	defer span.End()

	postings, err := l.selector.SelectRecent(ctx, l.windowDays)
	if err == nil {
		span.SetAttributes(
			telemetry.String("catalog.source", "clickhouse"),
			telemetry.Int("catalog.size", len(postings)),
		)
		l.logger.Info("catalog loaded from database", zap.Int("postings", len(postings)))
		return NewSnapshot(postings, "clickhouse")
	}

	span.RecordError(err)
	l.logger.Warn("database load failed, falling back to csv", zap.Error(err))

	path, pathErr := LatestCSV(l.csvDir)
	if pathErr != nil {
		l.logger.Warn("no csv fallback available, serving empty catalog",
			zap.String("dir", l.csvDir),
			zap.Error(pathErr))
		span.SetAttributes(telemetry.String("catalog.source", "empty"))
		return NewSnapshot(nil, "empty")
	}

	postings, csvErr := ReadCSV(path, l.logger)
	if csvErr != nil {
		l.logger.Error("csv fallback unreadable, serving empty catalog",
			zap.String("path", path),
			zap.Error(csvErr))
		span.SetAttributes(telemetry.String("catalog.source", "empty"))
		return NewSnapshot(nil, "empty")
	}

	span.SetAttributes(
		telemetry.String("catalog.source", "csv"),
		telemetry.Int("catalog.size", len(postings)),
	)
	l.logger.Info("catalog loaded from csv fallback",
		zap.String("path", path),
		zap.Int("postings", len(postings)))
	return NewSnapshot(postings, "csv")
}

// Run refreshes the store on the given interval until ctx is cancelled.
// The initial load is the caller's responsibility so startup ordering
// stays explicit.
func (l *Loader) Run(ctx context.Context, store *Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Swap(l.Load(ctx))
		}
	}
}
