// Package processor turns raw scraped messages into stored postings.
package processor

import (
	"context"
	"fmt"

	"jobradar/common/telemetry"
	"jobradar/internal/parser"
	"jobradar/internal/storage"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type JobProcessor struct {
	logger *zap.Logger
	store  *storage.JobStore
	tracer trace.Tracer
}

func NewJobProcessor(logger *zap.Logger, store *storage.JobStore) *JobProcessor {
	return &JobProcessor{
		logger: logger,
		store:  store,
		tracer: telemetry.GetTracer("jobradar/processor"),
	}
}

func (p *JobProcessor) ProcessJobPosting(ctx context.Context, rawData []byte) error {
	ctx, span := p.tracer.Start(ctx, "ProcessJobPosting")
	defer span.End()

	posting, err := parser.ParseJobPosting(rawData)
	if err != nil {
		p.logger.Error("Failed to parse job posting", zap.Error(err))
		return fmt.Errorf("parse job posting: %w", err)
	}

	span.SetAttributes(
		telemetry.String("job.id", posting.ID),
		telemetry.String("job.title", posting.Title),
	)

	if err := p.store.Insert(ctx, posting); err != nil {
		p.logger.Error("Failed to store job posting",
			zap.String("id", posting.ID),
			zap.Error(err))
		return fmt.Errorf("store job posting: %w", err)
	}

	return nil
}
