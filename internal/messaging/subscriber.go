package messaging

import (
	"context"
	"fmt"

	"jobradar/internal/processor"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const processingQueueGroup = "processing-service"

// Handler consumes scraped postings off NATS and hands them to the
// processor. Queue subscription means horizontally scaled processing
// instances share the stream instead of duplicating work.
type Handler struct {
	logger       *zap.Logger
	nc           *nats.Conn
	tracer       trace.Tracer
	jobProcessor *processor.JobProcessor
	sub          *nats.Subscription
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, tracer trace.Tracer, jobProcessor *processor.JobProcessor) *Handler {
	return &Handler{
		logger:       logger,
		nc:           nc,
		tracer:       tracer,
		jobProcessor: jobProcessor,
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := h.nc.QueueSubscribe(JobPostingsSubject, processingQueueGroup, h.handleJobPosting)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", JobPostingsSubject, err)
	}

	h.sub = sub
	h.logger.Info("Registered NATS subscriptions")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.sub.Unsubscribe()
		},
	})

	return nil
}

func (h *Handler) handleJobPosting(msg *nats.Msg) {
	// Continue the trace the ingestion side started.
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), headerCarrier(msg.Header))
	ctx, span := h.tracer.Start(ctx, "handleJobPosting")
	defer span.End()

	if err := h.jobProcessor.ProcessJobPosting(ctx, msg.Data); err != nil {
		h.logger.Error("Failed to process job posting",
			zap.Error(err),
			zap.String("subject", msg.Subject),
		)
		return
	}

	h.logger.Debug("Successfully processed job posting",
		zap.String("subject", msg.Subject),
	)
}
