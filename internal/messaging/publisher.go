package messaging

import (
	"context"
	"encoding/json"
	"time"

	"jobradar/common/telemetry"
	"jobradar/internal/config"
	"jobradar/internal/errors"
	"jobradar/internal/models"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("jobradar/messaging")

const (
	// JobPostingsSubject carries freshly scraped postings from the
	// ingestion service to the processing service.
	JobPostingsSubject = "jobs.scraped"
)

// headerCarrier adapts nats.Header to the otel TextMapCarrier so trace
// context rides the message from ingestion to processing.
type headerCarrier nats.Header

func (c headerCarrier) Get(key string) string {
	return nats.Header(c).Get(key)
}

func (c headerCarrier) Set(key, value string) {
	nats.Header(c).Set(key, value)
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	return keys
}

type Publisher interface {
	PublishJobPosting(ctx context.Context, posting *models.JobPosting) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, config *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(config.NATSConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishJobPosting(ctx context.Context, posting *models.JobPosting) error {
	ctx, span := tracer.Start(ctx, "PublishJobPosting")
	defer span.End()

	data, err := json.Marshal(posting)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling job posting", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", JobPostingsSubject),
		telemetry.Int("message.size", len(data)),
	)

	msg := &nats.Msg{
		Subject: JobPostingsSubject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish job posting",
			zap.String("source_id", posting.SourceID),
			zap.Error(err))
		return errors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published job posting",
		zap.String("source_id", posting.SourceID),
		zap.String("subject", JobPostingsSubject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
