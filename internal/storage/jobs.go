// Package storage persists postings in ClickHouse and reads back the
// recent window the catalog is built from.
package storage

import (
	"context"
	"fmt"
	"time"

	"jobradar/common/telemetry"
	"jobradar/internal/errors"
	"jobradar/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type JobStore struct {
	conn   clickhouse.Conn
	logger *zap.Logger
	tracer trace.Tracer
}

func NewJobStore(conn clickhouse.Conn, logger *zap.Logger) *JobStore {
	return &JobStore{
		conn:   conn,
		logger: logger,
		tracer: telemetry.GetTracer("jobradar/storage"),
	}
}

// Insert writes one posting. The jobs table is a ReplacingMergeTree keyed
// on id, so re-inserting the same posting after a rescrape is a cheap
// upsert rather than an error.
func (s *JobStore) Insert(ctx context.Context, posting *models.JobPosting) error {
	ctx, span := s.tracer.Start(ctx, "JobStore.Insert")
	defer span.End()
	span.SetAttributes(telemetry.String("job.id", posting.ID))

	query := `
		INSERT INTO jobs (
			id, source_id, title, company, location, description, skills,
			experience, salary_min, salary_max, currency, remote, url,
			category, posted_at, created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	now := time.Now().UTC()
	if err := s.conn.Exec(ctx, query,
		posting.ID,
		posting.SourceID,
		posting.Title,
		posting.Company,
		posting.Location,
		posting.Description,
		posting.Skills,
		posting.Experience,
		posting.SalaryMin,
		posting.SalaryMax,
		posting.Currency,
		posting.Remote,
		posting.URL,
		posting.Category,
		posting.PostedAt,
		now,
		now,
	); err != nil {
		span.RecordError(err)
		return errors.Internal("insert job posting", err)
	}

	return nil
}

// SelectRecent returns all postings posted within the last windowDays,
// newest first. FINAL collapses ReplacingMergeTree duplicates.
func (s *JobStore) SelectRecent(ctx context.Context, windowDays int) ([]models.JobPosting, error) {
	ctx, span := s.tracer.Start(ctx, "JobStore.SelectRecent")
	defer span.End()
	span.SetAttributes(telemetry.Int("window.days", windowDays))

	query := fmt.Sprintf(`
		SELECT
			id, source_id, title, company, location, description, skills,
			experience, salary_min, salary_max, currency, remote, url,
			category, posted_at
		FROM jobs FINAL
		WHERE posted_at >= now() - INTERVAL %d DAY
		ORDER BY posted_at DESC
	`, windowDays)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("query recent postings", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", zap.Error(cerr))
		}
	}()

	var postings []models.JobPosting
	for rows.Next() {
		var p models.JobPosting
		if err := rows.Scan(
			&p.ID,
			&p.SourceID,
			&p.Title,
			&p.Company,
			&p.Location,
			&p.Description,
			&p.Skills,
			&p.Experience,
			&p.SalaryMin,
			&p.SalaryMax,
			&p.Currency,
			&p.Remote,
			&p.URL,
			&p.Category,
			&p.PostedAt,
		); err != nil {
			span.RecordError(err)
			return nil, errors.Internal("scan posting row", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, errors.Internal("iterate posting rows", err)
	}

	span.SetAttributes(telemetry.Int("postings.count", len(postings)))
	s.logger.Debug("loaded recent postings", zap.Int("count", len(postings)))
	return postings, nil
}
