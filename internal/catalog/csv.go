package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobradar/internal/models"

	"go.uber.org/zap"
)

// CSV snapshots are the serving fallback when ClickHouse is unreachable.
// The export tool writes them; the loader reads the newest one back.

const skillSeparator = ";"

var csvHeader = []string{
	"id", "source_id", "title", "company", "location", "description",
	"skills", "experience", "salary_min", "salary_max", "currency",
	"remote", "url", "category", "posted_at",
}

// WriteCSV dumps postings to a timestamped jobs_*.csv in dir and returns
// the written path.
func WriteCSV(dir string, postings []models.JobPosting) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating csv dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("jobs_%s.csv", time.Now().UTC().Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range postings {
		record := []string{
			p.ID,
			p.SourceID,
			p.Title,
			p.Company,
			p.Location,
			p.Description,
			strings.Join(p.Skills, skillSeparator),
			p.Experience,
			strconv.FormatFloat(p.SalaryMin, 'f', -1, 64),
			strconv.FormatFloat(p.SalaryMax, 'f', -1, 64),
			p.Currency,
			strconv.FormatBool(p.Remote),
			p.URL,
			p.Category,
			p.PostedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("writing csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return path, nil
}

// ReadCSV loads postings from one CSV snapshot file. Malformed typed
// fields zero out with a warning rather than failing the whole snapshot;
// a partially corrupt fallback still beats an empty catalog.
func ReadCSV(path string, logger *zap.Logger) ([]models.JobPosting, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	postings := make([]models.JobPosting, 0, len(records)-1)
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i, len(csvHeader), len(record))
		}

		warn := func(field string, err error) {
			logger.Warn("malformed field in csv snapshot, zeroing",
				zap.String("path", path),
				zap.Int("row", i),
				zap.String("field", field),
				zap.Error(err))
		}

		salaryMin, err := strconv.ParseFloat(record[8], 64)
		if err != nil {
			warn("salary_min", err)
		}
		salaryMax, err := strconv.ParseFloat(record[9], 64)
		if err != nil {
			warn("salary_max", err)
		}
		remote, err := strconv.ParseBool(record[11])
		if err != nil {
			warn("remote", err)
		}
		postedAt, err := time.Parse(time.RFC3339, record[14])
		if err != nil {
			warn("posted_at", err)
		}

		var skills []string
		if record[6] != "" {
			skills = strings.Split(record[6], skillSeparator)
		}

		postings = append(postings, models.JobPosting{
			ID:          record[0],
			SourceID:    record[1],
			Title:       record[2],
			Company:     record[3],
			Location:    record[4],
			Description: record[5],
			Skills:      skills,
			Experience:  record[7],
			SalaryMin:   salaryMin,
			SalaryMax:   salaryMax,
			Currency:    record[10],
			Remote:      remote,
			URL:         record[12],
			Category:    record[13],
			PostedAt:    postedAt,
		})
	}
	return postings, nil
}

// LatestCSV returns the newest jobs_*.csv in dir. The timestamped naming
// scheme makes lexicographic order chronological.
func LatestCSV(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "jobs_*.csv"))
	if err != nil {
		return "", fmt.Errorf("globbing csv dir: %w", err)
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
