package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobradar/internal/errors"
	"jobradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func samplePostings() []models.JobPosting {
	return []models.JobPosting{
		{
			ID:          "a",
			SourceID:    "1001",
			Title:       "Data Engineer",
			Company:     "Pipeline Labs",
			Location:    "Madivala, Bangalore",
			Description: "Build pipelines; ship data, daily.",
			Skills:      []string{"Python", "SQL"},
			Experience:  "2-5 years",
			SalaryMin:   1200000,
			SalaryMax:   1800000,
			Currency:    "INR",
			URL:         "https://example.org/jobs/1001",
			Category:    "IT Jobs",
			PostedAt:    time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:       "b",
			SourceID: "1002",
			Title:    "Backend Developer",
			Company:  "Initech",
			Location: "Remote",
			Skills:   []string{"go", "python"},
			Remote:   true,
			PostedAt: time.Date(2026, 8, 16, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:       "c",
			SourceID: "1003",
			Title:    "Support Engineer",
			Location: "Somewhere, India",
		},
	}
}

func TestSnapshotUniqueValues(t *testing.T) {
	snapshot := NewSnapshot(samplePostings(), "test")

	t.Run("skills are lowercased, deduplicated, sorted", func(t *testing.T) {
		assert.Equal(t, []string{"go", "python", "sql"}, snapshot.UniqueSkills())
	})

	t.Run("locations are canonical cities without catch-alls", func(t *testing.T) {
		assert.Equal(t, []string{"Bangalore", "Remote"}, snapshot.UniqueLocations())
	})

	t.Run("companies skip blanks", func(t *testing.T) {
		assert.Equal(t, []string{"Initech", "Pipeline Labs"}, snapshot.UniqueCompanies())
	})
}

func TestStoreSwap(t *testing.T) {
	store := NewStore()
	assert.Equal(t, "empty", store.Current().Source)
	assert.Empty(t, store.Current().Postings)

	snapshot := NewSnapshot(samplePostings(), "test")
	store.Swap(snapshot)
	assert.Same(t, snapshot, store.Current())
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := samplePostings()

	path, err := WriteCSV(dir, original)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	loaded, err := ReadCSV(path, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, loaded, len(original))

	assert.Equal(t, original[0].ID, loaded[0].ID)
	assert.Equal(t, original[0].Skills, loaded[0].Skills)
	assert.Equal(t, original[0].SalaryMin, loaded[0].SalaryMin)
	assert.Equal(t, original[0].Description, loaded[0].Description)
	assert.True(t, original[0].PostedAt.Equal(loaded[0].PostedAt))
	assert.True(t, loaded[1].Remote)
	assert.Empty(t, loaded[2].Skills)
}

func TestReadCSVMalformedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs_20260830_000000.csv")
	content := "id,source_id,title,company,location,description,skills,experience," +
		"salary_min,salary_max,currency,remote,url,category,posted_at\n" +
		"a,1001,Data Engineer,Acme,Pune,desc,python,2-5 years," +
		"not-a-number,1800000,INR,maybe,https://example.org,IT Jobs,yesterday\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	loaded, err := ReadCSV(path, zap.New(core))
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	// Corrupt fields zero out, intact fields survive.
	assert.Zero(t, loaded[0].SalaryMin)
	assert.Equal(t, 1800000.0, loaded[0].SalaryMax)
	assert.False(t, loaded[0].Remote)
	assert.True(t, loaded[0].PostedAt.IsZero())
	assert.Equal(t, "Data Engineer", loaded[0].Title)

	warned := make(map[string]bool)
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			if field.Key == "field" {
				warned[field.String] = true
			}
		}
	}
	assert.True(t, warned["salary_min"])
	assert.True(t, warned["remote"])
	assert.True(t, warned["posted_at"])
	assert.False(t, warned["salary_max"])
}

func TestLatestCSV(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing dir or no files", func(t *testing.T) {
		_, err := LatestCSV(dir)
		assert.Error(t, err)
	})

	t.Run("newest file wins", func(t *testing.T) {
		for _, name := range []string{"jobs_20260810_120000.csv", "jobs_20260825_090000.csv", "jobs_20260820_000000.csv"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("id\n"), 0o644))
		}
		latest, err := LatestCSV(dir)
		require.NoError(t, err)
		assert.Equal(t, "jobs_20260825_090000.csv", filepath.Base(latest))
	})
}

type stubSelector struct {
	postings []models.JobPosting
	err      error
}

func (s *stubSelector) SelectRecent(context.Context, int) ([]models.JobPosting, error) {
	return s.postings, s.err
}

func TestLoader(t *testing.T) {
	t.Run("database is the primary source", func(t *testing.T) {
		loader := NewLoader(&stubSelector{postings: samplePostings()}, zap.NewNop(), 30, t.TempDir())
		snapshot := loader.Load(context.Background())
		assert.Equal(t, "clickhouse", snapshot.Source)
		assert.Len(t, snapshot.Postings, 3)
	})

	t.Run("csv fallback when database fails", func(t *testing.T) {
		dir := t.TempDir()
		_, err := WriteCSV(dir, samplePostings())
		require.NoError(t, err)

		loader := NewLoader(&stubSelector{err: errors.Unavailable("db down", nil)}, zap.NewNop(), 30, dir)
		snapshot := loader.Load(context.Background())
		assert.Equal(t, "csv", snapshot.Source)
		assert.Len(t, snapshot.Postings, 3)
	})

	t.Run("empty snapshot when both fail", func(t *testing.T) {
		loader := NewLoader(&stubSelector{err: errors.Unavailable("db down", nil)}, zap.NewNop(), 30, t.TempDir())
		snapshot := loader.Load(context.Background())
		assert.Equal(t, "empty", snapshot.Source)
		assert.Empty(t, snapshot.Postings)
	})
}

