package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/errors"
	"jobradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearchClient struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]bool
}

func (f *fakeSearchClient) SearchJobs(_ context.Context, role, location string, page int) (models.SourceJobList, error) {
	f.mu.Lock()
	key := role + "/" + location
	f.calls = append(f.calls, key)
	fail := f.failFor[key]
	f.mu.Unlock()

	if fail {
		return nil, errors.Unavailable("upstream down", nil)
	}
	job := models.SourceJob{ID: key, Title: role}
	job.Location.DisplayName = location
	return models.SourceJobList{job}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	postings []*models.JobPosting
}

func (f *fakePublisher) PublishJobPosting(_ context.Context, posting *models.JobPosting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postings = append(f.postings, posting)
	return nil
}

func (f *fakePublisher) Close() {}

func schedulerConfig() *config.Config {
	return &config.Config{
		ScrapeRoles:     []string{"golang developer", "data engineer"},
		ScrapeLocations: []string{"Bangalore", "Pune"},
		PagesPerSearch:  1,
		ScrapeInterval:  time.Hour,
	}
}

func TestRunScrapePublishesAllResults(t *testing.T) {
	client := &fakeSearchClient{}
	publisher := &fakePublisher{}
	s := NewScrapeScheduler(client, publisher, zap.NewNop(), schedulerConfig())

	err := s.runScrape(context.Background())
	require.NoError(t, err)

	// 2 roles x 2 locations x 1 page, one posting per page.
	assert.Len(t, client.calls, 4)
	assert.Len(t, publisher.postings, 4)

	sourceIDs := make(map[string]bool)
	for _, p := range publisher.postings {
		sourceIDs[p.SourceID] = true
	}
	assert.True(t, sourceIDs["golang developer/Bangalore"])
	assert.True(t, sourceIDs["data engineer/Pune"])
}

func TestRunScrapeContinuesPastFailedTasks(t *testing.T) {
	client := &fakeSearchClient{failFor: map[string]bool{
		"golang developer/Bangalore": true,
	}}
	publisher := &fakePublisher{}
	s := NewScrapeScheduler(client, publisher, zap.NewNop(), schedulerConfig())

	err := s.runScrape(context.Background())
	require.NoError(t, err)

	// One page failed, the other three still published.
	assert.Len(t, publisher.postings, 3)
}

func TestBuildTasksCoversFullMatrix(t *testing.T) {
	cfg := schedulerConfig()
	cfg.PagesPerSearch = 3
	s := NewScrapeScheduler(&fakeSearchClient{}, &fakePublisher{}, zap.NewNop(), cfg)

	tasks := s.buildTasks()
	assert.Len(t, tasks, 2*2*3)
	assert.Equal(t, searchTask{role: "golang developer", location: "Bangalore", page: 1}, tasks[0])
	assert.Equal(t, 3, tasks[2].page)
}
