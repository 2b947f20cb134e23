package recommend

import (
	"context"
	"testing"

	"jobradar/internal/errors"
	"jobradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog() []models.JobPosting {
	return []models.JobPosting{
		{
			ID:         "job-1",
			Title:      "Data Analyst",
			Company:    "Acme Analytics",
			Location:   "Bangalore",
			Skills:     []string{"Python", "SQL"},
			Experience: "2-5 years",
		},
		{
			ID:         "job-2",
			Title:      "Frontend Engineer",
			Company:    "PixelWorks",
			Location:   "Mumbai",
			Skills:     []string{"React", "TypeScript", "CSS"},
			Experience: "2-5 years",
		},
		{
			ID:         "job-3",
			Title:      "Data Engineer",
			Company:    "Pipeline Labs",
			Location:   "Remote",
			Skills:     []string{"Python", "SQL", "Airflow", "Spark"},
			Experience: "5-10 years",
			Remote:     true,
		},
	}
}

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop())
}

func TestRankCompositeScore(t *testing.T) {
	// One posting, full experience and location match, half the required
	// skills covered: 0.7*50 + 0.2*100 + 0.1*100 = 65.
	catalog := []models.JobPosting{{
		ID:         "job-1",
		Title:      "Data Analyst",
		Location:   "Bangalore",
		Skills:     []string{"Python", "SQL"},
		Experience: "2-5 years",
	}}
	req := Request{
		Profile: models.CandidateProfile{
			Role:               "data analyst",
			Experience:         "2-5 years",
			Skills:             []string{"Python"},
			PreferredLocations: []string{"Bangalore"},
		},
		TopN: 10,
	}

	matches, err := newTestEngine().Rank(context.Background(), catalog, req)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, 65, m.Score)
	assert.Equal(t, 50.0, m.SkillScore)
	assert.Equal(t, 100.0, m.ExperienceScore)
	assert.Equal(t, 100.0, m.LocationScore)
	assert.Equal(t, []string{"python"}, m.MatchedSkills)
	assert.Equal(t, []string{"sql"}, m.MissingSkills)
}

func TestRankValidation(t *testing.T) {
	engine := newTestEngine()

	t.Run("non-positive top n", func(t *testing.T) {
		_, err := engine.Rank(context.Background(), testCatalog(), Request{
			Profile: models.CandidateProfile{Skills: []string{"python"}},
			TopN:    0,
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
	})

	t.Run("fully empty profile", func(t *testing.T) {
		_, err := engine.Rank(context.Background(), testCatalog(), Request{
			Profile: models.CandidateProfile{Experience: "mystery"},
			TopN:    5,
		})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
	})

	t.Run("empty catalog is not an error", func(t *testing.T) {
		matches, err := engine.Rank(context.Background(), nil, Request{
			Profile: models.CandidateProfile{Skills: []string{"python"}},
			TopN:    5,
		})
		require.NoError(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})
}

func TestRankTopNClamp(t *testing.T) {
	catalog := make([]models.JobPosting, 60)
	for i := range catalog {
		catalog[i] = models.JobPosting{
			ID:     "job",
			Title:  "Python Developer",
			Skills: []string{"Python"},
		}
	}
	matches, err := newTestEngine().Rank(context.Background(), catalog, Request{
		Profile: models.CandidateProfile{Skills: []string{"python"}},
		TopN:    200,
	})
	require.NoError(t, err)
	assert.Len(t, matches, MaxTopN)
}

func TestRankOrderingAndDeterminism(t *testing.T) {
	req := Request{
		Profile: models.CandidateProfile{
			Role:       "data engineer",
			Experience: "5-10 years",
			Skills:     []string{"Python", "SQL", "Airflow"},
		},
		TopN: 10,
	}
	engine := newTestEngine()

	first, err := engine.Rank(context.Background(), testCatalog(), req)
	require.NoError(t, err)
	require.Len(t, first, 3)

	t.Run("full skill coverage ranks first, no overlap ranks last", func(t *testing.T) {
		assert.Equal(t, "job-1", first[0].Posting.ID)
		assert.Equal(t, "job-2", first[2].Posting.ID)
	})

	t.Run("scores are non-increasing", func(t *testing.T) {
		for i := 1; i < len(first); i++ {
			assert.GreaterOrEqual(t, first[i-1].Score, first[i].Score)
		}
	})

	t.Run("repeat call returns identical results", func(t *testing.T) {
		second, err := engine.Rank(context.Background(), testCatalog(), req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestRankTieBreakPreservesCatalogOrder(t *testing.T) {
	// Two postings indistinguishable by every sub-score.
	catalog := []models.JobPosting{
		{ID: "first", Title: "Go Developer", Skills: []string{"Go"}},
		{ID: "second", Title: "Go Developer", Skills: []string{"Go"}},
	}
	matches, err := newTestEngine().Rank(context.Background(), catalog, Request{
		Profile: models.CandidateProfile{Skills: []string{"go"}},
		TopN:    10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Posting.ID)
	assert.Equal(t, "second", matches[1].Posting.ID)
}

func TestRankSkillPartition(t *testing.T) {
	catalog := []models.JobPosting{{
		ID:     "job-1",
		Title:  "Platform Engineer",
		Skills: []string{"Kubernetes", "Terraform", "Go", "AWS", "  go  ", ""},
	}}
	matches, err := newTestEngine().Rank(context.Background(), catalog, Request{
		Profile: models.CandidateProfile{Skills: []string{"GO", "aws"}},
		TopN:    5,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, []string{"aws", "go"}, m.MatchedSkills)
	assert.Equal(t, []string{"kubernetes", "terraform"}, m.MissingSkills)

	// Matched plus missing always covers the posting's normalized skills.
	assert.Len(t, append(m.MatchedSkills, m.MissingSkills...), 4)
	assert.InDelta(t, 50.0, m.SkillScore, 1e-9)
}

func TestRankTextFallbackWhenNoRequiredSkills(t *testing.T) {
	catalog := []models.JobPosting{
		{ID: "relevant", Title: "Python Backend Developer", Description: "python django rest apis"},
		{ID: "irrelevant", Title: "Warehouse Supervisor", Description: "forklift inventory shifts"},
	}
	matches, err := newTestEngine().Rank(context.Background(), catalog, Request{
		Profile: models.CandidateProfile{Role: "python developer", Skills: []string{"python"}},
		TopN:    5,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "relevant", matches[0].Posting.ID)
	assert.Greater(t, matches[0].SkillScore, matches[1].SkillScore)
}

func TestRankLocationScoring(t *testing.T) {
	engine := newTestEngine()

	t.Run("remote posting matches any preference", func(t *testing.T) {
		catalog := []models.JobPosting{{ID: "r", Title: "Dev", Skills: []string{"Go"}, Location: "Remote", Remote: true}}
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: models.CandidateProfile{Skills: []string{"go"}, PreferredLocations: []string{"Chennai"}},
			TopN:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, matches[0].LocationScore)
	})

	t.Run("empty preference set matches everything", func(t *testing.T) {
		catalog := []models.JobPosting{{ID: "x", Title: "Dev", Skills: []string{"Go"}, Location: "Pune"}}
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: models.CandidateProfile{Skills: []string{"go"}},
			TopN:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, matches[0].LocationScore)
	})

	t.Run("normalized city aliases match", func(t *testing.T) {
		catalog := []models.JobPosting{{ID: "x", Title: "Dev", Skills: []string{"Go"}, Location: "Whitefield, Bengaluru"}}
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: models.CandidateProfile{Skills: []string{"go"}, PreferredLocations: []string{"Bangalore"}},
			TopN:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, matches[0].LocationScore)
	})

	t.Run("mismatch scores zero", func(t *testing.T) {
		catalog := []models.JobPosting{{ID: "x", Title: "Dev", Skills: []string{"Go"}, Location: "Hyderabad"}}
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: models.CandidateProfile{Skills: []string{"go"}, PreferredLocations: []string{"Mumbai"}},
			TopN:    5,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, matches[0].LocationScore)
	})
}

func TestRankCustomWeights(t *testing.T) {
	catalog := []models.JobPosting{
		{ID: "skills-fit", Title: "Data Analyst", Skills: []string{"Python", "SQL"}, Experience: "10+ years", Location: "Delhi"},
		{ID: "location-fit", Title: "Office Manager", Skills: []string{"Excel"}, Experience: "2-5 years", Location: "Mumbai"},
	}
	profile := models.CandidateProfile{
		Experience:         "2-5 years",
		Skills:             []string{"python", "sql"},
		PreferredLocations: []string{"Mumbai"},
	}

	engine := newTestEngine()

	defaults, err := engine.Rank(context.Background(), catalog, Request{Profile: profile, TopN: 5})
	require.NoError(t, err)
	assert.Equal(t, "skills-fit", defaults[0].Posting.ID)

	locationHeavy, err := engine.Rank(context.Background(), catalog, Request{
		Profile: profile,
		TopN:    5,
		Weights: Weights{Skills: 0.1, Experience: 0.1, Location: 0.8},
	})
	require.NoError(t, err)
	assert.Equal(t, "location-fit", locationHeavy[0].Posting.ID)
}

func TestWeightsNormalized(t *testing.T) {
	t.Run("zero value falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultWeights(), Weights{}.normalized())
	})

	t.Run("arbitrary weights sum to one", func(t *testing.T) {
		w := Weights{Skills: 7, Experience: 2, Location: 1}.normalized()
		assert.InDelta(t, 1.0, w.Skills+w.Experience+w.Location, 1e-9)
		assert.InDelta(t, 0.7, w.Skills, 1e-9)
	})
}

func TestRankFilters(t *testing.T) {
	catalog := testCatalog()
	profile := models.CandidateProfile{
		Role:               "data engineer",
		Experience:         "5-10 years",
		Skills:             []string{"Python", "SQL", "Airflow", "Spark"},
		PreferredLocations: []string{"Bangalore"},
	}
	engine := newTestEngine()

	t.Run("min score", func(t *testing.T) {
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: profile,
			TopN:    10,
			Filters: Filters{MinScore: 60},
		})
		require.NoError(t, err)
		for _, m := range matches {
			assert.GreaterOrEqual(t, m.Score, 60)
		}
		assert.Less(t, len(matches), len(catalog))
	})

	t.Run("location only", func(t *testing.T) {
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: profile,
			TopN:    10,
			Filters: Filters{LocationOnly: true},
		})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.Equal(t, 100.0, m.LocationScore)
		}
	})

	t.Run("strong skills only", func(t *testing.T) {
		matches, err := engine.Rank(context.Background(), catalog, Request{
			Profile: profile,
			TopN:    10,
			Filters: Filters{StrongSkillsOnly: true},
		})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.GreaterOrEqual(t, m.SkillScore, 80.0)
		}
	})
}

func TestRankNeutralExperience(t *testing.T) {
	catalog := []models.JobPosting{{
		ID:         "x",
		Title:      "Go Developer",
		Skills:     []string{"Go"},
		Experience: "seasoned professional",
	}}
	matches, err := newTestEngine().Rank(context.Background(), catalog, Request{
		Profile: models.CandidateProfile{Skills: []string{"go"}, Experience: "2-5 years"},
		TopN:    5,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, float64(neutralExperienceScore), matches[0].ExperienceScore)
}
