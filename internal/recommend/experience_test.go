package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandIndex(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		band  int
		known bool
	}{
		{"canonical entry band", "0-2 years", 0, true},
		{"canonical mid band", "2-5 years", 1, true},
		{"canonical senior band", "5-10 years", 2, true},
		{"canonical top band", "10+ years", 3, true},
		{"bare number below two", "1 year", 0, true},
		{"bare number mid", "minimum 3 years", 1, true},
		{"bare number senior", "7+ yrs experience", 2, true},
		{"large number", "12 years", 3, true},
		{"fresher keyword", "Fresher", 0, true},
		{"entry keyword", "Entry Level", 0, true},
		{"mid keyword", "Mid-level", 1, true},
		{"senior keyword", "Senior Engineer", 2, true},
		{"architect keyword", "Solutions Architect", 2, true},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"unrecognized", "seasoned professional", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, known := bandIndex(tt.raw)
			assert.Equal(t, tt.known, known)
			if tt.known {
				assert.Equal(t, tt.band, band)
			}
		})
	}
}

func TestExperienceScore(t *testing.T) {
	t.Run("distance scale covers the whole taxonomy", func(t *testing.T) {
		assert.Equal(t, 3, maxBandDistance)
		assert.Equal(t, len(experienceBands)-1, maxBandDistance)
	})

	t.Run("same band is a full match", func(t *testing.T) {
		assert.Equal(t, 100.0, experienceScore(1, 1, true, true))
	})

	t.Run("score decays linearly with band distance", func(t *testing.T) {
		assert.InDelta(t, 66.67, experienceScore(0, 1, true, true), 0.01)
		assert.InDelta(t, 33.33, experienceScore(0, 2, true, true), 0.01)
		assert.Equal(t, 0.0, experienceScore(0, 3, true, true))
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		assert.Equal(t, experienceScore(0, 2, true, true), experienceScore(2, 0, true, true))
	})

	t.Run("unknown bands score neutrally", func(t *testing.T) {
		assert.Equal(t, float64(neutralExperienceScore), experienceScore(0, 0, false, true))
		assert.Equal(t, float64(neutralExperienceScore), experienceScore(0, 0, true, false))
		assert.Equal(t, float64(neutralExperienceScore), experienceScore(0, 0, false, false))
	})
}
