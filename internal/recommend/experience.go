package recommend

import (
	"regexp"
	"strconv"
	"strings"
)

// experienceBands is the ordered band taxonomy shared by postings and
// profiles. Band index is ordinal; distance between indexes drives the
// experience sub-score.
var experienceBands = []string{
	"0-2 years",
	"2-5 years",
	"5-10 years",
	"10+ years",
}

var maxBandDistance = len(experienceBands) - 1

var digitPattern = regexp.MustCompile(`\d+`)

// bandIndex resolves a free-form experience string to a band index.
// It accepts canonical bands ("2-5 years"), bare numbers ("minimum 3"),
// and seniority keywords. Returns false for anything it cannot place.
func bandIndex(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	if match := digitPattern.FindString(s); match != "" {
		years, err := strconv.Atoi(match)
		if err == nil {
			switch {
			case years < 2:
				return 0, true
			case years < 5:
				return 1, true
			case years < 10:
				return 2, true
			default:
				return 3, true
			}
		}
	}

	switch {
	case strings.Contains(s, "fresher"), strings.Contains(s, "entry"),
		strings.Contains(s, "junior"), strings.Contains(s, "intern"):
		return 0, true
	case strings.Contains(s, "mid"), strings.Contains(s, "intermediate"):
		return 1, true
	case strings.Contains(s, "senior"), strings.Contains(s, "lead"),
		strings.Contains(s, "principal"), strings.Contains(s, "architect"):
		return 2, true
	}

	return 0, false
}

// experienceScore scores band proximity on a 0-100 scale: same band is 100,
// each band of distance decays linearly to 0. Either side being outside the
// taxonomy yields the neutral score.
func experienceScore(profileBand, postingBand int, profileKnown, postingKnown bool) float64 {
	if !profileKnown || !postingKnown {
		return neutralExperienceScore
	}
	distance := profileBand - postingBand
	if distance < 0 {
		distance = -distance
	}
	score := 100 * (1 - float64(distance)/float64(maxBandDistance))
	if score < 0 {
		return 0
	}
	return score
}

// neutralExperienceScore is used when a band is missing or malformed;
// data-quality problems must not zero out a posting.
const neutralExperienceScore = 50
