// Package recommend ranks job postings against a candidate profile using
// TF-IDF text similarity blended with experience and location sub-scores.
package recommend

import (
	"context"
	"math"
	"sort"
	"strings"

	"jobradar/common/telemetry"
	"jobradar/internal/errors"
	"jobradar/internal/location"
	"jobradar/internal/models"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxTopN bounds the work done for a single ranking request.
const MaxTopN = 50

// Weights controls the composite blend. The zero value means "use
// defaults"; any other value is renormalized so the components sum to 1.
type Weights struct {
	Skills     float64
	Experience float64
	Location   float64
}

func DefaultWeights() Weights {
	return Weights{Skills: 0.70, Experience: 0.20, Location: 0.10}
}

func (w Weights) normalized() Weights {
	sum := w.Skills + w.Experience + w.Location
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Skills:     w.Skills / sum,
		Experience: w.Experience / sum,
		Location:   w.Location / sum,
	}
}

// Filters are optional pre-filters applied before sorting and truncation.
// Each is independently toggleable by the caller.
type Filters struct {
	// MinScore drops postings whose composite score is below the threshold.
	MinScore int
	// LocationOnly keeps only postings with a full location match.
	LocationOnly bool
	// StrongSkillsOnly keeps only postings with a skill sub-score of 80+.
	StrongSkillsOnly bool
}

// Request is one ranking request: a profile plus result shaping options.
type Request struct {
	Profile models.CandidateProfile
	TopN    int
	Weights Weights
	Filters Filters
}

// Match is one ranked posting with its score breakdown. MatchedSkills and
// MissingSkills always partition the posting's normalized skill list.
type Match struct {
	Posting         models.JobPosting `json:"posting"`
	Score           int               `json:"match_score"`
	SkillScore      float64           `json:"skill_match"`
	ExperienceScore float64           `json:"experience_match"`
	LocationScore   float64           `json:"location_match"`
	MatchedSkills   []string          `json:"matched_skills"`
	MissingSkills   []string          `json:"missing_skills"`
}

// Engine ranks catalog snapshots. It holds no mutable state: Rank is a pure
// function of its inputs and is safe to call concurrently.
type Engine struct {
	logger *zap.Logger
	tracer trace.Tracer
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		tracer: telemetry.GetTracer("jobradar/recommend"),
	}
}

// Rank scores every posting in the snapshot against the profile, applies
// the request filters, and returns up to TopN matches sorted by composite
// score. The postings slice is never mutated. An empty catalog yields an
// empty result, not an error.
func (e *Engine) Rank(ctx context.Context, postings []models.JobPosting, req Request) ([]Match, error) {
	_, span := e.tracer.Start(ctx, "Engine.Rank")
	defer span.End()

	if req.TopN <= 0 {
		return nil, errors.InvalidInput("top_n must be positive", nil)
	}
	topN := req.TopN
	if topN > MaxTopN {
		topN = MaxTopN
	}

	profileSkills := normalizeSkills(req.Profile.Skills)
	profileBand, profileBandKnown := bandIndex(req.Profile.Experience)
	preferred := normalizeLocations(req.Profile.PreferredLocations)

	if len(profileSkills) == 0 && strings.TrimSpace(req.Profile.Role) == "" &&
		!profileBandKnown && len(preferred) == 0 {
		return nil, errors.InvalidInput("profile has no skills, role, experience, or locations to rank on", nil)
	}

	if !profileBandKnown && strings.TrimSpace(req.Profile.Experience) != "" {
		e.logger.Warn("unknown candidate experience band, using neutral score",
			zap.String("experience", req.Profile.Experience))
	}

	span.SetAttributes(telemetry.Int("catalog.size", len(postings)))

	if len(postings) == 0 {
		return []Match{}, nil
	}

	sims := e.similarities(postings, req.Profile, profileSkills)
	weights := req.Weights.normalized()
	profileSet := make(map[string]bool, len(profileSkills))
	for _, s := range profileSkills {
		profileSet[s] = true
	}

	unknownBands := 0
	matches := make([]Match, 0, len(postings))

	for i := range postings {
		posting := &postings[i]
		matched, missing := partitionSkills(posting.Skills, profileSet)

		skillScore := sims[i] * 100
		if len(matched)+len(missing) > 0 {
			skillScore = 100 * float64(len(matched)) / float64(len(matched)+len(missing))
		}

		postingBand, postingBandKnown := bandIndex(posting.Experience)
		if !postingBandKnown && strings.TrimSpace(posting.Experience) != "" {
			unknownBands++
		}
		expScore := experienceScore(profileBand, postingBand, profileBandKnown, postingBandKnown)
		locScore := locationScore(posting, preferred)

		raw := weights.Skills*skillScore + weights.Experience*expScore + weights.Location*locScore
		score := int(math.Round(raw))
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		match := Match{
			Posting:         *posting,
			Score:           score,
			SkillScore:      skillScore,
			ExperienceScore: expScore,
			LocationScore:   locScore,
			MatchedSkills:   matched,
			MissingSkills:   missing,
		}
		if !keep(match, req.Filters) {
			continue
		}
		matches = append(matches, match)
	}

	if unknownBands > 0 {
		e.logger.Warn("postings with unrecognized experience band scored neutrally",
			zap.Int("count", unknownBands))
	}

	// Composite descending, then skill sub-score descending; the stable
	// sort preserves catalog order for full ties so identical requests
	// always produce identical output.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].SkillScore > matches[j].SkillScore
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}

	span.SetAttributes(telemetry.Int("results.count", len(matches)))
	return matches, nil
}

// similarities computes the TF-IDF cosine similarity of every posting
// against the candidate document. An empty candidate document short-circuits
// to all zeros rather than producing NaNs.
func (e *Engine) similarities(postings []models.JobPosting, profile models.CandidateProfile, profileSkills []string) []float64 {
	candidateDoc := strings.TrimSpace(strings.Join(profileSkills, " ") + " " + profile.Role)
	if len(tokenize(candidateDoc)) == 0 {
		return make([]float64, len(postings))
	}

	docs := make([]string, len(postings))
	for i, p := range postings {
		docs[i] = p.Title + " " + strings.Join(p.Skills, " ") + " " + p.Description
	}
	return textSimilarities(docs, candidateDoc)
}

func keep(m Match, f Filters) bool {
	if f.MinScore > 0 && m.Score < f.MinScore {
		return false
	}
	if f.LocationOnly && m.LocationScore < 100 {
		return false
	}
	if f.StrongSkillsOnly && m.SkillScore < 80 {
		return false
	}
	return true
}

// locationScore is all-or-nothing: a remote posting or one matching any
// preferred location scores 100, anything else 0. An empty preference set
// matches every posting.
func locationScore(posting *models.JobPosting, preferred []string) float64 {
	if posting.Remote || location.IsRemote(posting.Location) {
		return 100
	}
	if len(preferred) == 0 {
		return 100
	}

	jobLoc := strings.ToLower(posting.Location)
	jobCity := location.Normalize(posting.Location)
	for _, pref := range preferred {
		if strings.Contains(jobLoc, pref) {
			return 100
		}
		if city := location.Normalize(pref); city != "Other" && city != "Unknown" && city == jobCity {
			return 100
		}
	}
	return 0
}

// partitionSkills splits a posting's skill list into the subset the profile
// covers and the subset it is missing. Both halves are normalized, sorted,
// and together always equal the normalized skill list.
func partitionSkills(required []string, profileSet map[string]bool) (matched, missing []string) {
	for _, skill := range normalizeSkills(required) {
		if profileSet[skill] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	result := make([]string, 0, len(skills))
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
	}
	return result
}

func normalizeLocations(locations []string) []string {
	result := make([]string, 0, len(locations))
	for _, loc := range locations {
		if l := strings.ToLower(strings.TrimSpace(loc)); l != "" {
			result = append(result, l)
		}
	}
	return result
}
