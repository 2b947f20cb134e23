// Package parser enriches scraped postings before storage: deterministic
// IDs, skill extraction, experience banding, salary and remote detection.
package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"jobradar/internal/models"

	"github.com/google/uuid"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	dashPattern       = regexp.MustCompile(`[\x{2013}\x{2014}\x{2015}]`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)

	skillsLinePattern = regexp.MustCompile(`(?i)(?:skills|technologies|tech stack|requirements):\s*([^.\n|]+)`)
	yearsPattern      = regexp.MustCompile(`(?i)(\d+)\s*(?:\+\s*)?(?:-\s*(\d+)\s*)?(?:years?|yrs?|yoe)`)
	lakhSalaryPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?\s*)?(\d+(?:\.\d+)?)\s*(?:-|to)\s*(?:₹|rs\.?\s*)?(\d+(?:\.\d+)?)\s*(?:lpa|lakhs?)`)
	remotePattern     = regexp.MustCompile(`(?i)\b(remote|wfh|work[- ]from[- ]home)\b`)
)

// commonSkills is matched as whole words against the title and description.
// Multi-token entries like "machine learning" are matched as substrings.
var commonSkills = []string{
	"python", "javascript", "typescript", "java", "golang", "ruby", "php",
	"c++", "c#", "scala", "kotlin", "swift", "rust",
	"react", "angular", "vue", "node", "django", "flask", "spring",
	"fastapi", "express", "rails", "laravel",
	"aws", "azure", "gcp", "kubernetes", "docker", "terraform", "ansible",
	"jenkins", "git", "linux",
	"sql", "mongodb", "postgresql", "mysql", "redis", "elasticsearch",
	"kafka", "spark", "hadoop", "airflow",
	"machine learning", "deep learning", "nlp", "tensorflow", "pytorch",
	"pandas", "numpy", "data analysis",
	"rest", "graphql", "grpc", "microservices", "ci/cd", "agile",
	"html", "css", "sass", "selenium", "cypress",
}

func generateUUIDFromID(id string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(id)).String()
}

// ParseJobPosting decodes a scraped posting and fills in the fields the
// source API does not provide directly. Parsing is deterministic: the same
// raw message always yields the same posting, ID included.
func ParseJobPosting(rawData []byte) (*models.JobPosting, error) {
	var posting models.JobPosting
	if err := json.Unmarshal(rawData, &posting); err != nil {
		return nil, err
	}

	posting.ID = generateUUIDFromID(posting.SourceID)
	posting.Description = normalizeText(posting.Description)

	searchText := posting.Title + " " + posting.Description

	if len(posting.Skills) == 0 {
		posting.Skills = extractSkills(searchText)
	}
	if posting.Experience == "" {
		posting.Experience = extractExperienceBand(searchText)
	}
	if posting.SalaryMin == 0 && posting.SalaryMax == 0 {
		posting.SalaryMin, posting.SalaryMax = extractSalary(posting.Description)
	}
	if posting.Currency == "" {
		posting.Currency = "INR"
	}
	if !posting.Remote {
		posting.Remote = remotePattern.MatchString(posting.Location) ||
			remotePattern.MatchString(posting.Title)
	}

	return &posting, nil
}

func normalizeText(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = dashPattern.ReplaceAllString(text, "-")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// extractSkills combines an explicit "skills:" line, when present, with
// whole-word matches against the known-skill table. Output is lowercase,
// deduplicated, in discovery order.
func extractSkills(text string) []string {
	var skills []string
	if matches := skillsLinePattern.FindStringSubmatch(text); len(matches) > 1 {
		for _, part := range strings.Split(matches[1], ",") {
			skills = append(skills, part)
		}
	}

	textLower := strings.ToLower(text)
	for _, skill := range commonSkills {
		if containsSkill(textLower, skill) {
			skills = append(skills, skill)
		}
	}

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

// containsSkill does a word-boundary match so "java" does not fire on
// "javascript". Skills containing non-letter runes fall back to plain
// substring matching.
func containsSkill(textLower, skill string) bool {
	if strings.ContainsAny(skill, "+#/. ") {
		return strings.Contains(textLower, skill)
	}
	idx := 0
	for {
		pos := strings.Index(textLower[idx:], skill)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(skill)
		beforeOK := start == 0 || !isWordRune(textLower[start-1])
		afterOK := end == len(textLower) || !isWordRune(textLower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// extractExperienceBand maps free-form experience text to a canonical band.
// Ranges take their minimum; keyword seniority is the fallback.
func extractExperienceBand(text string) string {
	if matches := yearsPattern.FindStringSubmatch(text); len(matches) > 1 {
		years, err := strconv.Atoi(matches[1])
		if err == nil {
			switch {
			case years < 2:
				return "0-2 years"
			case years < 5:
				return "2-5 years"
			case years < 10:
				return "5-10 years"
			default:
				return "10+ years"
			}
		}
	}

	textLower := strings.ToLower(text)
	switch {
	case strings.Contains(textLower, "fresher"), strings.Contains(textLower, "entry level"),
		strings.Contains(textLower, "junior"), strings.Contains(textLower, "intern"):
		return "0-2 years"
	case strings.Contains(textLower, "senior"), strings.Contains(textLower, "lead"),
		strings.Contains(textLower, "principal"):
		return "5-10 years"
	}
	return ""
}

// extractSalary understands the "12-18 LPA" convention common in Indian
// postings and converts lakhs per annum to absolute rupees.
func extractSalary(text string) (float64, float64) {
	matches := lakhSalaryPattern.FindStringSubmatch(text)
	if len(matches) < 3 {
		return 0, 0
	}
	low, errLow := strconv.ParseFloat(matches[1], 64)
	high, errHigh := strconv.ParseFloat(matches[2], 64)
	if errLow != nil || errHigh != nil {
		return 0, 0
	}
	return low * 100000, high * 100000
}
