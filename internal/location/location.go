// Package location maps the granular location strings found in scraped
// postings to canonical city names.
package location

import "strings"

// cityKeywords maps a canonical city to area/street substrings that appear
// in raw posting locations, e.g. "Powai Iit, Mumbai" belongs to Mumbai.
var cityKeywords = []struct {
	city     string
	keywords []string
}{
	{"Mumbai", []string{"mumbai", "powai", "goregaon", "andheri", "charni", "prabhadevi", "trombay"}},
	{"Bangalore", []string{"bangalore", "bengaluru", "madivala", "muthusandra"}},
	{"Hyderabad", []string{"hyderabad", "kyasaram"}},
	{"Pune", []string{"pune", "baner", "vadgaon", "hadapsar", "warje"}},
	{"Chennai", []string{"chennai", "injambakkam", "chintadripet", "egmore", "gopalapuram"}},
	{"Delhi", []string{"delhi", "chandni chowk", "timarpur", "lajpat nagar", "sarita vihar", "sansad marg"}},
	{"Remote", []string{"remote", "work from home", "wfh"}},
}

// Normalize returns the canonical city for a raw location string.
// Unrecognized locations fall through to "India" or "Other".
func Normalize(raw string) string {
	loc := strings.ToLower(strings.TrimSpace(raw))
	if loc == "" {
		return "Unknown"
	}

	for _, entry := range cityKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(loc, keyword) {
				return entry.city
			}
		}
	}

	if strings.Contains(loc, "india") {
		return "India"
	}
	return "Other"
}

// IsRemote reports whether a raw location string marks the posting as remote.
func IsRemote(raw string) bool {
	return Normalize(raw) == "Remote"
}
