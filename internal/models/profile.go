package models

// CandidateProfile is the per-request input to the recommendation engine.
// It is never persisted.
type CandidateProfile struct {
	Role               string   `json:"role"`
	Experience         string   `json:"experience"`
	Skills             []string `json:"skills"`
	PreferredLocations []string `json:"preferred_locations"`
}
