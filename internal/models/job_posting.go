package models

import (
	"encoding/json"
	"time"
)

// JobPosting is a single catalog record. Postings are immutable once built;
// the catalog is rebuilt wholesale on each refresh.
type JobPosting struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	Experience  string    `json:"experience"`
	SalaryMin   float64   `json:"salary_min"`
	SalaryMax   float64   `json:"salary_max"`
	Currency    string    `json:"currency"`
	Remote      bool      `json:"remote"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	PostedAt    time.Time `json:"posted_at"`
}

func (p JobPosting) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *JobPosting) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}
