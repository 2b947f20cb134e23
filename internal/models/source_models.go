package models

import (
	"encoding/json"
	"time"
)

// SourceJob mirrors a single result from the Adzuna search API.
type SourceJob struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Created     string  `json:"created"`
	RedirectURL string  `json:"redirect_url"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
}

func (j *SourceJob) ToJobPosting() *JobPosting {
	posted, err := time.Parse(time.RFC3339, j.Created)
	if err != nil {
		posted = time.Now().UTC()
	}

	return &JobPosting{
		SourceID:    j.ID,
		Title:       j.Title,
		Company:     j.Company.DisplayName,
		Location:    j.Location.DisplayName,
		Description: j.Description,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		URL:         j.RedirectURL,
		Category:    j.Category.Label,
		PostedAt:    posted,
	}
}

// SourceJobList is cacheable as a single value.
type SourceJobList []SourceJob

func (l SourceJobList) MarshalBinary() ([]byte, error) {
	return json.Marshal(l)
}

func (l *SourceJobList) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, l)
}
