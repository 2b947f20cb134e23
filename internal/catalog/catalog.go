// Package catalog holds the in-memory posting snapshot the recommendation
// API serves from. Snapshots are immutable; refreshes swap the whole
// snapshot atomically so requests never see a half-loaded catalog.
package catalog

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"jobradar/internal/location"
	"jobradar/internal/models"
)

// Snapshot is one immutable view of the catalog. Never mutate Postings
// after construction.
type Snapshot struct {
	Postings []models.JobPosting
	LoadedAt time.Time
	Source   string
}

func NewSnapshot(postings []models.JobPosting, source string) *Snapshot {
	return &Snapshot{
		Postings: postings,
		LoadedAt: time.Now().UTC(),
		Source:   source,
	}
}

// UniqueSkills returns every distinct lowercase skill across the catalog,
// sorted.
func (s *Snapshot) UniqueSkills() []string {
	seen := make(map[string]bool)
	for _, posting := range s.Postings {
		for _, skill := range posting.Skills {
			if normalized := strings.ToLower(strings.TrimSpace(skill)); normalized != "" {
				seen[normalized] = true
			}
		}
	}
	return sortedKeys(seen)
}

// UniqueLocations returns the canonical cities present in the catalog.
// Catch-all buckets are excluded; they are not useful as preferences.
func (s *Snapshot) UniqueLocations() []string {
	seen := make(map[string]bool)
	for _, posting := range s.Postings {
		city := location.Normalize(posting.Location)
		switch city {
		case "Other", "Unknown", "India":
			continue
		}
		seen[city] = true
	}
	return sortedKeys(seen)
}

func (s *Snapshot) UniqueCompanies() []string {
	seen := make(map[string]bool)
	for _, posting := range s.Postings {
		if company := strings.TrimSpace(posting.Company); company != "" {
			seen[company] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store publishes the current snapshot to concurrent readers.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewSnapshot(nil, "empty"))
	return s
}

func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

func (s *Store) Swap(snapshot *Snapshot) {
	s.current.Store(snapshot)
}
