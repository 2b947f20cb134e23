package server

import (
	"time"

	"jobradar/internal/recommend"
)

type weightsRequest struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Location   float64 `json:"location"`
}

type filtersRequest struct {
	MinScore         int  `json:"min_score"`
	LocationOnly     bool `json:"location_only"`
	StrongSkillsOnly bool `json:"strong_skills_only"`
}

type recommendationRequest struct {
	Role               string          `json:"role"`
	Experience         string          `json:"experience"`
	Skills             []string        `json:"skills"`
	PreferredLocations []string        `json:"preferred_locations"`
	TopN               *int            `json:"top_n"`
	Weights            *weightsRequest `json:"weights"`
	Filters            *filtersRequest `json:"filters"`
}

type recommendationResponse struct {
	Count   int               `json:"count"`
	Results []recommend.Match `json:"results"`
}

type jobsResponse struct {
	Count   int         `json:"count"`
	Results interface{} `json:"results"`
}

type metaResponse struct {
	Count  int      `json:"count"`
	Values []string `json:"values"`
}

type healthResponse struct {
	Status        string    `json:"status"`
	CatalogSource string    `json:"catalog_source"`
	CatalogSize   int       `json:"catalog_size"`
	LoadedAt      time.Time `json:"loaded_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
