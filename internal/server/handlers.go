// Package server exposes the recommendation engine and catalog over HTTP.
package server

import (
	"net/http"
	"strconv"
	"strings"

	"jobradar/common/telemetry"
	"jobradar/internal/catalog"
	"jobradar/internal/errors"
	"jobradar/internal/location"
	"jobradar/internal/models"
	"jobradar/internal/recommend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("jobradar/server")

const defaultTopN = 10

type Handler struct {
	logger  *zap.Logger
	engine  *recommend.Engine
	catalog *catalog.Store
}

func NewHandler(logger *zap.Logger, engine *recommend.Engine, store *catalog.Store) *Handler {
	return &Handler{
		logger:  logger,
		engine:  engine,
		catalog: store,
	}
}

func (h *Handler) Recommendations(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Handler.Recommendations")
	defer span.End()

	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	topN := defaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	engineReq := recommend.Request{
		Profile: models.CandidateProfile{
			Role:               req.Role,
			Experience:         req.Experience,
			Skills:             req.Skills,
			PreferredLocations: req.PreferredLocations,
		},
		TopN: topN,
	}
	if req.Weights != nil {
		engineReq.Weights = recommend.Weights{
			Skills:     req.Weights.Skills,
			Experience: req.Weights.Experience,
			Location:   req.Weights.Location,
		}
	}
	if req.Filters != nil {
		engineReq.Filters = recommend.Filters{
			MinScore:         req.Filters.MinScore,
			LocationOnly:     req.Filters.LocationOnly,
			StrongSkillsOnly: req.Filters.StrongSkillsOnly,
		}
	}

	snapshot := h.catalog.Current()
	matches, err := h.engine.Rank(ctx, snapshot.Postings, engineReq)
	if err != nil {
		span.RecordError(err)
		if errors.IsType(err, errors.ErrTypeInvalidInput) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("recommendation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, recommendationResponse{
		Count:   len(matches),
		Results: matches,
	})
}

// Jobs lists the current catalog, optionally filtered by canonical city
// and capped by limit.
func (h *Handler) Jobs(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "Handler.Jobs")
	defer span.End()

	snapshot := h.catalog.Current()
	postings := snapshot.Postings

	if city := strings.TrimSpace(c.Query("location")); city != "" {
		filtered := make([]models.JobPosting, 0, len(postings))
		for _, p := range postings {
			if strings.EqualFold(location.Normalize(p.Location), location.Normalize(city)) {
				filtered = append(filtered, p)
			}
		}
		postings = filtered
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		if len(postings) > limit {
			postings = postings[:limit]
		}
	}

	c.JSON(http.StatusOK, jobsResponse{
		Count:   len(postings),
		Results: postings,
	})
}

func (h *Handler) Skills(c *gin.Context) {
	skills := h.catalog.Current().UniqueSkills()
	c.JSON(http.StatusOK, metaResponse{Count: len(skills), Values: skills})
}

func (h *Handler) Locations(c *gin.Context) {
	locations := h.catalog.Current().UniqueLocations()
	c.JSON(http.StatusOK, metaResponse{Count: len(locations), Values: locations})
}

func (h *Handler) Health(c *gin.Context) {
	snapshot := h.catalog.Current()
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		CatalogSource: snapshot.Source,
		CatalogSize:   len(snapshot.Postings),
		LoadedAt:      snapshot.LoadedAt,
	})
}
