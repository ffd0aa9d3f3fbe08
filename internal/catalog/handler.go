package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"medcompare-backend/internal/shared/metrics"
	"medcompare-backend/internal/shared/server/respond"
)

// Handler wires catalog HTTP endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	analyses := rg.Group("/analyses")
	analyses.GET("/search", h.search)
	analyses.GET("/suggest", h.suggest)
	analyses.POST("/compare", h.compare)
	analyses.GET("/categories", h.categories)
	analyses.GET("", h.list)
	analyses.GET("/:id", h.get)
}

func (h *Handler) get(c *gin.Context) {
	analysis, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id must be a UUID", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "query is required", nil)
		return
	}
	limit := intQuery(c, "limit", 20, 100)

	metrics.IncSearchRequest()
	result := h.Svc.Search(c.Request.Context(), query, limit)
	respond.OK(c, result)
}

func (h *Handler) suggest(c *gin.Context) {
	query := c.Query("query")
	limit := intQuery(c, "limit", 10, 50)

	metrics.IncSuggestRequest()
	suggestions := h.Svc.Suggest(c.Request.Context(), query, limit)
	respond.OK(c, gin.H{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}

type compareRequest struct {
	AnalysisNames  []string `json:"analysis_names"`
	ProviderFilter []string `json:"provider_filter"`
}

func (h *Handler) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.AnalysisNames) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis_names is required", nil)
		return
	}

	results := h.Svc.Compare(c.Request.Context(), req.AnalysisNames, req.ProviderFilter)
	respond.OK(c, gin.H{
		"results": results,
		"query":   req,
	})
}

func (h *Handler) categories(c *gin.Context) {
	categories, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to aggregate categories", nil)
		return
	}
	respond.OK(c, gin.H{"categories": categories})
}

func (h *Handler) list(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	skip := intQuery(c, "skip", 0, 0)
	limit := intQuery(c, "limit", 50, 100)

	result, err := h.Svc.List(c.Request.Context(), category, skip, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}
	respond.OK(c, result)
}

func intQuery(c *gin.Context, key string, def, max int) int {
	val := def
	if raw := c.Query(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			val = parsed
		}
	}
	if val < 0 {
		val = 0
	}
	if max > 0 && val > max {
		val = max
	}
	return val
}
