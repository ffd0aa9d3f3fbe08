package providers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medcompare-backend/internal/shared/server/respond"
)

// Handler wires provider HTTP endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches provider routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/providers")
	group.GET("", h.list)
	group.GET("/:slug", h.get)
	group.POST("", h.create)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, h.Svc.List(c.Request.Context()))
}

func (h *Handler) get(c *gin.Context) {
	provider, err := h.Svc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "provider not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch provider", nil)
		}
		return
	}
	respond.OK(c, provider)
}

func (h *Handler) create(c *gin.Context) {
	var req Provider
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	created, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "name and a lowercase slug are required", nil)
		case errors.Is(err, ErrDuplicateSlug):
			respond.Error(c, http.StatusBadRequest, "duplicate_slug", "provider with this slug already exists", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create provider", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, created)
}
