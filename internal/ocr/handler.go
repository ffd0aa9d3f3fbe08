package ocr

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"medcompare-backend/internal/shared/metrics"
	"medcompare-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires OCR endpoints to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches OCR routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/ocr")
	group.POST("/process", h.process)
	group.POST("/extract-text", h.extractText)
}

func (h *Handler) process(c *gin.Context) {
	text, ok := h.extract(c)
	if !ok {
		return
	}
	respond.OK(c, h.Svc.Process(text))
}

func (h *Handler) extractText(c *gin.Context) {
	text, ok := h.extract(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"text": text})
}

func (h *Handler) extract(c *gin.Context) (string, bool) {
	metrics.IncOCRRequest()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image is required", nil)
		return "", false
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read image", nil)
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read image", nil)
		return "", false
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	text, err := h.Svc.ExtractText(c.Request.Context(), data, mimeType, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, ErrOCRUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "ocr_unavailable", "image recognition is not configured", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "ocr_failed", "text extraction failed", err.Error())
		}
		return "", false
	}
	return text, true
}
