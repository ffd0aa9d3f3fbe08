package importer

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medcompare-backend/internal/catalog"
	"medcompare-backend/internal/importer/tabular"
	"medcompare-backend/internal/providers"
	"medcompare-backend/internal/shared/server/respond"
	"medcompare-backend/internal/shared/storage/object"
	"medcompare-backend/internal/shared/telemetry"
)

const maxErrorDetails = 10

// Handler wires admin ingestion endpoints to the import service.
// Archive is optional; when set, every accepted upload is stored for
// audit and its key recorded on the import log.
type Handler struct {
	Svc       *Service
	Catalog   *catalog.Service
	Providers *providers.Service
	Archive   object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, catalogSvc *catalog.Service, providerSvc *providers.Service, archive object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Catalog: catalogSvc, Providers: providerSvc, Archive: archive}
}

// RegisterRoutes attaches admin routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.POST("/import", h.runImport)
	admin.POST("/import/preview", h.preview)
	admin.GET("/import/history", h.history)
	admin.DELETE("/data", h.wipe)
}

func (h *Handler) runImport(c *gin.Context) {
	providerSlug := strings.TrimSpace(c.PostForm("provider"))
	if providerSlug == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "provider is required", nil)
		return
	}

	// Unknown providers are accepted so new labs can be imported before
	// they are registered, but the mismatch is worth a warning.
	if h.Providers != nil {
		if _, ok := h.Providers.KnownSlugs(c.Request.Context())[providerSlug]; !ok {
			telemetry.Warn("import.unknown_provider", map[string]any{"provider": providerSlug})
		}
	}

	mapping, err := ParseFieldMapping(c.PostForm("field_mapping"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	table, err := tabular.Read(filename, data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	archiveKey := h.archive(c, providerSlug, filename, data)
	result := h.Svc.Run(c.Request.Context(), providerSlug, filename, archiveKey, mapping, table.Rows)

	details := result.Errors
	if len(details) > maxErrorDetails {
		details = details[:maxErrorDetails]
	}
	respond.OK(c, gin.H{
		"message":            "Import completed",
		"total_records":      result.TotalRecords,
		"successful_imports": result.SuccessfulImports,
		"errors":             len(result.Errors),
		"error_details":      details,
	})
}

func (h *Handler) preview(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	preview, err := tabular.BuildPreview(filename, data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.OK(c, preview)
}

func (h *Handler) history(c *gin.Context) {
	logs, err := h.Svc.History(c.Request.Context(), 50)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list import history", nil)
		return
	}
	respond.OK(c, gin.H{"imports": logs})
}

const wipeConfirmation = "DELETE_ALL_DATA"

func (h *Handler) wipe(c *gin.Context) {
	if c.Query("confirm") != wipeConfirmation {
		respond.Error(c, http.StatusBadRequest, "validation_error", "must provide confirmation", nil)
		return
	}
	deleted, err := h.Catalog.Wipe(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear data", nil)
		return
	}
	respond.OK(c, gin.H{"message": "deleted all analyses", "deleted": deleted})
}

// readUpload pulls the multipart file out of the request, bounded a little
// above the parser's own ceiling so oversize uploads fail with the
// descriptive tabular error instead of a broken connection.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, tabular.MaxFileSize+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return "", nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, tabular.MaxFileSize+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

func (h *Handler) archive(c *gin.Context, providerSlug, filename string, data []byte) string {
	if h.Archive == nil {
		return ""
	}
	key, _, _, err := h.Archive.Save(c.Request.Context(), providerSlug, filename, bytes.NewReader(data))
	if err != nil {
		telemetry.Error("import.archive_failed", map[string]any{
			"provider": providerSlug,
			"filename": filename,
			"error":    err.Error(),
		})
		return ""
	}
	return key
}
