package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcompare-backend/internal/catalog"
	"medcompare-backend/internal/importer"
	"medcompare-backend/internal/ocr"
	"medcompare-backend/internal/providers"
	"medcompare-backend/internal/shared/config"
	"medcompare-backend/internal/shared/metrics"
	"medcompare-backend/internal/shared/server/middleware"
	"medcompare-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	CatalogHandler  *catalog.Handler
	ProviderHandler *providers.Handler
	ImportHandler   *importer.Handler
	OCRHandler      *ocr.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api)
	}
	if deps.ProviderHandler != nil {
		deps.ProviderHandler.RegisterRoutes(api)
	}
	if deps.ImportHandler != nil {
		deps.ImportHandler.RegisterRoutes(api)
	}
	if deps.OCRHandler != nil {
		deps.OCRHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimits keeps the suggest endpoint responsive while throttling the
// expensive upload paths harder.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case path == "/api/v1/analyses/suggest" || path == "/api/v1/analyses/search":
				return "LOOKUP"
			case path == "/api/v1/admin/import" || path == "/api/v1/admin/import/preview":
				return "UPLOAD"
			case path == "/api/v1/ocr/process" || path == "/api/v1/ocr/extract-text":
				return "UPLOAD"
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 10, Burst: 30},
			"LOOKUP":  {Rate: 25, Burst: 50},
			"UPLOAD":  {Rate: 1, Burst: 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
