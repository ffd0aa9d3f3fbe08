package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"medcompare-backend/internal/catalog"
	"medcompare-backend/internal/importer"
	"medcompare-backend/internal/ocr"
	"medcompare-backend/internal/providers"
	"medcompare-backend/internal/shared/config"
	"medcompare-backend/internal/shared/server"
	"medcompare-backend/internal/shared/storage/db"
	"medcompare-backend/internal/shared/storage/object"
	localstore "medcompare-backend/internal/shared/storage/object/local"
	s3store "medcompare-backend/internal/shared/storage/object/s3"
	"medcompare-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Archive object.ObjectStore

	CatalogRepo   catalog.Repo
	ProviderRepo  providers.Repo
	ImportLogRepo importer.LogRepo

	CatalogService  *catalog.Service
	ProviderService *providers.Service
	ImportService   *importer.Service
	OCRService      *ocr.Service

	CatalogHandler  *catalog.Handler
	ProviderHandler *providers.Handler
	ImportHandler   *importer.Handler
	OCRHandler      *ocr.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ArchiveStoreType) == "" {
		cfg.ArchiveStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Archive: archive,
	}

	buildServices(ctx, app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		CatalogHandler:  app.CatalogHandler,
		ProviderHandler: app.ProviderHandler,
		ImportHandler:   app.ImportHandler,
		OCRHandler:      app.OCRHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArchiveStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "none":
		return nil, nil
	default:
		return localstore.New(cfg.ArchiveDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) {
	var catalogRepo catalog.Repo
	var providerRepo providers.Repo
	var logRepo importer.LogRepo

	if app.DB != nil {
		catalogRepo = &catalog.PGRepo{DB: app.DB}
		providerRepo = &providers.PGRepo{DB: app.DB}
		logRepo = &importer.PGLogRepo{DB: app.DB}
	} else {
		catalogRepo = catalog.NewMemoryRepo()
		providerRepo = providers.NewMemoryRepo()
		logRepo = importer.NewMemoryLogRepo()
	}

	terms := loadReferenceTerms(app.Config.ReferenceDataPath)

	catalogSvc := &catalog.Service{Repo: catalogRepo, Terms: terms}
	providerSvc := &providers.Service{Repo: providerRepo}
	importSvc := &importer.Service{Catalog: catalogRepo, Logs: logRepo}

	var recognizer ocr.Recognizer
	if url := strings.TrimSpace(app.Config.OCRServiceURL); url != "" {
		recognizer = ocr.NewHTTPClient(url, app.Config.OCRLanguages)
	}
	ocrSvc := &ocr.Service{Client: recognizer}

	providers.EnsureDefaults(ctx, providerRepo)

	app.CatalogRepo = catalogRepo
	app.ProviderRepo = providerRepo
	app.ImportLogRepo = logRepo
	app.CatalogService = catalogSvc
	app.ProviderService = providerSvc
	app.ImportService = importSvc
	app.OCRService = ocrSvc
	app.CatalogHandler = catalog.NewHandler(catalogSvc)
	app.ProviderHandler = providers.NewHandler(providerSvc)
	app.ImportHandler = importer.NewHandler(importSvc, catalogSvc, providerSvc, app.Archive)
	app.OCRHandler = ocr.NewHandler(ocrSvc)
}

func loadReferenceTerms(path string) []catalog.ReferenceTerm {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	terms, err := catalog.LoadReferenceTerms(path)
	if err != nil {
		telemetry.Warn("bootstrap.reference_data_fallback", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	return terms
}
