package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"waranalyzer-backend/internal/reports"
	"waranalyzer-backend/internal/services/health"
	"waranalyzer-backend/internal/shared/config"
	"waranalyzer-backend/internal/shared/metrics"
	"waranalyzer-backend/internal/shared/server/middleware"
	"waranalyzer-backend/internal/shared/server/respond"
	"waranalyzer-backend/internal/shared/storage/db"
	"waranalyzer-backend/internal/shared/storage/object"
	"waranalyzer-backend/internal/shared/storage/object/local"
	"waranalyzer-backend/internal/shared/storage/object/s3"
	"waranalyzer-backend/internal/shared/telemetry"
	"waranalyzer-backend/internal/tasks"
)

// NewRouter wires middleware, storage, and routes into a gin engine.
func NewRouter(cfg config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	registry := tasks.NewRegistry()
	repo := buildReportRepo(cfg)
	store := buildObjectStore(cfg)

	reportSvc := &reports.Service{Repo: repo, Store: store}
	var sink tasks.ResultSink
	if store != nil {
		sink = reportSvc
	}

	runner := tasks.NewRunner(registry, sink, cfg.PaceScale)
	taskHandler := tasks.NewHandler(registry, runner, cfg.TempDir)

	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, health.Check())
	})
	r.GET("/api/info", apiInfo)
	r.GET("/metrics", metrics.Handler())

	submitLimiter := middleware.NewRateLimiter(nil)
	submitRule := middleware.RateLimitRule{Rate: cfg.SubmitRate, Burst: cfg.SubmitBurst}
	taskHandler.RegisterRoutes(r, middleware.RateLimit(submitRule, submitLimiter))

	api := r.Group("/api/v1")
	reports.NewHandler(reportSvc).RegisterRoutes(api)

	return r
}

// Addr formats the listen address for the given port.
func Addr(port string) string {
	return ":" + port
}

func apiInfo(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"service":     "WAR Analyzer",
		"version":     "1.0.0",
		"description": "Spring MVC WAR archive analysis with COBOL-to-Java specific insights",
		"endpoints": gin.H{
			"analyze": "POST /analyze",
			"status":  "GET /status/{task_id}",
			"health":  "GET /health",
			"info":    "GET /api/info",
			"reports": "GET /api/v1/reports",
		},
	})
}

// buildReportRepo prefers Postgres when DATABASE_URL is set and reachable,
// falling back to the in-memory repo otherwise.
func buildReportRepo(cfg config.Config) reports.Repo {
	if cfg.DatabaseURL == "" {
		telemetry.Info("reports.repo", map[string]any{"backend": "memory"})
		return reports.NewMemoryRepo()
	}

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		telemetry.Error("reports.db_unavailable", map[string]any{"err": err.Error()})
		return reports.NewMemoryRepo()
	}
	if err := db.RunMigrations(pool); err != nil {
		telemetry.Error("reports.migrate_failed", map[string]any{"err": err.Error()})
		pool.Close()
		return reports.NewMemoryRepo()
	}
	telemetry.Info("reports.repo", map[string]any{"backend": "postgres"})
	return &reports.PGRepo{DB: pool}
}

// buildObjectStore returns nil when no store can be constructed; report
// archival is then disabled and logged.
func buildObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3.NewStore(context.Background(), s3.Options{
			Region:      cfg.AWSRegion,
			Bucket:      cfg.S3Bucket,
			Prefix:      cfg.S3Prefix,
			SSEKMSKeyID: cfg.SSEKMSKeyID,
		})
		if err != nil {
			telemetry.Error("store.s3_unavailable", map[string]any{"err": err.Error()})
			return nil
		}
		telemetry.Info("store.ready", map[string]any{"backend": "s3", "bucket": cfg.S3Bucket})
		return store
	}

	store, err := local.NewStore(cfg.LocalStoreDir)
	if err != nil {
		telemetry.Error("store.local_unavailable", map[string]any{"err": err.Error()})
		return nil
	}
	telemetry.Info("store.ready", map[string]any{"backend": "local", "dir": cfg.LocalStoreDir})
	return store
}
