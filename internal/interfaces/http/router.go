// Package http exposes the parse service over a gin router.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/handlers"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/middleware"
	"github.com/turtacn/smiles-parser/pkg/errors"
	"github.com/turtacn/smiles-parser/pkg/types/common"
)

// DefaultMetricsPath is used when RouterConfig.MetricsPath is empty.
const DefaultMetricsPath = "/metrics"

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	MoleculeHandler *handlers.MoleculeHandler
	HealthHandler   *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.ParserMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string

	MaxBodySize int64
	CORSOrigins []string
	RateLimiter middleware.RateLimiter
}

// NewRouter builds the route tree.
//
//	GET  /healthz                 liveness
//	GET  /readyz                  readiness
//	GET  /metrics                 Prometheus exposition
//	POST /api/v1/smiles/parse     parse one SMILES
//	GET  /api/v1/smiles/parse     parse ?smiles=
//	POST /api/v1/smiles/batch     parse many SMILES
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Request ID first so every later middleware can log it; recovery sits
	// inside logging and metrics so panics are still recorded as 500s.
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.Recovery(logger))
	if len(cfg.CORSOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = cfg.CORSOrigins
		r.Use(middleware.CORS(corsCfg))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	api.Use(middleware.BodyLimit(cfg.MaxBodySize))
	registerSMILESRoutes(api, cfg.MoleculeHandler)

	r.NoRoute(func(c *gin.Context) {
		resp := common.NewErrorResponse(string(errors.ErrCodeNotFound), "route not found")
		resp.RequestID = middleware.GetRequestID(c)
		c.JSON(http.StatusNotFound, resp)
	})
	return r
}

func registerSMILESRoutes(r *gin.RouterGroup, h *handlers.MoleculeHandler) {
	if h == nil {
		return
	}
	g := r.Group("/smiles")
	g.POST("/parse", h.Parse)
	g.GET("/parse", h.ParseQuery)
	g.POST("/batch", h.Batch)
}

//Personal.AI order the ending
