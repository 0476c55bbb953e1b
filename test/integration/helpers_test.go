//go:build integration

// Package integration runs the parse service against real backing services
// started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/internal/config"
	rediscache "github.com/turtacn/smiles-parser/internal/infrastructure/database/redis"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/smiles-parser/internal/interfaces/http"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/handlers"
	"github.com/turtacn/smiles-parser/pkg/client"
)

// startRedis launches a Redis 7 container and returns its address.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

// stack is a fully wired API backed by a real Redis.
type stack struct {
	cfg       *config.Config
	redis     *rediscache.Client
	collector prometheus.MetricsCollector
	client    *client.Client
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = startRedis(t)
	cfg.Redis.KeyPrefix = "it:"
	require.NoError(t, cfg.Validate())

	logger := logging.NewNopLogger()
	redisClient, err := rediscache.NewClient(cfg.Redis, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	cache := rediscache.NewRedisCache(redisClient, logger,
		rediscache.WithPrefix(cfg.Redis.KeyPrefix),
		rediscache.WithDefaultTTL(cfg.Redis.DefaultTTL),
	)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "smiles"}, logger)
	require.NoError(t, err)
	metrics := prometheus.NewParserMetrics(collector)

	svc := molecule.NewService(molecule.OptionsFromConfig(cfg), cache, metrics, logger)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		MoleculeHandler:  handlers.NewMoleculeHandler(svc, cfg.Parser.MaxBatchSize),
		HealthHandler:    handlers.NewHealthHandler("it", handlers.CheckerFunc("redis", redisClient.Ping)),
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		MaxBodySize:      cfg.Server.MaxBodySize,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(srv.URL, client.WithRetryMax(0))
	require.NoError(t, err)
	return &stack{cfg: cfg, redis: redisClient, collector: collector, client: c}
}

//Personal.AI order the ending
