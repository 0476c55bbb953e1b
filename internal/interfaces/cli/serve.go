package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	grpcserver "github.com/turtacn/smiles-parser/internal/interfaces/grpc"
	"github.com/turtacn/smiles-parser/internal/interfaces/grpc/services"
	httpserver "github.com/turtacn/smiles-parser/internal/interfaces/http"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/handlers"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/middleware"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Run the HTTP parse API and, when enabled, the gRPC service",
		Annotations: map[string]string{annotationDaemon: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cliCtx.Config.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cliCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cliCtx *CLIContext) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger
	gin.SetMode(cfg.Server.Mode)

	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc := rt.service(cfg)
	routerCfg := httpserver.RouterConfig{
		MoleculeHandler: handlers.NewMoleculeHandler(svc, cfg.Parser.MaxBatchSize),
		HealthHandler:   handlers.NewHealthHandler(Version, rt.checkers...),
		Logger:          logger,
		Metrics:         rt.metrics,
		MaxBodySize:     cfg.Server.MaxBodySize,
		CORSOrigins:     cfg.Server.CORSOrigins,
	}
	if rt.collector != nil {
		routerCfg.MetricsCollector = rt.collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	if cfg.Server.RateLimitRPS > 0 {
		limiter := middleware.NewTokenBucketLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, time.Minute)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}

	servers := []lifecycle{httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)}
	if cfg.GRPC.Enabled {
		gs, err := grpcserver.NewServer(cfg.GRPC, grpcserver.WithLogger(logger), grpcserver.WithMetrics(rt.metrics))
		if err != nil {
			return err
		}
		services.NewParserService(svc, cfg.Parser.MaxBatchSize).Register(gs)
		servers = append(servers, gs)
	}
	watchConfig(cliCtx)

	logger.Info("starting SMILES API",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Address()),
		logging.Bool("grpc", cfg.GRPC.Enabled),
		logging.Bool("cache", rt.cache != nil),
	)
	return serveUntilDone(ctx, servers...)
}

// lifecycle is a server that blocks in Start until Stop.
type lifecycle interface {
	Start() error
	Stop(ctx context.Context) error
}

// serveUntilDone runs every server until one fails or ctx ends, then drains
// them all.
func serveUntilDone(ctx context.Context, servers ...lifecycle) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(s.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		var firstErr error
		for _, s := range servers {
			if err := s.Stop(context.Background()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
	return g.Wait()
}

//Personal.AI order the ending
