package cli

import (
	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/internal/config"
	rediscache "github.com/turtacn/smiles-parser/internal/infrastructure/database/redis"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/handlers"
)

// runtimeDeps are the shared dependencies of the serve and worker commands.
type runtimeDeps struct {
	collector prometheus.MetricsCollector // nil when metrics are disabled
	metrics   *prometheus.ParserMetrics
	cache     molecule.ResultCache // nil when redis is disabled
	checkers  []handlers.HealthChecker
	closers   []func() error
	logger    logging.Logger
}

// buildRuntime connects the optional metrics registry and result cache.
func buildRuntime(cfg *config.Config, logger logging.Logger) (*runtimeDeps, error) {
	rt := &runtimeDeps{logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		rt.collector = collector
		rt.metrics = prometheus.NewParserMetrics(collector)
	} else {
		rt.metrics = prometheus.NewNoopParserMetrics()
	}

	if cfg.Redis.Enabled {
		client, err := rediscache.NewClient(cfg.Redis, logger.Named("redis"))
		if err != nil {
			return nil, err
		}
		rt.cache = rediscache.NewRedisCache(client, logger.Named("cache"),
			rediscache.WithPrefix(cfg.Redis.KeyPrefix),
			rediscache.WithDefaultTTL(cfg.Redis.DefaultTTL),
		)
		rt.checkers = append(rt.checkers, handlers.CheckerFunc("redis", client.Ping))
		rt.closers = append(rt.closers, client.Close)
	}
	return rt, nil
}

func (rt *runtimeDeps) service(cfg *config.Config) molecule.Service {
	return molecule.NewService(molecule.OptionsFromConfig(cfg), rt.cache, rt.metrics, rt.logger)
}

// Close releases connections in reverse order of creation.
func (rt *runtimeDeps) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("close failed", logging.Err(err))
		}
	}
}

// watchConfig applies log level changes from the config file while the
// process runs.  Other settings need a restart.
func watchConfig(cliCtx *CLIContext) {
	if cliCtx.ConfigPath == "" {
		return
	}
	setter, ok := cliCtx.Logger.(logging.LevelSetter)
	if !ok {
		return
	}
	err := config.Watch(cliCtx.ConfigPath, func(cfg *config.Config) {
		setter.SetLevel(cfg.Log.Level)
		cliCtx.Logger.Info("configuration reloaded", logging.String("log_level", cfg.Log.Level))
	})
	if err != nil {
		cliCtx.Logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
