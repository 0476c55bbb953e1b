package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/smiles-parser/internal/application/worker"
	"github.com/turtacn/smiles-parser/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/smiles-parser/internal/interfaces/http"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/handlers"
	"github.com/turtacn/smiles-parser/pkg/errors"
)

// NewWorkerCmd creates the worker command.
func NewWorkerCmd() *cobra.Command {
	var (
		ensureTopics bool
		probePort    int
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume parse requests from Kafka and publish results",
		Long: `Consume {"id","smiles"} requests from kafka.request_topic, parse them and
publish the molecule or parse error to kafka.result_topic.  Messages that keep
failing are moved to kafka.dead_letter_topic.

Probes and metrics are served on server.port (or --probe-port).`,
		Annotations: map[string]string{annotationDaemon: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if probePort > 0 {
				cliCtx.Config.Server.Port = probePort
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx, cliCtx, ensureTopics)
		},
	}
	cmd.Flags().BoolVar(&ensureTopics, "ensure-topics", false, "create the request, result and dead-letter topics before consuming")
	cmd.Flags().IntVar(&probePort, "probe-port", 0, "probe and metrics port (overrides server.port)")
	return cmd
}

func runWorker(ctx context.Context, cliCtx *CLIContext, ensureTopics bool) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger
	if !cfg.Kafka.Enabled {
		return errors.New(errors.ErrCodeFeatureDisabled, "kafka is disabled; set kafka.enabled or SMILES_KAFKA_ENABLED=true")
	}

	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	if ensureTopics {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger.Named("kafka.admin"))
		if err != nil {
			return err
		}
		err = tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.Kafka))
		_ = tm.Close()
		if err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfigFrom(cfg.Kafka), producer, rt.metrics, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	pw := worker.NewParseWorker(rt.service(cfg), producer, cfg.Kafka.ResultTopic, logger)

	probes := httpserver.NewServer(cfg.Server, httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, rt.checkers...),
		Logger:           logger,
		MetricsCollector: rt.collector,
		MetricsPath:      cfg.Metrics.Path,
	}), logger)
	go func() {
		if err := probes.Start(); err != nil {
			logger.Error("probe server failed", logging.Err(err))
		}
	}()
	defer func() { _ = probes.Stop(context.Background()) }()

	watchConfig(cliCtx)
	logger.Info("starting SMILES worker",
		logging.String("version", Version),
		logging.String("request_topic", cfg.Kafka.RequestTopic),
		logging.String("result_topic", cfg.Kafka.ResultTopic),
		logging.String("group_id", cfg.Kafka.GroupID),
	)
	return consumer.Run(ctx, pw.Handle)
}

//Personal.AI order the ending
