package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 10 * time.Second
	DefaultServerMaxBodySize     = 4 << 20
	DefaultServerShutdownTimeout = 15 * time.Second

	DefaultGRPCPort            = 9090
	DefaultGRPCMaxRecvMsgSize  = 4 << 20
	DefaultGRPCGracefulTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultParserMaxInputLength   = 4096
	DefaultParserMaxBatchSize     = 1000
	DefaultParserBatchConcurrency = 8

	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisTimeout   = 3 * time.Second
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "smiles:"

	DefaultKafkaBroker          = "localhost:9092"
	DefaultKafkaGroupID         = "smiles-worker"
	DefaultKafkaRequestTopic    = "smiles.parse.requests"
	DefaultKafkaResultTopic     = "smiles.parse.results"
	DefaultKafkaDeadLetterTopic = "smiles.parse.dlq"
	DefaultKafkaMaxRetries      = 3
	DefaultKafkaRetryBackoff    = 500 * time.Millisecond
	DefaultKafkaBatchSize       = 100
	DefaultKafkaBatchTimeout    = time.Second

	DefaultMetricsNamespace = "smiles"
	DefaultMetricsPath      = "/metrics"
)

// defaultValues lists every key with its default, keyed by the viper path.
// Registering each key with viper is also what lets SMILES_* environment
// variables override keys that no config file mentions.
func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"server.host":             DefaultServerHost,
		"server.port":             DefaultServerPort,
		"server.mode":             DefaultServerMode,
		"server.read_timeout":     DefaultServerReadTimeout,
		"server.write_timeout":    DefaultServerWriteTimeout,
		"server.max_body_size":    DefaultServerMaxBodySize,
		"server.shutdown_timeout": DefaultServerShutdownTimeout,
		"server.cors_origins":     []string{},
		"server.rate_limit_rps":   0.0,
		"server.rate_limit_burst": 0,

		"grpc.enabled":           false,
		"grpc.host":              DefaultServerHost,
		"grpc.port":              DefaultGRPCPort,
		"grpc.reflection":        false,
		"grpc.max_recv_msg_size": DefaultGRPCMaxRecvMsgSize,
		"grpc.graceful_timeout":  DefaultGRPCGracefulTimeout,

		"log.level":        DefaultLogLevel,
		"log.format":       DefaultLogFormat,
		"log.output_paths": []string{"stdout"},

		"parser.max_input_length":  DefaultParserMaxInputLength,
		"parser.max_batch_size":    DefaultParserMaxBatchSize,
		"parser.batch_concurrency": DefaultParserBatchConcurrency,
		"parser.allow_empty":       false,

		"redis.enabled":        false,
		"redis.mode":           DefaultRedisMode,
		"redis.addr":           DefaultRedisAddr,
		"redis.addrs":          []string{},
		"redis.master_name":    "",
		"redis.password":       "",
		"redis.db":             0,
		"redis.pool_size":      DefaultRedisPoolSize,
		"redis.min_idle_conns": 0,
		"redis.dial_timeout":   DefaultRedisTimeout,
		"redis.read_timeout":   DefaultRedisTimeout,
		"redis.write_timeout":  DefaultRedisTimeout,
		"redis.default_ttl":    DefaultRedisTTL,
		"redis.key_prefix":     DefaultRedisKeyPrefix,

		"kafka.enabled":           false,
		"kafka.brokers":           []string{DefaultKafkaBroker},
		"kafka.group_id":          DefaultKafkaGroupID,
		"kafka.request_topic":     DefaultKafkaRequestTopic,
		"kafka.result_topic":      DefaultKafkaResultTopic,
		"kafka.dead_letter_topic": DefaultKafkaDeadLetterTopic,
		"kafka.max_retries":       DefaultKafkaMaxRetries,
		"kafka.retry_backoff":     DefaultKafkaRetryBackoff,
		"kafka.batch_size":        DefaultKafkaBatchSize,
		"kafka.batch_timeout":     DefaultKafkaBatchTimeout,
		"kafka.sasl_mechanism":    "",
		"kafka.sasl_username":     "",
		"kafka.sasl_password":     "",

		"metrics.enabled":   true,
		"metrics.namespace": DefaultMetricsNamespace,
		"metrics.path":      DefaultMetricsPath,
	}
}

// ApplyDefaults fills zero-value fields in cfg.  Explicit values always win.
// Boolean switches are left alone since their zero value is meaningful.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── gRPC ──────────────────────────────────────────────────────────────────
	if cfg.GRPC.Host == "" {
		cfg.GRPC.Host = DefaultServerHost
	}
	if cfg.GRPC.Port == 0 {
		cfg.GRPC.Port = DefaultGRPCPort
	}
	if cfg.GRPC.MaxRecvMsgSize == 0 {
		cfg.GRPC.MaxRecvMsgSize = DefaultGRPCMaxRecvMsgSize
	}
	if cfg.GRPC.GracefulTimeout == 0 {
		cfg.GRPC.GracefulTimeout = DefaultGRPCGracefulTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	// ── Parser ────────────────────────────────────────────────────────────────
	if cfg.Parser.MaxInputLength == 0 {
		cfg.Parser.MaxInputLength = DefaultParserMaxInputLength
	}
	if cfg.Parser.MaxBatchSize == 0 {
		cfg.Parser.MaxBatchSize = DefaultParserMaxBatchSize
	}
	if cfg.Parser.BatchConcurrency == 0 {
		cfg.Parser.BatchConcurrency = DefaultParserBatchConcurrency
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultKafkaRequestTopic
	}
	if cfg.Kafka.ResultTopic == "" {
		cfg.Kafka.ResultTopic = DefaultKafkaResultTopic
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultKafkaDeadLetterTopic
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = DefaultKafkaRetryBackoff
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = DefaultKafkaBatchSize
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// Default returns a Config with every default applied.  Metrics are on.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
