package kafka

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/smiles-parser/internal/config"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/smiles-parser/pkg/errors"
)

var (
	ErrAlreadyRunning   = errors.New(errors.ErrCodeMessageQueue, "consumer already running")
	ErrDeadLetterFailed = errors.New(errors.ErrCodeMessageQueue, "dead-letter publish failed")
)

// Worker outcome label values.
const (
	OutcomeProcessed    = "processed"
	OutcomeRetried      = "retried"
	OutcomeDeadLettered = "dead_lettered"
)

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topic           string
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	DeadLetterTopic string
	SASLMechanism   string
	SASLUsername    string
	SASLPassword    string
}

// ConsumerConfigFrom derives the request-topic consumer config from the kafka
// section.
func ConsumerConfigFrom(cfg config.KafkaConfig) ConsumerConfig {
	return ConsumerConfig{
		Brokers:         cfg.Brokers,
		GroupID:         cfg.GroupID,
		Topic:           cfg.RequestTopic,
		MaxRetries:      cfg.MaxRetries,
		RetryBackoff:    cfg.RetryBackoff,
		DeadLetterTopic: cfg.DeadLetterTopic,
		SASLMechanism:   cfg.SASLMechanism,
		SASLUsername:    cfg.SASLUsername,
		SASLPassword:    cfg.SASLPassword,
	}
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is the dead-letter sink.  *Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// Consumer reads one topic in a consumer group and hands each message to a
// handler.  Messages are processed in order and committed only after the
// handler succeeds or the message has been dead-lettered.
type Consumer struct {
	reader     ReaderInterface
	config     ConsumerConfig
	deadLetter Publisher
	metrics    *prometheus.ParserMetrics
	logger     logging.Logger

	running atomic.Bool
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewConsumer creates a group reader for cfg.Topic.  deadLetter may be nil, in
// which case exhausted messages are dropped after logging.
func NewConsumer(cfg ConsumerConfig, deadLetter Publisher, metrics *prometheus.ParserMetrics, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	mech, err := saslMechanism(cfg.SASLMechanism, cfg.SASLUsername, cfg.SASLPassword)
	if err != nil {
		return nil, err
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		MaxWait:        time.Second,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
		Dialer:         &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true, SASLMechanism: mech},
	})
	return NewConsumerWithReader(reader, cfg, deadLetter, metrics, logger), nil
}

// NewConsumerWithReader wraps an existing reader.
func NewConsumerWithReader(reader ReaderInterface, cfg ConsumerConfig, deadLetter Publisher, metrics *prometheus.ParserMetrics, logger logging.Logger) *Consumer {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = config.DefaultKafkaRetryBackoff
	}
	if cfg.MaxRetryBackoff <= 0 {
		cfg.MaxRetryBackoff = 30 * time.Second
	}
	if metrics == nil {
		metrics = prometheus.NewNoopParserMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Consumer{
		reader:     reader,
		config:     cfg,
		deadLetter: deadLetter,
		metrics:    metrics,
		logger:     logger.Named("kafka.consumer"),
		sleep:      sleepCtx,
	}
}

// Run consumes until ctx is cancelled, returning nil in that case.  It returns
// an error when a message can neither be processed nor dead-lettered, leaving
// that message uncommitted so it is redelivered.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.logger.Info("Kafka consumer started",
		logging.String("group", c.config.GroupID),
		logging.String("topic", c.config.Topic))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			if c.sleep(ctx, time.Second) != nil {
				return nil
			}
			continue
		}

		if err := c.handle(ctx, m, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err), logging.Int64("offset", m.Offset))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafka.Message, handler MessageHandler) error {
	msg := fromKafkaMessage(m)
	start := time.Now()
	backoff := c.config.RetryBackoff

	attempts := 0
	var err error
	for {
		attempts++
		if err = handler(ctx, msg); err == nil {
			prometheus.RecordWorkerMessage(c.metrics, msg.Topic, OutcomeProcessed, time.Since(start))
			return nil
		}
		if IsPermanent(err) || attempts > c.config.MaxRetries {
			break
		}

		prometheus.RecordWorkerMessage(c.metrics, msg.Topic, OutcomeRetried, time.Since(start))
		c.logger.Warn("Handler failed, retrying",
			logging.Int64("offset", msg.Offset),
			logging.Int("attempt", attempts),
			logging.Duration("backoff", backoff),
			logging.Err(err))
		if serr := c.sleep(ctx, backoff); serr != nil {
			return serr
		}
		backoff *= 2
		if backoff > c.config.MaxRetryBackoff {
			backoff = c.config.MaxRetryBackoff
		}
	}

	c.logger.Error("Message processing failed",
		logging.String("topic", msg.Topic),
		logging.Int64("offset", msg.Offset),
		logging.Int("attempts", attempts),
		logging.Err(err))
	return c.deadLetterMessage(ctx, msg, err, attempts, start)
}

func (c *Consumer) deadLetterMessage(ctx context.Context, msg *Message, cause error, attempts int, start time.Time) error {
	if c.deadLetter == nil || c.config.DeadLetterTopic == "" {
		c.logger.Warn("No dead-letter topic, dropping message", logging.Int64("offset", msg.Offset))
		prometheus.RecordWorkerMessage(c.metrics, msg.Topic, OutcomeDeadLettered, time.Since(start))
		return nil
	}

	headers := make(map[string]string, len(msg.Headers)+3)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderOriginalTopic] = msg.Topic
	headers[HeaderErrorMessage] = cause.Error()
	headers[HeaderAttempts] = strconv.Itoa(attempts)

	dl := &ProducerMessage{
		Topic:   c.config.DeadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
	if err := c.deadLetter.Publish(ctx, dl); err != nil {
		return ErrDeadLetterFailed.WithCause(err)
	}
	prometheus.RecordWorkerMessage(c.metrics, msg.Topic, OutcomeDeadLettered, time.Since(start))
	return nil
}

// Close closes the underlying reader.  Cancel the context passed to Run first.
func (c *Consumer) Close() error {
	err := c.reader.Close()
	c.logger.Info("Kafka consumer closed")
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Permanent errors
// ─────────────────────────────────────────────────────────────────────────────

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.  The message goes straight to the
// dead-letter topic.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "GroupID required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if cfg.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "MaxRetries must be >= 0")
	}
	if cfg.SASLMechanism != "" && cfg.SASLUsername == "" {
		return errors.New(errors.ErrCodeValidation, "SASL credentials required")
	}
	return nil
}

//Personal.AI order the ending
