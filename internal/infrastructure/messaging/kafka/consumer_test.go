package kafka

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/smiles-parser/internal/config"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/smiles-parser/internal/testutil"
	apperrors "github.com/turtacn/smiles-parser/pkg/errors"
)

// fakeReader serves queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	fetchErrs []error
	committed []kafka.Message
	closed    bool
	onCommit  func(n int)
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	r.committed = append(r.committed, msgs...)
	n := len(r.committed)
	r.mu.Unlock()
	if r.onCommit != nil {
		r.onCommit(n)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

// fakePublisher records published messages.
type fakePublisher struct {
	mu   sync.Mutex
	msgs []*ProducerMessage
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, msg *ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers:         []string{"localhost:9092"},
		GroupID:         "test-group",
		Topic:           "requests",
		MaxRetries:      2,
		RetryBackoff:    10 * time.Millisecond,
		MaxRetryBackoff: 15 * time.Millisecond,
		DeadLetterTopic: "dlq",
	}
}

func newTestConsumer(reader ReaderInterface, dl Publisher, metrics *prometheus.ParserMetrics) (*Consumer, *[]time.Duration) {
	c := NewConsumerWithReader(reader, newTestConsumerConfig(), dl, metrics, logging.NewNopLogger())
	var sleeps []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return c, &sleeps
}

func runUntilCommitted(t *testing.T, c *Consumer, r *fakeReader, n int, h MessageHandler) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.onCommit = func(got int) {
		if got >= n {
			cancel()
		}
	}
	return c.Run(ctx, h)
}

func msgOn(topic, value string) kafka.Message {
	return kafka.Message{Topic: topic, Value: []byte(value), Headers: []kafka.Header{{Key: "trace", Value: []byte("t1")}}}
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(newTestConsumerConfig()))

	cases := map[string]func(*ConsumerConfig){
		"brokers": func(c *ConsumerConfig) { c.Brokers = nil },
		"group":   func(c *ConsumerConfig) { c.GroupID = "" },
		"topic":   func(c *ConsumerConfig) { c.Topic = "" },
		"retries": func(c *ConsumerConfig) { c.MaxRetries = -1 },
		"sasl":    func(c *ConsumerConfig) { c.SASLMechanism = SASLPlain },
	}
	for name, mutate := range cases {
		cfg := newTestConsumerConfig()
		mutate(&cfg)
		assert.True(t, apperrors.IsCode(ValidateConsumerConfig(cfg), apperrors.ErrCodeValidation), name)
	}
}

func TestConsumerConfigFrom(t *testing.T) {
	cfg := config.Default().Kafka
	cc := ConsumerConfigFrom(cfg)
	assert.Equal(t, cfg.RequestTopic, cc.Topic)
	assert.Equal(t, cfg.GroupID, cc.GroupID)
	assert.Equal(t, cfg.DeadLetterTopic, cc.DeadLetterTopic)
	assert.Equal(t, cfg.MaxRetries, cc.MaxRetries)
}

func TestRun_ProcessesAndCommitsInOrder(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "a"), msgOn("requests", "b")}}
	c, _ := newTestConsumer(r, &fakePublisher{}, nil)

	var seen []string
	err := runUntilCommitted(t, c, r, 2, func(_ context.Context, m *Message) error {
		seen = append(seen, string(m.Value))
		assert.Equal(t, "t1", m.Headers["trace"])
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
	require.Len(t, r.committed, 2)
	assert.Equal(t, "a", string(r.committed[0].Value))
}

func TestRun_AlreadyRunning(t *testing.T) {
	c, _ := newTestConsumer(&fakeReader{}, nil, nil)
	c.running.Store(true)
	assert.Equal(t, ErrAlreadyRunning, c.Run(context.Background(), nil))
}

func TestRun_RetriesWithBackoffThenSucceeds(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "x")}}
	dl := &fakePublisher{}
	c, sleeps := newTestConsumer(r, dl, nil)

	calls := 0
	err := runUntilCommitted(t, c, r, 1, func(context.Context, *Message) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}, *sleeps)
	assert.Empty(t, dl.msgs)
}

func TestRun_ExhaustedRetriesDeadLetter(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "bad")}}
	dl := &fakePublisher{}
	c, _ := newTestConsumer(r, dl, nil)

	calls := 0
	err := runUntilCommitted(t, c, r, 1, func(context.Context, *Message) error {
		calls++
		return errors.New("still broken")
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	require.Len(t, dl.msgs, 1)
	got := dl.msgs[0]
	assert.Equal(t, "dlq", got.Topic)
	assert.Equal(t, "bad", string(got.Value))
	assert.Equal(t, "requests", got.Headers[HeaderOriginalTopic])
	assert.Equal(t, "still broken", got.Headers[HeaderErrorMessage])
	assert.Equal(t, "3", got.Headers[HeaderAttempts])
	assert.Equal(t, "t1", got.Headers["trace"])
	assert.Len(t, r.committed, 1)
}

func TestRun_PermanentErrorSkipsRetries(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "{")}}
	dl := &fakePublisher{}
	c, sleeps := newTestConsumer(r, dl, nil)

	calls := 0
	err := runUntilCommitted(t, c, r, 1, func(context.Context, *Message) error {
		calls++
		return Permanent(errors.New("malformed"))
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
	require.Len(t, dl.msgs, 1)
	assert.Equal(t, "1", dl.msgs[0].Headers[HeaderAttempts])
}

func TestRun_DeadLetterFailureStopsWithoutCommit(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "x"), msgOn("requests", "y")}}
	dl := &fakePublisher{err: errors.New("broker down")}
	c, _ := newTestConsumer(r, dl, nil)

	err := c.Run(context.Background(), func(context.Context, *Message) error {
		return Permanent(errors.New("nope"))
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessageQueue))
	assert.Empty(t, r.committed)
	assert.Len(t, r.queue, 1)
}

func TestRun_NoDeadLetterTopicDrops(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "x")}}
	c, _ := newTestConsumer(r, nil, nil)

	err := runUntilCommitted(t, c, r, 1, func(context.Context, *Message) error {
		return Permanent(errors.New("nope"))
	})
	require.NoError(t, err)
	assert.Len(t, r.committed, 1)
}

func TestRun_LogsRetriesAndFailure(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "bad")}}
	logger := testutil.NewMockLogger()
	c := NewConsumerWithReader(r, newTestConsumerConfig(), nil, nil, logger)
	c.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	err := runUntilCommitted(t, c, r, 1, func(context.Context, *Message) error {
		return errors.New("still broken")
	})
	require.NoError(t, err)

	retry, ok := logger.Find("warn", "Handler failed, retrying")
	require.True(t, ok)
	attempt, _ := retry.Field("attempt")
	assert.Equal(t, 1, attempt)

	failed, ok := logger.Find("error", "Message processing failed")
	require.True(t, ok)
	attempts, _ := failed.Field("attempts")
	assert.Equal(t, 3, attempts)
	assert.True(t, logger.HasMessage("warn", "No dead-letter topic, dropping message"))
}

func TestRun_FetchErrorBacksOff(t *testing.T) {
	r := &fakeReader{
		fetchErrs: []error{errors.New("rebalance")},
		queue:     []kafka.Message{msgOn("requests", "x")},
	}
	c, sleeps := newTestConsumer(r, nil, nil)

	err := runUntilCommitted(t, c, r, 1, func(context.Context, *Message) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second}, *sleeps)
}

func TestRun_CancelledDuringBackoff(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "x")}}
	c := NewConsumerWithReader(r, newTestConsumerConfig(), nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	err := c.Run(ctx, func(context.Context, *Message) error {
		cancel()
		return errors.New("transient")
	})
	assert.NoError(t, err)
	assert.Empty(t, r.committed)
}

func TestRun_RecordsMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "smiles"}, nil)
	require.NoError(t, err)
	metrics := prometheus.NewParserMetrics(collector)

	r := &fakeReader{queue: []kafka.Message{msgOn("requests", "ok"), msgOn("requests", "bad")}}
	c, _ := newTestConsumer(r, &fakePublisher{}, metrics)
	require.NoError(t, runUntilCommitted(t, c, r, 2, func(_ context.Context, m *Message) error {
		if string(m.Value) == "bad" {
			return errors.New("x")
		}
		return nil
	}))

	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := w.Body.String()
	assert.Contains(t, out, `smiles_worker_messages_total{outcome="processed",topic="requests"} 1`)
	assert.Contains(t, out, `smiles_worker_messages_total{outcome="retried",topic="requests"} 2`)
	assert.Contains(t, out, `smiles_worker_messages_total{outcome="dead_lettered",topic="requests"} 1`)
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))
	base := errors.New("x")
	err := Permanent(base)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsPermanent(base))
}

func TestClose(t *testing.T) {
	r := &fakeReader{}
	c := NewConsumerWithReader(r, newTestConsumerConfig(), nil, nil, nil)
	assert.NoError(t, c.Close())
	assert.True(t, r.closed)
}

//Personal.AI order the ending
