package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/smiles-parser/internal/config"
	apperrors "github.com/turtacn/smiles-parser/pkg/errors"
)

// mockKafkaWriter
type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closes    int
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closes++
	return nil
}

func newTestProducer(w WriterInterface) *Producer {
	return NewProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}, MaxMessageBytes: 16}, nil)
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}, MaxRetries: -1}))
}

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(ProducerConfigFrom(config.Default().Kafka), nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())

	_, err = NewProducer(ProducerConfig{Brokers: []string{"b:9092"}, SASLMechanism: "GSSAPI"}, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestPublish_Success(t *testing.T) {
	var written []kafka.Message
	p := newTestProducer(&mockKafkaWriter{writeFunc: func(_ context.Context, msgs ...kafka.Message) error {
		written = append(written, msgs...)
		return nil
	}})

	err := p.Publish(context.Background(), &ProducerMessage{
		Topic:   "results",
		Key:     []byte("k"),
		Value:   []byte(`{"a":1}`),
		Headers: map[string]string{HeaderRequestID: "r1"},
	})
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, "results", written[0].Topic)
	assert.Equal(t, "k", string(written[0].Key))
	assert.False(t, written[0].Time.IsZero())
	assert.Equal(t, []kafka.Header{{Key: HeaderRequestID, Value: []byte("r1")}}, written[0].Headers)
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, &ProducerMessage{Value: []byte("x")}))
	assert.Error(t, p.Publish(ctx, &ProducerMessage{Topic: "t"}))
	err := p.Publish(ctx, &ProducerMessage{Topic: "t", Value: []byte("0123456789abcdefXYZ")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestPublish_WriteError(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return errors.New("leader not available")
	}})
	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("x")})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessageQueue))
}

func TestClose_Idempotent(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, w.closes)
	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("x")}))
}

func TestSASLMechanism(t *testing.T) {
	mech, err := saslMechanism("", "", "")
	assert.NoError(t, err)
	assert.Nil(t, mech)

	for _, name := range []string{SASLPlain, SASLScramSHA256, SASLScramSHA512} {
		mech, err := saslMechanism(name, "user", "secret")
		require.NoError(t, err, name)
		assert.Equal(t, name, mech.Name())
	}
}

//Personal.AI order the ending
