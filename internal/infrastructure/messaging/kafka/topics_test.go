package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/smiles-parser/internal/config"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: logging.NewNopLogger()}
}

func TestDefaultTopics(t *testing.T) {
	cfg := config.Default().Kafka
	topics := DefaultTopics(cfg)
	require.Len(t, topics, 3)
	assert.Equal(t, cfg.RequestTopic, topics[0].Name)
	assert.Equal(t, cfg.ResultTopic, topics[1].Name)
	assert.Equal(t, cfg.DeadLetterTopic, topics[2].Name)

	cfg.DeadLetterTopic = ""
	assert.Len(t, DefaultTopics(cfg), 2)
}

func TestCreateTopic_Success(t *testing.T) {
	conn := &mockKafkaConn{createFunc: func(topics ...kafka.TopicConfig) error {
		require.Len(t, topics, 1)
		assert.Equal(t, "test", topics[0].Topic)
		assert.Equal(t, []kafka.ConfigEntry{{ConfigName: "retention.ms", ConfigValue: "1000"}}, topics[0].ConfigEntries)
		return nil
	}}
	err := newTestTopicManager(conn).CreateTopic(context.Background(), TopicConfig{Name: "test", NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 1000})
	assert.NoError(t, err)
}

func TestCreateTopic_Validation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	ctx := context.Background()
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createFunc: func(...kafka.TopicConfig) error { return errors.New("topic already exists") },
		readFunc: func(...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: "t"}}, nil
		},
	}
	assert.NoError(t, newTestTopicManager(conn).CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestEnsureTopics_StopsOnError(t *testing.T) {
	created := 0
	conn := &mockKafkaConn{createFunc: func(topics ...kafka.TopicConfig) error {
		created++
		if topics[0].Topic == "b" {
			return errors.New("not controller")
		}
		return nil
	}}
	err := newTestTopicManager(conn).EnsureTopics(context.Background(), []TopicConfig{
		{Name: "a", NumPartitions: 1, ReplicationFactor: 1},
		{Name: "b", NumPartitions: 1, ReplicationFactor: 1},
		{Name: "c", NumPartitions: 1, ReplicationFactor: 1},
	})
	assert.Error(t, err)
	assert.Equal(t, 2, created)
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}
	env, err := NewEventEnvelope(EventTypeParseResult, "worker", payload{ID: "123"})
	require.NoError(t, err)
	env.RequestID = "123"
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)

	msg, err := env.ToMessage("results", []byte("123"))
	require.NoError(t, err)
	assert.Equal(t, EventTypeParseResult, msg.Headers[HeaderEventType])
	assert.Equal(t, "123", msg.Headers[HeaderRequestID])

	decodedEnv, err := MessageToEventEnvelope(&Message{Value: msg.Value})
	require.NoError(t, err)
	var decoded payload
	require.NoError(t, decodedEnv.DecodePayload(&decoded))
	assert.Equal(t, "123", decoded.ID)
}

func TestMessageToEventEnvelope_Errors(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.Error(t, err)
	_, err = MessageToEventEnvelope(&Message{Value: []byte("{")})
	assert.Error(t, err)

	env := &EventEnvelope{}
	assert.NoError(t, env.DecodePayload(&struct{}{}))
}

//Personal.AI order the ending
