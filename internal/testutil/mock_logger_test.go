package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
)

func TestMockLogger(t *testing.T) {
	logger := NewMockLogger()

	logger.Debug("debug message")
	logger.Info("info message", logging.String("key", "value"))
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Fatal("fatal message")

	messages := logger.GetMessages()
	require.Len(t, messages, 5)
	assert.True(t, logger.HasMessage("info", "info message"))
	assert.True(t, logger.HasMessage("fatal", "fatal message"))
	assert.False(t, logger.HasMessage("error", "info message"))

	lm, ok := logger.Find("info", "info message")
	require.True(t, ok)
	v, ok := lm.Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Empty(t, logger.GetMessages())
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	root := NewMockLogger()
	child := root.Named("worker").Named("parse").With(logging.String(logging.FieldSMILES, "CCO"))
	child.Info("parsed", logging.Int("atoms", 3))

	lm, ok := root.Find("info", "parsed")
	require.True(t, ok)
	assert.Equal(t, "worker.parse", lm.Logger)

	smiles, ok := lm.Field(logging.FieldSMILES)
	assert.True(t, ok)
	assert.Equal(t, "CCO", smiles)
	_, ok = lm.Field("missing")
	assert.False(t, ok)
	assert.NoError(t, child.Sync())
}

func TestLogMessage_FieldLastWins(t *testing.T) {
	l := NewMockLogger()
	l.With(logging.Int("n", 1)).Warn("w", logging.Int("n", 2))
	lm, ok := l.Find("warn", "w")
	require.True(t, ok)
	v, _ := lm.Field("n")
	assert.Equal(t, 2, v)
}

//Personal.AI order the ending
