package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerEmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, zerolog.DebugLevel)

	logger.Info("training started",
		ModelNameKey, "SVMModel",
		OperationKey, "train",
		SamplesKey, 10,
		FeaturesKey, 2,
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "training started", record["message"])
	assert.Equal(t, "SVMModel", record[ModelNameKey])
	assert.Equal(t, "train", record[OperationKey])
	assert.EqualValues(t, 10, record[SamplesKey])
}

func TestWithChainsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, zerolog.DebugLevel).With(ModelNameKey, "NetModel")

	logger.Debug("forward pass")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "NetModel", record[ModelNameKey])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, zerolog.WarnLevel)

	logger.Info("should be dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("should appear")
	assert.NotZero(t, buf.Len())
}

func TestSetLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	nop := NewNopLogger()
	SetLogger(nop)
	assert.Equal(t, nop, GetLogger())
}
