package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "registration", "production")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	LogError(logger, "save failed", errors.New("boom"), logrus.Fields{"kind": "internal"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "save failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "internal", entry["kind"])
	assert.Equal(t, "error", entry["level"])
}

func TestNewLoggerTo_DevelopmentIsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "registration", "development")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "logger initialized")
}

func TestLogError_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { LogError(nil, "x", nil, nil) })
}
