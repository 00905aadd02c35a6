package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterscraper/pkg/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "shout"})
	assert.Error(t, err)
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	lg, err := New(&config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)

	lg.WithField("course", "00042").Info("instructor found")

	// The log directory and file are created on demand.
	assert.FileExists(t, path)
}

func TestWithFieldsReturnsDerivedLogger(t *testing.T) {
	lg, err := New(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)

	derived := lg.WithFields(map[string]interface{}{"scanned": 10})
	assert.NotNil(t, derived)
	assert.NotSame(t, lg, derived)
}

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, GetLogger())
}
