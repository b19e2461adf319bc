package logger

import (
	"testing"

	"github.com/contractgov/contract-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug", zapcore.InfoLevel))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN", zapcore.InfoLevel))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud", zapcore.InfoLevel))
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&config.LoggingConfig{Level: "error", Format: "json"}, &config.AppConfig{Name: "ContractGov API", Environment: "production"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))

	cli, err := NewCLILogger(false)
	require.NoError(t, err)
	assert.False(t, cli.Core().Enabled(zapcore.InfoLevel))

	cli, err = NewCLILogger(true)
	require.NoError(t, err)
	assert.True(t, cli.Core().Enabled(zapcore.DebugLevel))
}
