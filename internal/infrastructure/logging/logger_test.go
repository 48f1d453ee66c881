package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"production", DefaultConfig(), false},
		{"development", Config{Level: "debug", Development: true}, false},
		{"bad level", Config{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger.Logger)
		})
	}
}

func TestNewOrNop(t *testing.T) {
	logger := NewOrNop(Config{Level: "loud"})
	require.NotNil(t, logger)
	logger.Info("discarded")
}

func TestSetLevel(t *testing.T) {
	logger, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "info", logger.Level())

	require.NoError(t, logger.SetLevel("debug"))
	assert.Equal(t, "debug", logger.Level())
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, logger.SetLevel("loud"))
	assert.Equal(t, "debug", logger.Level())
}
