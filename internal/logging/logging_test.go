package logging

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"", false},
		{"verbose", true},
		{"INFO", true},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			l, err := New(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	lvl, err = parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}

func TestIsStderrSyncError(t *testing.T) {
	assert.True(t, isStderrSyncError(syscall.EINVAL))
	assert.True(t, isStderrSyncError(syscall.ENOTTY))
	assert.False(t, isStderrSyncError(syscall.EACCES))
	assert.False(t, isStderrSyncError(assert.AnError))
}

func TestNopSync(t *testing.T) {
	l := Nop()
	l.Info("ignored")
	assert.NoError(t, l.Sync())
}

func TestWithAndNamed(t *testing.T) {
	l := Nop()
	assert.NotNil(t, l.With())
	assert.NotNil(t, l.Named("hooks"))
	assert.NotNil(t, l.Underlying())
}
