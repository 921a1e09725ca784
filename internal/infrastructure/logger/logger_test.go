package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"console for local runs", &Config{Level: "debug", Format: "console", Output: "stdout"}},
		{"json for production", &Config{Level: "info", Format: "json", Output: "stdout"}},
		{"empty config falls back to info/json/stdout", &Config{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.level), tt.level)
	}
}

func TestNewWriter(t *testing.T) {
	assert.NotNil(t, newWriter("stdout"))
	assert.NotNil(t, newWriter("STDERR"))
	assert.NotNil(t, newWriter(""))
}

func TestNewWriter_FilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	writer := newWriter(path)
	_, err := writer.Write([]byte("hello\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestNewWriter_UnopenablePathFallsBack(t *testing.T) {
	// a directory is not a writable log file; the writer must still work
	writer := newWriter(t.TempDir())
	assert.NotNil(t, writer)
}
