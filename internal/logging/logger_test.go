package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level, enabled map[string]bool) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	SetBase(zap.New(core), enabled)
	t.Cleanup(func() { SetBase(nil, nil) })
	return logs
}

func TestGet_NamesLoggerByCategory(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel, nil)

	Get(CategoryLoader).Info("loaded %d sources", 3)
	Display("step %d", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "loader", entries[0].LoggerName)
	assert.Equal(t, "loaded 3 sources", entries[0].Message)
	assert.Equal(t, "display", entries[1].LoggerName)
}

func TestGet_DisabledCategoryIsNoop(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel, map[string]bool{"race": false})

	Race("stage %d", 1)
	Get(CategoryRace).Error("boom")
	Get(CategoryChart).Warn("kept")

	assert.Equal(t, 1, logs.Len())
	assert.False(t, IsCategoryEnabled(CategoryRace))
	assert.True(t, IsCategoryEnabled(CategoryChart), "unlisted categories default to on")
}

func TestLogger_LevelFilter(t *testing.T) {
	logs := observe(t, zapcore.WarnLevel, nil)

	l := Get(CategoryRegion)
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	assert.Equal(t, 2, logs.Len())
}

func TestLogger_WithAddsContext(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel, nil)

	Get(CategoryChart).With("region", "vis-brush").Info("activated")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "vis-brush", entries[0].ContextMap()["region"])
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrollstory.log")
	t.Cleanup(func() { SetBase(nil, nil) })

	require.NoError(t, Initialize(Config{Level: "info", Format: "json", File: path}))
	Get(CategoryBoot).Info("hello from boot")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from boot"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
