package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Output: &buf})

	WithComponent(l, "simulation").WithField("tick", 3).Debug("tick done")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tick done", line["message"])
	assert.Equal(t, "simulation", line["component"])
	assert.Equal(t, float64(3), line["tick"])
	assert.Contains(t, line, "timestamp")
}

func TestNew_LevelFallback(t *testing.T) {
	l := New(Options{Level: "verbose", Output: &bytes.Buffer{}})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l = New(Options{Level: "WARN", Output: &bytes.Buffer{}})
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Output: &buf})

	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	var console bytes.Buffer
	l := New(Options{Level: "info", File: path, MaxSizeMB: 1, Output: &console})

	l.Info("to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, console.String(), "to both")
}

func TestWithComponent_NilLogger(t *testing.T) {
	e := WithComponent(nil, "x")
	require.NotNil(t, e)
	e.Info("discarded")
}
