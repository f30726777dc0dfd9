package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWithWriterLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zerolog.Level
	}{
		{name: "default", want: zerolog.InfoLevel},
		{name: "verbose", verbose: true, want: zerolog.DebugLevel},
		{name: "quiet", quiet: true, want: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := InitLoggerWithWriter(tt.verbose, tt.quiet, &buf)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestInitLoggerWithWriterFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Str("scenario_id", "scn-1").Msg("scenario started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scenario started", entry["event"])
	assert.Contains(t, entry, "ts")
	assert.Equal(t, "scn-1", entry["scenario_id"])
}

func TestOrionHomeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORION_HOME", dir)

	home, err := OrionHome()
	require.NoError(t, err)
	assert.Equal(t, dir, home)
}

func TestOrionHomeDefaultsToUserHome(t *testing.T) {
	t.Setenv("ORION_HOME", "")
	t.Setenv("HOME", t.TempDir())

	home, err := OrionHome()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".orion"), home)
}

func TestLogFilePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORION_HOME", dir)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logs", "orion.log"), path)
}
