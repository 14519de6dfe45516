package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "pycforge", configBaseName)
	assert.Equal(t, "pycforge.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "engine.binary", engineBinaryKey)
	assert.Equal(t, "docker", defaultEngineBinary)
	assert.Equal(t, ".pycforge-reports", defaultReportsDir)
	assert.Equal(t, "PYCFORGE", envPrefix)
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel("debug", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("warning", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseSlogLevel("ERROR", slog.LevelInfo))
	assert.Equal(t, slog.Level(-4), parseSlogLevel("-4", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("nonsense", slog.LevelInfo))
}
