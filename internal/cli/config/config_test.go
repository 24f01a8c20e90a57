package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test so that config file
// discovery sees a controlled working directory.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Cleanup(ResetConfig)
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultCycles, cfg.Cycles)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.NoColor)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "gatesim.yaml", "cycles: 25\nformat: table\n")
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Cycles)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, "gatesim.yaml", GetConfigFileUsed())
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.yaml", "cycles: 3\n")
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Cycles)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "gatesim.yaml", "cycles: 25\n")
	chdir(t, dir)
	t.Setenv("GATESIM_CYCLES", "40")
	t.Setenv("GATESIM_NO_COLOR", "true")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Cycles)
	assert.True(t, cfg.NoColor)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GATESIM_CYCLES", "40")
	t.Setenv("GATESIM_FORMAT", "csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.IntP("cycles", "n", DefaultCycles, "")
	flags.StringP("format", "f", DefaultFormat, "")
	flags.Bool("no-color", false, "")
	require.NoError(t, flags.Set("cycles", "7"))
	require.NoError(t, flags.Set("no-color", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Cycles, "changed flag wins over env")
	assert.Equal(t, "csv", cfg.Format, "unchanged flag keeps env value")
	assert.True(t, cfg.NoColor, "kebab-case flag maps to snake_case key")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad format", "format: xml\n", "unknown output format"},
		{"negative cycles", "cycles: -2\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "gatesim.yaml", tt.content)
			chdir(t, dir)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Cycles: 10, Format: "json"}
	assert.NoError(t, valid.Validate())

	for _, format := range Formats {
		cfg := Config{Cycles: 0, Format: format}
		assert.NoError(t, cfg.Validate(), format)
	}
}

func TestGetLogger(t *testing.T) {
	// Without a stored logger the fallback must be usable.
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
	logger.Info("discarded")

	stored := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(context.Background(), LoggerKey(), stored)
	assert.Same(t, stored, GetLogger(ctx))
}
