package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biokeeper/internal/client/datefmt"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	home := withTempHome(t)
	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.Equal(t, ProfileDesktop, cfg.Profile)
	assert.Equal(t, filepath.Join(home, ".biokeeper", "session.db"), cfg.SessionDB)
	assert.Equal(t, datefmt.EU, cfg.DateFormat)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.File)
}

func TestLoad_MobileProfile(t *testing.T) {
	withTempHome(t)
	cfg, err := Load(flags(t, "--profile", "mobile"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.2.2:8080", cfg.Server)
	assert.Equal(t, datefmt.Mobile, cfg.DateFormat)

	cfg, err = Load(flags(t, "--profile", "mobile", "--date-format", "us"))
	require.NoError(t, err)
	assert.Equal(t, datefmt.US, cfg.DateFormat)
}

func TestLoad_Precedence(t *testing.T) {
	home := withTempHome(t)
	dir := filepath.Join(home, ".biokeeper")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"server: http://file.example:8080/\ndate_format: us\nlog_level: info\ntimeout: 5s\n"), 0o600))

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, "http://file.example:8080", cfg.Server)
	assert.Equal(t, datefmt.US, cfg.DateFormat)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)

	t.Setenv("BIOKEEPER_SERVER", "http://env.example")
	t.Setenv("BIOKEEPER_LOG_LEVEL", "debug")
	cfg, err = Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example", cfg.Server)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = Load(flags(t, "--server", "http://flag.example", "--timeout", "2s"))
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example", cfg.Server)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel, "unset flags do not shadow the environment")
}

func TestLoad_Errors(t *testing.T) {
	withTempHome(t)

	_, err := Load(flags(t, "--profile", "tablet"))
	assert.ErrorContains(t, err, "unknown profile")

	_, err = Load(flags(t, "--date-format", "iso"))
	assert.ErrorContains(t, err, "unknown date format")

	_, err = Load(flags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "read config")
}
