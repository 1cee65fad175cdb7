package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cotfaith/internal/adapters/config"
	"go.trai.ch/cotfaith/internal/core/domain"
)

// isolateEnv runs the test from an empty directory with no settings-related variables set.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.APIKeyEnvVar, "")
	t.Setenv(config.SettingsPathEnvVar, "")
	for _, name := range []string{"API_KEY", "MAX_RETRIES", "WORKERS", "HTTP_TIMEOUT", "MEMO_ENABLED"} {
		t.Setenv(config.EnvPrefix+name, "")
		require.NoError(t, os.Unsetenv(config.EnvPrefix+name))
	}
	require.NoError(t, os.Unsetenv(config.APIKeyEnvVar))
	require.NoError(t, os.Unsetenv(config.SettingsPathEnvVar))
}

func TestLoadSettings_Defaults(t *testing.T) {
	isolateEnv(t)

	settings, err := config.LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSettings(), *settings)
	assert.Equal(t, "https://api.deepseek.com/beta", settings.BaseURL)
	assert.Equal(t, ".cache/cot-faith.json", settings.CheckpointPath)
	assert.Equal(t, 10*time.Second, settings.ReadLockTimeout)
	assert.Equal(t, 30*time.Second, settings.WriteLockTimeout)
	assert.True(t, settings.MemoEnabled)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_retries: 3
workers: 4
http_timeout: 90s
checkpoint_path: /tmp/ck.json
`), 0o600))

	t.Setenv(config.EnvPrefix+"WORKERS", "8")
	t.Setenv(config.EnvPrefix+"MEMO_ENABLED", "false")

	settings, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 3, settings.MaxRetries)
	assert.Equal(t, 8, settings.Workers, "environment overrides the file")
	assert.Equal(t, 90*time.Second, settings.HTTPTimeout)
	assert.Equal(t, "/tmp/ck.json", settings.CheckpointPath)
	assert.False(t, settings.MemoEnabled)
}

func TestLoadSettings_APIKeyPrecedence(t *testing.T) {
	isolateEnv(t)

	t.Setenv(config.APIKeyEnvVar, "provider-key")
	settings, err := config.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "provider-key", settings.APIKey)

	t.Setenv(config.EnvPrefix+"API_KEY", "own-key")
	settings, err = config.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "own-key", settings.APIKey)
}

func TestLoadSettings_DefaultFileDiscovery(t *testing.T) {
	isolateEnv(t)

	require.NoError(t, os.WriteFile(config.DefaultSettingsFile, []byte("max_non_thinking: 250\n"), 0o600))

	settings, err := config.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, 250, settings.MaxNonThinking)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	isolateEnv(t)

	_, err := config.LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoadSettings_Invalid(t *testing.T) {
	isolateEnv(t)

	t.Setenv(config.EnvPrefix+"MAX_RETRIES", "-1")

	_, err := config.LoadSettings("")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidSettings.Error())
}

func TestSettingsPathContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, config.SettingsPathFromContext(ctx))

	ctx = config.WithSettingsPath(ctx, "custom.yaml")
	assert.Equal(t, "custom.yaml", config.SettingsPathFromContext(ctx))
}
