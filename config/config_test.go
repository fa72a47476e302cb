package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAIModel)
	assert.InDelta(t, 0.3, cfg.PlanTemperature, 0.0001)
	assert.InDelta(t, 0.4, cfg.ContentTemperature, 0.0001)
	assert.Equal(t, "clients", cfg.ClientsDir)
	assert.Equal(t, "https://api.unsplash.com", cfg.UnsplashAPIURL)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "SERVER_ADDRESS: \":9000\"\nCLIENTS_DIR: data/clients\nOPENAI_MODEL: from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("OPENAI_MODEL", "from-env")

	cfg, err := LoadConfig(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.Equal(t, "data/clients", cfg.ClientsDir)
	assert.Equal(t, "from-env", cfg.OpenAIModel)
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("SERVER_ADDRESS: [unclosed"), 0o644))

	_, err := LoadConfig(dir, zap.NewNop())
	require.Error(t, err)
}

func TestRequireChecks(t *testing.T) {
	var cfg Config
	require.ErrorIs(t, cfg.RequireLLM(), ErrMissingConfig)
	require.ErrorIs(t, cfg.RequireImages(), ErrMissingConfig)

	err := cfg.RequireSubmit()
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "APPS_SCRIPT_WEBAPP_URL")

	cfg.AppsScriptURL = "https://script.example/exec"
	err = cfg.RequireSubmit()
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "FACTORY_KEY")

	cfg = Config{OpenAIKey: "k", UnsplashAccessKey: "u", AppsScriptURL: "x", FactoryKey: "f"}
	assert.NoError(t, cfg.RequireLLM())
	assert.NoError(t, cfg.RequireImages())
	assert.NoError(t, cfg.RequireSubmit())
}
