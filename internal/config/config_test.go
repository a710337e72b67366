package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pagesmith/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "PAGESMITH_SECRET", cfg.Server.SecretEnvVar)
	assert.Equal(t, 4, cfg.Server.MaxConcurrentDeploys)
	assert.Equal(t, "https://aipipe.org/openrouter/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://api.github.com", cfg.Hub.BaseURL)
	assert.Equal(t, "pagesmith", cfg.Hub.RepoPrefix)
	assert.Equal(t, 4, cfg.Notify.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Notify.InitialBackoff)
	assert.Equal(t, 20*time.Second, cfg.Notify.Timeout)

	// Defaults must always validate.
	require.NoError(t, Validate(cfg))
}

func TestServerConfig_Secret(t *testing.T) {
	cfg := ServerConfig{SecretEnvVar: "PAGESMITH_TEST_SECRET"}

	t.Setenv("PAGESMITH_TEST_SECRET", "hunter2")
	assert.Equal(t, "hunter2", cfg.Secret())

	t.Setenv("PAGESMITH_TEST_SECRET", "")
	assert.Empty(t, cfg.Secret())
}

func TestLLMConfig_APIKey(t *testing.T) {
	cfg := LLMConfig{APIKeyEnvVar: "PAGESMITH_TEST_LLM_KEY"}
	t.Setenv("PAGESMITH_TEST_LLM_KEY", "sk-test")
	assert.Equal(t, "sk-test", cfg.APIKey())
}

func TestHubConfig_Token(t *testing.T) {
	cfg := HubConfig{TokenEnvVar: "PAGESMITH_TEST_HUB_TOKEN"}
	t.Setenv("PAGESMITH_TEST_HUB_TOKEN", "ghp_test")
	assert.Equal(t, "ghp_test", cfg.Token())
}

func TestValidate(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
	})

	t.Run("empty listen addr", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.ListenAddr = ""
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidServer)
	})

	t.Run("zero read timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.ReadTimeout = 0
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidServer)
	})

	t.Run("excessive concurrency", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.MaxConcurrentDeploys = 1000
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidServer)
	})

	t.Run("relative llm base url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LLM.BaseURL = "aipipe.org/v1"
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidLLM)
	})

	t.Run("empty llm model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LLM.Model = ""
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidLLM)
	})

	t.Run("empty repo prefix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hub.RepoPrefix = ""
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidHub)
	})

	t.Run("negative pages settle", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hub.PagesSettle = -time.Second
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidHub)
	})

	t.Run("zero notify attempts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Notify.MaxAttempts = 0
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidNotify)
	})

	t.Run("tiny notify backoff", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Notify.InitialBackoff = time.Millisecond
		assert.ErrorIs(t, Validate(cfg), errors.ErrConfigInvalidNotify)
	})
}

func TestLoadFromPaths(t *testing.T) {
	t.Run("defaults when no files", func(t *testing.T) {
		cfg, err := LoadFromPaths(context.Background(), "", "")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	})

	t.Run("global config overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		globalPath := filepath.Join(dir, "config.yaml")
		content := []byte("server:\n  listen_addr: \":9090\"\nllm:\n  model: \"openai/gpt-4o\"\n")
		require.NoError(t, os.WriteFile(globalPath, content, 0o600))

		cfg, err := LoadFromPaths(context.Background(), "", globalPath)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.ListenAddr)
		assert.Equal(t, "openai/gpt-4o", cfg.LLM.Model)
		// Untouched values keep defaults.
		assert.Equal(t, "pagesmith", cfg.Hub.RepoPrefix)
	})

	t.Run("project config overrides global", func(t *testing.T) {
		dir := t.TempDir()
		globalPath := filepath.Join(dir, "global.yaml")
		projectPath := filepath.Join(dir, "project.yaml")
		require.NoError(t, os.WriteFile(globalPath, []byte("hub:\n  repo_prefix: \"global\"\n"), 0o600))
		require.NoError(t, os.WriteFile(projectPath, []byte("hub:\n  repo_prefix: \"project\"\n"), 0o600))

		cfg, err := LoadFromPaths(context.Background(), projectPath, globalPath)
		require.NoError(t, err)
		assert.Equal(t, "project", cfg.Hub.RepoPrefix)
	})

	t.Run("duration strings decode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("notify:\n  timeout: \"45s\"\n"), 0o600))

		cfg, err := LoadFromPaths(context.Background(), path, "")
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, cfg.Notify.Timeout)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("notify:\n  max_attempts: 99\n"), 0o600))

		_, err := LoadFromPaths(context.Background(), path, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConfigInvalidNotify)
	})
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("PAGESMITH_HOME", t.TempDir())

	t.Run("applies non-zero overrides", func(t *testing.T) {
		overrides := &Config{}
		overrides.Server.ListenAddr = ":7070"
		overrides.LLM.Model = "openai/gpt-4.1-mini"

		cfg, err := LoadWithOverrides(context.Background(), overrides)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Server.ListenAddr)
		assert.Equal(t, "openai/gpt-4.1-mini", cfg.LLM.Model)
		assert.Equal(t, "pagesmith", cfg.Hub.RepoPrefix)
	})

	t.Run("rejects invalid overrides", func(t *testing.T) {
		overrides := &Config{}
		overrides.Notify.MaxAttempts = 50

		_, err := LoadWithOverrides(context.Background(), overrides)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConfigInvalidNotify)
	})

	t.Run("nil overrides keeps defaults", func(t *testing.T) {
		cfg, err := LoadWithOverrides(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	})
}

func TestWriteDefault(t *testing.T) {
	t.Run("writes starter file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
		written, err := WriteDefault(path)
		require.NoError(t, err)
		assert.True(t, written)

		data, err := os.ReadFile(path) //nolint:gosec // test-controlled path
		require.NoError(t, err)
		assert.Contains(t, string(data), "pagesmith configuration")
		assert.Contains(t, string(data), "listen_addr")

		// The generated file must round-trip through the loader.
		cfg, err := LoadFromPaths(context.Background(), path, "")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	})

	t.Run("does not overwrite existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  listen_addr: \":1234\"\n"), 0o600))

		written, err := WriteDefault(path)
		require.NoError(t, err)
		assert.False(t, written)

		data, err := os.ReadFile(path) //nolint:gosec // test-controlled path
		require.NoError(t, err)
		assert.Contains(t, string(data), ":1234")
	})
}
