// Package config provides configuration management for pagesmith with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (PAGESMITH_* prefix)
//  3. Project config (.pagesmith/config.yaml)
//  4. Global config (~/.pagesmith/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// Secrets (deploy secret, hosting token, LLM API key) are never stored in
// config files; only the names of the environment variables that carry them
// are configurable.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"os"
	"time"
)

// Config is the root configuration structure for pagesmith.
// It contains all configuration sections for the service.
type Config struct {
	// Server contains settings for the HTTP intake server.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// LLM contains settings for the chat-completions provider.
	LLM LLMConfig `yaml:"llm" mapstructure:"llm"`

	// Hub contains settings for the repository-hosting API.
	Hub HubConfig `yaml:"hub" mapstructure:"hub"`

	// Notify contains settings for completion-notice delivery.
	Notify NotifyConfig `yaml:"notify" mapstructure:"notify"`
}

// ServerConfig contains settings for the HTTP intake server.
type ServerConfig struct {
	// ListenAddr is the address the server binds to.
	// Default: ":8080"
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr"`

	// SecretEnvVar is the environment variable holding the shared deploy
	// secret. The secret itself never appears in config files.
	// Default: "PAGESMITH_SECRET"
	SecretEnvVar string `yaml:"secret_env_var" mapstructure:"secret_env_var"`

	// ReadTimeout bounds how long reading a request may take.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds how long writing a response may take.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// ShutdownTimeout is how long the server waits for in-flight
	// requests to drain on shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// MaxConcurrentDeploys bounds how many deploy pipelines may run in
	// the background at once. Requests beyond the limit are rejected
	// with a retry-later response.
	// Default: 4
	MaxConcurrentDeploys int `yaml:"max_concurrent_deploys" mapstructure:"max_concurrent_deploys"`
}

// Secret reads the shared deploy secret from the configured environment
// variable. Empty means the secret is not configured.
func (c *ServerConfig) Secret() string {
	return os.Getenv(c.SecretEnvVar)
}

// LLMConfig contains settings for the chat-completions provider.
// The provider must expose an OpenAI-compatible /chat/completions endpoint.
type LLMConfig struct {
	// BaseURL is the provider endpoint, e.g. an OpenRouter-compatible proxy.
	// Default: "https://aipipe.org/openrouter/v1"
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Model is the fully qualified model name sent to the provider.
	// Default: "openai/gpt-4o-mini"
	Model string `yaml:"model" mapstructure:"model"`

	// APIKeyEnvVar is the environment variable holding the provider API key.
	// Default: "LLM_API_KEY"
	APIKeyEnvVar string `yaml:"api_key_env_var" mapstructure:"api_key_env_var"`

	// Timeout is the maximum duration for a single completion call.
	// Default: 5m
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// APIKey reads the provider API key from the configured environment variable.
func (c *LLMConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnvVar)
}

// HubConfig contains settings for the repository-hosting API.
type HubConfig struct {
	// BaseURL is the REST API endpoint.
	// Default: "https://api.github.com"
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// TokenEnvVar is the environment variable holding the API token.
	// Default: "GITHUB_TOKEN"
	TokenEnvVar string `yaml:"token_env_var" mapstructure:"token_env_var"`

	// RepoPrefix is prepended to the task identifier to form repository names.
	// Default: "pagesmith"
	RepoPrefix string `yaml:"repo_prefix" mapstructure:"repo_prefix"`

	// Timeout is the maximum duration for a single API call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// PagesSettle is how long the pipeline waits after committing files
	// before resolving the head SHA.
	// Default: 5s
	PagesSettle time.Duration `yaml:"pages_settle" mapstructure:"pages_settle"`
}

// Token reads the hosting API token from the configured environment variable.
func (c *HubConfig) Token() string {
	return os.Getenv(c.TokenEnvVar)
}

// NotifyConfig contains settings for completion-notice delivery.
type NotifyConfig struct {
	// MaxAttempts is the number of delivery attempts.
	// Default: 4
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// InitialBackoff is the delay before the second attempt; the delay
	// doubles after each failure.
	// Default: 1s
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`

	// Timeout is the per-request timeout for a delivery attempt.
	// Default: 20s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}
