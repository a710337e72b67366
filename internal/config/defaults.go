package config

import (
	"github.com/mrz1836/pagesmith/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			// ListenAddr: the conventional service port.
			ListenAddr: constants.DefaultListenAddr,

			// SecretEnvVar: keeps the shared secret out of config files.
			SecretEnvVar: "PAGESMITH_SECRET",

			ReadTimeout:     constants.DefaultReadTimeout,
			WriteTimeout:    constants.DefaultWriteTimeout,
			ShutdownTimeout: constants.DefaultShutdownTimeout,

			// MaxConcurrentDeploys: each pipeline holds an LLM call and
			// several hosting API calls, so a small bound is enough.
			MaxConcurrentDeploys: constants.DefaultMaxConcurrentDeploys,
		},
		LLM: LLMConfig{
			// BaseURL: OpenRouter-compatible proxy endpoint.
			BaseURL: constants.DefaultLLMBaseURL,

			// Model: a small, fast model is sufficient for single-page
			// application synthesis.
			Model: constants.DefaultLLMModel,

			// APIKeyEnvVar: keeps the provider key out of config files.
			APIKeyEnvVar: "LLM_API_KEY",

			Timeout: constants.DefaultLLMTimeout,
		},
		Hub: HubConfig{
			BaseURL: constants.DefaultHubBaseURL,

			// TokenEnvVar: the standard GitHub token variable.
			TokenEnvVar: "GITHUB_TOKEN",

			RepoPrefix:  constants.DefaultRepoPrefix,
			Timeout:     constants.DefaultHubTimeout,
			PagesSettle: constants.DefaultPagesSettle,
		},
		Notify: NotifyConfig{
			// MaxAttempts and InitialBackoff give the 1s/2s/4s/8s schedule.
			MaxAttempts:    constants.NotifyMaxAttempts,
			InitialBackoff: constants.NotifyInitialBackoff,
			Timeout:        constants.DefaultNotifyTimeout,
		},
	}
}
