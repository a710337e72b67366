package config

import (
	"net/url"
	"time"

	"github.com/mrz1836/pagesmith/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Server listen address and secret env var must not be empty
//   - Server timeouts and concurrency bound must be positive
//   - LLM base URL must be absolute, model must not be empty, timeout positive
//   - Hub base URL must be absolute, repo prefix must not be empty
//   - Notify attempts must be between 1 and 10, backoff and timeout positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateServerConfig(&cfg.Server); err != nil {
		return err
	}
	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return err
	}
	if err := validateHubConfig(&cfg.Hub); err != nil {
		return err
	}
	return validateNotifyConfig(&cfg.Notify)
}

// validateServerConfig checks server-specific configuration values.
func validateServerConfig(cfg *ServerConfig) error {
	if cfg.ListenAddr == "" {
		return errors.Wrap(errors.ErrConfigInvalidServer,
			"server.listen_addr must not be empty")
	}
	if cfg.SecretEnvVar == "" {
		return errors.Wrap(errors.ErrConfigInvalidServer,
			"server.secret_env_var must not be empty")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.read_timeout must be positive, got %s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.write_timeout must be positive, got %s", cfg.WriteTimeout)
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.shutdown_timeout must be positive, got %s", cfg.ShutdownTimeout)
	}
	if cfg.MaxConcurrentDeploys < 1 || cfg.MaxConcurrentDeploys > 64 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"server.max_concurrent_deploys must be between 1 and 64, got %d", cfg.MaxConcurrentDeploys)
	}
	return nil
}

// validateLLMConfig checks LLM-specific configuration values.
func validateLLMConfig(cfg *LLMConfig) error {
	if err := validateAbsoluteURL(cfg.BaseURL); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.base_url %q is not an absolute URL", cfg.BaseURL)
	}
	if cfg.Model == "" {
		return errors.Wrap(errors.ErrConfigInvalidLLM,
			"llm.model must not be empty")
	}
	if cfg.APIKeyEnvVar == "" {
		return errors.Wrap(errors.ErrConfigInvalidLLM,
			"llm.api_key_env_var must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLLM,
			"llm.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

// validateHubConfig checks hosting-specific configuration values.
func validateHubConfig(cfg *HubConfig) error {
	if err := validateAbsoluteURL(cfg.BaseURL); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidHub,
			"hub.base_url %q is not an absolute URL", cfg.BaseURL)
	}
	if cfg.TokenEnvVar == "" {
		return errors.Wrap(errors.ErrConfigInvalidHub,
			"hub.token_env_var must not be empty")
	}
	if cfg.RepoPrefix == "" {
		return errors.Wrap(errors.ErrConfigInvalidHub,
			"hub.repo_prefix must not be empty")
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidHub,
			"hub.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.PagesSettle < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidHub,
			"hub.pages_settle cannot be negative, got %s", cfg.PagesSettle)
	}
	return nil
}

// validateNotifyConfig checks notification-specific configuration values.
func validateNotifyConfig(cfg *NotifyConfig) error {
	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 10 {
		return errors.Wrapf(errors.ErrConfigInvalidNotify,
			"notify.max_attempts must be between 1 and 10, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff < 100*time.Millisecond {
		return errors.Wrapf(errors.ErrConfigInvalidNotify,
			"notify.initial_backoff must be at least 100ms, got %s", cfg.InitialBackoff)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidNotify,
			"notify.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}

// validateAbsoluteURL returns an error unless s parses as an absolute
// http or https URL.
func validateAbsoluteURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ErrEmptyValue
	}
	if u.Host == "" {
		return errors.ErrEmptyValue
	}
	return nil
}
