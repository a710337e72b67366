package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/pagesmith/internal/errors"
)

// newViperInstance creates a new Viper instance with standard pagesmith configuration.
// This includes environment variable prefix (PAGESMITH_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PAGESMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
// This helps consolidate the common pattern of checking for missing config files.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (PAGESMITH_* prefix)
//  2. Project config (.pagesmith/config.yaml)
//  3. Global config (~/.pagesmith/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are expected in many scenarios).
//
// The context parameter is accepted for API consistency and zerolog context
// extraction; config file reads are fast local I/O and are not canceled.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Load global config first (lower precedence)
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	// Load project config (higher precedence, merges over global)
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("server.listen_addr", cfg.Server.ListenAddr).
		Str("llm.model", cfg.LLM.Model).
		Str("hub.repo_prefix", cfg.Hub.RepoPrefix).
		Int("notify.max_attempts", cfg.Notify.MaxAttempts).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.pagesmith/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := globalConfigPathIfExists()
	if !ok {
		// Global config doesn't exist or home dir unavailable, skip silently
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// globalConfigPathIfExists returns the global config path if it exists.
// Returns empty string and false if the home directory cannot be determined
// or the config file does not exist.
func globalConfigPathIfExists() (string, bool) {
	path, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// loadProjectConfig attempts to load the project config file (.pagesmith/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		// Project config doesn't exist, skip silently
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// The overrides parameter contains values from CLI flags which have the
// highest precedence in the configuration hierarchy.
//
// Only non-zero values in overrides are applied. Zero values are ignored
// to allow partial overrides.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	// Re-validate after applying overrides
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// This function allows precise control over which config files are loaded.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	// Load global config first (lower precedence)
	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	// Load project config (higher precedence, merges over global)
	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.secret_env_var", "PAGESMITH_SECRET")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_concurrent_deploys", 4)

	// LLM defaults
	v.SetDefault("llm.base_url", "https://aipipe.org/openrouter/v1")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.api_key_env_var", "LLM_API_KEY")
	v.SetDefault("llm.timeout", "5m")

	// Hub defaults
	v.SetDefault("hub.base_url", "https://api.github.com")
	v.SetDefault("hub.token_env_var", "GITHUB_TOKEN")
	v.SetDefault("hub.repo_prefix", "pagesmith")
	v.SetDefault("hub.timeout", "60s")
	v.SetDefault("hub.pages_settle", "5s")

	// Notify defaults
	v.SetDefault("notify.max_attempts", 4)
	v.SetDefault("notify.initial_backoff", "1s")
	v.SetDefault("notify.timeout", "20s")
}

// applyOverrides merges non-zero override values into the config.
// Only non-zero values are applied to allow partial overrides.
func applyOverrides(cfg, overrides *Config) {
	// Server overrides
	if overrides.Server.ListenAddr != "" {
		cfg.Server.ListenAddr = overrides.Server.ListenAddr
	}
	if overrides.Server.SecretEnvVar != "" {
		cfg.Server.SecretEnvVar = overrides.Server.SecretEnvVar
	}
	if overrides.Server.MaxConcurrentDeploys != 0 {
		cfg.Server.MaxConcurrentDeploys = overrides.Server.MaxConcurrentDeploys
	}

	// LLM overrides
	if overrides.LLM.BaseURL != "" {
		cfg.LLM.BaseURL = overrides.LLM.BaseURL
	}
	if overrides.LLM.Model != "" {
		cfg.LLM.Model = overrides.LLM.Model
	}
	if overrides.LLM.Timeout != 0 {
		cfg.LLM.Timeout = overrides.LLM.Timeout
	}

	// Hub overrides
	if overrides.Hub.BaseURL != "" {
		cfg.Hub.BaseURL = overrides.Hub.BaseURL
	}
	if overrides.Hub.RepoPrefix != "" {
		cfg.Hub.RepoPrefix = overrides.Hub.RepoPrefix
	}
	if overrides.Hub.Timeout != 0 {
		cfg.Hub.Timeout = overrides.Hub.Timeout
	}

	// Notify overrides
	if overrides.Notify.MaxAttempts != 0 {
		cfg.Notify.MaxAttempts = overrides.Notify.MaxAttempts
	}
	if overrides.Notify.InitialBackoff != 0 {
		cfg.Notify.InitialBackoff = overrides.Notify.InitialBackoff
	}
	if overrides.Notify.Timeout != 0 {
		cfg.Notify.Timeout = overrides.Notify.Timeout
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
