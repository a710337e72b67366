package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/pagesmith/internal/constants"
	"github.com/mrz1836/pagesmith/internal/errors"
)

// Home returns the pagesmith home directory path.
// If the PAGESMITH_HOME environment variable is set, it is used.
// Otherwise the default is ~/.pagesmith.
func Home() (string, error) {
	if home := os.Getenv("PAGESMITH_HOME"); home != "" {
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(userHome, constants.Home), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.pagesmith/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := Home()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
// This is always .pagesmith relative to the working directory.
func ProjectConfigDir() string {
	return constants.Home
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .pagesmith/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}
