package config

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/pagesmith/internal/errors"
)

// configFileHeader is written at the top of generated config files.
const configFileHeader = `# pagesmith configuration
# Values here override built-in defaults. Environment variables with the
# PAGESMITH_ prefix override values in this file.
# Secrets are read from the environment variables named below and must
# never be placed in this file.
`

// filePerm is the permission used for generated config files.
const filePerm = 0o600

// dirPerm is the permission used for created config directories.
const dirPerm = 0o750

// WriteDefault writes the default configuration as YAML to the given path,
// creating parent directories as needed. An existing file is
// left untouched; created reports whether a new file was written.
func WriteDefault(path string) (created bool, err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return false, nil
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return false, errors.Wrap(err, "failed to marshal default config")
	}

	var buf bytes.Buffer
	buf.WriteString(configFileHeader)
	buf.WriteString("\n")
	buf.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return false, errors.Wrap(err, "failed to write config file")
	}
	return true, nil
}
