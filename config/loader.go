package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/gate/errors"
	"github.com/grovetools/gate/schema"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// configFileNames are the recognized configuration file names, in lookup order.
var configFileNames = []string{"gate.yml", "gate.yaml", "gate.toml"}

// FindConfigFile walks up from startDir looking for a gate configuration
// file, so the gate can be invoked from any subdirectory of a repository.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(startDir)
		}
		dir = parent
	}
}

// Load reads, parses, and validates a configuration file. The parser is
// chosen by file extension; validation uses the embedded JSON schema and
// runs before defaults are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read configuration").
			WithDetail("path", path)
	}

	isTOML := strings.HasSuffix(path, ".toml")

	// Validate the raw document, not the decoded struct: decoding silently
	// drops unknown fields, and those are exactly what validation should
	// catch.
	var raw interface{}
	if isTOML {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse configuration").
			WithDetail("path", path)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to load configuration schema")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "configuration does not match schema").
			WithDetail("path", path)
	}

	var cfg Config
	if isTOML {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse configuration").
			WithDetail("path", path)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// LoadDefault loads the configuration found by walking up from the current
// working directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to determine working directory")
	}

	path, err := FindConfigFile(cwd)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
