package config

import (
	"fmt"

	"github.com/grovetools/gate/hook"
	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/

// HookConfig is the declarative form of a single check in gate.yml.
type HookConfig struct {
	Name          string   `yaml:"name" toml:"name" json:"name" jsonschema:"description=Unique name of the check"`
	Enabled       *bool    `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty" jsonschema:"description=Whether this check may run (default: true)"`
	Files         string   `yaml:"files,omitempty" toml:"files,omitempty" json:"files,omitempty" jsonschema:"description=Regular expression matched against relative file paths; empty means the check always runs"`
	Exclude       string   `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty" jsonschema:"description=Regular expression removing paths that 'files' matched"`
	Entry         []string `yaml:"entry" toml:"entry" json:"entry" jsonschema:"description=Program and fixed arguments to execute"`
	PassFilenames *bool    `yaml:"pass_filenames,omitempty" toml:"pass_filenames,omitempty" json:"pass_filenames,omitempty" jsonschema:"description=Whether matched file paths are appended as arguments (default: true)"`
	Description   string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty" jsonschema:"description=Human-readable description of this check"`
}

// RunConfig tunes how triggered checks are executed.
type RunConfig struct {
	Workers     int    `yaml:"workers,omitempty" toml:"workers,omitempty" json:"workers,omitempty" jsonschema:"description=How many checks may run concurrently (default: 1)"`
	Timeout     string `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Per-check wall-clock limit as a Go duration (e.g. 2m); empty means no limit"`
	OutputLimit int    `yaml:"output_limit,omitempty" toml:"output_limit,omitempty" json:"output_limit,omitempty" jsonschema:"description=Captured output cap in bytes per stream"`
	GracePeriod string `yaml:"grace_period,omitempty" toml:"grace_period,omitempty" json:"grace_period,omitempty" jsonschema:"description=Grace period before a cancelled check is killed (default: 5s)"`
}

// Config is the parsed gate.yml / gate.toml.
type Config struct {
	Version string       `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration format version"`
	Hooks   []HookConfig `yaml:"hooks" toml:"hooks" json:"hooks" jsonschema:"description=Ordered list of checks; order fixes execution and report order"`
	Run     RunConfig    `yaml:"run,omitempty" toml:"run,omitempty" json:"run,omitempty" jsonschema:"description=Execution tuning"`

	// Sections carries tool-specific configuration (e.g. "logging") that
	// other packages decode on demand via UnmarshalSection.
	Sections map[string]interface{} `yaml:"sections,omitempty" toml:"sections,omitempty" json:"sections,omitempty" jsonschema:"description=Free-form per-tool configuration sections"`
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Run.Workers < 1 {
		c.Run.Workers = 1
	}
}

// BuildRegistry converts the declarative hook list into a validated
// registry. Any configuration error (duplicate name, invalid pattern)
// aborts here, before anything executes.
func (c *Config) BuildRegistry() (*hook.Registry, error) {
	reg := hook.NewRegistry()
	for i := range c.Hooks {
		hc := c.Hooks[i]
		def := &hook.Definition{
			Name:          hc.Name,
			Enabled:       hc.Enabled,
			Files:         hc.Files,
			Exclude:       hc.Exclude,
			Entry:         hc.Entry,
			PassFilenames: hc.PassFilenames,
			Description:   hc.Description,
		}
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// UnmarshalSection decodes a named section of the loaded configuration into
// the provided target struct. The target must be a pointer. A missing
// section is not an error; the target simply stays zero-valued.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalSection("logging", &logCfg)
func (c *Config) UnmarshalSection(key string, target interface{}) error {
	sectionConfig, ok := c.Sections[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(sectionConfig); err != nil {
		return fmt.Errorf("failed to decode section config for '%s': %w", key, err)
	}

	return nil
}
