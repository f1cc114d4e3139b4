// Package config provides Viper-based configuration loading for the data
// preparation tools.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// PathsConfig locates every input and output. Relative paths are resolved
// against Config.Root.
type PathsConfig struct {
	// Units is the project-owned unit list.
	Units string `mapstructure:"units"`
	// Civilizations is the project-owned civilization list.
	Civilizations string `mapstructure:"civilisations"`
	// Dataset is the raw game-data export with objects and civilizations.
	Dataset string `mapstructure:"dataset"`
	// IconSource is the icon bundle root holding objects/ and civilizations/.
	IconSource string `mapstructure:"icon_source"`
	UnitsOut   string `mapstructure:"units_out"`
	CivsOut    string `mapstructure:"civs_out"`
	Manifest   string `mapstructure:"manifest"`

	TechtreeData    string `mapstructure:"techtree_data"`
	TechtreeStrings string `mapstructure:"techtree_strings"`
	Technologies    string `mapstructure:"technologies"`
	CivTechnologies string `mapstructure:"civ_technologies"`
}

// MatchingConfig tunes name resolution.
type MatchingConfig struct {
	// AliasesFile is an optional YAML alias table merged after the built-in rules.
	AliasesFile string `mapstructure:"aliases_file"`
	// DerivedPrefixes mark unit ids that may borrow their base unit's icon.
	DerivedPrefixes []string `mapstructure:"derived_prefixes"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	// Root is the project root; manifest asset paths are relative to it.
	Root     string         `mapstructure:"root"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Matching MatchingConfig `mapstructure:"matching"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Resolve returns p joined to Root unless p is absolute or empty.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var err error
	if c.Root == "" {
		err = multierr.Append(err, errors.New("root must not be empty"))
	}
	err = multierr.Append(err, validatePaths(c.Paths))
	err = multierr.Append(err, validateMatching(c.Matching))
	err = multierr.Append(err, validateLogging(c.Logging))

	if err != nil {
		msgs := make([]string, 0, len(multierr.Errors(err)))
		for _, e := range multierr.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	var err error
	required := []struct {
		key, value string
	}{
		{"paths.units", p.Units},
		{"paths.civilisations", p.Civilizations},
		{"paths.dataset", p.Dataset},
		{"paths.icon_source", p.IconSource},
		{"paths.units_out", p.UnitsOut},
		{"paths.civs_out", p.CivsOut},
		{"paths.manifest", p.Manifest},
		{"paths.techtree_data", p.TechtreeData},
		{"paths.techtree_strings", p.TechtreeStrings},
		{"paths.technologies", p.Technologies},
		{"paths.civ_technologies", p.CivTechnologies},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			err = multierr.Append(err, fmt.Errorf("%s must not be empty", r.key))
		}
	}
	return err
}

func validateMatching(m MatchingConfig) error {
	var err error
	for i, p := range m.DerivedPrefixes {
		if p == "" {
			err = multierr.Append(err, fmt.Errorf("matching.derived_prefixes[%d] must not be empty", i))
		}
	}
	return err
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// New returns a Viper instance with defaults and AOE2_ environment
// overrides applied, reading path when it is non-empty.
//
// Postcondition: Returns a configured Viper or a non-nil error when path
// cannot be read.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	// Environment variable overrides with AOE2_ prefix
	v.SetEnvPrefix("AOE2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path uses defaults
// and the environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults reproduces the fixed layout the tools were first written
// against: project files under data/ and assets/, exports under /tmp.
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")

	v.SetDefault("paths.units", "data/units.json")
	v.SetDefault("paths.civilisations", "data/civilisations.json")
	v.SetDefault("paths.dataset", "/tmp/aoc_100.json")
	v.SetDefault("paths.icon_source", "/tmp/aoe2-icon-resources")
	v.SetDefault("paths.units_out", "assets/units")
	v.SetDefault("paths.civs_out", "assets/civs")
	v.SetDefault("paths.manifest", "data/icons.json")
	v.SetDefault("paths.techtree_data", "/tmp/aoe2techtree_data.json")
	v.SetDefault("paths.techtree_strings", "/tmp/aoe2techtree_strings_en.json")
	v.SetDefault("paths.technologies", "data/technologies.json")
	v.SetDefault("paths.civ_technologies", "data/civ_technologies.json")

	v.SetDefault("matching.aliases_file", "")
	v.SetDefault("matching.derived_prefixes", []string{"elite_"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
