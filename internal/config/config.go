// Package config loads squill's project configuration from squill.yaml,
// environment variables and CLI flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "squill.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "squill.yml"

// EnvPrefix is the prefix for environment overrides (SQUILL_DIALECT etc.).
const EnvPrefix = "SQUILL_"

// Config is the resolved configuration.
type Config struct {
	// Dialect is the registry name of the dialect to parse with.
	Dialect string `koanf:"dialect"`
	// Rules enables/disables lint rules by name.
	Rules map[string]bool `koanf:"rules"`
	// Include holds file globs linted when the command gets no paths.
	Include []string `koanf:"include"`
	// MaxDepth bounds grammar recursion per statement (0 = default).
	MaxDepth int `koanf:"max_depth"`
	// Verbose enables progress output.
	Verbose bool `koanf:"verbose"`
}

// Load resolves configuration: defaults, then the config file (explicit
// path, or squill.yaml discovered in dir), then SQUILL_* environment
// variables, then flags.
func Load(path, dir string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":   "ansi",
		"max_depth": 0,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile(dir)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("config flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	return &cfg, nil
}

// findConfigFile finds squill.yaml or squill.yml in dir, or "".
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
