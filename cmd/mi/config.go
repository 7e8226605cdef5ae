// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 mi Contributors

package main

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/cwhitelytning/mi/pkg/logging"
	"github.com/cwhitelytning/mi/pkg/module"
)

// Error codes for host configuration.
const (
	CodeConfigRead    = "CONFIG_READ_FAILED"
	CodeConfigInvalid = "CONFIG_INVALID"
)

// Default values for host flags.
const (
	defaultLogFormat = "json"
	defaultLogLevels = "all"
)

// ModuleConfig describes one node of the module tree. A node with children
// becomes a nested loader; a node with only a path becomes a leaf module.
type ModuleConfig struct {
	Path    string         `koanf:"path"`
	Modules []ModuleConfig `koanf:"modules"`
}

// Config holds the host configuration.
type Config struct {
	LogFormat string         `koanf:"log-format"`
	LogLevels string         `koanf:"log-levels"`
	Modules   []ModuleConfig `koanf:"modules"`
}

// Validate checks that the configuration is usable.
func (cfg *Config) Validate() error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return oops.Code(CodeConfigInvalid).
			With("log-format", cfg.LogFormat).
			Errorf("log-format must be 'json' or 'text'")
	}
	if _, err := logging.ParseFlags(cfg.LogLevels); err != nil {
		return err
	}
	return validateModules(cfg.Modules)
}

func validateModules(entries []ModuleConfig) error {
	for _, entry := range entries {
		if entry.Path == "" && len(entry.Modules) == 0 {
			return oops.Code(CodeConfigInvalid).
				Errorf("module entry needs a path, children, or both")
		}
		if err := validateModules(entry.Modules); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig merges the YAML config file (when given) with explicitly set
// command-line flags, flags winning. Defaults apply to anything left unset.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeConfigRead).
				With("path", configFile).
				Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code(CodeConfigRead).Wrap(err)
		}
	}

	cfg := &Config{
		LogFormat: defaultLogFormat,
		LogLevels: defaultLogLevels,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code(CodeConfigInvalid).Wrap(err)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if cfg.LogLevels == "" {
		cfg.LogLevels = defaultLogLevels
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildLoader constructs the module tree the config describes, rooted at a
// pure aggregator loader. Nothing is loaded yet.
func BuildLoader(cfg *Config, logger logging.Logger) *module.Loader {
	root := module.NewLoader(logger)
	attachEntries(root, cfg.Modules)
	return root
}

func attachEntries(parent *module.Loader, entries []ModuleConfig) {
	for _, entry := range entries {
		if len(entry.Modules) == 0 {
			parent.AttachModule(entry.Path)
			continue
		}
		child := parent.AttachLoader(entry.Path)
		attachEntries(child, entry.Modules)
	}
}
