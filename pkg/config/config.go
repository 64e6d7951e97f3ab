// Package config loads and validates application configuration from a
// YAML file, with defaults and command-line overrides layered on top.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Source          string   `yaml:"source"`
	Destination     string   `yaml:"destination"`
	NamingPattern   string   `yaml:"naming_pattern"`
	FolderHierarchy string   `yaml:"folder_hierarchy"`
	FileTypes       []string `yaml:"file_types"`
	Move            bool     `yaml:"move"`
	Recursive       bool     `yaml:"recursive"`
	DryRun          bool     `yaml:"dry_run"`
	LogLevel        string   `yaml:"log_level"`
	LogFormat       string   `yaml:"log_format"`
}

// Default returns the configuration used when no file or flags override it.
func Default() Config {
	return Config{
		NamingPattern:   "{datetime}_{original_filename}",
		FolderHierarchy: "flat",
		FileTypes: []string{
			"jpg", "jpeg", "png", "nef", "cr2", "arw", "tiff", "tif", "heic",
		},
		Move:      true,
		Recursive: true,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML configuration file over the defaults. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and fills derived defaults: the source
// must be an existing directory, and the destination falls back to the
// source when unset.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source directory must be specified")
	}

	info, err := os.Stat(c.Source)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", c.Source)
	}

	if c.Destination == "" {
		c.Destination = c.Source
	}

	if c.NamingPattern == "" {
		return errors.New("naming pattern must not be empty")
	}

	return nil
}
