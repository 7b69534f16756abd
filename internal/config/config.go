// Package config loads layered scan defaults from YAML. Flags always win
// over config; config exists so CI pipelines and repos can pin defaults
// without repeating them on every invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deepsweep-ai/deepsweep/internal/safefile"
)

// Config mirrors the scan flag names. Nil pointers and empty strings mean
// "not set" so merging can tell an explicit false/zero from an absent key.
type Config struct {
	Format       string   `yaml:"format,omitempty"`
	Output       string   `yaml:"output,omitempty"`
	FailOn       string   `yaml:"fail_on,omitempty"`
	RulesDir     string   `yaml:"rules_dir,omitempty"`
	Workers      *int     `yaml:"workers,omitempty"`
	MaxFileBytes *int64   `yaml:"max_file_bytes,omitempty"`
	Include      []string `yaml:"include,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
	NoColor      *bool    `yaml:"no_color,omitempty"`
	Telemetry    *bool    `yaml:"telemetry,omitempty"`
	BadgeLabel   string   `yaml:"badge_label,omitempty"`
	BadgeStyle   string   `yaml:"badge_style,omitempty"`
}

// GlobalPath returns the global config file location, "" when the home
// directory cannot be resolved.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "deepsweep", "config.yaml")
}

// localName is looked up in the scanned directory's working tree.
const localName = ".deepsweep.yaml"

// Load reads config from layered sources:
//  1. ~/.config/deepsweep/config.yaml (global)
//  2. ./.deepsweep.yaml (repo-local, takes precedence)
//
// Missing files are silently ignored. Returns zero Config if neither exists.
func Load() (Config, error) {
	var merged Config

	if globalPath := GlobalPath(); globalPath != "" {
		global, err := loadFile(globalPath)
		if err != nil {
			return Config{}, fmt.Errorf("load global config %s: %w", globalPath, err)
		}
		merged = merge(merged, global)
	}

	if cwd, err := os.Getwd(); err == nil && cwd != "" {
		localPath := filepath.Join(cwd, localName)
		local, err := loadFile(localPath)
		if err != nil {
			return Config{}, fmt.Errorf("load local config %s: %w", localPath, err)
		}
		merged = merge(merged, local)
	}

	return merged, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return Config{}, nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// merge applies overrides from b onto a. Set fields in b win.
func merge(a, b Config) Config {
	if b.Format != "" {
		a.Format = b.Format
	}
	if b.Output != "" {
		a.Output = b.Output
	}
	if b.FailOn != "" {
		a.FailOn = b.FailOn
	}
	if b.RulesDir != "" {
		a.RulesDir = b.RulesDir
	}
	if b.Workers != nil {
		a.Workers = b.Workers
	}
	if b.MaxFileBytes != nil {
		a.MaxFileBytes = b.MaxFileBytes
	}
	if len(b.Include) > 0 {
		a.Include = b.Include
	}
	if len(b.Exclude) > 0 {
		a.Exclude = b.Exclude
	}
	if b.NoColor != nil {
		a.NoColor = b.NoColor
	}
	if b.Telemetry != nil {
		a.Telemetry = b.Telemetry
	}
	if b.BadgeLabel != "" {
		a.BadgeLabel = b.BadgeLabel
	}
	if b.BadgeStyle != "" {
		a.BadgeStyle = b.BadgeStyle
	}
	return a
}

// Get returns the string rendering of one scalar config key.
func Get(cfg Config, key string) (string, error) {
	switch key {
	case "format":
		return cfg.Format, nil
	case "output":
		return cfg.Output, nil
	case "fail_on":
		return cfg.FailOn, nil
	case "rules_dir":
		return cfg.RulesDir, nil
	case "workers":
		if cfg.Workers == nil {
			return "", nil
		}
		return strconv.Itoa(*cfg.Workers), nil
	case "max_file_bytes":
		if cfg.MaxFileBytes == nil {
			return "", nil
		}
		return strconv.FormatInt(*cfg.MaxFileBytes, 10), nil
	case "no_color":
		if cfg.NoColor == nil {
			return "", nil
		}
		return strconv.FormatBool(*cfg.NoColor), nil
	case "telemetry":
		if cfg.Telemetry == nil {
			return "", nil
		}
		return strconv.FormatBool(*cfg.Telemetry), nil
	case "badge_label":
		return cfg.BadgeLabel, nil
	case "badge_style":
		return cfg.BadgeStyle, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set stores one scalar key in the global config file, creating the file
// and its directory as needed.
func Set(key, value string) error {
	path := GlobalPath()
	if path == "" {
		return fmt.Errorf("cannot resolve home directory for global config")
	}

	cfg, err := loadFile(path)
	if err != nil {
		return fmt.Errorf("load global config %s: %w", path, err)
	}
	if err := apply(&cfg, key, value); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := safefile.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func apply(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "output":
		cfg.Output = value
	case "fail_on":
		cfg.FailOn = value
	case "rules_dir":
		cfg.RulesDir = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("workers must be a positive integer, got %q", value)
		}
		cfg.Workers = &n
	case "max_file_bytes":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 1 {
			return fmt.Errorf("max_file_bytes must be a positive integer, got %q", value)
		}
		cfg.MaxFileBytes = &n
	case "no_color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("no_color must be true or false, got %q", value)
		}
		cfg.NoColor = &b
	case "telemetry":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("telemetry must be true or false, got %q", value)
		}
		cfg.Telemetry = &b
	case "badge_label":
		cfg.BadgeLabel = value
	case "badge_style":
		cfg.BadgeStyle = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
