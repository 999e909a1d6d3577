package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lexlapax/autoobj/pkg/auto"
	"github.com/lexlapax/autoobj/pkg/log"
)

const defaultTimeoutMs = 1000

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from a byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvironmentOverrides(&config)
	applyDefaults(&config)

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadEnvFiles loads variables from .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped; with no arguments ./.env is tried.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func applyEnvironmentOverrides(config *Config) {
	if level := os.Getenv("AUTOOBJ_LOG_LEVEL"); level != "" {
		config.Logging.Level = log.Level(level)
	}

	if format := os.Getenv("AUTOOBJ_LOG_FORMAT"); format != "" {
		config.Logging.Format = log.Format(format)
	}

	if output := os.Getenv("AUTOOBJ_WARNINGS_OUTPUT"); output != "" {
		config.Warnings.Output = output
	}

	// Script paths use the OS list separator, like PATH
	if paths := os.Getenv("AUTOOBJ_SCRIPT_PATHS"); paths != "" {
		config.Scripting.Paths = filepath.SplitList(paths)
	}
}

// applyDefaults fills in unset values.
func applyDefaults(config *Config) {
	if config.Logging.Level == "" {
		config.Logging.Level = log.InfoLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = log.TextFormat
	}

	if config.Scripting.Module == "" {
		config.Scripting.Module = auto.DefaultModuleName
	}
	if config.Scripting.TimeoutMs == 0 {
		config.Scripting.TimeoutMs = defaultTimeoutMs
	}

	if config.Warnings.Output == "" {
		config.Warnings.Output = WarningsToLog
	}
	if config.Warnings.Code == "" {
		config.Warnings.Code = auto.DefaultWarningCode
	}
	if config.Warnings.Type == "" {
		config.Warnings.Type = auto.DefaultWarningType
	}
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if !log.ValidLevel(config.Logging.Level) {
		return fmt.Errorf("unsupported log level: %s", config.Logging.Level)
	}
	if !log.ValidFormat(config.Logging.Format) {
		return fmt.Errorf("unsupported log format: %s", config.Logging.Format)
	}

	switch strings.ToLower(config.Warnings.Output) {
	case WarningsToLog, WarningsToStderr, WarningsOff:
		config.Warnings.Output = strings.ToLower(config.Warnings.Output)
	default:
		return fmt.Errorf("unsupported warnings output: %s (must be log, stderr, or none)", config.Warnings.Output)
	}

	if strings.ContainsAny(config.Scripting.Module, " .\t") {
		return fmt.Errorf("invalid module name: %q", config.Scripting.Module)
	}

	return nil
}
