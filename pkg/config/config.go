package config

import (
	"github.com/lexlapax/autoobj/pkg/log"
)

// Warning outputs
const (
	// WarningsToLog reports misuse through the structured logger
	WarningsToLog = "log"

	// WarningsToStderr writes one plain line per warning to stderr
	WarningsToStderr = "stderr"

	// WarningsOff installs no sink; misuse is silently ignored
	WarningsOff = "none"
)

// Config represents the top-level configuration for autoobj hosts.
type Config struct {
	// Logging configures the logging behavior
	Logging log.Config `yaml:"logging"`

	// Scripting configures the Lua scripting engine
	Scripting ScriptingConfig `yaml:"scripting"`

	// Warnings configures where interception warnings go
	Warnings WarningsConfig `yaml:"warnings"`
}

// ScriptingConfig configures the Lua scripting engine.
type ScriptingConfig struct {
	// Paths is a list of directories containing Lua scripts
	Paths []string `yaml:"paths"`

	// Sandbox restricts scripts to the safe standard libraries
	Sandbox *bool `yaml:"sandbox"`

	// TimeoutMs bounds a single script call; zero means the default, negative disables the limit
	TimeoutMs int `yaml:"timeout_ms"`

	// Module is the global name the dynamic object module is installed under
	Module string `yaml:"module"`
}

// SandboxEnabled reports the effective sandbox setting, on by default.
func (s ScriptingConfig) SandboxEnabled() bool {
	return s.Sandbox == nil || *s.Sandbox
}

// WarningsConfig configures the warning sink installed at startup.
type WarningsConfig struct {
	// Output is "log", "stderr" or "none"
	Output string `yaml:"output"`

	// Code identifies the warning, e.g. AUTO001
	Code string `yaml:"code"`

	// Type is the warning's short name, e.g. NoAccessFunction
	Type string `yaml:"type"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Logging: log.DefaultConfig(),
		Scripting: ScriptingConfig{
			Paths: []string{"./scripts"},
		},
	}
	applyDefaults(cfg)
	return cfg
}
