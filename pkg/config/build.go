package config

import (
	"io"
	"log/slog"

	"github.com/lexlapax/autoobj/pkg/auto"
	"github.com/lexlapax/autoobj/pkg/scripting"
)

// WarningSink builds the sink selected by Output. It returns nil for
// "none", which leaves reads on resolver-less objects silent.
func (w WarningsConfig) WarningSink(logger *slog.Logger, stderr io.Writer) auto.WarningSink {
	switch w.Output {
	case WarningsOff:
		return nil
	case WarningsToStderr:
		return &auto.WriterSink{W: stderr, Code: w.Code, Type: w.Type}
	default:
		return &auto.LogSink{Logger: logger, Code: w.Code, Type: w.Type}
	}
}

// EngineConfig translates the scripting section for the Lua engine.
func (s ScriptingConfig) EngineConfig() scripting.Config {
	cfg := scripting.DefaultConfig()
	cfg.EnableSandboxing = s.SandboxEnabled()
	cfg.ScriptTimeoutMs = s.TimeoutMs
	if s.TimeoutMs < 0 {
		cfg.ScriptTimeoutMs = 0
	}
	return cfg
}
