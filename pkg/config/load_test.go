package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexlapax/autoobj/pkg/auto"
	"github.com/lexlapax/autoobj/pkg/log"
)

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
logging:
  level: debug
  format: json
scripting:
  paths: [./scripts, ./more]
  sandbox: false
  timeout_ms: 250
  module: dyn
warnings:
  output: STDERR
  code: DYN001
  type: Missing
`))
	require.NoError(t, err)

	assert.Equal(t, log.DebugLevel, cfg.Logging.Level)
	assert.Equal(t, log.JSONFormat, cfg.Logging.Format)
	assert.Equal(t, []string{"./scripts", "./more"}, cfg.Scripting.Paths)
	assert.False(t, cfg.Scripting.SandboxEnabled())
	assert.Equal(t, 250, cfg.Scripting.TimeoutMs)
	assert.Equal(t, "dyn", cfg.Scripting.Module)
	assert.Equal(t, WarningsToStderr, cfg.Warnings.Output)
	assert.Equal(t, "DYN001", cfg.Warnings.Code)
	assert.Equal(t, "Missing", cfg.Warnings.Type)
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, log.InfoLevel, cfg.Logging.Level)
	assert.Equal(t, log.TextFormat, cfg.Logging.Format)
	assert.True(t, cfg.Scripting.SandboxEnabled())
	assert.Equal(t, 1000, cfg.Scripting.TimeoutMs)
	assert.Equal(t, auto.DefaultModuleName, cfg.Scripting.Module)
	assert.Equal(t, WarningsToLog, cfg.Warnings.Output)
	assert.Equal(t, auto.DefaultWarningCode, cfg.Warnings.Code)
	assert.Equal(t, auto.DefaultWarningType, cfg.Warnings.Type)

	assert.Equal(t, cfg.Warnings, Default().Warnings)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "logging: [", "failed to parse config"},
		{"bad level", "logging: {level: verbose}", "unsupported log level"},
		{"bad format", "logging: {format: xml}", "unsupported log format"},
		{"bad output", "warnings: {output: pager}", "unsupported warnings output"},
		{"bad module", "scripting: {module: \"a.b\"}", "invalid module name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("AUTOOBJ_LOG_LEVEL", "warn")
	t.Setenv("AUTOOBJ_LOG_FORMAT", "json")
	t.Setenv("AUTOOBJ_WARNINGS_OUTPUT", "none")
	t.Setenv("AUTOOBJ_SCRIPT_PATHS", "a"+string(os.PathListSeparator)+"b")

	cfg, err := LoadFromBytes([]byte(`
logging: {level: debug}
warnings: {output: log}
scripting: {paths: [ignored]}
`))
	require.NoError(t, err)

	assert.Equal(t, log.Level("warn"), cfg.Logging.Level)
	assert.Equal(t, log.Format("json"), cfg.Logging.Format)
	assert.Equal(t, WarningsOff, cfg.Warnings.Output)
	assert.Equal(t, []string{"a", "b"}, cfg.Scripting.Paths)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("warnings: {output: none}\n"), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, WarningsOff, cfg.Warnings.Output)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("AUTOOBJ_TEST_FROM_FILE=loaded\nAUTOOBJ_TEST_PRESET=file\n"), 0600))

	t.Setenv("AUTOOBJ_TEST_PRESET", "process")
	// Setenv registers the cleanup for the value the file will set
	t.Setenv("AUTOOBJ_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("AUTOOBJ_TEST_FROM_FILE"))

	require.NoError(t, LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("AUTOOBJ_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("AUTOOBJ_TEST_PRESET"))

	// Nothing to load is not an error
	assert.NoError(t, LoadEnvFiles(filepath.Join(dir, "none.env")))
}

func TestWarningSink(t *testing.T) {
	var logBuf, errBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	w := WarningsConfig{Output: WarningsToStderr, Code: "X1", Type: "T"}
	sink := w.WarningSink(logger, &errBuf)
	require.NotNil(t, sink)
	sink.EmitWarning(nil, auto.NoAccessMessage)
	assert.Equal(t, "(autoobj) [X1] T: "+auto.NoAccessMessage+"\n", errBuf.String())

	w.Output = WarningsToLog
	w.WarningSink(logger, &errBuf).EmitWarning(nil, auto.NoAccessMessage)
	assert.Contains(t, logBuf.String(), "code=X1")

	w.Output = WarningsOff
	assert.Nil(t, w.WarningSink(logger, &errBuf))
}

func TestEngineConfig(t *testing.T) {
	off := false
	s := ScriptingConfig{Sandbox: &off, TimeoutMs: -1}
	cfg := s.EngineConfig()
	assert.False(t, cfg.EnableSandboxing)
	assert.Equal(t, 0, cfg.ScriptTimeoutMs)

	s = ScriptingConfig{TimeoutMs: 500}
	cfg = s.EngineConfig()
	assert.True(t, cfg.EnableSandboxing)
	assert.Equal(t, 500, cfg.ScriptTimeoutMs)
}
