package auto

import (
	"fmt"
	"io"
	"log/slog"

	lua "github.com/yuin/gopher-lua"
)

// NoAccessMessage is reported when a property read is intercepted on an
// object without a callable resolver.
const NoAccessMessage = "No access resolver implemented in the object."

// Default warning identifiers.
const (
	DefaultWarningCode = "AUTO001"
	DefaultWarningType = "NoAccessFunction"
)

// WarningSink receives misuse reports from the interception engine.
// EmitWarning runs synchronously on the state performing the read; a Lua
// error raised from it propagates to that read.
type WarningSink interface {
	EmitWarning(L *lua.LState, msg string)
}

// WarningFunc adapts a function to WarningSink.
type WarningFunc func(L *lua.LState, msg string)

// EmitWarning calls f.
func (f WarningFunc) EmitWarning(L *lua.LState, msg string) {
	f(L, msg)
}

// LogSink reports warnings through a structured logger.
type LogSink struct {
	Logger *slog.Logger
	Code   string
	Type   string
}

// NewLogSink returns a LogSink with the default code and type.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{Logger: logger, Code: DefaultWarningCode, Type: DefaultWarningType}
}

// EmitWarning implements WarningSink.
func (s *LogSink) EmitWarning(_ *lua.LState, msg string) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, "code", s.Code, "type", s.Type)
}

// WriterSink writes one formatted line per warning, in the shape
// "(autoobj) [CODE] Type: message".
type WriterSink struct {
	W    io.Writer
	Code string
	Type string
}

// NewWriterSink returns a WriterSink with the default code and type.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{W: w, Code: DefaultWarningCode, Type: DefaultWarningType}
}

// EmitWarning implements WarningSink.
func (s *WriterSink) EmitWarning(_ *lua.LState, msg string) {
	fmt.Fprintf(s.W, "(autoobj) [%s] %s: %s\n", s.Code, s.Type, msg)
}

// luaSink forwards warnings to a function installed from Lua via init.
type luaSink struct {
	fn lua.LValue
}

func (s *luaSink) EmitWarning(L *lua.LState, msg string) {
	L.Push(s.fn)
	L.Push(lua.LString(msg))
	L.Call(1, 0)
}
