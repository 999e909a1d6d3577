package auto

import (
	"log/slog"
	"sync"

	"github.com/lexlapax/autoobj/pkg/log"
)

// Environment owns the state shared by every dynamic object and class it
// creates: the warning sink and the registry of created classes. Objects
// keep a reference to the Environment that built them, so separate
// environments never observe each other's sink.
type Environment struct {
	mu      sync.RWMutex
	sink    WarningSink
	classes []ClassInfo
	logger  *slog.Logger
}

// ClassInfo describes a class created through an Environment.
type ClassInfo struct {
	ID   string
	Name string
}

// Option configures an Environment.
type Option func(*Environment)

// WithSink installs sink at construction, as if Init had been called.
func WithSink(sink WarningSink) Option {
	return func(e *Environment) {
		e.sink = sink
	}
}

// WithLogger sets the logger used for the environment's own diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// NewEnvironment returns an Environment with no warning sink.
func NewEnvironment(opts ...Option) *Environment {
	e := &Environment{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.WithComponent(slog.Default(), "auto")
	}
	return e
}

// Init installs sink as the warning sink, replacing any previous one.
func (e *Environment) Init(sink WarningSink) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

// Reset removes the warning sink. Reads on objects without a resolver are
// silently ignored afterwards.
func (e *Environment) Reset() {
	e.Init(nil)
}

// Sink returns the current warning sink, or nil when none is configured.
func (e *Environment) Sink() WarningSink {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sink
}

// Classes lists the classes created through e, oldest first.
func (e *Environment) Classes() []ClassInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]ClassInfo(nil), e.classes...)
}

func (e *Environment) register(info ClassInfo) {
	e.mu.Lock()
	e.classes = append(e.classes, info)
	e.mu.Unlock()
	e.logger.Debug("Dynamic class created", "class_id", info.ID, "class_name", info.Name)
}
