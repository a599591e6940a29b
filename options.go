package uci

import (
	"time"

	"github.com/rs/zerolog"
)

// Default engine configuration values.
const (
	defaultHandshakeTimeout = 30 * time.Second
	defaultCommandTimeout   = 10 * time.Second
	defaultSearchTimeout    = 5 * time.Minute
	defaultGracePeriod      = 5 * time.Second
	defaultScannerBuffer    = 1 << 20 // 1 MB

	// validateMoveTime is the search budget of Engine.Validate.
	validateMoveTime = 100 * time.Millisecond
)

// EngineOptions holds resolved construction-time configuration for an Engine.
// Use New with Option functions to customize these values.
type EngineOptions struct {
	// Args are passed to the engine executable.
	Args []string

	// Dir is the working directory of the engine. Empty inherits ours.
	Dir string

	// Env is the engine environment. Nil inherits ours.
	Env []string

	// HandshakeTimeout bounds the uci/uciok exchange performed by New.
	HandshakeTimeout time.Duration

	// CommandTimeout bounds commands that are not searches, and the wait
	// for bestmove after a stop.
	CommandTimeout time.Duration

	// SearchTimeout bounds searches without a time budget (depth, nodes,
	// mate, clock). A movetime search waits movetime + CommandTimeout.
	SearchTimeout time.Duration

	// GracePeriod is how long Close waits after quit, and again after
	// SIGTERM, before escalating.
	GracePeriod time.Duration

	// ScannerBuffer is the maximum line size in bytes for engine output.
	ScannerBuffer int

	// Logger receives debug traces of the protocol exchange.
	Logger zerolog.Logger

	// Observers are registered before the engine is launched, so they see
	// the handshake output.
	Observers []Observer
}

// Option configures an Engine at construction time.
type Option func(*EngineOptions)

// WithArgs sets arguments passed to the engine executable.
func WithArgs(args ...string) Option {
	return func(o *EngineOptions) {
		o.Args = args
	}
}

// WithDir sets the working directory of the engine.
func WithDir(dir string) Option {
	return func(o *EngineOptions) {
		o.Dir = dir
	}
}

// WithEnv sets the engine environment ("KEY=value" entries).
func WithEnv(env []string) Option {
	return func(o *EngineOptions) {
		o.Env = env
	}
}

// WithHandshakeTimeout bounds the handshake performed by New.
// Values <= 0 are ignored.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *EngineOptions) {
		if d > 0 {
			o.HandshakeTimeout = d
		}
	}
}

// WithCommandTimeout bounds non-search commands.
// Values <= 0 are ignored.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *EngineOptions) {
		if d > 0 {
			o.CommandTimeout = d
		}
	}
}

// WithSearchTimeout bounds searches without a time budget.
// Values <= 0 are ignored.
func WithSearchTimeout(d time.Duration) Option {
	return func(o *EngineOptions) {
		if d > 0 {
			o.SearchTimeout = d
		}
	}
}

// WithGracePeriod sets how long Close waits before each escalation step.
// Values <= 0 are ignored.
func WithGracePeriod(d time.Duration) Option {
	return func(o *EngineOptions) {
		if d > 0 {
			o.GracePeriod = d
		}
	}
}

// WithScannerBuffer sets the maximum engine output line size in bytes.
// Values <= 0 are ignored.
func WithScannerBuffer(size int) Option {
	return func(o *EngineOptions) {
		if size > 0 {
			o.ScannerBuffer = size
		}
	}
}

// WithLogger sets the logger for protocol traces.
func WithLogger(l zerolog.Logger) Option {
	return func(o *EngineOptions) {
		o.Logger = l
	}
}

// WithObserver registers an observer before launch. Nil is ignored.
func WithObserver(obs Observer) Option {
	return func(o *EngineOptions) {
		if obs != nil {
			o.Observers = append(o.Observers, obs)
		}
	}
}

// ResolveOptions applies functional options over the defaults.
func ResolveOptions(opts ...Option) EngineOptions {
	o := EngineOptions{
		HandshakeTimeout: defaultHandshakeTimeout,
		CommandTimeout:   defaultCommandTimeout,
		SearchTimeout:    defaultSearchTimeout,
		GracePeriod:      defaultGracePeriod,
		ScannerBuffer:    defaultScannerBuffer,
		Logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
