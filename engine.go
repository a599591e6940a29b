//go:build !windows

package uci

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine is a running UCI engine subprocess driven synchronously.
//
// All methods are safe for concurrent use; commands are serialized so at
// most one is in flight. Any failure other than ErrUnknownOption and
// ErrInvalidCommand leaves the protocol in an unknown state, so the
// Engine closes itself and later calls return ErrClosed.
type Engine struct {
	id        string
	path      string
	opts      EngineOptions
	log       zerolog.Logger
	proc      *process
	conn      *conn
	registry  *Registry
	observers *observerSet

	mu       sync.Mutex
	bestMove string

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New launches the engine at path and performs the uci handshake. The
// option table is filled from the declarations the engine prints before
// uciok. The handshake is bounded by ctx and the handshake timeout; on
// failure the process is killed.
func New(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	o := ResolveOptions(opts...)
	if err := checkExecutable(path); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := o.Logger.With().Str("engine_id", id).Str("engine", filepath.Base(path)).Logger()

	proc, stdout, err := startProcess(path, o, log)
	if err != nil {
		return nil, err
	}

	observers := &observerSet{log: log}
	for _, obs := range o.Observers {
		observers.add(obs)
	}
	registry := newRegistry()
	c := newConn(stdout, proc.stdin, registry, observers, o.ScannerBuffer, log)
	go c.readLoop()
	go proc.reap(c.done)

	e := &Engine{
		id:        id,
		path:      path,
		opts:      o,
		log:       log,
		proc:      proc,
		conn:      c,
		registry:  registry,
		observers: observers,
	}

	if _, err := c.roundTrip(ctx, request{command: CmdUCI, timeout: o.HandshakeTimeout}); err != nil {
		e.closed.Store(true)
		proc.kill(o.GracePeriod)
		return nil, fmt.Errorf("uci: handshake: %w", err)
	}
	log.Debug().
		Str("name", c.engineName()).
		Int("options", registry.Len()).
		Msg("handshake complete")
	return e, nil
}

// Path returns the executable path given to New.
func (e *Engine) Path() string { return e.path }

// ID returns a unique identifier for this engine instance, used in logs.
func (e *Engine) ID() string { return e.id }

// Name returns the name the engine reported with "id name", or "".
func (e *Engine) Name() string { return e.conn.engineName() }

// Author returns the author the engine reported with "id author", or "".
func (e *Engine) Author() string { return e.conn.engineAuthor() }

// Options returns the engine's option table.
func (e *Engine) Options() *Registry { return e.registry }

// BestMove returns the best move from the most recent completed search,
// or "" if there was none or the engine reported no legal move.
func (e *Engine) BestMove() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bestMove
}

// Observe registers obs for every subsequent output line and returns a
// function that unregisters it.
func (e *Engine) Observe(obs Observer) (cancel func()) {
	if obs == nil {
		return func() {}
	}
	return e.observers.add(obs)
}

// Send writes a raw command and returns the engine line that acknowledged
// it. Commands without a protocol acknowledgement are confirmed with
// isready and return "readyok".
func (e *Engine) Send(ctx context.Context, command string) (string, error) {
	res, err := e.do(ctx, request{command: command, timeout: e.timeoutFor(command)})
	return res.line, err
}

// SetOption sets a declared option. An undeclared name fails with
// ErrUnknownOption without contacting the engine. The stored value is
// updated only after the engine confirms the command.
func (e *Engine) SetOption(ctx context.Context, name, value string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := e.registry.checkKnown(name); err != nil {
		return err
	}
	cmd := FormatSetOption(name, value)
	if _, err := e.do(ctx, request{command: cmd, timeout: e.opts.CommandTimeout}); err != nil {
		return err
	}
	return e.registry.update(name, value)
}

// SetPosition sets the board from fen, or the standard start position if
// fen is empty, then applies moves in long algebraic notation.
func (e *Engine) SetPosition(ctx context.Context, fen string, moves ...string) error {
	_, err := e.do(ctx, request{command: FormatPosition(fen, moves...), timeout: e.opts.CommandTimeout})
	return err
}

// NewGame tells the engine the next position is from a different game.
func (e *Engine) NewGame(ctx context.Context) error {
	_, err := e.do(ctx, request{command: CmdNewGame, timeout: e.opts.CommandTimeout})
	return err
}

// Validate runs a short search to confirm the engine is responsive.
func (e *Engine) Validate(ctx context.Context) error {
	_, err := e.GoMoveTime(ctx, validateMoveTime)
	return err
}

// Close stops the engine: it writes quit, closes stdin, and escalates to
// SIGTERM and SIGKILL if the engine does not exit within the grace period.
// Close is idempotent and returns the same result on every call.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		e.closeErr = e.proc.shutdown(e.opts.GracePeriod, func() error {
			return e.conn.writeLine(CmdQuit)
		})
		<-e.conn.done
		e.log.Debug().Err(e.closeErr).Msg("engine closed")
	})
	return e.closeErr
}

// do runs one command and closes the engine on any failure that leaves
// the protocol state unknown.
func (e *Engine) do(ctx context.Context, req request) (commandResult, error) {
	if e.closed.Load() {
		return commandResult{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return commandResult{}, err
	}
	res, err := e.conn.roundTrip(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidCommand) {
			return res, err
		}
		if e.closed.Load() && errors.Is(err, ErrTerminated) {
			err = ErrClosed
		}
		e.log.Debug().Err(err).Str("command", req.command).Msg("command failed; closing engine")
		_ = e.Close()
		return res, err
	}
	if best, _, ok := ParseBestMove(res.line); ok {
		e.mu.Lock()
		e.bestMove = best
		e.mu.Unlock()
	}
	return res, nil
}

// timeoutFor picks the acknowledgement deadline for a raw command.
func (e *Engine) timeoutFor(command string) time.Duration {
	fields := strings.Fields(command)
	if len(fields) == 0 || fields[0] != CmdGo {
		return e.opts.CommandTimeout
	}
	for i := 1; i+1 < len(fields); i++ {
		if fields[i] == "movetime" {
			if ms := atoi64(fields[i+1]); ms > 0 {
				return time.Duration(ms)*time.Millisecond + e.opts.CommandTimeout
			}
		}
	}
	return e.opts.SearchTimeout
}
