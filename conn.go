package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dmora/uci/internal/errfmt"
)

// conn is the command synchronizer and output dispatcher for one engine.
//
// readLoop is the only consumer of engine output. It classifies each line,
// publishes it to observers, and completes the pending command when the
// expected token arrives. roundTrip writes one command at a time and waits
// on the pending command's one-shot result channel.
//
// Lock order: turnMu before mu. writeMu is a leaf.
type conn struct {
	w         io.Writer
	scanner   *bufio.Scanner
	log       zerolog.Logger
	registry  *Registry
	observers *observerSet

	turnMu  sync.Mutex // serializes roundTrip
	writeMu sync.Mutex // serializes writes to w

	mu        sync.Mutex
	pending   *pendingCommand
	bootstrap bool // option declarations accepted until the first completion
	eof       bool
	name      string
	author    string

	seq  uint64 // read goroutine only
	done chan struct{}
}

// pendingCommand is the single in-flight command.
type pendingCommand struct {
	id       string
	command  string
	expected string
	errs     []string
	info     Info
	result   chan commandResult // buffered(1), written once by completeLocked
}

type commandResult struct {
	line string
	info Info
	err  error
}

// request describes one command for roundTrip.
type request struct {
	command string

	// timeout bounds the wait for the acknowledgement. Zero means the
	// wait is bounded by ctx only. Ignored when stop is set.
	timeout time.Duration

	// stop, once closed, makes roundTrip write "stop" and wait at most
	// afterStop for the acknowledgement.
	stop      <-chan struct{}
	afterStop time.Duration
}

func newConn(r io.Reader, w io.Writer, registry *Registry, observers *observerSet, maxLine int, log zerolog.Logger) *conn {
	if maxLine <= 0 {
		maxLine = defaultScannerBuffer
	}
	s := bufio.NewScanner(r)
	initCap := min(4096, maxLine)
	s.Buffer(make([]byte, 0, initCap), maxLine)
	return &conn{
		w:         w,
		scanner:   s,
		log:       log,
		registry:  registry,
		observers: observers,
		bootstrap: true,
		done:      make(chan struct{}),
	}
}

// readLoop dispatches engine output until the stream ends. Must be called
// exactly once.
func (c *conn) readLoop() {
	defer close(c.done)
	for c.scanner.Scan() {
		c.dispatch(c.scanner.Text(), time.Now())
	}
	c.endOfStream(c.scanner.Err())
}

// dispatch interprets one line. Observers see the line before any state
// changes, so an observer never sees a command complete ahead of the
// line that completed it.
func (c *conn) dispatch(raw string, now time.Time) {
	c.seq++
	kind, payload := classify(raw)
	line := Line{Seq: c.seq, Raw: raw, Kind: kind, Payload: payload, Time: now}
	c.log.Trace().Uint64("seq", line.Seq).Str("kind", string(kind)).Msg("<- " + raw)

	c.observers.publish(line)

	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pending

	switch kind {
	case KindError:
		if p != nil {
			p.errs = append(p.errs, errfmt.Truncate(payload))
		}
	case KindIDName:
		c.name = errfmt.SanitizeText(payload)
	case KindIDAuthor:
		c.author = errfmt.SanitizeText(payload)
	case KindOption:
		if c.bootstrap {
			c.declareLocked(raw)
		}
	case KindInfo:
		if p != nil {
			if info := ParseInfo(payload); info.Depth > 0 || info.Score != nil || len(info.PV) > 0 {
				p.info = info
			}
		}
	}

	if p != nil && strings.HasPrefix(raw, p.expected) {
		c.completeLocked(p, commandResult{line: raw})
	}
}

func (c *conn) declareLocked(raw string) {
	decl, ok := ParseOptionDecl(raw)
	if !ok {
		c.log.Debug().Str("line", errfmt.Truncate(raw)).Msg("ignoring malformed option declaration")
		return
	}
	c.registry.declare(decl)
}

// completeLocked signals p's result exactly once and detaches it. The
// first completion closes the bootstrap window. Accumulated error lines
// take precedence over any other outcome.
func (c *conn) completeLocked(p *pendingCommand, res commandResult) {
	if c.pending != p {
		return
	}
	c.pending = nil
	if c.bootstrap {
		c.bootstrap = false
		c.registry.seal()
	}
	res.info = p.info
	if len(p.errs) > 0 {
		res.err = &ProtocolError{Command: p.command, Messages: p.errs}
	}
	p.result <- res
}

// endOfStream completes the pending command, if any, when output ends.
func (c *conn) endOfStream(scanErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eof = true
	if p := c.pending; p != nil {
		err := ErrTerminated
		if scanErr != nil {
			err = fmt.Errorf("%w: read: %w", ErrTerminated, scanErr)
		}
		c.completeLocked(p, commandResult{err: err})
	}
	if scanErr != nil {
		c.log.Warn().Err(scanErr).Msg("engine output ended with error")
	}
}

// abandon detaches p after the caller stopped waiting for it.
func (c *conn) abandon(p *pendingCommand) {
	c.mu.Lock()
	if c.pending == p {
		c.pending = nil
	}
	c.mu.Unlock()
}

// roundTrip writes req.command and blocks until its acknowledgement, an
// engine error, end of output, the timeout, or ctx. Commands without a
// protocol acknowledgement are followed by isready and complete on readyok.
func (c *conn) roundTrip(ctx context.Context, req request) (commandResult, error) {
	if !validCommand(req.command) {
		return commandResult{}, fmt.Errorf("%w: %q", ErrInvalidCommand, req.command)
	}

	c.turnMu.Lock()
	defer c.turnMu.Unlock()

	if err := ctx.Err(); err != nil {
		return commandResult{}, err
	}

	expected, acked := expectedToken(req.command)
	if !acked {
		expected = TokenReadyOK
	}
	p := &pendingCommand{
		id:       uuid.NewString(),
		command:  req.command,
		expected: expected,
		result:   make(chan commandResult, 1),
	}

	c.mu.Lock()
	if c.eof {
		c.mu.Unlock()
		return commandResult{}, ErrTerminated
	}
	c.pending = p
	c.mu.Unlock()

	log := c.log.With().Str("cmd_id", p.id).Logger()
	log.Debug().Str("command", req.command).Str("expect", expected).Msg("send")

	// The write runs on its own goroutine so a stalled pipe cannot outlive
	// the caller's deadline.
	writeErr := make(chan error, 1)
	go func() {
		err := c.writeLine(req.command)
		if err == nil && !acked {
			err = c.writeLine(CmdIsReady)
		}
		writeErr <- err
	}()

	var timer *time.Timer
	var timeout <-chan time.Time
	var limit time.Duration
	if req.stop == nil && req.timeout > 0 {
		limit = req.timeout
		timer = time.NewTimer(limit)
		timeout = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var stop <-chan struct{} // armed once the command is written
	var stopErr chan error
	for {
		select {
		case res := <-p.result:
			log.Debug().Str("response", errfmt.Truncate(res.line)).Err(res.err).Msg("done")
			return res, res.err

		case err := <-writeErr:
			writeErr = nil
			if err != nil {
				c.abandon(p)
				return c.lateResult(p, fmt.Errorf("%w: write %q: %w", ErrTerminated, req.command, err))
			}
			stop = req.stop

		case <-stop:
			stop = nil
			log.Debug().Msg("stop requested")
			// Like the command itself, stop is written off the caller's
			// goroutine; the afterStop deadline also bounds the write.
			stopErr = make(chan error, 1)
			go func(done chan<- error) { done <- c.writeLine(CmdStop) }(stopErr)
			if req.afterStop > 0 {
				limit = req.afterStop
				timer = time.NewTimer(limit)
				timeout = timer.C
			}

		case err := <-stopErr:
			stopErr = nil
			if err != nil {
				c.abandon(p)
				return c.lateResult(p, fmt.Errorf("%w: write %q: %w", ErrTerminated, CmdStop, err))
			}

		case <-timeout:
			c.abandon(p)
			return c.lateResult(p, fmt.Errorf("%w: %q: no %q within %s", ErrTimeout, req.command, expected, limit))

		case <-ctx.Done():
			c.abandon(p)
			return c.lateResult(p, ctx.Err())
		}
	}
}

// lateResult prefers a result that arrived just before p was abandoned
// over err.
func (c *conn) lateResult(p *pendingCommand, err error) (commandResult, error) {
	select {
	case res := <-p.result:
		return res, res.err
	default:
		return commandResult{}, err
	}
}

// writeLine writes one protocol line. Safe for concurrent use.
func (c *conn) writeLine(s string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.log.Trace().Msg("-> " + s)
	_, err := io.WriteString(c.w, s+"\n")
	return err
}

func (c *conn) engineName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *conn) engineAuthor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.author
}
