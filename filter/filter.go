// Package filter provides composable channel middleware over engine
// output. Lines turns an engine's observer callbacks into a channel;
// the other functions narrow such a channel to the lines a consumer needs.
package filter

import (
	"context"
	"strings"
	"sync"

	"github.com/dmora/uci"
)

// DefaultBuffer is the channel capacity Lines uses when size <= 0.
const DefaultBuffer = 256

// Source is anything engine lines can be observed from. *uci.Engine
// satisfies it.
type Source interface {
	Observe(obs uci.Observer) (cancel func())
}

// Lines subscribes to src and returns a buffered channel of every
// subsequent line. When the consumer falls behind, the oldest buffered
// line is dropped so the engine's read goroutine never blocks. The
// subscription ends and the channel is closed when ctx is cancelled.
func Lines(ctx context.Context, src Source, size int) <-chan uci.Line {
	if size <= 0 {
		size = DefaultBuffer
	}
	s := &subscriber{ch: make(chan uci.Line, size)}
	cancel := src.Observe(s)
	go func() {
		<-ctx.Done()
		cancel()
		s.close()
	}()
	return s.ch
}

// subscriber is a uci.Observer feeding a channel with drop-oldest
// semantics.
type subscriber struct {
	mu     sync.Mutex
	ch     chan uci.Line
	closed bool
}

func (s *subscriber) ObserveLine(line uci.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- line:
		return
	default:
	}
	// Full: drop the oldest line. s is the only sender and holds mu, so
	// the send below cannot block.
	select {
	case <-s.ch:
	default:
	}
	s.ch <- line
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Filter returns a channel that only passes lines of the given kinds.
// Spawns a goroutine that exits when ctx is cancelled or ch is closed.
// The returned channel is closed when the goroutine exits.
func Filter(ctx context.Context, ch <-chan uci.Line, kinds ...uci.LineKind) <-chan uci.Line {
	allowed := make(map[uci.LineKind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	return pipe(ctx, ch, func(line uci.Line) bool {
		_, ok := allowed[line.Kind]
		return ok
	})
}

// Progress returns a channel that passes only info lines carrying search
// data, dropping "info string" chatter.
func Progress(ctx context.Context, ch <-chan uci.Line) <-chan uci.Line {
	return pipe(ctx, ch, IsProgress)
}

// ResultOnly returns a channel that passes only bestmove lines.
func ResultOnly(ctx context.Context, ch <-chan uci.Line) <-chan uci.Line {
	return pipe(ctx, ch, func(line uci.Line) bool {
		return line.Kind == uci.KindBestMove
	})
}

// ErrorsOnly returns a channel that passes only error marker lines.
func ErrorsOnly(ctx context.Context, ch <-chan uci.Line) <-chan uci.Line {
	return pipe(ctx, ch, func(line uci.Line) bool {
		return line.Kind == uci.KindError
	})
}

// IsProgress reports whether line is an info line with search data
// rather than free text.
func IsProgress(line uci.Line) bool {
	if line.Kind != uci.KindInfo || line.Payload == "" {
		return false
	}
	return !strings.HasPrefix(line.Payload, "string")
}

// pipe spawns a goroutine that reads from ch, passes lines matching the
// predicate to the returned channel, and closes it when ch closes or ctx
// is cancelled. Callers must either drain the returned channel or cancel
// ctx to avoid goroutine leaks.
func pipe(ctx context.Context, ch <-chan uci.Line, accept func(uci.Line) bool) <-chan uci.Line {
	out := make(chan uci.Line)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-ch:
				if !ok {
					return
				}
				if accept(line) && !trySend(ctx, out, line) {
					return
				}
			}
		}
	}()
	return out
}

// trySend sends line on out, returning false if ctx is cancelled first.
func trySend(ctx context.Context, out chan<- uci.Line, line uci.Line) bool {
	select {
	case out <- line:
		return true
	case <-ctx.Done():
		return false
	}
}
