package filter

import (
	"context"
	"sync"
	"testing"

	"github.com/dmora/uci"
)

func line(raw string) uci.Line {
	return uci.ParseLine(raw)
}

func fill(ch chan<- uci.Line, lines ...uci.Line) {
	for _, l := range lines {
		ch <- l
	}
	close(ch)
}

func drain(ch <-chan uci.Line) []uci.Line {
	var out []uci.Line
	for l := range ch {
		out = append(out, l)
	}
	return out
}

// fakeSource stands in for an engine: Emit plays the read goroutine.
type fakeSource struct {
	mu  sync.Mutex
	obs uci.Observer
}

func (f *fakeSource) Observe(obs uci.Observer) func() {
	f.mu.Lock()
	f.obs = obs
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.obs = nil
		f.mu.Unlock()
	}
}

func (f *fakeSource) Emit(raws ...string) {
	f.mu.Lock()
	obs := f.obs
	f.mu.Unlock()
	if obs == nil {
		return
	}
	for _, r := range raws {
		obs.ObserveLine(line(r))
	}
}

func TestLines_Delivers(t *testing.T) {
	src := &fakeSource{}
	ctx, cancel := context.WithCancel(context.Background())
	ch := Lines(ctx, src, 8)

	src.Emit("info depth 1 pv e2e4", "bestmove e2e4")
	cancel()
	got := drain(ch)
	if len(got) != 2 || got[1].Kind != uci.KindBestMove {
		t.Fatalf("got %+v", got)
	}
}

func TestLines_DropsOldest(t *testing.T) {
	src := &fakeSource{}
	ctx, cancel := context.WithCancel(context.Background())
	ch := Lines(ctx, src, 2)

	src.Emit("info depth 1", "info depth 2", "info depth 3", "bestmove a2a3")
	cancel()
	got := drain(ch)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].Raw != "info depth 3" || got[1].Raw != "bestmove a2a3" {
		t.Errorf("got %q, %q; want the newest lines", got[0].Raw, got[1].Raw)
	}
}

func TestLines_UnsubscribesOnCancel(t *testing.T) {
	src := &fakeSource{}
	ctx, cancel := context.WithCancel(context.Background())
	ch := Lines(ctx, src, 0)
	cancel()
	drain(ch)

	// Observing after close must not panic on a closed channel.
	src.Emit("readyok")
}

func TestFilter_PassesRequestedKinds(t *testing.T) {
	in := make(chan uci.Line, 5)
	go fill(in,
		line("id name Mock"),
		line("info depth 3"),
		line("info string ERROR: bad"),
		line("readyok"),
		line("bestmove e2e4"),
	)

	got := drain(Filter(context.Background(), in, uci.KindError, uci.KindBestMove))
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].Kind != uci.KindError || got[1].Kind != uci.KindBestMove {
		t.Errorf("kinds = %q, %q", got[0].Kind, got[1].Kind)
	}
}

func TestFilter_NoKindsDropsAll(t *testing.T) {
	in := make(chan uci.Line, 2)
	go fill(in, line("uciok"), line("readyok"))
	if got := drain(Filter(context.Background(), in)); len(got) != 0 {
		t.Errorf("got %d lines, want 0", len(got))
	}
}

func TestProgress(t *testing.T) {
	in := make(chan uci.Line, 4)
	go fill(in,
		line("info string NNUE enabled"),
		line("info depth 5 score cp 10 pv e2e4"),
		line("info"),
		line("bestmove e2e4"),
	)
	got := drain(Progress(context.Background(), in))
	if len(got) != 1 || got[0].Raw != "info depth 5 score cp 10 pv e2e4" {
		t.Fatalf("got %+v", got)
	}
}

func TestResultOnly(t *testing.T) {
	in := make(chan uci.Line, 3)
	go fill(in, line("info depth 1"), line("bestmove (none)"), line("readyok"))
	got := drain(ResultOnly(context.Background(), in))
	if len(got) != 1 || got[0].Kind != uci.KindBestMove {
		t.Fatalf("got %+v", got)
	}
}

func TestErrorsOnly(t *testing.T) {
	in := make(chan uci.Line, 3)
	go fill(in, line("info string ERROR: one"), line("info string fine"), line("info string ERROR: two"))
	got := drain(ErrorsOnly(context.Background(), in))
	if len(got) != 2 || got[0].Payload != "one" || got[1].Payload != "two" {
		t.Fatalf("got %+v", got)
	}
}

func TestResultOnly_ContextCancellation(_ *testing.T) {
	in := make(chan uci.Line)
	ctx, cancel := context.WithCancel(context.Background())
	out := ResultOnly(ctx, in)
	cancel()
	drain(out)
}
