//go:build !windows

package uci

import (
	"context"
	"time"
)

// GoGameTime searches with clock information and returns the engine's
// best move.
func (e *Engine) GoGameTime(ctx context.Context, clock GameTime) (SearchResult, error) {
	return e.search(ctx, request{command: clock.Format(), timeout: e.opts.SearchTimeout})
}

// GoMoveTime searches for exactly d. The wait is bounded by d plus the
// command timeout.
func (e *Engine) GoMoveTime(ctx context.Context, d time.Duration) (SearchResult, error) {
	return e.search(ctx, request{command: FormatGoMoveTime(d), timeout: d + e.opts.CommandTimeout})
}

// GoDepth searches to the given depth in plies.
func (e *Engine) GoDepth(ctx context.Context, plies int) (SearchResult, error) {
	return e.search(ctx, request{command: FormatGoDepth(plies), timeout: e.opts.SearchTimeout})
}

// GoNodes searches the given number of nodes.
func (e *Engine) GoNodes(ctx context.Context, nodes int64) (SearchResult, error) {
	return e.search(ctx, request{command: FormatGoNodes(nodes), timeout: e.opts.SearchTimeout})
}

// GoMate searches for a mate in the given number of moves.
func (e *Engine) GoMate(ctx context.Context, moves int) (SearchResult, error) {
	return e.search(ctx, request{command: FormatGoMate(moves), timeout: e.opts.SearchTimeout})
}

// GoInfinite searches until ctx is done, then stops the search and
// returns the engine's best move. Cancellation of ctx is the normal way
// to end the search and is not reported as an error; the engine gets the
// command timeout to answer stop. A ctx that can never be done is bounded
// by the search timeout instead.
func (e *Engine) GoInfinite(ctx context.Context) (SearchResult, error) {
	if ctx.Done() == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.SearchTimeout)
		defer cancel()
	}
	return e.search(context.WithoutCancel(ctx), request{
		command:   FormatGoInfinite(),
		stop:      ctx.Done(),
		afterStop: e.opts.CommandTimeout,
	})
}

func (e *Engine) search(ctx context.Context, req request) (SearchResult, error) {
	res, err := e.do(ctx, req)
	if err != nil {
		return SearchResult{}, err
	}
	best, ponder, _ := ParseBestMove(res.line)
	return SearchResult{BestMove: best, Ponder: ponder, Raw: res.line, Info: res.info}, nil
}
