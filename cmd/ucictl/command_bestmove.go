package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmora/uci"
	"github.com/dmora/uci/filter"
)

func newBestMoveCmd(a *app) *cobra.Command {
	var (
		fen      string
		moves    []string
		depth    int
		movetime time.Duration
		infinite time.Duration
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "bestmove",
		Short: "Search a position and print the best move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			eng, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.NewGame(ctx); err != nil {
				return err
			}
			if err := eng.SetPosition(ctx, fen, moves...); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var wg sync.WaitGroup
			progCtx, stopProgress := context.WithCancel(ctx)
			defer stopProgress()
			if progress {
				wg.Add(1)
				go func() {
					defer wg.Done()
					printProgress(cmd.ErrOrStderr(), filter.Progress(progCtx, filter.Lines(progCtx, eng, 0)))
				}()
			}

			res, err := search(ctx, eng, a, depth, movetime, infinite)
			stopProgress()
			wg.Wait()
			if err != nil {
				return err
			}
			if res.BestMove == "" {
				return errors.New("no legal move in this position")
			}
			line := "bestmove " + res.BestMove
			if res.Ponder != "" {
				line += " ponder " + res.Ponder
			}
			fmt.Fprintln(out, line)
			if s := res.Info.Score; s != nil {
				if s.Mate != 0 {
					fmt.Fprintf(out, "score mate %d depth %d\n", s.Mate, res.Info.Depth)
				} else {
					fmt.Fprintf(out, "score cp %d depth %d\n", s.Centipawns, res.Info.Depth)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&fen, "fen", "", "position in FEN (default: start position)")
	f.StringSliceVar(&moves, "moves", nil, "moves to apply, in long algebraic notation")
	f.IntVar(&depth, "depth", 0, "search to this depth")
	f.DurationVar(&movetime, "movetime", 0, "search for this long")
	f.DurationVar(&infinite, "infinite", 0, "search without limits and stop after this long")
	f.BoolVar(&progress, "progress", false, "print search progress to stderr")
	return cmd
}

// search picks the limit from flags, falling back to the [search] table.
func search(ctx context.Context, eng *uci.Engine, a *app, depth int, movetime, infinite time.Duration) (uci.SearchResult, error) {
	switch {
	case infinite > 0:
		sctx, cancel := context.WithTimeout(ctx, infinite)
		defer cancel()
		return eng.GoInfinite(sctx)
	case depth > 0:
		return eng.GoDepth(ctx, depth)
	case movetime > 0:
		return eng.GoMoveTime(ctx, movetime)
	case a.cfg.Search.Depth > 0:
		return eng.GoDepth(ctx, a.cfg.Search.Depth)
	default:
		return eng.GoMoveTime(ctx, a.cfg.Search.MoveTimeOrDefault())
	}
}

func printProgress(w io.Writer, lines <-chan uci.Line) {
	for l := range lines {
		fmt.Fprintln(w, strings.TrimPrefix(l.Raw, uci.MarkerInfo))
	}
}
