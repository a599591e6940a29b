package ucitest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmora/uci"
)

// suiteTimeout bounds each conformance subtest.
const suiteTimeout = 30 * time.Second

// RunEngineTests runs the conformance suite against the engine returned by
// path. path is called once per subtest so each subtest gets a fresh
// process. opts are passed to every uci.New call.
func RunEngineTests(t *testing.T, path func(t *testing.T) string, opts ...uci.Option) {
	t.Helper()

	start := func(t *testing.T) (*uci.Engine, context.Context) {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), suiteTimeout)
		t.Cleanup(cancel)
		eng, err := uci.New(ctx, path(t), opts...)
		require.NoError(t, err, "handshake")
		t.Cleanup(func() { _ = eng.Close() })
		return eng, ctx
	}

	t.Run("Handshake", func(t *testing.T) {
		eng, _ := start(t)
		assert.NotEmpty(t, eng.Name(), "engine should report id name")
		assert.NotEmpty(t, eng.ID())
		names := eng.Options().Names()
		assert.Equal(t, len(names), eng.Options().Len())
		for _, name := range names {
			_, ok := eng.Options().Declaration(name)
			assert.True(t, ok, "option %q has no declaration", name)
		}
	})

	t.Run("IsReady", func(t *testing.T) {
		eng, ctx := start(t)
		line, err := eng.Send(ctx, uci.CmdIsReady)
		require.NoError(t, err)
		assert.Equal(t, uci.TokenReadyOK, line)
	})

	t.Run("NewGameIsNotHandshake", func(t *testing.T) {
		eng, ctx := start(t)
		line, err := eng.Send(ctx, uci.CmdNewGame)
		require.NoError(t, err)
		assert.Equal(t, uci.TokenReadyOK, line, "ucinewgame must be synchronized with isready")
	})

	t.Run("UnknownOption", func(t *testing.T) {
		eng, ctx := start(t)
		before := eng.Options().Snapshot()
		err := eng.SetOption(ctx, "No Such Option For Conformance", "1")
		require.ErrorIs(t, err, uci.ErrUnknownOption)
		assert.Equal(t, before, eng.Options().Snapshot())
		_, err = eng.Send(ctx, uci.CmdIsReady)
		assert.NoError(t, err, "engine must stay usable after an unknown option")
	})

	t.Run("SetOption", func(t *testing.T) {
		eng, ctx := start(t)
		if !eng.Options().Has("Hash") {
			t.Skip("engine declares no Hash option")
		}
		require.NoError(t, eng.SetOption(ctx, "Hash", "1"))
		got, _ := eng.Options().Get("Hash")
		assert.Equal(t, "1", got)
	})

	t.Run("Search", func(t *testing.T) {
		eng, ctx := start(t)
		require.NoError(t, eng.NewGame(ctx))
		require.NoError(t, eng.SetPosition(ctx, "", "e2e4"))
		res, err := eng.GoDepth(ctx, 1)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Raw, uci.TokenBestMove), "raw = %q", res.Raw)
		assert.NotEmpty(t, res.BestMove)
		assert.Equal(t, res.BestMove, eng.BestMove())
	})

	t.Run("Validate", func(t *testing.T) {
		eng, ctx := start(t)
		require.NoError(t, eng.Validate(ctx))
	})

	t.Run("Diagnostic", func(t *testing.T) {
		eng, ctx := start(t)
		line, err := eng.Send(ctx, uci.CmdDebug)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(line, uci.TokenDebug), "line = %q", line)
	})

	t.Run("InvalidCommand", func(t *testing.T) {
		eng, ctx := start(t)
		_, err := eng.Send(ctx, "isready\nquit")
		require.ErrorIs(t, err, uci.ErrInvalidCommand)
		_, err = eng.Send(ctx, uci.CmdIsReady)
		assert.NoError(t, err)
	})

	t.Run("CloseIdempotent", func(t *testing.T) {
		eng, ctx := start(t)
		first := eng.Close()
		assert.NoError(t, first)
		assert.Equal(t, first, eng.Close())
		_, err := eng.Send(ctx, uci.CmdIsReady)
		assert.True(t, errors.Is(err, uci.ErrClosed), "err = %v, want ErrClosed", err)
	})
}
