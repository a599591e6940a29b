// Package ucitest provides a conformance suite for UCI engines driven by
// [uci.Engine], and a scriptable mock engine for tests.
//
// Run the suite against a real engine binary:
//
//	package myengine_test
//
//	import (
//	    "testing"
//	    "github.com/dmora/uci/enginetest/ucitest"
//	)
//
//	func TestConformance(t *testing.T) {
//	    ucitest.RunEngineTests(t, func(t *testing.T) string {
//	        return "/usr/games/stockfish"
//	    })
//	}
//
// Or use the mock engine, optionally in a failure mode:
//
//	path := ucitest.MockScript(t, ucitest.ModeCrashOnGo)
//	_, err := eng.GoDepth(ctx, 5) // fails with uci.ErrTerminated
package ucitest
