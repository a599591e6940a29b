package ucitest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// Modes of the mock engine, selected with MockScript.
const (
	ModeNormal         = ""
	ModeExitOnStart    = "exit-on-start"
	ModeNoUCIOK        = "no-uciok"
	ModeHandshakeError = "handshake-error"
	ModeMalformed      = "malformed"
	ModeLateOption     = "late-option"
	ModeSilent         = "silent"
	ModeErrorOnGo      = "error-on-go"
	ModeCrashOnGo      = "crash-on-go"
	ModeIgnoreQuit     = "ignore-quit"
	ModeDeaf           = "deaf"
)

// Facts about the mock engine's canned output.
const (
	MockName     = "MockFish 1.0"
	MockAuthor   = "The Mock Authors"
	MockBestMove = "e2e4"
	MockPonder   = "e7e5"

	// MockNoMoveFEN is a checkmated position; the mock answers go with
	// "bestmove (none)".
	MockNoMoveFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
)

// MockOptions lists the options the mock declares, in order, with their
// defaults.
var MockOptions = []struct{ Name, Default string }{
	{"Threads", "1"},
	{"Hash", "16"},
	{"Clear Hash", ""},
	{"Ponder", "false"},
	{"EvalFile", "nn-mock.nnue"},
	{"SyzygyPath", ""},
	{"Skill Level", "20"},
}

var (
	mockBuildOnce sync.Once
	mockPath      string
	errMockBuild  error
)

func buildMock() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		errMockBuild = fmt.Errorf("locate mock source")
		return
	}
	src := filepath.Join(filepath.Dir(file), "testdata", "mock-uci", "main.go")
	dir, err := os.MkdirTemp("", "mock-uci-*")
	if err != nil {
		errMockBuild = fmt.Errorf("tmpdir: %w", err)
		return
	}
	mockPath = filepath.Join(dir, "mock-uci")
	cmd := exec.Command("go", "build", "-o", mockPath, src)
	if out, err := cmd.CombinedOutput(); err != nil {
		errMockBuild = fmt.Errorf("build mock: %w: %s", err, out)
		os.RemoveAll(dir)
	}
}

// MockBinary builds the mock engine once per test binary and returns its
// path. The test fails if the build fails.
func MockBinary(t testing.TB) string {
	t.Helper()
	mockBuildOnce.Do(buildMock)
	if errMockBuild != nil {
		t.Fatalf("mock engine build failed: %v", errMockBuild)
	}
	return mockPath
}

// MockScript returns an executable wrapper that runs the mock engine in
// mode.
func MockScript(t testing.TB, mode string) string {
	t.Helper()
	bin := MockBinary(t)
	wrapper := filepath.Join(t.TempDir(), "mock-uci-"+sanitizeMode(mode))
	script := fmt.Sprintf("#!/bin/sh\nexport UCI_MOCK_MODE=%s\nexec %s \"$@\"\n", mode, bin)
	if err := os.WriteFile(wrapper, []byte(script), 0o755); err != nil {
		t.Fatalf("write wrapper: %v", err)
	}
	return wrapper
}

func sanitizeMode(mode string) string {
	if mode == "" {
		return "normal"
	}
	return mode
}
