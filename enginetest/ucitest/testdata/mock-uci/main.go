//go:build ignore

// Command mock-uci simulates a UCI chess engine for integration tests.
// It answers uci, isready, setoption, position, ucinewgame, go, stop, d
// and quit over stdin/stdout with canned output.
//
// UCI_MOCK_MODE selects a failure mode:
//
//	UCI_MOCK_MODE=exit-on-start      exit before reading any input
//	UCI_MOCK_MODE=no-uciok           declare identity but never send uciok
//	UCI_MOCK_MODE=handshake-error    report an error marker before uciok
//	UCI_MOCK_MODE=malformed          mix malformed option lines into the handshake
//	UCI_MOCK_MODE=late-option        declare an option after uciok
//	UCI_MOCK_MODE=silent             complete the handshake, then answer nothing
//	UCI_MOCK_MODE=error-on-go        report an error marker during go
//	UCI_MOCK_MODE=crash-on-go        exit without answering go
//	UCI_MOCK_MODE=ignore-quit        ignore quit, stdin EOF and SIGTERM
//	UCI_MOCK_MODE=deaf               complete the handshake, then stop reading stdin
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const foolsMate = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	out     = bufio.NewWriter(os.Stdout)
	mode    = os.Getenv("UCI_MOCK_MODE")
	fen     = startFEN
	options = map[string]string{
		"Threads":     "1",
		"Hash":        "16",
		"Ponder":      "false",
		"EvalFile":    "nn-mock.nnue",
		"SyzygyPath":  "",
		"Skill Level": "20",
		"Clear Hash":  "",
	}
	searching bool
)

func say(format string, args ...any) {
	fmt.Fprintf(out, format+"\n", args...)
	out.Flush()
}

func main() {
	switch mode {
	case "exit-on-start":
		os.Exit(3)
	case "ignore-quit":
		signal.Ignore(syscall.SIGTERM)
	}

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 4096), 1<<20)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if mode == "silent" && line != "uci" && line != "quit" {
			continue
		}
		handle(line)
	}
	if mode == "ignore-quit" {
		time.Sleep(time.Hour)
	}
}

func handle(line string) {
	keyword, rest, _ := strings.Cut(line, " ")
	switch keyword {
	case "uci":
		handshake()
		if mode == "deaf" {
			// Input is never read again, so the stdin pipe fills up.
			time.Sleep(time.Hour)
		}
	case "isready":
		if mode == "late-option" {
			say("option name Late type check default false")
		}
		say("readyok")
	case "setoption":
		setOption(rest)
	case "position":
		position(rest)
	case "ucinewgame":
		fen = startFEN
	case "go":
		goSearch(rest)
	case "stop":
		if searching {
			searching = false
			finish(7)
		}
	case "d":
		say("")
		say(" +---+---+---+---+---+---+---+---+")
		say(" | r | n | b | q | k | b | n | r | 8")
		say(" +---+---+---+---+---+---+---+---+")
		say("")
		say("Fen: %s", fen)
		say("Key: 8F8F01D4562F59FB")
		say("Checkers: ")
	case "quit":
		if mode == "ignore-quit" {
			return
		}
		os.Exit(0)
	default:
		say("Unknown command: '%s'. Type help for more information.", line)
	}
}

func handshake() {
	say("MockFish 1.0 by the mock authors")
	say("id name MockFish 1.0")
	say("id author The Mock Authors")
	say("")
	say("option name Threads type spin default 1 min 1 max 1024")
	say("option name Hash type spin default 16 min 1 max 33554432")
	say("option name Clear Hash type button")
	say("option name Ponder type check default false")
	say("option name EvalFile type string default nn-mock.nnue")
	say("option name SyzygyPath type string default <empty>")
	say("option name Skill Level type spin default 20 min 0 max 20")
	switch mode {
	case "malformed":
		say("option name Broken")
		say("option name  type spin default 3")
		say("option name Contempt type combo default Off var Off var On")
	case "handshake-error":
		say("info string ERROR: mock network file missing")
	}
	if mode == "no-uciok" {
		return
	}
	say("uciok")
}

func setOption(rest string) {
	body, ok := strings.CutPrefix(rest, "name ")
	if !ok {
		return
	}
	name, value, _ := strings.Cut(body, " value ")
	if _, known := options[name]; !known {
		say("No such option: %s", name)
		return
	}
	if name == "EvalFile" && value != "nn-mock.nnue" {
		say("info string ERROR: Network evaluation parameters compatible with the engine must be available.")
		say("info string ERROR: The network file %s was not loaded successfully.", value)
		return
	}
	options[name] = value
}

func position(rest string) {
	switch {
	case strings.HasPrefix(rest, "startpos"):
		fen = startFEN
	case strings.HasPrefix(rest, "fen "):
		body := strings.TrimPrefix(rest, "fen ")
		if i := strings.Index(body, " moves "); i >= 0 {
			body = body[:i]
		}
		fen = body
	}
}

func goSearch(rest string) {
	switch mode {
	case "crash-on-go":
		os.Exit(1)
	case "error-on-go":
		say("info string ERROR: mock search failure")
	}
	if fen == foolsMate {
		say("info depth 0 score mate 0")
		say("bestmove (none)")
		return
	}
	fields := strings.Fields(rest)
	for i, f := range fields {
		switch f {
		case "infinite":
			searching = true
			say("info depth 1 seldepth 1 multipv 1 score cp 20 nodes 20 nps 20000 time 1 pv e2e4")
			return
		case "movetime":
			if i+1 < len(fields) {
				if ms, err := strconv.Atoi(fields[i+1]); err == nil {
					time.Sleep(min(time.Duration(ms)*time.Millisecond, 50*time.Millisecond))
				}
			}
		}
	}
	finish(10)
}

func finish(depth int) {
	say("info depth %d seldepth %d multipv 1 score cp 35 lowerbound nodes 12345 nps 1000000 hashfull 1 tbhits 0 time 12 pv e2e4 e7e5 g1f3", depth, depth+4)
	say("bestmove e2e4 ponder e7e5")
}
