// Package uci drives a chess engine that speaks the Universal Chess
// Interface over its standard input and output, and exposes it as a
// synchronous request/response API.
//
// An [Engine] owns exactly one engine subprocess. Every command blocks the
// caller until the engine acknowledges it, and at most one command is in
// flight at a time.
//
// # Core Types
//
//   - [Engine]: launches the subprocess, performs the handshake, and
//     serializes commands
//   - [Registry]: the option table declared by the engine at startup
//   - [Line]: one classified output line, delivered to [Observer] values
//   - [SearchResult]: the outcome of a search (best move, ponder, last info)
//   - [Option]: functional options for [New]
//
// # Synchronization
//
// Commands the protocol acknowledges wait for their token (uci → uciok,
// isready → readyok, go → bestmove, d → "Checkers: "). Every other command
// is followed by isready and waits for readyok, so the caller always
// observes quiescence. Waits are bounded by the caller's context and by the
// timeouts in [EngineOptions].
//
// # Failure Policy
//
// An error marker line ("info string ERROR: ...") during a command fails
// that command with a [*ProtocolError] and closes the engine. Timeouts and
// context cancellation also close the engine, because the protocol state
// is no longer known. Setting an undeclared option fails immediately with
// [ErrUnknownOption] and leaves the engine usable.
//
// Engine is available on Unix-like systems; the line grammar, option
// registry, and command builders are portable.
//
// # Quick Start
//
//	eng, err := uci.New(ctx, "/usr/games/stockfish")
//	if err != nil { log.Fatal(err) }
//	defer eng.Close()
//	if err := eng.SetOption(ctx, "Threads", "4"); err != nil { log.Fatal(err) }
//	if err := eng.SetPosition(ctx, "", "e2e4"); err != nil { log.Fatal(err) }
//	res, err := eng.GoMoveTime(ctx, time.Second)
//	if err != nil { log.Fatal(err) }
//	fmt.Println(res.BestMove)
package uci
