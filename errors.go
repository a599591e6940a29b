package uci

import (
	"errors"
	"strings"
)

// Sentinel errors for engine operations.
var (
	// ErrLaunch indicates the engine executable could not be started
	// (blank path, missing file, directory, not executable).
	ErrLaunch = errors.New("uci: launch failed")

	// ErrProtocol indicates the engine reported an error marker line
	// during a command. Returned errors are *ProtocolError values.
	ErrProtocol = errors.New("uci: protocol error")

	// ErrUnknownOption indicates an attempt to set an option the engine
	// did not declare during the handshake.
	ErrUnknownOption = errors.New("uci: unknown option")

	// ErrTimeout indicates the engine did not acknowledge a command in time.
	ErrTimeout = errors.New("uci: timeout")

	// ErrTerminated indicates the engine's output ended (process exited)
	// or its input could not be written while a command was in flight.
	ErrTerminated = errors.New("uci: engine terminated")

	// ErrClosed indicates the engine was closed and accepts no commands.
	ErrClosed = errors.New("uci: engine closed")

	// ErrInvalidCommand indicates a command that cannot be written as a
	// single protocol line (empty, or containing CR, LF or NUL).
	ErrInvalidCommand = errors.New("uci: invalid command")
)

// ProtocolError reports the error marker lines the engine emitted while
// a command was in flight. Messages holds the text after the marker, in
// arrival order.
//
// errors.Is(err, ErrProtocol) reports true for any *ProtocolError.
type ProtocolError struct {
	Command  string
	Messages []string
}

func (e *ProtocolError) Error() string {
	return "uci: " + e.Command + ": " + strings.Join(e.Messages, "\n")
}

// Is matches ErrProtocol.
func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// ProtocolMessages extracts the engine error messages from an error chain
// containing *ProtocolError. Returns nil if there is none.
func ProtocolMessages(err error) []string {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Messages
	}
	return nil
}
