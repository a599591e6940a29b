package uci

import (
	"strconv"
	"strings"
	"time"
)

// Commands to the engine.
const (
	CmdUCI        = "uci"
	CmdIsReady    = "isready"
	CmdNewGame    = "ucinewgame"
	CmdPosition   = "position"
	CmdSetOption  = "setoption"
	CmdGo         = "go"
	CmdDebug      = "d"
	CmdStop       = "stop"
	CmdQuit       = "quit"
	PositionStart = "startpos"
)

// Responses from the engine. All are matched as line prefixes.
const (
	TokenUCIOK    = "uciok"
	TokenReadyOK  = "readyok"
	TokenBestMove = "bestmove"
	TokenDebug    = "Checkers: "
)

// Line markers recognized by the dispatcher.
const (
	MarkerError    = "info string ERROR: "
	MarkerIDName   = "id name "
	MarkerIDAuthor = "id author "
	MarkerOption   = "option name "
	MarkerInfo     = "info "
)

// NoMove is what the engine sends after bestmove when no move exists.
const NoMove = "(none)"

// expectedToken returns the acknowledgement token for command, keyed on
// its first word. ok is false for commands the protocol does not
// acknowledge; those are synchronized with isready/readyok.
func expectedToken(command string) (token string, ok bool) {
	keyword, _, _ := strings.Cut(strings.TrimSpace(command), " ")
	switch keyword {
	case CmdIsReady:
		return TokenReadyOK, true
	case CmdUCI:
		return TokenUCIOK, true
	case CmdDebug:
		return TokenDebug, true
	case CmdGo:
		return TokenBestMove, true
	}
	return "", false
}

// validCommand reports whether command can be written as one protocol line.
func validCommand(command string) bool {
	if strings.TrimSpace(command) == "" {
		return false
	}
	return !strings.ContainsAny(command, "\r\n\x00")
}

// FormatSetOption builds "setoption name N value V".
func FormatSetOption(name, value string) string {
	return CmdSetOption + " name " + name + " value " + value
}

// FormatPosition builds a position command. An empty fen selects the
// standard starting position.
func FormatPosition(fen string, moves ...string) string {
	var b strings.Builder
	b.WriteString(CmdPosition)
	if fen == "" {
		b.WriteString(" " + PositionStart)
	} else {
		b.WriteString(" fen " + fen)
	}
	if len(moves) > 0 {
		b.WriteString(" moves " + strings.Join(moves, " "))
	}
	return b.String()
}

// GameTime is the clock state sent with "go wtime ... movestogo ...".
type GameTime struct {
	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration
	MovesToGo int
}

// Format builds the go command for the clock state.
func (g GameTime) Format() string {
	return CmdGo +
		" wtime " + ms(g.WhiteTime) +
		" btime " + ms(g.BlackTime) +
		" winc " + ms(g.WhiteInc) +
		" binc " + ms(g.BlackInc) +
		" movestogo " + strconv.Itoa(g.MovesToGo)
}

// FormatGoMoveTime builds "go movetime {ms}".
func FormatGoMoveTime(d time.Duration) string { return CmdGo + " movetime " + ms(d) }

// FormatGoDepth builds "go depth {plies}".
func FormatGoDepth(plies int) string { return CmdGo + " depth " + strconv.Itoa(plies) }

// FormatGoNodes builds "go nodes {n}".
func FormatGoNodes(nodes int64) string { return CmdGo + " nodes " + strconv.FormatInt(nodes, 10) }

// FormatGoMate builds "go mate {moves}".
func FormatGoMate(moves int) string { return CmdGo + " mate " + strconv.Itoa(moves) }

// FormatGoInfinite builds "go infinite".
func FormatGoInfinite() string { return CmdGo + " infinite" }

func ms(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
