package uci

import "time"

// LineKind identifies the kind of an engine output line.
type LineKind string

const (
	// KindError is an error marker line ("info string ERROR: ...").
	KindError LineKind = "error"

	// KindIDName carries the engine's self-reported name.
	KindIDName LineKind = "id_name"

	// KindIDAuthor carries the engine's self-reported author.
	KindIDAuthor LineKind = "id_author"

	// KindOption is an option declaration ("option name ... type ...").
	KindOption LineKind = "option"

	// KindUCIOK acknowledges the uci handshake.
	KindUCIOK LineKind = "uciok"

	// KindReadyOK acknowledges isready.
	KindReadyOK LineKind = "readyok"

	// KindBestMove reports the result of a search.
	KindBestMove LineKind = "bestmove"

	// KindInfo is search progress ("info depth ... pv ...").
	KindInfo LineKind = "info"

	// KindDiagnostic is the final line of the "d" diagnostic dump.
	KindDiagnostic LineKind = "diagnostic"

	// KindOther is any line the dispatcher does not interpret.
	KindOther LineKind = "other"
)

// Line is one classified line of engine output.
type Line struct {
	// Seq is the 1-based delivery order of the line within the engine's
	// lifetime.
	Seq uint64

	// Raw is the line as received, without the trailing newline.
	Raw string

	// Kind is the classification of Raw.
	Kind LineKind

	// Payload is Raw with the kind's marker removed (error text, engine
	// name, option declaration body). Empty for kinds without a marker.
	Payload string

	// Time is when the line was read.
	Time time.Time
}

// OptionDecl is a parsed option declaration. Only Name is required; the
// other fields are kept for introspection and are not validated.
type OptionDecl struct {
	Name    string
	Type    string
	Default string
	Min     string
	Max     string
	Vars    []string
}

// Score is the engine's evaluation from the side to move.
type Score struct {
	// Centipawns is valid when Mate is zero.
	Centipawns int

	// Mate is the signed distance to mate in moves; zero means no mate score.
	Mate int

	// Bound is "lowerbound", "upperbound" or empty for an exact score.
	Bound string
}

// Info is a parsed "info" line. Zero fields were not reported.
type Info struct {
	Depth    int
	SelDepth int
	MultiPV  int
	Score    *Score
	Nodes    int64
	NPS      int64
	Time     time.Duration
	HashFull int
	TBHits   int64
	PV       []string
	String   string
}

// SearchResult is the outcome of a go command.
type SearchResult struct {
	// BestMove is the move in long algebraic notation, or empty when the
	// engine answered "bestmove (none)".
	BestMove string

	// Ponder is the expected reply, if the engine reported one.
	Ponder string

	// Raw is the full bestmove line.
	Raw string

	// Info is the last info line with search data seen during the search.
	Info Info
}
