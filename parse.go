package uci

import (
	"strconv"
	"strings"
	"time"
)

// Line grammar. Engine output is untrusted: every parser here accepts
// truncated or malformed input and reports failure instead of panicking.
//
//	error       = "info string ERROR: " text
//	id-name     = "id name " text
//	id-author   = "id author " text
//	option      = "option name " name " type" [ " " type ] { " " key [ " " value ] }
//	bestmove    = "bestmove" [ " " move [ " ponder " move ] ]
//	info        = "info" { " " key [ " " value ] }
//	diagnostic  = "Checkers: " text
//
// An option name runs from the marker to the first " type" tag. A default
// value runs to the next space; the sentinel "<empty>" stands for "".

const (
	typeTag       = " type"
	emptySentinel = "<empty>"
)

// ParseLine classifies a raw output line. Seq and Time are left zero.
func ParseLine(raw string) Line {
	kind, payload := classify(raw)
	return Line{Raw: raw, Kind: kind, Payload: payload}
}

// classify returns the kind of raw and the text after its marker.
// The error marker is checked before the info marker it extends.
func classify(raw string) (LineKind, string) {
	if rest, ok := strings.CutPrefix(raw, MarkerError); ok {
		return KindError, rest
	}
	if rest, ok := strings.CutPrefix(raw, MarkerIDName); ok {
		return KindIDName, rest
	}
	if rest, ok := strings.CutPrefix(raw, MarkerIDAuthor); ok {
		return KindIDAuthor, rest
	}
	if rest, ok := strings.CutPrefix(raw, MarkerOption); ok {
		return KindOption, rest
	}
	switch {
	case strings.HasPrefix(raw, TokenUCIOK):
		return KindUCIOK, ""
	case strings.HasPrefix(raw, TokenReadyOK):
		return KindReadyOK, ""
	case strings.HasPrefix(raw, TokenBestMove):
		return KindBestMove, strings.TrimSpace(raw[len(TokenBestMove):])
	case raw == "info" || strings.HasPrefix(raw, MarkerInfo):
		return KindInfo, strings.TrimSpace(raw[len("info"):])
	case strings.HasPrefix(raw, TokenDebug):
		return KindDiagnostic, raw[len(TokenDebug):]
	}
	return KindOther, ""
}

// ParseOptionDecl parses an option declaration line. ok is false when the
// line is not a declaration, has no type tag, or has an empty name.
func ParseOptionDecl(raw string) (decl OptionDecl, ok bool) {
	body, found := strings.CutPrefix(raw, MarkerOption)
	if !found {
		return OptionDecl{}, false
	}
	idx := typeTagIndex(body)
	if idx < 0 {
		return OptionDecl{}, false
	}
	decl.Name = strings.TrimSpace(body[:idx])
	if decl.Name == "" {
		return OptionDecl{}, false
	}

	fields := strings.Fields(body[idx+len(typeTag):])
	if len(fields) == 0 {
		return decl, true
	}
	decl.Type = fields[0]
	for i := 1; i < len(fields); i++ {
		key := fields[i]
		var value string
		if i+1 < len(fields) {
			value = fields[i+1]
		}
		switch key {
		case "default":
			decl.Default = strings.ReplaceAll(value, emptySentinel, "")
		case "min":
			decl.Min = value
		case "max":
			decl.Max = value
		case "var":
			if value != "" {
				decl.Vars = append(decl.Vars, value)
			}
		default:
			continue
		}
		i++
	}
	return decl, true
}

// typeTagIndex returns the index of the first " type" tag in body that is
// followed by a space or the end of the line, or -1.
func typeTagIndex(body string) int {
	offset := 0
	for {
		i := strings.Index(body[offset:], typeTag)
		if i < 0 {
			return -1
		}
		end := offset + i + len(typeTag)
		if end == len(body) || body[end] == ' ' {
			return offset + i
		}
		offset = end
	}
}

// ParseBestMove parses a bestmove line. best is empty when the engine
// reported no move. ok is false when raw is not a bestmove line.
func ParseBestMove(raw string) (best, ponder string, ok bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || fields[0] != TokenBestMove {
		return "", "", false
	}
	if len(fields) > 1 && fields[1] != NoMove {
		best = fields[1]
	}
	if len(fields) > 3 && fields[2] == "ponder" && fields[3] != NoMove {
		ponder = fields[3]
	}
	return best, ponder, true
}

// ParseInfo parses the payload of an info line (the text after "info").
// Unknown keys and unparsable values are skipped.
func ParseInfo(payload string) Info {
	var info Info
	fields := strings.Fields(payload)
	next := func(i int) string {
		if i+1 < len(fields) {
			return fields[i+1]
		}
		return ""
	}
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			info.Depth = atoi(next(i))
			i++
		case "seldepth":
			info.SelDepth = atoi(next(i))
			i++
		case "multipv":
			info.MultiPV = atoi(next(i))
			i++
		case "hashfull":
			info.HashFull = atoi(next(i))
			i++
		case "nodes":
			info.Nodes = atoi64(next(i))
			i++
		case "nps":
			info.NPS = atoi64(next(i))
			i++
		case "tbhits":
			info.TBHits = atoi64(next(i))
			i++
		case "time":
			info.Time = time.Duration(atoi64(next(i))) * time.Millisecond
			i++
		case "score":
			var consumed int
			info.Score, consumed = parseScore(fields[i+1:])
			i += consumed
		case "pv":
			info.PV = append([]string(nil), fields[i+1:]...)
			return info
		case "string":
			info.String = strings.Join(fields[i+1:], " ")
			return info
		}
	}
	return info
}

// parseScore parses "cp N" or "mate N" with an optional bound and returns
// the number of fields consumed.
func parseScore(fields []string) (*Score, int) {
	if len(fields) < 2 {
		return nil, len(fields)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, 2
	}
	var s Score
	switch fields[0] {
	case "cp":
		s.Centipawns = n
	case "mate":
		s.Mate = n
	default:
		return nil, 2
	}
	consumed := 2
	if len(fields) > 2 && (fields[2] == "lowerbound" || fields[2] == "upperbound") {
		s.Bound = fields[2]
		consumed++
	}
	return &s, consumed
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
