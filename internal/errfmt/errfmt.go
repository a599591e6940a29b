// Package errfmt bounds engine-supplied text before it is stored or
// propagated in errors.
package errfmt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxLen bounds an engine error message.
	MaxLen = 4096

	// MaxTextLen bounds identity strings (engine name and author).
	MaxTextLen = 256
)

// Clip returns at most n bytes of s. A rune cut by the limit is dropped
// whole, so valid UTF-8 stays valid.
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	s = s[:n]
	if r, size := utf8.DecodeLastRuneInString(s); r == utf8.RuneError && size <= 1 {
		// Back up over the continuation bytes of the cut rune.
		for i := 0; i < utf8.UTFMax && len(s) > 0 && !utf8.RuneStart(s[len(s)-1]); i++ {
			s = s[:len(s)-1]
		}
		if len(s) > 0 && !utf8.FullRuneInString(s[len(s)-1:]) {
			s = s[:len(s)-1]
		}
	}
	return s
}

// Truncate bounds an engine error line to MaxLen.
func Truncate(s string) string { return Clip(s, MaxLen) }

// SanitizeText is for identity strings: surrounding space is trimmed and
// anything carrying a control character is discarded as "".
func SanitizeText(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.IndexFunc(raw, unicode.IsControl) >= 0 {
		return ""
	}
	return Clip(raw, MaxTextLen)
}
