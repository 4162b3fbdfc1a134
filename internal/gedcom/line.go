// Package gedcom round-trips a family graph to a line-oriented
// hierarchical text format compatible with the GEDCOM 5.5 family of
// specifications. Decoding is a two-pass build: individuals first, then
// family-unit records that resolve the cross-references. Encoding is
// deterministic so that decode-then-encode reproduces the input bytes.
package gedcom

import (
	"fmt"
	"strconv"
	"strings"
)

// Error kinds carried by CodecError.
const (
	KindBadLevel = "bad level"
	KindBadTag   = "bad tag"
	KindBadDate  = "bad date"
	KindBadXref  = "bad xref"
	KindOrphan   = "dangling reference"
	KindRefused  = "relation refused"
)

// CodecError describes one malformed input line. The decoder records it
// and continues; it never aborts the whole parse.
type CodecError struct {
	Line int
	Kind string
	Text string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("gedcom: line %d: %s: %s", e.Line, e.Kind, e.Text)
}

// line is one parsed `LEVEL TAG [VALUE]` row.
type line struct {
	num   int // 1-based input line number
	level int
	tag   string
	value string
}

// xref reports whether the tag is an @XREF@ and returns the bare ID.
func (l line) xref() (string, bool) {
	if len(l.tag) >= 3 && l.tag[0] == '@' && l.tag[len(l.tag)-1] == '@' {
		return l.tag[1 : len(l.tag)-1], true
	}
	return "", false
}

// stripXref unwraps an @X@ value.
func stripXref(v string) (string, bool) {
	if len(v) >= 3 && v[0] == '@' && v[len(v)-1] == '@' {
		return v[1 : len(v)-1], true
	}
	return "", false
}

// parseLine splits a raw line into level, tag, and optional value. The
// separator is a single ASCII space; the value keeps any further spaces.
func parseLine(num int, raw string) (line, *CodecError) {
	parts := strings.SplitN(raw, " ", 3)
	if len(parts) < 2 {
		return line{}, &CodecError{num, KindBadTag, raw}
	}
	level, err := strconv.Atoi(parts[0])
	if err != nil || level < 0 {
		return line{}, &CodecError{num, KindBadLevel, raw}
	}
	tag := parts[1]
	if _, isXref := (line{tag: tag}).xref(); !isXref && !isUpperIdent(tag) {
		return line{}, &CodecError{num, KindBadTag, raw}
	}
	l := line{num: num, level: level, tag: tag}
	if len(parts) == 3 {
		l.value = parts[2]
	}
	return l, nil
}

func isUpperIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// splitName separates `given /surname/` into its parts. The surname may
// be empty; a missing slash pair leaves the whole value as the given name.
func splitName(v string) (given, surname string) {
	open := strings.Index(v, "/")
	if open < 0 {
		return strings.TrimSpace(v), ""
	}
	close := strings.Index(v[open+1:], "/")
	given = strings.TrimSpace(v[:open])
	if close < 0 {
		surname = strings.TrimSpace(v[open+1:])
		return given, surname
	}
	return given, v[open+1 : open+1+close]
}
