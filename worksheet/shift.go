package worksheet

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gosheetkit/sheetkit/cellref"
)

// Ref is a cell reference found while scanning formula text: its
// coordinates, absolute-marker flags, and (if the reference was
// sheet-qualified, e.g. "Sheet1!A1") the sheet name.
type Ref struct {
	Sheet  string
	Col    int
	Row    int
	ColAbs bool
	RowAbs bool
}

// ShiftReferences rewrites every A1-style cell reference found in
// formula by calling shift with its parsed coordinates. shift returns
// the replacement coordinates and whether to rewrite at all (false
// leaves the original text for that occurrence untouched — e.g. a
// reference to a sheet the caller isn't shifting). String literals
// (double-quoted, with "" escaping) are passed through unexamined, and
// any non-ASCII rune is copied verbatim.
func ShiftReferences(formula string, shift func(ref Ref) (Ref, bool)) string {
	out := make([]byte, 0, len(formula))
	inQuote := false
	i := 0
	for i < len(formula) {
		ch := formula[i]
		if ch == '"' {
			inQuote = !inQuote
			out = append(out, ch)
			i++
			continue
		}
		if !inQuote && isBoundaryBefore(formula, i) {
			if tok, end, ref, ok := tryParseRef(formula, i); ok && isBoundaryAfter(formula, end) {
				// tok may start before i (a sheet-name prefix already
				// copied byte-for-byte by earlier loop iterations, since
				// the prefix only becomes part of a reference once the
				// "!" and the following A1 token are both seen). Retract
				// that already-emitted text before re-writing the token.
				start := end - len(tok)
				if trim := i - start; trim > 0 {
					out = out[:len(out)-trim]
				}
				if newRef, rewrite := shift(ref); rewrite {
					out = append(out, renderRef(newRef)...)
				} else {
					out = append(out, tok...)
				}
				i = end
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(formula[i:])
		out = append(out, formula[i:i+size]...)
		i += size
	}
	return string(out)
}

func isWordByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b == '_' || b == '.'
}

func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(s[i-1])
}

func isBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return !isWordByte(s[i])
}

// tryParseRef attempts to parse a (possibly "$"-qualified) column-letter
// + row-number token starting at i, and, if immediately preceded by
// "Name!" or "'Name'!", captures that sheet prefix into Ref.Sheet. It
// returns the full matched text (sheet prefix included), the index just
// past the row digits, the parsed Ref, and whether a match was found.
func tryParseRef(s string, i int) (tok string, end int, ref Ref, ok bool) {
	j := i
	colAbs := false
	if j < len(s) && s[j] == '$' {
		colAbs = true
		j++
	}
	letterStart := j
	for j < len(s) && isASCIILetter(s[j]) {
		j++
	}
	if j == letterStart || j-letterStart > 3 {
		return "", 0, Ref{}, false
	}
	colName := s[letterStart:j]

	rowAbs := false
	if j < len(s) && s[j] == '$' {
		rowAbs = true
		j++
	}
	digitStart := j
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == digitStart {
		return "", 0, Ref{}, false
	}
	rowNum, err := strconv.Atoi(s[digitStart:j])
	if err != nil {
		return "", 0, Ref{}, false
	}
	col, err := cellref.ColumnNameToNumber(colName)
	if err != nil || col > cellref.MaxColumn {
		return "", 0, Ref{}, false
	}

	start := i
	sheet, sheetStart, hasSheet := sheetPrefixBefore(s, i)
	if hasSheet {
		start = sheetStart
	}

	return s[start:j], j, Ref{Sheet: sheet, Col: col, Row: rowNum, ColAbs: colAbs, RowAbs: rowAbs}, true
}

func isASCIILetter(b byte) bool { return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' }

// sheetPrefixBefore looks immediately before position i in s for a
// "Name!" or "'Name'!"-quoted sheet-name prefix, returning its unquoted
// name, the byte index where the prefix text begins, and whether one
// was found.
func sheetPrefixBefore(s string, i int) (name string, start int, ok bool) {
	if i == 0 || s[i-1] != '!' {
		return "", 0, false
	}
	bangIdx := i - 1
	if bangIdx > 0 && s[bangIdx-1] == '\'' {
		// Scan backward for the matching opening quote, respecting '' escapes.
		j := bangIdx - 1
		for j > 0 {
			j--
			if s[j] == '\'' {
				if j > 0 && s[j-1] == '\'' {
					j--
					continue
				}
				inner := s[j+1 : bangIdx-1]
				return strings.ReplaceAll(inner, "''", "'"), j, true
			}
		}
		return "", 0, false
	}
	j := bangIdx
	for j > 0 && isWordByte(s[j-1]) {
		j--
	}
	if j == bangIdx {
		return "", 0, false
	}
	return s[j:bangIdx], j, true
}

func renderRef(r Ref) string {
	var b strings.Builder
	if r.Sheet != "" {
		if strings.ContainsAny(r.Sheet, " !'") {
			b.WriteByte('\'')
			b.WriteString(strings.ReplaceAll(r.Sheet, "'", "''"))
			b.WriteByte('\'')
		} else {
			b.WriteString(r.Sheet)
		}
		b.WriteByte('!')
	}
	if r.ColAbs {
		b.WriteByte('$')
	}
	name, _ := cellref.ColumnNumberToName(r.Col)
	b.WriteString(name)
	if r.RowAbs {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(r.Row))
	return b.String()
}

