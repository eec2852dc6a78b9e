package formula

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// snapshot is a minimal in-memory Resolver for tests, mirroring the
// Rust original's CellSnapshot test fixture.
type snapshot struct {
	def   string
	cells map[string]Value
}

func newSnapshot(defaultSheet string) *snapshot {
	return &snapshot{def: defaultSheet, cells: map[string]Value{}}
}

func (s *snapshot) set(sheet, ref string, v Value) {
	s.cells[sheet+"!"+ref] = v
}

func (s *snapshot) DefaultSheet() string { return s.def }

func (s *snapshot) Cell(sheet, col string, row int) Value {
	key := sheet + "!" + col + itoa(row)
	if v, ok := s.cells[key]; ok {
		return v
	}
	return EmptyV
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func eval(t *testing.T, formula string) Value {
	t.Helper()
	return evalWith(t, newSnapshot("Sheet1"), formula)
}

func evalWith(t *testing.T, snap *snapshot, formula string) Value {
	t.Helper()
	expr, err := Parse(formula)
	require.NoError(t, err)
	v, err := NewEvaluator(snap).Eval(expr)
	require.NoError(t, err)
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	require.Equal(t, NumberV(14), eval(t, "2+3*4"))
	require.Equal(t, NumberV(20), eval(t, "(2+3)*4"))
	require.Equal(t, NumberV(8), eval(t, "2^3"))
	require.Equal(t, NumberV(-5), eval(t, "-5"))
	require.Equal(t, NumberV(0.5), eval(t, "50%"))
}

func TestDivisionByZero(t *testing.T) {
	require.Equal(t, ErrorV("#DIV/0!"), eval(t, "1/0"))
}

func TestConcatenation(t *testing.T) {
	require.Equal(t, StringV("ab"), eval(t, `"a"&"b"`))
	require.Equal(t, StringV("a1"), eval(t, `"a"&1`))
}

func TestComparisonOrdering(t *testing.T) {
	require.Equal(t, BoolV(true), eval(t, `1<"a"`))
	require.Equal(t, BoolV(true), eval(t, `"a"<TRUE`))
	require.Equal(t, BoolV(true), eval(t, "1=1"))
}

func TestCellReferenceAndSheetPrefix(t *testing.T) {
	snap := newSnapshot("Sheet1")
	snap.set("Sheet1", "A1", NumberV(5))
	snap.set("Other", "B2", NumberV(7))
	require.Equal(t, NumberV(5), evalWith(t, snap, "A1"))
	require.Equal(t, NumberV(7), evalWith(t, snap, "Other!B2"))
	require.Equal(t, NumberV(12), evalWith(t, snap, "A1+Other!B2"))
}

func TestQuotedSheetPrefix(t *testing.T) {
	snap := newSnapshot("Sheet1")
	snap.set("My Sheet", "A1", NumberV(3))
	require.Equal(t, NumberV(3), evalWith(t, snap, "'My Sheet'!A1"))
}

func TestSumOverRange(t *testing.T) {
	snap := newSnapshot("Sheet1")
	snap.set("Sheet1", "A1", NumberV(1))
	snap.set("Sheet1", "A2", NumberV(2))
	snap.set("Sheet1", "A3", NumberV(3))
	require.Equal(t, NumberV(6), evalWith(t, snap, "SUM(A1:A3)"))
}

func TestIfShortCircuits(t *testing.T) {
	require.Equal(t, NumberV(1), eval(t, "IF(TRUE,1,1/0)"))
	require.Equal(t, NumberV(1), eval(t, "IF(FALSE,1/0,1)"))
}

func TestIferrorCatchesPropagatedError(t *testing.T) {
	require.Equal(t, StringV("fallback"), eval(t, `IFERROR(1/0,"fallback")`))
}

func TestCountifWildcard(t *testing.T) {
	snap := newSnapshot("Sheet1")
	snap.set("Sheet1", "A1", StringV("Apple"))
	snap.set("Sheet1", "A2", StringV("Banana"))
	snap.set("Sheet1", "A3", StringV("Apricot"))
	require.Equal(t, NumberV(2), evalWith(t, snap, `COUNTIF(A1:A3,"Ap*")`))
}

func TestSumifGreaterThan(t *testing.T) {
	snap := newSnapshot("Sheet1")
	snap.set("Sheet1", "A1", NumberV(2))
	snap.set("Sheet1", "A2", NumberV(4))
	snap.set("Sheet1", "A3", NumberV(6))
	require.Equal(t, NumberV(10), evalWith(t, snap, `SUMIF(A1:A3,">3")`))
}

func TestUnknownFunctionIsNameError(t *testing.T) {
	require.Equal(t, ErrorV("#NAME?"), eval(t, "NOSUCHFN(1)"))
}

func TestTrailingInputRejected(t *testing.T) {
	_, err := Parse("1+2)")
	require.Error(t, err)
}

func TestCircularReferenceDetection(t *testing.T) {
	e := NewEvaluator(newSnapshot("Sheet1"))
	require.NoError(t, e.Enter("Sheet1!A1"))
	err := e.Enter("Sheet1!A1")
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "CircularReference", fe.Kind)
	e.Exit("Sheet1!A1")
	require.NoError(t, e.Enter("Sheet1!A1"))
}

func TestTextFunctions(t *testing.T) {
	require.Equal(t, StringV("HELLO"), eval(t, `UPPER("hello")`))
	require.Equal(t, NumberV(5), eval(t, `LEN("hello")`))
	require.Equal(t, StringV("Hello World"), eval(t, `PROPER("hello world")`))
	require.Equal(t, StringV("ell"), eval(t, `MID("hello",2,3)`))
}
