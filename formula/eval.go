package formula

import (
	"fmt"
	"math"
	"strings"

	"github.com/gosheetkit/sheetkit/cellref"
)

// Resolver gives an Evaluator read access to already-resolved cell
// values. A cell that has never been set, or a row/column past the
// end of populated data, reads back as EmptyV rather than an error.
type Resolver interface {
	DefaultSheet() string
	Cell(sheet, col string, row int) Value
}

// Evaluator walks one formula's AST against a Resolver, tracking which
// cells are currently being evaluated so that a Resolver implementation
// that recursively evaluates dependent formula cells (a workbook-level
// recalculation, not something this package does on its own) can
// detect a cycle by calling Enter before recursing and Exit after.
type Evaluator struct {
	r        Resolver
	visiting map[string]bool
}

func NewEvaluator(r Resolver) *Evaluator {
	return &Evaluator{r: r, visiting: map[string]bool{}}
}

// Enter marks key (conventionally "Sheet!A1") as being evaluated,
// failing with CircularReference if it is already on the stack.
func (e *Evaluator) Enter(key string) error {
	if e.visiting[key] {
		return errKind("CircularReference", "formula: circular reference at %s", key)
	}
	e.visiting[key] = true
	return nil
}

// Exit clears key from the in-progress set. Callers must pair every
// successful Enter with an Exit, including on the error path.
func (e *Evaluator) Exit(key string) { delete(e.visiting, key) }

// Eval evaluates expr, returning a Go error only for structural
// failures (an AST shape it cannot evaluate, such as a range outside a
// function argument). Ordinary formula failures — division by zero, a
// non-numeric operand, an unknown function name — are returned as an
// ErrorV result, matching how a real spreadsheet never lets a formula
// "crash": it always produces a value, possibly an error value.
func (e *Evaluator) Eval(expr Expr) (Value, error) {
	switch n := expr.(type) {
	case Number:
		return NumberV(float64(n)), nil
	case Str:
		return StringV(string(n)), nil
	case Bool:
		return BoolV(bool(n)), nil
	case ErrLit:
		return ErrorV(string(n)), nil
	case CellRef:
		return e.evalCellRef(n.Ref), nil
	case Paren:
		return e.Eval(n.Inner)
	case UnaryOp:
		return e.evalUnary(n)
	case BinaryOp:
		return e.evalBinary(n)
	case Call:
		return e.evalCall(n)
	case Range:
		return Value{}, errKind("Internal", "formula: a range may only appear as a function argument")
	}
	return Value{}, errKind("Internal", "formula: unrecognised expression node %T", expr)
}

func (e *Evaluator) evalCellRef(ref CellReference) Value {
	sheet := ref.Sheet
	if sheet == "" {
		sheet = e.r.DefaultSheet()
	}
	return e.r.Cell(sheet, ref.Col, ref.Row)
}

func (e *Evaluator) evalUnary(n UnaryOp) (Value, error) {
	v, err := e.Eval(n.Operand)
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	num, code := coerceNumber(v)
	if code != "" {
		return ErrorV(code), nil
	}
	switch n.Op {
	case OpNeg:
		return NumberV(-num), nil
	case OpPos:
		return NumberV(num), nil
	case OpPercent:
		return NumberV(num / 100), nil
	}
	return Value{}, errKind("Internal", "formula: unknown unary operator")
}

func (e *Evaluator) evalBinary(n BinaryOp) (Value, error) {
	left, err := e.Eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	if left.Kind == VError {
		return left, nil
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return Value{}, err
	}
	if right.Kind == VError {
		return right, nil
	}

	switch n.Op {
	case OpConcat:
		return StringV(coerceString(left) + coerceString(right)), nil
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return compareValues(left, right, n.Op), nil
	}

	a, code := coerceNumber(left)
	if code != "" {
		return ErrorV(code), nil
	}
	b, code := coerceNumber(right)
	if code != "" {
		return ErrorV(code), nil
	}
	switch n.Op {
	case OpAdd:
		return NumberV(a + b), nil
	case OpSub:
		return NumberV(a - b), nil
	case OpMul:
		return NumberV(a * b), nil
	case OpDiv:
		if b == 0 {
			return ErrorV("#DIV/0!"), nil
		}
		return NumberV(a / b), nil
	case OpPow:
		return NumberV(math.Pow(a, b)), nil
	}
	return Value{}, errKind("Internal", "formula: unknown binary operator")
}

// typeRank orders values for cross-type comparison the way Excel
// does: numbers (and blanks, which coerce to 0) sort below strings,
// which sort below booleans.
func typeRank(v Value) int {
	switch v.Kind {
	case VString:
		return 1
	case VBool:
		return 2
	default:
		return 0
	}
}

func compareValues(a, b Value, op BinOp) Value {
	var cmp int
	ra, rb := typeRank(a), typeRank(b)
	switch {
	case ra != rb:
		if ra < rb {
			cmp = -1
		} else {
			cmp = 1
		}
	case ra == 1:
		cmp = strings.Compare(strings.ToUpper(a.Str), strings.ToUpper(b.Str))
	case ra == 2:
		switch {
		case a.Bool == b.Bool:
			cmp = 0
		case !a.Bool:
			cmp = -1
		default:
			cmp = 1
		}
	default:
		an, _ := coerceNumber(a)
		bn, _ := coerceNumber(b)
		switch {
		case an < bn:
			cmp = -1
		case an > bn:
			cmp = 1
		default:
			cmp = 0
		}
	}

	var result bool
	switch op {
	case OpEq:
		result = cmp == 0
	case OpNe:
		result = cmp != 0
	case OpLt:
		result = cmp < 0
	case OpLe:
		result = cmp <= 0
	case OpGt:
		result = cmp > 0
	case OpGe:
		result = cmp >= 0
	}
	return BoolV(result)
}

func (e *Evaluator) evalCall(n Call) (Value, error) {
	fn, ok := lookupFunction(n.Name)
	if !ok {
		return ErrorV("#NAME?"), nil
	}
	return fn(n.Args, e)
}

// cellsInRange expands a Range into its constituent cell values,
// row-major, normalising reversed start/end corners the way Excel's
// range selection does.
func (e *Evaluator) cellsInRange(rg Range) ([]Value, error) {
	sheet := rg.Start.Sheet
	if sheet == "" {
		sheet = rg.End.Sheet
	}
	if sheet == "" {
		sheet = e.r.DefaultSheet()
	}
	c1, err := cellref.ColumnNameToNumber(rg.Start.Col)
	if err != nil {
		return nil, err
	}
	c2, err := cellref.ColumnNameToNumber(rg.End.Col)
	if err != nil {
		return nil, err
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	r1, r2 := rg.Start.Row, rg.End.Row
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	var out []Value
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			name, err := cellref.ColumnNumberToName(col)
			if err != nil {
				return nil, err
			}
			out = append(out, e.r.Cell(sheet, name, row))
		}
	}
	return out, nil
}

// flattenArgsToValues evaluates each argument, expanding any Range
// argument into its individual cell values, for functions (COUNT,
// SUM, AND, ...) that accept a mix of scalars and ranges.
func (e *Evaluator) flattenArgsToValues(args []Expr) ([]Value, error) {
	var out []Value
	for _, a := range args {
		if rg, ok := a.(Range); ok {
			vals, err := e.cellsInRange(rg)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
			continue
		}
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// collectNumbers flattens args and coerces every value that will
// coerce to a number, silently skipping ones that won't (text that
// isn't numeric, blanks already coerce to zero so they're kept).
// Any error value among the arguments short-circuits as a Go error
// carrying that code, for callers (the aggregate functions) to turn
// back into an ErrorV result.
func (e *Evaluator) collectNumbers(args []Expr) ([]float64, error) {
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return nil, err
	}
	if code := firstErrorCode(values); code != "" {
		return nil, fmt.Errorf("%s", code)
	}
	var nums []float64
	for _, v := range values {
		if v.Kind == VString {
			n, code := coerceNumber(v)
			if code == "" {
				nums = append(nums, n)
			}
			continue
		}
		n, _ := coerceNumber(v)
		nums = append(nums, n)
	}
	return nums, nil
}

// rangeValues returns the flattened values of a single range-or-cell
// argument, used by the conditional-aggregation functions (SUMIF and
// friends) where the first argument names the criteria range.
func (e *Evaluator) rangeValues(arg Expr) ([]Value, error) {
	if rg, ok := arg.(Range); ok {
		return e.cellsInRange(rg)
	}
	v, err := e.Eval(arg)
	if err != nil {
		return nil, err
	}
	return []Value{v}, nil
}
