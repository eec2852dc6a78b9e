package formula

// Fn is the signature every built-in implements. Functions receive
// their unevaluated argument expressions plus the Evaluator so they
// can short-circuit (IF only evaluates the taken branch) or expand a
// range argument themselves (SUM, COUNTIF, ...).
type Fn func(args []Expr, e *Evaluator) (Value, error)

var builtins = map[string]Fn{
	// Aggregate
	"SUM":     fnSum,
	"AVERAGE": fnAverage,
	"COUNT":   fnCount,
	"COUNTA":  fnCounta,
	"MIN":     fnMin,
	"MAX":     fnMax,
	"MEDIAN":  fnMedian,
	"MODE":    fnMode,
	"LARGE":   fnLarge,
	"SMALL":   fnSmall,
	"RANK":    fnRank,

	// Conditional aggregation
	"SUMIF":       fnSumif,
	"SUMIFS":      fnSumifs,
	"AVERAGEIF":   fnAverageif,
	"AVERAGEIFS":  fnAverageifs,
	"COUNTIF":     fnCountif,
	"COUNTIFS":    fnCountifs,
	"COUNTBLANK":  fnCountblank,

	// Logical
	"IF":       fnIf,
	"AND":      fnAnd,
	"OR":       fnOr,
	"NOT":      fnNot,
	"XOR":      fnXor,
	"TRUE":     fnTrue,
	"FALSE":    fnFalse,
	"IFERROR":  fnIferror,
	"IFNA":     fnIfna,
	"IFS":      fnIfs,
	"SWITCH":   fnSwitch,

	// Math
	"ABS":   fnAbs,
	"INT":   fnInt,
	"ROUND": fnRound,
	"MOD":   fnMod,
	"POWER": fnPower,
	"SQRT":  fnSqrt,

	// Text
	"LEN":          fnLen,
	"LOWER":        fnLower,
	"UPPER":        fnUpper,
	"TRIM":         fnTrim,
	"LEFT":         fnLeft,
	"RIGHT":        fnRight,
	"MID":          fnMid,
	"CONCAT":       fnConcat,
	"CONCATENATE":  fnConcat,
	"FIND":         fnFind,
	"SEARCH":       fnSearch,
	"SUBSTITUTE":   fnSubstitute,
	"REPLACE":      fnReplace,
	"REPT":         fnRept,
	"EXACT":        fnExact,
	"T":            fnT,
	"PROPER":       fnProper,
	"VALUE":        fnValue,
	"TEXT":         fnText,

	// Information
	"ISNUMBER":   fnIsnumber,
	"ISTEXT":     fnIstext,
	"ISBLANK":    fnIsblank,
	"ISERROR":    fnIserror,
	"ISERR":      fnIserr,
	"ISNA":       fnIsna,
	"ISLOGICAL":  fnIslogical,
	"ISEVEN":     fnIseven,
	"ISODD":      fnIsodd,
	"TYPE":       fnType,
	"N":          fnN,
	"NA":         fnNa,
	"ERROR.TYPE": fnErrorType,
}

func lookupFunction(name string) (Fn, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

func checkArgCount(args []Expr, min, max int) bool {
	return len(args) >= min && len(args) <= max
}
