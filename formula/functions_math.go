package formula

import "math"

func fnAbs(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	n, code := coerceNumber(v)
	if code != "" {
		return ErrorV(code), nil
	}
	return NumberV(math.Abs(n)), nil
}

func fnInt(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	n, code := coerceNumber(v)
	if code != "" {
		return ErrorV(code), nil
	}
	return NumberV(math.Floor(n)), nil
}

func fnRound(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	d, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	n, code := coerceNumber(v)
	if code != "" {
		return ErrorV(code), nil
	}
	digits, code := coerceNumber(d)
	if code != "" {
		return ErrorV(code), nil
	}
	factor := math.Pow(10, digits)
	return NumberV(math.Round(n*factor) / factor), nil
}

func fnMod(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	av, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	bv, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	a, code := coerceNumber(av)
	if code != "" {
		return ErrorV(code), nil
	}
	b, code := coerceNumber(bv)
	if code != "" {
		return ErrorV(code), nil
	}
	if b == 0 {
		return ErrorV("#DIV/0!"), nil
	}
	// result takes the sign of the divisor, matching Excel's MOD.
	return NumberV(a - math.Floor(a/b)*b), nil
}

func fnPower(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	bv, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	ev, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	base, code := coerceNumber(bv)
	if code != "" {
		return ErrorV(code), nil
	}
	exp, code := coerceNumber(ev)
	if code != "" {
		return ErrorV(code), nil
	}
	return NumberV(math.Pow(base, exp)), nil
}

func fnSqrt(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	n, code := coerceNumber(v)
	if code != "" {
		return ErrorV(code), nil
	}
	if n < 0 {
		return ErrorV("#NUM!"), nil
	}
	return NumberV(math.Sqrt(n)), nil
}
