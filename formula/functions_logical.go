package formula

func fnIf(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 3) {
		return ErrorV("#VALUE!"), nil
	}
	cond, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if cond.Kind == VError {
		return cond, nil
	}
	truth, code := coerceBool(cond)
	if code != "" {
		return ErrorV(code), nil
	}
	if truth {
		if len(args) > 1 {
			return e.Eval(args[1])
		}
		return BoolV(true), nil
	}
	if len(args) > 2 {
		return e.Eval(args[2])
	}
	return BoolV(false), nil
}

func fnAnd(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return Value{}, err
	}
	for _, v := range values {
		if v.Kind == VEmpty {
			continue
		}
		b, code := coerceBool(v)
		if code != "" {
			return ErrorV(code), nil
		}
		if !b {
			return BoolV(false), nil
		}
	}
	return BoolV(true), nil
}

func fnOr(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return Value{}, err
	}
	for _, v := range values {
		if v.Kind == VEmpty {
			continue
		}
		b, code := coerceBool(v)
		if code != "" {
			return ErrorV(code), nil
		}
		if b {
			return BoolV(true), nil
		}
	}
	return BoolV(false), nil
}

func fnNot(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	b, code := coerceBool(v)
	if code != "" {
		return ErrorV(code), nil
	}
	return BoolV(!b), nil
}

func fnXor(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return Value{}, err
	}
	trueCount := 0
	for _, v := range values {
		if v.Kind == VEmpty {
			continue
		}
		b, code := coerceBool(v)
		if code != "" {
			return ErrorV(code), nil
		}
		if b {
			trueCount++
		}
	}
	return BoolV(trueCount%2 != 0 && trueCount > 0), nil
}

func fnTrue(args []Expr, _ *Evaluator) (Value, error) {
	if !checkArgCount(args, 0, 0) {
		return ErrorV("#VALUE!"), nil
	}
	return BoolV(true), nil
}

func fnFalse(args []Expr, _ *Evaluator) (Value, error) {
	if !checkArgCount(args, 0, 0) {
		return ErrorV("#VALUE!"), nil
	}
	return BoolV(false), nil
}

func fnIferror(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil || v.Kind == VError {
		return e.Eval(args[1])
	}
	return v, nil
}

func fnIfna(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError && v.Err == "#N/A" {
		return e.Eval(args[1])
	}
	return v, nil
}

func fnIfs(args []Expr, e *Evaluator) (Value, error) {
	if len(args) < 2 || len(args)%2 != 0 {
		return ErrorV("#VALUE!"), nil
	}
	for i := 0; i < len(args); i += 2 {
		cond, err := e.Eval(args[i])
		if err != nil {
			return Value{}, err
		}
		if cond.Kind == VError {
			return cond, nil
		}
		truth, code := coerceBool(cond)
		if code != "" {
			return ErrorV(code), nil
		}
		if truth {
			return e.Eval(args[i+1])
		}
	}
	return ErrorV("#N/A"), nil
}

func fnSwitch(args []Expr, e *Evaluator) (Value, error) {
	if len(args) < 3 {
		return ErrorV("#VALUE!"), nil
	}
	exprVal, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	hasDefault := len(args)%2 == 0
	pairsEnd := len(args)
	if hasDefault {
		pairsEnd = len(args) - 1
	}
	for i := 1; i+1 < pairsEnd; i += 2 {
		caseVal, err := e.Eval(args[i])
		if err != nil {
			return Value{}, err
		}
		if switchValuesEqual(exprVal, caseVal) {
			return e.Eval(args[i+1])
		}
	}
	if hasDefault {
		return e.Eval(args[len(args)-1])
	}
	return ErrorV("#N/A"), nil
}

func switchValuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case VNumber:
		return a.Number == b.Number
	case VString:
		return a.Str == b.Str
	case VBool:
		return a.Bool == b.Bool
	case VEmpty:
		return true
	}
	return false
}
