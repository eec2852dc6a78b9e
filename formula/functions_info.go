package formula

func fnIsnumber(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VNumber), nil
}

func fnIstext(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VString), nil
}

func fnIsblank(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VEmpty), nil
}

func fnIserror(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VError), nil
}

func fnIserr(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VError && v.Err != "#N/A"), nil
}

func fnIsna(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VError && v.Err == "#N/A"), nil
}

func fnIslogical(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	return BoolV(v.Kind == VBool), nil
}

func fnIseven(args []Expr, e *Evaluator) (Value, error) {
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
	return BoolV(int64(n)%2 == 0), nil
}

func fnIsodd(args []Expr, e *Evaluator) (Value, error) {
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
	return BoolV(int64(n)%2 != 0), nil
}

func fnType(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case VString:
		return NumberV(2), nil
	case VBool:
		return NumberV(4), nil
	case VError:
		return NumberV(16), nil
	default:
		return NumberV(1), nil
	}
}

func fnN(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case VNumber:
		return v, nil
	case VBool:
		if v.Bool {
			return NumberV(1), nil
		}
		return NumberV(0), nil
	case VError:
		return v, nil
	default:
		return NumberV(0), nil
	}
}

func fnNa(args []Expr, _ *Evaluator) (Value, error) {
	if !checkArgCount(args, 0, 0) {
		return ErrorV("#VALUE!"), nil
	}
	return ErrorV("#N/A"), nil
}

func fnErrorType(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind != VError {
		return ErrorV("#N/A"), nil
	}
	switch v.Err {
	case "#NULL!":
		return NumberV(1), nil
	case "#DIV/0!":
		return NumberV(2), nil
	case "#VALUE!":
		return NumberV(3), nil
	case "#REF!":
		return NumberV(4), nil
	case "#NAME?":
		return NumberV(5), nil
	case "#NUM!":
		return NumberV(6), nil
	case "#N/A":
		return NumberV(7), nil
	default:
		return ErrorV("#N/A"), nil
	}
}
