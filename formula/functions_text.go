package formula

import "strings"

func fnLen(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	return NumberV(float64(len([]rune(coerceString(v))))), nil
}

func fnLower(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	return StringV(strings.ToLower(coerceString(v))), nil
}

func fnUpper(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	return StringV(strings.ToUpper(coerceString(v))), nil
}

func fnTrim(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	fields := strings.Fields(coerceString(v))
	return StringV(strings.Join(fields, " ")), nil
}

func fnLeft(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 2) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	n := 1
	if len(args) > 1 {
		nv, err := e.Eval(args[1])
		if err != nil {
			return Value{}, err
		}
		num, code := coerceNumber(nv)
		if code != "" {
			return ErrorV(code), nil
		}
		n = int(num)
	}
	runes := []rune(coerceString(v))
	if n < 0 {
		n = 0
	}
	if n > len(runes) {
		n = len(runes)
	}
	return StringV(string(runes[:n])), nil
}

func fnRight(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 2) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	n := 1
	if len(args) > 1 {
		nv, err := e.Eval(args[1])
		if err != nil {
			return Value{}, err
		}
		num, code := coerceNumber(nv)
		if code != "" {
			return ErrorV(code), nil
		}
		n = int(num)
	}
	runes := []rune(coerceString(v))
	if n < 0 {
		n = 0
	}
	start := len(runes) - n
	if start < 0 {
		start = 0
	}
	return StringV(string(runes[start:])), nil
}

func fnMid(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 3, 3) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	startV, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	countV, err := e.Eval(args[2])
	if err != nil {
		return Value{}, err
	}
	startN, code := coerceNumber(startV)
	if code != "" {
		return ErrorV(code), nil
	}
	countN, code := coerceNumber(countV)
	if code != "" {
		return ErrorV(code), nil
	}
	start := int(startN)
	count := int(countN)
	if start < 1 {
		return ErrorV("#VALUE!"), nil
	}
	runes := []rune(coerceString(v))
	from := start - 1
	if from > len(runes) {
		from = len(runes)
	}
	to := from + count
	if to > len(runes) || count < 0 {
		to = len(runes)
	}
	if to < from {
		to = from
	}
	return StringV(string(runes[from:to])), nil
}

func fnConcat(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return Value{}, err
	}
	if code := firstErrorCode(values); code != "" {
		return ErrorV(code), nil
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(coerceString(v))
	}
	return StringV(b.String()), nil
}

func fnFind(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 3) {
		return ErrorV("#VALUE!"), nil
	}
	findV, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	withinV, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	if findV.Kind == VError {
		return findV, nil
	}
	if withinV.Kind == VError {
		return withinV, nil
	}
	findText := coerceString(findV)
	within := []rune(coerceString(withinV))
	startNum := 1
	if len(args) > 2 {
		sv, err := e.Eval(args[2])
		if err != nil {
			return Value{}, err
		}
		n, code := coerceNumber(sv)
		if code != "" {
			return ErrorV(code), nil
		}
		startNum = int(n)
	}
	if startNum < 1 || startNum > len(within)+1 {
		return ErrorV("#VALUE!"), nil
	}
	searchIn := string(within[startNum-1:])
	idx := strings.Index(searchIn, findText)
	if idx < 0 {
		return ErrorV("#VALUE!"), nil
	}
	return NumberV(float64(len([]rune(searchIn[:idx])) + startNum)), nil
}

func fnSearch(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 3) {
		return ErrorV("#VALUE!"), nil
	}
	findV, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	withinV, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	if findV.Kind == VError {
		return findV, nil
	}
	if withinV.Kind == VError {
		return withinV, nil
	}
	findText := strings.ToLower(coerceString(findV))
	within := []rune(strings.ToLower(coerceString(withinV)))
	startNum := 1
	if len(args) > 2 {
		sv, err := e.Eval(args[2])
		if err != nil {
			return Value{}, err
		}
		n, code := coerceNumber(sv)
		if code != "" {
			return ErrorV(code), nil
		}
		startNum = int(n)
	}
	if startNum < 1 || startNum > len(within)+1 {
		return ErrorV("#VALUE!"), nil
	}
	searchIn := within[startNum-1:]
	for i := 0; i <= len(searchIn); i++ {
		if wildcardMatchPrefix(findText, string(searchIn[i:])) {
			return NumberV(float64(i + startNum)), nil
		}
	}
	return ErrorV("#VALUE!"), nil
}

// wildcardMatchPrefix reports whether pattern fully consumes against
// a prefix of text, leaving any trailing characters in text
// unmatched — the semantics SEARCH needs (find the match position),
// as opposed to wildcardMatch's full-string match used by *IF
// criteria.
func wildcardMatchPrefix(pattern, text string) bool {
	p := []rune(pattern)
	t := []rune(text)
	var pi, ti int
	starPi := -1
	starTi := 0
	for pi < len(p) {
		switch {
		case p[pi] == '*':
			starPi = pi
			starTi = ti
			pi++
		case ti < len(t) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case starPi != -1:
			pi = starPi + 1
			starTi++
			ti = starTi
			if ti > len(t) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func fnSubstitute(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 3, 4) {
		return ErrorV("#VALUE!"), nil
	}
	textV, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	oldV, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	newV, err := e.Eval(args[2])
	if err != nil {
		return Value{}, err
	}
	if code := firstErrorCode([]Value{textV, oldV, newV}); code != "" {
		return ErrorV(code), nil
	}
	text := coerceString(textV)
	oldText := coerceString(oldV)
	newText := coerceString(newV)
	if oldText == "" {
		return StringV(text), nil
	}
	if len(args) <= 3 {
		return StringV(strings.ReplaceAll(text, oldText, newText)), nil
	}
	instV, err := e.Eval(args[3])
	if err != nil {
		return Value{}, err
	}
	instN, code := coerceNumber(instV)
	if code != "" {
		return ErrorV(code), nil
	}
	instanceNum := int(instN)
	if instanceNum < 1 {
		return ErrorV("#VALUE!"), nil
	}
	count := 0
	remaining := text
	var b strings.Builder
	for {
		idx := strings.Index(remaining, oldText)
		if idx < 0 {
			b.WriteString(remaining)
			return StringV(b.String()), nil
		}
		count++
		if count == instanceNum {
			b.WriteString(remaining[:idx])
			b.WriteString(newText)
			b.WriteString(remaining[idx+len(oldText):])
			return StringV(b.String()), nil
		}
		b.WriteString(remaining[:idx+len(oldText)])
		remaining = remaining[idx+len(oldText):]
	}
}

func fnReplace(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 4, 4) {
		return ErrorV("#VALUE!"), nil
	}
	oldV, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	startV, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	countV, err := e.Eval(args[2])
	if err != nil {
		return Value{}, err
	}
	newV, err := e.Eval(args[3])
	if err != nil {
		return Value{}, err
	}
	startN, code := coerceNumber(startV)
	if code != "" {
		return ErrorV(code), nil
	}
	countN, code := coerceNumber(countV)
	if code != "" {
		return ErrorV(code), nil
	}
	if startN < 1 {
		return ErrorV("#VALUE!"), nil
	}
	chars := []rune(coerceString(oldV))
	newText := coerceString(newV)
	start := int(startN) - 1
	if start > len(chars) {
		start = len(chars)
	}
	end := start + int(countN)
	if end > len(chars) {
		end = len(chars)
	}
	if end < start {
		end = start
	}
	var b strings.Builder
	b.WriteString(string(chars[:start]))
	b.WriteString(newText)
	b.WriteString(string(chars[end:]))
	return StringV(b.String()), nil
}

func fnRept(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	textV, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	timesV, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	timesN, code := coerceNumber(timesV)
	if code != "" {
		return ErrorV(code), nil
	}
	if timesN < 0 {
		return ErrorV("#VALUE!"), nil
	}
	return StringV(strings.Repeat(coerceString(textV), int(timesN))), nil
}

func fnExact(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	a, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	b, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	return BoolV(coerceString(a) == coerceString(b)), nil
}

func fnT(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VString {
		return v, nil
	}
	return StringV(""), nil
}

func fnProper(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if v.Kind == VError {
		return v, nil
	}
	text := coerceString(v)
	var b strings.Builder
	capNext := true
	for _, r := range text {
		switch {
		case isLetterRune(r) && capNext:
			b.WriteRune([]rune(strings.ToUpper(string(r)))[0])
			capNext = false
		case isLetterRune(r):
			b.WriteRune([]rune(strings.ToLower(string(r)))[0])
		default:
			b.WriteRune(r)
			capNext = true
		}
	}
	return StringV(b.String()), nil
}

func isLetterRune(r rune) bool {
	return strings.ToUpper(string(r)) != strings.ToLower(string(r))
}

func fnValue(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	n, code := coerceNumber(v)
	if code != "" {
		return ErrorV("#VALUE!"), nil
	}
	return NumberV(n), nil
}

func fnText(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	v, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	if _, err := e.Eval(args[1]); err != nil {
		return Value{}, err
	}
	// Format-code rendering (e.g. "0.00", "mm/dd/yyyy") is not
	// implemented; the value's default textual form is returned.
	return StringV(coerceString(v)), nil
}
