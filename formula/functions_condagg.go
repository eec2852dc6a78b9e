package formula

func fnCountblank(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 1) {
		return ErrorV("#VALUE!"), nil
	}
	vals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	count := 0
	for _, v := range vals {
		if v.Kind == VEmpty {
			count++
		}
	}
	return NumberV(float64(count)), nil
}

func fnCountif(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	rangeVals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	criteriaVal, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	criteria := coerceString(criteriaVal)
	count := 0
	for _, v := range rangeVals {
		if matchesCriteria(v, criteria) {
			count++
		}
	}
	return NumberV(float64(count)), nil
}

func fnCountifs(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 255) || len(args)%2 != 0 {
		return ErrorV("#VALUE!"), nil
	}
	ranges, criteria, err := collectCriteriaPairs(args, 0, e)
	if err != nil {
		return Value{}, err
	}
	length := 0
	if len(ranges) > 0 {
		length = len(ranges[0])
	}
	count := 0
	for idx := 0; idx < length; idx++ {
		if allMatch(ranges, criteria, idx) {
			count++
		}
	}
	return NumberV(float64(count)), nil
}

func fnSumif(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 3) {
		return ErrorV("#VALUE!"), nil
	}
	rangeVals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	criteriaVal, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	criteria := coerceString(criteriaVal)
	sumVals := rangeVals
	if len(args) == 3 {
		sumVals, err = e.rangeValues(args[2])
		if err != nil {
			return Value{}, err
		}
	}
	sum := 0.0
	for i, rv := range rangeVals {
		if !matchesCriteria(rv, criteria) || i >= len(sumVals) {
			continue
		}
		if n, code := coerceNumber(sumVals[i]); code == "" {
			sum += n
		}
	}
	return NumberV(sum), nil
}

func fnSumifs(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 3, 255) || (len(args)-1)%2 != 0 {
		return ErrorV("#VALUE!"), nil
	}
	sumVals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	ranges, criteria, err := collectCriteriaPairs(args, 1, e)
	if err != nil {
		return Value{}, err
	}
	sum := 0.0
	for idx, sv := range sumVals {
		if !allMatch(ranges, criteria, idx) {
			continue
		}
		if n, code := coerceNumber(sv); code == "" {
			sum += n
		}
	}
	return NumberV(sum), nil
}

func fnAverageif(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 3) {
		return ErrorV("#VALUE!"), nil
	}
	rangeVals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	criteriaVal, err := e.Eval(args[1])
	if err != nil {
		return Value{}, err
	}
	criteria := coerceString(criteriaVal)
	avgVals := rangeVals
	if len(args) == 3 {
		avgVals, err = e.rangeValues(args[2])
		if err != nil {
			return Value{}, err
		}
	}
	sum, count := 0.0, 0
	for i, rv := range rangeVals {
		if !matchesCriteria(rv, criteria) || i >= len(avgVals) {
			continue
		}
		if n, code := coerceNumber(avgVals[i]); code == "" {
			sum += n
			count++
		}
	}
	if count == 0 {
		return ErrorV("#DIV/0!"), nil
	}
	return NumberV(sum / float64(count)), nil
}

func fnAverageifs(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 3, 255) || (len(args)-1)%2 != 0 {
		return ErrorV("#VALUE!"), nil
	}
	avgVals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	ranges, criteria, err := collectCriteriaPairs(args, 1, e)
	if err != nil {
		return Value{}, err
	}
	sum, count := 0.0, 0
	for idx, sv := range avgVals {
		if !allMatch(ranges, criteria, idx) {
			continue
		}
		if n, code := coerceNumber(sv); code == "" {
			sum += n
			count++
		}
	}
	if count == 0 {
		return ErrorV("#DIV/0!"), nil
	}
	return NumberV(sum / float64(count)), nil
}

// collectCriteriaPairs evaluates the (range, criteria) argument pairs
// starting at args[start:], returning the expanded range values and
// the criteria strings in pair order.
func collectCriteriaPairs(args []Expr, start int, e *Evaluator) ([][]Value, []string, error) {
	pairCount := (len(args) - start) / 2
	ranges := make([][]Value, 0, pairCount)
	criteria := make([]string, 0, pairCount)
	for i := 0; i < pairCount; i++ {
		rangeVals, err := e.rangeValues(args[start+i*2])
		if err != nil {
			return nil, nil, err
		}
		critVal, err := e.Eval(args[start+i*2+1])
		if err != nil {
			return nil, nil, err
		}
		ranges = append(ranges, rangeVals)
		criteria = append(criteria, coerceString(critVal))
	}
	return ranges, criteria, nil
}

func allMatch(ranges [][]Value, criteria []string, idx int) bool {
	for i, rangeVals := range ranges {
		if idx >= len(rangeVals) || !matchesCriteria(rangeVals[idx], criteria[i]) {
			return false
		}
	}
	return true
}
