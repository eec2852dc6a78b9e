package formula

import (
	"math"
	"sort"
)

func fnSum(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	nums, err := e.collectNumbers(args)
	if err != nil {
		return ErrorV(err.Error()), nil
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return NumberV(sum), nil
}

func fnAverage(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	nums, err := e.collectNumbers(args)
	if err != nil {
		return ErrorV(err.Error()), nil
	}
	if len(nums) == 0 {
		return ErrorV("#DIV/0!"), nil
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return NumberV(sum / float64(len(nums))), nil
}

func fnCount(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return Value{}, err
	}
	count := 0
	for _, v := range values {
		if v.Kind == VNumber {
			count++
		}
	}
	return NumberV(float64(count)), nil
}

func fnCounta(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	values, err := e.flattenArgsToValues(args)
	if err != nil {
		return Value{}, err
	}
	count := 0
	for _, v := range values {
		if v.Kind != VEmpty {
			count++
		}
	}
	return NumberV(float64(count)), nil
}

func fnMin(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	nums, err := e.collectNumbers(args)
	if err != nil {
		return ErrorV(err.Error()), nil
	}
	if len(nums) == 0 {
		return NumberV(0), nil
	}
	m := math.Inf(1)
	for _, n := range nums {
		m = math.Min(m, n)
	}
	return NumberV(m), nil
}

func fnMax(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	nums, err := e.collectNumbers(args)
	if err != nil {
		return ErrorV(err.Error()), nil
	}
	if len(nums) == 0 {
		return NumberV(0), nil
	}
	m := math.Inf(-1)
	for _, n := range nums {
		m = math.Max(m, n)
	}
	return NumberV(m), nil
}

func fnMedian(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	nums, err := e.collectNumbers(args)
	if err != nil {
		return ErrorV(err.Error()), nil
	}
	if len(nums) == 0 {
		return ErrorV("#NUM!"), nil
	}
	sort.Float64s(nums)
	n := len(nums)
	if n%2 == 1 {
		return NumberV(nums[n/2]), nil
	}
	return NumberV((nums[n/2-1] + nums[n/2]) / 2), nil
}

func fnMode(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 1, 255) {
		return ErrorV("#VALUE!"), nil
	}
	nums, err := e.collectNumbers(args)
	if err != nil {
		return ErrorV(err.Error()), nil
	}
	counts := map[float64]int{}
	for _, n := range nums {
		counts[n]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount <= 1 {
		return ErrorV("#N/A"), nil
	}
	for _, n := range nums {
		if counts[n] == maxCount {
			return NumberV(n), nil
		}
	}
	return ErrorV("#N/A"), nil
}

func fnLarge(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	vals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	nums := numericValues(vals)
	k, err := evalIndex(args[1], e)
	if err != nil {
		return Value{}, err
	}
	if k <= 0 || k > len(nums) {
		return ErrorV("#NUM!"), nil
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(nums)))
	return NumberV(nums[k-1]), nil
}

func fnSmall(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 2) {
		return ErrorV("#VALUE!"), nil
	}
	vals, err := e.rangeValues(args[0])
	if err != nil {
		return Value{}, err
	}
	nums := numericValues(vals)
	k, err := evalIndex(args[1], e)
	if err != nil {
		return Value{}, err
	}
	if k <= 0 || k > len(nums) {
		return ErrorV("#NUM!"), nil
	}
	sort.Float64s(nums)
	return NumberV(nums[k-1]), nil
}

func fnRank(args []Expr, e *Evaluator) (Value, error) {
	if !checkArgCount(args, 2, 3) {
		return ErrorV("#VALUE!"), nil
	}
	numberVal, err := e.Eval(args[0])
	if err != nil {
		return Value{}, err
	}
	number, code := coerceNumber(numberVal)
	if code != "" {
		return ErrorV(code), nil
	}
	refVals, err := e.rangeValues(args[1])
	if err != nil {
		return Value{}, err
	}
	nums := numericValues(refVals)
	order := 0
	if len(args) > 2 {
		o, err := evalIndex(args[2], e)
		if err != nil {
			return Value{}, err
		}
		order = o
	}
	found := false
	rank := 1
	for _, n := range nums {
		if n == number {
			found = true
		}
		if order == 0 && n > number {
			rank++
		} else if order != 0 && n < number {
			rank++
		}
	}
	if !found {
		return ErrorV("#N/A"), nil
	}
	return NumberV(float64(rank)), nil
}

func numericValues(vals []Value) []float64 {
	var nums []float64
	for _, v := range vals {
		if n, code := coerceNumber(v); code == "" {
			nums = append(nums, n)
		}
	}
	return nums
}

func evalIndex(arg Expr, e *Evaluator) (int, error) {
	v, err := e.Eval(arg)
	if err != nil {
		return 0, err
	}
	n, code := coerceNumber(v)
	if code != "" {
		return 0, nil
	}
	return int(n), nil
}
