package formula

import (
	"strconv"
	"strings"
)

// matchesCriteria evaluates a *IF/*IFS criteria string (e.g. ">3",
// "Apple", "<>", "A*") against one cell value, the way Excel's
// comparison-prefix-or-wildcard grammar works. Matching is always
// case-insensitive rather than a byte-exact compare.
func matchesCriteria(v Value, criteria string) bool {
	op, rhs := splitCriteriaOperator(criteria)
	rhs = strings.TrimSpace(rhs)

	if n, err := strconv.ParseFloat(rhs, 64); err == nil {
		vn, code := coerceNumber(v)
		if code != "" {
			return op == "<>"
		}
		return compareNumbers(vn, n, op)
	}

	vs := strings.ToUpper(coerceString(v))
	rs := strings.ToUpper(rhs)
	if op == "" || op == "=" {
		return wildcardMatch(rs, vs)
	}
	if op == "<>" {
		return !wildcardMatch(rs, vs)
	}
	return compareStrings(vs, rs, op)
}

// splitCriteriaOperator peels a leading comparison operator off a
// criteria string, longest operator first so "<=" isn't mistaken for
// "<" followed by "=".
func splitCriteriaOperator(criteria string) (op, rest string) {
	for _, candidate := range []string{"<=", ">=", "<>", "=", "<", ">"} {
		if strings.HasPrefix(criteria, candidate) {
			return candidate, criteria[len(candidate):]
		}
	}
	return "", criteria
}

func compareNumbers(a, b float64, op string) bool {
	switch op {
	case "", "=":
		return a == b
	case "<>":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func compareStrings(a, b, op string) bool {
	switch op {
	case "", "=":
		return a == b
	case "<>":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// wildcardMatch reports whether text fully matches pattern, where '*'
// matches any run of characters (including none) and '?' matches
// exactly one. Both arguments are expected pre-uppercased by the
// caller so the comparison is case-insensitive.
func wildcardMatch(pattern, text string) bool {
	p := []rune(pattern)
	t := []rune(text)
	var pi, ti int
	starPi, starTi := -1, 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case pi < len(p) && p[pi] == '*':
			starPi = pi
			starTi = ti
			pi++
		case starPi != -1:
			pi = starPi + 1
			starTi++
			ti = starTi
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
