// Package dateserial converts between Go's time.Time and Excel's 1900-epoch
// serial date encoding, including the phantom 1900-02-29 leap day that
// Excel perpetuates for Lotus 1-2-3 compatibility.
package dateserial

import (
	"fmt"
	"time"
)

// anchor is one day before the epoch: serial 1 == 1900-01-01.
var anchor = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// ToSerial converts a time.Time to its Excel serial-date representation.
// Dates on or after 1900-03-01 are shifted by +1 to compensate for the
// phantom 1900-02-29 that Excel's serial numbering reserves.
func ToSerial(t time.Time) float64 {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(midnight.Sub(anchor).Hours() / 24)
	if days >= 60 {
		days++
	}
	secondsSinceMidnight := t.Sub(midnight).Seconds()
	return float64(days) + secondsSinceMidnight/86400
}

// FromSerial converts an Excel serial date back to a time.Time.
// Serial 60 is the phantom 1900-02-29, which has no real date; it maps to
// 1900-02-28. Serials >= 61 are shifted back by one day before adding to
// the anchor.
func FromSerial(serial float64) (time.Time, error) {
	if serial < 1 {
		return time.Time{}, fmt.Errorf("dateserial: serial %v is less than 1", serial)
	}
	days := int(serial)
	frac := serial - float64(days)

	switch {
	case days == 60:
		days = 59 // 1900-02-28 is 59 days after the anchor (1899-12-31)
	case days >= 61:
		days--
	}

	d := anchor.AddDate(0, 0, days)
	seconds := frac * 86400
	// Round to the nearest second, matching the excelize-style rounding the
	// rest of the pack uses for serial-to-time conversion.
	wholeSeconds := int64(seconds + 0.5)
	return d.Add(time.Duration(wholeSeconds) * time.Second), nil
}

// isBuiltinDateID reports whether id is in the numFmtId ranges that always
// denote a date or datetime display, per ECMA-376 §18.8.30.
func isBuiltinDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 45 && id <= 47:
		return true
	}
	return false
}

// IsDateFormat classifies a cell as date-bearing from its numFmtId and (for
// custom formats, id >= 164) the unescaped, unquoted format-code
// characters: the presence of any of y/d/h/s/m marks the format as a date
// (m counts whether it stands for month or minute).
func IsDateFormat(id int, formatCode string) bool {
	if isBuiltinDateID(id) {
		return true
	}
	if id < 164 {
		return false
	}
	return scanForDateTokens(formatCode)
}

// scanForDateTokens walks a number-format code, skipping quoted literals
// ("..."), backslash-escaped characters (\d) and bracketed sections ([Red],
// [$-409]), looking for date/time token characters outside of them.
func scanForDateTokens(code string) bool {
	inQuote := false
	inBracket := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\':
			i++ // the escaped character is a literal
		case ch == 'y' || ch == 'Y' || ch == 'd' || ch == 'D' ||
			ch == 'h' || ch == 'H' || ch == 's' || ch == 'S' ||
			ch == 'm' || ch == 'M':
			return true
		}
	}
	return false
}
