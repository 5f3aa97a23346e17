package sheet

import (
	"fmt"
	"strconv"
	"time"
)

// ParseScalar upgrades a string cell to the narrowest scalar that represents
// it: int64, then float64, then bool. Non-string values and strings that
// parse as none of these pass through unchanged.
func ParseScalar(v Value) Value {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "TRUE", "true":
		return true
	case "FALSE", "false":
		return false
	}
	return s
}

// FormatScalar renders a cell value as the string a spreadsheet would show:
// booleans as TRUE/FALSE, floats without trailing zeros, times as RFC 3339,
// nil as the empty string.
func FormatScalar(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
