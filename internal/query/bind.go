package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the literal format for timestamp placeholders,
// matching the source-side TO_TIMESTAMP format (YYYY-MM-DD HH24:MI:SS).
const TimestampLayout = "2006-01-02 15:04:05"

var placeholderRe = regexp.MustCompile(`:[a-zA-Z_][a-zA-Z0-9_]*`)

// Bind substitutes named :placeholders in a template. Supported values:
//
//	[]string  → comma-separated quoted list, matching IN (...) arity
//	time.Time → single quoted YYYY-MM-DD HH24:MI:SS literal
//	string    → single quoted literal
//
// Every template placeholder without a matching parameter is an error:
// a query with a dangling parameter must never reach a source. Only the
// template is scanned for placeholders; a colon token inside a bound
// value is plain data.
func Bind(template string, params map[string]any) (string, error) {
	var bindErr error
	bound := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		v, ok := params[m[1:]]
		if !ok {
			if bindErr == nil {
				bindErr = fmt.Errorf("unresolved placeholder %s", m)
			}
			return m
		}
		literal, err := renderLiteral(v)
		if err != nil {
			if bindErr == nil {
				bindErr = fmt.Errorf("bind %s: %w", m, err)
			}
			return m
		}
		return literal
	})
	if bindErr != nil {
		return "", bindErr
	}
	return bound, nil
}

func renderLiteral(v any) (string, error) {
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return "", fmt.Errorf("empty list parameter")
		}
		quoted := make([]string, len(val))
		for i, s := range val {
			quoted[i] = quote(s)
		}
		return strings.Join(quoted, ", "), nil
	case time.Time:
		return quote(val.Format(TimestampLayout)), nil
	case string:
		return quote(val), nil
	default:
		return "", fmt.Errorf("unsupported parameter type %T", v)
	}
}

// quote wraps s in single quotes, doubling embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
