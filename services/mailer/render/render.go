// Package render substitutes {{ name }} placeholders in campaign templates
// with per-recipient values. Rendering is pure: no I/O, no process-wide
// state, deterministic for a given template and context.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"novamailer/services/mailer/apperrors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Render substitutes placeholders in text with values from ctx. Keys
// missing from ctx render as empty strings. Unbalanced delimiters fail
// with a TemplateError.
func Render(text string, ctx map[string]interface{}) (string, error) {
	var b strings.Builder
	rest := text

	for {
		open := strings.Index(rest, openDelim)
		closing := strings.Index(rest, closeDelim)

		if open == -1 {
			if closing != -1 {
				return "", &apperrors.TemplateError{Msg: "unexpected '}}' without matching '{{'"}
			}
			b.WriteString(rest)
			return b.String(), nil
		}

		if closing != -1 && closing < open {
			return "", &apperrors.TemplateError{Msg: "unexpected '}}' without matching '{{'"}
		}

		end := strings.Index(rest[open+len(openDelim):], closeDelim)
		if end == -1 {
			return "", &apperrors.TemplateError{Msg: "unclosed '{{' delimiter"}
		}

		b.WriteString(rest[:open])

		key := strings.TrimSpace(rest[open+len(openDelim) : open+len(openDelim)+end])
		if value, ok := ctx[key]; ok {
			b.WriteString(formatValue(value))
		}

		rest = rest[open+len(openDelim)+end+len(closeDelim):]
	}
}

// formatValue renders a context scalar the way it appeared in the source
// data: no exponents for numbers, true/false for booleans, blank for nil.
func formatValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", value)
	}
}
