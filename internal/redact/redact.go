// Package redact masks credential-bearing values before they reach a log.
package redact

import (
	"encoding/json"
	"regexp"
	"strings"
)

const mask = "***"

var sensitiveFields = []string{
	"password",
	"api_key",
	"apikey",
	"token",
	"secret",
	"auth",
	"authorization",
	"key",
}

var plainPatterns []*regexp.Regexp

func init() {
	for _, f := range sensitiveFields {
		// key=value (query strings, form data), key: value, "key":"value"
		plainPatterns = append(plainPatterns,
			regexp.MustCompile(`(?i)(`+f+`)=[^&\s]+`),
			regexp.MustCompile(`(?i)(`+f+`):\s*[^,\s\n}]+`),
			regexp.MustCompile(`(?i)("`+f+`"\s*:\s*")[^"]+(")`),
		)
	}
}

// String masks the values of sensitive fields in data. JSON input is redacted
// structurally; anything else falls back to pattern-based text redaction.
func String(data string) string {
	var parsed any
	if err := json.Unmarshal([]byte(data), &parsed); err == nil {
		if b, err := json.Marshal(value(parsed)); err == nil {
			return string(b)
		}
	}
	return plainText(data)
}

func value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			if isSensitive(k) {
				out[k] = mask
			} else {
				out[k] = value(inner)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = value(inner)
		}
		return out
	default:
		return v
	}
}

func plainText(text string) string {
	for i := 0; i < len(plainPatterns); i += 3 {
		text = plainPatterns[i].ReplaceAllString(text, "$1="+mask)
		text = plainPatterns[i+1].ReplaceAllString(text, "$1: "+mask)
		text = plainPatterns[i+2].ReplaceAllString(text, "$1"+mask+"$2")
	}
	return text
}

func isSensitive(field string) bool {
	lower := strings.ToLower(field)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
