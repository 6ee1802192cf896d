package utils

import (
	"strconv"
	"strings"
)

// ExtractString safely extracts a string from a decoded JSON object
func ExtractString(payload map[string]interface{}, field string) string {
	if v, ok := payload[field]; ok {
		switch s := v.(type) {
		case string:
			return s
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

// ExtractFloat reads a number that the backend may send as a JSON number or
// as a string like "87.5" or "87%". Missing or unparsable values yield 0.
func ExtractFloat(payload map[string]interface{}, field string) float64 {
	v, ok := payload[field]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// ExtractBool reads a flag that may arrive as a bool or as "true"/"false"
func ExtractBool(payload map[string]interface{}, field string) bool {
	switch b := payload[field].(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}
