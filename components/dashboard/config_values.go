package dashboard

import (
	"encoding/json"
	"strconv"
	"strings"
)

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func boolValue(v any, fallback bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	case int:
		return val != 0
	case float64:
		return val != 0
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f != 0
		}
	}
	return fallback
}
