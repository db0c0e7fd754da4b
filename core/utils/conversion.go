package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts query and flag values to int. Unparseable input yields fallback.
func ToInt(val any, fallback int) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
		return fallback
	case []byte:
		return ToInt(string(v), fallback)
	default:
		return fallback
	}
}

// ToBool converts various types to bool.
// It handles bool, integers (1=true), and strings ("1", "true", "yes").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "yes"
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// ParseFieldFilters turns "field=pattern" pairs into a field filter map.
// The pattern may itself contain '='; only the first one separates.
func ParseFieldFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, pattern, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid field filter %q, expected field=pattern", pair)
		}
		filters[field] = pattern
	}
	return filters, nil
}
