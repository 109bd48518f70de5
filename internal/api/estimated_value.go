package api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// normalizeEstimatedValue turns the raw JSON value of estimatedValue into a
// non-negative decimal string. Numbers are formatted as-is; strings are
// trimmed and a single comma decimal separator is rewritten to a dot before
// parsing. Anything negative, non-finite or unparseable is rejected.
func normalizeEstimatedValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		if v < 0 {
			return "", false
		}
		return strconv.Itoa(v), true
	case json.Number:
		return normalizeEstimatedValue(string(v))
	case string:
		normalized := strings.Replace(strings.TrimSpace(v), ",", ".", 1)
		if normalized == "" {
			return "", false
		}
		numeric, err := strconv.ParseFloat(normalized, 64)
		if err != nil || math.IsNaN(numeric) || math.IsInf(numeric, 0) || numeric < 0 {
			return "", false
		}
		return normalized, true
	}
	return "", false
}
