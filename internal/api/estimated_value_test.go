package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEstimatedValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
		ok    bool
	}{
		{"integer string", "1200", "1200", true},
		{"decimal string", "1200.5", "1200.5", true},
		{"comma decimal separator", "1500,50", "1500.50", true},
		{"surrounding whitespace", "  42  ", "42", true},
		{"zero", float64(0), "0", true},
		{"float", float64(1200.5), "1200.5", true},
		{"int", 1200, "1200", true},
		{"json number", json.Number("99.9"), "99.9", true},
		{"negative string", "-1", "", false},
		{"negative float", float64(-5), "", false},
		{"empty string", "", "", false},
		{"not a number", "abc", "", false},
		// Only the first comma is swapped, so thousand separators fail.
		{"thousands separator", "1.500,50", "", false},
		{"nil", nil, "", false},
		{"bool", true, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeEstimatedValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
