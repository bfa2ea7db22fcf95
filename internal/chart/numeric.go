package chart

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// parseNumber converts numeric values, including numeric strings returned
// for DECIMAL columns, to float64. NaN and infinities parse as numbers.
func parseNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case nil, bool, time.Time:
		return 0, false
	case []byte:
		v = string(val)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// toFloat returns a plottable value. Non-finite numbers are gaps.
func toFloat(v any) (float64, bool) {
	f, ok := parseNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isTextType reports whether a driver column type name holds text, so that
// strings like "00123" in it are not taken for numbers.
func isTextType(name string) bool {
	name = strings.ToUpper(name)
	switch {
	case name == "":
		return false
	case strings.Contains(name, "CHAR"), strings.Contains(name, "TEXT"):
		return true
	case name == "NAME", name == "UUID", name == "ENUM", name == "SET":
		return true
	}
	return false
}

// isNumericColumn reports whether every non-null value in column i is
// numeric and at least one value is present. typeName is the driver type
// of the column, or empty when unknown.
func isNumericColumn(rows [][]any, i int, typeName string) bool {
	if isTextType(typeName) {
		return false
	}
	seen := false
	for _, row := range rows {
		if i >= len(row) || row[i] == nil {
			continue
		}
		if _, ok := parseNumber(row[i]); !ok {
			return false
		}
		seen = true
	}
	return seen
}
