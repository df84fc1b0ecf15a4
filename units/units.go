// Package units converts between the handful of units the assistant knows.
package units

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupported = errors.New("unsupported conversion")

type pair struct{ from, to string }

var conversions = map[pair]func(float64) float64{
	{"celsius", "fahrenheit"}: func(v float64) float64 { return v*9/5 + 32 },
	{"fahrenheit", "celsius"}: func(v float64) float64 { return (v - 32) * 5 / 9 },
	{"meters", "feet"}:        func(v float64) float64 { return v * 3.28084 },
	{"feet", "meters"}:        func(v float64) float64 { return v / 3.28084 },
	{"kg", "lbs"}:             func(v float64) float64 { return v * 2.20462 },
	{"lbs", "kg"}:             func(v float64) float64 { return v / 2.20462 },
}

// aliases maps spoken unit names to their canonical form.
var aliases = map[string]string{
	"degrees celsius":    "celsius",
	"degrees fahrenheit": "fahrenheit",
	"meter":              "meters",
	"metre":              "meters",
	"metres":             "meters",
	"foot":               "feet",
	"kilogram":           "kg",
	"kilograms":          "kg",
	"kilo":               "kg",
	"kilos":              "kg",
	"pound":              "lbs",
	"pounds":             "lbs",
	"lb":                 "lbs",
}

func canonical(unit string) string {
	unit = strings.Join(strings.Fields(strings.ToLower(unit)), " ")
	if c, ok := aliases[unit]; ok {
		return c
	}
	return unit
}

// Convert converts value between two units.
func Convert(value float64, from, to string) (float64, error) {
	fn, ok := conversions[pair{canonical(from), canonical(to)}]
	if !ok {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnsupported, from, to)
	}

	return fn(value), nil
}
