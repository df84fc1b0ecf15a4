package intent

import (
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseNumber reads a non-negative integer written as digits or as English
// words up to ninety-nine, e.g. "7", "seven", "twenty five", "twenty-five".
func ParseNumber(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}

	words := strings.Fields(strings.ReplaceAll(s, "-", " "))

	switch len(words) {
	case 1:
		if n, ok := numberWords[words[0]]; ok {
			return n, true
		}
		if n, ok := tensWords[words[0]]; ok {
			return n, true
		}
	case 2:
		tens, ok := tensWords[words[0]]
		if !ok {
			return 0, false
		}
		unit, ok := numberWords[words[1]]
		if !ok || unit == 0 || unit > 9 {
			return 0, false
		}
		return tens + unit, true
	}

	return 0, false
}
