package intent

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// maxSeconds is the longest delay a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

var unitSeconds = map[string]int{
	"second": 1,
	"minute": 60,
	"hour":   3600,
}

// count is digits, number words up to ninety-nine, or "a"/"an".
const countPattern = `(\d+|(?:twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)(?:[\s-]+(?:one|two|three|four|five|six|seven|eight|nine))?|zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|an?)`

var (
	durationRe   = regexp.MustCompile(`\b` + countPattern + `\s*(second|minute|hour)s?\b`)
	inDurationRe = regexp.MustCompile(`\bin\s+` + countPattern + `\s*(second|minute|hour)s?\b`)
)

// ParseDuration finds "<count> <second|minute|hour>[s]" in text and returns
// it in seconds.
func ParseDuration(text string) (int, bool) {
	return matchDuration(durationRe, text)
}

func matchDuration(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	return toSeconds(m[1], m[2])
}

func toSeconds(count, unit string) (int, bool) {
	n, ok := ParseNumber(count)
	if !ok {
		switch strings.TrimSpace(count) {
		case "a", "an":
			n, ok = 1, true
		default:
			return 0, false
		}
	}

	if int64(n) > maxSeconds/int64(unitSeconds[unit]) {
		return 0, false
	}

	return n * unitSeconds[unit], true
}
