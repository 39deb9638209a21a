package services

import (
	"regexp"
	"strconv"
	"strings"
)

var nonDigitRegexp = regexp.MustCompile(`[^0-9]`)

// NormalizeStars converts a human-readable star count ("50k+", "1,234") into
// a non-negative integer. It is total: every input maps to a number, and
// anything unparseable maps to 0.
func NormalizeStars(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	if strings.Contains(s, "k") {
		num := strings.ReplaceAll(s, "k+", "")
		num = strings.ReplaceAll(num, "k", "")
		num = strings.ReplaceAll(num, ",", "")
		num = strings.TrimSpace(num)

		v, err := strconv.ParseFloat(num, 64)
		if err != nil || v < 0 {
			return 0
		}
		return int(v * 1000)
	}

	digits := nonDigitRegexp.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
