package tasks

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// leadingInt reads the base-10 integer at the start of s, ignoring leading
// whitespace and anything after the digits: "7.5" is 7 and "2a" is 2.
// It fails when no digit follows the optional sign or the value overflows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := signLen(s)
	start := end
	end += digitsLen(s[end:])
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingFloat reads the decimal number at the start of s, ignoring leading
// whitespace and any trailing text: "2h" is 2, ".5" is 0.5 and "1e3x" is 1000.
// "Infinity" with an optional sign is accepted as an infinite value.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := signLen(s)
	if strings.HasPrefix(s[end:], "Infinity") {
		f, _ := strconv.ParseFloat(s[:end]+"Inf", 64)
		return f, true
	}

	intDigits := digitsLen(s[end:])
	end += intDigits
	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		fracDigits = digitsLen(s[end+1:])
		if intDigits > 0 || fracDigits > 0 {
			end += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}

	// exponent only counts when digits follow it
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		exp += signLen(s[exp:])
		if n := digitsLen(s[exp:]); n > 0 {
			end = exp + n
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

func signLen(s string) int {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return 1
	}
	return 0
}

func digitsLen(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
