package value

import (
	"strconv"
)

// FromBareword classifies an unquoted word found in value position.
//
// The literal spellings true, false and null win over everything else,
// then the number grammar is tried, and anything left is a string.
// Integers that do not fit in int64 become floats. Numerals beyond the
// float64 range stay strings, so they survive a print and re-parse.
func FromBareword(word string) Value {
	switch word {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null()
	}
	isNum, isFloat := ScanNumber(word)
	if !isNum {
		return String(word)
	}
	if !isFloat {
		if i, err := strconv.ParseInt(word, 10, 64); err == nil {
			return Int(i)
		}
	}
	// The grammar was checked above, so the only possible error is ErrRange.
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return String(word)
	}
	return Float(f)
}

// ScanNumber reports whether s matches the number grammar (optional sign,
// digits, optional fraction, optional exponent) and whether it has a
// fraction or exponent.
func ScanNumber(s string) (isNum, isFloat bool) {
	if len(s) == 0 {
		return false, false
	}
	i := 0

	// Optional sign.
	if s[i] == '-' || s[i] == '+' {
		i++
	}

	// Integer part.
	start := i
	i = consumeDigits(s, i)
	if i == start {
		return false, false
	}

	// Fractional part.
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		i = consumeDigits(s, i)
		if i == fracStart {
			return false, false
		}
		isFloat = true
	}

	// Exponent part.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		i = consumeDigits(s, i)
		if i == expStart {
			return false, false
		}
		isFloat = true
	}

	// Must consume the whole string.
	if i != len(s) {
		return false, false
	}
	return true, isFloat
}

func consumeDigits(s string, i int) int {
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	return i
}
