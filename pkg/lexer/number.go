package lexer

import (
	"strconv"

	"github.com/hexaengine/hxslc/pkg/token"
)

// suffixKind maps a numeric literal's trailing type suffix to a NumberKind.
var suffixKind = map[string]token.NumberKind{
	"u":  token.NumberU32,
	"U":  token.NumberU32,
	"l":  token.NumberI64,
	"L":  token.NumberI64,
	"ul": token.NumberU64,
	"UL": token.NumberU64,
	"h":  token.NumberHalf,
	"H":  token.NumberHalf,
	"f":  token.NumberFloat,
	"F":  token.NumberFloat,
	"d":  token.NumberDouble,
	"D":  token.NumberDouble,
}

// ScanNumber parses a numeric literal at the start of data, shared between
// the lexer and the preprocessor's constant-expression tokenizer. Returns the number of bytes consumed (0 if data does not start with
// a valid numeric literal) and the parsed Number.
func ScanNumber(data []byte) (int, token.Number) {
	n := 0

	// Hex: 0x...
	if len(data) > 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		n = 2
		for n < len(data) && isHexDigit(data[n]) {
			n++
		}

		val, _ := strconv.ParseInt(string(data[2:n]), 16, 64)
		kind, suffixLen := readSuffix(data[n:], token.NumberI32)
		n += suffixLen

		return n, token.NewInt(kind, val)
	}

	// Binary: 0b...
	if len(data) > 2 && data[0] == '0' && (data[1] == 'b' || data[1] == 'B') {
		n = 2
		for n < len(data) && (data[n] == '0' || data[n] == '1') {
			n++
		}

		val, _ := strconv.ParseInt(string(data[2:n]), 2, 64)
		kind, suffixLen := readSuffix(data[n:], token.NumberI32)
		n += suffixLen

		return n, token.NewInt(kind, val)
	}

	// Decimal, with optional fractional part.
	for n < len(data) && isDigit(data[n]) {
		n++
	}

	if n == 0 && !(len(data) > 0 && data[0] == '.') {
		return 0, token.Number{}
	}

	isFloat := false

	if n < len(data) && data[n] == '.' && n+1 < len(data) && isDigit(data[n+1]) {
		isFloat = true
		n++

		for n < len(data) && isDigit(data[n]) {
			n++
		}
	} else if n == 0 && len(data) > 0 && data[0] == '.' {
		return 0, token.Number{}
	}

	if isFloat {
		val, _ := strconv.ParseFloat(string(data[:n]), 64)
		kind, suffixLen := readSuffix(data[n:], token.NumberFloat)
		n += suffixLen

		return n, token.NewFloat(kind, val)
	}

	val, _ := strconv.ParseInt(string(data[:n]), 10, 64)
	kind, suffixLen := readSuffix(data[n:], token.NumberI32)
	n += suffixLen

	return n, token.NewInt(kind, val)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// readSuffix consumes a single/double letter type suffix, returning the
// resulting kind (or the given default) and the number of bytes consumed.
func readSuffix(data []byte, def token.NumberKind) (token.NumberKind, int) {
	if len(data) >= 2 {
		if kind, ok := suffixKind[string(data[:2])]; ok {
			return kind, 2
		}
	}

	if len(data) >= 1 {
		if kind, ok := suffixKind[string(data[:1])]; ok {
			return kind, 1
		}
	}

	return def, 0
}
