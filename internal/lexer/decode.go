package lexer

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// decodeValue converts the lexeme of a literal token into its Go value.
// Kinds without a value decode to nil.
func decodeValue(kind TokenKind, lexeme string) any {
	switch kind {
	case TokenNumber:
		return decodeNumber(lexeme)
	case TokenString:
		return unquote(lexeme)
	case TokenBool:
		return lexeme == TrueWord
	case TokenComment:
		return strings.TrimPrefix(lexeme, "#")
	default:
		return nil
	}
}

// decodeNumber returns a float64 when the literal has a fraction or an
// exponent and an int64 otherwise. Integer literals too large for int64
// fall back to float64 rather than failing, because the DFA has already
// accepted them as well-formed numbers. Literals beyond the float64 range
// decode to their lexeme as a string; underflow rounds to zero.
func decodeNumber(lexeme string) any {
	if !strings.ContainsAny(lexeme, ".eE") {
		if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			return n
		}
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
		return lexeme
	}
	return f
}

// unquote strips the surrounding quotes of a string literal and resolves
// the escapes \n \t \" \' and \\. Any other escaped character is kept
// as written, backslash included.
func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}
	body := lexeme[1 : len(lexeme)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '"', '\'', '\\':
			sb.WriteByte(body[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
