package calc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

// spoken operators, longest phrases first
var phrases = []struct{ from, to string }{
	{"to the power of", " ^ "},
	{"square root of", " sqrt "},
	{"multiplied by", " * "},
	{"divided by", " / "},
	{"plus", " + "},
	{"minus", " - "},
	{"times", " * "},
	{"×", " * "},
	{"÷", " / "},
}

func normalize(expr string) string {
	expr = strings.ToLower(expr)
	for _, p := range phrases {
		expr = replaceWord(expr, p.from, p.to)
	}
	return expr
}

// replaceWord replaces from only where it is not part of a longer word.
func replaceWord(s, from, to string) string {
	var b strings.Builder

	for {
		i := strings.Index(s, from)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}

		end := i + len(from)
		if isWordByte(s, i-1) || isWordByte(s, end) {
			b.WriteString(s[:end])
			s = s[end:]
			continue
		}

		b.WriteString(s[:i])
		b.WriteString(to)
		s = s[end:]
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z'
}

func tokenize(expr string) ([]token, error) {
	var tokens []token

	src := []rune(normalize(expr))
	for i := 0; i < len(src); {
		r := src[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(src) && (unicode.IsDigit(src[j]) || src[j] == '.') {
				j++
			}
			text := string(src[i:j])
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: v})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(src) && unicode.IsLetter(src[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(src[i:j])})
			i = j
		case strings.ContainsRune("+-*/^", r):
			tokens = append(tokens, token{kind: tokOp, text: string(r)})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, text: ","})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, r)
		}
	}

	return append(tokens, token{kind: tokEOF}), nil
}
