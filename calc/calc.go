// Package calc evaluates spoken arithmetic such as "2 plus 3 times 4" or
// "square root of 16". Only numbers, the four operators, powers,
// parentheses and a fixed set of functions and constants are accepted.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnknownName    = errors.New("unknown name")
	ErrDivisionByZero = errors.New("division by zero")
	ErrUndefined      = errors.New("result is not a number")
)

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type function struct {
	arity int // -1 for one or more arguments
	fn    func(args []float64) float64
}

var functions = map[string]function{
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"round": {1, func(a []float64) float64 { return math.RoundToEven(a[0]) }},
	"floor": {1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"min": {-1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {-1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

// Evaluate parses and computes expr.
func Evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{tokens: tokens}

	if p.peek().kind == tokEOF {
		return 0, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	v, err := p.expr()
	if err != nil {
		return 0, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrUndefined
	}

	return v, nil
}

// Format renders whole numbers without a decimal point and rounds away
// floating point noise.
func Format(v float64) string {
	v = round(v)

	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round(v float64) float64 {
	const scale = 1e10
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*scale) / scale
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// expr := term (("+" | "-") term)*
func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}

	for p.isOp("+", "-") {
		op := p.next().text

		rhs, err := p.term()
		if err != nil {
			return 0, err
		}

		if op == "+" {
			v += rhs
		} else {
			v -= rhs
		}
	}

	return v, nil
}

// term := unary (("*" | "/") unary)*
func (p *parser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}

	for p.isOp("*", "/") {
		op := p.next().text

		rhs, err := p.unary()
		if err != nil {
			return 0, err
		}

		if op == "*" {
			v *= rhs
			continue
		}

		if rhs == 0 {
			return 0, ErrDivisionByZero
		}
		v /= rhs
	}

	return v, nil
}

// unary := ("+" | "-") unary | power
func (p *parser) unary() (float64, error) {
	if p.isOp("+", "-") {
		op := p.next().text

		v, err := p.unary()
		if err != nil {
			return 0, err
		}

		if op == "-" {
			return -v, nil
		}
		return v, nil
	}

	return p.power()
}

// power := primary ("^" unary)?
func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}

	if !p.isOp("^") {
		return base, nil
	}

	p.next()

	exp, err := p.unary()
	if err != nil {
		return 0, err
	}

	return math.Pow(base, exp), nil
}

// primary := number | constant | function | "(" expr ")"
func (p *parser) primary() (float64, error) {
	t := p.next()

	switch t.kind {
	case tokNumber:
		return t.value, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.next().kind != tokRParen {
			return 0, fmt.Errorf("%w: missing )", ErrSyntax)
		}
		return v, nil
	case tokIdent:
		if c, ok := constants[t.text]; ok {
			return c, nil
		}
		if f, ok := functions[t.text]; ok {
			return p.call(t.text, f)
		}
		return 0, fmt.Errorf("%w: %q", ErrUnknownName, t.text)
	case tokEOF:
		return 0, fmt.Errorf("%w: unexpected end", ErrSyntax)
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
	}
}

// call parses "name(a, b)" or, for one argument, "name x".
func (p *parser) call(name string, f function) (float64, error) {
	var args []float64

	if p.peek().kind == tokLParen {
		p.next()

		for {
			v, err := p.expr()
			if err != nil {
				return 0, err
			}
			args = append(args, v)

			t := p.next()
			if t.kind == tokRParen {
				break
			}
			if t.kind != tokComma {
				return 0, fmt.Errorf("%w: expected , or ) in %s", ErrSyntax, name)
			}
		}
	} else {
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}

	if f.arity > 0 && len(args) != f.arity {
		return 0, fmt.Errorf("%w: %s takes %d argument(s)", ErrSyntax, name, f.arity)
	}

	return f.fn(args), nil
}
