package preprocessor

import (
	"fmt"
	"strconv"
	"strings"
)

// evalExpression evaluates a fully expanded #if expression. Identifiers
// left after expansion evaluate to 0.
func evalExpression(s string) (int64, error) {
	e := &exprParser{src: s}
	if err := e.tokenize(); err != nil {
		return 0, err
	}
	if len(e.toks) == 0 {
		return 0, fmt.Errorf("empty expression")
	}
	v, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if e.pos < len(e.toks) {
		return 0, fmt.Errorf("unexpected %q", e.toks[e.pos])
	}
	return v, nil
}

type exprParser struct {
	src  string
	toks []string
	pos  int
}

var exprOperators = []string{
	"||", "&&", "==", "!=", "<=", ">=", "<<", ">>",
	"|", "^", "&", "<", ">", "+", "-", "*", "/", "%", "!", "~", "(", ")", "?", ":",
}

func (e *exprParser) tokenize() error {
	s := e.src
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case isDigit(c):
			j := skipNumber(s, i)
			e.toks = append(e.toks, s[i:j])
			i = j
		case isIdentStart(c):
			j := identEnd(s, i)
			e.toks = append(e.toks, s[i:j])
			i = j
		default:
			matched := false
			for _, op := range exprOperators {
				if strings.HasPrefix(s[i:], op) {
					e.toks = append(e.toks, op)
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return fmt.Errorf("invalid character %q", c)
			}
		}
	}
	return nil
}

func (e *exprParser) peek() string {
	if e.pos < len(e.toks) {
		return e.toks[e.pos]
	}
	return ""
}

func (e *exprParser) next() string {
	t := e.peek()
	e.pos++
	return t
}

func (e *exprParser) ternary() (int64, error) {
	cond, err := e.binary(0)
	if err != nil {
		return 0, err
	}
	if e.peek() != "?" {
		return cond, nil
	}
	e.next()
	a, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if e.next() != ":" {
		return 0, fmt.Errorf("expected ':' in conditional expression")
	}
	b, err := e.ternary()
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return a, nil
	}
	return b, nil
}

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (e *exprParser) binary(level int) (int64, error) {
	if level == len(binaryLevels) {
		return e.unary()
	}
	left, err := e.binary(level + 1)
	if err != nil {
		return 0, err
	}
	for {
		op := e.peek()
		if !contains(binaryLevels[level], op) {
			return left, nil
		}
		e.next()
		right, err := e.binary(level + 1)
		if err != nil {
			return 0, err
		}
		left, err = applyBinary(op, left, right)
		if err != nil {
			return 0, err
		}
	}
}

func (e *exprParser) unary() (int64, error) {
	switch op := e.peek(); op {
	case "!", "~", "-", "+":
		e.next()
		v, err := e.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case "!":
			return boolInt(v == 0), nil
		case "~":
			return ^v, nil
		case "-":
			return -v, nil
		}
		return v, nil
	}
	return e.primary()
}

func (e *exprParser) primary() (int64, error) {
	tok := e.next()
	switch {
	case tok == "":
		return 0, fmt.Errorf("unexpected end of expression")
	case tok == "(":
		v, err := e.ternary()
		if err != nil {
			return 0, err
		}
		if e.next() != ")" {
			return 0, fmt.Errorf("missing ')'")
		}
		return v, nil
	case isDigit(tok[0]):
		return parseInt(tok)
	case isIdentStart(tok[0]):
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected %q", tok)
}

func parseInt(tok string) (int64, error) {
	trimmed := strings.TrimRight(tok, "uUlL")
	v, err := strconv.ParseInt(trimmed, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", tok)
	}
	return v, nil
}

func applyBinary(op string, a, b int64) (int64, error) {
	switch op {
	case "||":
		return boolInt(a != 0 || b != 0), nil
	case "&&":
		return boolInt(a != 0 && b != 0), nil
	case "|":
		return a | b, nil
	case "^":
		return a ^ b, nil
	case "&":
		return a & b, nil
	case "==":
		return boolInt(a == b), nil
	case "!=":
		return boolInt(a != b), nil
	case "<":
		return boolInt(a < b), nil
	case ">":
		return boolInt(a > b), nil
	case "<=":
		return boolInt(a <= b), nil
	case ">=":
		return boolInt(a >= b), nil
	case "<<":
		return a << uint64(b&63), nil
	case ">>":
		return a >> uint64(b&63), nil
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/", "%":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		if op == "/" {
			return a / b, nil
		}
		return a % b, nil
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
