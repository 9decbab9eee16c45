package formula

import (
	"fmt"
	"math"
	"strconv"

	"fincalc/pkg/core/panel"
)

// The evaluator is deliberately small: it understands the fixed operator set
// and nothing else. Resolved field references and numeric literals are the
// only leaves, so a formula can never reach outside the panel it was handed.

// node is a compiled expression fragment. eval produces one value per period
// for a single entity; field references read from the entity's bindings.
type node interface {
	eval(bindings map[string]panel.Series, periods int) panel.Series
}

type literalNode float64

func (l literalNode) eval(_ map[string]panel.Series, periods int) panel.Series {
	s := make(panel.Series, periods)
	for i := range s {
		s[i] = float64(l)
	}
	return s
}

type refNode string

func (r refNode) eval(bindings map[string]panel.Series, periods int) panel.Series {
	s := make(panel.Series, periods)
	copy(s, bindings[string(r)])
	return s
}

type negateNode struct {
	child node
}

func (n negateNode) eval(bindings map[string]panel.Series, periods int) panel.Series {
	s := n.child.eval(bindings, periods)
	for i := range s {
		s[i] = -s[i]
	}
	return s
}

type binaryNode struct {
	op          string
	left, right node
}

func (b binaryNode) eval(bindings map[string]panel.Series, periods int) panel.Series {
	l := b.left.eval(bindings, periods)
	r := b.right.eval(bindings, periods)
	out := make(panel.Series, periods)
	for i := range out {
		out[i] = applyOp(b.op, l[i], r[i])
	}
	return out
}

// applyOp follows the ambient numeric policy: division by zero and invalid
// operations yield Inf/NaN instead of an error. Financial ratios routinely
// hit zero denominators and the batch must not halt on them. Comparisons
// produce 1 or 0.
func applyOp(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "**":
		return math.Pow(a, b)
	case "%":
		return math.Mod(a, b)
	case "//":
		return math.Floor(a / b)
	case "<":
		return boolToFloat(a < b)
	case ">":
		return boolToFloat(a > b)
	case "==":
		return boolToFloat(a == b)
	case "!=":
		return boolToFloat(a != b)
	case ">=":
		return boolToFloat(a >= b)
	case "<=":
		return boolToFloat(a <= b)
	}
	return math.NaN()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// compile parses an expression into an evaluable tree. resolve reports
// whether an operand names a known panel field; operands that are neither
// fields nor numeric literals fail compilation with an UnknownTokenError.
func compile(expr string, resolve func(string) bool) (node, error) {
	p := &exprParser{tokens: scan(expr), resolve: resolve}
	n, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected token %q", p.tokens[p.pos].text)
	}
	return n, nil
}

type exprParser struct {
	tokens  []token
	pos     int
	resolve func(string) bool
}

func (p *exprParser) peekOperator() (string, bool) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokenOperator {
		return "", false
	}
	return p.tokens[p.pos].text, true
}

func (p *exprParser) parseComparison() (node, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOperator()
		if !ok || !isComparison(op) {
			return left, nil
		}
		p.pos++
		right, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *exprParser) parseAddSub() (node, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOperator()
		if !ok || (op != "+" && op != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *exprParser) parseMulDiv() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOperator()
		if !ok || (op != "*" && op != "/" && op != "//" && op != "%") {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *exprParser) parseUnary() (node, error) {
	if op, ok := p.peekOperator(); ok {
		switch op {
		case "-":
			p.pos++
			child, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return negateNode{child: child}, nil
		case "+":
			p.pos++
			return p.parseUnary()
		}
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if op, ok := p.peekOperator(); ok && op == "**" {
		p.pos++
		// Right-associative; the exponent may carry its own sign.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: "**", left: base, right: exp}, nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (node, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	t := p.tokens[p.pos]
	if t.kind == tokenOperator {
		if t.text == "(" {
			p.pos++
			inner, err := p.parseComparison()
			if err != nil {
				return nil, err
			}
			op, ok := p.peekOperator()
			if !ok || op != ")" {
				return nil, fmt.Errorf("missing closing parenthesis")
			}
			p.pos++
			return inner, nil
		}
		return nil, fmt.Errorf("unexpected operator %q", t.text)
	}
	p.pos++
	if p.resolve(t.text) {
		return refNode(t.text), nil
	}
	if v, err := strconv.ParseFloat(t.text, 64); err == nil {
		return literalNode(v), nil
	}
	return nil, &UnknownTokenError{Token: t.text}
}

func isComparison(op string) bool {
	switch op {
	case "<", ">", "==", "!=", ">=", "<=":
		return true
	}
	return false
}
