// Package formula implements the custom formula engine: caller-defined
// financial metrics written as free-text algebraic expressions over the
// fields of a panel. A batch of definitions is dependency-ordered, each
// expression is tokenized and its operands resolved against the panel, and
// the evaluated series are written back so later formulas can read earlier
// results.
package formula

import "strings"

// operatorSet is the fixed set of recognized operators. Multi-character
// operators come first so "**" is never split into two "*" when deciding
// operand boundaries; same for "//", "==", "!=", ">=", "<=".
var operatorSet = []string{
	"**", "//", "==", "!=", ">=", "<=",
	"+", "-", "*", "/", "%", "<", ">", "(", ")",
}

type tokenKind int

const (
	tokenOperand tokenKind = iota
	tokenOperator
)

type token struct {
	kind tokenKind
	text string
}

// scan splits an expression into operand and operator tokens. Operand
// substrings may contain spaces ("Working Capital" is one operand); field
// naming guarantees operands never contain operator characters. Whitespace
// around operands is trimmed and empty fragments are dropped.
func scan(expr string) []token {
	var tokens []token
	var operand strings.Builder

	flush := func() {
		text := strings.TrimSpace(operand.String())
		operand.Reset()
		if text != "" {
			tokens = append(tokens, token{kind: tokenOperand, text: text})
		}
	}

	for i := 0; i < len(expr); {
		matched := ""
		for _, op := range operatorSet {
			if strings.HasPrefix(expr[i:], op) {
				matched = op
				break
			}
		}
		if matched != "" {
			flush()
			tokens = append(tokens, token{kind: tokenOperator, text: matched})
			i += len(matched)
			continue
		}
		operand.WriteByte(expr[i])
		i++
	}
	flush()
	return tokens
}

// Operands returns the ordered operand substrings of an expression: the
// candidate field names and numeric literals the resolver must bind. The
// operator tokens are discarded; no parse tree is built here.
func Operands(expr string) []string {
	var out []string
	for _, t := range scan(expr) {
		if t.kind == tokenOperand {
			out = append(out, t.text)
		}
	}
	return out
}
