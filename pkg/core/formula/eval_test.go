package formula

import (
	"math"
	"testing"

	"fincalc/pkg/core/panel"
)

// evalScalar compiles and evaluates an expression over a single period with
// the given field bindings.
func evalScalar(t *testing.T, expr string, bindings map[string]panel.Series) float64 {
	t.Helper()
	resolve := func(name string) bool {
		_, ok := bindings[name]
		return ok
	}
	n, err := compile(expr, resolve)
	if err != nil {
		t.Fatalf("compile(%q): %v", expr, err)
	}
	return n.eval(bindings, 1)[0]
}

func TestEvalPrecedence(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 4 - 3", 3},  // left associative
		{"2 ** 3 ** 2", 512}, // right associative: 2^(3^2)
		{"-2 ** 2", -4},    // power binds tighter than unary minus
		{"7 // 2", 3},
		{"7 % 3", 1},
		{"100 / 4 / 5", 5},
		{"2 * 3 ** 2", 18},
	}
	for _, c := range cases {
		got := evalScalar(t, c.expr, nil)
		if got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestEvalComparisons(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"3 > 2", 1},
		{"3 < 2", 0},
		{"2 == 2", 1},
		{"2 != 2", 0},
		{"3 >= 3", 1},
		{"3 <= 2", 0},
		{"1 + 1 == 2", 1}, // arithmetic binds tighter than comparison
	}
	for _, c := range cases {
		got := evalScalar(t, c.expr, nil)
		if got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestEvalDivisionByZeroDoesNotRaise(t *testing.T) {
	// Zero denominators are routine in ratios; they propagate as Inf/NaN.
	if got := evalScalar(t, "1 / 0", nil); !math.IsInf(got, 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
	if got := evalScalar(t, "0 / 0", nil); !math.IsNaN(got) {
		t.Errorf("0/0 = %v, want NaN", got)
	}
	if got := evalScalar(t, "-1 / 0", nil); !math.IsInf(got, -1) {
		t.Errorf("-1/0 = %v, want -Inf", got)
	}
}

func TestEvalFieldReferences(t *testing.T) {
	bindings := map[string]panel.Series{
		"Working Capital": {50},
		"Net Income":      {20},
	}
	got := evalScalar(t, "(Working Capital / Net Income) * 100", bindings)
	// 50/20 * 100 = 250
	if got != 250 {
		t.Errorf("got %v, want 250", got)
	}
}

func TestEvalElementWiseAcrossPeriods(t *testing.T) {
	bindings := map[string]panel.Series{
		"Revenue": {200, 400},
		"COGS":    {80, 100},
	}
	n, err := compile("Revenue - COGS", func(name string) bool {
		_, ok := bindings[name]
		return ok
	})
	if err != nil {
		t.Fatal(err)
	}
	got := n.eval(bindings, 2)
	if got[0] != 120 || got[1] != 300 {
		t.Errorf("got %v, want [120 300]", got)
	}
}

func TestCompileUnknownToken(t *testing.T) {
	_, err := compile("Revenue - Unicorn", func(name string) bool {
		return name == "Revenue"
	})
	if err == nil {
		t.Fatal("expected error")
	}
	unknown, ok := err.(*UnknownTokenError)
	if !ok {
		t.Fatalf("expected UnknownTokenError, got %T", err)
	}
	if unknown.Token != "Unicorn" {
		t.Errorf("expected offending token Unicorn, got %q", unknown.Token)
	}
}

func TestCompileMalformed(t *testing.T) {
	if _, err := compile("(1 + 2", nil2); err == nil {
		t.Error("expected error for unbalanced parens")
	}
	if _, err := compile("1 +", nil2); err == nil {
		t.Error("expected error for dangling operator")
	}
	// "1 2" scans as a single operand "1 2" which is not numeric.
	_, err := compile("1 2", nil2)
	if err == nil {
		t.Fatal("expected error for non-numeric operand")
	}
	if _, ok := err.(*UnknownTokenError); !ok {
		t.Errorf("expected UnknownTokenError for %q, got %v", "1 2", err)
	}
}

func nil2(string) bool { return false }

func TestEvalUnaryChains(t *testing.T) {
	if got := evalScalar(t, "--5", nil); got != 5 {
		t.Errorf("--5 = %v, want 5", got)
	}
	if got := evalScalar(t, "2 - -3", nil); got != 5 {
		t.Errorf("2 - -3 = %v, want 5", got)
	}
}
