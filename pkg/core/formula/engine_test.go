package formula

import (
	"errors"
	"math"
	"sort"
	"testing"

	"fincalc/pkg/core/panel"
)

func enginePanel() *panel.Panel {
	p := panel.New([]string{"MSFT", "AAPL"}, []string{"2022", "2023"})
	p.Set("Revenue", map[string]panel.Series{
		"MSFT": {100, 150},
		"AAPL": {200, 400},
	})
	p.Set("COGS", map[string]panel.Series{
		"MSFT": {40, 60},
		"AAPL": {80, 160},
	})
	p.Set("Net Income", map[string]panel.Series{
		"MSFT": {20, 30},
		"AAPL": {50, 100},
	})
	return p
}

func TestRunNoInput(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Run(enginePanel(), nil, Options{})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
}

func TestRunSimpleFormula(t *testing.T) {
	engine := NewEngine()
	batch := Batch{{Name: "Gross", Expr: "Revenue - COGS"}}
	result, err := engine.Run(enginePanel(), batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Table == nil {
		t.Fatal("expected multi-entity table")
	}
	// MSFT: 100-40=60, 150-60=90. AAPL: 200-80=120, 400-160=240.
	got := result.Table.Values["MSFT"]["Gross"]
	if got[0] != 60 || got[1] != 90 {
		t.Errorf("MSFT Gross = %v, want [60 90]", got)
	}
	got = result.Table.Values["AAPL"]["Gross"]
	if got[0] != 120 || got[1] != 240 {
		t.Errorf("AAPL Gross = %v, want [120 240]", got)
	}
}

func TestRunCrossFormulaDependency(t *testing.T) {
	// The worked example from the contract: B reads A's materialized value,
	// not the placeholder zero.
	p := panel.New([]string{"ACME"}, []string{"p1", "p2"})
	p.Set("Revenue", map[string]panel.Series{"ACME": {200, 400}})

	engine := NewEngine()
	batch := Batch{
		{Name: "A", Expr: "Revenue / 2"},
		{Name: "B", Expr: "A * 100"},
	}
	result, err := engine.Run(p, batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Slice == nil {
		t.Fatal("single entity must collapse to a slice")
	}
	a := result.Slice.Values["A"]
	b := result.Slice.Values["B"]
	if a[0] != 100 || a[1] != 200 {
		t.Errorf("A = %v, want [100 200]", a)
	}
	if b[0] != 10000 || b[1] != 20000 {
		t.Errorf("B = %v, want [10000 20000]", b)
	}
}

func TestRunDependencyDeclaredBackwards(t *testing.T) {
	// Same example with B declared first: the orderer must still evaluate A
	// before B, while the result keeps the declared field order.
	p := panel.New([]string{"ACME"}, []string{"p1", "p2"})
	p.Set("Revenue", map[string]panel.Series{"ACME": {200, 400}})

	engine := NewEngine()
	batch := Batch{
		{Name: "B", Expr: "A * 100"},
		{Name: "A", Expr: "Revenue / 2"},
	}
	result, err := engine.Run(p, batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b := result.Slice.Values["B"]
	if b[0] != 10000 || b[1] != 20000 {
		t.Errorf("B = %v, want [10000 20000]", b)
	}
	if result.Slice.Fields[0] != "B" || result.Slice.Fields[1] != "A" {
		t.Errorf("declared order not preserved: %v", result.Slice.Fields)
	}
}

func TestRunBadFormulaDoesNotAbortBatch(t *testing.T) {
	engine := NewEngine()
	batch := Batch{
		{Name: "Good", Expr: "Revenue - COGS"},
		{Name: "Bad", Expr: "Revenue -- Unicorn"},
	}
	result, err := engine.Run(enginePanel(), batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 formula error, got %v", result.Errors)
	}
	if result.Errors[0].Formula != "Bad" {
		t.Errorf("error names wrong formula: %v", result.Errors[0])
	}
	var unknown *UnknownTokenError
	if !errors.As(result.Errors[0].Err, &unknown) || unknown.Token != "Unicorn" {
		t.Errorf("expected unknown token Unicorn, got %v", result.Errors[0].Err)
	}
	// Good is still materialized, Bad is omitted.
	fields := result.Table.Fields
	if len(fields) != 1 || fields[0] != "Good" {
		t.Errorf("expected only Good materialized, got %v", fields)
	}
	if got := result.Table.Values["MSFT"]["Good"]; got[0] != 60 {
		t.Errorf("Good corrupted by failing sibling: %v", got)
	}
}

func TestRunCustomNameOverwritesExistingField(t *testing.T) {
	engine := NewEngine()
	batch := Batch{
		{Name: "Net Income", Expr: "Revenue * 2"},
		{Name: "Doubled", Expr: "Net Income / Revenue"},
	}
	result, err := engine.Run(enginePanel(), batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// "Net Income" was redefined; "Doubled" must see the new definition and
	// therefore equal 2 everywhere.
	for _, entity := range []string{"MSFT", "AAPL"} {
		got := result.Table.Values[entity]["Doubled"]
		if got[0] != 2 || got[1] != 2 {
			t.Errorf("%s Doubled = %v, want [2 2]", entity, got)
		}
	}
}

func TestRunSourcePanelUntouched(t *testing.T) {
	p := enginePanel()
	engine := NewEngine()
	batch := Batch{{Name: "Net Income", Expr: "Revenue * 2"}}
	if _, err := engine.Run(p, batch, Options{}); err != nil {
		t.Fatal(err)
	}
	orig, _ := p.GetEntity("Net Income", "MSFT")
	if orig[0] != 20 {
		t.Errorf("source panel mutated by batch run: %v", orig)
	}
}

func TestRunDiscoveryMode(t *testing.T) {
	engine := NewEngine()
	batch := Batch{{Name: "My Custom", Expr: "Revenue / 2"}}
	result, err := engine.Run(enginePanel(), batch, Options{Discovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if !sort.StringsAreSorted(result.Fields) {
		t.Errorf("discovery listing not sorted: %v", result.Fields)
	}
	// The current batch's names are visible too.
	found := false
	for _, f := range result.Fields {
		if f == "My Custom" {
			found = true
		}
	}
	if !found {
		t.Errorf("discovery listing missing batch name: %v", result.Fields)
	}
	seen := map[string]bool{}
	for _, f := range result.Fields {
		if seen[f] {
			t.Errorf("duplicate field %q in discovery listing", f)
		}
		seen[f] = true
	}
}

func TestRunDiscoveryWithEmptyBatch(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Run(enginePanel(), nil, Options{Discovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Fields) != 3 {
		t.Errorf("expected 3 fields, got %v", result.Fields)
	}
}

func TestRunEntityOrderAndSubset(t *testing.T) {
	engine := NewEngine()
	batch := Batch{{Name: "Gross", Expr: "Revenue - COGS"}}
	result, err := engine.Run(enginePanel(), batch, Options{Entities: []string{"AAPL", "MSFT"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Table.Entities[0] != "AAPL" || result.Table.Entities[1] != "MSFT" {
		t.Errorf("caller entity order not preserved: %v", result.Table.Entities)
	}

	// Single-entity request collapses.
	result, err = engine.Run(enginePanel(), batch, Options{Entities: []string{"AAPL"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Slice == nil || result.Slice.Entity != "AAPL" {
		t.Fatalf("expected collapsed AAPL slice, got %+v", result)
	}
}

func TestRunRounding(t *testing.T) {
	p := panel.New([]string{"ACME"}, []string{"p1"})
	p.Set("Seven", map[string]panel.Series{"ACME": {7}})

	engine := NewEngine()
	batch := Batch{{Name: "Third", Expr: "Seven / 3"}}

	// Default precision is 4: 7/3 = 2.3333...
	result, err := engine.Run(p, batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Slice.Values["Third"][0]; got != 2.3333 {
		t.Errorf("default rounding: got %v, want 2.3333", got)
	}

	// Explicit precision 2, half away from zero: 7/3 = 2.33.
	result, err = engine.Run(p, batch, Options{Precision: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Slice.Values["Third"][0]; got != 2.33 {
		t.Errorf("precision 2: got %v, want 2.33", got)
	}
}

func TestRunRoundingHalfAwayFromZero(t *testing.T) {
	p := panel.New([]string{"ACME"}, []string{"p1"})
	p.Set("V", map[string]panel.Series{"ACME": {2.34565}})

	engine := NewEngine()
	result, err := engine.Run(p, Batch{{Name: "R", Expr: "V * 1"}}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Slice.Values["R"][0]; got != 2.3457 {
		t.Errorf("got %v, want 2.3457 (half away from zero)", got)
	}
}

func TestRunDivisionByZeroPropagates(t *testing.T) {
	p := panel.New([]string{"ACME"}, []string{"p1", "p2"})
	p.Set("Revenue", map[string]panel.Series{"ACME": {100, 200}})
	p.Set("Equity", map[string]panel.Series{"ACME": {0, 50}})

	engine := NewEngine()
	batch := Batch{{Name: "ROE", Expr: "Revenue / Equity"}}
	result, err := engine.Run(p, batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := result.Slice.Values["ROE"]
	// Period 1 divides by zero and stays Inf (not rounded, not an error);
	// period 2 is an ordinary 4.
	if !math.IsInf(got[0], 1) {
		t.Errorf("expected +Inf for zero denominator, got %v", got[0])
	}
	if got[1] != 4 {
		t.Errorf("expected 4, got %v", got[1])
	}
}

func TestRunCycleEvaluatesWithPlaceholders(t *testing.T) {
	// Cyclic references are not rejected: whichever side runs first reads
	// the other's placeholder zeros. Processing X places its prerequisite Y
	// first, so Y = 0 + 1 = 1 and X = Y + 1 = 2.
	p := panel.New([]string{"ACME"}, []string{"p1"})

	engine := NewEngine()
	batch := Batch{
		{Name: "X", Expr: "Y + 1"},
		{Name: "Y", Expr: "X + 1"},
	}
	result, err := engine.Run(p, batch, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Slice.Values["Y"][0]; got != 1 {
		t.Errorf("Y = %v, want 1 (stale placeholder)", got)
	}
	if got := result.Slice.Values["X"][0]; got != 2 {
		t.Errorf("X = %v, want 2", got)
	}
}
