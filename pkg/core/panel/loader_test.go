package panel

import "testing"

func TestParsePanelYAML(t *testing.T) {
	data := []byte(`
periods: ["2022", "2023"]
entities: ["AAPL", "MSFT"]
fields:
  Revenue:
    AAPL: [200, 400]
    MSFT: [150, 180]
  Net Income:
    AAPL: [50, 100]
`)
	p, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.GetEntity("Revenue", "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if s[0] != 200 || s[1] != 400 {
		t.Errorf("wrong values: %v", s)
	}
	// MSFT has no Net Income row in the file; it must be a defined zero row.
	s, err = p.GetEntity("Net Income", "MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if s[0] != 0 || s[1] != 0 {
		t.Errorf("expected zero padding, got %v", s)
	}
}

func TestParseRejectsEmptyAxes(t *testing.T) {
	if _, err := Parse([]byte(`entities: ["A"]`)); err == nil {
		t.Error("expected error for missing periods")
	}
	if _, err := Parse([]byte(`periods: ["2023"]`)); err == nil {
		t.Error("expected error for missing entities")
	}
}
