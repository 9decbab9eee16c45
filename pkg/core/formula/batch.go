package formula

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// Batch files use hjson so analysts can comment their formula definitions:
//
//	{
//	  formulas: [
//	    # working capital turns, scaled to percent
//	    { name: "WC Ratio", expr: "(Working Capital / Net Income) * 100" }
//	    { name: "WC Signal", expr: "WC Ratio > 50" }
//	  ]
//	}
//
// The array form keeps the declared order, which drives both dependency
// ordering and the presentation order of results.
type batchFile struct {
	Formulas []Definition `json:"formulas"`
}

// LoadBatch reads a formula batch from an hjson file.
func LoadBatch(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(data)
}

// ParseBatch builds a batch from hjson bytes.
func ParseBatch(data []byte) (Batch, error) {
	var f batchFile
	if err := hjson.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	for _, def := range f.Formulas {
		if def.Name == "" || def.Expr == "" {
			return nil, fmt.Errorf("batch file contains a formula with an empty name or expression")
		}
	}
	return Batch(f.Formulas), nil
}
