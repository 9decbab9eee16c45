package panel

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// fileSchema mirrors the on-disk yaml layout of a panel:
//
//	periods: ["2022", "2023"]
//	entities: ["AAPL", "MSFT"]
//	fields:
//	  Revenue:
//	    AAPL: [200, 400]
//	    MSFT: [150, 180]
type fileSchema struct {
	Periods  []string                        `yaml:"periods"`
	Entities []string                        `yaml:"entities"`
	Fields   map[string]map[string][]float64 `yaml:"fields"`
}

// LoadFile reads a panel from a yaml file.
func LoadFile(path string) (*Panel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read panel file: %w", err)
	}
	return Parse(data)
}

// Parse builds a panel from yaml bytes.
func Parse(data []byte) (*Panel, error) {
	var f fileSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse panel yaml: %w", err)
	}
	if len(f.Periods) == 0 {
		return nil, fmt.Errorf("panel file declares no periods")
	}
	if len(f.Entities) == 0 {
		return nil, fmt.Errorf("panel file declares no entities")
	}
	p := New(f.Entities, f.Periods)
	for name, rows := range f.Fields {
		values := make(map[string]Series, len(rows))
		for entity, vals := range rows {
			values[entity] = Series(vals)
		}
		p.Set(name, values)
	}
	return p, nil
}
