// Package panel implements the shared tabular workspace the formula engine
// reads from and writes into: a three-dimensional table keyed by
// (entity, field name, period). Raw statement line items and standard ratios
// are loaded read-only; custom formula rows are written in place as each
// formula in a batch is evaluated.
package panel

import (
	"fmt"
	"sort"
)

// Series holds one field's values for one entity across the shared period axis.
type Series []float64

// UnknownFieldError reports a field name that exists nowhere in the panel.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// Panel is the (entity, field, period) workspace. Field names are unique
// within the panel; writing a custom field under an existing name replaces
// the old values (last write wins). Periods form one ordered axis shared by
// every field; entities keep the caller-supplied presentation order.
type Panel struct {
	entities []string
	periods  []string
	fields   map[string]map[string]Series // field -> entity -> values
}

// New creates an empty panel with the given entity and period axes.
// Entity order is preserved as supplied; callers rely on presentation order.
func New(entities, periods []string) *Panel {
	p := &Panel{
		entities: make([]string, len(entities)),
		periods:  make([]string, len(periods)),
		fields:   make(map[string]map[string]Series),
	}
	copy(p.entities, entities)
	copy(p.periods, periods)
	return p
}

// Entities returns the entity axis in presentation order.
func (p *Panel) Entities() []string {
	out := make([]string, len(p.entities))
	copy(out, p.entities)
	return out
}

// Periods returns the shared period axis.
func (p *Panel) Periods() []string {
	out := make([]string, len(p.periods))
	copy(out, p.periods)
	return out
}

// Has reports whether a field of that name exists anywhere in the panel.
func (p *Panel) Has(name string) bool {
	_, ok := p.fields[name]
	return ok
}

// Get returns the per-entity series for a field. The returned slices are
// copies; mutating them does not touch the panel.
func (p *Panel) Get(name string) (map[string]Series, error) {
	rows, ok := p.fields[name]
	if !ok {
		return nil, &UnknownFieldError{Field: name}
	}
	out := make(map[string]Series, len(rows))
	for entity, s := range rows {
		out[entity] = s.clone()
	}
	return out, nil
}

// GetEntity returns one entity's series for a field.
func (p *Panel) GetEntity(name, entity string) (Series, error) {
	rows, ok := p.fields[name]
	if !ok {
		return nil, &UnknownFieldError{Field: name}
	}
	return rows[entity].clone(), nil
}

// Set writes a field across all entities, overwriting any existing rows of
// the same name in place. Missing entities get a zero series; series are
// padded or truncated to the period axis length so every cell stays defined.
func (p *Panel) Set(name string, values map[string]Series) {
	rows := make(map[string]Series, len(p.entities))
	for _, entity := range p.entities {
		rows[entity] = fit(values[entity], len(p.periods))
	}
	p.fields[name] = rows
}

// SetEntity writes one entity's series for a field, leaving other entities'
// rows untouched. The field is created with zero rows if absent.
func (p *Panel) SetEntity(name, entity string, s Series) {
	rows, ok := p.fields[name]
	if !ok {
		rows = make(map[string]Series, len(p.entities))
		for _, e := range p.entities {
			rows[e] = make(Series, len(p.periods))
		}
		p.fields[name] = rows
	}
	rows[entity] = fit(s, len(p.periods))
}

// FieldNames returns the sorted, duplicate-free union of every field name
// visible in the panel. This backs the engine's discovery mode.
func (p *Panel) FieldNames() []string {
	names := make([]string, 0, len(p.fields))
	for name := range p.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the panel. Each batch evaluation works on its
// own clone so concurrent batches never share a workspace.
func (p *Panel) Clone() *Panel {
	c := New(p.entities, p.periods)
	for name, rows := range p.fields {
		cp := make(map[string]Series, len(rows))
		for entity, s := range rows {
			cp[entity] = s.clone()
		}
		c.fields[name] = cp
	}
	return c
}

// Extract returns a read-only view restricted to the given field names,
// preserving the caller-specified entity ordering. Unknown names and unknown
// entities are skipped rather than failing: the engine has already reported
// per-formula errors by the time it materializes.
func (p *Panel) Extract(names []string, entityOrder []string) *View {
	if len(entityOrder) == 0 {
		entityOrder = p.entities
	}
	v := &View{
		Periods: p.Periods(),
		Values:  make(map[string]map[string]Series),
	}
	known := make(map[string]bool, len(p.entities))
	for _, e := range p.entities {
		known[e] = true
	}
	for _, entity := range entityOrder {
		if !known[entity] {
			continue
		}
		v.Entities = append(v.Entities, entity)
	}
	for _, name := range names {
		rows, ok := p.fields[name]
		if !ok {
			continue
		}
		v.Fields = append(v.Fields, name)
		for _, entity := range v.Entities {
			if v.Values[entity] == nil {
				v.Values[entity] = make(map[string]Series)
			}
			v.Values[entity][name] = rows[entity].clone()
		}
	}
	return v
}

// View is a read-only extraction of panel rows: the materialized result of a
// formula batch. Entities and Fields preserve caller ordering.
type View struct {
	Entities []string                     `json:"entities"`
	Periods  []string                     `json:"periods"`
	Fields   []string                     `json:"fields"`
	Values   map[string]map[string]Series `json:"values"` // entity -> field -> series
}

// Collapse reduces the view to a single entity's slice. Callers downstream
// depend on single-entity results losing the entity dimension.
func (v *View) Collapse(entity string) *Slice {
	s := &Slice{
		Entity:  entity,
		Periods: v.Periods,
		Fields:  v.Fields,
		Values:  make(map[string]Series, len(v.Fields)),
	}
	for _, name := range v.Fields {
		s.Values[name] = v.Values[entity][name]
	}
	return s
}

// Slice is one entity's rows of a materialized view.
type Slice struct {
	Entity  string            `json:"entity"`
	Periods []string          `json:"periods"`
	Fields  []string          `json:"fields"`
	Values  map[string]Series `json:"values"`
}

func (s Series) clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// fit pads or truncates a series to n values.
func fit(s Series, n int) Series {
	out := make(Series, n)
	copy(out, s)
	return out
}
