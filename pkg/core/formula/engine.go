package formula

import (
	"math"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fincalc/pkg/core/panel"
)

// DefaultPrecision is the number of decimal places results are rounded to
// when the caller does not ask for something else.
const DefaultPrecision = 4

// Engine evaluates formula batches against a panel. It holds no state
// between runs; every run clones its own workspace, so independent batches
// may run concurrently on separate Engine calls.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an engine with logging disabled.
func NewEngine() *Engine {
	return &Engine{log: zerolog.Nop()}
}

// NewEngineWithLogger creates an engine that reports skipped formulas
// through the given logger.
func NewEngineWithLogger(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// Options controls one batch evaluation.
type Options struct {
	// Precision is the number of decimal places results are rounded to.
	// Zero or negative selects DefaultPrecision.
	Precision int
	// Discovery requests the sorted list of all visible field names instead
	// of evaluation.
	Discovery bool
	// Entities restricts and orders the entities in the materialized result.
	// Empty means every panel entity in panel order.
	Entities []string
}

// Result is the outcome of a batch run: a multi-entity table, a collapsed
// single-entity slice, or (in discovery mode) the list of field names.
// Per-formula errors are collected here rather than aborting the run.
type Result struct {
	Table  *panel.View    `json:"table,omitempty"`
	Slice  *panel.Slice   `json:"slice,omitempty"`
	Fields []string       `json:"fields,omitempty"`
	Errors []FormulaError `json:"errors,omitempty"`
}

// Run evaluates a formula batch against the panel and materializes the
// requested rows. The source panel is never mutated: custom rows live in a
// per-run clone. A batch with no definitions and no discovery request is a
// caller usage error.
func (e *Engine) Run(src *panel.Panel, batch Batch, opts Options) (*Result, error) {
	if len(batch) == 0 && !opts.Discovery {
		return nil, ErrNoInput
	}

	work := src.Clone()

	// Every declared custom name gets a placeholder-zero row up front, so a
	// sibling reference resolves even when ordering could not put the
	// dependency first. A custom name that collides with an existing field
	// overwrites it, which is the declared collision rule.
	for _, def := range batch {
		work.Set(def.Name, nil)
	}

	if opts.Discovery {
		return &Result{Fields: work.FieldNames()}, nil
	}

	result := &Result{}
	failed := make(map[string]bool)

	for _, def := range orderBatch(batch) {
		if err := e.evaluate(work, def); err != nil {
			failed[def.Name] = true
			result.Errors = append(result.Errors, FormulaError{Formula: def.Name, Err: err})
			e.log.Warn().Str("formula", def.Name).Err(err).Msg("formula skipped")
		}
	}

	// Materialize in declared order, omitting failed formulas.
	names := make([]string, 0, len(batch))
	for _, def := range batch {
		if !failed[def.Name] {
			names = append(names, def.Name)
		}
	}

	view := work.Extract(names, opts.Entities)
	roundView(view, opts.Precision)

	if len(view.Entities) == 1 {
		result.Slice = view.Collapse(view.Entities[0])
	} else {
		result.Table = view
	}
	return result, nil
}

// evaluate resolves and computes one formula, writing the result into the
// workspace. Resolution failures return an error identifying the offending
// token; numeric failures do not error, they propagate as NaN/Inf values.
func (e *Engine) evaluate(work *panel.Panel, def Definition) error {
	refs := make([]string, 0, 4)
	for _, operand := range Operands(def.Expr) {
		if work.Has(operand) {
			refs = append(refs, operand)
			continue
		}
		if _, err := strconv.ParseFloat(operand, 64); err != nil {
			return &UnknownTokenError{Formula: def.Name, Token: operand}
		}
	}

	compiled, err := compile(def.Expr, work.Has)
	if err != nil {
		if unknown, ok := err.(*UnknownTokenError); ok {
			unknown.Formula = def.Name
		}
		return err
	}

	periods := len(work.Periods())
	values := make(map[string]panel.Series)
	for _, entity := range work.Entities() {
		bindings := make(map[string]panel.Series, len(refs))
		for _, ref := range refs {
			s, err := work.GetEntity(ref, entity)
			if err != nil {
				return err
			}
			bindings[ref] = s
		}
		// Per-entity evaluation: a NaN/Inf outcome for one entity never
		// touches another entity's row.
		values[entity] = compiled.eval(bindings, periods)
	}

	work.Set(def.Name, values)
	return nil
}

// roundView rounds every finite cell to the requested precision, half away
// from zero. The same rule applies to every formula in a batch. NaN and Inf
// cells pass through untouched; they are meaningful ratio outcomes.
func roundView(v *panel.View, precision int) {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	for _, rows := range v.Values {
		for _, s := range rows {
			for i, val := range s {
				if math.IsNaN(val) || math.IsInf(val, 0) {
					continue
				}
				s[i] = decimal.NewFromFloat(val).Round(int32(precision)).InexactFloat64()
			}
		}
	}
}
