package formula

import "strings"

// Definition is one caller-supplied custom metric: a name and the free-text
// expression that computes it.
type Definition struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// Batch is the ordered set of definitions evaluated together. Order matters
// twice: it is the declared presentation order of the results, and the
// starting point for dependency ordering.
type Batch []Definition

// orderBatch produces a best-effort evaluation order in which a formula's
// prerequisites tend to run before it. Detection is textual: B is a
// prerequisite of A when B's name appears as a substring of A's expression.
// A short formula name occurring inside an unrelated longer field name
// therefore creates a spurious edge; callers rely on this behavior, so it is
// preserved rather than replaced with a structural parse.
//
// The placement walk is not a topological sort: for each definition in
// declared order, any not-yet-placed prerequisite is placed first, then the
// definition itself. Cycles are not rejected; a cyclic reference evaluates
// against the placeholder-zero row seeded for every custom name and is not
// retried.
func orderBatch(batch Batch) Batch {
	placed := make(map[string]bool, len(batch))
	ordered := make(Batch, 0, len(batch))

	place := func(d Definition) {
		if placed[d.Name] {
			return
		}
		placed[d.Name] = true
		ordered = append(ordered, d)
	}

	for _, def := range batch {
		for _, other := range batch {
			if other.Name == def.Name {
				continue
			}
			if strings.Contains(def.Expr, other.Name) {
				place(other)
			}
		}
		place(def)
	}
	return ordered
}
