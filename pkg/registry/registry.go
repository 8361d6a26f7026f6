// Package registry holds the node-kind catalog: every node type the
// script system understands, with its ports, properties, owner mask and
// feature gate. The catalog is built once and read everywhere; entries
// are immutable.
package registry

import (
	"fmt"

	"github.com/questwright/scriptgraph/pkg/fuzzyfinder"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
)

// Registry is the full node-kind catalog in registration order.
type Registry struct {
	defs  []*mnodedef.Definition
	index map[string]int
}

// New builds the complete catalog. The result is safe for concurrent
// readers.
func New() *Registry {
	r := &Registry{index: map[string]int{}}
	registerEvents(r)
	registerConditions(r)
	registerActions(r)
	registerFlow(r)
	registerVariables(r)
	registerDialogue(r)
	return r
}

// add registers one definition, enforcing the catalog invariants.
// Violations are programmer errors in the compiled-in tables, so they
// panic at construction.
func (r *Registry) add(d *mnodedef.Definition) {
	if d.TypeID == "" {
		panic("registry: definition without type id")
	}
	if _, dup := r.index[d.TypeID]; dup {
		panic(fmt.Sprintf("registry: duplicate type id %q", d.TypeID))
	}
	switch d.Category {
	case mnodedef.CategoryEvent:
		if len(d.ExecInputs()) != 0 || len(d.ExecOutputs()) == 0 {
			panic(fmt.Sprintf("registry: event %q must source execution, not receive it", d.TypeID))
		}
	case mnodedef.CategoryAction, mnodedef.CategoryDialogue:
		if len(d.ExecInputs()) == 0 {
			panic(fmt.Sprintf("registry: %q needs an execution input", d.TypeID))
		}
	case mnodedef.CategoryCondition:
		if !conditionShapeOK(d) {
			panic(fmt.Sprintf("registry: condition %q needs True/False outputs or a Bool result", d.TypeID))
		}
	case mnodedef.CategoryVariable:
		if len(d.ExecInputs()) != 0 || len(d.ExecOutputs()) != 0 {
			panic(fmt.Sprintf("registry: variable %q must be a pure data producer", d.TypeID))
		}
		if len(d.DataOutputs()) == 0 {
			panic(fmt.Sprintf("registry: variable %q produces nothing", d.TypeID))
		}
	}
	r.index[d.TypeID] = len(r.defs)
	r.defs = append(r.defs, d)
}

func conditionShapeOK(d *mnodedef.Definition) bool {
	if d.Output("True") != nil && d.Output("False") != nil {
		return true
	}
	for _, p := range d.DataOutputs() {
		if p.DataType == mnodedef.DataBool {
			return true
		}
	}
	return false
}

// Get looks up a definition by its exact type id. Unknown ids return
// (nil, false); callers treat that as "inert node", never as an error.
func (r *Registry) Get(typeID string) (*mnodedef.Definition, bool) {
	i, ok := r.index[typeID]
	if !ok {
		return nil, false
	}
	return r.defs[i], true
}

// All returns every definition in registration order.
func (r *Registry) All() []*mnodedef.Definition {
	out := make([]*mnodedef.Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len is the catalog size.
func (r *Registry) Len() int {
	return len(r.defs)
}

// ByCategory returns the definitions of one category in registration
// order.
func (r *Registry) ByCategory(cat mnodedef.Category) []*mnodedef.Definition {
	var out []*mnodedef.Definition
	for _, d := range r.defs {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// ForOwner returns the definitions attachable to the given owner kind
// with their feature gates satisfied. Definitions without a feature gate
// always pass.
func (r *Registry) ForOwner(owner mnodedef.OwnerMask, features mnodedef.FeatureContext) []*mnodedef.Definition {
	if features == nil {
		features = mnodedef.AllFeatures{}
	}
	var out []*mnodedef.Definition
	for _, d := range r.defs {
		if !d.Owners.Includes(owner) {
			continue
		}
		if d.RequiredFeature != "" && !features.Enabled(d.RequiredFeature) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Search fuzzy-matches the query against type ids and display names and
// returns matching definitions, best first, each at most once.
func (r *Registry) Search(query string) []*mnodedef.Definition {
	if query == "" {
		return nil
	}
	keys := make([]string, 0, len(r.defs)*2)
	owners := make([]int, 0, len(r.defs)*2)
	for i, d := range r.defs {
		keys = append(keys, d.TypeID)
		owners = append(owners, i)
		if d.DisplayName != "" && d.DisplayName != d.TypeID {
			keys = append(keys, d.DisplayName)
			owners = append(owners, i)
		}
	}
	var out []*mnodedef.Definition
	seen := make(map[int]bool)
	for _, rank := range fuzzyfinder.RankFind(keys, query) {
		def := owners[rank.OriginalIndex]
		if seen[def] {
			continue
		}
		seen[def] = true
		out = append(out, r.defs[def])
	}
	return out
}
