// Package validate answers "is this graph executable" without running
// it. Validation is pure analysis over a script definition plus the
// node-kind catalog; the interpreter never repeats these checks at run
// time.
package validate

import (
	"fmt"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
)

// IncompleteNode names one node whose required properties are not all
// set. Absent, null, empty and whitespace-only values all count as
// missing.
type IncompleteNode struct {
	NodeID            idwrap.IDWrap
	TypeID            string
	MissingProperties []string
}

// Result is the full validation verdict. A definition with zero nodes
// fails every check and carries the matching error strings.
type Result struct {
	HasEvent        bool
	HasAction       bool
	IsConnected     bool
	IncompleteNodes []IncompleteNode
	Errors          []string
}

// IsValid reports whether the graph may be handed to the interpreter.
func (r Result) IsValid() bool {
	return r.HasEvent && r.HasAction && r.IsConnected && len(r.IncompleteNodes) == 0
}

// Validate checks the definition against the catalog. Unknown node
// types are inert: they classify as no category, contribute no edges
// and are skipped for property completeness. Dangling connections never
// raise.
func Validate(def *mscript.Definition, reg *registry.Registry) Result {
	var res Result

	for i := range def.Nodes {
		d, ok := reg.Get(def.Nodes[i].TypeID)
		if !ok {
			continue
		}
		switch d.Category {
		case mnodedef.CategoryEvent:
			res.HasEvent = true
		case mnodedef.CategoryAction:
			res.HasAction = true
		}
	}

	res.IsConnected = actionReachable(def, reg)
	res.IncompleteNodes = incompleteNodes(def, reg)

	if !res.HasEvent {
		res.Errors = append(res.Errors, "script has no Event node")
	}
	if !res.HasAction {
		res.Errors = append(res.Errors, "script has no Action node")
	}
	if !res.IsConnected {
		res.Errors = append(res.Errors, "no Action node is reachable from an Event node")
	}
	if n := len(res.IncompleteNodes); n > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d node(s) are missing required properties", n))
	}
	return res
}

// actionReachable walks control edges breadth-first from every Event
// node at once. The visited set guarantees termination on cycles and
// keeps long chains linear.
func actionReachable(def *mscript.Definition, reg *registry.Registry) bool {
	wires := mscript.BuildWires(def, reg)

	category := make(map[idwrap.IDWrap]mnodedef.Category, len(def.Nodes))
	var queue []idwrap.IDWrap
	visited := make(map[idwrap.IDWrap]bool)

	for i := range def.Nodes {
		n := &def.Nodes[i]
		d, ok := reg.Get(n.TypeID)
		if !ok {
			continue
		}
		category[n.ID] = d.Category
		if d.Category == mnodedef.CategoryEvent && !visited[n.ID] {
			visited[n.ID] = true
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if category[id] == mnodedef.CategoryAction {
			return true
		}
		for _, targets := range wires.Control[id] {
			for _, next := range targets {
				if !visited[next.NodeID] {
					visited[next.NodeID] = true
					queue = append(queue, next.NodeID)
				}
			}
		}
	}
	return false
}

func incompleteNodes(def *mscript.Definition, reg *registry.Registry) []IncompleteNode {
	var out []IncompleteNode
	for i := range def.Nodes {
		n := &def.Nodes[i]
		d, ok := reg.Get(n.TypeID)
		if !ok {
			continue
		}
		var missing []string
		for _, p := range d.Properties {
			if !p.RequiresValue() {
				continue
			}
			if !n.Properties.Get(p.Name).IsSet() {
				missing = append(missing, p.Name)
			}
		}
		if len(missing) > 0 {
			out = append(out, IncompleteNode{
				NodeID:            n.ID,
				TypeID:            n.TypeID,
				MissingProperties: missing,
			})
		}
	}
	return out
}
