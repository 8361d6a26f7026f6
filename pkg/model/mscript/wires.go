package mscript

import (
	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

// Endpoint names one side of an edge: a node and the canonical spelling
// of one of its ports.
type Endpoint struct {
	NodeID idwrap.IDWrap
	Port   string
}

// ControlMap indexes control edges by source node and folded source
// port name, keeping the target's input port so the interpreter knows
// which way a node was entered. Fan-out from one port preserves
// connection order.
type ControlMap map[idwrap.IDWrap]map[string][]Endpoint

// DataSourceMap indexes data edges by consumer node and folded input
// port name, answering "who produces this input". Later connections to
// the same input override earlier ones, matching editor behavior where
// re-wiring replaces the previous edge.
type DataSourceMap map[idwrap.IDWrap]map[string]Endpoint

// Successors returns the control targets leaving the given port, in
// connection order. Missing sources or ports return nil.
func (m ControlMap) Successors(source idwrap.IDWrap, port string) []Endpoint {
	ports, ok := m[source]
	if !ok {
		return nil
	}
	return ports[props.FoldKey(port)]
}

// Source returns the producer endpoint wired into the consumer's input
// port, if any.
func (m DataSourceMap) Source(consumer idwrap.IDWrap, inputPort string) (Endpoint, bool) {
	ports, ok := m[consumer]
	if !ok {
		return Endpoint{}, false
	}
	ep, ok := ports[props.FoldKey(inputPort)]
	return ep, ok
}

// TypeLookup resolves node type ids into definitions; the registry
// satisfies it. Unknown ids return (nil, false).
type TypeLookup interface {
	Get(typeID string) (*mnodedef.Definition, bool)
}

// Wires are the derived adjacency maps the validator and interpreter
// run on: control edges and data edges, kept strictly apart.
type Wires struct {
	Control ControlMap
	Data    DataSourceMap
}

// BuildWires classifies every connection against the registry and builds
// the two maps. A connection is a control edge iff both endpoint ports
// exist on their node's definition as Execution ports; a connection
// where either resolved endpoint is a data port is a data edge. Dangling
// connections (unknown node id, unknown node type, unknown port name)
// are skipped; an in-progress edit state must never raise. Stored port
// names are the definitions' canonical spellings, whatever the
// connection wrote.
func BuildWires(d *Definition, types TypeLookup) Wires {
	w := Wires{
		Control: make(ControlMap),
		Data:    make(DataSourceMap),
	}

	byID := make(map[idwrap.IDWrap]*Node, len(d.Nodes))
	for i := range d.Nodes {
		byID[d.Nodes[i].ID] = &d.Nodes[i]
	}

	for _, conn := range d.Connections {
		fromNode, ok := byID[conn.FromNodeID]
		if !ok {
			continue
		}
		toNode, ok := byID[conn.ToNodeID]
		if !ok {
			continue
		}
		fromDef, ok := types.Get(fromNode.TypeID)
		if !ok {
			continue
		}
		toDef, ok := types.Get(toNode.TypeID)
		if !ok {
			continue
		}
		fromPort := fromDef.Output(conn.FromPort)
		toPort := toDef.Input(conn.ToPort)
		if fromPort == nil || toPort == nil {
			continue
		}

		if fromPort.Type == mnodedef.PortExecution && toPort.Type == mnodedef.PortExecution {
			ports, ok := w.Control[conn.FromNodeID]
			if !ok {
				ports = make(map[string][]Endpoint)
				w.Control[conn.FromNodeID] = ports
			}
			key := props.FoldKey(fromPort.Name)
			ports[key] = append(ports[key], Endpoint{NodeID: conn.ToNodeID, Port: toPort.Name})
			continue
		}

		// Either side being a data port makes this a data edge; a
		// mixed exec/data pair is authoring noise and lands here too,
		// where reachability can never see it.
		ports, ok := w.Data[conn.ToNodeID]
		if !ok {
			ports = make(map[string]Endpoint)
			w.Data[conn.ToNodeID] = ports
		}
		ports[props.FoldKey(toPort.Name)] = Endpoint{NodeID: conn.FromNodeID, Port: fromPort.Name}
	}

	return w
}
