// Package mscript holds the serializable script graph: definitions,
// node instances and connections. Definitions are loaded as immutable
// snapshots; the interpreter and validator read them but never write.
package mscript

import (
	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

// Node is one placed node instance. Category is a denormalized copy of
// the registry entry's category so tooling can render unknown kinds.
// Position and Comment are editor-only surface.
type Node struct {
	ID         idwrap.IDWrap
	TypeID     string
	Category   mnodedef.Category
	PositionX  float64
	PositionY  float64
	Comment    string
	Properties props.Bag
}

// Connection is a directed edge between two named ports. Whether it is a
// control or a data edge is decided by the endpoint port types in the
// registry, never stored.
type Connection struct {
	ID         idwrap.IDWrap
	FromNodeID idwrap.IDWrap
	FromPort   string
	ToNodeID   idwrap.IDWrap
	ToPort     string
}

func NewConnection(from idwrap.IDWrap, fromPort string, to idwrap.IDWrap, toPort string) Connection {
	return Connection{
		ID:         idwrap.NewNow(),
		FromNodeID: from,
		FromPort:   fromPort,
		ToNodeID:   to,
		ToPort:     toPort,
	}
}

// Definition is one script graph attached to an owning game entity.
// Node and connection order is not meaningful; ids are unique within a
// definition. Connections may dangle (edit-in-progress snapshots) and
// every consumer tolerates that.
type Definition struct {
	ID          idwrap.IDWrap
	Name        string
	OwnerType   mnodedef.OwnerMask
	OwnerID     string
	Nodes       []Node
	Connections []Connection
}

// NodeByID returns the node with the given id, or nil.
func (d *Definition) NodeByID(id idwrap.IDWrap) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// NodesByType returns every node instance of the given type id.
func (d *Definition) NodesByType(typeID string) []*Node {
	var out []*Node
	for i := range d.Nodes {
		if d.Nodes[i].TypeID == typeID {
			out = append(out, &d.Nodes[i])
		}
	}
	return out
}
