// Package scripttest builds script definitions in tests without the
// noise of hand-assembled node and connection literals.
package scripttest

import (
	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/props"
	"github.com/questwright/scriptgraph/pkg/registry"
)

// Builder accumulates one script definition. The zero value is not
// usable; start with New.
type Builder struct {
	Def *mscript.Definition
	Reg *registry.Registry
}

// New starts a game-owned definition with the full catalog attached.
func New(name string) *Builder {
	return &Builder{
		Def: &mscript.Definition{
			ID:        idwrap.NewNow(),
			Name:      name,
			OwnerType: mnodedef.OwnerGame,
			OwnerID:   "game",
		},
		Reg: registry.New(),
	}
}

// Owned rebinds the definition to another owner.
func (b *Builder) Owned(owner mnodedef.OwnerMask, ownerID string) *Builder {
	b.Def.OwnerType = owner
	b.Def.OwnerID = ownerID
	return b
}

// Node appends a node of the given type with alternating key, value
// property pairs and returns its id. The denormalized category is
// copied from the catalog; unknown types stay Unspecified.
func (b *Builder) Node(typeID string, kv ...any) idwrap.IDWrap {
	n := mscript.Node{
		ID:     idwrap.NewNow(),
		TypeID: typeID,
	}
	if d, ok := b.Reg.Get(typeID); ok {
		n.Category = d.Category
	}
	if len(kv) > 0 {
		n.Properties = props.Of(kv...)
	}
	b.Def.Nodes = append(b.Def.Nodes, n)
	return n.ID
}

// Wire adds a connection between two named ports.
func (b *Builder) Wire(from idwrap.IDWrap, fromPort string, to idwrap.IDWrap, toPort string) *Builder {
	b.Def.Connections = append(b.Def.Connections, mscript.NewConnection(from, fromPort, to, toPort))
	return b
}

// Exec wires fromPort on one node to the "Exec" input of another, the
// most common control hop.
func (b *Builder) Exec(from idwrap.IDWrap, fromPort string, to idwrap.IDWrap) *Builder {
	return b.Wire(from, fromPort, to, registry.PortExec)
}

// Chain wires a linear Exec->Exec run through every listed node.
func (b *Builder) Chain(ids ...idwrap.IDWrap) *Builder {
	for i := 0; i+1 < len(ids); i++ {
		b.Exec(ids[i], registry.PortExec, ids[i+1])
	}
	return b
}
