// Package mnodedef holds the catalog-side data model: what a node kind
// is, which owners it attaches to, the ports it exposes and the
// properties it can be configured with. Definitions are plain data and
// immutable after registry construction.
package mnodedef

import (
	"strings"

	"github.com/questwright/scriptgraph/pkg/props"
)

type Category int8

const (
	CategoryUnspecified Category = iota
	CategoryEvent
	CategoryCondition
	CategoryAction
	CategoryFlow
	CategoryVariable
	CategoryDialogue
)

func (c Category) String() string {
	switch c {
	case CategoryEvent:
		return "Event"
	case CategoryCondition:
		return "Condition"
	case CategoryAction:
		return "Action"
	case CategoryFlow:
		return "Flow"
	case CategoryVariable:
		return "Variable"
	case CategoryDialogue:
		return "Dialogue"
	}
	return "Unspecified"
}

// ParseCategory resolves the wire spelling; unknown spellings map to
// Unspecified rather than failing, matching the tolerant decode rules.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "event":
		return CategoryEvent
	case "condition":
		return CategoryCondition
	case "action":
		return CategoryAction
	case "flow":
		return CategoryFlow
	case "variable":
		return CategoryVariable
	case "dialogue":
		return CategoryDialogue
	}
	return CategoryUnspecified
}

// OwnerMask is a bit set of entity kinds a node kind may attach to.
type OwnerMask uint8

const (
	OwnerGame OwnerMask = 1 << iota
	OwnerRoom
	OwnerNpc
	OwnerGameObject
	OwnerDoor
	OwnerQuest

	// OwnerAny is the wildcard: the definition attaches to every owner.
	OwnerAny OwnerMask = 0xFF
)

var ownerNames = []struct {
	mask OwnerMask
	name string
}{
	{OwnerGame, "Game"},
	{OwnerRoom, "Room"},
	{OwnerNpc, "Npc"},
	{OwnerGameObject, "GameObject"},
	{OwnerDoor, "Door"},
	{OwnerQuest, "Quest"},
}

func (m OwnerMask) String() string {
	if m == OwnerAny {
		return "Any"
	}
	var parts []string
	for _, o := range ownerNames {
		if m&o.mask != 0 {
			parts = append(parts, o.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// Includes reports whether the mask covers the given single owner kind,
// treating the wildcard as covering everything.
func (m OwnerMask) Includes(owner OwnerMask) bool {
	if m == OwnerAny {
		return true
	}
	return m&owner != 0
}

// ParseOwner resolves one owner-kind name. The second return is false for
// unknown names.
func ParseOwner(s string) (OwnerMask, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "game":
		return OwnerGame, true
	case "room":
		return OwnerRoom, true
	case "npc":
		return OwnerNpc, true
	case "gameobject", "object":
		return OwnerGameObject, true
	case "door":
		return OwnerDoor, true
	case "quest":
		return OwnerQuest, true
	case "any":
		return OwnerAny, true
	}
	return 0, false
}

// Data type names used by data ports and property definitions. "Any"
// ports accept every value kind and skip coercion.
const (
	DataAny    = "Any"
	DataBool   = "Bool"
	DataInt    = "Int"
	DataDouble = "Double"
	DataString = "String"
)

type PortType int8

const (
	PortExecution PortType = iota
	PortData
)

func (p PortType) String() string {
	if p == PortData {
		return "Data"
	}
	return "Execution"
}

// PortDefinition describes one endpoint a node of this kind exposes.
// DataType and Default only apply to data ports.
type PortDefinition struct {
	Name     string
	Type     PortType
	DataType string
	Default  props.Value
	Label    string
}

// ExecIn/ExecOut/DataIn/DataOut are small constructors that keep the
// registry's port tables readable.

func ExecIn(name string) PortDefinition {
	return PortDefinition{Name: name, Type: PortExecution}
}

func ExecOut(name string) PortDefinition {
	return PortDefinition{Name: name, Type: PortExecution}
}

func DataIn(name, dataType string, def props.Value) PortDefinition {
	return PortDefinition{Name: name, Type: PortData, DataType: dataType, Default: def}
}

func DataOut(name, dataType string) PortDefinition {
	return PortDefinition{Name: name, Type: PortData, DataType: dataType}
}

// PropertyDefinition describes one configurable property of a node kind.
// EntityType marks the property as a reference to another entity kind
// ("Room", "Quest", ...), which makes it mandatory regardless of Required.
type PropertyDefinition struct {
	Name        string
	DisplayName string
	DataType    string
	Default     props.Value
	Options     []string
	EntityType  string
	Required    bool
}

// RequiresValue reports whether validation demands a non-blank value:
// explicitly required properties and entity references both do.
func (p PropertyDefinition) RequiresValue() bool {
	return p.Required || p.EntityType != ""
}

// Definition is one immutable catalog entry.
type Definition struct {
	TypeID          string
	DisplayName     string
	Category        Category
	Owners          OwnerMask
	RequiredFeature string
	Inputs          []PortDefinition
	Outputs         []PortDefinition
	Properties      []PropertyDefinition
}

// Input finds an input port by name (case-insensitive, like property
// lookups). Nil when absent.
func (d *Definition) Input(name string) *PortDefinition {
	return findPort(d.Inputs, name)
}

// Output finds an output port by name. Nil when absent.
func (d *Definition) Output(name string) *PortDefinition {
	return findPort(d.Outputs, name)
}

func findPort(ports []PortDefinition, name string) *PortDefinition {
	folded := props.FoldKey(name)
	for i := range ports {
		if props.FoldKey(ports[i].Name) == folded {
			return &ports[i]
		}
	}
	return nil
}

// Property finds a property definition by name, case-insensitively.
func (d *Definition) Property(name string) *PropertyDefinition {
	folded := props.FoldKey(name)
	for i := range d.Properties {
		if props.FoldKey(d.Properties[i].Name) == folded {
			return &d.Properties[i]
		}
	}
	return nil
}

// ExecOutputs returns the execution output ports in declared order; flow
// traversal fans out across these.
func (d *Definition) ExecOutputs() []PortDefinition {
	var out []PortDefinition
	for _, p := range d.Outputs {
		if p.Type == PortExecution {
			out = append(out, p)
		}
	}
	return out
}

// ExecInputs returns the execution input ports in declared order.
func (d *Definition) ExecInputs() []PortDefinition {
	var in []PortDefinition
	for _, p := range d.Inputs {
		if p.Type == PortExecution {
			in = append(in, p)
		}
	}
	return in
}

// DataOutputs returns the data output ports in declared order.
func (d *Definition) DataOutputs() []PortDefinition {
	var out []PortDefinition
	for _, p := range d.Outputs {
		if p.Type == PortData {
			out = append(out, p)
		}
	}
	return out
}

// FeatureContext answers whether a world-level feature toggle is on;
// the world implements it, and the registry filters against it.
type FeatureContext interface {
	Enabled(feature string) bool
}

// AllFeatures is a FeatureContext with every toggle on, used where
// filtering is not wanted.
type AllFeatures struct{}

func (AllFeatures) Enabled(string) bool { return true }
