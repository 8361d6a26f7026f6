package yamlscript

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
)

type fileOut struct {
	Name    string        `yaml:"name,omitempty"`
	World   *WorldDoc     `yaml:"world,omitempty"`
	Scripts []scriptEntry `yaml:"scripts"`
}

// Marshal writes a bundle back to its document form. Node and script
// ids are emitted in full so an export/import cycle keeps identities
// stable.
func Marshal(b *Bundle) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("yamlscript: nil bundle")
	}
	out := fileOut{Name: b.Name, World: b.World}
	for _, def := range b.Scripts {
		out.Scripts = append(out.Scripts, entryFromDefinition(def))
	}
	return yaml.Marshal(out)
}

func entryFromDefinition(def *mscript.Definition) scriptEntry {
	entry := scriptEntry{
		Name:  def.Name,
		Owner: FormatOwnerRef(def.OwnerType, def.OwnerID),
	}
	if !def.ID.IsZero() {
		entry.ID = def.ID.String()
	}

	for i := range def.Nodes {
		node := &def.Nodes[i]
		ne := nodeEntry{
			ID:      node.ID.String(),
			Type:    node.TypeID,
			Comment: node.Comment,
			With:    node.Properties,
		}
		if node.PositionX != 0 || node.PositionY != 0 {
			ne.At = []float64{node.PositionX, node.PositionY}
		}
		entry.Nodes = append(entry.Nodes, ne)
	}

	for _, conn := range def.Connections {
		ce := connEntry{
			From: conn.FromNodeID.String(),
			To:   conn.ToNodeID.String(),
		}
		if conn.FromPort != registry.PortExec {
			ce.Out = conn.FromPort
		}
		if conn.ToPort != registry.PortExec {
			ce.In = conn.ToPort
		}
		entry.Connections = append(entry.Connections, ce)
	}
	return entry
}
