// Package jsonscript reads and writes the canonical JSON form of a
// script definition, the shape the store persists and editors exchange.
// Decoding is tolerant: unknown fields are ignored, missing or
// malformed ids are minted fresh, and connections that end up dangling
// are kept as-is for the validator to report.
package jsonscript

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/props"
)

// ScriptDoc is the stored JSON shape of one definition.
type ScriptDoc struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	OwnerType   string          `json:"ownerType,omitempty"`
	OwnerID     string          `json:"ownerId,omitempty"`
	Nodes       []NodeDoc       `json:"nodes"`
	Connections []ConnectionDoc `json:"connections,omitempty"`
}

type NodeDoc struct {
	ID         string       `json:"id,omitempty"`
	NodeType   string       `json:"nodeType"`
	Category   string       `json:"category,omitempty"`
	Position   *PositionDoc `json:"position,omitempty"`
	Comment    string       `json:"comment,omitempty"`
	Properties props.Bag    `json:"properties"`
}

type PositionDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ConnectionDoc struct {
	ID           string `json:"id,omitempty"`
	FromNodeID   string `json:"fromNodeId"`
	FromPortName string `json:"fromPortName,omitempty"`
	ToNodeID     string `json:"toNodeId"`
	ToPortName   string `json:"toPortName,omitempty"`
}

// Marshal writes the definition in its canonical stored form.
func Marshal(def *mscript.Definition) ([]byte, error) {
	if def == nil {
		return nil, fmt.Errorf("jsonscript: nil definition")
	}
	return json.Marshal(docFromDefinition(def))
}

// MarshalIndent writes the same form indented, for humans and diffs.
func MarshalIndent(def *mscript.Definition) ([]byte, error) {
	if def == nil {
		return nil, fmt.Errorf("jsonscript: nil definition")
	}
	return json.MarshalIndent(docFromDefinition(def), "", "  ")
}

// Unmarshal parses a stored document back into a definition.
func Unmarshal(data []byte) (*mscript.Definition, error) {
	var doc ScriptDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("jsonscript: %w", err)
	}
	return definitionFromDoc(doc)
}

func docFromDefinition(def *mscript.Definition) ScriptDoc {
	doc := ScriptDoc{
		Name:    def.Name,
		OwnerID: def.OwnerID,
	}
	if !def.ID.IsZero() {
		doc.ID = def.ID.String()
	}
	if def.OwnerType != 0 {
		doc.OwnerType = def.OwnerType.String()
	}

	doc.Nodes = make([]NodeDoc, 0, len(def.Nodes))
	for i := range def.Nodes {
		node := &def.Nodes[i]
		nd := NodeDoc{
			ID:         node.ID.String(),
			NodeType:   node.TypeID,
			Comment:    node.Comment,
			Properties: node.Properties,
		}
		if node.Category != mnodedef.CategoryUnspecified {
			nd.Category = node.Category.String()
		}
		if node.PositionX != 0 || node.PositionY != 0 {
			nd.Position = &PositionDoc{X: node.PositionX, Y: node.PositionY}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, conn := range def.Connections {
		doc.Connections = append(doc.Connections, ConnectionDoc{
			ID:           conn.ID.String(),
			FromNodeID:   conn.FromNodeID.String(),
			FromPortName: conn.FromPort,
			ToNodeID:     conn.ToNodeID.String(),
			ToPortName:   conn.ToPort,
		})
	}
	return doc
}

func definitionFromDoc(doc ScriptDoc) (*mscript.Definition, error) {
	def := &mscript.Definition{
		ID:      mintID(doc.ID),
		Name:    doc.Name,
		OwnerID: doc.OwnerID,
	}
	if owner := strings.TrimSpace(doc.OwnerType); owner != "" {
		mask, ok := mnodedef.ParseOwner(owner)
		if !ok {
			return nil, fmt.Errorf("jsonscript: unknown ownerType %q", doc.OwnerType)
		}
		def.OwnerType = mask
	}

	// Hand-edited documents may carry short node ids like "start".
	// Whatever spelling a node declares, connections that use the same
	// spelling must land on that node, so ids resolve through one table.
	ids := make(map[string]idwrap.IDWrap, len(doc.Nodes))
	def.Nodes = make([]mscript.Node, 0, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		id := mintID(nd.ID)
		if nd.ID != "" {
			ids[nd.ID] = id
		}
		node := mscript.Node{
			ID:         id,
			TypeID:     nd.NodeType,
			Category:   mnodedef.ParseCategory(nd.Category),
			Comment:    nd.Comment,
			Properties: nd.Properties,
		}
		if nd.Position != nil {
			node.PositionX = nd.Position.X
			node.PositionY = nd.Position.Y
		}
		def.Nodes = append(def.Nodes, node)
	}

	for _, cd := range doc.Connections {
		def.Connections = append(def.Connections, mscript.Connection{
			ID:         mintID(cd.ID),
			FromNodeID: resolveID(ids, cd.FromNodeID),
			FromPort:   cd.FromPortName,
			ToNodeID:   resolveID(ids, cd.ToNodeID),
			ToPort:     cd.ToPortName,
		})
	}
	return def, nil
}

// mintID parses the stored id, minting a fresh one for blank or
// unparseable spellings.
func mintID(s string) idwrap.IDWrap {
	if strings.TrimSpace(s) == "" {
		return idwrap.NewNow()
	}
	id, err := idwrap.NewText(s)
	if err != nil {
		return idwrap.NewNow()
	}
	return id
}

// resolveID maps a connection endpoint through the node id table first,
// so short hand-written ids keep pointing at their node after the node
// itself was minted a real id.
func resolveID(ids map[string]idwrap.IDWrap, s string) idwrap.IDWrap {
	if id, ok := ids[s]; ok {
		return id
	}
	return mintID(s)
}
