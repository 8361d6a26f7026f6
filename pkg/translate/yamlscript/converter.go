package yamlscript

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
)

// fileDoc is the decode-side document. The world section stays a raw
// map here and goes through mapstructure afterwards; the scripts
// section decodes strictly so property order survives.
type fileDoc struct {
	Name    string         `yaml:"name"`
	World   map[string]any `yaml:"world"`
	Scripts []scriptEntry  `yaml:"scripts"`
}

// Parse reads a bundle document.
func Parse(data []byte) (*Bundle, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlscript: %w", err)
	}

	bundle := &Bundle{Name: doc.Name}

	if len(doc.World) > 0 {
		world := &WorldDoc{}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           world,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("yamlscript: %w", err)
		}
		if err := dec.Decode(doc.World); err != nil {
			return nil, fmt.Errorf("yamlscript: world seed: %w", err)
		}
		bundle.World = world
	}

	catalog := registry.New()
	for i := range doc.Scripts {
		def, err := definitionFromEntry(&doc.Scripts[i], catalog)
		if err != nil {
			return nil, err
		}
		bundle.Scripts = append(bundle.Scripts, def)
	}
	return bundle, nil
}

func definitionFromEntry(entry *scriptEntry, catalog *registry.Registry) (*mscript.Definition, error) {
	owner, ownerID, err := ParseOwnerRef(entry.Owner)
	if err != nil {
		return nil, fmt.Errorf("yamlscript: script %q: %w", entry.Name, err)
	}
	def := &mscript.Definition{
		ID:        mintID(entry.ID),
		Name:      entry.Name,
		OwnerType: owner,
		OwnerID:   ownerID,
	}

	// Authors write short node ids like "start"; connections naming the
	// same spelling must land on the same minted id.
	ids := make(map[string]idwrap.IDWrap, len(entry.Nodes))
	for _, ne := range entry.Nodes {
		id := mintID(ne.ID)
		if ne.ID != "" {
			ids[ne.ID] = id
		}
		node := mscript.Node{
			ID:         id,
			TypeID:     ne.Type,
			Comment:    ne.Comment,
			Properties: ne.With,
		}
		if d, ok := catalog.Get(ne.Type); ok {
			node.Category = d.Category
		}
		if len(ne.At) == 2 {
			node.PositionX, node.PositionY = ne.At[0], ne.At[1]
		}
		def.Nodes = append(def.Nodes, node)
	}

	for _, ce := range entry.Connections {
		out := ce.Out
		if out == "" {
			out = registry.PortExec
		}
		in := ce.In
		if in == "" {
			in = registry.PortExec
		}
		def.Connections = append(def.Connections, mscript.Connection{
			ID:         idwrap.NewNow(),
			FromNodeID: resolveID(ids, ce.From),
			FromPort:   out,
			ToNodeID:   resolveID(ids, ce.To),
			ToPort:     in,
		})
	}
	return def, nil
}

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

func resolveID(ids map[string]idwrap.IDWrap, s string) idwrap.IDWrap {
	if id, ok := ids[s]; ok {
		return id
	}
	return mintID(s)
}

// BuildWorld constructs a fresh world from the seed and attaches every
// script in the bundle.
func (b *Bundle) BuildWorld() *mgame.World {
	var features mgame.Features
	if b.World != nil {
		for _, f := range b.World.Features {
			switch strings.ToLower(strings.TrimSpace(f)) {
			case mgame.FeatureBasicNeeds:
				features.BasicNeeds = true
			case mgame.FeatureMagic:
				features.Magic = true
			}
		}
	}
	w := mgame.NewWorld(features)
	if b.World != nil {
		seedWorld(w, b.World)
	}
	w.Scripts = append(w.Scripts, b.Scripts...)
	return w
}

func seedWorld(w *mgame.World, doc *WorldDoc) {
	for _, rd := range doc.Rooms {
		w.Rooms[rd.ID] = &mgame.Room{
			ID:          rd.ID,
			Name:        nameOrID(rd.Name, rd.ID),
			Visible:     boolOr(rd.Visible, true),
			Illuminated: boolOr(rd.Illuminated, true),
		}
	}
	for _, nd := range doc.Npcs {
		w.Npcs[nd.ID] = &mgame.Npc{
			ID:            nd.ID,
			Name:          nameOrID(nd.Name, nd.ID),
			Room:          nd.Room,
			Visible:       boolOr(nd.Visible, true),
			Patrols:       nd.Patrols,
			FollowsPlayer: nd.Follows,
			IsCorpse:      nd.Corpse,
			MagicEnabled:  nd.Magic,
			Money:         nd.Money,
			ShopInventory: nd.Shop,
			Stats:         nd.Stats,
		}
		if room, ok := w.Rooms[nd.Room]; ok {
			room.Npcs = append(room.Npcs, nd.ID)
		}
	}
	for _, od := range doc.Objects {
		w.Objects[od.ID] = &mgame.GameObject{
			ID:       od.ID,
			Name:     nameOrID(od.Name, od.ID),
			Room:     od.Room,
			Visible:  boolOr(od.Visible, true),
			Takeable: od.Takeable,
		}
		if room, ok := w.Rooms[od.Room]; ok {
			room.Objects = append(room.Objects, od.ID)
		}
	}
	for _, dd := range doc.Doors {
		door := &mgame.Door{
			ID:      dd.ID,
			Name:    nameOrID(dd.Name, dd.ID),
			Open:    dd.Open,
			Locked:  dd.Locked,
			KeyItem: dd.Key,
		}
		if len(dd.Rooms) > 0 {
			door.Rooms[0] = dd.Rooms[0]
		}
		if len(dd.Rooms) > 1 {
			door.Rooms[1] = dd.Rooms[1]
		}
		w.Doors[dd.ID] = door
	}
	for _, qd := range doc.Quests {
		w.Quests[qd.ID] = &mgame.Quest{
			ID:        qd.ID,
			Name:      nameOrID(qd.Name, qd.ID),
			MainQuest: qd.Main,
			Status:    parseQuestStatus(qd.Status),
		}
	}
	for name, v := range doc.Flags {
		w.Flags[name] = v
	}
	for name, v := range doc.Counters {
		w.Counters[name] = v
	}

	p := doc.Player
	if p == nil {
		return
	}
	if p.Room != "" {
		w.Player.Room = p.Room
	}
	w.Player.Money = p.Money
	for name, v := range p.Stats {
		w.Player.Stats[strings.ToLower(name)] = v
	}
	for _, item := range p.Inventory {
		if w.HasItem(item) {
			continue
		}
		w.Player.Inventory = append(w.Player.Inventory, item)
		// A seeded object cannot be in a room and in the pack at once.
		if obj, ok := w.Objects[item]; ok && obj.Room != "" {
			if room, ok := w.Rooms[obj.Room]; ok {
				kept := room.Objects[:0]
				for _, id := range room.Objects {
					if id != item {
						kept = append(kept, id)
					}
				}
				room.Objects = kept
			}
			obj.Room = ""
		}
	}
	for slot, item := range p.Equipped {
		w.Player.Equipped[slot] = item
	}
	w.Player.Abilities = append(w.Player.Abilities, p.Abilities...)
}

func nameOrID(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
