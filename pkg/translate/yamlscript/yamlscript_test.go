package yamlscript_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/engine"
	"github.com/questwright/scriptgraph/pkg/script/scripttest"
	"github.com/questwright/scriptgraph/pkg/script/stream"
	"github.com/questwright/scriptgraph/pkg/translate/yamlscript"
)

const abbeyBundle = `
name: the abbey
world:
  features: [magic]
  player:
    room: cell
    money: "25"
    stats: {strength: 3}
    inventory: [torch]
  rooms:
    - id: cell
      name: The Cell
      illuminated: false
    - id: corridor
  npcs:
    - id: monk
      name: Brother Aldous
      room: corridor
      money: 10
  objects:
    - id: torch
      name: Torch
      room: cell
      takeable: true
    - id: altar
      room: corridor
      takeable: false
  doors:
    - id: cell_door
      rooms: [cell, corridor]
      locked: true
      key: rusty_key
  quests:
    - id: escape
      name: Escape the Abbey
      main: true
      status: Active
  flags: {lights_out: true}
  counters: {gold: 10}
scripts:
  - name: greeter
    owner: Npc:monk
    nodes:
      - id: start
        type: OnTalk
      - id: line
        type: Say
        with:
          Speaker: Brother Aldous
          Text: Quiet now.
    connections:
      - from: start
        to: line
`

func TestParseBundleBuildsWorld(t *testing.T) {
	bundle, err := yamlscript.Parse([]byte(abbeyBundle))
	require.NoError(t, err)
	assert.Equal(t, "the abbey", bundle.Name)
	require.NotNil(t, bundle.World)
	require.Len(t, bundle.Scripts, 1)

	w := bundle.BuildWorld()
	assert.True(t, w.Features.Magic)
	assert.False(t, w.Features.BasicNeeds)

	assert.Equal(t, "cell", w.Player.Room)
	assert.Equal(t, 25, w.Player.Money, "quoted scalars decode weakly")
	assert.Equal(t, 3, w.Stat("strength"))
	assert.Equal(t, 10, w.Player.Stats[mgame.StatHealth], "seed merges over defaults")

	cell, ok := w.RoomByID("cell")
	require.True(t, ok)
	assert.Equal(t, "The Cell", cell.Name)
	assert.False(t, cell.Illuminated)
	assert.True(t, cell.Visible, "omitted visibility defaults true")

	corridor, ok := w.RoomByID("corridor")
	require.True(t, ok)
	assert.Equal(t, "corridor", corridor.Name, "unnamed rooms fall back to their id")
	assert.Contains(t, corridor.Npcs, "monk")
	assert.Contains(t, corridor.Objects, "altar")

	door, ok := w.DoorByID("cell_door")
	require.True(t, ok)
	assert.True(t, door.Locked)
	assert.Equal(t, "rusty_key", door.KeyItem)
	assert.Equal(t, [2]string{"cell", "corridor"}, door.Rooms)

	quest, ok := w.Quest("escape")
	require.True(t, ok)
	assert.True(t, quest.MainQuest)
	assert.Equal(t, mgame.QuestActive, quest.Status)

	assert.True(t, w.Flag("lights_out"))
	assert.Equal(t, 10, w.Counter("gold"))
	require.Len(t, w.Scripts, 1)
}

func TestSeededInventoryLiftsObjects(t *testing.T) {
	bundle, err := yamlscript.Parse([]byte(abbeyBundle))
	require.NoError(t, err)

	w := bundle.BuildWorld()
	assert.True(t, w.HasItem("torch"))

	torch, ok := w.ObjectByID("torch")
	require.True(t, ok)
	assert.Empty(t, torch.Room)

	cell, _ := w.RoomByID("cell")
	assert.NotContains(t, cell.Objects, "torch")
}

func TestScriptGraphWiresUp(t *testing.T) {
	bundle, err := yamlscript.Parse([]byte(abbeyBundle))
	require.NoError(t, err)

	def := bundle.Scripts[0]
	assert.Equal(t, "greeter", def.Name)
	assert.Equal(t, mnodedef.OwnerNpc, def.OwnerType)
	assert.Equal(t, "monk", def.OwnerID)

	require.Len(t, def.Nodes, 2)
	assert.Equal(t, mnodedef.CategoryEvent, def.Nodes[0].Category)
	assert.Equal(t, mnodedef.CategoryDialogue, def.Nodes[1].Category)
	assert.False(t, def.Nodes[0].ID.IsZero())

	require.Len(t, def.Connections, 1)
	conn := def.Connections[0]
	assert.Equal(t, def.Nodes[0].ID, conn.FromNodeID)
	assert.Equal(t, def.Nodes[1].ID, conn.ToNodeID)
	assert.Equal(t, registry.PortExec, conn.FromPort, "omitted ports default to Exec")
	assert.Equal(t, registry.PortExec, conn.ToPort)
}

func TestBundleRunsThroughEngine(t *testing.T) {
	bundle, err := yamlscript.Parse([]byte(abbeyBundle))
	require.NoError(t, err)

	w := bundle.BuildWorld()
	var rec stream.Recorder
	eng := engine.New(registry.New(), w, engine.WithEmitter(rec.Emitter()))

	require.NoError(t, eng.TriggerEvent(context.Background(), mnodedef.OwnerNpc, "monk", registry.TypeOnTalk, nil))
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, stream.Line{Speaker: "Brother Aldous", Text: "Quiet now."}, rec.Lines[0])
}

func TestDataEdgePortsSurviveRoundTrip(t *testing.T) {
	b := scripttest.New("ledger")
	start := b.Node(registry.TypeOnGameStart)
	gold := b.Node(registry.TypeGetCounter, "Counter", "gold")
	format := b.Node(registry.TypeFormatText, "Template", "You carry {0} gold.")
	show := b.Node(registry.TypeShowMessage)
	b.Exec(start, registry.PortExec, show)
	b.Wire(gold, registry.PortValue, format, registry.ValuePort(0))
	b.Wire(format, registry.PortResult, show, "Message")

	data, err := yamlscript.Marshal(&yamlscript.Bundle{Scripts: []*mscript.Definition{b.Def}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "out: Value")
	assert.Contains(t, string(data), "in: Value0")

	back, err := yamlscript.Parse(data)
	require.NoError(t, err)
	require.Len(t, back.Scripts, 1)
	got := back.Scripts[0]
	assert.Equal(t, b.Def.ID, got.ID)
	require.Len(t, got.Connections, 3)

	ports := map[string]string{}
	for _, c := range got.Connections {
		ports[c.FromPort] = c.ToPort
	}
	assert.Equal(t, "Value0", ports[registry.PortValue])
	assert.Equal(t, "Message", ports[registry.PortResult])
}

func TestPropertySpellingAndOrderSurvive(t *testing.T) {
	b := scripttest.New("spelling")
	b.Node(registry.TypeShowMessage, "MeSsAgE", "hello")

	data, err := yamlscript.Marshal(&yamlscript.Bundle{Scripts: []*mscript.Definition{b.Def}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "MeSsAgE: hello")

	back, err := yamlscript.Parse(data)
	require.NoError(t, err)
	node := &back.Scripts[0].Nodes[0]
	assert.Equal(t, "hello", node.Properties.Get("message").AsString())
}

func TestUnknownOwnerKindFails(t *testing.T) {
	doc := `
scripts:
  - name: bad
    owner: Starship:enterprise
    nodes: []
`
	_, err := yamlscript.Parse([]byte(doc))
	require.Error(t, err)
}

func TestBareGameOwnerParses(t *testing.T) {
	owner, id, err := yamlscript.ParseOwnerRef("Game")
	require.NoError(t, err)
	assert.Equal(t, mnodedef.OwnerGame, owner)
	assert.Equal(t, "game", id)

	_, _, err = yamlscript.ParseOwnerRef("Room")
	require.Error(t, err, "non-game owners need an id")
}
