package play

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/engine"
	"github.com/questwright/scriptgraph/pkg/script/scripttest"
	"github.com/questwright/scriptgraph/pkg/script/stream"
)

// testWorld is a two-room layout: the player starts in the cell, a
// door leads to the corridor where a monk waits.
func testWorld() *mgame.World {
	w := mgame.NewWorld(mgame.Features{})
	w.Player.Room = "cell"
	w.Rooms["cell"] = &mgame.Room{ID: "cell", Name: "The Cell", Visible: true, Illuminated: true, Objects: []string{"torch", "altar"}}
	w.Rooms["corridor"] = &mgame.Room{ID: "corridor", Name: "Corridor", Visible: true, Illuminated: true, Npcs: []string{"monk"}}
	w.Doors["cell_door"] = &mgame.Door{ID: "cell_door", Name: "cell door", Open: true, Rooms: [2]string{"cell", "corridor"}}
	w.Npcs["monk"] = &mgame.Npc{ID: "monk", Name: "Brother Aldous", Room: "corridor", Visible: true}
	w.Objects["torch"] = &mgame.GameObject{ID: "torch", Name: "Torch", Room: "cell", Visible: true, Takeable: true}
	w.Objects["altar"] = &mgame.GameObject{ID: "altar", Name: "Altar", Room: "cell", Visible: true}
	return w
}

func testModel(t *testing.T, w *mgame.World) (Model, *stream.Recorder) {
	t.Helper()
	rec := &stream.Recorder{}
	traces := &traceLog{}
	eng := engine.New(registry.New(), w,
		engine.WithEmitter(rec.Emitter()),
		engine.WithTrace(traces.hook))
	return newModel("", eng, traces), rec
}

func textsOf(lines []rawLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.text)
	}
	return out
}

func TestHistoryNavigation(t *testing.T) {
	h := newHistory(10)
	h.push("look")
	h.push("talk monk")
	h.push("go corridor")

	got, ok := h.prev()
	require.True(t, ok)
	assert.Equal(t, "go corridor", got)
	got, _ = h.prev()
	assert.Equal(t, "talk monk", got)
	got, _ = h.prev()
	assert.Equal(t, "look", got)
	got, _ = h.prev()
	assert.Equal(t, "look", got, "prev sticks at the oldest entry")

	got, ok = h.next()
	require.True(t, ok)
	assert.Equal(t, "talk monk", got)
	got, _ = h.next()
	assert.Equal(t, "go corridor", got)
	_, ok = h.next()
	assert.False(t, ok, "past the newest entry input is fresh again")
	assert.Equal(t, -1, h.cursor)
}

func TestHistoryCollapsesDuplicates(t *testing.T) {
	h := newHistory(10)
	h.push("wait")
	h.push("wait")
	h.push("wait")
	assert.Len(t, h.entries, 1)
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := newHistory(2)
	h.push("a")
	h.push("b")
	h.push("c")
	assert.Equal(t, []string{"b", "c"}, h.entries)
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "short", wordWrap("short", 20))
	assert.Equal(t, "one two\nthree\nfour", wordWrap("one two three four", 9))
	assert.Equal(t, "a b", wordWrap("a  b", 3), "whitespace runs collapse")
	assert.Equal(t, "extraordinary", wordWrap("extraordinary", 5), "long words stay whole")
}

func TestSplitUse(t *testing.T) {
	item, target := splitUse("key on chest")
	assert.Equal(t, "key", item)
	assert.Equal(t, "chest", target)

	item, target = splitUse("rusty key with north door")
	assert.Equal(t, "rusty key", item)
	assert.Equal(t, "north door", target)

	item, target = splitUse("torch")
	assert.Equal(t, "torch", item)
	assert.Empty(t, target)

	item, target = splitUse("on fire")
	assert.Equal(t, "on fire", item, "a leading preposition never splits")
	assert.Empty(t, target)
}

func TestDescribeRoom(t *testing.T) {
	w := testWorld()
	texts := textsOf(describeRoom(w))
	assert.Contains(t, texts, "You are in The Cell.")
	assert.Contains(t, texts, "You see: Torch, Altar")
	assert.Contains(t, texts, "Ways out: Corridor")

	w.Player.Room = "corridor"
	texts = textsOf(describeRoom(w))
	assert.Contains(t, texts, "Also here: Brother Aldous")
	assert.Contains(t, texts, "Ways out: The Cell")
}

func TestDescribeRoomInTheDark(t *testing.T) {
	w := testWorld()
	w.Rooms["cell"].Illuminated = false
	lines := describeRoom(w)
	require.Len(t, lines, 2)
	assert.Equal(t, "It is too dark to see anything.", lines[1].text)
}

func TestDescribeRoomMarksDoorState(t *testing.T) {
	w := testWorld()
	w.Doors["cell_door"].Open = false
	assert.Contains(t, textsOf(describeRoom(w)), "Ways out: Corridor (closed)")

	w.Doors["cell_door"].Locked = true
	assert.Contains(t, textsOf(describeRoom(w)), "Ways out: Corridor (locked)")
}

func TestGoMovesThroughDoor(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	texts := textsOf(m.doGo("corridor"))
	assert.Equal(t, "corridor", w.Player.Room)
	assert.Contains(t, texts, "You are in Corridor.")
}

func TestGoOpensClosedDoor(t *testing.T) {
	w := testWorld()
	w.Doors["cell_door"].Open = false
	m, _ := testModel(t, w)

	texts := textsOf(m.doGo("corridor"))
	assert.Contains(t, texts, "You open the cell door.")
	assert.True(t, w.Doors["cell_door"].Open)
	assert.Equal(t, "corridor", w.Player.Room)
}

func TestGoBlockedByLockedDoor(t *testing.T) {
	w := testWorld()
	w.Doors["cell_door"].Locked = true
	m, _ := testModel(t, w)

	texts := textsOf(m.doGo("corridor"))
	assert.Contains(t, texts, "The cell door is locked.")
	assert.Equal(t, "cell", w.Player.Room)
}

func TestGoRejectsUnreachableRooms(t *testing.T) {
	w := testWorld()
	w.Rooms["crypt"] = &mgame.Room{ID: "crypt", Name: "Crypt", Visible: true, Illuminated: true}
	m, _ := testModel(t, w)

	assert.Contains(t, textsOf(m.doGo("attic")), "You know of no such place.")
	assert.Contains(t, textsOf(m.doGo("crypt")), "You can't get there from here.")
	assert.Contains(t, textsOf(m.doGo("cell")), "You are already there.")
}

func TestTalkFiresScript(t *testing.T) {
	w := testWorld()
	w.Player.Room = "corridor"
	b := scripttest.New("greeter").Owned(mnodedef.OwnerNpc, "monk")
	hail := b.Node(registry.TypeOnTalk)
	line := b.Node(registry.TypeSay, "Speaker", "Brother Aldous", "Text", "Quiet now.")
	b.Chain(hail, line)
	w.Scripts = append(w.Scripts, b.Def)

	m, rec := testModel(t, w)
	m.doTalk("monk")
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, stream.Line{Speaker: "Brother Aldous", Text: "Quiet now."}, rec.Lines[0])

	m.doTalk("brother aldous")
	assert.Len(t, rec.Lines, 2, "names resolve case-insensitively")
}

func TestTalkGuards(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	assert.Contains(t, textsOf(m.doTalk("monk")), "There is no one like that here.", "monk is in another room")

	w.Player.Room = "corridor"
	w.Npcs["monk"].IsCorpse = true
	assert.Contains(t, textsOf(m.doTalk("monk")), "Brother Aldous is past talking.")
}

func TestTakeAndDrop(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	texts := textsOf(m.doTake("torch"))
	assert.Contains(t, texts, "You take the Torch.")
	assert.True(t, w.HasItem("torch"))
	assert.Empty(t, w.Objects["torch"].Room)
	assert.NotContains(t, w.Rooms["cell"].Objects, "torch")

	assert.Contains(t, textsOf(m.doTake("torch")), "You don't see that here.")

	texts = textsOf(m.doDrop("torch"))
	assert.Contains(t, texts, "You drop the Torch.")
	assert.False(t, w.HasItem("torch"))
	assert.Equal(t, "cell", w.Objects["torch"].Room)
	assert.Contains(t, w.Rooms["cell"].Objects, "torch")

	assert.Contains(t, textsOf(m.doDrop("torch")), "You are not carrying that.")
}

func TestTakeRefusesFixedObjects(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)
	assert.Contains(t, textsOf(m.doTake("altar")), "The Altar won't budge.")
}

func TestUnlockNeedsKey(t *testing.T) {
	w := testWorld()
	door := w.Doors["cell_door"]
	door.Open = false
	door.Locked = true
	door.KeyItem = "rusty_key"
	m, _ := testModel(t, w)

	assert.Contains(t, textsOf(m.doUnlock("cell door")), "You have nothing that fits the lock.")
	assert.True(t, door.Locked)

	w.Player.Inventory = append(w.Player.Inventory, "rusty_key")
	assert.Contains(t, textsOf(m.doUnlock("cell door")), "You unlock the cell door.")
	assert.False(t, door.Locked)

	assert.Contains(t, textsOf(m.doUnlock("cell door")), "It is not locked.")
}

func TestOpenAndClose(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	assert.Contains(t, textsOf(m.doOpen("cell door")), "It is already open.")

	assert.Contains(t, textsOf(m.doClose("cell door")), "You close the cell door.")
	assert.False(t, w.Doors["cell_door"].Open)
	assert.Contains(t, textsOf(m.doClose("cell door")), "It is already closed.")

	w.Doors["cell_door"].Locked = true
	assert.Contains(t, textsOf(m.doOpen("cell door")), "The cell door is locked.")
}

func TestUseRoutesTargets(t *testing.T) {
	w := testWorld()
	b := scripttest.New("striker").Owned(mnodedef.OwnerGameObject, "torch")
	use := b.Node(registry.TypeOnUse)
	lit := b.Node(registry.TypeShowMessage, "Message", "The torch sputters alight.")
	b.Chain(use, lit)
	w.Scripts = append(w.Scripts, b.Def)

	m, rec := testModel(t, w)
	m.doUse("torch")
	assert.Contains(t, rec.Messages, "The torch sputters alight.")

	assert.Contains(t, textsOf(m.doUse("crowbar")), "You don't have that.")
}

func TestUnknownVerb(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)
	assert.Contains(t, textsOf(m.handleVerb("dance wildly")), "You don't know how to do that. Type /help for commands.")
}

func TestMetaQuitAndUnknown(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	lines, quit := m.handleMeta("/quit")
	assert.True(t, quit)
	assert.Contains(t, textsOf(lines), "Goodbye.")

	lines, quit = m.handleMeta("/dance")
	assert.False(t, quit)
	assert.Contains(t, textsOf(lines), "Unknown command: /dance. Type /help.")
}

func TestMetaTraceToggle(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	lines, _ := m.handleMeta("/trace")
	assert.True(t, m.trace)
	assert.Contains(t, textsOf(lines), "Trace output enabled.")

	lines, _ = m.handleMeta("/trace")
	assert.False(t, m.trace)
	assert.Contains(t, textsOf(lines), "Trace output disabled.")
}

func TestMetaState(t *testing.T) {
	w := testWorld()
	w.Flags["lights_out"] = true
	w.Counters["gold"] = 7
	m, _ := testModel(t, w)

	lines, _ := m.handleMeta("/state")
	texts := textsOf(lines)
	assert.Contains(t, texts, "room: cell")
	assert.Contains(t, texts, "health 10/10, money 0")
	assert.Contains(t, texts, "flags: lights_out")
	assert.Contains(t, texts, "counter gold = 7")
}

func TestMetaFire(t *testing.T) {
	w := testWorld()
	b := scripttest.New("wake")
	start := b.Node(registry.TypeOnGameStart)
	msg := b.Node(registry.TypeShowMessage, "Message", "A bell tolls.")
	b.Chain(start, msg)
	w.Scripts = append(w.Scripts, b.Def)

	m, rec := testModel(t, w)
	lines, _ := m.handleMeta("/fire OnGameStart")
	assert.Contains(t, textsOf(lines), "Firing OnGameStart.")
	assert.Contains(t, rec.Messages, "A bell tolls.")

	lines, _ = m.handleMeta("/fire OnTalk Starship:x")
	require.NotEmpty(t, lines)
	assert.Equal(t, kindError, lines[0].kind)

	lines, _ = m.handleMeta("/fire")
	assert.Contains(t, textsOf(lines), "Usage: /fire <EventType> [Owner:id]")
}

func TestAnswerWithoutConversation(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)
	assert.Contains(t, textsOf(m.answer(1)), "There is nothing to choose right now.")
}

func TestConversationAnswerResumes(t *testing.T) {
	w := testWorld()
	w.Player.Room = "corridor"
	b := scripttest.New("offer").Owned(mnodedef.OwnerNpc, "monk")
	hail := b.Node(registry.TypeOnTalk)
	ask := b.Node(registry.TypePlayerChoice,
		registry.OptionProp(0), "Pray",
		registry.OptionProp(1), "Leave")
	thanks := b.Node(registry.TypeSay, "Speaker", "Brother Aldous", "Text", "Kneel, then.")
	b.Chain(hail, ask)
	b.Exec(ask, registry.ThenPort(0), thanks)
	w.Scripts = append(w.Scripts, b.Def)

	m, rec := testModel(t, w)
	m.doTalk("monk")
	require.Len(t, rec.Choices, 1)
	assert.Equal(t, []string{"Pray", "Leave"}, rec.Choices[0].Options)
	require.NotNil(t, w.Conversation)

	m.answer(1)
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, "Kneel, then.", rec.Lines[0].Text)
	assert.Nil(t, w.Conversation)
}

func TestAppendEventRendersKinds(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)
	start := len(m.rawLines)

	m = m.appendEvent(stream.Event{Kind: stream.EventMessage, Text: "hello"})
	m = m.appendEvent(stream.Event{Kind: stream.EventDialogue, Line: stream.Line{Speaker: "Aldous", Text: "hush"}})
	m = m.appendEvent(stream.Event{Kind: stream.EventOptions, Choice: stream.Choice{NpcID: "monk", Options: []string{"Pray", "Leave"}}})
	m = m.appendEvent(stream.Event{Kind: stream.EventCompleted})

	texts := textsOf(m.rawLines[start:])
	assert.Equal(t, []string{
		"hello",
		"Aldous: hush",
		"Brother Aldous waits for your answer.",
		"  1) Pray",
		"  2) Leave",
		"The adventure is complete.",
	}, texts)
	assert.Equal(t, kindDialogue, m.rawLines[start+1].kind)
	assert.Equal(t, kindChoice, m.rawLines[start+2].kind)
}

func TestAppendTurnEchoesInput(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)
	start := len(m.rawLines)

	m = m.appendTurn("look", say(kindMessage, "sunlight"))
	require.Len(t, m.rawLines, start+3)
	assert.Empty(t, m.rawLines[start].text, "turns start with a separator")
	assert.Equal(t, "> look", m.rawLines[start+1].text)
	assert.True(t, m.rawLines[start+1].isInput)
	assert.Equal(t, "sunlight", m.rawLines[start+2].text)
}

func TestHandleEnterPassesTurn(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	model, _ := m.handleEnter()
	m = model.(Model)
	assert.Equal(t, 1, w.Turn)
	assert.Contains(t, textsOf(m.rawLines), "Time passes.")
}

func TestHandleEnterRunsVerbs(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	m.input.SetValue("look")
	model, _ := m.handleEnter()
	m = model.(Model)

	texts := textsOf(m.rawLines)
	assert.Contains(t, texts, "> look")
	assert.Contains(t, texts, "You are in The Cell.")
	got, ok := m.history.prev()
	require.True(t, ok)
	assert.Equal(t, "look", got)
}

func TestHandleEnterNumberWithoutChoice(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	m.input.SetValue("2")
	model, _ := m.handleEnter()
	m = model.(Model)
	assert.Contains(t, textsOf(m.rawLines), "There is nothing to choose right now.")
}

func TestTakeTraces(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	m.traces.hook(engine.TraceEvent{TypeID: registry.TypeOnTalk, Visit: 1})
	assert.Empty(t, m.takeTraces(), "traces drop while the toggle is off")

	m.trace = true
	m.traces.hook(engine.TraceEvent{TypeID: registry.TypeSay, Visit: 1})
	lines := m.takeTraces()
	require.Len(t, lines, 1)
	assert.Equal(t, "[trace] Say visit 1", lines[0].text)
	assert.Equal(t, kindTrace, lines[0].kind)
}

func TestBootstrapOpensTheSession(t *testing.T) {
	w := testWorld()
	b := scripttest.New("dawn")
	start := b.Node(registry.TypeOnGameStart)
	msg := b.Node(registry.TypeShowMessage, "Message", "Bells echo through the abbey.")
	b.Chain(start, msg)
	w.Scripts = append(w.Scripts, b.Def)

	m, rec := testModel(t, w)
	got := m.bootstrap()()
	bm, ok := got.(bootMsg)
	require.True(t, ok)
	assert.Contains(t, rec.Messages, "Bells echo through the abbey.")
	assert.Contains(t, textsOf(bm.lines), "You are in The Cell.")
}

func TestRenderStatusBar(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)
	m.title = "The Abbey"
	m.width = 60

	bar := m.renderStatusBar()
	assert.Contains(t, bar, "The Abbey")
	assert.Contains(t, bar, "The Cell")
	assert.Contains(t, bar, "HP 10/10")
	assert.Contains(t, bar, "T:0")
}

func TestStatusBarShowsPendingChoice(t *testing.T) {
	w := testWorld()
	w.Conversation = &mgame.PendingChoice{Options: []string{"Pray", "Leave"}}
	m, _ := testModel(t, w)
	m.width = 60

	assert.Contains(t, m.renderStatusBar(), "choose 1-2")
}

func TestViewBeforeReadyAndAfterQuit(t *testing.T) {
	w := testWorld()
	m, _ := testModel(t, w)

	assert.Equal(t, "Loading...", m.View())
	m.quitting = true
	assert.Empty(t, m.View())
}

func TestNewModelSeedsIntro(t *testing.T) {
	w := testWorld()
	rec := &stream.Recorder{}
	eng := engine.New(registry.New(), w, engine.WithEmitter(rec.Emitter()))
	m := newModel("The Abbey", eng, &traceLog{})

	require.NotEmpty(t, m.rawLines)
	assert.Equal(t, "The Abbey", m.rawLines[0].text)
	assert.Equal(t, kindTitle, m.rawLines[0].kind)
	assert.True(t, strings.HasPrefix(m.rawLines[1].text, "Type /help"))
}
