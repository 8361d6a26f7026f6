package play

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/engine"
	"github.com/questwright/scriptgraph/pkg/translate/yamlscript"
)

// handleVerb maps a player command onto world mutations and engine
// events. The scripts decide what happens; the verbs only say where.
func (m Model) handleVerb(input string) []rawLine {
	verb, arg, _ := strings.Cut(input, " ")
	verb = strings.ToLower(verb)
	arg = strings.TrimSpace(arg)

	switch verb {
	case "look", "l":
		return m.doLook()
	case "talk", "t":
		return m.doTalk(arg)
	case "go", "enter":
		return m.doGo(arg)
	case "open":
		return m.doOpen(arg)
	case "close":
		return m.doClose(arg)
	case "unlock":
		return m.doUnlock(arg)
	case "take", "get":
		return m.doTake(arg)
	case "drop":
		return m.doDrop(arg)
	case "use":
		return m.doUse(arg)
	case "sleep":
		return m.doSleep()
	case "wait", "z":
		return m.doWait()
	default:
		return say(kindError, "You don't know how to do that. Type /help for commands.")
	}
}

func (m Model) doLook() []rawLine {
	w := m.eng.World()
	var lines []rawLine
	if room, ok := w.RoomByID(w.Player.Room); ok {
		lines = m.fire(mnodedef.OwnerRoom, room.ID, registry.TypeOnLook, nil)
	}
	return append(lines, describeRoom(w)...)
}

func (m Model) doTalk(arg string) []rawLine {
	w := m.eng.World()
	if arg == "" {
		return say(kindError, "Talk to whom?")
	}
	npc := resolveNpc(w, arg)
	if npc == nil || npc.Room != w.Player.Room || !npc.Visible {
		return say(kindError, "There is no one like that here.")
	}
	if npc.IsCorpse {
		return say(kindSystem, npc.Name+" is past talking.")
	}
	return m.fire(mnodedef.OwnerNpc, npc.ID, registry.TypeOnTalk, nil)
}

func (m Model) doGo(arg string) []rawLine {
	w := m.eng.World()
	if arg == "" {
		return say(kindError, "Go where?")
	}
	dest := resolveRoom(w, arg)
	if dest == nil {
		return say(kindError, "You know of no such place.")
	}
	if dest.ID == w.Player.Room {
		return say(kindSystem, "You are already there.")
	}
	door := connectingDoor(w, w.Player.Room, dest.ID)
	if door == nil {
		return say(kindError, "You can't get there from here.")
	}
	if door.Locked {
		return say(kindError, "The "+doorName(door)+" is locked.")
	}

	var lines []rawLine
	if !door.Open {
		door.Open = true
		lines = append(lines, rawLine{text: "You open the " + doorName(door) + ".", kind: kindMessage})
	}
	lines = append(lines, m.fire(mnodedef.OwnerRoom, w.Player.Room, registry.TypeOnExit, nil)...)
	w.Player.Room = dest.ID
	lines = append(lines, m.fire(mnodedef.OwnerRoom, dest.ID, registry.TypeOnEnter, nil)...)
	return append(lines, describeRoom(w)...)
}

func (m Model) doOpen(arg string) []rawLine {
	w := m.eng.World()
	door := resolveDoor(w, arg)
	if door == nil {
		return say(kindError, "You see no such door.")
	}
	if door.Locked {
		return say(kindError, "The "+doorName(door)+" is locked.")
	}
	if door.Open {
		return say(kindSystem, "It is already open.")
	}
	door.Open = true
	lines := say(kindMessage, "You open the "+doorName(door)+".")
	return append(lines, m.fire(mnodedef.OwnerDoor, door.ID, registry.TypeOnOpen, nil)...)
}

func (m Model) doClose(arg string) []rawLine {
	w := m.eng.World()
	door := resolveDoor(w, arg)
	if door == nil {
		return say(kindError, "You see no such door.")
	}
	if !door.Open {
		return say(kindSystem, "It is already closed.")
	}
	door.Open = false
	lines := say(kindMessage, "You close the "+doorName(door)+".")
	return append(lines, m.fire(mnodedef.OwnerDoor, door.ID, registry.TypeOnClose, nil)...)
}

func (m Model) doUnlock(arg string) []rawLine {
	w := m.eng.World()
	door := resolveDoor(w, arg)
	if door == nil {
		return say(kindError, "You see no such door.")
	}
	if !door.Locked {
		return say(kindSystem, "It is not locked.")
	}
	if door.KeyItem != "" && !w.HasItem(door.KeyItem) {
		return say(kindError, "You have nothing that fits the lock.")
	}
	door.Locked = false
	lines := say(kindMessage, "You unlock the "+doorName(door)+".")
	return append(lines, m.fire(mnodedef.OwnerDoor, door.ID, registry.TypeOnUnlock, nil)...)
}

func (m Model) doTake(arg string) []rawLine {
	w := m.eng.World()
	if arg == "" {
		return say(kindError, "Take what?")
	}
	obj := resolveObject(w, arg)
	if obj == nil || obj.Room != w.Player.Room || !obj.Visible {
		return say(kindError, "You don't see that here.")
	}
	if !obj.Takeable {
		return say(kindError, "The "+obj.Name+" won't budge.")
	}
	liftObject(w, obj)
	w.Player.Inventory = append(w.Player.Inventory, obj.ID)
	lines := say(kindMessage, "You take the "+obj.Name+".")
	return append(lines, m.fire(mnodedef.OwnerGameObject, obj.ID, registry.TypeOnTake, nil)...)
}

func (m Model) doDrop(arg string) []rawLine {
	w := m.eng.World()
	if arg == "" {
		return say(kindError, "Drop what?")
	}
	obj := resolveObject(w, arg)
	if obj == nil || !w.HasItem(obj.ID) {
		return say(kindError, "You are not carrying that.")
	}
	w.RemoveItem(obj.ID)
	obj.Room = w.Player.Room
	if room, ok := w.RoomByID(w.Player.Room); ok {
		room.Objects = append(room.Objects, obj.ID)
	}
	lines := say(kindMessage, "You drop the "+obj.Name+".")
	return append(lines, m.fire(mnodedef.OwnerGameObject, obj.ID, registry.TypeOnDrop, nil)...)
}

func (m Model) doUse(arg string) []rawLine {
	w := m.eng.World()
	if arg == "" {
		return say(kindError, "Use what?")
	}
	itemArg, targetArg := splitUse(arg)
	obj := resolveObject(w, itemArg)
	if obj == nil || (!w.HasItem(obj.ID) && obj.Room != w.Player.Room) {
		return say(kindError, "You don't have that.")
	}
	if targetArg == "" {
		return m.fire(mnodedef.OwnerGameObject, obj.ID, registry.TypeOnUse, nil)
	}
	target := targetArg
	if tObj := resolveObject(w, targetArg); tObj != nil {
		target = tObj.ID
	}
	params := map[string]any{engine.ParamTarget: target}
	return m.fire(mnodedef.OwnerGameObject, obj.ID, registry.TypeOnUseWith, params)
}

func (m Model) doSleep() []rawLine {
	return m.fire(mnodedef.OwnerGame, "", registry.TypeOnSleep, nil)
}

func (m Model) doWait() []rawLine {
	if err := m.eng.AdvanceTurns(context.Background(), 1); err != nil {
		return append(say(kindSystem, "Time passes."), errLine(err))
	}
	return say(kindSystem, "Time passes.")
}

// fire triggers one event and folds any engine error into the output.
func (m Model) fire(owner mnodedef.OwnerMask, ownerID, typeID string, params map[string]any) []rawLine {
	if err := m.eng.TriggerEvent(context.Background(), owner, ownerID, typeID, params); err != nil {
		return []rawLine{errLine(err)}
	}
	return nil
}

// splitUse separates "use key on chest" style input into item and
// target halves.
func splitUse(arg string) (item, target string) {
	words := strings.Fields(arg)
	for i, word := range words {
		if i == 0 {
			continue
		}
		if lw := strings.ToLower(word); lw == "on" || lw == "with" {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " ")
		}
	}
	return arg, ""
}

// describeRoom renders what the player can see from where they stand.
func describeRoom(w *mgame.World) []rawLine {
	room, ok := w.RoomByID(w.Player.Room)
	if !ok {
		return say(kindSystem, "You are nowhere in particular.")
	}
	lines := say(kindRoom, "You are in "+nameOf(room.Name, room.ID)+".")
	if !room.Illuminated {
		return append(lines, rawLine{text: "It is too dark to see anything.", kind: kindDetail})
	}

	var seen []string
	for _, id := range room.Objects {
		if obj, ok := w.ObjectByID(id); ok && obj.Visible {
			seen = append(seen, obj.Name)
		}
	}
	if len(seen) > 0 {
		lines = append(lines, rawLine{text: "You see: " + strings.Join(seen, ", "), kind: kindDetail})
	}

	var folk []string
	for _, id := range room.Npcs {
		if npc, ok := w.NpcByID(id); ok && npc.Visible && !npc.IsCorpse {
			folk = append(folk, npc.Name)
		}
	}
	if len(folk) > 0 {
		lines = append(lines, rawLine{text: "Also here: " + strings.Join(folk, ", "), kind: kindDetail})
	}

	if ways := waysOut(w, room.ID); len(ways) > 0 {
		lines = append(lines, rawLine{text: "Ways out: " + strings.Join(ways, ", "), kind: kindExits})
	}
	return lines
}

// connectingDoor finds a door joining the two rooms, lowest id first
// so repeated moves always use the same one.
func connectingDoor(w *mgame.World, from, to string) *mgame.Door {
	ids := make([]string, 0, len(w.Doors))
	for id := range w.Doors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		door := w.Doors[id]
		if (door.Rooms[0] == from && door.Rooms[1] == to) ||
			(door.Rooms[0] == to && door.Rooms[1] == from) {
			return door
		}
	}
	return nil
}

// waysOut lists doors touching the room, sorted by door id so the
// order is stable across renders.
func waysOut(w *mgame.World, roomID string) []string {
	ids := make([]string, 0, len(w.Doors))
	for id := range w.Doors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var ways []string
	for _, id := range ids {
		door := w.Doors[id]
		var other string
		switch roomID {
		case door.Rooms[0]:
			other = door.Rooms[1]
		case door.Rooms[1]:
			other = door.Rooms[0]
		default:
			continue
		}
		dest := other
		if room, ok := w.RoomByID(other); ok {
			dest = nameOf(room.Name, room.ID)
		}
		switch {
		case door.Locked:
			ways = append(ways, dest+" (locked)")
		case !door.Open:
			ways = append(ways, dest+" (closed)")
		default:
			ways = append(ways, dest)
		}
	}
	return ways
}

// handleMeta dispatches slash commands. Reports whether to quit.
func (m *Model) handleMeta(input string) ([]rawLine, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	rest := strings.TrimSpace(strings.TrimPrefix(input, cmd))

	switch cmd {
	case "/quit", "/exit":
		return say(kindSystem, "Goodbye."), true
	case "/help":
		return helpLines(), false
	case "/state":
		return stateLines(m.eng.World()), false
	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return say(kindSystem, "Trace output enabled."), false
		}
		return say(kindSystem, "Trace output disabled."), false
	case "/fire":
		return m.metaFire(rest), false
	default:
		return say(kindError, "Unknown command: "+cmd+". Type /help."), false
	}
}

// metaFire triggers an arbitrary event, for poking at a bundle from
// inside a session: /fire OnSleep, /fire OnTalk Npc:monk.
func (m *Model) metaFire(rest string) []rawLine {
	typeID, ownerRef, _ := strings.Cut(rest, " ")
	if typeID == "" {
		return say(kindError, "Usage: /fire <EventType> [Owner:id]")
	}
	owner, ownerID, err := yamlscript.ParseOwnerRef(strings.TrimSpace(ownerRef))
	if err != nil {
		return errLines(err)
	}
	lines := say(kindSystem, "Firing "+typeID+".")
	return append(lines, m.fire(owner, ownerID, typeID, nil)...)
}

func helpLines() []rawLine {
	text := []string{
		"look            describe your surroundings",
		"talk <npc>      strike up a conversation",
		"go <room>       move through a connecting door",
		"open / close / unlock <door>",
		"take / drop <object>",
		"use <object> [on <target>]",
		"sleep, wait     let time pass",
		"1..9            answer an open question",
		"Enter           pass one turn",
		"/state /trace /fire /quit",
	}
	lines := make([]rawLine, 0, len(text))
	for _, t := range text {
		lines = append(lines, rawLine{text: t, kind: kindSystem})
	}
	return lines
}

// stateLines is a flat snapshot of world state for debugging a bundle.
func stateLines(w *mgame.World) []rawLine {
	var lines []rawLine
	add := func(format string, args ...any) {
		lines = append(lines, rawLine{text: fmt.Sprintf(format, args...), kind: kindSystem})
	}

	add("turn %d, %.0fs elapsed", w.Turn, w.Seconds)
	add("room: %s", w.Player.Room)
	add("health %d/%d, money %d", w.EffectiveStat(mgame.StatHealth), w.EffectiveStat(mgame.StatMaxHealth), w.Player.Money)
	if len(w.Player.Inventory) > 0 {
		add("carrying: %s", strings.Join(w.Player.Inventory, ", "))
	}
	if len(w.Player.Abilities) > 0 {
		add("abilities: %s", strings.Join(w.Player.Abilities, ", "))
	}

	var set []string
	for name, v := range w.Flags {
		if v {
			set = append(set, name)
		}
	}
	sort.Strings(set)
	if len(set) > 0 {
		add("flags: %s", strings.Join(set, ", "))
	}

	names := make([]string, 0, len(w.Counters))
	for name := range w.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		add("counter %s = %d", name, w.Counters[name])
	}

	qids := make([]string, 0, len(w.Quests))
	for id := range w.Quests {
		qids = append(qids, id)
	}
	sort.Strings(qids)
	for _, id := range qids {
		q := w.Quests[id]
		add("quest %s: %s", nameOf(q.Name, q.ID), q.Status)
	}

	if n := len(w.Modifiers); n > 0 {
		add("%d modifier(s) active", n)
	}
	if w.Conversation != nil {
		add("a conversation is waiting for an answer")
	}
	return lines
}

func resolveRoom(w *mgame.World, arg string) *mgame.Room {
	if room, ok := w.RoomByID(arg); ok {
		return room
	}
	for _, room := range w.Rooms {
		if strings.EqualFold(room.Name, arg) {
			return room
		}
	}
	return nil
}

func resolveNpc(w *mgame.World, arg string) *mgame.Npc {
	if npc, ok := w.NpcByID(arg); ok {
		return npc
	}
	for _, npc := range w.Npcs {
		if strings.EqualFold(npc.Name, arg) {
			return npc
		}
	}
	return nil
}

func resolveObject(w *mgame.World, arg string) *mgame.GameObject {
	if obj, ok := w.ObjectByID(arg); ok {
		return obj
	}
	for _, obj := range w.Objects {
		if strings.EqualFold(obj.Name, arg) {
			return obj
		}
	}
	return nil
}

func resolveDoor(w *mgame.World, arg string) *mgame.Door {
	if arg == "" {
		return nil
	}
	if door, ok := w.DoorByID(arg); ok {
		return door
	}
	for _, door := range w.Doors {
		if strings.EqualFold(door.Name, arg) {
			return door
		}
	}
	return nil
}

// liftObject pulls an object out of its room's list and clears its
// placement, the inverse of doDrop.
func liftObject(w *mgame.World, obj *mgame.GameObject) {
	if room, ok := w.RoomByID(obj.Room); ok {
		kept := room.Objects[:0]
		for _, id := range room.Objects {
			if id != obj.ID {
				kept = append(kept, id)
			}
		}
		room.Objects = kept
	}
	obj.Room = ""
}

func doorName(d *mgame.Door) string {
	return nameOf(d.Name, d.ID)
}

func nameOf(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func say(kind lineKind, text string) []rawLine {
	return []rawLine{{text: text, kind: kind}}
}

func errLine(err error) rawLine {
	return rawLine{text: err.Error(), kind: kindError}
}

func errLines(err error) []rawLine {
	return []rawLine{errLine(err)}
}
