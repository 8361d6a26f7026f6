// Package mgame models the live game world the interpreter reads and
// writes: the player, NPCs, rooms, objects, doors, quests, flags,
// counters and timed stat modifiers. The world is the only mutable
// state in the system; script graphs stay immutable snapshots.
package mgame

import (
	"time"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
)

// Stat names used across nodes and modifiers. Stats live in a name
// indexed block so node properties can reference them by string.
const (
	StatHealth    = "health"
	StatMaxHealth = "maxhealth"
	StatMana      = "mana"
	StatMaxMana   = "maxmana"
	StatHunger    = "hunger"
	StatThirst    = "thirst"
	StatEnergy    = "energy"
	StatSanity    = "sanity"
	StatSleep     = "sleep"
)

type Player struct {
	Stats     map[string]int
	Money     int
	Inventory []string
	Equipped  map[string]string // slot -> item id
	Abilities []string
	Room      string
}

type Npc struct {
	ID            string
	Name          string
	Room          string
	Visible       bool
	Patrols       bool
	FollowsPlayer bool
	IsCorpse      bool
	MagicEnabled  bool
	Money         int
	ShopInventory []string
	Stats         map[string]int
}

type Room struct {
	ID          string
	Name        string
	Visible     bool
	Illuminated bool
	Objects     []string
	Npcs        []string
}

type GameObject struct {
	ID       string
	Name     string
	Room     string
	Visible  bool
	Takeable bool
}

type Door struct {
	ID      string
	Name    string
	Open    bool
	Locked  bool
	KeyItem string
	Rooms   [2]string
}

type QuestStatus int8

const (
	QuestNotStarted QuestStatus = iota
	QuestActive
	QuestCompleted
	QuestFailed
)

func (s QuestStatus) String() string {
	switch s {
	case QuestActive:
		return "Active"
	case QuestCompleted:
		return "Completed"
	case QuestFailed:
		return "Failed"
	}
	return "NotStarted"
}

type Quest struct {
	ID        string
	Name      string
	MainQuest bool
	Status    QuestStatus
}

// Features are the world-level toggles gating which node kinds the
// registry offers. The interpreter honors nodes regardless; filtering is
// an authoring concern.
type Features struct {
	BasicNeeds bool
	Magic      bool
}

const (
	FeatureBasicNeeds = "basicneeds"
	FeatureMagic      = "magic"
)

// Enabled implements mnodedef.FeatureContext.
func (f Features) Enabled(feature string) bool {
	switch feature {
	case "":
		return true
	case FeatureBasicNeeds:
		return f.BasicNeeds
	case FeatureMagic:
		return f.Magic
	}
	return false
}

// World aggregates all mutable game state plus the loaded script
// snapshots and any suspended continuations. It is owned by the single
// game-turn thread; no internal locking.
type World struct {
	Player   Player
	Npcs     map[string]*Npc
	Rooms    map[string]*Room
	Objects  map[string]*GameObject
	Doors    map[string]*Door
	Quests   map[string]*Quest
	Flags    map[string]bool
	Counters map[string]int

	Modifiers []Modifier
	Features  Features

	// Logical clock: turn count and accumulated game seconds. Delay
	// durations and Seconds modifiers measure against these, never
	// against the wall clock.
	Turn    int
	Seconds float64

	Scripts []*mscript.Definition

	// Suspension state owned by the interpreter.
	Delays       []PendingDelay
	Conversation *PendingChoice

	// Per-node latch state for Once and Gate flow nodes.
	Latches map[idwrap.IDWrap]bool
}

func NewWorld(features Features) *World {
	return &World{
		Player: Player{
			Stats:    map[string]int{StatHealth: 10, StatMaxHealth: 10},
			Equipped: map[string]string{},
		},
		Npcs:     map[string]*Npc{},
		Rooms:    map[string]*Room{},
		Objects:  map[string]*GameObject{},
		Doors:    map[string]*Door{},
		Quests:   map[string]*Quest{},
		Flags:    map[string]bool{},
		Counters: map[string]int{},
		Features: features,
		Latches:  map[idwrap.IDWrap]bool{},
	}
}

// Flag returns the flag value; unset flags read false.
func (w *World) Flag(name string) bool {
	return w.Flags[name]
}

// Counter returns the counter value; unset counters read 0.
func (w *World) Counter(name string) int {
	return w.Counters[name]
}

// Quest looks up a quest by id. Callers treat a miss as "no-op", never
// as an error.
func (w *World) Quest(id string) (*Quest, bool) {
	q, ok := w.Quests[id]
	return q, ok
}

func (w *World) NpcByID(id string) (*Npc, bool) {
	n, ok := w.Npcs[id]
	return n, ok
}

func (w *World) RoomByID(id string) (*Room, bool) {
	r, ok := w.Rooms[id]
	return r, ok
}

func (w *World) ObjectByID(id string) (*GameObject, bool) {
	o, ok := w.Objects[id]
	return o, ok
}

func (w *World) DoorByID(id string) (*Door, bool) {
	d, ok := w.Doors[id]
	return d, ok
}

// HasItem reports whether the player carries the item.
func (w *World) HasItem(itemID string) bool {
	for _, id := range w.Player.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// RemoveItem drops the first matching inventory entry; reports whether
// anything was removed.
func (w *World) RemoveItem(itemID string) bool {
	for i, id := range w.Player.Inventory {
		if id == itemID {
			w.Player.Inventory = append(w.Player.Inventory[:i], w.Player.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// HasAbility reports whether the player knows the ability.
func (w *World) HasAbility(name string) bool {
	for _, a := range w.Player.Abilities {
		if a == name {
			return true
		}
	}
	return false
}

// Stat returns the raw (unmodified) player stat; unknown names read 0.
func (w *World) Stat(name string) int {
	return w.Player.Stats[name]
}

// SetStat writes the raw player stat.
func (w *World) SetStat(name string, value int) {
	if w.Player.Stats == nil {
		w.Player.Stats = map[string]int{}
	}
	w.Player.Stats[name] = value
}

// EffectiveStat is the raw stat plus every unexpired modifier delta for
// that stat.
func (w *World) EffectiveStat(name string) int {
	v := w.Player.Stats[name]
	for i := range w.Modifiers {
		m := &w.Modifiers[i]
		if m.Stat == name && !m.IsExpired(w.Turn, w.Seconds) {
			v += m.Delta
		}
	}
	return v
}

// AllMainQuestsCompleted reports whether every quest flagged main-quest
// is Completed; worlds without any main quest never complete.
func (w *World) AllMainQuestsCompleted() bool {
	seen := false
	for _, q := range w.Quests {
		if !q.MainQuest {
			continue
		}
		seen = true
		if q.Status != QuestCompleted {
			return false
		}
	}
	return seen
}

// AdvanceTurns moves the logical clock n turns forward, decrementing
// turn-scoped modifiers and dropping expired ones. Delay resumption is
// the interpreter's job; it wraps this call.
func (w *World) AdvanceTurns(n int) {
	for ; n > 0; n-- {
		w.Turn++
		for i := range w.Modifiers {
			m := &w.Modifiers[i]
			if m.Kind == DurationTurns && m.Remaining > 0 {
				m.Remaining--
			}
		}
		w.PruneModifiers()
	}
}

// AdvanceSeconds moves the game-seconds clock forward and drops expired
// second-scoped modifiers.
func (w *World) AdvanceSeconds(d time.Duration) {
	w.Seconds += d.Seconds()
	w.PruneModifiers()
}

// PruneModifiers drops every modifier expired at the current clock.
func (w *World) PruneModifiers() {
	kept := w.Modifiers[:0]
	for _, m := range w.Modifiers {
		if !m.IsExpired(w.Turn, w.Seconds) {
			kept = append(kept, m)
		}
	}
	w.Modifiers = kept
}

// RemoveModifier drops every modifier with the given name; reports
// whether any matched.
func (w *World) RemoveModifier(name string) bool {
	removed := false
	kept := w.Modifiers[:0]
	for _, m := range w.Modifiers {
		if m.Name == name {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	w.Modifiers = kept
	return removed
}

// ScriptsFor returns the loaded definitions attached to the given owner.
func (w *World) ScriptsFor(owner mnodedef.OwnerMask, ownerID string) []*mscript.Definition {
	var out []*mscript.Definition
	for _, s := range w.Scripts {
		if s.OwnerType == owner && s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out
}
