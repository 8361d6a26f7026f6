// Package yamlscript reads and writes adventure bundles: many script
// definitions plus an optional world seed in one hand-editable YAML
// document. Bundles are the CLI's interchange format; the canonical
// single-definition form lives in jsonscript.
package yamlscript

import (
	"fmt"
	"strings"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/props"
)

// Bundle is a parsed adventure document.
type Bundle struct {
	Name    string
	World   *WorldDoc
	Scripts []*mscript.Definition
}

// WorldDoc seeds the game state a bundle plays in. The section is
// hand-authored, so it decodes through mapstructure with weak typing: a
// quoted "10" still counts as ten.
type WorldDoc struct {
	Features []string        `yaml:"features,omitempty,flow" mapstructure:"features"`
	Player   *PlayerDoc      `yaml:"player,omitempty" mapstructure:"player"`
	Rooms    []RoomDoc       `yaml:"rooms,omitempty" mapstructure:"rooms"`
	Npcs     []NpcDoc        `yaml:"npcs,omitempty" mapstructure:"npcs"`
	Objects  []ObjectDoc     `yaml:"objects,omitempty" mapstructure:"objects"`
	Doors    []DoorDoc       `yaml:"doors,omitempty" mapstructure:"doors"`
	Quests   []QuestDoc      `yaml:"quests,omitempty" mapstructure:"quests"`
	Flags    map[string]bool `yaml:"flags,omitempty" mapstructure:"flags"`
	Counters map[string]int  `yaml:"counters,omitempty" mapstructure:"counters"`
}

type PlayerDoc struct {
	Room      string            `yaml:"room,omitempty" mapstructure:"room"`
	Money     int               `yaml:"money,omitempty" mapstructure:"money"`
	Stats     map[string]int    `yaml:"stats,omitempty" mapstructure:"stats"`
	Inventory []string          `yaml:"inventory,omitempty,flow" mapstructure:"inventory"`
	Equipped  map[string]string `yaml:"equipped,omitempty" mapstructure:"equipped"`
	Abilities []string          `yaml:"abilities,omitempty,flow" mapstructure:"abilities"`
}

// Visibility style booleans are pointers so an omitted key can default
// to true while an explicit false still sticks.
type RoomDoc struct {
	ID          string `yaml:"id" mapstructure:"id"`
	Name        string `yaml:"name,omitempty" mapstructure:"name"`
	Visible     *bool  `yaml:"visible,omitempty" mapstructure:"visible"`
	Illuminated *bool  `yaml:"illuminated,omitempty" mapstructure:"illuminated"`
}

type NpcDoc struct {
	ID      string         `yaml:"id" mapstructure:"id"`
	Name    string         `yaml:"name,omitempty" mapstructure:"name"`
	Room    string         `yaml:"room,omitempty" mapstructure:"room"`
	Visible *bool          `yaml:"visible,omitempty" mapstructure:"visible"`
	Patrols bool           `yaml:"patrols,omitempty" mapstructure:"patrols"`
	Follows bool           `yaml:"follows,omitempty" mapstructure:"follows"`
	Corpse  bool           `yaml:"corpse,omitempty" mapstructure:"corpse"`
	Magic   bool           `yaml:"magic,omitempty" mapstructure:"magic"`
	Money   int            `yaml:"money,omitempty" mapstructure:"money"`
	Shop    []string       `yaml:"shop,omitempty,flow" mapstructure:"shop"`
	Stats   map[string]int `yaml:"stats,omitempty" mapstructure:"stats"`
}

type ObjectDoc struct {
	ID       string `yaml:"id" mapstructure:"id"`
	Name     string `yaml:"name,omitempty" mapstructure:"name"`
	Room     string `yaml:"room,omitempty" mapstructure:"room"`
	Visible  *bool  `yaml:"visible,omitempty" mapstructure:"visible"`
	Takeable bool   `yaml:"takeable,omitempty" mapstructure:"takeable"`
}

type DoorDoc struct {
	ID     string   `yaml:"id" mapstructure:"id"`
	Name   string   `yaml:"name,omitempty" mapstructure:"name"`
	Rooms  []string `yaml:"rooms,omitempty,flow" mapstructure:"rooms"`
	Open   bool     `yaml:"open,omitempty" mapstructure:"open"`
	Locked bool     `yaml:"locked,omitempty" mapstructure:"locked"`
	Key    string   `yaml:"key,omitempty" mapstructure:"key"`
}

type QuestDoc struct {
	ID     string `yaml:"id" mapstructure:"id"`
	Name   string `yaml:"name,omitempty" mapstructure:"name"`
	Main   bool   `yaml:"main,omitempty" mapstructure:"main"`
	Status string `yaml:"status,omitempty" mapstructure:"status"`
}

// scriptEntry is the YAML shape of one definition. Unlike the world
// seed it decodes strictly through yaml so property maps keep their
// authored order and spellings.
type scriptEntry struct {
	ID          string      `yaml:"id,omitempty"`
	Name        string      `yaml:"name"`
	Owner       string      `yaml:"owner,omitempty"`
	Nodes       []nodeEntry `yaml:"nodes"`
	Connections []connEntry `yaml:"connections,omitempty"`
}

type nodeEntry struct {
	ID      string    `yaml:"id,omitempty"`
	Type    string    `yaml:"type"`
	Comment string    `yaml:"comment,omitempty"`
	At      []float64 `yaml:"at,omitempty,flow"`
	With    props.Bag `yaml:"with,omitempty"`
}

// connEntry wires from:out -> to:in. Both port names default to "Exec",
// the overwhelmingly common hop.
type connEntry struct {
	From string `yaml:"from"`
	Out  string `yaml:"out,omitempty"`
	To   string `yaml:"to"`
	In   string `yaml:"in,omitempty"`
}

// ParseOwnerRef reads an owner reference like "Npc:monk". A bare
// "Game", or no owner at all, binds to the game singleton.
func ParseOwnerRef(ref string) (mnodedef.OwnerMask, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return mnodedef.OwnerGame, "game", nil
	}
	kind, id, _ := strings.Cut(ref, ":")
	mask, ok := mnodedef.ParseOwner(kind)
	if !ok {
		return 0, "", fmt.Errorf("unknown owner kind %q", kind)
	}
	id = strings.TrimSpace(id)
	if mask == mnodedef.OwnerGame {
		if id == "" {
			id = "game"
		}
		return mask, id, nil
	}
	if id == "" {
		return 0, "", fmt.Errorf("owner %s needs an id", kind)
	}
	return mask, id, nil
}

// FormatOwnerRef is the inverse of ParseOwnerRef.
func FormatOwnerRef(owner mnodedef.OwnerMask, id string) string {
	if owner == 0 || owner == mnodedef.OwnerGame {
		return "Game"
	}
	return owner.String() + ":" + id
}

func parseQuestStatus(s string) mgame.QuestStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return mgame.QuestActive
	case "completed":
		return mgame.QuestCompleted
	case "failed":
		return mgame.QuestFailed
	}
	return mgame.QuestNotStarted
}
