package engine

import (
	"strings"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
)

// evalCondition answers one Condition node. Missing entities and failed
// expressions evaluate false; a condition never aborts a walk.
func (rc *runCtx) evalCondition(node *mscript.Node, kind *mnodedef.Definition) bool {
	world := rc.eng.world

	switch node.TypeID {
	case registry.TypeHasFlag:
		return world.Flag(rc.propString(node, kind, "FlagName"))

	case registry.TypeCounterCompare:
		name := rc.propString(node, kind, "CounterName")
		op := rc.propString(node, kind, "Operator")
		want := rc.propValue(node, kind, "Value").AsInt()
		return compareInts(op, int64(world.Counter(name)), want)

	case registry.TypeHasItem:
		return world.HasItem(rc.propString(node, kind, "ItemId"))

	case registry.TypeHasEquipped:
		id := rc.propString(node, kind, "ItemId")
		if id == "" {
			return false
		}
		for _, equipped := range world.Player.Equipped {
			if equipped == id {
				return true
			}
		}
		return false

	case registry.TypeStatCompare:
		stat := rc.statName(node, kind, "Stat")
		op := rc.propString(node, kind, "Operator")
		want := rc.propValue(node, kind, "Value").AsInt()
		return compareInts(op, int64(world.EffectiveStat(stat)), want)

	case registry.TypeHasMoney:
		return int64(world.Player.Money) >= rc.propValue(node, kind, "Amount").AsInt()

	case registry.TypeQuestStatus:
		want := rc.propString(node, kind, "Status")
		status := questStatusOf(world, rc.propString(node, kind, "QuestId"))
		return strings.EqualFold(status, want)

	case registry.TypeNpcVisible:
		npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId"))
		return ok && npc.Visible

	case registry.TypeNpcAlive:
		npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId"))
		return ok && !npc.IsCorpse

	case registry.TypeDoorOpen:
		door, ok := world.DoorByID(rc.propString(node, kind, "DoorId"))
		return ok && door.Open

	case registry.TypeDoorLocked:
		door, ok := world.DoorByID(rc.propString(node, kind, "DoorId"))
		return ok && door.Locked

	case registry.TypePlayerInRoom:
		id := rc.propString(node, kind, "RoomId")
		return id != "" && world.Player.Room == id

	case registry.TypeRandomChance:
		percent := rc.propValue(node, kind, "Percent").AsInt()
		if percent <= 0 {
			return false
		}
		if percent >= 100 {
			return true
		}
		return rc.eng.rng.Int64N(100) < percent

	case registry.TypeExpression:
		src := rc.propString(node, kind, "Expression")
		if src == "" {
			return false
		}
		result, err := rc.exprEnv(node, kind).EvalBool(src)
		if err != nil {
			return false
		}
		return result

	case registry.TypeHasAbility:
		return world.HasAbility(rc.propString(node, kind, "Ability"))

	default:
		return false
	}
}

// propString resolves a property and trims it; blank reads empty.
func (rc *runCtx) propString(node *mscript.Node, kind *mnodedef.Definition, name string) string {
	return strings.TrimSpace(rc.propValue(node, kind, name).AsString())
}

// questStatusOf reads a quest's status name; unknown quests read as
// NotStarted, matching the zero-value reads of flags and counters.
func questStatusOf(world *mgame.World, id string) string {
	if q, ok := world.Quest(id); ok {
		return q.Status.String()
	}
	return mgame.QuestNotStarted.String()
}
