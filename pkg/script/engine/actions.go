package engine

import (
	"strings"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
)

// runAction applies one Action node's side effect. Entity references
// that resolve to nothing make the action a no-op; only collaborator
// service failures abort the walk.
func (rc *runCtx) runAction(node *mscript.Node, kind *mnodedef.Definition) error {
	world := rc.eng.world

	switch node.TypeID {
	case registry.TypeShowMessage:
		if msg, ok := rc.inputString(node, kind, "Message"); ok {
			rc.eng.emit.Message(msg)
		}

	case registry.TypeSetFlag:
		if name := rc.propString(node, kind, "FlagName"); name != "" {
			rc.eng.setFlag(name, rc.inputBool(node, kind, "Value"))
		}

	case registry.TypeToggleFlag:
		if name := rc.propString(node, kind, "FlagName"); name != "" {
			rc.eng.setFlag(name, !world.Flag(name))
		}

	case registry.TypeSetCounter:
		if name := rc.propString(node, kind, "CounterName"); name != "" {
			rc.eng.setCounter(name, int(rc.inputInt(node, kind, "Value")))
		}

	case registry.TypeIncrementCounter:
		if name := rc.propString(node, kind, "CounterName"); name != "" {
			rc.eng.setCounter(name, world.Counter(name)+int(rc.inputInt(node, kind, "Amount")))
		}

	case registry.TypeDecrementCounter:
		if name := rc.propString(node, kind, "CounterName"); name != "" {
			rc.eng.setCounter(name, world.Counter(name)-int(rc.inputInt(node, kind, "Amount")))
		}

	case registry.TypeGiveItem:
		rc.eng.giveItem(rc.propString(node, kind, "ItemId"))

	case registry.TypeTakeItem:
		rc.eng.takeItem(rc.propString(node, kind, "ItemId"))

	case registry.TypeEquipItem:
		id := rc.propString(node, kind, "ItemId")
		slot := rc.propString(node, kind, "Slot")
		if id != "" && slot != "" && world.HasItem(id) {
			if world.Player.Equipped == nil {
				world.Player.Equipped = make(map[string]string)
			}
			world.Player.Equipped[slot] = id
		}

	case registry.TypeUnequipItem:
		delete(world.Player.Equipped, rc.propString(node, kind, "Slot"))

	case registry.TypeModifyStat:
		if stat := rc.statName(node, kind, "Stat"); stat != "" {
			delta := int(rc.inputInt(node, kind, "Delta"))
			rc.eng.applyStat(stat, world.Stat(stat)+delta)
		}

	case registry.TypeSetStat:
		if stat := rc.statName(node, kind, "Stat"); stat != "" {
			rc.eng.applyStat(stat, int(rc.inputInt(node, kind, "Value")))
		}

	case registry.TypeGiveMoney:
		if amount := rc.inputInt(node, kind, "Amount"); amount > 0 {
			world.Player.Money += int(amount)
		}

	case registry.TypeTakeMoney:
		if amount := rc.inputInt(node, kind, "Amount"); amount > 0 {
			world.Player.Money -= int(amount)
			if world.Player.Money < 0 {
				world.Player.Money = 0
			}
		}

	case registry.TypeApplyModifier:
		name := rc.propString(node, kind, "Name")
		stat := rc.statName(node, kind, "Stat")
		if name == "" || stat == "" {
			return nil
		}
		world.Modifiers = append(world.Modifiers, mgame.Modifier{
			Name:      name,
			Stat:      stat,
			Delta:     int(rc.propValue(node, kind, "Delta").AsInt()),
			Kind:      mgame.ParseDurationKind(rc.propString(node, kind, "DurationKind")),
			Remaining: int(rc.propValue(node, kind, "Duration").AsInt()),
			AppliedAt: world.Seconds,
		})

	case registry.TypeRemoveModifier:
		if name := rc.propString(node, kind, "Name"); name != "" {
			world.RemoveModifier(name)
		}

	case registry.TypeTeleportPlayer:
		if id := rc.propString(node, kind, "RoomId"); id != "" {
			if _, ok := world.RoomByID(id); ok {
				world.Player.Room = id
			}
		}

	case registry.TypeSetRoomVisible:
		if room, ok := world.RoomByID(rc.propString(node, kind, "RoomId")); ok {
			room.Visible = rc.propValue(node, kind, "Visible").AsBool()
		}

	case registry.TypeSetRoomIlluminated:
		if room, ok := world.RoomByID(rc.propString(node, kind, "RoomId")); ok {
			room.Illuminated = rc.propValue(node, kind, "Illuminated").AsBool()
		}

	case registry.TypeSetNpcVisible:
		if npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId")); ok {
			npc.Visible = rc.propValue(node, kind, "Visible").AsBool()
		}

	case registry.TypeSetNpcPatrol:
		if npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId")); ok {
			npc.Patrols = rc.propValue(node, kind, "Patrols").AsBool()
		}

	case registry.TypeSetNpcFollow:
		if npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId")); ok {
			npc.FollowsPlayer = rc.propValue(node, kind, "Follows").AsBool()
		}

	case registry.TypeSetNpcMoney:
		if npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId")); ok {
			npc.Money = int(rc.propValue(node, kind, "Amount").AsInt())
		}

	case registry.TypeSetNpcMagic:
		if npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId")); ok {
			npc.MagicEnabled = rc.propValue(node, kind, "Enabled").AsBool()
		}

	case registry.TypeGiveNpcItem:
		npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId"))
		if !ok {
			return nil
		}
		id := rc.propString(node, kind, "ItemId")
		if _, ok := world.ObjectByID(id); !ok {
			return nil
		}
		for _, held := range npc.ShopInventory {
			if held == id {
				return nil
			}
		}
		npc.ShopInventory = append(npc.ShopInventory, id)

	case registry.TypeMoveObject:
		obj, ok := world.ObjectByID(rc.propString(node, kind, "ObjectId"))
		if !ok {
			return nil
		}
		roomID := rc.propString(node, kind, "RoomId")
		if _, ok := world.RoomByID(roomID); !ok {
			return nil
		}
		rc.eng.placeObject(obj, roomID)

	case registry.TypeRemoveObject:
		if obj, ok := world.ObjectByID(rc.propString(node, kind, "ObjectId")); ok {
			rc.eng.placeObject(obj, "")
			delete(world.Objects, obj.ID)
		}

	case registry.TypeOpenDoor:
		if door, ok := world.DoorByID(rc.propString(node, kind, "DoorId")); ok && !door.Locked {
			door.Open = true
		}

	case registry.TypeCloseDoor:
		if door, ok := world.DoorByID(rc.propString(node, kind, "DoorId")); ok {
			door.Open = false
		}

	case registry.TypeLockDoor:
		if door, ok := world.DoorByID(rc.propString(node, kind, "DoorId")); ok {
			door.Locked = true
			door.Open = false
		}

	case registry.TypeUnlockDoor:
		if door, ok := world.DoorByID(rc.propString(node, kind, "DoorId")); ok {
			door.Locked = false
		}

	case registry.TypeStartQuest:
		if q, ok := world.Quest(rc.propString(node, kind, "QuestId")); ok {
			q.Status = mgame.QuestActive
			rc.eng.cascade(mnodedef.OwnerQuest, q.ID, registry.TypeOnQuestStarted, nil)
		}

	case registry.TypeCompleteQuest:
		if q, ok := world.Quest(rc.propString(node, kind, "QuestId")); ok {
			q.Status = mgame.QuestCompleted
			rc.eng.cascade(mnodedef.OwnerQuest, q.ID, registry.TypeOnQuestCompleted, nil)
			if world.AllMainQuestsCompleted() {
				rc.eng.emit.Completed()
			}
		}

	case registry.TypeFailQuest:
		if q, ok := world.Quest(rc.propString(node, kind, "QuestId")); ok {
			q.Status = mgame.QuestFailed
		}

	case registry.TypeStartCombat:
		npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId"))
		if !ok || rc.eng.combat == nil {
			return nil
		}
		outcome, err := rc.eng.combat.Start(rc.ctx, world, npc.ID)
		if err != nil {
			return err
		}
		if outcome != "" {
			rc.eng.emit.Message(outcome)
		}

	case registry.TypeOpenShop:
		npc, ok := world.NpcByID(rc.propString(node, kind, "NpcId"))
		if !ok || rc.eng.trade == nil {
			return nil
		}
		outcome, err := rc.eng.trade.Open(rc.ctx, world, npc.ID)
		if err != nil {
			return err
		}
		if outcome != "" {
			rc.eng.emit.Message(outcome)
		}

	case registry.TypeCraftItem:
		recipe := rc.propString(node, kind, "RecipeId")
		if recipe == "" || rc.eng.craft == nil {
			return nil
		}
		outcome, err := rc.eng.craft.Craft(rc.ctx, world, recipe)
		if err != nil {
			return err
		}
		if outcome != "" {
			rc.eng.emit.Message(outcome)
		}

	case registry.TypeLearnAbility:
		if ability := rc.propString(node, kind, "Ability"); ability != "" && !world.HasAbility(ability) {
			world.Player.Abilities = append(world.Player.Abilities, ability)
		}

	case registry.TypeForgetAbility:
		ability := rc.propString(node, kind, "Ability")
		kept := world.Player.Abilities[:0]
		for _, a := range world.Player.Abilities {
			if a != ability {
				kept = append(kept, a)
			}
		}
		world.Player.Abilities = kept

	case registry.TypeModifyNeed:
		if need := rc.statName(node, kind, "Need"); need != "" {
			value := world.Stat(need) + int(rc.inputInt(node, kind, "Delta"))
			rc.eng.applyStat(need, clampNeed(value))
		}
	}
	return nil
}

// statName lowers a stat property so authored casing cannot split one
// stat into two map keys.
func (rc *runCtx) statName(node *mscript.Node, kind *mnodedef.Definition, name string) string {
	return strings.ToLower(rc.propString(node, kind, name))
}

// Need meters live on the 0..100 scale.
func clampNeed(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// setFlag writes a flag and raises OnFlagChanged when the stored value
// actually changed.
func (e *Engine) setFlag(name string, v bool) {
	if e.world.Flags == nil {
		e.world.Flags = make(map[string]bool)
	}
	if e.world.Flags[name] == v {
		return
	}
	e.world.Flags[name] = v
	e.cascade(mnodedef.OwnerGame, "", registry.TypeOnFlagChanged, map[string]any{ParamFlag: name})
}

// setCounter writes a counter and raises OnCounterChanged on change.
func (e *Engine) setCounter(name string, v int) {
	if e.world.Counters == nil {
		e.world.Counters = make(map[string]int)
	}
	if e.world.Counters[name] == v {
		return
	}
	e.world.Counters[name] = v
	e.cascade(mnodedef.OwnerGame, "", registry.TypeOnCounterChanged, map[string]any{ParamCounter: name})
}

// applyStat writes a raw stat and raises OnStatThreshold with the old
// and new values; a health drop through zero also raises OnPlayerDeath.
func (e *Engine) applyStat(stat string, value int) {
	old := e.world.Stat(stat)
	if old == value {
		return
	}
	e.world.SetStat(stat, value)
	e.cascade(mnodedef.OwnerGame, "", registry.TypeOnStatThreshold, map[string]any{
		ParamStat: stat,
		ParamOld:  old,
		ParamNew:  value,
	})
	if stat == mgame.StatHealth && old > 0 && value <= 0 {
		e.cascade(mnodedef.OwnerGame, "", registry.TypeOnPlayerDeath, nil)
	}
}

// giveItem moves an object into the player's inventory, lifting it out
// of whatever room held it. Unknown and already-held items are no-ops.
func (e *Engine) giveItem(id string) {
	obj, ok := e.world.ObjectByID(id)
	if !ok || e.world.HasItem(id) {
		return
	}
	e.placeObject(obj, "")
	e.world.Player.Inventory = append(e.world.Player.Inventory, id)
}

// takeItem removes an item from the inventory and any equip slot
// holding it.
func (e *Engine) takeItem(id string) {
	if !e.world.RemoveItem(id) {
		return
	}
	for slot, equipped := range e.world.Player.Equipped {
		if equipped == id {
			delete(e.world.Player.Equipped, slot)
		}
	}
}

// placeObject moves an object between rooms, keeping the room object
// lists consistent. An empty target leaves the object roomless.
func (e *Engine) placeObject(obj *mgame.GameObject, roomID string) {
	if obj.Room != "" {
		if old, ok := e.world.RoomByID(obj.Room); ok {
			kept := old.Objects[:0]
			for _, held := range old.Objects {
				if held != obj.ID {
					kept = append(kept, held)
				}
			}
			old.Objects = kept
		}
	}
	obj.Room = roomID
	if roomID == "" {
		return
	}
	room, ok := e.world.RoomByID(roomID)
	if !ok {
		return
	}
	for _, held := range room.Objects {
		if held == obj.ID {
			return
		}
	}
	room.Objects = append(room.Objects, obj.ID)
}
