package registry

import (
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

// action builds the common Action shape: one execution input, one
// execution output. Data inputs get appended per kind; every data input
// has a same-named property as its literal fallback.
func action(typeID, display string, properties ...mnodedef.PropertyDefinition) *mnodedef.Definition {
	return &mnodedef.Definition{
		TypeID:      typeID,
		DisplayName: display,
		Category:    mnodedef.CategoryAction,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
		Outputs:     []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
		Properties:  properties,
	}
}

func withDataIns(d *mnodedef.Definition, ins ...mnodedef.PortDefinition) *mnodedef.Definition {
	d.Inputs = append(d.Inputs, ins...)
	return d
}

func flagNameProp() mnodedef.PropertyDefinition {
	return mnodedef.PropertyDefinition{
		Name: "FlagName", DisplayName: "Flag",
		DataType: mnodedef.DataString, Required: true,
	}
}

func counterNameProp() mnodedef.PropertyDefinition {
	return mnodedef.PropertyDefinition{
		Name: "CounterName", DisplayName: "Counter",
		DataType: mnodedef.DataString, Required: true,
	}
}

func statProp() mnodedef.PropertyDefinition {
	return mnodedef.PropertyDefinition{
		Name: "Stat", DataType: mnodedef.DataString,
		Options: statOptions(), Required: true,
	}
}

func entityProp(name, display, entity string) mnodedef.PropertyDefinition {
	return mnodedef.PropertyDefinition{
		Name: name, DisplayName: display,
		DataType: mnodedef.DataString, EntityType: entity,
	}
}

func registerActions(r *Registry) {
	r.add(withDataIns(
		action(TypeShowMessage, "Show Message",
			mnodedef.PropertyDefinition{
				Name: "Message", DataType: mnodedef.DataString, Required: true,
			},
		),
		mnodedef.DataIn("Message", mnodedef.DataString, props.Absent()),
	))

	r.add(withDataIns(
		action(TypeSetFlag, "Set Flag",
			flagNameProp(),
			mnodedef.PropertyDefinition{
				Name: "Value", DataType: mnodedef.DataBool, Default: props.Bool(true),
			},
		),
		mnodedef.DataIn("Value", mnodedef.DataBool, props.Bool(true)),
	))

	r.add(action(TypeToggleFlag, "Toggle Flag", flagNameProp()))

	r.add(withDataIns(
		action(TypeSetCounter, "Set Counter",
			counterNameProp(),
			mnodedef.PropertyDefinition{
				Name: "Value", DataType: mnodedef.DataInt, Default: props.Int(0),
			},
		),
		mnodedef.DataIn("Value", mnodedef.DataInt, props.Int(0)),
	))

	r.add(withDataIns(
		action(TypeIncrementCounter, "Increment Counter",
			counterNameProp(),
			mnodedef.PropertyDefinition{
				Name: "Amount", DataType: mnodedef.DataInt, Default: props.Int(1),
			},
		),
		mnodedef.DataIn("Amount", mnodedef.DataInt, props.Int(1)),
	))

	r.add(withDataIns(
		action(TypeDecrementCounter, "Decrement Counter",
			counterNameProp(),
			mnodedef.PropertyDefinition{
				Name: "Amount", DataType: mnodedef.DataInt, Default: props.Int(1),
			},
		),
		mnodedef.DataIn("Amount", mnodedef.DataInt, props.Int(1)),
	))

	r.add(action(TypeGiveItem, "Give Item", entityProp("ItemId", "Item", "GameObject")))
	r.add(action(TypeTakeItem, "Take Item", entityProp("ItemId", "Item", "GameObject")))

	r.add(action(TypeEquipItem, "Equip Item",
		entityProp("ItemId", "Item", "GameObject"),
		mnodedef.PropertyDefinition{
			Name: "Slot", DataType: mnodedef.DataString,
			Options: []string{"hand", "body", "head"}, Default: props.String("hand"),
		},
	))
	r.add(action(TypeUnequipItem, "Unequip Item",
		mnodedef.PropertyDefinition{
			Name: "Slot", DataType: mnodedef.DataString,
			Options: []string{"hand", "body", "head"}, Default: props.String("hand"),
		},
	))

	r.add(withDataIns(
		action(TypeModifyStat, "Modify Stat",
			statProp(),
			mnodedef.PropertyDefinition{
				Name: "Delta", DataType: mnodedef.DataInt, Default: props.Int(1),
			},
		),
		mnodedef.DataIn("Delta", mnodedef.DataInt, props.Int(1)),
	))

	r.add(withDataIns(
		action(TypeSetStat, "Set Stat",
			statProp(),
			mnodedef.PropertyDefinition{
				Name: "Value", DataType: mnodedef.DataInt, Default: props.Int(0),
			},
		),
		mnodedef.DataIn("Value", mnodedef.DataInt, props.Int(0)),
	))

	r.add(withDataIns(
		action(TypeGiveMoney, "Give Money",
			mnodedef.PropertyDefinition{
				Name: "Amount", DataType: mnodedef.DataInt, Default: props.Int(1),
			},
		),
		mnodedef.DataIn("Amount", mnodedef.DataInt, props.Int(1)),
	))
	r.add(withDataIns(
		action(TypeTakeMoney, "Take Money",
			mnodedef.PropertyDefinition{
				Name: "Amount", DataType: mnodedef.DataInt, Default: props.Int(1),
			},
		),
		mnodedef.DataIn("Amount", mnodedef.DataInt, props.Int(1)),
	))

	r.add(action(TypeApplyModifier, "Apply Modifier",
		mnodedef.PropertyDefinition{
			Name: "Name", DataType: mnodedef.DataString, Required: true,
		},
		statProp(),
		mnodedef.PropertyDefinition{
			Name: "Delta", DataType: mnodedef.DataInt, Default: props.Int(1),
		},
		mnodedef.PropertyDefinition{
			Name: "DurationKind", DisplayName: "Duration Kind",
			DataType: mnodedef.DataString,
			Options:  []string{"Permanent", "Turns", "Seconds"},
			Default:  props.String("Permanent"),
		},
		mnodedef.PropertyDefinition{
			Name: "Duration", DataType: mnodedef.DataInt, Default: props.Int(0),
		},
	))
	r.add(action(TypeRemoveModifier, "Remove Modifier",
		mnodedef.PropertyDefinition{
			Name: "Name", DataType: mnodedef.DataString, Required: true,
		},
	))

	r.add(action(TypeTeleportPlayer, "Teleport Player", entityProp("RoomId", "Room", "Room")))

	r.add(action(TypeSetRoomVisible, "Set Room Visible",
		entityProp("RoomId", "Room", "Room"),
		mnodedef.PropertyDefinition{
			Name: "Visible", DataType: mnodedef.DataBool, Default: props.Bool(true),
		},
	))
	r.add(action(TypeSetRoomIlluminated, "Set Room Illuminated",
		entityProp("RoomId", "Room", "Room"),
		mnodedef.PropertyDefinition{
			Name: "Illuminated", DataType: mnodedef.DataBool, Default: props.Bool(true),
		},
	))

	r.add(action(TypeSetNpcVisible, "Set NPC Visible",
		entityProp("NpcId", "NPC", "Npc"),
		mnodedef.PropertyDefinition{
			Name: "Visible", DataType: mnodedef.DataBool, Default: props.Bool(true),
		},
	))
	r.add(action(TypeSetNpcPatrol, "Set NPC Patrol",
		entityProp("NpcId", "NPC", "Npc"),
		mnodedef.PropertyDefinition{
			Name: "Patrols", DataType: mnodedef.DataBool, Default: props.Bool(true),
		},
	))
	r.add(action(TypeSetNpcFollow, "Set NPC Follow",
		entityProp("NpcId", "NPC", "Npc"),
		mnodedef.PropertyDefinition{
			Name: "Follows", DataType: mnodedef.DataBool, Default: props.Bool(true),
		},
	))
	r.add(action(TypeSetNpcMoney, "Set NPC Money",
		entityProp("NpcId", "NPC", "Npc"),
		mnodedef.PropertyDefinition{
			Name: "Amount", DataType: mnodedef.DataInt, Default: props.Int(0),
		},
	))
	r.add(action(TypeGiveNpcItem, "Give NPC Item",
		entityProp("NpcId", "NPC", "Npc"),
		entityProp("ItemId", "Item", "GameObject"),
	))

	npcMagic := action(TypeSetNpcMagic, "Set NPC Magic",
		entityProp("NpcId", "NPC", "Npc"),
		mnodedef.PropertyDefinition{
			Name: "Enabled", DataType: mnodedef.DataBool, Default: props.Bool(true),
		},
	)
	npcMagic.RequiredFeature = mgame.FeatureMagic
	r.add(npcMagic)

	r.add(action(TypeMoveObject, "Move Object",
		entityProp("ObjectId", "Object", "GameObject"),
		entityProp("RoomId", "Room", "Room"),
	))
	r.add(action(TypeRemoveObject, "Remove Object", entityProp("ObjectId", "Object", "GameObject")))

	r.add(action(TypeOpenDoor, "Open Door", entityProp("DoorId", "Door", "Door")))
	r.add(action(TypeCloseDoor, "Close Door", entityProp("DoorId", "Door", "Door")))
	r.add(action(TypeLockDoor, "Lock Door", entityProp("DoorId", "Door", "Door")))
	r.add(action(TypeUnlockDoor, "Unlock Door", entityProp("DoorId", "Door", "Door")))

	r.add(action(TypeStartQuest, "Start Quest", entityProp("QuestId", "Quest", "Quest")))
	r.add(action(TypeCompleteQuest, "Complete Quest", entityProp("QuestId", "Quest", "Quest")))
	r.add(action(TypeFailQuest, "Fail Quest", entityProp("QuestId", "Quest", "Quest")))

	r.add(action(TypeStartCombat, "Start Combat", entityProp("NpcId", "NPC", "Npc")))
	r.add(action(TypeOpenShop, "Open Shop", entityProp("NpcId", "NPC", "Npc")))
	r.add(action(TypeCraftItem, "Craft Item",
		mnodedef.PropertyDefinition{
			Name: "RecipeId", DisplayName: "Recipe",
			DataType: mnodedef.DataString, Required: true,
		},
	))

	learn := action(TypeLearnAbility, "Learn Ability",
		mnodedef.PropertyDefinition{
			Name: "Ability", DataType: mnodedef.DataString, Required: true,
		},
	)
	learn.RequiredFeature = mgame.FeatureMagic
	r.add(learn)

	forget := action(TypeForgetAbility, "Forget Ability",
		mnodedef.PropertyDefinition{
			Name: "Ability", DataType: mnodedef.DataString, Required: true,
		},
	)
	forget.RequiredFeature = mgame.FeatureMagic
	r.add(forget)

	need := withDataIns(
		action(TypeModifyNeed, "Modify Need",
			mnodedef.PropertyDefinition{
				Name: "Need", DataType: mnodedef.DataString,
				Options: needOptions(), Required: true,
			},
			mnodedef.PropertyDefinition{
				Name: "Delta", DataType: mnodedef.DataInt, Default: props.Int(-1),
			},
		),
		mnodedef.DataIn("Delta", mnodedef.DataInt, props.Int(-1)),
	)
	need.RequiredFeature = mgame.FeatureBasicNeeds
	r.add(need)
}
