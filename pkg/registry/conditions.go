package registry

import (
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

var compareOperators = []string{"==", "!=", "<", "<=", ">", ">="}

// condition builds the common Condition shape: an execution input,
// True/False execution outputs and a Bool "Result" data output so the
// same node doubles as a data producer.
func condition(typeID, display string, properties ...mnodedef.PropertyDefinition) *mnodedef.Definition {
	return &mnodedef.Definition{
		TypeID:      typeID,
		DisplayName: display,
		Category:    mnodedef.CategoryCondition,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
		Outputs: []mnodedef.PortDefinition{
			mnodedef.ExecOut(PortTrue),
			mnodedef.ExecOut(PortFalse),
			mnodedef.DataOut(PortResult, mnodedef.DataBool),
		},
		Properties: properties,
	}
}

func registerConditions(r *Registry) {
	r.add(condition(TypeHasFlag, "Has Flag",
		mnodedef.PropertyDefinition{
			Name: "FlagName", DisplayName: "Flag",
			DataType: mnodedef.DataString, Required: true,
		},
	))

	r.add(condition(TypeCounterCompare, "Compare Counter",
		mnodedef.PropertyDefinition{
			Name: "CounterName", DisplayName: "Counter",
			DataType: mnodedef.DataString, Required: true,
		},
		mnodedef.PropertyDefinition{
			Name: "Operator", DataType: mnodedef.DataString,
			Options: compareOperators, Default: props.String("=="),
		},
		mnodedef.PropertyDefinition{
			Name: "Value", DataType: mnodedef.DataInt, Default: props.Int(0),
		},
	))

	r.add(condition(TypeHasItem, "Has Item",
		mnodedef.PropertyDefinition{
			Name: "ItemId", DisplayName: "Item",
			DataType: mnodedef.DataString, EntityType: "GameObject",
		},
	))

	r.add(condition(TypeHasEquipped, "Has Equipped",
		mnodedef.PropertyDefinition{
			Name: "ItemId", DisplayName: "Item",
			DataType: mnodedef.DataString, EntityType: "GameObject",
		},
	))

	r.add(condition(TypeStatCompare, "Compare Stat",
		mnodedef.PropertyDefinition{
			Name: "Stat", DataType: mnodedef.DataString,
			Options: statOptions(), Required: true,
		},
		mnodedef.PropertyDefinition{
			Name: "Operator", DataType: mnodedef.DataString,
			Options: compareOperators, Default: props.String(">="),
		},
		mnodedef.PropertyDefinition{
			Name: "Value", DataType: mnodedef.DataInt, Default: props.Int(0),
		},
	))

	r.add(condition(TypeHasMoney, "Has Money",
		mnodedef.PropertyDefinition{
			Name: "Amount", DataType: mnodedef.DataInt, Default: props.Int(1),
		},
	))

	r.add(condition(TypeQuestStatus, "Quest Status Is",
		mnodedef.PropertyDefinition{
			Name: "QuestId", DisplayName: "Quest",
			DataType: mnodedef.DataString, EntityType: "Quest",
		},
		mnodedef.PropertyDefinition{
			Name: "Status", DataType: mnodedef.DataString,
			Options: []string{"NotStarted", "Active", "Completed", "Failed"},
			Default: props.String("Active"),
		},
	))

	r.add(condition(TypeNpcVisible, "NPC Visible",
		mnodedef.PropertyDefinition{
			Name: "NpcId", DisplayName: "NPC",
			DataType: mnodedef.DataString, EntityType: "Npc",
		},
	))

	r.add(condition(TypeNpcAlive, "NPC Alive",
		mnodedef.PropertyDefinition{
			Name: "NpcId", DisplayName: "NPC",
			DataType: mnodedef.DataString, EntityType: "Npc",
		},
	))

	r.add(condition(TypeDoorOpen, "Door Open",
		mnodedef.PropertyDefinition{
			Name: "DoorId", DisplayName: "Door",
			DataType: mnodedef.DataString, EntityType: "Door",
		},
	))

	r.add(condition(TypeDoorLocked, "Door Locked",
		mnodedef.PropertyDefinition{
			Name: "DoorId", DisplayName: "Door",
			DataType: mnodedef.DataString, EntityType: "Door",
		},
	))

	r.add(condition(TypePlayerInRoom, "Player In Room",
		mnodedef.PropertyDefinition{
			Name: "RoomId", DisplayName: "Room",
			DataType: mnodedef.DataString, EntityType: "Room",
		},
	))

	r.add(condition(TypeRandomChance, "Random Chance",
		mnodedef.PropertyDefinition{
			Name: "Percent", DataType: mnodedef.DataInt, Default: props.Int(50),
		},
	))

	expr := condition(TypeExpression, "Expression",
		mnodedef.PropertyDefinition{
			Name: "Expression", DataType: mnodedef.DataString, Required: true,
		},
	)
	expr.Inputs = append(expr.Inputs,
		mnodedef.DataIn("A", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("B", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("C", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("D", mnodedef.DataAny, props.Absent()),
	)
	r.add(expr)

	ability := condition(TypeHasAbility, "Has Ability",
		mnodedef.PropertyDefinition{
			Name: "Ability", DataType: mnodedef.DataString, Required: true,
		},
	)
	ability.RequiredFeature = mgame.FeatureMagic
	r.add(ability)
}
