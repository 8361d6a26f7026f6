package registry

import (
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

// event builds the common Event shape: no execution input, a single
// "Exec" execution output, optional filter properties.
func event(typeID, display string, owners mnodedef.OwnerMask, properties ...mnodedef.PropertyDefinition) *mnodedef.Definition {
	return &mnodedef.Definition{
		TypeID:      typeID,
		DisplayName: display,
		Category:    mnodedef.CategoryEvent,
		Owners:      owners,
		Outputs:     []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
		Properties:  properties,
	}
}

func registerEvents(r *Registry) {
	r.add(event(TypeOnGameStart, "On Game Start", mnodedef.OwnerGame))

	r.add(event(TypeOnEnter, "On Enter Room", mnodedef.OwnerRoom))
	r.add(event(TypeOnExit, "On Exit Room", mnodedef.OwnerRoom))

	r.add(event(TypeOnLook, "On Look",
		mnodedef.OwnerRoom|mnodedef.OwnerNpc|mnodedef.OwnerGameObject|mnodedef.OwnerDoor))

	r.add(event(TypeOnTake, "On Take", mnodedef.OwnerGameObject))
	r.add(event(TypeOnDrop, "On Drop", mnodedef.OwnerGameObject))
	r.add(event(TypeOnUse, "On Use", mnodedef.OwnerGameObject))
	r.add(event(TypeOnUseWith, "On Use With", mnodedef.OwnerGameObject,
		mnodedef.PropertyDefinition{
			Name: "TargetObject", DisplayName: "Target Object",
			DataType: mnodedef.DataString, EntityType: "GameObject",
		},
	))

	r.add(event(TypeOnOpen, "On Open", mnodedef.OwnerDoor|mnodedef.OwnerGameObject))
	r.add(event(TypeOnClose, "On Close", mnodedef.OwnerDoor|mnodedef.OwnerGameObject))
	r.add(event(TypeOnUnlock, "On Unlock", mnodedef.OwnerDoor))

	r.add(event(TypeOnTalk, "On Talk", mnodedef.OwnerNpc))
	r.add(event(TypeOnNpcKilled, "On NPC Killed", mnodedef.OwnerNpc))

	r.add(event(TypeOnQuestStarted, "On Quest Started", mnodedef.OwnerQuest))
	r.add(event(TypeOnQuestCompleted, "On Quest Completed", mnodedef.OwnerQuest))

	// Blank filters match every change of their kind.
	r.add(event(TypeOnFlagChanged, "On Flag Changed", mnodedef.OwnerGame,
		mnodedef.PropertyDefinition{
			Name: "FlagName", DisplayName: "Flag",
			DataType: mnodedef.DataString,
		},
	))
	r.add(event(TypeOnCounterChanged, "On Counter Changed", mnodedef.OwnerGame,
		mnodedef.PropertyDefinition{
			Name: "CounterName", DisplayName: "Counter",
			DataType: mnodedef.DataString,
		},
	))

	r.add(event(TypeOnStatThreshold, "On Stat Threshold", mnodedef.OwnerGame,
		mnodedef.PropertyDefinition{
			Name: "Stat", DataType: mnodedef.DataString,
			Options: statOptions(), Required: true,
		},
		mnodedef.PropertyDefinition{
			Name: "Threshold", DataType: mnodedef.DataInt,
			Default: props.Int(0),
		},
		mnodedef.PropertyDefinition{
			Name: "Direction", DataType: mnodedef.DataString,
			Options: []string{"Below", "Above"}, Default: props.String("Below"),
		},
	))

	r.add(event(TypeOnTurnElapsed, "On Turn Elapsed", mnodedef.OwnerGame,
		mnodedef.PropertyDefinition{
			Name: "EveryTurns", DisplayName: "Every N Turns",
			DataType: mnodedef.DataInt, Default: props.Int(1),
		},
	))

	sleep := event(TypeOnSleep, "On Sleep", mnodedef.OwnerGame)
	sleep.RequiredFeature = mgame.FeatureBasicNeeds
	r.add(sleep)

	r.add(event(TypeOnPlayerDeath, "On Player Death", mnodedef.OwnerGame))
}

// statOptions is the authoring-time stat picker list; the interpreter
// itself accepts any stat name.
func statOptions() []string {
	return []string{
		mgame.StatHealth, mgame.StatMaxHealth,
		mgame.StatMana, mgame.StatMaxMana,
		mgame.StatHunger, mgame.StatThirst,
		mgame.StatEnergy, mgame.StatSanity, mgame.StatSleep,
	}
}

// needOptions is the subset of stats the basic-needs feature manages.
func needOptions() []string {
	return []string{
		mgame.StatHunger, mgame.StatThirst,
		mgame.StatEnergy, mgame.StatSanity, mgame.StatSleep,
	}
}
