package registry

import (
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

func registerDialogue(r *Registry) {
	r.add(&mnodedef.Definition{
		TypeID:      TypeSay,
		DisplayName: "Say",
		Category:    mnodedef.CategoryDialogue,
		Owners:      mnodedef.OwnerAny,
		Inputs: []mnodedef.PortDefinition{
			mnodedef.ExecIn(PortExec),
			mnodedef.DataIn("Text", mnodedef.DataString, props.Absent()),
		},
		Outputs: []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
		Properties: []mnodedef.PropertyDefinition{
			{Name: "Speaker", DataType: mnodedef.DataString},
			{Name: "Text", DataType: mnodedef.DataString, Required: true},
		},
	})

	r.add(&mnodedef.Definition{
		TypeID:      TypeNpcSay,
		DisplayName: "NPC Say",
		Category:    mnodedef.CategoryDialogue,
		Owners:      mnodedef.OwnerAny,
		Inputs: []mnodedef.PortDefinition{
			mnodedef.ExecIn(PortExec),
			mnodedef.DataIn("Text", mnodedef.DataString, props.Absent()),
		},
		Outputs: []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
		Properties: []mnodedef.PropertyDefinition{
			{Name: "NpcId", DisplayName: "NPC", DataType: mnodedef.DataString, EntityType: "Npc"},
			{Name: "Text", DataType: mnodedef.DataString, Required: true},
		},
	})

	choice := &mnodedef.Definition{
		TypeID:      TypePlayerChoice,
		DisplayName: "Player Choice",
		Category:    mnodedef.CategoryDialogue,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
	}
	for i := 0; i < ChoiceFanOut; i++ {
		choice.Outputs = append(choice.Outputs, mnodedef.ExecOut(ThenPort(i)))
		choice.Properties = append(choice.Properties, mnodedef.PropertyDefinition{
			Name: OptionProp(i), DataType: mnodedef.DataString,
			Required: i == 0,
		})
	}
	r.add(choice)

	r.add(&mnodedef.Definition{
		TypeID:      TypeEndConversation,
		DisplayName: "End Conversation",
		Category:    mnodedef.CategoryDialogue,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
		Outputs:     []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
	})
}
