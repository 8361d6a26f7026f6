package registry

import (
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

func registerFlow(r *Registry) {
	seq := &mnodedef.Definition{
		TypeID:      TypeSequence,
		DisplayName: "Sequence",
		Category:    mnodedef.CategoryFlow,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
	}
	for i := 0; i < SequenceFanOut; i++ {
		seq.Outputs = append(seq.Outputs, mnodedef.ExecOut(ThenPort(i)))
	}
	r.add(seq)

	r.add(&mnodedef.Definition{
		TypeID:      TypeBranch,
		DisplayName: "Branch",
		Category:    mnodedef.CategoryFlow,
		Owners:      mnodedef.OwnerAny,
		Inputs: []mnodedef.PortDefinition{
			mnodedef.ExecIn(PortExec),
			mnodedef.DataIn("Condition", mnodedef.DataBool, props.Bool(false)),
		},
		Outputs: []mnodedef.PortDefinition{
			mnodedef.ExecOut(PortTrue),
			mnodedef.ExecOut(PortFalse),
		},
		Properties: []mnodedef.PropertyDefinition{
			{Name: "Condition", DataType: mnodedef.DataBool, Default: props.Bool(false)},
		},
	})

	random := &mnodedef.Definition{
		TypeID:      TypeRandomBranch,
		DisplayName: "Random Branch",
		Category:    mnodedef.CategoryFlow,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
	}
	for i := 0; i < RandomBranchFanOut; i++ {
		random.Outputs = append(random.Outputs, mnodedef.ExecOut(ThenPort(i)))
		def := props.Int(0)
		if i == 0 {
			def = props.Int(1)
		}
		random.Properties = append(random.Properties, mnodedef.PropertyDefinition{
			Name: WeightProp(i), DataType: mnodedef.DataInt, Default: def,
		})
	}
	r.add(random)

	r.add(&mnodedef.Definition{
		TypeID:      TypeDelay,
		DisplayName: "Delay",
		Category:    mnodedef.CategoryFlow,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
		Outputs:     []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
		Properties: []mnodedef.PropertyDefinition{
			{Name: "Duration", DataType: mnodedef.DataInt, Default: props.Int(1)},
			{
				Name: "Unit", DataType: mnodedef.DataString,
				Options: []string{"Turns", "Seconds"}, Default: props.String("Turns"),
			},
		},
	})

	r.add(&mnodedef.Definition{
		TypeID:      TypeOnce,
		DisplayName: "Once",
		Category:    mnodedef.CategoryFlow,
		Owners:      mnodedef.OwnerAny,
		Inputs:      []mnodedef.PortDefinition{mnodedef.ExecIn(PortExec)},
		Outputs: []mnodedef.PortDefinition{
			mnodedef.ExecOut(PortFirst),
			mnodedef.ExecOut(PortRest),
		},
	})

	r.add(&mnodedef.Definition{
		TypeID:      TypeGate,
		DisplayName: "Gate",
		Category:    mnodedef.CategoryFlow,
		Owners:      mnodedef.OwnerAny,
		Inputs: []mnodedef.PortDefinition{
			mnodedef.ExecIn(PortExec),
			mnodedef.ExecIn(PortOpen),
			mnodedef.ExecIn(PortClose),
		},
		Outputs: []mnodedef.PortDefinition{mnodedef.ExecOut(PortExec)},
		Properties: []mnodedef.PropertyDefinition{
			{Name: "Open", DataType: mnodedef.DataBool, Default: props.Bool(true)},
		},
	})
}
