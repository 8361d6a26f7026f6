package registry

import (
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/props"
)

// variable builds the common Variable shape: pure data producer, no
// execution ports, a single typed output.
func variable(typeID, display, outName, outType string, properties ...mnodedef.PropertyDefinition) *mnodedef.Definition {
	return &mnodedef.Definition{
		TypeID:      typeID,
		DisplayName: display,
		Category:    mnodedef.CategoryVariable,
		Owners:      mnodedef.OwnerAny,
		Outputs:     []mnodedef.PortDefinition{mnodedef.DataOut(outName, outType)},
		Properties:  properties,
	}
}

func registerVariables(r *Registry) {
	r.add(variable(TypeBoolValue, "Bool Value", PortValue, mnodedef.DataBool,
		mnodedef.PropertyDefinition{Name: "Value", DataType: mnodedef.DataBool, Default: props.Bool(false)},
	))
	r.add(variable(TypeIntValue, "Int Value", PortValue, mnodedef.DataInt,
		mnodedef.PropertyDefinition{Name: "Value", DataType: mnodedef.DataInt, Default: props.Int(0)},
	))
	r.add(variable(TypeStringValue, "String Value", PortValue, mnodedef.DataString,
		mnodedef.PropertyDefinition{Name: "Value", DataType: mnodedef.DataString, Default: props.String("")},
	))

	r.add(variable(TypeGetFlag, "Get Flag", PortValue, mnodedef.DataBool,
		mnodedef.PropertyDefinition{
			Name: "FlagName", DisplayName: "Flag",
			DataType: mnodedef.DataString, Required: true,
		},
	))
	r.add(variable(TypeGetCounter, "Get Counter", PortValue, mnodedef.DataInt,
		mnodedef.PropertyDefinition{
			Name: "CounterName", DisplayName: "Counter",
			DataType: mnodedef.DataString, Required: true,
		},
	))
	r.add(variable(TypeGetStat, "Get Stat", PortValue, mnodedef.DataInt,
		mnodedef.PropertyDefinition{
			Name: "Stat", DataType: mnodedef.DataString,
			Options: statOptions(), Required: true,
		},
	))
	r.add(variable(TypeGetPlayerMoney, "Get Player Money", PortValue, mnodedef.DataInt))
	r.add(variable(TypeGetPlayerRoom, "Get Player Room", PortValue, mnodedef.DataString))
	r.add(variable(TypeGetQuestStatus, "Get Quest Status", PortValue, mnodedef.DataString,
		mnodedef.PropertyDefinition{
			Name: "QuestId", DisplayName: "Quest",
			DataType: mnodedef.DataString, EntityType: "Quest",
		},
	))

	r.add(variable(TypeRandomInt, "Random Int", PortValue, mnodedef.DataInt,
		mnodedef.PropertyDefinition{Name: "Min", DataType: mnodedef.DataInt, Default: props.Int(0)},
		mnodedef.PropertyDefinition{Name: "Max", DataType: mnodedef.DataInt, Default: props.Int(100)},
	))

	math := variable(TypeMathOp, "Math", PortResult, mnodedef.DataInt,
		mnodedef.PropertyDefinition{Name: "A", DataType: mnodedef.DataInt, Default: props.Int(0)},
		mnodedef.PropertyDefinition{Name: "B", DataType: mnodedef.DataInt, Default: props.Int(0)},
		mnodedef.PropertyDefinition{
			Name: "Operation", DataType: mnodedef.DataString,
			Options: []string{"add", "subtract", "multiply", "divide", "min", "max", "mod"},
			Default: props.String("add"),
		},
	)
	math.Inputs = []mnodedef.PortDefinition{
		mnodedef.DataIn("A", mnodedef.DataInt, props.Int(0)),
		mnodedef.DataIn("B", mnodedef.DataInt, props.Int(0)),
	}
	r.add(math)

	compare := variable(TypeCompare, "Compare", PortResult, mnodedef.DataBool,
		mnodedef.PropertyDefinition{Name: "A", DataType: mnodedef.DataAny},
		mnodedef.PropertyDefinition{Name: "B", DataType: mnodedef.DataAny},
		mnodedef.PropertyDefinition{
			Name: "Operator", DataType: mnodedef.DataString,
			Options: compareOperators, Default: props.String("=="),
		},
	)
	compare.Inputs = []mnodedef.PortDefinition{
		mnodedef.DataIn("A", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("B", mnodedef.DataAny, props.Absent()),
	}
	r.add(compare)

	logic := variable(TypeLogic, "Logic", PortResult, mnodedef.DataBool,
		mnodedef.PropertyDefinition{Name: "A", DataType: mnodedef.DataBool, Default: props.Bool(false)},
		mnodedef.PropertyDefinition{Name: "B", DataType: mnodedef.DataBool, Default: props.Bool(false)},
		mnodedef.PropertyDefinition{
			Name: "Operator", DataType: mnodedef.DataString,
			Options: []string{"and", "or", "xor", "not"}, Default: props.String("and"),
		},
	)
	logic.Inputs = []mnodedef.PortDefinition{
		mnodedef.DataIn("A", mnodedef.DataBool, props.Bool(false)),
		mnodedef.DataIn("B", mnodedef.DataBool, props.Bool(false)),
	}
	r.add(logic)

	sel := variable(TypeSelectValue, "Select Value", PortValue, mnodedef.DataAny,
		mnodedef.PropertyDefinition{Name: "Condition", DataType: mnodedef.DataBool, Default: props.Bool(false)},
		mnodedef.PropertyDefinition{Name: "IfTrue", DisplayName: "If True", DataType: mnodedef.DataAny},
		mnodedef.PropertyDefinition{Name: "IfFalse", DisplayName: "If False", DataType: mnodedef.DataAny},
	)
	sel.Inputs = []mnodedef.PortDefinition{
		mnodedef.DataIn("Condition", mnodedef.DataBool, props.Bool(false)),
		mnodedef.DataIn("IfTrue", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("IfFalse", mnodedef.DataAny, props.Absent()),
	}
	r.add(sel)

	eval := variable(TypeEvaluate, "Evaluate", PortResult, mnodedef.DataAny,
		mnodedef.PropertyDefinition{Name: "Expression", DataType: mnodedef.DataString, Required: true},
	)
	eval.Inputs = []mnodedef.PortDefinition{
		mnodedef.DataIn("A", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("B", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("C", mnodedef.DataAny, props.Absent()),
		mnodedef.DataIn("D", mnodedef.DataAny, props.Absent()),
	}
	r.add(eval)

	format := variable(TypeFormatText, "Format Text", PortValue, mnodedef.DataString,
		mnodedef.PropertyDefinition{Name: "Template", DataType: mnodedef.DataString, Required: true},
	)
	for i := 0; i < FormatValueCount; i++ {
		format.Inputs = append(format.Inputs,
			mnodedef.DataIn(ValuePort(i), mnodedef.DataAny, props.Absent()))
		format.Properties = append(format.Properties, mnodedef.PropertyDefinition{
			Name: ValuePort(i), DataType: mnodedef.DataAny,
		})
	}
	r.add(format)
}
