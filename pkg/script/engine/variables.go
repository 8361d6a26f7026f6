package engine

import (
	"strconv"
	"strings"

	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/props"
	"github.com/questwright/scriptgraph/pkg/registry"
)

// evalVariable produces the value of a Variable node's single data
// output. Unknown kinds and failed expressions produce absent, which
// the pull chain turns into the consumer's literal or default.
func (rc *runCtx) evalVariable(node *mscript.Node, kind *mnodedef.Definition) props.Value {
	world := rc.eng.world

	switch node.TypeID {
	case registry.TypeBoolValue:
		return props.Bool(rc.propValue(node, kind, "Value").AsBool())

	case registry.TypeIntValue:
		return props.Int(rc.propValue(node, kind, "Value").AsInt())

	case registry.TypeStringValue:
		return props.String(rc.propValue(node, kind, "Value").AsString())

	case registry.TypeGetFlag:
		return props.Bool(world.Flag(rc.propString(node, kind, "FlagName")))

	case registry.TypeGetCounter:
		return props.Int(int64(world.Counter(rc.propString(node, kind, "CounterName"))))

	case registry.TypeGetStat:
		return props.Int(int64(world.EffectiveStat(rc.statName(node, kind, "Stat"))))

	case registry.TypeGetPlayerMoney:
		return props.Int(int64(world.Player.Money))

	case registry.TypeGetPlayerRoom:
		return props.String(world.Player.Room)

	case registry.TypeGetQuestStatus:
		return props.String(questStatusOf(world, rc.propString(node, kind, "QuestId")))

	case registry.TypeRandomInt:
		lo := rc.propValue(node, kind, "Min").AsInt()
		hi := rc.propValue(node, kind, "Max").AsInt()
		if hi <= lo {
			return props.Int(lo)
		}
		return props.Int(lo + rc.eng.rng.Int64N(hi-lo+1))

	case registry.TypeMathOp:
		return props.Int(mathOp(
			rc.propString(node, kind, "Operation"),
			rc.inputInt(node, kind, "A"),
			rc.inputInt(node, kind, "B"),
		))

	case registry.TypeCompare:
		return props.Bool(compareValues(
			rc.propString(node, kind, "Operator"),
			rc.input(node, kind, "A"),
			rc.input(node, kind, "B"),
		))

	case registry.TypeLogic:
		a := rc.inputBool(node, kind, "A")
		b := rc.inputBool(node, kind, "B")
		switch rc.propString(node, kind, "Operator") {
		case "or":
			return props.Bool(a || b)
		case "xor":
			return props.Bool(a != b)
		case "not":
			return props.Bool(!a)
		default:
			return props.Bool(a && b)
		}

	case registry.TypeSelectValue:
		if rc.inputBool(node, kind, "Condition") {
			return rc.input(node, kind, "IfTrue")
		}
		return rc.input(node, kind, "IfFalse")

	case registry.TypeEvaluate:
		src := rc.propString(node, kind, "Expression")
		if src == "" {
			return props.Absent()
		}
		result, err := rc.exprEnv(node, kind).Eval(src)
		if err != nil {
			return props.Absent()
		}
		return props.FromAny(result)

	case registry.TypeFormatText:
		template := rc.propValue(node, kind, "Template")
		if !template.IsSet() {
			return props.Absent()
		}
		out := template.AsString()
		for i := 0; i < registry.FormatValueCount; i++ {
			placeholder := "{" + strconv.Itoa(i) + "}"
			out = strings.ReplaceAll(out, placeholder, rc.input(node, kind, registry.ValuePort(i)).AsString())
		}
		return props.String(out)

	default:
		return props.Absent()
	}
}

// mathOp applies an integer operation; division and modulo by zero
// degrade to zero.
func mathOp(op string, a, b int64) int64 {
	switch op {
	case "subtract":
		return a - b
	case "multiply":
		return a * b
	case "divide":
		if b == 0 {
			return 0
		}
		return a / b
	case "min":
		if a < b {
			return a
		}
		return b
	case "max":
		if a > b {
			return a
		}
		return b
	case "mod":
		if b == 0 {
			return 0
		}
		return a % b
	default:
		return a + b
	}
}
