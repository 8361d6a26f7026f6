package engine

import (
	"github.com/questwright/scriptgraph/pkg/expression"
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/props"
)

// input resolves a node input by the pull chain: a connected producer
// wins, then the node's literal property, then the input port's default,
// then the property definition's default. Single-node isolation skips
// the connection lookup entirely.
func (rc *runCtx) input(node *mscript.Node, kind *mnodedef.Definition, name string) props.Value {
	port := kind.Input(name)

	if port != nil && !rc.isolated {
		if ep, ok := rc.wires.Data.Source(node.ID, port.Name); ok {
			if v := rc.evalProducer(ep); v.Kind() != props.KindAbsent {
				return v
			}
		}
	}
	if v := node.Properties.Get(name); v.IsSet() {
		return v
	}
	if port != nil && port.Default.Kind() != props.KindAbsent {
		return port.Default
	}
	if prop := kind.Property(name); prop != nil {
		return prop.Default
	}
	return props.Absent()
}

// propValue resolves a literal-only property: the node's bag, then the
// catalog default.
func (rc *runCtx) propValue(node *mscript.Node, kind *mnodedef.Definition, name string) props.Value {
	if v := node.Properties.Get(name); v.IsSet() {
		return v
	}
	if prop := kind.Property(name); prop != nil {
		return prop.Default
	}
	return props.Absent()
}

func (rc *runCtx) inputBool(node *mscript.Node, kind *mnodedef.Definition, name string) bool {
	return rc.input(node, kind, name).AsBool()
}

func (rc *runCtx) inputInt(node *mscript.Node, kind *mnodedef.Definition, name string) int64 {
	return rc.input(node, kind, name).AsInt()
}

// inputString reports ok only for a provided, non-blank value.
func (rc *runCtx) inputString(node *mscript.Node, kind *mnodedef.Definition, name string) (string, bool) {
	v := rc.input(node, kind, name)
	if !v.IsSet() {
		return "", false
	}
	return v.AsString(), true
}

// evalProducer pulls a value out of a data output. Producers are
// Variable kinds and the Bool result of Condition kinds; anything else
// yields absent. A producer already being resolved higher in this pull
// chain yields absent, so data cycles degrade instead of spinning.
func (rc *runCtx) evalProducer(ep mscript.Endpoint) props.Value {
	node := rc.def.NodeByID(ep.NodeID)
	if node == nil {
		return props.Absent()
	}
	kind, ok := rc.eng.reg.Get(node.TypeID)
	if !ok {
		return props.Absent()
	}
	if rc.resolving[node.ID] {
		return props.Absent()
	}
	rc.resolving[node.ID] = true
	defer delete(rc.resolving, node.ID)

	switch kind.Category {
	case mnodedef.CategoryVariable:
		return rc.evalVariable(node, kind)
	case mnodedef.CategoryCondition:
		return props.Bool(rc.evalCondition(node, kind))
	default:
		return props.Absent()
	}
}

// exprEnv builds the environment shared by Expression conditions and
// Evaluate producers: the four data inputs plus read-only world
// accessors.
func (rc *runCtx) exprEnv(node *mscript.Node, kind *mnodedef.Definition) *expression.Env {
	world := rc.eng.world
	env := expression.NewEnv().
		Set("a", rc.input(node, kind, "A").ToAny()).
		Set("b", rc.input(node, kind, "B").ToAny()).
		Set("c", rc.input(node, kind, "C").ToAny()).
		Set("d", rc.input(node, kind, "D").ToAny()).
		Set("turn", world.Turn).
		Set("money", world.Player.Money).
		Set("room", world.Player.Room).
		Set("flag", func(name string) bool { return world.Flag(name) }).
		Set("counter", func(name string) int { return world.Counter(name) }).
		Set("stat", func(name string) int { return world.EffectiveStat(name) }).
		Set("has_item", func(id string) bool { return world.HasItem(id) }).
		Set("has_ability", func(name string) bool { return world.HasAbility(name) }).
		Set("quest", func(id string) string {
			if q, ok := world.Quest(id); ok {
				return q.Status.String()
			}
			return mgame.QuestNotStarted.String()
		})
	return env
}

// compareInts applies one of the six comparison operators; unknown
// operators compare equal-only.
func compareInts(op string, a, b int64) bool {
	switch op {
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return a == b
	}
}

// compareValues compares loosely: two numbers compare numerically
// whatever their kinds, everything else compares by string form.
func compareValues(op string, a, b props.Value) bool {
	if isNumeric(a) && isNumeric(b) {
		af, bf := a.AsDouble(), b.AsDouble()
		switch op {
		case "!=":
			return af != bf
		case "<":
			return af < bf
		case "<=":
			return af <= bf
		case ">":
			return af > bf
		case ">=":
			return af >= bf
		default:
			return af == bf
		}
	}
	as, bs := a.AsString(), b.AsString()
	switch op {
	case "!=":
		return as != bs
	case "<":
		return as < bs
	case "<=":
		return as <= bs
	case ">":
		return as > bs
	case ">=":
		return as >= bs
	default:
		return as == bs
	}
}

func isNumeric(v props.Value) bool {
	switch v.Kind() {
	case props.KindInt, props.KindDouble, props.KindBool:
		return true
	default:
		return false
	}
}
