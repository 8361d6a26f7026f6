package engine_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/engine"
	"github.com/questwright/scriptgraph/pkg/script/scripttest"
	"github.com/questwright/scriptgraph/pkg/script/stream"
)

// start loads the builder's script into a fresh world and wires an
// engine with a recorder and a fixed seed.
func start(t *testing.T, world *mgame.World, b *scripttest.Builder, opts ...engine.Option) (*engine.Engine, *stream.Recorder) {
	t.Helper()
	if world == nil {
		world = mgame.NewWorld(mgame.Features{})
	}
	world.Scripts = append(world.Scripts, b.Def)
	rec := &stream.Recorder{}
	opts = append(opts, engine.WithEmitter(rec.Emitter()), engine.WithSeed(7))
	return engine.New(b.Reg, world, opts...), rec
}

func gameStart(t *testing.T, eng *engine.Engine) {
	t.Helper()
	err := eng.TriggerEvent(context.Background(), mnodedef.OwnerGame, "game", registry.TypeOnGameStart, nil)
	require.NoError(t, err)
}

func TestTriggerRunsMatchingEvent(t *testing.T) {
	b := scripttest.New("hello")
	evt := b.Node(registry.TypeOnGameStart)
	msg := b.Node(registry.TypeShowMessage, "Message", "hello world")
	b.Exec(evt, registry.PortExec, msg)

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Equal(t, []string{"hello world"}, rec.Messages)

	// An event type with no nodes in any script is a quiet no-op.
	err := eng.TriggerEvent(context.Background(), mnodedef.OwnerGame, "game", registry.TypeOnSleep, nil)
	require.NoError(t, err)
	require.Len(t, rec.Messages, 1)
}

func TestTriggerMatchesOwner(t *testing.T) {
	b := scripttest.New("greeting").Owned(mnodedef.OwnerNpc, "innkeeper")
	evt := b.Node(registry.TypeOnTalk)
	msg := b.Node(registry.TypeShowMessage, "Message", "welcome")
	b.Exec(evt, registry.PortExec, msg)

	eng, rec := start(t, nil, b)
	ctx := context.Background()

	require.NoError(t, eng.TriggerEvent(ctx, mnodedef.OwnerNpc, "blacksmith", registry.TypeOnTalk, nil))
	require.Empty(t, rec.Messages)

	require.NoError(t, eng.TriggerEvent(ctx, mnodedef.OwnerNpc, "innkeeper", registry.TypeOnTalk, nil))
	require.Equal(t, []string{"welcome"}, rec.Messages)
}

func TestConditionSelectsBranch(t *testing.T) {
	build := func() (*scripttest.Builder, *mgame.World) {
		b := scripttest.New("branching")
		evt := b.Node(registry.TypeOnGameStart)
		cond := b.Node(registry.TypeHasFlag, "FlagName", "brave")
		yes := b.Node(registry.TypeShowMessage, "Message", "charge")
		no := b.Node(registry.TypeShowMessage, "Message", "flee")
		b.Exec(evt, registry.PortExec, cond)
		b.Exec(cond, registry.PortTrue, yes)
		b.Exec(cond, registry.PortFalse, no)
		return b, mgame.NewWorld(mgame.Features{})
	}

	b, world := build()
	world.Flags["brave"] = true
	eng, rec := start(t, world, b)
	gameStart(t, eng)
	require.Equal(t, []string{"charge"}, rec.Messages)

	b, world = build()
	eng, rec = start(t, world, b)
	gameStart(t, eng)
	require.Equal(t, []string{"flee"}, rec.Messages)
}

func TestSequenceRunsBranchesToCompletion(t *testing.T) {
	b := scripttest.New("ordering")
	evt := b.Node(registry.TypeOnGameStart)
	seq := b.Node(registry.TypeSequence)
	first := b.Node(registry.TypeShowMessage, "Message", "first")
	firstTail := b.Node(registry.TypeShowMessage, "Message", "first tail")
	second := b.Node(registry.TypeShowMessage, "Message", "second")
	b.Exec(evt, registry.PortExec, seq)
	b.Exec(seq, registry.ThenPort(0), first)
	b.Exec(first, registry.PortExec, firstTail)
	b.Exec(seq, registry.ThenPort(1), second)

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Equal(t, []string{"first", "first tail", "second"}, rec.Messages)
}

func TestFanOutKeepsConnectionOrder(t *testing.T) {
	b := scripttest.New("fan out")
	evt := b.Node(registry.TypeOnGameStart)
	one := b.Node(registry.TypeShowMessage, "Message", "one")
	oneTail := b.Node(registry.TypeShowMessage, "Message", "one tail")
	two := b.Node(registry.TypeShowMessage, "Message", "two")
	b.Exec(evt, registry.PortExec, one)
	b.Exec(one, registry.PortExec, oneTail)
	b.Exec(evt, registry.PortExec, two)

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Equal(t, []string{"one", "one tail", "two"}, rec.Messages)
}

func TestUnknownNodeTypeIsInert(t *testing.T) {
	b := scripttest.New("mystery")
	evt := b.Node(registry.TypeOnGameStart)
	before := b.Node(registry.TypeShowMessage, "Message", "before")
	mystery := b.Node("TimeTravel")
	after := b.Node(registry.TypeShowMessage, "Message", "after")
	b.Exec(evt, registry.PortExec, before)
	b.Exec(before, registry.PortExec, mystery)
	b.Exec(mystery, registry.PortExec, after)

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Equal(t, []string{"before"}, rec.Messages)
}

func TestCycleExecutesEachArrival(t *testing.T) {
	b := scripttest.New("loop")
	evt := b.Node(registry.TypeOnGameStart)
	inc := b.Node(registry.TypeIncrementCounter, "CounterName", "laps")
	check := b.Node(registry.TypeCounterCompare,
		"CounterName", "laps", "Operator", "<", "Value", int64(3))
	done := b.Node(registry.TypeShowMessage, "Message", "done")
	b.Exec(evt, registry.PortExec, inc)
	b.Exec(inc, registry.PortExec, check)
	b.Exec(check, registry.PortTrue, inc)
	b.Exec(check, registry.PortFalse, done)

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Equal(t, 3, eng.World().Counter("laps"))
	require.Equal(t, []string{"done"}, rec.Messages)
}

func TestDeepChainDoesNotRecurse(t *testing.T) {
	const depth = 150
	b := scripttest.New("deep")
	prev := b.Node(registry.TypeOnGameStart)
	for i := 0; i < depth; i++ {
		n := b.Node(registry.TypeShowMessage, "Message", fmt.Sprintf("step %d", i))
		b.Exec(prev, registry.PortExec, n)
		prev = n
	}

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Len(t, rec.Messages, depth)
	require.Equal(t, "step 0", rec.Messages[0])
	require.Equal(t, fmt.Sprintf("step %d", depth-1), rec.Messages[depth-1])
}

func TestExecuteSingleNodeIsolation(t *testing.T) {
	b := scripttest.New("isolated")
	evt := b.Node(registry.TypeOnGameStart)
	counter := b.Node(registry.TypeGetCounter, "CounterName", "gold")
	msg := b.Node(registry.TypeShowMessage, "Message", "literal text")
	next := b.Node(registry.TypeShowMessage, "Message", "downstream")
	b.Exec(evt, registry.PortExec, msg)
	b.Wire(counter, registry.PortValue, msg, "Message")
	b.Exec(msg, registry.PortExec, next)

	world := mgame.NewWorld(mgame.Features{})
	world.Counters["gold"] = 42
	eng, rec := start(t, world, b)

	require.NoError(t, eng.ExecuteSingleNode(context.Background(), b.Def, msg))
	// Literal only: the data edge is ignored and nothing runs after.
	require.Equal(t, []string{"literal text"}, rec.Messages)
}

func TestExecuteSingleNodeSwallowsRaisedEvents(t *testing.T) {
	b := scripttest.New("swallow")
	set := b.Node(registry.TypeSetFlag, "FlagName", "lever")
	watcher := b.Node(registry.TypeOnFlagChanged)
	reaction := b.Node(registry.TypeShowMessage, "Message", "lever moved")
	b.Exec(watcher, registry.PortExec, reaction)

	eng, rec := start(t, nil, b)
	require.NoError(t, eng.ExecuteSingleNode(context.Background(), b.Def, set))
	require.True(t, eng.World().Flag("lever"))
	require.Empty(t, rec.Messages)

	// The swallowed cascade must not leak into the next trigger.
	gameStart(t, eng)
	require.Empty(t, rec.Messages)
}

func TestFlagChangeCascades(t *testing.T) {
	b := scripttest.New("cascade")
	evt := b.Node(registry.TypeOnGameStart)
	set := b.Node(registry.TypeSetFlag, "FlagName", "lever")
	b.Exec(evt, registry.PortExec, set)

	watcher := b.Node(registry.TypeOnFlagChanged, "FlagName", "lever")
	reaction := b.Node(registry.TypeShowMessage, "Message", "lever moved")
	b.Exec(watcher, registry.PortExec, reaction)

	other := b.Node(registry.TypeOnFlagChanged, "FlagName", "unrelated")
	noise := b.Node(registry.TypeShowMessage, "Message", "never")
	b.Exec(other, registry.PortExec, noise)

	eng, rec := start(t, nil, b)
	gameStart(t, eng)
	require.Equal(t, []string{"lever moved"}, rec.Messages)

	// Setting the flag to its current value is not a change.
	gameStart(t, eng)
	require.Len(t, rec.Messages, 1)
}

func TestBlankFlagFilterMatchesAnyFlag(t *testing.T) {
	b := scripttest.New("any flag")
	watcher := b.Node(registry.TypeOnFlagChanged)
	reaction := b.Node(registry.TypeShowMessage, "Message", "something changed")
	b.Exec(watcher, registry.PortExec, reaction)

	eng, rec := start(t, nil, b)
	err := eng.TriggerEvent(context.Background(), mnodedef.OwnerGame, "game",
		registry.TypeOnFlagChanged, map[string]any{engine.ParamFlag: "whatever"})
	require.NoError(t, err)
	require.Equal(t, []string{"something changed"}, rec.Messages)
}

func TestTraceCountsRevisits(t *testing.T) {
	b := scripttest.New("trace")
	evt := b.Node(registry.TypeOnGameStart)
	inc := b.Node(registry.TypeIncrementCounter, "CounterName", "n")
	check := b.Node(registry.TypeCounterCompare,
		"CounterName", "n", "Operator", "<", "Value", int64(2))
	b.Exec(evt, registry.PortExec, inc)
	b.Exec(inc, registry.PortExec, check)
	b.Exec(check, registry.PortTrue, inc)

	var events []engine.TraceEvent
	eng, _ := start(t, nil, b, engine.WithTrace(func(ev engine.TraceEvent) {
		events = append(events, ev)
	}))
	gameStart(t, eng)

	visits := map[string]int{}
	for _, ev := range events {
		if visits[ev.TypeID] < ev.Visit {
			visits[ev.TypeID] = ev.Visit
		}
	}
	require.Equal(t, 2, visits[registry.TypeIncrementCounter])
	require.Equal(t, 2, visits[registry.TypeCounterCompare])
}
