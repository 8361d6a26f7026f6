package engine

import (
	"context"
	"strings"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/props"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/stream"
)

// frame is one pending traversal step: a node about to execute and the
// input port it is entered through. The port matters to kinds like Gate
// whose behavior depends on how they were reached.
type frame struct {
	node idwrap.IDWrap
	via  string
}

// runCtx is the state of one walk: an explicit LIFO stack instead of
// recursion, so arbitrarily deep and cyclic graphs cannot overflow.
// Nodes are never deduplicated; a cycle executes each time it is
// reached and terminates only by branching, latching or suspension.
type runCtx struct {
	ctx   context.Context
	eng   *Engine
	def   *mscript.Definition
	wires mscript.Wires
	stack []frame

	// visits counts how often each node ran this walk, for tracing.
	visits map[idwrap.IDWrap]int

	// resolving guards data pulls against cycles among producers.
	resolving map[idwrap.IDWrap]bool

	// isolated runs a single node with no traversal and no data edges.
	isolated bool
}

func (e *Engine) newRun(ctx context.Context, def *mscript.Definition) *runCtx {
	return &runCtx{
		ctx:       ctx,
		eng:       e,
		def:       def,
		wires:     e.wiresFor(def),
		visits:    make(map[idwrap.IDWrap]int),
		resolving: make(map[idwrap.IDWrap]bool),
	}
}

// pushSuccessors stacks the control targets of one output port in
// reverse connection order, so the first-declared edge runs first and
// each branch drains to its own termination before a sibling starts.
func (rc *runCtx) pushSuccessors(source idwrap.IDWrap, port string) {
	succ := rc.wires.Control.Successors(source, port)
	for i := len(succ) - 1; i >= 0; i-- {
		rc.stack = append(rc.stack, frame{node: succ[i].NodeID, via: succ[i].Port})
	}
}

// drain pops and executes frames until the stack empties, a suspension
// freezes the walk, or a step fails.
func (rc *runCtx) drain() error {
	for len(rc.stack) > 0 {
		if err := rc.ctx.Err(); err != nil {
			return err
		}
		fr := rc.stack[len(rc.stack)-1]
		rc.stack = rc.stack[:len(rc.stack)-1]
		if err := rc.step(fr); err != nil {
			return err
		}
	}
	return nil
}

// step executes one node and stacks its continuation.
func (rc *runCtx) step(fr frame) error {
	node := rc.def.NodeByID(fr.node)
	if node == nil {
		return nil
	}
	rc.visits[fr.node]++
	if rc.eng.trace != nil {
		rc.eng.trace(TraceEvent{
			ScriptID: rc.def.ID,
			NodeID:   fr.node,
			TypeID:   node.TypeID,
			Visit:    rc.visits[fr.node],
		})
	}

	kind, ok := rc.eng.reg.Get(node.TypeID)
	if !ok {
		return nil
	}
	// Feature flags decide what the catalog offers, not what runs: a
	// gated node already wired into a graph executes like any other.
	switch kind.Category {
	case mnodedef.CategoryAction:
		if err := rc.runAction(node, kind); err != nil {
			return err
		}
		if !rc.isolated {
			rc.pushSuccessors(node.ID, registry.PortExec)
		}
		return nil

	case mnodedef.CategoryCondition:
		result := rc.evalCondition(node, kind)
		if rc.isolated {
			return nil
		}
		port := registry.PortFalse
		if result {
			port = registry.PortTrue
		}
		rc.pushSuccessors(node.ID, port)
		return nil

	case mnodedef.CategoryFlow:
		return rc.stepFlow(node, kind, fr.via)

	case mnodedef.CategoryDialogue:
		return rc.stepDialogue(node, kind)

	default:
		// Events start walks and variables are pulled through data
		// edges; neither does anything as a traversal target.
		return nil
	}
}

func (rc *runCtx) stepFlow(node *mscript.Node, kind *mnodedef.Definition, via string) error {
	if rc.isolated {
		return nil
	}
	world := rc.eng.world

	switch node.TypeID {
	case registry.TypeSequence:
		for i := registry.SequenceFanOut - 1; i >= 0; i-- {
			rc.pushSuccessors(node.ID, registry.ThenPort(i))
		}

	case registry.TypeBranch:
		port := registry.PortFalse
		if rc.inputBool(node, kind, "Condition") {
			port = registry.PortTrue
		}
		rc.pushSuccessors(node.ID, port)

	case registry.TypeRandomBranch:
		weights := make([]int64, registry.RandomBranchFanOut)
		var total int64
		for i := range weights {
			w := rc.propValue(node, kind, registry.WeightProp(i)).AsInt()
			if w < 0 {
				w = 0
			}
			weights[i] = w
			total += w
		}
		if total <= 0 {
			return nil
		}
		draw := rc.eng.rng.Int64N(total)
		for i, w := range weights {
			if draw < w {
				rc.pushSuccessors(node.ID, registry.ThenPort(i))
				break
			}
			draw -= w
		}

	case registry.TypeDelay:
		duration := int(rc.propValue(node, kind, "Duration").AsInt())
		if duration <= 0 {
			rc.pushSuccessors(node.ID, registry.PortExec)
			return nil
		}
		pd := mgame.PendingDelay{ScriptID: rc.def.ID, NodeID: node.ID}
		if strings.EqualFold(node.Properties.Get("Unit").AsString(), "Seconds") {
			pd.Kind = mgame.DurationSeconds
			pd.DueSeconds = world.Seconds + float64(duration)
		} else {
			pd.Kind = mgame.DurationTurns
			pd.DueTurn = world.Turn + duration
		}
		world.Delays = append(world.Delays, pd)
		// The branch parks here; the rest of the walk keeps going.

	case registry.TypeOnce:
		port := registry.PortRest
		if !rc.eng.latch(node.ID) {
			rc.eng.setLatch(node.ID, true)
			port = registry.PortFirst
		}
		rc.pushSuccessors(node.ID, port)

	case registry.TypeGate:
		switch via {
		case registry.PortOpen:
			rc.eng.setLatch(node.ID, true)
		case registry.PortClose:
			rc.eng.setLatch(node.ID, false)
		default:
			if rc.gateOpen(node) {
				rc.pushSuccessors(node.ID, registry.PortExec)
			}
		}
	}
	return nil
}

// gateOpen reads a gate's latch, falling back to its Open property for
// gates no pulse has touched yet.
func (rc *runCtx) gateOpen(node *mscript.Node) bool {
	if open, ok := rc.eng.world.Latches[node.ID]; ok {
		return open
	}
	if v := node.Properties.Get("Open"); v.Kind() != props.KindAbsent {
		return v.AsBool()
	}
	return true
}

func (rc *runCtx) stepDialogue(node *mscript.Node, kind *mnodedef.Definition) error {
	world := rc.eng.world

	switch node.TypeID {
	case registry.TypeSay:
		if text, ok := rc.inputString(node, kind, "Text"); ok {
			rc.eng.emit.Dialogue(stream.Line{
				Speaker: node.Properties.Get("Speaker").AsString(),
				Text:    text,
			})
		}

	case registry.TypeNpcSay:
		npc, found := world.NpcByID(strings.TrimSpace(node.Properties.Get("NpcId").AsString()))
		if found {
			if text, ok := rc.inputString(node, kind, "Text"); ok {
				rc.eng.emit.Dialogue(stream.Line{Speaker: npc.Name, Text: text})
			}
		}

	case registry.TypePlayerChoice:
		return rc.suspendChoice(node)

	case registry.TypeEndConversation:
		world.Conversation = nil
	}

	if !rc.isolated {
		rc.pushSuccessors(node.ID, registry.PortExec)
	}
	return nil
}

// suspendChoice freezes the whole walk at a choice node. The remaining
// stack is stored bottom-first; SelectOption restores it and pushes the
// chosen branch on top.
func (rc *runCtx) suspendChoice(node *mscript.Node) error {
	var options, ports []string
	for i := 0; i < registry.ChoiceFanOut; i++ {
		v := node.Properties.Get(registry.OptionProp(i))
		if v.IsSet() {
			options = append(options, v.AsString())
			ports = append(ports, registry.ThenPort(i))
		}
	}
	if len(options) == 0 {
		return nil
	}

	world := rc.eng.world
	npcID := ""
	if rc.def.OwnerType == mnodedef.OwnerNpc {
		npcID = rc.def.OwnerID
	}

	if rc.isolated {
		rc.eng.emit.Options(stream.Choice{NpcID: npcID, Options: options})
		return nil
	}
	if world.Conversation != nil {
		return ErrConversationActive
	}

	frames := make([]mgame.Frame, len(rc.stack))
	for i, fr := range rc.stack {
		frames[i] = mgame.Frame{NodeID: fr.node, Via: fr.via}
	}
	rc.stack = rc.stack[:0]

	world.Conversation = &mgame.PendingChoice{
		ScriptID: rc.def.ID,
		NodeID:   node.ID,
		NpcID:    npcID,
		Options:  options,
		Ports:    ports,
		Frames:   frames,
	}
	rc.eng.emit.Options(stream.Choice{NpcID: npcID, Options: options})
	return nil
}

// latch reads a node-keyed world latch; absent reads false.
func (e *Engine) latch(id idwrap.IDWrap) bool {
	return e.world.Latches[id]
}

func (e *Engine) setLatch(id idwrap.IDWrap, v bool) {
	if e.world.Latches == nil {
		e.world.Latches = make(map[idwrap.IDWrap]bool)
	}
	e.world.Latches[id] = v
}

// matchEvent applies an event node's filter properties to trigger
// params. Kinds without filters always match; blank filters match any
// value of their kind.
func (e *Engine) matchEvent(node *mscript.Node, params map[string]any) bool {
	switch node.TypeID {
	case registry.TypeOnFlagChanged:
		want := strings.TrimSpace(node.Properties.Get("FlagName").AsString())
		return want == "" || want == paramString(params, ParamFlag)

	case registry.TypeOnCounterChanged:
		want := strings.TrimSpace(node.Properties.Get("CounterName").AsString())
		return want == "" || want == paramString(params, ParamCounter)

	case registry.TypeOnUseWith:
		want := strings.TrimSpace(node.Properties.Get("TargetObject").AsString())
		return want == "" || want == paramString(params, ParamTarget)

	case registry.TypeOnStatThreshold:
		want := strings.TrimSpace(node.Properties.Get("Stat").AsString())
		if !strings.EqualFold(want, paramString(params, ParamStat)) {
			return false
		}
		threshold := node.Properties.Get("Threshold").AsInt()
		oldVal := paramInt(params, ParamOld)
		newVal := paramInt(params, ParamNew)
		if strings.EqualFold(node.Properties.Get("Direction").AsString(), "Above") {
			return oldVal <= threshold && newVal > threshold
		}
		return oldVal >= threshold && newVal < threshold

	case registry.TypeOnTurnElapsed:
		every := node.Properties.Get("EveryTurns").AsInt()
		if every < 1 {
			every = 1
		}
		turn := paramInt(params, ParamTurn)
		return turn > 0 && turn%every == 0

	default:
		return true
	}
}

func paramString(params map[string]any, key string) string {
	return props.FromAny(params[key]).AsString()
}

func paramInt(params map[string]any, key string) int64 {
	return props.FromAny(params[key]).AsInt()
}
