// Package engine executes script graphs against a game world. A trigger
// names an event; every matching Event node in the owner's scripts starts
// a walk that follows control edges, applies Action side effects, branches
// on Conditions, and pulls values through data edges on demand. Walks are
// cooperative: Delay parks a single branch on the world clock and
// PlayerChoice freezes the whole walk until the host picks an option.
package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/stream"
)

var (
	// ErrConversationActive rejects a walk that reaches a PlayerChoice
	// while another conversation is already suspended.
	ErrConversationActive = errors.New("engine: a conversation is already active")
	// ErrNoConversation rejects SelectOption when nothing is suspended.
	ErrNoConversation = errors.New("engine: no conversation to resume")
	// ErrInvalidOption rejects SelectOption with an out of range index.
	ErrInvalidOption = errors.New("engine: option index out of range")
)

// Param keys recognized by event filter matching. Hosts pass these in the
// params map of TriggerEvent; cascaded triggers fill them internally.
const (
	ParamFlag    = "flag"
	ParamCounter = "counter"
	ParamStat    = "stat"
	ParamOld     = "old"
	ParamNew     = "new"
	ParamTurn    = "turn"
	ParamTarget  = "target"
)

// CombatService resolves a fight started by a script. The returned
// outcome, if non empty, is shown on the message stream.
type CombatService interface {
	Start(ctx context.Context, world *mgame.World, npcID string) (string, error)
}

// TradeService opens a shop session with an NPC.
type TradeService interface {
	Open(ctx context.Context, world *mgame.World, npcID string) (string, error)
}

// CraftService crafts a recipe on the player's behalf.
type CraftService interface {
	Craft(ctx context.Context, world *mgame.World, recipeID string) (string, error)
}

// TraceEvent reports one executed node to a trace hook. Visit is the
// number of times the walk has reached that node so far, starting at 1.
type TraceEvent struct {
	ScriptID idwrap.IDWrap
	NodeID   idwrap.IDWrap
	TypeID   string
	Visit    int
}

// Engine walks script graphs and mutates a single world. It is not safe
// for concurrent use; hosts serialize calls the same way they serialize
// world access.
type Engine struct {
	reg   *registry.Registry
	world *mgame.World
	emit  *stream.Emitter
	rng   *rand.Rand
	trace func(TraceEvent)

	combat CombatService
	trade  TradeService
	craft  CraftService

	wires map[idwrap.IDWrap]mscript.Wires

	running bool
	queue   []triggerReq
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmitter routes message, dialogue and completion output to emit.
func WithEmitter(emit *stream.Emitter) Option {
	return func(e *Engine) { e.emit = emit }
}

// WithRand replaces the random source used by RandomBranch, RandomChance
// and RandomInt. Tests pass a fixed seed for reproducible draws.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed is shorthand for WithRand over a fixed PCG seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithTrace installs a hook called once per executed node.
func WithTrace(fn func(TraceEvent)) Option {
	return func(e *Engine) { e.trace = fn }
}

// WithCombat installs the combat collaborator. A nil service makes
// StartCombat a no-op.
func WithCombat(s CombatService) Option {
	return func(e *Engine) { e.combat = s }
}

// WithTrade installs the trade collaborator.
func WithTrade(s TradeService) Option {
	return func(e *Engine) { e.trade = s }
}

// WithCraft installs the crafting collaborator.
func WithCraft(s CraftService) Option {
	return func(e *Engine) { e.craft = s }
}

// New builds an engine over a node catalog and a world.
func New(reg *registry.Registry, world *mgame.World, opts ...Option) *Engine {
	e := &Engine{
		reg:   reg,
		world: world,
		emit:  &stream.Emitter{},
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		wires: make(map[idwrap.IDWrap]mscript.Wires),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// World returns the world the engine mutates.
func (e *Engine) World() *mgame.World { return e.world }

// triggerReq is one queued event dispatch. Cascaded events raised while a
// walk is running are appended and drained in order, never nested.
type triggerReq struct {
	owner   mnodedef.OwnerMask
	ownerID string
	typeID  string
	params  map[string]any
}

// TriggerEvent fires a named event against an owner. Every Event node of
// the given type in the owner's scripts whose filter properties match the
// params starts a walk. Events raised by actions during the walk (flag
// and counter changes, quest transitions, stat thresholds) are queued and
// dispatched after it drains. Errors from collaborator services and the
// conversation guard are joined and returned.
func (e *Engine) TriggerEvent(ctx context.Context, owner mnodedef.OwnerMask, ownerID, typeID string, params map[string]any) error {
	e.queue = append(e.queue, triggerReq{owner: owner, ownerID: ownerID, typeID: typeID, params: params})
	return e.drainQueue(ctx)
}

// dispatch runs every matching event node of one queued trigger.
func (e *Engine) dispatch(ctx context.Context, req triggerReq) error {
	var errs []error
	for _, def := range e.scriptsFor(req.owner, req.ownerID) {
		for _, node := range def.NodesByType(req.typeID) {
			kind, ok := e.reg.Get(node.TypeID)
			if !ok || kind.Category != mnodedef.CategoryEvent {
				continue
			}
			if !e.matchEvent(node, req.params) {
				continue
			}
			if err := e.runFrom(ctx, def, node.ID); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// runFrom walks a script starting at an event node's execution output.
func (e *Engine) runFrom(ctx context.Context, def *mscript.Definition, event idwrap.IDWrap) error {
	rc := e.newRun(ctx, def)
	rc.pushSuccessors(event, registry.PortExec)
	return rc.drain()
}

// ExecuteSingleNode runs exactly one node's side effect in isolation:
// no control edges are followed, no data edges are pulled, and property
// values come from the node's literal bag alone. Unknown node types and
// pure data producers are no-ops. A PlayerChoice emits its options but
// does not suspend, there being no walk to freeze. Events the side
// effect would raise are swallowed; isolation means no follow-on walks.
func (e *Engine) ExecuteSingleNode(ctx context.Context, def *mscript.Definition, nodeID idwrap.IDWrap) error {
	node := def.NodeByID(nodeID)
	if node == nil {
		return nil
	}
	rc := e.newRun(ctx, def)
	rc.isolated = true
	queued := len(e.queue)
	err := rc.step(frame{node: nodeID, via: registry.PortExec})
	e.queue = e.queue[:queued]
	return err
}

// SelectOption resolves the suspended conversation by choosing the option
// at index. The frozen walk is restored and the chosen branch runs first,
// followed by whatever the walk still had pending.
func (e *Engine) SelectOption(ctx context.Context, index int) error {
	pc := e.world.Conversation
	if pc == nil {
		return ErrNoConversation
	}
	if index < 0 || index >= len(pc.Ports) {
		return ErrInvalidOption
	}
	def := e.scriptByID(pc.ScriptID)
	e.world.Conversation = nil
	if def == nil {
		return nil
	}

	rc := e.newRun(ctx, def)
	for _, fr := range pc.Frames {
		rc.stack = append(rc.stack, frame{node: fr.NodeID, via: fr.Via})
	}
	rc.pushSuccessors(pc.NodeID, pc.Ports[index])
	if err := rc.drain(); err != nil {
		return err
	}
	return e.drainQueue(ctx)
}

// AdvanceTurns moves the world clock forward turn by turn. Each turn
// expires turn-scoped modifiers, resumes delays that have come due and
// fires OnTurnElapsed for game scripts whose interval divides the turn.
func (e *Engine) AdvanceTurns(ctx context.Context, turns int) error {
	var errs []error
	for i := 0; i < turns; i++ {
		e.world.AdvanceTurns(1)
		if err := e.resumeDueDelays(ctx); err != nil {
			errs = append(errs, err)
		}
		params := map[string]any{ParamTurn: e.world.Turn}
		if err := e.TriggerEvent(ctx, mnodedef.OwnerGame, "", registry.TypeOnTurnElapsed, params); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AdvanceSeconds moves the real-time clock forward and resumes delays
// that have come due.
func (e *Engine) AdvanceSeconds(ctx context.Context, d time.Duration) error {
	e.world.AdvanceSeconds(d)
	return e.resumeDueDelays(ctx)
}

// resumeDueDelays continues every parked branch whose due point has
// passed. A delay whose script is no longer loaded is dropped.
func (e *Engine) resumeDueDelays(ctx context.Context) error {
	due := make([]mgame.PendingDelay, 0)
	rest := e.world.Delays[:0]
	for _, pd := range e.world.Delays {
		if pd.Due(e.world.Turn, e.world.Seconds) {
			due = append(due, pd)
		} else {
			rest = append(rest, pd)
		}
	}
	e.world.Delays = rest

	var errs []error
	for _, pd := range due {
		def := e.scriptByID(pd.ScriptID)
		if def == nil {
			continue
		}
		rc := e.newRun(ctx, def)
		rc.pushSuccessors(pd.NodeID, registry.PortExec)
		if err := rc.drain(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.drainQueue(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// drainQueue dispatches queued triggers in arrival order. Reentrant
// calls made while a walk is running leave the queue for the outermost
// drain, so cascades never nest.
func (e *Engine) drainQueue(ctx context.Context) error {
	if e.running {
		return nil
	}
	e.running = true
	defer func() { e.running = false }()

	var errs []error
	for len(e.queue) > 0 {
		req := e.queue[0]
		e.queue = e.queue[1:]
		if err := e.dispatch(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cascade queues a follow-up event raised by an action mid-walk.
func (e *Engine) cascade(owner mnodedef.OwnerMask, ownerID, typeID string, params map[string]any) {
	e.queue = append(e.queue, triggerReq{owner: owner, ownerID: ownerID, typeID: typeID, params: params})
}

func (e *Engine) scriptByID(id idwrap.IDWrap) *mscript.Definition {
	for _, def := range e.world.Scripts {
		if def.ID == id {
			return def
		}
	}
	return nil
}

// scriptsFor selects the scripts a trigger addresses. The game owner is
// a singleton, so its owner id is ignored; every other owner matches by
// exact id.
func (e *Engine) scriptsFor(owner mnodedef.OwnerMask, ownerID string) []*mscript.Definition {
	if owner == mnodedef.OwnerGame {
		var out []*mscript.Definition
		for _, def := range e.world.Scripts {
			if def.OwnerType == mnodedef.OwnerGame {
				out = append(out, def)
			}
		}
		return out
	}
	return e.world.ScriptsFor(owner, ownerID)
}

// wiresFor returns the cached wire maps for a script, building them on
// first use. Definitions are immutable once loaded.
func (e *Engine) wiresFor(def *mscript.Definition) mscript.Wires {
	if w, ok := e.wires[def.ID]; ok {
		return w
	}
	w := mscript.BuildWires(def, e.reg)
	e.wires[def.ID] = w
	return w
}
