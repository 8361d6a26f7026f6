// Package play is the interactive session host: a terminal UI that
// feeds player commands into a script engine and renders whatever the
// scripts emit. The engine stays UI-free; everything visual lives here.
package play

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/engine"
	"github.com/questwright/scriptgraph/pkg/script/stream"
)

// rawLine is one unstyled output line. Styling happens at render time
// so a resize can re-wrap the whole backlog.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool
}

// Model is the Bubble Tea model for one play session.
type Model struct {
	title  string
	eng    *engine.Engine
	traces *traceLog

	viewport viewport.Model
	input    textinput.Model
	history  *history

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
}

// consoleMsg carries one stream event pumped in from the console.
type consoleMsg struct {
	event stream.Event
}

// bootMsg carries the opening turn's output.
type bootMsg struct {
	lines []rawLine
}

// Options tunes a session before it starts.
type Options struct {
	Seed  uint64
	Trace bool
}

// Run hosts a world until the player quits. Stream output reaches the
// UI through a console subscription pumped into the program, so the
// update loop never touches the emitter directly.
func Run(title string, world *mgame.World, opts Options) error {
	console := stream.NewConsole()
	subID, events := console.Subscribe()

	traces := &traceLog{}
	engOpts := []engine.Option{
		engine.WithEmitter(console.Emitter()),
		engine.WithTrace(traces.hook),
	}
	if opts.Seed != 0 {
		engOpts = append(engOpts, engine.WithSeed(opts.Seed))
	}
	eng := engine.New(registry.New(), world, engOpts...)

	m := newModel(title, eng, traces)
	m.trace = opts.Trace
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	var g errgroup.Group
	g.Go(func() error {
		for ev := range events {
			p.Send(consoleMsg{event: ev})
		}
		return nil
	})
	g.Go(func() error {
		// Unsubscribing closes the event channel, which ends the pump.
		defer console.Unsubscribe(subID)
		_, err := p.Run()
		return err
	})
	return g.Wait()
}

func newModel(title string, eng *engine.Engine, traces *traceLog) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = stylePrompt

	m := Model{
		title:   title,
		eng:     eng,
		traces:  traces,
		input:   ti,
		history: newHistory(100),
	}
	if title != "" {
		m.rawLines = append(m.rawLines, rawLine{text: title, kind: kindTitle})
	}
	m.rawLines = append(m.rawLines,
		rawLine{text: "Type /help for commands. Enter on its own passes a turn.", kind: kindSystem})
	return m
}

// Init starts the opening turn alongside the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bootstrap())
}

// bootstrap fires the opening event once the program is running, then
// describes the player's surroundings.
func (m Model) bootstrap() tea.Cmd {
	return func() tea.Msg {
		var lines []rawLine
		err := m.eng.TriggerEvent(context.Background(), mnodedef.OwnerGame, "", registry.TypeOnGameStart, nil)
		if err != nil {
			lines = append(lines, errLine(err))
		}
		lines = append(lines, m.takeTraces()...)
		lines = append(lines, describeRoom(m.eng.World())...)
		return bootMsg{lines: lines}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.resetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case consoleMsg:
		m = m.appendEvent(msg.event)

	case bootMsg:
		m = m.appendTurn("", msg.lines)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes one submitted line. A bare Enter passes a turn,
// a number answers an open conversation, a slash is a meta command and
// everything else is a game verb.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		lines := m.doWait()
		lines = append(lines, m.takeTraces()...)
		m = m.appendTurn("", lines)
		return m, nil
	}

	m.history.push(input)
	m.history.resetCursor()

	if strings.HasPrefix(input, "/") {
		lines, quit := m.handleMeta(input)
		m = m.appendTurn(input, lines)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		m = m.appendTurn(input, m.answer(n))
		return m, nil
	}

	lines := m.handleVerb(input)
	lines = append(lines, m.takeTraces()...)
	m = m.appendTurn(input, lines)
	return m, nil
}

// answer resolves a suspended conversation with a 1-based pick.
func (m Model) answer(n int) []rawLine {
	if m.eng.World().Conversation == nil {
		return say(kindError, "There is nothing to choose right now.")
	}
	var lines []rawLine
	if err := m.eng.SelectOption(context.Background(), n-1); err != nil {
		lines = append(lines, errLine(err))
	}
	return append(lines, m.takeTraces()...)
}

// appendEvent renders one console event into the backlog. These arrive
// after the turn that raised them, pumped through the program.
func (m Model) appendEvent(ev stream.Event) Model {
	switch ev.Kind {
	case stream.EventMessage:
		m.rawLines = append(m.rawLines, rawLine{text: ev.Text, kind: kindMessage})

	case stream.EventDialogue:
		text := ev.Line.Text
		if ev.Line.Speaker != "" {
			text = ev.Line.Speaker + ": " + text
		}
		m.rawLines = append(m.rawLines, rawLine{text: text, kind: kindDialogue})

	case stream.EventOptions:
		name := ev.Choice.NpcID
		if npc, ok := m.eng.World().NpcByID(ev.Choice.NpcID); ok {
			name = npc.Name
		}
		if name != "" {
			m.rawLines = append(m.rawLines, rawLine{text: name + " waits for your answer.", kind: kindChoice})
		}
		for i, opt := range ev.Choice.Options {
			m.rawLines = append(m.rawLines, rawLine{text: fmt.Sprintf("  %d) %s", i+1, opt), kind: kindChoice})
		}

	case stream.EventCompleted:
		m.rawLines = append(m.rawLines, rawLine{text: "The adventure is complete.", kind: kindTitle})
	}

	m.refreshViewport()
	return m
}

// appendTurn starts a new turn block: separator, echoed input, then the
// turn's synchronous output. Stream output for the same turn follows as
// console events.
func (m Model) appendTurn(input string, lines []rawLine) Model {
	m.rawLines = append(m.rawLines, rawLine{})
	if input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + input, isInput: true})
	}
	m.rawLines = append(m.rawLines, lines...)
	m.refreshViewport()
	return m
}

// takeTraces drains buffered trace lines; they render only while the
// trace toggle is on but are always consumed.
func (m Model) takeTraces() []rawLine {
	traced := m.traces.take()
	if !m.trace {
		return nil
	}
	lines := make([]rawLine, 0, len(traced))
	for _, t := range traced {
		lines = append(lines, rawLine{text: t, kind: kindTrace})
	}
	return lines
}

// refreshViewport re-wraps and re-styles the whole backlog at the
// current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		if rl.isInput {
			styled = append(styled, styleInput.Render(wrapped))
			continue
		}
		styled = append(styled, renderLine(wrapped, rl.kind))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap keeps scrolling on the page keys so the arrows stay
// free for input history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

// traceLog buffers trace hook output between turns. The hook fires on
// whichever goroutine is driving the engine, the drain on the update
// loop.
type traceLog struct {
	mu    sync.Mutex
	lines []string
}

func (t *traceLog) hook(ev engine.TraceEvent) {
	t.mu.Lock()
	t.lines = append(t.lines, fmt.Sprintf("[trace] %s visit %d", ev.TypeID, ev.Visit))
	t.mu.Unlock()
}

func (t *traceLog) take() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := t.lines
	t.lines = nil
	return lines
}
