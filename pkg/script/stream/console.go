package stream

import (
	"sync"

	"github.com/questwright/scriptgraph/pkg/idwrap"
)

type EventKind int8

const (
	EventMessage EventKind = iota
	EventDialogue
	EventOptions
	EventCompleted
)

// Event is one stream item in channel form, for subscribers that want a
// single ordered feed instead of callbacks.
type Event struct {
	Kind   EventKind
	Text   string
	Line   Line
	Choice Choice
}

const consoleBuffer = 256

// Console fans stream events out to any number of channel subscribers.
// Slow subscribers drop events rather than stalling the engine.
type Console struct {
	mu   sync.Mutex
	subs map[idwrap.IDWrap]chan Event
}

func NewConsole() *Console {
	return &Console{subs: make(map[idwrap.IDWrap]chan Event)}
}

// Subscribe registers a new feed and returns its id and channel.
func (c *Console) Subscribe() (idwrap.IDWrap, <-chan Event) {
	ch := make(chan Event, consoleBuffer)
	id := idwrap.NewNow()
	c.mu.Lock()
	c.subs[id] = ch
	c.mu.Unlock()
	return id, ch
}

// Unsubscribe drops a feed and closes its channel.
func (c *Console) Unsubscribe(id idwrap.IDWrap) {
	c.mu.Lock()
	ch, ok := c.subs[id]
	if ok {
		delete(c.subs, id)
	}
	c.mu.Unlock()
	if ok {
		close(ch)
	}
}

func (c *Console) broadcast(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Emitter returns callbacks that broadcast to every subscriber.
func (c *Console) Emitter() *Emitter {
	return &Emitter{
		OnMessage:   func(text string) { c.broadcast(Event{Kind: EventMessage, Text: text}) },
		OnDialogue:  func(line Line) { c.broadcast(Event{Kind: EventDialogue, Line: line}) },
		OnOptions:   func(choice Choice) { c.broadcast(Event{Kind: EventOptions, Choice: choice}) },
		OnCompleted: func() { c.broadcast(Event{Kind: EventCompleted}) },
	}
}
