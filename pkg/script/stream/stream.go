// Package stream carries the interpreter's observable side channels:
// narration messages, dialogue lines, player option prompts and the
// adventure-completed signal. The engine writes, hosts subscribe.
package stream

// Line is one dialogue utterance.
type Line struct {
	Speaker string
	Text    string
}

// Choice is a player-options prompt; the walk that raised it stays
// suspended until the host answers with an option index.
type Choice struct {
	NpcID   string
	Options []string
}

// Emitter is the callback bundle the engine pushes into. Any field may
// be nil; a nil Emitter drops everything.
type Emitter struct {
	OnMessage   func(text string)
	OnDialogue  func(line Line)
	OnOptions   func(choice Choice)
	OnCompleted func()
}

func (e *Emitter) Message(text string) {
	if e == nil || e.OnMessage == nil {
		return
	}
	e.OnMessage(text)
}

func (e *Emitter) Dialogue(line Line) {
	if e == nil || e.OnDialogue == nil {
		return
	}
	e.OnDialogue(line)
}

func (e *Emitter) Options(choice Choice) {
	if e == nil || e.OnOptions == nil {
		return
	}
	e.OnOptions(choice)
}

func (e *Emitter) Completed() {
	if e == nil || e.OnCompleted == nil {
		return
	}
	e.OnCompleted()
}

// Recorder captures everything emitted, in order, for assertions.
type Recorder struct {
	Messages    []string
	Lines       []Line
	Choices     []Choice
	Completions int
}

// Emitter returns callbacks that append into the recorder.
func (r *Recorder) Emitter() *Emitter {
	return &Emitter{
		OnMessage:   func(text string) { r.Messages = append(r.Messages, text) },
		OnDialogue:  func(line Line) { r.Lines = append(r.Lines, line) },
		OnOptions:   func(choice Choice) { r.Choices = append(r.Choices, choice) },
		OnCompleted: func() { r.Completions++ },
	}
}
