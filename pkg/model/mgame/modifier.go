package mgame

import "github.com/questwright/scriptgraph/pkg/idwrap"

// DurationKind scopes how long a stat modifier stays applied.
type DurationKind int8

const (
	DurationPermanent DurationKind = iota
	DurationTurns
	DurationSeconds
)

func (k DurationKind) String() string {
	switch k {
	case DurationTurns:
		return "Turns"
	case DurationSeconds:
		return "Seconds"
	}
	return "Permanent"
}

// ParseDurationKind resolves a duration-kind name; unknown and blank
// names fall back to Permanent.
func ParseDurationKind(s string) DurationKind {
	switch s {
	case "Turns", "turns":
		return DurationTurns
	case "Seconds", "seconds":
		return DurationSeconds
	}
	return DurationPermanent
}

// Modifier is a named, possibly timed delta on one player stat. Timed
// modifiers measure against the world's logical clock: turn-scoped ones
// count down per turn, second-scoped ones compare elapsed game seconds
// since application.
type Modifier struct {
	Name      string
	Stat      string
	Delta     int
	Kind      DurationKind
	Remaining int     // turns left, or total seconds for DurationSeconds
	AppliedAt float64 // world seconds at application, DurationSeconds only
}

// IsExpired reports whether the modifier has run out at the given clock.
// Permanent modifiers never expire.
func (m Modifier) IsExpired(turn int, seconds float64) bool {
	switch m.Kind {
	case DurationTurns:
		return m.Remaining <= 0
	case DurationSeconds:
		return seconds-m.AppliedAt > float64(m.Remaining)
	}
	return false
}

// PendingDelay parks one continuation branch at a Delay node. The rest
// of the triggering walk keeps running; when the clock catches up the
// interpreter resumes from the delay node's execution output.
type PendingDelay struct {
	ScriptID idwrap.IDWrap
	NodeID   idwrap.IDWrap
	Kind     DurationKind
	// DueTurn applies to turn delays, DueSeconds to second delays,
	// measured on the world's logical clock.
	DueTurn    int
	DueSeconds float64
}

// Due reports whether the delay has elapsed at the given clock.
func (p PendingDelay) Due(turn int, seconds float64) bool {
	if p.Kind == DurationSeconds {
		return seconds >= p.DueSeconds
	}
	return turn >= p.DueTurn
}

// Frame is one frozen traversal step: a node and the input port it will
// be entered through.
type Frame struct {
	NodeID idwrap.IDWrap
	Via    string
}

// PendingChoice freezes a whole graph walk at a player-choice node until
// the host selects an option. Options holds the presented prompts and
// Ports the execution output each one resumes from; Frames holds the
// not-yet-visited remainder of the walk's stack, bottom first. Resuming
// restores Frames and pushes the chosen branch on top so it runs first.
type PendingChoice struct {
	ScriptID idwrap.IDWrap
	NodeID   idwrap.IDWrap
	NpcID    string
	Options  []string
	Ports    []string
	Frames   []Frame
}
