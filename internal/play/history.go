package play

// history is a bounded command history with cursor navigation. The
// cursor sits at -1 whenever the player is typing fresh input.
type history struct {
	entries []string
	max     int
	cursor  int
}

func newHistory(max int) *history {
	return &history{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// push records a submitted line. Consecutive duplicates collapse.
func (h *history) push(line string) {
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// prev steps toward older entries.
func (h *history) prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// next steps back toward the newest entry; past it the input is fresh
// again and next reports false.
func (h *history) next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

func (h *history) resetCursor() {
	h.cursor = -1
}
