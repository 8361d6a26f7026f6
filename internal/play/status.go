package play

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/questwright/scriptgraph/pkg/model/mgame"
)

// renderStatusBar draws the one-line bar between the log and the input:
// where the player is on the left, vitals and the clock on the right.
func (m Model) renderStatusBar() string {
	w := m.eng.World()

	roomName := w.Player.Room
	if room, ok := w.RoomByID(w.Player.Room); ok {
		roomName = nameOf(room.Name, room.ID)
	}

	left := " " + roomName
	if m.title != "" {
		left = " " + m.title + " | " + roomName
	}
	if w.Conversation != nil {
		left += fmt.Sprintf(" | choose 1-%d", len(w.Conversation.Options))
	}

	right := fmt.Sprintf("HP %d/%d | $%d | T:%d ",
		w.EffectiveStat(mgame.StatHealth),
		w.EffectiveStat(mgame.StatMaxHealth),
		w.Player.Money,
		w.Turn)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
