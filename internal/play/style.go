package play

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTitle = lipgloss.NewStyle().
			Bold(true)

	styleMessage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSpeaker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	styleRoom = lipgloss.NewStyle().
			Bold(true)

	styleDetail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind classifies an output line for styling. Events arrive typed
// from the stream, so there is no sniffing of line content.
type lineKind int

const (
	kindMessage lineKind = iota
	kindDialogue
	kindChoice
	kindRoom
	kindDetail
	kindExits
	kindSystem
	kindError
	kindTrace
	kindTitle
)

// renderLine styles one wrapped line by kind. Dialogue gets its speaker
// prefix bolded when the wrap left the colon on the first line.
func renderLine(line string, kind lineKind) string {
	switch kind {
	case kindDialogue:
		head, rest, ok := strings.Cut(line, ": ")
		if ok && !strings.Contains(head, "\n") {
			return styleSpeaker.Render(head+":") + " " + styleDialogue.Render(rest)
		}
		return styleDialogue.Render(line)
	case kindChoice:
		return styleChoice.Render(line)
	case kindRoom:
		return styleRoom.Render(line)
	case kindDetail:
		return styleDetail.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	case kindTitle:
		return styleTitle.Render(line)
	default:
		return styleMessage.Render(line)
	}
}

// wordWrap breaks text at word boundaries to fit width. Runs of
// whitespace collapse to single spaces.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wLen := len(word)
		if i == 0 {
			b.WriteString(word)
			lineLen = wLen
			continue
		}
		if lineLen+1+wLen > width {
			b.WriteString("\n")
			b.WriteString(word)
			lineLen = wLen
		} else {
			b.WriteString(" ")
			b.WriteString(word)
			lineLen += 1 + wLen
		}
	}
	return b.String()
}
