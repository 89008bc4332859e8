// Package tui renders the read-only runtime view. It is a stateless
// presentation layer over livesync.State: every frame from the live channel
// arrives as a message, and the view re-derives itself from the latest
// state.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/decode-detroit/minerva-sub000/internal/item"
	"github.com/decode-detroit/minerva-sub000/internal/livesync"
)

// Commander is the outbound command surface of the runtime view: cue an
// event, change scene, close the program. *api.Client satisfies it.
type Commander interface {
	CueEvent(id item.ID, delay item.Delay)
	SceneChange(sceneID item.ID)
	Close()
}

// syncMsg carries a fresh runtime state from the live channel.
type syncMsg livesync.State

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	noticeStyle   = lipgloss.NewStyle().Italic(true)
	overlayStyle  = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 3).
			Border(lipgloss.DoubleBorder())
)

// Model is the viewer's bubbletea model.
type Model struct {
	commander Commander
	state     livesync.State

	width    int
	height   int
	selected int
}

// NewModel creates a viewer over the given command surface.
func NewModel(commander Commander) Model {
	return Model{commander: commander}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case syncMsg:
		m.state = livesync.State(msg)
		if m.selected >= len(m.state.Timeline) {
			m.selected = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.state.Timeline)-1 {
				m.selected++
			}
		case "enter":
			if m.selected < len(m.state.Timeline) {
				entry := m.state.Timeline[m.selected]
				m.commander.CueEvent(entry.Event.ID, item.Delay{})
			}
		case "x":
			m.commander.Close()
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	windowItems := m.state.Window.Items
	header := "Minerva"
	if m.state.CurrentScene.Description != "" {
		header = fmt.Sprintf("Minerva: %s", m.state.CurrentScene.Description)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if m.state.Notice != nil {
		b.WriteString(noticeStyle.Render(fmt.Sprintf("%s  %s",
			m.state.Notice.At.Format("15:04:05"), m.state.Notice.Message)))
		b.WriteString("\n\n")
	}

	b.WriteString(sectionStyle.Render("Timeline"))
	b.WriteString("\n")
	if len(m.state.Timeline) == 0 {
		b.WriteString("  (no upcoming events)\n")
	}
	for i, entry := range m.state.Timeline {
		line := fmt.Sprintf("  %s (in %ds)", entry.Event.Description, entry.Delay.Secs)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Statuses"))
	b.WriteString("\n")
	for _, statusID := range item.SortedIDs(statusKeys(m.state.Statuses)) {
		b.WriteString(fmt.Sprintf("  %d → %d\n", statusID, m.state.Statuses[statusID]))
	}
	b.WriteString("\n")

	if len(m.state.Notifications) > 0 {
		b.WriteString(sectionStyle.Render("Notifications"))
		b.WriteString("\n")
		for _, n := range m.state.Notifications {
			b.WriteString("  " + n.Message + "\n")
		}
		b.WriteString("\n")
	}

	if len(windowItems) > 0 {
		b.WriteString(fmt.Sprintf("%d items in window\n", len(windowItems)))
	}

	b.WriteString("\n[enter] cue  [x] close program  [q] quit\n")

	out := b.String()
	if !m.state.Connected {
		overlay := overlayStyle.Render("SERVER UNAVAILABLE\nretrying in the background")
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
		}
		return overlay
	}
	return out
}

func statusKeys(statuses map[item.ID]item.ID) []item.ID {
	keys := make([]item.ID, 0, len(statuses))
	for k := range statuses {
		keys = append(keys, k)
	}
	return keys
}

// Run wires the live channel to a program and blocks until the viewer
// exits.
func Run(commander Commander, channel *livesync.Channel) error {
	p := tea.NewProgram(NewModel(commander), tea.WithAltScreen())
	channel.SetOnChange(func(s livesync.State) { p.Send(syncMsg(s)) })
	channel.Connect()
	defer channel.Close()

	_, err := p.Run()
	return err
}
