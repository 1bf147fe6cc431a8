package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	historyLines = 8
	rawLines     = 5
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	fieldNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(10)

	nowPlayingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("87"))

	// Station identification jingles get their own look so they are
	// never mistaken for a song.
	stationIDStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("214"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	rawStyle = lipgloss.NewStyle().
			Faint(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m model) View() string {
	if m.quitting {
		return "stopping...\n"
	}

	switch m.state {
	case statePicking:
		return m.channels.View()
	case stateConnecting:
		return fmt.Sprintf("\n  %s Tuning in to %s...\n\n%s",
			m.spin.View(),
			headingStyle.Render(m.current.Title),
			helpStyle.Render("  s: back to channels • q: quit"))
	default:
		return m.playingView()
	}
}

func (m model) playingView() string {
	var b strings.Builder

	b.WriteString("  " + headingStyle.Render(m.current.Title) + "\n\n")

	if m.art != "" {
		b.WriteString(m.art + "\n")
	}

	for _, h := range m.headerFields {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			fieldNameStyle.Render(h.Field.String()), h.Value))
	}
	if len(m.headerFields) > 0 {
		b.WriteString("\n")
	}

	if m.nowPlaying.title != "" {
		style := nowPlayingStyle
		if m.nowPlaying.stationID && m.tuner.cfg.HighlightStationID {
			style = stationIDStyle
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.nowPlaying.at.Format("15:04:05"),
			style.Render(m.nowPlaying.title)))
	} else {
		b.WriteString("  waiting for track info...\n")
	}

	for i := len(m.history) - 1; i >= 0; i-- {
		t := m.history[i]
		title := t.title
		if t.stationID {
			title = title + " (station id)"
		}
		b.WriteString(historyStyle.Render(fmt.Sprintf("  %s %s",
			t.at.Format("15:04:05"), title)) + "\n")
	}

	if len(m.rawTail) > 0 {
		b.WriteString("\n")
		for _, line := range m.rawTail {
			b.WriteString(rawStyle.Render("  | "+line) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("  s: back to channels • q: quit") + "\n")
	return b.String()
}
