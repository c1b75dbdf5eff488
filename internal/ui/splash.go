package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SplashModel is the TUI model for the startup splash screen
type SplashModel struct {
	width  int
	height int
	done   bool
}

type splashTimeoutMsg struct{}

func waitForTimeout() tea.Cmd {
	return tea.Tick(1500*time.Millisecond, func(t time.Time) tea.Msg {
		return splashTimeoutMsg{}
	})
}

func (m SplashModel) Init() tea.Cmd {
	return waitForTimeout()
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg, splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	layout := NewLayout(m.width, m.height)

	banner := []string{
		`                     _           _          `,
		` __      ____ _ _ __| |_ __ ___ | |__   ___ `,
		` \ \ /\ / / _' | '__| '_ ' _  \| '_ \ / _ \`,
		`  \ V  V / (_| | |  | | | | | | | |_) |  __/`,
		`   \_/\_/ \__,_|_|  |_| |_| |_| |_.__/ \___|`,
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for _, line := range banner {
		pad := (layout.InnerWidth - len(line)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(AccentStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	tagline := "your virtual try-on closet"
	pad := (layout.InnerWidth - len(tagline)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(DimStyle.Render(tagline))
	b.WriteString("\n")

	return BorderStyle.Width(layout.InnerWidth).Render(b.String())
}

// ShowSplash displays the splash screen briefly; any key skips it.
func ShowSplash() {
	p := tea.NewProgram(SplashModel{})
	if _, err := p.Run(); err != nil {
		// Splash is cosmetic, never fatal
		fmt.Println()
	}
}
