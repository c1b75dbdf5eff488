package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/api"
	"github.com/closetlab/wardrobe/internal/models"
)

// DealsModel is the TUI model for the deals feed. Unlike the history
// view, a failed fetch here lands on an explicit error screen with a
// retry key instead of an empty state.
type DealsModel struct {
	client  *api.DealsClient
	logger  *log.Logger
	layout  Layout
	table   table.Model
	spinner spinner.Model

	deals []models.Deal

	viewMode dealsViewMode
	err      error

	statusMsg       string
	quitting        bool
	switchToHistory bool
}

type dealsViewMode int

const (
	dealsViewLoading dealsViewMode = iota
	dealsViewTable
	dealsViewError
)

type dealsLoadedMsg struct {
	deals []models.Deal
	err   error
}

// NewDealsModel creates the deals feed TUI.
func NewDealsModel(client *api.DealsClient, logger *log.Logger) DealsModel {
	layout := DefaultLayout()

	columns := calculateDealsColumns(layout.TableWidth)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	return DealsModel{
		client:   client,
		logger:   logger,
		layout:   layout,
		table:    t,
		spinner:  NewAppSpinner(),
		viewMode: dealsViewLoading,
	}
}

// Init implements tea.Model
func (m DealsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchDeals())
}

// Update implements tea.Model
func (m DealsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetHeight(m.layout.TableHeight)
		m.table.SetColumns(calculateDealsColumns(m.layout.TableWidth))
		m.updateTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dealsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.viewMode = dealsViewError
			if m.logger != nil {
				m.logger.Error("deals fetch failed", "error", msg.err)
			}
			return m, nil
		}
		m.deals = msg.deals
		m.err = nil
		m.updateTable()
		m.viewMode = dealsViewTable
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m DealsModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "esc":
		m.switchToHistory = true
		return m, tea.Quit
	}

	switch m.viewMode {
	case dealsViewError:
		if msg.String() == "r" {
			m.viewMode = dealsViewLoading
			m.err = nil
			return m, m.fetchDeals()
		}

	case dealsViewTable:
		switch msg.String() {
		case "up", "k":
			m.table.MoveUp(1)
		case "down", "j":
			m.table.MoveDown(1)
		case "enter", "o":
			cursor := m.table.Cursor()
			if cursor >= 0 && cursor < len(m.deals) {
				_ = openURL(m.deals[cursor].ProductURL)
				m.statusMsg = "Opened product page"
			}
		case "r":
			m.viewMode = dealsViewLoading
			return m, m.fetchDeals()
		}
	}
	return m, nil
}

func (m DealsModel) fetchDeals() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		deals, err := client.FetchDeals()
		return dealsLoadedMsg{deals: deals, err: err}
	}
}

func (m *DealsModel) updateTable() {
	columns := calculateDealsColumns(m.layout.TableWidth)
	rows := make([]table.Row, len(m.deals))
	for i, d := range m.deals {
		price := d.Price
		if d.OldPrice != "" {
			price = fmt.Sprintf("%s (was %s)", d.Price, d.OldPrice)
		}
		rows[i] = table.Row{
			truncate(d.Title, columns[0].Width),
			truncate(d.BrandName, columns[1].Width),
			truncate(price, columns[2].Width),
			truncate(d.ExpiresAt, columns[3].Width),
		}
	}
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
}

// View implements tea.Model
func (m DealsModel) View() string {
	if m.quitting || m.switchToHistory {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Deals For You"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", m.layout.InnerWidth))
	b.WriteString("\n\n")

	switch m.viewMode {
	case dealsViewLoading:
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), AccentStyle.Render("Finding deals...")))

	case dealsViewError:
		b.WriteString(ErrorStyle.Render(" Couldn't load deals"))
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf(" %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(NormalStyle.Render(" Press r to try again."))

	case dealsViewTable:
		if len(m.deals) == 0 {
			b.WriteString(DimStyle.Render(" No deals right now. Check back later."))
		} else {
			b.WriteString(AccentStyle.Render(fmt.Sprintf(" %d deals", len(m.deals))))
			b.WriteString("\n\n")
			b.WriteString(m.table.View())
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(HintStyle.Render(m.statusMsg))
	}

	bordered := BorderStyle.
		Width(m.layout.InnerWidth).
		Render(b.String())

	var result strings.Builder
	result.WriteString("\n")
	result.WriteString(bordered)
	result.WriteString("\n")
	result.WriteString(" " + m.getHelpText())
	return result.String()
}

func (m DealsModel) getHelpText() string {
	switch m.viewMode {
	case dealsViewError:
		return HintStyle.Render("r: retry | Tab: history | q: quit")
	case dealsViewTable:
		return HintStyle.Render("Enter: open | r: refresh | Tab: history | q: quit")
	default:
		return HintStyle.Render("q: quit")
	}
}

// ShouldSwitchToHistory reports whether the user asked for the history view.
func (m DealsModel) ShouldSwitchToHistory() bool {
	return m.switchToHistory
}

func calculateDealsColumns(totalW int) []table.Column {
	if totalW < 70 {
		totalW = 70
	}

	brandW := 16
	priceW := 22
	expiresW := 12
	titleW := totalW - brandW - priceW - expiresW
	if titleW < 24 {
		titleW = 24
	}

	return []table.Column{
		{Title: "Deal", Width: titleW},
		{Title: "Brand", Width: brandW},
		{Title: "Price", Width: priceW},
		{Title: "Expires", Width: expiresW},
	}
}

// RunDealsBrowser starts the deals feed TUI and reports whether the user
// switched back to the history view rather than quitting.
func RunDealsBrowser(client *api.DealsClient, logger *log.Logger) (switchToHistory bool, err error) {
	model := NewDealsModel(client, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(DealsModel)
	if !ok {
		return false, nil
	}
	return m.ShouldSwitchToHistory(), nil
}
