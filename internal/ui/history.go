package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/api"
	"github.com/closetlab/wardrobe/internal/db"
	"github.com/closetlab/wardrobe/internal/history"
	"github.com/closetlab/wardrobe/internal/models"
)

// HistoryModel is the TUI model for browsing the try-on history.
type HistoryModel struct {
	store     *history.Store
	client    history.Service
	cache     *db.DB // nil disables offline cache
	logger    *log.Logger
	layout    Layout
	table     table.Model
	textInput textinput.Model
	spinner   spinner.Model

	// Query state. Filtering and sorting apply client-side to the
	// accumulated cards, but committing a changed search additionally
	// rewinds pagination and restarts the fetch sequence from page 1.
	searchText    string
	searchApplied string // last committed search, for change detection
	sortOrder     history.SortOrder
	favoritesOnly bool

	// View mode
	viewMode historyViewMode

	// Cards currently backing the table rows
	visible []models.GroupedProduct

	// Detail view state
	detailKey   string
	imageCursor int

	// Delete confirmation state
	confirmKind  confirmKind
	confirmKey   string
	confirmImage models.GroupedImage
	confirmErr   error
	deleting     bool // remote delete in flight, confirm inputs disabled

	// UI state
	statusMsg         string
	offline           bool
	quitting          bool
	switchToDeals     bool
	layoutInitialized bool
}

type historyViewMode int

const (
	historyViewLoading historyViewMode = iota // Initial page fetch in flight
	historyViewTable                          // Grouped product cards
	historyViewFilter                         // Search input overlay
	historyViewDetail                         // Images of one product
	historyViewConfirm                        // Delete confirmation overlay
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmProduct
	confirmImage
)

// Messages
type historyPageMsg struct {
	epoch   int
	page    int
	records []models.TryOnRecord
	err     error
}

type productDeleteDoneMsg struct {
	key string
	err error
}

type imageDeleteDoneMsg struct {
	key string
	img models.GroupedImage
	err error
}

type favoriteToggleDoneMsg struct {
	key      string
	name     string
	favorite bool // the requested state, applied only on success
	err      error
}

// NewHistoryModel creates the history browser TUI.
func NewHistoryModel(client history.Service, cache *db.DB, logger *log.Logger) HistoryModel {
	ti := textinput.New()
	ti.Placeholder = "Search by product or brand..."
	ti.CharLimit = 100
	ti.TextStyle = NormalStyle
	ti.PromptStyle = NormalStyle

	layout := DefaultLayout()

	columns := calculateHistoryColumns(layout.TableWidth)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	return HistoryModel{
		store:     history.NewStore(api.PageSize, logger),
		client:    client,
		cache:     cache,
		logger:    logger,
		layout:    layout,
		table:     t,
		textInput: ti,
		spinner:   NewAppSpinner(),
		viewMode:  historyViewLoading,
	}
}

// Init implements tea.Model
func (m HistoryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.maybeFetch())
}

// Update implements tea.Model
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetHeight(m.layout.TableHeight)
		m.table.SetColumns(calculateHistoryColumns(m.layout.TableWidth))
		m.textInput.Width = m.layout.InnerWidth - 12
		m.refreshTable()
		m.layoutInitialized = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case historyPageMsg:
		return m.handlePageMsg(msg)

	case productDeleteDoneMsg:
		return m.handleProductDeleteDone(msg)

	case imageDeleteDoneMsg:
		return m.handleImageDeleteDone(msg)

	case favoriteToggleDoneMsg:
		return m.handleFavoriteToggleDone(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m HistoryModel) handlePageMsg(msg historyPageMsg) (tea.Model, tea.Cmd) {
	hadRecords := m.store.RecordCount() > 0
	m.store.CompleteFetch(msg.epoch, msg.page, msg.records, msg.err)

	if msg.err != nil {
		if !hadRecords {
			// First page failed: fall back to the offline cache if we
			// have one, otherwise land on the empty state.
			if m.cache != nil {
				if cached, cacheErr := m.cache.LoadRecords(); cacheErr == nil && len(cached) > 0 {
					m.store.SetRecords(cached)
					m.offline = true
					m.statusMsg = fmt.Sprintf("Offline: showing %d cached try-ons", len(cached))
				}
			}
			if errors.Is(msg.err, api.ErrUnauthorized) {
				m.statusMsg = "Session expired. Restart with a fresh token."
			}
		}
		m.refreshTable()
		if m.viewMode == historyViewLoading {
			m.viewMode = historyViewTable
		}
		return m, nil
	}

	m.offline = false
	if m.cache != nil {
		if err := m.cache.SaveRecords(m.store.Records()); err != nil && m.logger != nil {
			m.logger.Warn("cache write failed", "error", err)
		}
	}

	m.refreshTable()
	if m.viewMode == historyViewLoading {
		m.viewMode = historyViewTable
	}
	return m, nil
}

func (m HistoryModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case historyViewLoading:
		return m.handleLoadingKeys(msg)
	case historyViewTable:
		return m.handleTableKeys(msg)
	case historyViewFilter:
		return m.handleFilterKeys(msg)
	case historyViewDetail:
		return m.handleDetailKeys(msg)
	case historyViewConfirm:
		return m.handleConfirmKeys(msg)
	default:
		return m, nil
	}
}

func (m HistoryModel) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m HistoryModel) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.switchToDeals = true
		return m, tea.Quit

	case "up", "k":
		m.table.MoveUp(1)
		return m, nil

	case "down", "j":
		m.table.MoveDown(1)
		return m, m.maybeFetch()

	case "enter", "v":
		if g, ok := m.selectedGroup(); ok {
			m.detailKey = g.ProductURL
			m.imageCursor = 0
			m.viewMode = historyViewDetail
		}
		return m, nil

	case "o":
		if g, ok := m.selectedGroup(); ok && g.ProductURL != models.UnknownProductKey {
			_ = openURL(g.ProductURL)
			m.statusMsg = "Opened product page"
		}
		return m, nil

	case "/":
		m.viewMode = historyViewFilter
		m.textInput.SetValue(m.searchText)
		m.textInput.Focus()
		return m, textinput.Blink

	case "s":
		m.sortOrder = m.sortOrder.Cycle()
		m.statusMsg = fmt.Sprintf("Sort: %s", m.sortOrder)
		m.refreshTable()
		return m, nil

	case "F":
		m.favoritesOnly = !m.favoritesOnly
		if m.favoritesOnly {
			m.statusMsg = "Showing favorites only"
		} else {
			m.statusMsg = "Showing all try-ons"
		}
		m.refreshTable()
		return m, nil

	case "f":
		if g, ok := m.selectedGroup(); ok {
			return m, m.toggleFavorite(g)
		}
		return m, nil

	case "D":
		if g, ok := m.selectedGroup(); ok {
			m.confirmKind = confirmProduct
			m.confirmKey = g.ProductURL
			m.confirmErr = nil
			m.viewMode = historyViewConfirm
		}
		return m, nil

	case "r":
		m.store.ResetQuery()
		m.statusMsg = "Refreshing..."
		return m, m.maybeFetch()
	}
	return m, nil
}

func (m HistoryModel) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.viewMode = historyViewTable
		m.textInput.Blur()
		cmd := m.commitSearch()
		return m, cmd

	case "esc":
		// Clear the search and leave filter mode
		m.searchText = ""
		m.textInput.SetValue("")
		m.textInput.Blur()
		m.viewMode = historyViewTable
		m.refreshTable()
		cmd := m.commitSearch()
		return m, cmd

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		// Filter as you type
		if m.textInput.Value() != m.searchText {
			m.searchText = m.textInput.Value()
			m.refreshTable()
		}
		return m, cmd
	}
}

func (m HistoryModel) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g, ok := m.detailGroup()
	if !ok {
		m.viewMode = historyViewTable
		return m, nil
	}

	switch msg.String() {
	case "esc", "v":
		m.viewMode = historyViewTable
		return m, nil

	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.imageCursor > 0 {
			m.imageCursor--
		}
		return m, nil

	case "down", "j":
		if m.imageCursor < len(g.Images)-1 {
			m.imageCursor++
		}
		return m, nil

	case "enter", "o":
		if m.imageCursor < len(g.Images) {
			_ = openURL(g.Images[m.imageCursor].URL)
			m.statusMsg = "Opened image"
		}
		return m, nil

	case "p":
		if g.ProductURL != models.UnknownProductKey {
			_ = openURL(g.ProductURL)
			m.statusMsg = "Opened product page"
		}
		return m, nil

	case "f":
		return m, m.toggleFavorite(g)

	case "d":
		if m.imageCursor < len(g.Images) {
			m.confirmKind = confirmImage
			m.confirmKey = g.ProductURL
			m.confirmImage = g.Images[m.imageCursor]
			m.confirmErr = nil
			m.viewMode = historyViewConfirm
		}
		return m, nil
	}
	return m, nil
}

func (m HistoryModel) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Inputs are disabled while the delete request is in flight.
	if m.deleting {
		return m, nil
	}

	switch msg.String() {
	case "y", "enter":
		return m.startDelete()

	case "n", "esc":
		m.confirmKind = confirmNone
		m.confirmErr = nil
		if m.confirmImage.URL != "" {
			m.confirmImage = models.GroupedImage{}
			m.viewMode = historyViewDetail
		} else {
			m.viewMode = historyViewTable
		}
		return m, nil
	}
	return m, nil
}

// startDelete launches the confirmed remote delete. Local state is only
// touched when the completion message arrives.
func (m HistoryModel) startDelete() (tea.Model, tea.Cmd) {
	m.deleting = true
	m.confirmErr = nil
	client := m.client

	switch m.confirmKind {
	case confirmProduct:
		key := m.confirmKey
		return m, func() tea.Msg {
			return productDeleteDoneMsg{key: key, err: client.DeleteProductHistory(key)}
		}

	case confirmImage:
		key := m.confirmKey
		img := m.confirmImage
		return m, func() tea.Msg {
			var err error
			if img.RecordID != "" {
				err = client.DeleteRecord(img.RecordID)
			}
			return imageDeleteDoneMsg{key: key, img: img, err: err}
		}
	}

	m.deleting = false
	return m, nil
}

// handleProductDeleteDone applies a finished product delete. Failure keeps
// the confirmation open with the error so the user can retry or back out.
func (m HistoryModel) handleProductDeleteDone(msg productDeleteDoneMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	if msg.err != nil {
		m.confirmErr = msg.err
		if m.logger != nil {
			m.logger.Error("product delete failed", "product", msg.key, "error", msg.err)
		}
		return m, nil
	}

	m.store.RemoveProduct(msg.key)
	m.statusMsg = "Product history deleted"
	m.closeConfirm(historyViewTable)
	m.saveCache()
	m.refreshTable()
	return m, nil
}

// handleImageDeleteDone applies a finished image delete. A failed record
// delete (or one that never ran for lack of a record id) still removes the
// image locally; the gap stays visible in the log.
func (m HistoryModel) handleImageDeleteDone(msg imageDeleteDoneMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	if m.logger != nil {
		if msg.err != nil {
			m.logger.Warn("record delete failed, removing image locally only", "record", msg.img.RecordID, "error", msg.err)
		} else if msg.img.RecordID == "" {
			m.logger.Warn("image has no record id, removing locally only", "product", msg.key, "url", msg.img.URL)
		}
	}

	if m.store.RemoveImage(msg.key, msg.img) {
		m.statusMsg = "Last image deleted, product removed"
		m.closeConfirm(historyViewTable)
	} else {
		m.statusMsg = "Image deleted"
		m.closeConfirm(historyViewDetail)
	}
	if m.imageCursor > 0 {
		m.imageCursor--
	}
	m.saveCache()
	m.refreshTable()
	return m, nil
}

func (m *HistoryModel) closeConfirm(next historyViewMode) {
	m.confirmKind = confirmNone
	m.confirmKey = ""
	m.confirmImage = models.GroupedImage{}
	m.confirmErr = nil
	m.viewMode = next
}

// commitSearch runs when filter mode closes. A changed query rewinds
// pagination and starts a fresh fetch sequence from page 1; any page
// still in flight for the old sequence lands in a stale epoch and is
// discarded. Leaving filter mode with the query untouched does nothing.
func (m *HistoryModel) commitSearch() tea.Cmd {
	if m.searchText == m.searchApplied {
		return nil
	}
	m.searchApplied = m.searchText
	m.store.ResetQuery()
	return m.maybeFetch()
}

// toggleFavorite launches the remote flip of a product's favorite flag.
// The target state is the opposite of the current merged state; local
// records change only when the completion message confirms success.
func (m *HistoryModel) toggleFavorite(g models.GroupedProduct) tea.Cmd {
	client := m.client
	key := g.ProductURL
	name := g.DisplayName()
	target := !g.IsFavorite
	return func() tea.Msg {
		var err error
		if target {
			err = client.AddFavorite(key)
		} else {
			err = client.RemoveFavorite(key)
		}
		return favoriteToggleDoneMsg{key: key, name: name, favorite: target, err: err}
	}
}

func (m HistoryModel) handleFavoriteToggleDone(msg favoriteToggleDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMsg = fmt.Sprintf("Favorite update failed: %v", msg.err)
		if m.logger != nil {
			m.logger.Error("favorite toggle failed", "product", msg.key, "error", msg.err)
		}
		return m, nil
	}

	m.store.SetFavorite(msg.key, msg.favorite)
	if msg.favorite {
		m.statusMsg = fmt.Sprintf("Added %s to favorites", msg.name)
	} else {
		m.statusMsg = fmt.Sprintf("Removed %s from favorites", msg.name)
	}
	m.saveCache()
	m.refreshTable()
	return m, nil
}

// maybeFetch asks the store whether the cursor position warrants the next
// page and, if so, launches the fetch. Safe to call on every scroll step.
func (m *HistoryModel) maybeFetch() tea.Cmd {
	page, epoch, ok := m.store.BeginFetch(m.table.Cursor(), len(m.visible))
	if !ok {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		records, err := client.FetchHistoryPage(page)
		return historyPageMsg{epoch: epoch, page: page, records: records, err: err}
	}
}

func (m *HistoryModel) saveCache() {
	if m.cache == nil {
		return
	}
	if err := m.cache.SaveRecords(m.store.Records()); err != nil && m.logger != nil {
		m.logger.Warn("cache write failed", "error", err)
	}
}

// refreshTable rebuilds the table rows from the current query view,
// keeping the cursor on a valid row.
func (m *HistoryModel) refreshTable() {
	m.visible = m.store.View(m.searchText, m.sortOrder, m.favoritesOnly)

	columns := calculateHistoryColumns(m.layout.TableWidth)
	rows := make([]table.Row, len(m.visible))
	for i, g := range m.visible {
		fav := " "
		if g.IsFavorite {
			fav = "♥"
		}
		price := "-"
		if g.Info.Price != "" {
			price = g.Info.Price
		}
		rows[i] = table.Row{
			fav,
			truncate(g.DisplayBrand(), columns[1].Width),
			truncate(g.DisplayName(), columns[2].Width),
			truncate(price, columns[3].Width),
			fmt.Sprintf("%d", g.TotalTryOns),
			truncate(formatRecordDate(g.LatestTimestamp), columns[5].Width),
		}
	}
	m.table.SetColumns(columns)
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m HistoryModel) selectedGroup() (models.GroupedProduct, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return models.GroupedProduct{}, false
	}
	return m.visible[cursor], true
}

// detailGroup resolves the product behind the open detail view from the
// live projection, so mutations are reflected immediately.
func (m HistoryModel) detailGroup() (models.GroupedProduct, bool) {
	for _, g := range m.store.Groups() {
		if g.ProductURL == m.detailKey {
			return g, true
		}
	}
	return models.GroupedProduct{}, false
}

// View implements tea.Model
func (m HistoryModel) View() string {
	if m.quitting || m.switchToDeals {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Try-On History"))
	if m.offline {
		b.WriteString(DimStyle.Render("  (offline)"))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", m.layout.InnerWidth))
	b.WriteString("\n\n")

	switch m.viewMode {
	case historyViewLoading:
		b.WriteString(m.renderLoadingView())
	case historyViewTable, historyViewFilter:
		b.WriteString(m.renderTableView())
	case historyViewDetail:
		b.WriteString(m.renderDetailView())
	case historyViewConfirm:
		b.WriteString(m.renderConfirmView())
	}

	if m.viewMode == historyViewFilter {
		b.WriteString("\n\n")
		b.WriteString(AccentStyle.Render(" Search: "))
		b.WriteString(m.textInput.View())
	}

	if m.statusMsg != "" && m.viewMode != historyViewConfirm {
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

func (m HistoryModel) renderLoadingView() string {
	return fmt.Sprintf("%s %s", m.spinner.View(), AccentStyle.Render("Loading your try-on history..."))
}

func (m HistoryModel) renderTableView() string {
	var b strings.Builder

	info := fmt.Sprintf(" %d products, %d try-ons", len(m.visible), m.store.RecordCount())
	if m.searchText != "" {
		info += fmt.Sprintf("  |  Search: %q", m.searchText)
	}
	if m.favoritesOnly {
		info += "  |  Favorites"
	}
	if m.sortOrder != history.SortNone {
		info += fmt.Sprintf("  |  Sort: %s", m.sortOrder)
	}
	b.WriteString(AccentStyle.Render(info))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(DimStyle.Render(m.emptyMessage()))
		return b.String()
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	pager := m.store.Pager()
	switch {
	case pager.Loading():
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), DimStyle.Render("Loading more...")))
	case !pager.HasMore():
		b.WriteString(DimStyle.Render(" You're all caught up"))
	default:
		b.WriteString(DimStyle.Render(" Scroll down for more"))
	}

	return b.String()
}

func (m HistoryModel) emptyMessage() string {
	if m.searchText != "" || m.favoritesOnly {
		return " Nothing matches the current filters."
	}
	return " No try-ons yet. Try something on to see it here."
}

func (m HistoryModel) renderDetailView() string {
	g, ok := m.detailGroup()
	if !ok {
		return DimStyle.Render(" Product no longer in history")
	}

	var b strings.Builder
	if g.IsFavorite {
		b.WriteString(FavoriteStyle.Render(" ♥ "))
	} else {
		b.WriteString("   ")
	}
	b.WriteString(TitleStyle.Render(g.DisplayName()))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render("   " + g.DisplayBrand()))
	if g.Info.Price != "" {
		b.WriteString(DimStyle.Render("  |  " + g.Info.Price))
	}
	if domain := g.DisplayDomain(); domain != "" {
		b.WriteString(DimStyle.Render("  |  " + domain))
	}
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(fmt.Sprintf("   %d try-ons, last %s", g.TotalTryOns, formatRecordDate(g.LatestTimestamp))))
	b.WriteString("\n\n")

	b.WriteString(DimStyle.Render(fmt.Sprintf(" Images (%d, newest first):", len(g.Images))))
	b.WriteString("\n")

	visible := m.layout.TableHeight
	start := 0
	if m.imageCursor >= visible {
		start = m.imageCursor - visible + 1
	}
	end := start + visible
	if end > len(g.Images) {
		end = len(g.Images)
	}

	for i := start; i < end; i++ {
		img := g.Images[i]
		line := fmt.Sprintf("  %s  %s", formatRecordDate(img.Timestamp), truncate(img.URL, m.layout.InnerWidth-26))
		if i == m.imageCursor {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(NormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(g.Images) > visible {
		b.WriteString(DimStyle.Render(fmt.Sprintf("   [%d-%d of %d]", start+1, end, len(g.Images))))
		b.WriteString("\n")
	}

	return b.String()
}

func (m HistoryModel) renderConfirmView() string {
	var b strings.Builder

	switch m.confirmKind {
	case confirmProduct:
		name := m.confirmKey
		for _, g := range m.store.Groups() {
			if g.ProductURL == m.confirmKey {
				name = g.DisplayName()
				break
			}
		}
		b.WriteString(TitleStyle.Render(" Delete all try-ons?"))
		b.WriteString("\n\n")
		b.WriteString(NormalStyle.Render(fmt.Sprintf(" Every try-on of %s will be removed.", name)))
	case confirmImage:
		b.WriteString(TitleStyle.Render(" Delete this image?"))
		b.WriteString("\n\n")
		b.WriteString(NormalStyle.Render(" The generated try-on image will be removed."))
	}

	b.WriteString("\n\n")
	switch {
	case m.deleting:
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), DimStyle.Render("Deleting...")))
	case m.confirmErr != nil:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf(" Delete failed: %v", m.confirmErr)))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(" y: retry | n: cancel"))
	default:
		b.WriteString(DimStyle.Render(" y: delete | n: cancel"))
	}
	return b.String()
}

func (m HistoryModel) getHelpText() string {
	switch m.viewMode {
	case historyViewLoading:
		return HintStyle.Render("q: quit")
	case historyViewTable:
		return HintStyle.Render("Enter: images | f: favorite | F: favorites | /: search | s: sort | o: open | D: delete | r: refresh | Tab: deals | q: quit")
	case historyViewFilter:
		return HintStyle.Render("Enter: apply | Esc: clear")
	case historyViewDetail:
		return HintStyle.Render("j/k: images | Enter: open | p: product | f: favorite | d: delete image | Esc: back")
	case historyViewConfirm:
		return HintStyle.Render("y: confirm | n: cancel")
	default:
		return ""
	}
}

// ShouldSwitchToDeals reports whether the user asked for the deals view.
func (m HistoryModel) ShouldSwitchToDeals() bool {
	return m.switchToDeals
}

func calculateHistoryColumns(totalW int) []table.Column {
	if totalW < 70 {
		totalW = 70
	}

	favW := 3
	priceW := 12
	tryOnsW := 8
	dateW := 12
	fixedTotal := favW + priceW + tryOnsW + dateW

	remaining := totalW - fixedTotal
	brandW := remaining / 3
	nameW := remaining - brandW

	return []table.Column{
		{Title: "♥", Width: favW},
		{Title: "Brand", Width: brandW},
		{Title: "Product", Width: nameW},
		{Title: "Price", Width: priceW},
		{Title: "Try-Ons", Width: tryOnsW},
		{Title: "Last Worn", Width: dateW},
	}
}

// formatRecordDate shortens a record timestamp for table display.
func formatRecordDate(ts string) string {
	t, err := models.ParseTimestamp(ts)
	if err != nil {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format("2006-01-02")
}

// RunHistoryBrowser starts the try-on history TUI and reports whether the
// user switched to the deals view rather than quitting.
func RunHistoryBrowser(client history.Service, cache *db.DB, logger *log.Logger) (switchToDeals bool, err error) {
	model := NewHistoryModel(client, cache, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.ShouldSwitchToDeals(), nil
}
