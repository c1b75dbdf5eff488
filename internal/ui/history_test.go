package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/closetlab/wardrobe/internal/api"
	"github.com/closetlab/wardrobe/internal/models"
)

// fakeHistoryService records calls and can be told to fail per operation.
type fakeHistoryService struct {
	pages map[int][]models.TryOnRecord

	addFavErr    error
	removeFavErr error
	deleteErr    error
	recordErr    error

	pageCalls      []int
	addFavCalls    []string
	removeFavCalls []string
	deleteCalls    []string
	recordCalls    []string
}

func (f *fakeHistoryService) FetchHistoryPage(page int) ([]models.TryOnRecord, error) {
	f.pageCalls = append(f.pageCalls, page)
	return f.pages[page], nil
}

func (f *fakeHistoryService) AddFavorite(productURL string) error {
	f.addFavCalls = append(f.addFavCalls, productURL)
	return f.addFavErr
}

func (f *fakeHistoryService) RemoveFavorite(productURL string) error {
	f.removeFavCalls = append(f.removeFavCalls, productURL)
	return f.removeFavErr
}

func (f *fakeHistoryService) DeleteProductHistory(productURL string) error {
	f.deleteCalls = append(f.deleteCalls, productURL)
	return f.deleteErr
}

func (f *fakeHistoryService) DeleteRecord(recordID string) error {
	f.recordCalls = append(f.recordCalls, recordID)
	return f.recordErr
}

func tryOn(url, date string, fav *bool, images ...models.TryOnImage) models.TryOnRecord {
	return models.TryOnRecord{
		IsFavorite:      fav,
		LatestTryOnDate: date,
		ProductInfo: models.ProductInfo{
			ProductName: "Red Dress",
			BrandName:   "Zara",
			ProductURL:  url,
		},
		TotalTryOns: 1,
		TryOnImages: images,
	}
}

func fullHistoryPage() []models.TryOnRecord {
	page := make([]models.TryOnRecord, api.PageSize)
	for i := range page {
		page[i] = tryOn(fmt.Sprintf("https://shop.example/p%d", i), "2024-03-01T10:00:00Z", nil,
			models.TryOnImage{URL: fmt.Sprintf("https://img/%d.png", i)})
	}
	return page
}

func newTestHistoryModel(svc *fakeHistoryService, records ...models.TryOnRecord) HistoryModel {
	m := NewHistoryModel(svc, nil, nil)
	m.store.SetRecords(records)
	m.viewMode = historyViewTable
	m.refreshTable()
	return m
}

func pressKey(m HistoryModel, key string) (HistoryModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(HistoryModel), cmd
}

func deliver(t *testing.T, m HistoryModel, cmd tea.Cmd) HistoryModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	next, _ := m.Update(cmd())
	return next.(HistoryModel)
}

// TestSearchCommitRestartsPaging verifies committing a changed search
// rewinds pagination to page 1 and launches a fresh fetch sequence.
func TestSearchCommitRestartsPaging(t *testing.T) {
	svc := &fakeHistoryService{pages: map[int][]models.TryOnRecord{}}
	m := newTestHistoryModel(svc)

	// A completed full first page leaves the pager targeting page 2.
	page, epoch, ok := m.store.BeginFetch(0, 0)
	if !ok {
		t.Fatal("BeginFetch() refused")
	}
	m.store.CompleteFetch(epoch, page, fullHistoryPage(), nil)
	m.refreshTable()
	if m.store.Pager().Page() != 2 {
		t.Fatalf("pager at page %d after a full page, want 2", m.store.Pager().Page())
	}

	m, _ = pressKey(m, "/")
	typed, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("dress")})
	m = typed.(HistoryModel)
	m, cmd := pressKey(m, "enter")

	if m.store.Pager().Page() != 1 {
		t.Errorf("pager at page %d after search change, want 1", m.store.Pager().Page())
	}
	if cmd == nil {
		t.Fatal("no fetch launched after search change")
	}
	msg, ok := cmd().(historyPageMsg)
	if !ok || msg.page != 1 {
		t.Fatalf("fetch message = %#v, want page 1", msg)
	}
	if len(svc.pageCalls) != 1 || svc.pageCalls[0] != 1 {
		t.Errorf("page calls = %v, want [1]", svc.pageCalls)
	}
}

// TestSearchUnchangedKeepsPaging verifies leaving filter mode with the
// query untouched neither rewinds the pager nor refetches.
func TestSearchUnchangedKeepsPaging(t *testing.T) {
	svc := &fakeHistoryService{pages: map[int][]models.TryOnRecord{}}
	m := newTestHistoryModel(svc)

	page, epoch, _ := m.store.BeginFetch(0, 0)
	m.store.CompleteFetch(epoch, page, fullHistoryPage(), nil)
	m.refreshTable()

	m, _ = pressKey(m, "/")
	m, cmd := pressKey(m, "enter")

	if cmd != nil {
		t.Error("refetch launched without a query change")
	}
	if m.store.Pager().Page() != 2 {
		t.Errorf("pager rewound to page %d without a query change", m.store.Pager().Page())
	}
}

// TestSearchClearRestartsPaging verifies clearing an applied search also
// counts as a query change.
func TestSearchClearRestartsPaging(t *testing.T) {
	svc := &fakeHistoryService{pages: map[int][]models.TryOnRecord{}}
	m := newTestHistoryModel(svc)

	page, epoch, _ := m.store.BeginFetch(0, 0)
	m.store.CompleteFetch(epoch, page, fullHistoryPage(), nil)
	m.searchText = "dress"
	m.searchApplied = "dress"
	m.refreshTable()

	m, _ = pressKey(m, "/")
	m, cmd := pressKey(m, "esc")

	if m.searchText != "" {
		t.Errorf("searchText = %q after clear, want empty", m.searchText)
	}
	if cmd == nil {
		t.Fatal("no fetch launched after clearing the search")
	}
	if m.store.Pager().Page() != 1 {
		t.Errorf("pager at page %d after clearing the search, want 1", m.store.Pager().Page())
	}
}

// TestFavoriteToggleRunsOffEventLoop verifies the favorite flip performs
// its remote call in a command, not inside Update, and applies the flag
// only when the completion message confirms success.
func TestFavoriteToggleRunsOffEventLoop(t *testing.T) {
	url := "https://shop.example/a"
	svc := &fakeHistoryService{}
	m := newTestHistoryModel(svc, tryOn(url, "2024-03-01T10:00:00Z", nil,
		models.TryOnImage{URL: "https://img/1.png"}))

	m, cmd := pressKey(m, "f")
	if len(svc.addFavCalls)+len(svc.removeFavCalls) != 0 {
		t.Fatal("favorite request ran inside the update loop")
	}
	if cmd == nil {
		t.Fatal("no command returned for the favorite flip")
	}
	if m.store.Groups()[0].IsFavorite {
		t.Fatal("flag flipped before the remote call confirmed")
	}

	m = deliver(t, m, cmd)
	if len(svc.addFavCalls) != 1 || svc.addFavCalls[0] != url {
		t.Errorf("add calls = %v, want one for %s", svc.addFavCalls, url)
	}
	if !m.store.Groups()[0].IsFavorite {
		t.Error("flag not set after confirmed add")
	}

	// Toggling again goes through the remove endpoint.
	m, cmd = pressKey(m, "f")
	m = deliver(t, m, cmd)
	if len(svc.removeFavCalls) != 1 {
		t.Errorf("remove calls = %v, want one", svc.removeFavCalls)
	}
	if m.store.Groups()[0].IsFavorite {
		t.Error("flag still set after confirmed remove")
	}
}

// TestFavoriteToggleFailureLeavesState verifies a failed remote flip
// leaves the flag untouched and surfaces the error.
func TestFavoriteToggleFailureLeavesState(t *testing.T) {
	url := "https://shop.example/a"
	svc := &fakeHistoryService{addFavErr: errors.New("service unavailable")}
	m := newTestHistoryModel(svc, tryOn(url, "2024-03-01T10:00:00Z", nil,
		models.TryOnImage{URL: "https://img/1.png"}))

	m, cmd := pressKey(m, "f")
	m = deliver(t, m, cmd)

	if m.store.Groups()[0].IsFavorite {
		t.Error("favorite flag flipped despite remote failure")
	}
	if !strings.Contains(m.statusMsg, "failed") {
		t.Errorf("statusMsg = %q, want a failure notice", m.statusMsg)
	}
}

// TestProductDeleteFailureKeepsConfirmOpen verifies a failed remote
// delete leaves the records intact and the confirmation open for retry.
func TestProductDeleteFailureKeepsConfirmOpen(t *testing.T) {
	url := "https://shop.example/a"
	svc := &fakeHistoryService{deleteErr: errors.New("timeout")}
	m := newTestHistoryModel(svc, tryOn(url, "2024-03-01T10:00:00Z", nil,
		models.TryOnImage{URL: "https://img/1.png"}))

	m, _ = pressKey(m, "D")
	if m.viewMode != historyViewConfirm {
		t.Fatalf("viewMode = %v after D, want confirm", m.viewMode)
	}

	m, cmd := pressKey(m, "y")
	if !m.deleting {
		t.Error("deleting flag not set while the request is in flight")
	}
	if ignored, _ := pressKey(m, "n"); ignored.viewMode != historyViewConfirm {
		t.Error("confirm inputs accepted while the delete was in flight")
	}

	m = deliver(t, m, cmd)
	if m.viewMode != historyViewConfirm || m.confirmErr == nil {
		t.Error("confirmation closed despite remote failure")
	}
	if m.store.RecordCount() != 1 {
		t.Errorf("records = %d after failed delete, want 1", m.store.RecordCount())
	}

	// Retry succeeds and closes back to the table.
	svc.deleteErr = nil
	m, cmd = pressKey(m, "y")
	m = deliver(t, m, cmd)
	if m.viewMode != historyViewTable {
		t.Errorf("viewMode = %v after confirmed delete, want table", m.viewMode)
	}
	if m.store.RecordCount() != 0 {
		t.Errorf("records = %d after confirmed delete, want 0", m.store.RecordCount())
	}
}

// TestImageDeleteWithoutRecordIDStaysLocal verifies an image with no
// server record id is removed locally without any remote call.
func TestImageDeleteWithoutRecordIDStaysLocal(t *testing.T) {
	url := "https://shop.example/a"
	svc := &fakeHistoryService{}
	m := newTestHistoryModel(svc, tryOn(url, "2024-03-01T10:00:00Z", nil,
		models.TryOnImage{URL: "https://img/1.png"},
		models.TryOnImage{URL: "https://img/2.png"}))

	m, _ = pressKey(m, "enter") // detail
	m, _ = pressKey(m, "d")
	m, cmd := pressKey(m, "y")
	m = deliver(t, m, cmd)

	if len(svc.recordCalls) != 0 {
		t.Errorf("remote record delete attempted: %v", svc.recordCalls)
	}
	if m.viewMode != historyViewDetail {
		t.Errorf("viewMode = %v, want detail (images remain)", m.viewMode)
	}
	if images := m.store.Groups()[0].Images; len(images) != 1 {
		t.Errorf("images = %d after delete, want 1", len(images))
	}
}

// TestImageDeleteRemoteFailureFallsBack verifies a failed record delete
// still removes the image locally and closes out of the emptied product.
func TestImageDeleteRemoteFailureFallsBack(t *testing.T) {
	url := "https://shop.example/a"
	svc := &fakeHistoryService{recordErr: errors.New("not found")}
	m := newTestHistoryModel(svc, tryOn(url, "2024-03-01T10:00:00Z", nil,
		models.TryOnImage{URL: "https://img/1.png", RecordID: "r1"}))

	m, _ = pressKey(m, "enter")
	m, _ = pressKey(m, "d")
	m, cmd := pressKey(m, "y")
	m = deliver(t, m, cmd)

	if len(svc.recordCalls) != 1 || svc.recordCalls[0] != "r1" {
		t.Errorf("record delete calls = %v, want [r1]", svc.recordCalls)
	}
	if len(m.store.Groups()) != 0 {
		t.Error("image kept despite local fallback")
	}
	if m.viewMode != historyViewTable {
		t.Errorf("viewMode = %v after last image removed, want table", m.viewMode)
	}
}
