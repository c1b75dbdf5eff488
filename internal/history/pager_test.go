package history

import "testing"

// TestPagerEndDetection verifies end-of-data is inferred from page size:
// a full page keeps pagination alive, a short page exhausts it.
func TestPagerEndDetection(t *testing.T) {
	tests := []struct {
		name        string
		resultCount int
		wantMore    bool
		wantState   PageState
	}{
		{"full page", 10, true, StateIdle},
		{"short page", 7, false, StateExhausted},
		{"empty page", 0, false, StateExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager(10)
			if _, ok := p.Begin(); !ok {
				t.Fatal("Begin() refused the initial fetch")
			}
			hasMore := p.Finish(tt.resultCount)
			if hasMore != tt.wantMore {
				t.Errorf("Finish(%d) = %v, want %v", tt.resultCount, hasMore, tt.wantMore)
			}
			if p.State() != tt.wantState {
				t.Errorf("state = %v, want %v", p.State(), tt.wantState)
			}
		})
	}
}

// TestPagerNoDoubleFetch verifies the state machine refuses a second
// Begin while a fetch is in flight — the race the boolean guards allowed.
func TestPagerNoDoubleFetch(t *testing.T) {
	p := NewPager(10)

	page, ok := p.Begin()
	if !ok || page != 1 {
		t.Fatalf("Begin() = (%d, %v), want (1, true)", page, ok)
	}
	if _, ok := p.Begin(); ok {
		t.Error("Begin() allowed a concurrent fetch while loading")
	}

	p.Finish(10)
	page, ok = p.Begin()
	if !ok || page != 2 {
		t.Errorf("Begin() after full page = (%d, %v), want (2, true)", page, ok)
	}
}

// TestPagerExhaustedRefuses verifies no fetch fires once data ran out.
func TestPagerExhaustedRefuses(t *testing.T) {
	p := NewPager(10)
	p.Begin()
	p.Finish(3)

	if _, ok := p.Begin(); ok {
		t.Error("Begin() allowed a fetch in Exhausted state")
	}
	if p.ShouldFetch(99, 100) {
		t.Error("ShouldFetch() = true in Exhausted state")
	}
}

// TestPagerFailReturnsToIdle verifies a failed fetch keeps the page and
// stays retryable instead of flipping to Exhausted.
func TestPagerFailReturnsToIdle(t *testing.T) {
	p := NewPager(10)
	p.Begin()
	p.Finish(10)

	page, _ := p.Begin()
	p.Fail()

	if p.State() != StateIdle {
		t.Errorf("state after Fail() = %v, want idle", p.State())
	}
	retryPage, ok := p.Begin()
	if !ok || retryPage != page {
		t.Errorf("retry Begin() = (%d, %v), want (%d, true)", retryPage, ok, page)
	}
}

// TestPagerResetLatch verifies the initial-fetch latch: page 1 fires once
// per query, and only a query reset re-arms it.
func TestPagerResetLatch(t *testing.T) {
	p := NewPager(10)

	if !p.ShouldFetch(0, 0) {
		t.Fatal("initial ShouldFetch() = false, want true")
	}
	p.Begin()
	p.Finish(10)

	// Cursor at the top of a long list: no refetch on re-render.
	if p.ShouldFetch(0, 50) {
		t.Error("ShouldFetch() fired with cursor far from the end")
	}

	p.Reset()
	if p.Page() != 1 {
		t.Errorf("page after Reset() = %d, want 1", p.Page())
	}
	if p.Started() {
		t.Error("Started() = true after Reset()")
	}
	if !p.ShouldFetch(0, 50) {
		t.Error("ShouldFetch() = false after Reset(), want fresh page-1 fetch")
	}
}

// TestPagerScrollThreshold verifies the lookahead window near the list end.
func TestPagerScrollThreshold(t *testing.T) {
	p := NewPager(10)
	p.Begin()
	p.Finish(10)

	tests := []struct {
		cursor, total int
		want          bool
	}{
		{0, 10, false},
		{6, 10, false},
		{7, 10, true}, // within ScrollLookahead of the end
		{9, 10, true},
	}
	for _, tt := range tests {
		if got := p.ShouldFetch(tt.cursor, tt.total); got != tt.want {
			t.Errorf("ShouldFetch(%d, %d) = %v, want %v", tt.cursor, tt.total, got, tt.want)
		}
	}
}
