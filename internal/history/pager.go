package history

// PageState is the explicit fetch state machine for infinite scroll. The
// observed product expressed this as several independent booleans
// (loading, hasMore, hasFetchedInitial) which allowed a double-fetch when
// two triggers raced; one enum plus a transition guard removes that.
type PageState int

const (
	StateIdle PageState = iota
	StateLoading
	StateExhausted
)

func (s PageState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// ScrollLookahead is how close to the end of the card list the cursor may
// get before the next page is requested — the terminal analog of the
// 100px document-bottom threshold in the original scroll listener.
const ScrollLookahead = 3

// Pager tracks page offset and end-of-data for the history fetch loop.
// The server reports no total count; a short page means the data is done.
type Pager struct {
	state    PageState
	page     int
	pageSize int
	fetched  bool // initial page requested at least once for the current query
}

// NewPager creates a pager starting at page 1.
func NewPager(pageSize int) *Pager {
	return &Pager{
		state:    StateIdle,
		page:     1,
		pageSize: pageSize,
	}
}

// State returns the current fetch state.
func (p *Pager) State() PageState { return p.state }

// Page returns the page the next (or in-flight) fetch targets.
func (p *Pager) Page() int { return p.page }

// HasMore reports whether the server may still have records.
func (p *Pager) HasMore() bool { return p.state != StateExhausted }

// Loading reports whether a fetch is in flight.
func (p *Pager) Loading() bool { return p.state == StateLoading }

// Started reports whether the initial page was requested for the current
// query. Used to avoid double-firing page 1 on repeated renders; only a
// query change resets it.
func (p *Pager) Started() bool { return p.fetched }

// Begin transitions Idle -> Loading and returns the page to fetch. Safe
// to call repeatedly from a continuous scroll trigger: any state other
// than Idle refuses, so an in-flight or exhausted fetch is never
// duplicated.
func (p *Pager) Begin() (page int, ok bool) {
	if p.state != StateIdle {
		return 0, false
	}
	p.state = StateLoading
	p.fetched = true
	return p.page, true
}

// Finish records a completed fetch of n records. A full page means more
// may exist (back to Idle, advance the page); a short page means the data
// is exhausted.
func (p *Pager) Finish(n int) (hasMore bool) {
	if p.state != StateLoading {
		return p.HasMore()
	}
	if n == p.pageSize {
		p.page++
		p.state = StateIdle
		return true
	}
	p.state = StateExhausted
	return false
}

// Fail returns a failed fetch to Idle without touching the page, so the
// next scroll trigger retries it. Failure never flips to Exhausted.
func (p *Pager) Fail() {
	if p.state == StateLoading {
		p.state = StateIdle
	}
}

// Reset rewinds to page 1 for a fresh query (search/filter change) and
// clears the initial-fetch latch. If a stale fetch is still in flight its
// Finish/Fail will be ignored by the epoch check in the store.
func (p *Pager) Reset() {
	p.state = StateIdle
	p.page = 1
	p.fetched = false
}

// ShouldFetch reports whether the cursor position warrants requesting the
// next page: within ScrollLookahead rows of the end, state Idle, and data
// possibly remaining. Continuous trigger, guarded by state.
func (p *Pager) ShouldFetch(cursor, total int) bool {
	if p.state != StateIdle {
		return false
	}
	if !p.fetched {
		return true
	}
	return cursor >= total-ScrollLookahead
}
