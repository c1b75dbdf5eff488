package history

import (
	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/models"
)

// Service is the remote history/favorites surface the UI fetches from
// and mutates against. *api.Client satisfies it; tests substitute a
// fake. The store itself never calls it: remote requests run off the
// event loop and only their confirmed results are applied here.
type Service interface {
	FetchHistoryPage(page int) ([]models.TryOnRecord, error)
	AddFavorite(productURL string) error
	RemoveFavorite(productURL string) error
	DeleteProductHistory(productURL string) error
	DeleteRecord(recordID string) error
}

// Store owns the raw try-on record list. The grouped card list is a
// memoized projection of the raw list: every mutation rewrites raw
// records and marks the projection dirty, so the two can never drift
// apart.
//
// All mutators here are local-apply halves of an
// optimistic-on-confirmation flow: callers perform the remote call
// first and invoke these only once it has succeeded (or, for image
// removal, once the best-effort attempt is over).
type Store struct {
	logger *log.Logger
	pager  *Pager

	records []models.TryOnRecord
	groups  []models.GroupedProduct
	dirty   bool

	// epoch invalidates in-flight fetches when the query resets; the
	// history fetch itself is not cancellable, so a superseded page
	// completes and is discarded here instead.
	epoch int
}

// NewStore creates an empty store paging at the given size.
func NewStore(pageSize int, logger *log.Logger) *Store {
	return &Store{
		logger: logger,
		pager:  NewPager(pageSize),
	}
}

// Pager exposes the fetch state machine for the UI.
func (s *Store) Pager() *Pager { return s.pager }

// RecordCount returns the number of raw records currently held.
func (s *Store) RecordCount() int { return len(s.records) }

// Records returns the raw record list (for cache mirroring).
func (s *Store) Records() []models.TryOnRecord { return s.records }

// BeginFetch asks the pager whether a fetch is warranted for the given
// cursor position and, if so, claims it. The returned epoch must be
// passed back to CompleteFetch so stale results are dropped.
func (s *Store) BeginFetch(cursor, total int) (page, epoch int, ok bool) {
	if !s.pager.ShouldFetch(cursor, total) {
		return 0, 0, false
	}
	page, ok = s.pager.Begin()
	if !ok {
		return 0, 0, false
	}
	return page, s.epoch, true
}

// CompleteFetch applies a finished page fetch. Page 1 replaces the raw
// list (fresh query), later pages append. Results from a superseded epoch
// are discarded silently; errors return the pager to Idle so the next
// scroll retries.
func (s *Store) CompleteFetch(epoch, page int, records []models.TryOnRecord, err error) {
	if epoch != s.epoch {
		if s.logger != nil {
			s.logger.Debug("discarding stale page fetch", "page", page)
		}
		return
	}
	if err != nil {
		s.pager.Fail()
		if s.logger != nil {
			s.logger.Error("history page fetch failed", "page", page, "error", err)
		}
		return
	}

	if page == 1 {
		s.records = records
	} else {
		s.records = append(s.records, records...)
	}
	s.dirty = true
	s.pager.Finish(len(records))
}

// ResetQuery rewinds pagination for a fresh fetch sequence and
// invalidates any fetch still in flight.
func (s *Store) ResetQuery() {
	s.epoch++
	s.pager.Reset()
}

// SetRecords seeds the raw list directly (cache restore on offline start).
func (s *Store) SetRecords(records []models.TryOnRecord) {
	s.records = records
	s.dirty = true
}

// Groups returns the aggregated product cards, recomputing only when the
// raw list changed since the last call.
func (s *Store) Groups() []models.GroupedProduct {
	if s.dirty || s.groups == nil {
		s.groups = Aggregate(s.records)
		s.dirty = false
	}
	return s.groups
}

// View returns the cards filtered by the search query (and optionally to
// favorites only) and sorted by the given order. The underlying grouped
// slice is never reordered in place.
func (s *Store) View(query string, order SortOrder, favoritesOnly bool) []models.GroupedProduct {
	groups := s.Groups()
	filtered := FilterGroups(groups, query)
	if favoritesOnly {
		filtered = FilterFavorites(filtered)
	}
	if order != SortNone && len(filtered) > 0 {
		// FilterGroups may return the shared slice when the query is empty.
		if len(filtered) == len(groups) {
			filtered = append([]models.GroupedProduct(nil), filtered...)
		}
		SortGroups(filtered, order)
	}
	return filtered
}

// SetFavorite writes the confirmed favorite state onto every raw record
// sharing the identity key. The remote add/remove call happens first;
// on failure this is never invoked, so local state stays untouched.
func (s *Store) SetFavorite(productURL string, favorite bool) {
	for i := range s.records {
		if s.records[i].IdentityKey() == productURL {
			v := favorite
			s.records[i].IsFavorite = &v
		}
	}
	s.dirty = true
}

// RemoveProduct drops every raw record for a product. Applied only once
// the remote delete has been confirmed.
func (s *Store) RemoveProduct(productURL string) {
	kept := s.records[:0]
	for _, r := range s.records {
		if r.IdentityKey() != productURL {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.dirty = true
}

// RemoveImage removes one image, dropping its record if emptied. Unlike
// the other mutators this one applies even when the remote delete failed
// or never ran: an image without a server record id cannot be deleted
// remotely, and the caller logs that gap. Returns true when the product
// lost its last image entirely, so any open detail view can close.
func (s *Store) RemoveImage(productURL string, img models.GroupedImage) (productRemoved bool) {
	s.removeImageLocally(productURL, img)
	s.dirty = true

	for _, r := range s.records {
		if r.IdentityKey() == productURL {
			return false
		}
	}
	return true
}

func (s *Store) removeImageLocally(productURL string, img models.GroupedImage) {
	kept := s.records[:0]
	removed := false
	for _, r := range s.records {
		if !removed && r.IdentityKey() == productURL {
			images := make([]models.TryOnImage, 0, len(r.TryOnImages))
			for _, candidate := range r.TryOnImages {
				if !removed && candidate.URL == img.URL && candidate.RecordID == img.RecordID {
					removed = true
					continue
				}
				images = append(images, candidate)
			}
			r.TryOnImages = images
			// A record with no images left carries no information.
			if len(r.TryOnImages) == 0 {
				continue
			}
		}
		kept = append(kept, r)
	}
	s.records = kept
}
