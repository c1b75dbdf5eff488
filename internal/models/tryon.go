package models

import (
	"encoding/json"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// UnknownProductKey is the identity key assigned to records that carry
// no product URL at all. Such records still group together.
const UnknownProductKey = "unknown"

// ProductInfo holds the product metadata attached to a try-on record.
// Every field is optional on the wire; display fallbacks are applied at
// render time, never during aggregation.
type ProductInfo struct {
	BrandName   string `json:"brand_name,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Name        string `json:"name,omitempty"`
	Price       string `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
	ProductURL  string `json:"product_url,omitempty"`
	URL         string `json:"url,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// TryOnImage is the normalized form of one generated try-on image.
// The history service returns images either as bare URL strings or as
// objects carrying an optional server record id; UnmarshalJSON resolves
// both shapes here so no other code has to branch on the wire type.
type TryOnImage struct {
	URL      string `json:"url"`
	RecordID string `json:"recordId,omitempty"`
}

// UnmarshalJSON accepts both `"https://..."` and `{"url": ..., "recordId": ...}`.
func (img *TryOnImage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		img.URL = s
		img.RecordID = ""
		return nil
	}

	var obj struct {
		URL      string `json:"url"`
		RecordID string `json:"recordId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	img.URL = obj.URL
	img.RecordID = obj.RecordID
	return nil
}

// TryOnRecord is one try-on event as returned by the history service.
// A record may contribute several images to the same product.
type TryOnRecord struct {
	ID              string       `json:"id,omitempty"`
	IsFavorite      *bool        `json:"isFavorite"` // tri-state: nil means unknown/not set
	LatestTryOnDate string       `json:"latestTryOnDate"`
	ProductInfo     ProductInfo  `json:"productInfo"`
	TotalTryOns     int          `json:"totalTryOns"`
	TryOnImages     []TryOnImage `json:"tryOnImages"`
}

// IdentityKey resolves the grouping key for this record:
// product_url, then url, then the "unknown" literal. Never empty.
func (r TryOnRecord) IdentityKey() string {
	if r.ProductInfo.ProductURL != "" {
		return r.ProductInfo.ProductURL
	}
	if r.ProductInfo.URL != "" {
		return r.ProductInfo.URL
	}
	return UnknownProductKey
}

// Favorite collapses the tri-state flag; nil counts as false.
func (r TryOnRecord) Favorite() bool {
	return r.IsFavorite != nil && *r.IsFavorite
}

// HistoryResponse is the envelope returned by GET /history.
type HistoryResponse struct {
	Data []TryOnRecord `json:"data"`
}

// GroupedImage is one image inside a grouped product card. Timestamp is
// the source record's latestTryOnDate (the API has no per-image time) and
// ImageIndex is 0-based within that source record only — it is not unique
// across the group; use RecordID or slice position for a global handle.
type GroupedImage struct {
	URL        string
	Timestamp  string
	ImageIndex int
	RecordID   string
}

// GroupedProduct aggregates every try-on record sharing one identity key.
// It is a derived projection of the raw record list and is never mutated
// in place; mutations rewrite the raw list and re-aggregate.
type GroupedProduct struct {
	ProductURL      string
	Info            ProductInfo
	Images          []GroupedImage
	LatestTimestamp string
	TotalTryOns     int
	IsFavorite      bool
}

// DisplayName returns the product name with render-time fallbacks.
func (g GroupedProduct) DisplayName() string {
	if g.Info.ProductName != "" {
		return g.Info.ProductName
	}
	if g.Info.Name != "" {
		return g.Info.Name
	}
	return "Unknown Product"
}

// DisplayBrand returns the brand with a render-time fallback.
func (g GroupedProduct) DisplayBrand() string {
	if g.Info.BrandName != "" {
		return g.Info.BrandName
	}
	return "Unknown Brand"
}

// DisplayDomain returns the shop domain for the card, preferring the
// scraped domain field and falling back to the registrable domain of the
// product URL.
func (g GroupedProduct) DisplayDomain() string {
	if g.Info.Domain != "" {
		return g.Info.Domain
	}
	parsed, err := url.Parse(g.ProductURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	if domain, err := publicsuffix.EffectiveTLDPlusOne(parsed.Hostname()); err == nil {
		return domain
	}
	return parsed.Hostname()
}

// CoverImage returns the newest image URL, or "" for an empty group.
// Valid because aggregation keeps Images sorted newest-first.
func (g GroupedProduct) CoverImage() string {
	if len(g.Images) == 0 {
		return ""
	}
	return g.Images[0].URL
}

// ParseTimestamp parses a record timestamp, accepting the formats the
// history service has been observed to emit.
func ParseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, format := range formats {
		t, err := time.Parse(format, ts)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// LaterTimestamp returns the chronologically later of two record
// timestamps. Unparsable values compare lexicographically, which is
// correct for well-formed ISO-8601 strings of equal precision.
func LaterTimestamp(a, b string) string {
	ta, errA := ParseTimestamp(a)
	tb, errB := ParseTimestamp(b)
	if errA == nil && errB == nil {
		if tb.After(ta) {
			return b
		}
		return a
	}
	if b > a {
		return b
	}
	return a
}
