package models

// Deal is one entry in the deals/recommendation feed.
type Deal struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	BrandName  string `json:"brand_name,omitempty"`
	Price      string `json:"price,omitempty"`
	OldPrice   string `json:"old_price,omitempty"`
	Currency   string `json:"currency,omitempty"`
	ProductURL string `json:"product_url"`
	ImageURL   string `json:"image_url,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// DealsResponse is the envelope returned by GET /deals.
type DealsResponse struct {
	Data []Deal `json:"data"`
}
