package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchDeals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/deals" {
			t.Errorf("path = %s, want /deals", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"d1","title":"Red Dress -30%","product_url":"https://shop.example/a","price":"49.00"}]}`)
	}))
	defer srv.Close()

	client := NewDealsClient(srv.URL, nil)
	deals, err := client.FetchDeals()
	if err != nil {
		t.Fatalf("FetchDeals() error = %v", err)
	}
	if len(deals) != 1 || deals[0].Title != "Red Dress -30%" {
		t.Errorf("deals = %+v", deals)
	}
}

func TestFetchDealsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewDealsClient(srv.URL, nil)
	if _, err := client.FetchDeals(); err == nil {
		t.Fatal("error = nil, want failure for the retry state")
	}
}
