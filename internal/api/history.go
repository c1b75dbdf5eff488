package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/models"
)

const (
	// PageSize is the fixed history page size; the server infers
	// end-of-data from short pages, so every fetch asks for exactly this.
	PageSize = 10

	requestTimeout = 30 * time.Second
	userAgent      = "wardrobe/1.0"
)

// ErrUnauthorized is returned when no token is configured or the server
// rejects the one we sent. Callers surface it directly; there is no retry.
var ErrUnauthorized = errors.New("unauthorized")

// Client talks to the wardrobe history/favorites service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *log.Logger
}

// NewClient creates a history service client with a 30 second timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
		token:   token,
	}
}

// NewClientWithLogging creates a client that logs requests to api.log in
// the same directory as the cache database.
func NewClientWithLogging(baseURL, token, dbPath string) *Client {
	logDir := filepath.Dir(dbPath)
	logFile := filepath.Join(logDir, "api.log")

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Fall back to client without file logging if we can't open the log file
		return NewClient(baseURL, token)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "API",
	})

	c := NewClient(baseURL, token)
	c.logger = logger
	return c
}

// FetchHistoryPage fetches one page of try-on records. Pages are 1-based;
// the skip offset is (page-1)*PageSize. Records missing a product name are
// dropped before returning — the server occasionally emits half-scraped
// entries that should never reach the view.
func (c *Client) FetchHistoryPage(page int) ([]models.TryOnRecord, error) {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * PageSize
	endpoint := fmt.Sprintf("%s/history?limit=%d&skip=%d", c.baseURL, PageSize, skip)

	body, err := c.doRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response models.HistoryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	records := make([]models.TryOnRecord, 0, len(response.Data))
	for _, r := range response.Data {
		if r.ProductInfo.ProductName == "" {
			continue
		}
		records = append(records, r)
	}

	if c.logger != nil {
		c.logger.Info("history page fetched", "page", page, "raw", len(response.Data), "kept", len(records))
	}

	return records, nil
}

// AddFavorite marks every record of a product as favorite.
func (c *Client) AddFavorite(productURL string) error {
	return c.postFavorite("/favorite/add", productURL)
}

// RemoveFavorite clears the favorite flag for a product.
func (c *Client) RemoveFavorite(productURL string) error {
	return c.postFavorite("/favorite/remove", productURL)
}

func (c *Client) postFavorite(path, productURL string) error {
	payload, err := json.Marshal(struct {
		ProductURL string `json:"product_url"`
	}{ProductURL: productURL})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = c.doRequest(http.MethodPost, c.baseURL+path, payload)
	return err
}

// DeleteProductHistory removes every try-on record for a product.
func (c *Client) DeleteProductHistory(productURL string) error {
	endpoint := fmt.Sprintf("%s/history?product_url=%s", c.baseURL, url.QueryEscape(productURL))
	_, err := c.doRequest(http.MethodDelete, endpoint, nil)
	return err
}

// DeleteRecord removes a single try-on record by its server id.
func (c *Client) DeleteRecord(recordID string) error {
	endpoint := fmt.Sprintf("%s/history/%s", c.baseURL, url.PathEscape(recordID))
	_, err := c.doRequest(http.MethodDelete, endpoint, nil)
	return err
}

func (c *Client) doRequest(method, endpoint string, payload []byte) ([]byte, error) {
	if c.token == "" {
		return nil, ErrUnauthorized
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("failed to create request", "url", endpoint, "error", err)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.logger != nil {
		c.logger.Info(method, "endpoint", endpoint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("request failed", "url", endpoint, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.logger != nil {
			c.logger.Error("token rejected", "status", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: history service returned status %d", ErrUnauthorized, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", string(body))
		}
		return nil, fmt.Errorf("history service error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
