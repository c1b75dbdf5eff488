package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/models"
)

const dealsTimeout = 30 * time.Second

// DealsClient fetches the deals/recommendation feed. The feed is public,
// so no token is required.
type DealsClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewDealsClient creates a deals feed client.
func NewDealsClient(baseURL string, logger *log.Logger) *DealsClient {
	return &DealsClient{
		httpClient: &http.Client{
			Timeout: dealsTimeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// FetchDeals fetches the current deals feed. Unlike the history view, the
// deals view surfaces fetch failures with a distinct error state and a
// retry key, so errors here must carry enough context to display.
func (c *DealsClient) FetchDeals() ([]models.Deal, error) {
	endpoint := c.baseURL + "/deals"

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", endpoint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("deals request failed", "error", err)
		}
		return nil, fmt.Errorf("deals request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("deals service error (status %d): %s", resp.StatusCode, string(body))
	}

	var response models.DealsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode deals response: %w", err)
	}

	return response.Data, nil
}
