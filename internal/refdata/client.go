package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches reference tables from the marketplace API's generic active
// records endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *Client) FetchStates(ctx context.Context) ([]State, error) {
	var states []State
	if err := c.fetchActiveRecords(ctx, "State", nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

func (c *Client) FetchCities(ctx context.Context, stateID string) ([]City, error) {
	var cities []City
	params := url.Values{"stateId": {stateID}}
	if err := c.fetchActiveRecords(ctx, "City", params, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *Client) fetchActiveRecords(ctx context.Context, tableName string, extra url.Values, out interface{}) error {
	params := url.Values{"tableName": {tableName}}
	for key, vals := range extra {
		for _, v := range vals {
			params.Add(key, v)
		}
	}

	endpoint := c.baseURL + "/Generic/GetActiveRecords?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("refdata create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refdata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("refdata fetch %s failed: status=%d body=%s", tableName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("refdata decode %s: %w", tableName, err)
	}
	return nil
}
