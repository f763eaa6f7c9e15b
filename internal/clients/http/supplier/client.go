// Package supplier talks to the upstream supplier catalog feed over HTTP.
package supplier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProductPayload is the wire representation of a supplier catalog record.
// Stock is optional; feeds that do not track inventory omit it.
type ProductPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Stock       *int64  `json:"stock,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"reviewCount"`
}

// Client fetches catalog records from the supplier feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the supplier client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("supplier base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse supplier base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}, nil
}

// FetchProducts pulls the full product feed.
func (c *Client) FetchProducts(ctx context.Context) ([]ProductPayload, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("supplier client not configured")
	}
	return c.getProducts(ctx, c.baseURL+"/products")
}

// FetchProduct pulls a single product record by identifier.
func (c *Client) FetchProduct(ctx context.Context, id string) (*ProductPayload, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("supplier client not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("product id is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build supplier request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call supplier feed: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		var payload ProductPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode supplier product: %w", err)
		}
		return &payload, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	default:
		return nil, fmt.Errorf("supplier feed unexpected status: %s", resp.Status)
	}
}

// ErrProductNotFound signals the supplier does not carry the product.
var ErrProductNotFound = errors.New("supplier product not found")

func (c *Client) getProducts(ctx context.Context, endpoint string) ([]ProductPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build supplier request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call supplier feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("supplier feed unexpected status: %s", resp.Status)
	}
	var payloads []ProductPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("decode supplier feed: %w", err)
	}
	return payloads, nil
}
