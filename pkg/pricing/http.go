package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient injects the *http.Client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if client != nil {
			clone := *client
			c.client = &clone
		}
	}
}

// WithTimeout bounds each request. Zero keeps the client's own timeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.timeout = timeout
	}
}

// HTTPClient posts routes to a pricing endpoint and decodes
// {"sum": ..., "isSuccess": ...} responses.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

var _ Lookup = (*HTTPClient)(nil)

// NewHTTPClient targets endpoint with the given options.
func NewHTTPClient(endpoint string, options ...HTTPOption) (*HTTPClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	c := &HTTPClient{
		endpoint: endpoint,
		timeout:  defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{}
	}
	if c.timeout > 0 && c.client.Timeout == 0 {
		c.client.Timeout = c.timeout
	}
	return c, nil
}

type wireRequest struct {
	Distance float64 `json:"distance"`
	From     string  `json:"from"`
	To       string  `json:"to"`
}

type wireQuote struct {
	Sum       any  `json:"sum"`
	IsSuccess bool `json:"isSuccess"`
}

// LoadPrice implements Lookup.
func (c *HTTPClient) LoadPrice(ctx context.Context, route Route) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	body, err := json.Marshal(wireRequest{
		Distance: route.Distance,
		From:     route.FromID,
		To:       route.ToID,
	})
	if err != nil {
		return Quote{}, fmt.Errorf("pricing: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Quote{}, fmt.Errorf("pricing: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("pricing: request %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Quote{}, fmt.Errorf("pricing: request %s: unexpected status %d", c.endpoint, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload wireQuote
	if err := dec.Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("pricing: decode response: %w", err)
	}
	return Quote{
		Sum:       formatSum(payload.Sum),
		IsSuccess: payload.IsSuccess,
	}, nil
}

func formatSum(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
