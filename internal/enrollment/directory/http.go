package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"matricula/pkg/sentinel"
)

// Client reads students and careers from the administrative API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a directory client. A nil httpClient uses the default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Student fetches GET /students/{id}.
func (c *Client) Student(ctx context.Context, id int64) (*Student, error) {
	var s Student
	if err := c.get(ctx, fmt.Sprintf("%s/students/%d", c.baseURL, id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Career fetches GET /careers/{id}.
func (c *Client) Career(ctx context.Context, id int64) (*Career, error) {
	var career Career
	if err := c.get(ctx, fmt.Sprintf("%s/careers/%d", c.baseURL, id), &career); err != nil {
		return nil, err
	}
	return &career, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build directory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("directory returned %s: %w", resp.Status, sentinel.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode directory response: %w", err)
	}
	return nil
}
