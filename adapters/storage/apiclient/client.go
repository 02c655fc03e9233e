// Package apiclient is the remote data source: the same operations the local
// façade offers, issued against a REST endpoint.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"lokali/domain"
)

type Client struct {
	http *resty.Client

	mu         sync.Mutex
	cancelList context.CancelFunc
}

// New builds a client for the given base endpoint, e.g.
// "https://example.com/api/translations".
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(20 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// List fetches one page. A newer List cancels the one still in flight; the
// superseded call reports ok=false with a nil error ("no update") so callers
// can simply drop the stale result.
func (c *Client) List(ctx context.Context, q domain.Query) (*domain.Page, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancelList != nil {
		c.cancelList()
	}
	c.cancelList = cancel
	c.mu.Unlock()
	// Release this call's context once it settles. A later supersede hitting
	// the stored cancel again is a no-op.
	defer cancel()

	var page domain.Page
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      strconv.Itoa(q.Page),
			"page_size": strconv.Itoa(q.PageSize),
			"search":    q.Search,
		}).
		SetResult(&page).
		Get("")
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lokali: list request: %w", err)
	}
	if resp.IsError() {
		return nil, false, apiError(resp)
	}
	return &page, true, nil
}

func (c *Client) Create(ctx context.Context, r *domain.Record) (*domain.Record, error) {
	var out domain.Record
	resp, err := c.http.R().SetContext(ctx).SetBody(r).SetResult(&out).Post("")
	if err != nil {
		return nil, fmt.Errorf("lokali: create request: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, p domain.Patch) (*domain.Record, error) {
	var out domain.Record
	resp, err := c.http.R().SetContext(ctx).SetBody(p).SetResult(&out).Put("/" + id)
	if err != nil {
		return nil, fmt.Errorf("lokali: update request: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/" + id)
	if err != nil {
		return fmt.Errorf("lokali: delete request: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Client) BulkDelete(ctx context.Context, ids []string) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(map[string][]string{"ids": ids}).Post("/bulk-delete")
	if err != nil {
		return fmt.Errorf("lokali: bulk delete request: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// ImportResult mirrors the endpoint's import summary.
type ImportResult struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
}

func (c *Client) Import(ctx context.Context, records []*domain.Record) (ImportResult, error) {
	var out ImportResult
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"translations": records}).
		SetResult(&out).
		Post("/import")
	if err != nil {
		return ImportResult{}, fmt.Errorf("lokali: import request: %w", err)
	}
	if resp.IsError() {
		return ImportResult{}, apiError(resp)
	}
	return out, nil
}

func (c *Client) Export(ctx context.Context, format string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetQueryParam("format", format).Get("/export")
	if err != nil {
		return nil, fmt.Errorf("lokali: export request: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp.Body(), nil
}

// apiError maps a non-2xx response to APIError, using the optional {message}
// body as the error text.
func apiError(resp *resty.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body(), &body)
	return &domain.APIError{Status: resp.StatusCode(), Message: body.Message}
}
