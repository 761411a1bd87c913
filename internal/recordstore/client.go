// Package recordstore is the only path to the external record store. Every
// read and write goes through one retry policy: rate limits honour the
// server-specified wait, transient failures back off exponentially, and
// everything else fails fast as permanent.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"pazlcollab/internal/platform/config"
	"pazlcollab/internal/platform/metrics"
	"pazlcollab/pkg/sentinel"
)

// Client talks to one table of the external store.
//
// Create retries are NOT deduplicated here: a blind retry of a create can
// duplicate records, so callers must apply their own guard before calling
// Create.
type Client struct {
	baseURL string
	table   string
	apiKey  string
	httpc   *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics

	maxRetries    int
	minBackoff    time.Duration
	maxBackoff    time.Duration
	rateLimitWait time.Duration
}

// New builds a client from configuration. metrics may be nil in tests.
func New(cfg config.RecordStoreConfig, log *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:       cfg.BaseURL + "/" + cfg.BaseID,
		table:         cfg.Table,
		apiKey:        cfg.APIKey,
		httpc:         &http.Client{Timeout: cfg.Timeout},
		log:           log,
		metrics:       m,
		maxRetries:    cfg.MaxRetries,
		minBackoff:    cfg.MinBackoff,
		maxBackoff:    cfg.MaxBackoff,
		rateLimitWait: cfg.RateLimitWait,
	}
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// List returns records matching opts, following store pagination until the
// cap (if any) is reached.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		query := url.Values{}
		if opts.Formula != "" {
			query.Set("filterByFormula", opts.Formula)
		}
		for _, f := range opts.Fields {
			query.Add("fields[]", f)
		}
		if opts.MaxRecords > 0 {
			query.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		if offset != "" {
			query.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.table, query, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)

		if page.Offset == "" || (opts.MaxRecords > 0 && len(all) >= opts.MaxRecords) {
			return all, nil
		}
		offset = page.Offset
	}
}

// Get fetches one record by its stable identifier.
func (c *Client) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := c.do(ctx, http.MethodGet, c.table+"/"+id, nil, nil, &rec)
	return rec, err
}

// Create writes a new record and returns it with its assigned identifier.
func (c *Client) Create(ctx context.Context, fields Fields) (Record, error) {
	var rec Record
	err := c.do(ctx, http.MethodPost, c.table, nil, map[string]any{"fields": fields}, &rec)
	return rec, err
}

// Update patches the named fields of an existing record.
func (c *Client) Update(ctx context.Context, id string, fields Fields) (Record, error) {
	var rec Record
	err := c.do(ctx, http.MethodPatch, c.table+"/"+id, nil, map[string]any{"fields": fields}, &rec)
	return rec, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.minBackoff
	bo.MaxInterval = c.maxBackoff
	bo.Reset()

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, method, path, query, body)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Timeouts and connection errors are transient.
			if attempt >= c.maxRetries {
				return fmt.Errorf("%s %s after %d retries: %w", method, path, attempt, sentinel.ErrUnavailable)
			}
			c.retrySleepLog(ctx, path, bo.NextBackOff(), fmt.Sprintf("request error: %v", err))
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			if c.metrics != nil {
				c.metrics.StoreRateLimits.Inc()
			}
			if attempt >= c.maxRetries {
				return fmt.Errorf("%s %s: %w", method, path, sentinel.ErrRateLimited)
			}
			c.retrySleepLog(ctx, path, c.retryAfter(resp), "rate limited")

		case resp.StatusCode >= 500:
			drain(resp)
			if attempt >= c.maxRetries {
				return fmt.Errorf("%s %s: server error %d: %w", method, path, resp.StatusCode, sentinel.ErrUnavailable)
			}
			c.retrySleepLog(ctx, path, bo.NextBackOff(), fmt.Sprintf("server error %d", resp.StatusCode))

		case resp.StatusCode >= 300:
			// Permanent: malformed query, invalid field, auth. No retry.
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(detail))

		default:
			defer resp.Body.Close()
			if out == nil {
				drain(resp)
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("%s %s: decode response: %w", method, path, err)
			}
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpc.Do(req)
}

// retryAfter reads the server-specified wait, falling back to the configured
// default when the header is absent or unparseable.
func (c *Client) retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.rateLimitWait
}

func (c *Client) retrySleepLog(ctx context.Context, path string, wait time.Duration, reason string) {
	if c.metrics != nil {
		c.metrics.StoreRetries.Inc()
	}
	c.log.Warn("record store retry",
		zap.String("path", path),
		zap.String("reason", reason),
		zap.Duration("wait", wait))

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
