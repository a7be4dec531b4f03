// Package catalog is the HTTP client for the meeting catalog backend. It
// owns wire-format normalization: everything past this package speaks the
// canonical domain vocabulary only.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/domain"
	"github.com/moimlab/recs/internal/logger"
)

const (
	searchPath  = "/api/meetings/search"
	batchPath   = "/api/meetings/batch"
	contextPath = "/api/users/%d/context"
	healthPath  = "/health"
)

// Options configures the catalog client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Consecutive transport failures before the breaker opens.
	BreakerThreshold uint32
	// Open-state duration before a probe request is allowed.
	BreakerTimeout time.Duration
}

// Client talks to the catalog over HTTP. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a catalog client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	threshold := opts.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	breakerTimeout := opts.BreakerTimeout
	if breakerTimeout == 0 {
		breakerTimeout = 30 * time.Second
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "catalog",
			Timeout: breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		}),
	}
}

// Search runs a catalog search. An empty result is a normal answer; the
// relaxation ladder decides what to do with it. A non-2xx status is logged
// and treated as empty so a single bad level cannot fail the whole request.
// Transport failures surface as errors and count against the breaker.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Meeting, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode search request: %w", err)
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, searchPath, body)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", domain.ErrCatalogUnavailable)
		}
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	items, err := decodeMeetingList(raw)
	if err != nil {
		log.Warn("catalog search response undecodable, treating as empty", zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// GetByIDs resolves meeting IDs to full records. Unknown IDs are simply
// absent from the response.
func (c *Client) GetByIDs(ctx context.Context, ids []int64) ([]domain.Meeting, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(map[string][]int64{"meetingIds": ids})
	if err != nil {
		return nil, fmt.Errorf("catalog: encode batch request: %w", err)
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, batchPath, body)
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: batch: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return decodeMeetingList(raw)
}

// UserContext fetches the user's search and scoring inputs. Returns
// domain.ErrUserNotFound on 404; the pipeline then degrades to defaults.
func (c *Client) UserContext(ctx context.Context, userID int64) (domain.UserContext, error) {
	url := c.baseURL + fmt.Sprintf(contextPath, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.UserContext{}, fmt.Errorf("catalog: build context request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.UserContext{}, fmt.Errorf("catalog: user context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.UserContext{}, domain.ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.UserContext{}, fmt.Errorf("catalog: user context: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UserContext{}, fmt.Errorf("catalog: read context response: %w", err)
	}
	return decodeUserContext(raw, userID)
}

// Ping reports whether the catalog answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}
	return nil
}

// post sends a JSON body and returns the raw response bytes. A non-2xx
// status returns (nil, nil): it does not trip the breaker and the caller
// sees an empty answer.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.FromContext(ctx).Warn("catalog returned non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, nil
	}
	return io.ReadAll(resp.Body)
}
