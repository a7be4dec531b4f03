// Package inference is the HTTP client for the model-serving sidecar that
// hosts the rating regressor and the collaborative-filtering model. Models
// are loaded once at sidecar startup; this client only predicts.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moimlab/recs/internal/domain"
)

const (
	statusPath    = "/api/models/status"
	ratingsPath   = "/api/predict/ratings"
	recommendPath = "/api/recommend/collaborative"
)

// Options configures the inference client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the inference sidecar. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an inference client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type modelStatus struct {
	Regression struct {
		Loaded bool `json:"loaded"`
	} `json:"regression"`
	Collaborative struct {
		Loaded bool `json:"loaded"`
	} `json:"collaborative"`
}

// Ready reports whether the regression model is loaded and serving.
func (c *Client) Ready(ctx context.Context) (bool, error) {
	raw, err := c.get(ctx, statusPath)
	if err != nil {
		return false, fmt.Errorf("inference: status: %w", err)
	}
	var st modelStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return false, fmt.Errorf("inference: decode status: %w", err)
	}
	return st.Regression.Loaded, nil
}

// WaitReady polls the status endpoint until the regression model loads or
// the timeout passes. Meant for the startup gate: the service must not
// accept traffic against an unloaded model.
func (c *Client) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ready, err := c.Ready(ctx)
		if err == nil && ready {
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrModelNotReady, err)
			}
			return domain.ErrModelNotReady
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// PredictRatings runs the regressor over a feature batch. The response holds
// one rating per input row, order preserved.
func (c *Client) PredictRatings(ctx context.Context, rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	raw, err := c.post(ctx, ratingsPath, map[string]any{"rows": rows})
	if err != nil {
		return nil, fmt.Errorf("inference: predict ratings: %w", err)
	}
	var resp struct {
		Ratings []float64 `json:"ratings"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("inference: decode ratings: %w", err)
	}
	if len(resp.Ratings) != len(rows) {
		return nil, fmt.Errorf("inference: got %d ratings for %d rows", len(resp.Ratings), len(rows))
	}
	return resp.Ratings, nil
}

// RecommendByUser asks the collaborative model for the user's top unseen
// meetings with predicted affinity scores.
func (c *Client) RecommendByUser(ctx context.Context, userID int64, topN int) ([]domain.CFRecommendation, error) {
	raw, err := c.post(ctx, recommendPath, map[string]any{
		"user_id": userID,
		"top_n":   topN,
	})
	if err != nil {
		return nil, fmt.Errorf("inference: collaborative recommend: %w", err)
	}
	var resp struct {
		Recommendations []domain.CFRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("inference: decode recommendations: %w", err)
	}
	return resp.Recommendations, nil
}

// Ping reports whether the sidecar answers at all, loaded or not.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, statusPath)
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
