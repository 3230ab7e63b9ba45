package adjustments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/pkg/config"
	"github.com/shopsmarter/cart-engine/pkg/logger"
	"github.com/shopsmarter/cart-engine/pkg/metrics"
)

const analyzePath = "/analyze-cart"

const (
	outcomeSuccess    = "success"
	outcomeFailure    = "failure"
	outcomeSuperseded = "superseded"
)

type analyzeRequest struct {
	CartItems []cart.LineItem `json:"cart_items"`
	UserID    string          `json:"user_id"`
}

// Client fetches dynamic pricing analysis for a cart snapshot. Every
// failure mode degrades to nil so callers fall back to baseline
// pricing without surfacing an error to the shopper.
type Client struct {
	httpClient *http.Client
	baseURL    string
	seq        atomic.Uint64
	logg       *logger.Logger
	metrics    *metrics.CartMetrics
}

// NewClient builds the analysis client from config. An empty base URL
// is allowed; Fetch then always reports the baseline fallback.
func NewClient(cfg config.AdjustmentsConfig, logg *logger.Logger, m *metrics.CartMetrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logg:       logg,
		metrics:    m,
	}
}

// Fetch posts the cart snapshot for analysis. Each call claims a new
// sequence number; a response arriving after a newer call has started
// is discarded so a stale analysis never clobbers a fresh one. On any
// transport failure, non-2xx status, or malformed payload the result
// is nil and the caller keeps baseline pricing.
func (c *Client) Fetch(ctx context.Context, userID string, snapshot cart.Cart) (*Analysis, error) {
	seq := c.seq.Add(1)
	start := time.Now()

	analysis, err := c.post(ctx, userID, snapshot)

	if c.seq.Load() != seq {
		c.metrics.ObserveAdjustmentFetch(outcomeSuperseded, time.Since(start))
		if c.logg != nil {
			c.logg.Info(c.logg.WithUserID(ctx, userID), "discarding superseded cart analysis")
		}
		return nil, nil
	}

	if err != nil {
		c.metrics.ObserveAdjustmentFetch(outcomeFailure, time.Since(start))
		if c.logg != nil {
			c.logg.Warn(c.logg.WithUserID(ctx, userID), fmt.Sprintf("cart analysis unavailable: %v", err))
		}
		return nil, err
	}

	c.metrics.ObserveAdjustmentFetch(outcomeSuccess, time.Since(start))
	return analysis, nil
}

func (c *Client) post(ctx context.Context, userID string, snapshot cart.Cart) (*Analysis, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("analysis backend not configured")
	}

	items := snapshot.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	body, err := json.Marshal(analyzeRequest{CartItems: items, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("encoding analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling analysis backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("analysis backend returned status %d", resp.StatusCode)
	}

	var envelope analyzeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding analyze response: %w", err)
	}
	if envelope.Analysis == nil {
		return nil, fmt.Errorf("analyze response missing analysis block")
	}
	return envelope.Analysis, nil
}
