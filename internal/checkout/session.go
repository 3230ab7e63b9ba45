package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopsmarter/cart-engine/internal/cart"
	"github.com/shopsmarter/cart-engine/pkg/config"
	"github.com/shopsmarter/cart-engine/pkg/errors"
	"github.com/shopsmarter/cart-engine/pkg/logger"
	"github.com/shopsmarter/cart-engine/pkg/metrics"
)

const createSessionPath = "/create-session"

const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
)

// State tracks a shopper's checkout lifecycle. Succeeded and Failed
// are informational endpoints; only Submitting blocks a new submit.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Session is the payment session handed back to the caller on a
// successful submit.
type Session struct {
	ID          string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

type sessionRequest struct {
	Products  []int64         `json:"products"`
	UserID    string          `json:"user_id"`
	CartItems []cart.LineItem `json:"cart_items"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Builder drives checkout submission against the payment backend. One
// submit may be in flight per shopper at a time.
type Builder struct {
	httpClient  *http.Client
	baseURL     string
	successPath string
	store       cart.Store
	logg        *logger.Logger
	metrics     *metrics.CartMetrics

	mu     sync.Mutex
	states map[string]State
}

// NewBuilder wires the session builder to the cart store and the
// payment backend.
func NewBuilder(cfg config.CheckoutConfig, store cart.Store, logg *logger.Logger, m *metrics.CartMetrics) (*Builder, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &Builder{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		successPath: cfg.SuccessPath,
		store:       store,
		logg:        logg,
		metrics:     m,
		states:      map[string]State{},
	}, nil
}

// State reports the shopper's current checkout state.
func (b *Builder) State(userID string) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.states[userID]; ok {
		return s
	}
	return StateIdle
}

// Submit builds the session request from the current cart and posts
// it to the payment backend. An empty cart and a submit already in
// flight are both rejected without touching the cart. On success the
// cart is cleared; on failure it is preserved for retry.
func (b *Builder) Submit(ctx context.Context, userID string) (*Session, error) {
	current := b.store.Load(ctx, userID)
	if current.IsEmpty() {
		b.metrics.IncCheckout(outcomeRejected)
		return nil, errors.New(errors.CodeValidation, "cart is empty")
	}

	if err := b.begin(userID); err != nil {
		b.metrics.IncCheckout(outcomeRejected)
		return nil, err
	}

	session, err := b.createSession(ctx, userID, current)
	if err != nil {
		b.finish(userID, StateFailed)
		b.metrics.IncCheckout(outcomeFailed)
		if b.logg != nil {
			b.logg.Error(b.logg.WithUserID(ctx, userID), "checkout submit failed", err)
		}
		return nil, err
	}

	// Clearing the cart is the terminal side effect of a successful
	// checkout; a clear failure here must not undo the payment session.
	if err := b.store.Clear(ctx, userID); err != nil && b.logg != nil {
		b.logg.Error(b.logg.WithUserID(ctx, userID), "clearing cart after checkout", err)
	}

	b.finish(userID, StateSucceeded)
	b.metrics.IncCheckout(outcomeSucceeded)
	if b.logg != nil {
		b.logg.Info(b.logg.WithUserID(ctx, userID), "checkout session created")
	}
	return session, nil
}

func (b *Builder) begin(userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.states[userID] == StateSubmitting {
		return errors.New(errors.CodeStateConflict, "checkout already in progress")
	}
	b.states[userID] = StateSubmitting
	return nil
}

func (b *Builder) finish(userID string, s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states[userID] = s
}

func (b *Builder) createSession(ctx context.Context, userID string, current cart.Cart) (*Session, error) {
	if b.baseURL == "" {
		return nil, errors.New(errors.CodeCheckout, "payment backend not configured")
	}

	payload := sessionRequest{
		Products:  expandProducts(current),
		UserID:    userID,
		CartItems: current.Items,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encoding checkout request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+createSessionPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "building checkout request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCheckout, err, "calling payment backend")
	}
	defer resp.Body.Close()

	var parsed sessionResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || parsed.ID == "" {
		// Surface the backend's own message when it sent one.
		if decodeErr == nil && parsed.Error != "" {
			return nil, errors.New(errors.CodeCheckout, parsed.Error)
		}
		return nil, errors.New(errors.CodeCheckout, errors.MetadataFor(errors.CodeCheckout).PublicMessage)
	}

	return &Session{
		ID:          parsed.ID,
		RedirectURL: fmt.Sprintf("%s?session_id=%s", b.successPath, parsed.ID),
	}, nil
}

// expandProducts repeats each product id by its quantity, the shape
// the payment backend reconciles line items against.
func expandProducts(c cart.Cart) []int64 {
	ids := make([]int64, 0, c.TotalQuantity())
	for _, item := range c.Items {
		for i := 0; i < item.Quantity; i++ {
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
