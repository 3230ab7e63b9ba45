package cart

import (
	"context"
	"fmt"

	"github.com/shopsmarter/cart-engine/pkg/logger"
	"github.com/shopsmarter/cart-engine/pkg/metrics"
)

const (
	opAdd    = "add"
	opUpdate = "update_quantity"
	opRemove = "remove"
)

// Service is the only sanctioned entry point for changing cart
// contents. Every mutator does a full read-modify-write through the
// store; the last write observed by the store wins.
type Service interface {
	Get(ctx context.Context, userID string) Cart
	// AddToCart increments the existing line item or appends a new one
	// with a price snapshot frozen at add time. Invalid input is a
	// logged no-op.
	AddToCart(ctx context.Context, userID string, product Product, quantity int) error
	// UpdateQuantity adjusts quantity by delta; a result of zero or
	// below removes the line item. Unknown product ids are a no-op.
	UpdateQuantity(ctx context.Context, userID string, productID int64, delta int) error
	// RemoveFromCart drops the line item unconditionally. Removing the
	// last item clears the durable record so "empty cart" and "no
	// cart" collapse to one persisted state.
	RemoveFromCart(ctx context.Context, userID string, productID int64) error
}

type service struct {
	store   Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds the mutator service backed by the provided store.
func NewService(store Store, logg *logger.Logger, m *metrics.CartMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{store: store, logg: logg, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, userID string) Cart {
	return s.store.Load(ctx, userID)
}

func (s *service) AddToCart(ctx context.Context, userID string, product Product, quantity int) error {
	if quantity == 0 {
		quantity = 1
	}
	if product.ID == 0 || quantity < 0 {
		s.reject(ctx, userID, opAdd, fmt.Sprintf("id=%d qty=%d", product.ID, quantity))
		return nil
	}

	current := s.store.Load(ctx, userID)
	if idx := current.Lookup(product.ID); idx >= 0 {
		current.Items[idx].Quantity += quantity
	} else {
		current.Items = append(current.Items, snapshot(product, quantity))
	}

	if err := s.store.Save(ctx, userID, current); err != nil {
		return err
	}
	s.metrics.IncMutation(opAdd)
	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID string, productID int64, delta int) error {
	if productID == 0 {
		s.reject(ctx, userID, opUpdate, "missing product id")
		return nil
	}

	current := s.store.Load(ctx, userID)
	idx := current.Lookup(productID)
	if idx < 0 {
		return nil
	}

	if current.Items[idx].Quantity+delta <= 0 {
		return s.remove(ctx, userID, current, idx, opUpdate)
	}

	current.Items[idx].Quantity += delta
	if err := s.store.Save(ctx, userID, current); err != nil {
		return err
	}
	s.metrics.IncMutation(opUpdate)
	return nil
}

func (s *service) RemoveFromCart(ctx context.Context, userID string, productID int64) error {
	if productID == 0 {
		s.reject(ctx, userID, opRemove, "missing product id")
		return nil
	}

	current := s.store.Load(ctx, userID)
	idx := current.Lookup(productID)
	if idx < 0 {
		return nil
	}
	return s.remove(ctx, userID, current, idx, opRemove)
}

// remove drops the item at idx and persists: a now-empty cart clears
// the durable record instead of writing an empty list.
func (s *service) remove(ctx context.Context, userID string, current Cart, idx int, op string) error {
	current.Items = append(current.Items[:idx], current.Items[idx+1:]...)

	var err error
	if current.IsEmpty() {
		err = s.store.Clear(ctx, userID)
	} else {
		err = s.store.Save(ctx, userID, current)
	}
	if err != nil {
		return err
	}
	s.metrics.IncMutation(op)
	return nil
}

func (s *service) reject(ctx context.Context, userID, op, reason string) {
	s.metrics.IncRejection(op)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"op": op, "reason": reason})
		s.logg.Warn(s.logg.WithUserID(ctx, userID), "cart mutation rejected")
	}
}
