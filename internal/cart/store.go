package cart

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/shopsmarter/cart-engine/pkg/errors"
	"github.com/shopsmarter/cart-engine/pkg/logger"
	redispkg "github.com/shopsmarter/cart-engine/pkg/redis"
)

// Store is the only component that reads and writes the durable cart
// record.
type Store interface {
	// Load returns the stored cart. A missing, malformed, or non-list
	// record yields an empty cart; Load never fails its caller.
	Load(ctx context.Context, userID string) Cart
	// Save writes the full cart in a single atomic write, then signals
	// the change notifier.
	Save(ctx context.Context, userID string, c Cart) error
	// Clear removes the durable record entirely. Idempotent.
	Clear(ctx context.Context, userID string) error
}

type redisStore struct {
	client    *redispkg.Client
	notifier  *Notifier
	keyPrefix string
	logg      *logger.Logger
}

// NewRedisStore builds the Redis-backed cart store. Every successful
// write is followed by a change notification, in that order, so
// observers never see an in-memory cart newer than the durable one.
func NewRedisStore(client *redispkg.Client, notifier *Notifier, keyPrefix string, logg *logger.Logger) Store {
	return &redisStore{
		client:    client,
		notifier:  notifier,
		keyPrefix: keyPrefix,
		logg:      logg,
	}
}

func (s *redisStore) Load(ctx context.Context, userID string) Cart {
	raw, err := s.client.Get(ctx, s.key(userID))
	if err != nil {
		if !redispkg.IsNil(err) && s.logg != nil {
			s.logg.Error(s.logg.WithUserID(ctx, userID), "cart record read failed, treating as empty", err)
		}
		return Cart{}
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, userID), "cart record malformed, treating as empty")
		}
		return Cart{}
	}
	return Cart{Items: items}
}

func (s *redisStore) Save(ctx context.Context, userID string, c Cart) error {
	payload, err := json.Marshal(c.Items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart")
	}
	if err := s.client.Set(ctx, s.key(userID), payload, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	s.notifier.CartChanged(ctx, userID)
	return nil
}

func (s *redisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.notifier.CartChanged(ctx, userID)
	return nil
}

func (s *redisStore) key(userID string) string {
	return redispkg.BuildKey(s.keyPrefix, userID)
}
