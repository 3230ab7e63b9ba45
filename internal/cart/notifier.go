package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopsmarter/cart-engine/pkg/logger"
	redispkg "github.com/shopsmarter/cart-engine/pkg/redis"
)

// Handler receives the user id whose cart changed. The signal carries
// no cart data; subscribers must re-read the store.
type Handler func(userID string)

// Notifier fans "cart changed" out to in-process subscribers and, via
// the store's pub/sub channel, to every other instance sharing the
// same durable record.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]Handler

	client        *redispkg.Client
	channelPrefix string
	instanceID    string
	logg          *logger.Logger
}

// NewNotifier builds a notifier. The redis client may be nil for
// purely in-process use (tests).
func NewNotifier(client *redispkg.Client, channelPrefix string, logg *logger.Logger) *Notifier {
	return &Notifier{
		subs:          map[int]Handler{},
		client:        client,
		channelPrefix: channelPrefix,
		instanceID:    uuid.NewString(),
		logg:          logg,
	}
}

// Subscribe registers a handler and returns its unsubscribe func,
// which is safe to call during teardown and more than once.
func (n *Notifier) Subscribe(h Handler) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.subs[id] = h
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// CartChanged is invoked by the store after every durable write. Local
// subscribers fire synchronously; the cross-context publish failure is
// logged but never fails the mutation that already persisted.
func (n *Notifier) CartChanged(ctx context.Context, userID string) {
	n.notifyLocal(userID)

	if n.client == nil {
		return
	}
	channel := redispkg.BuildKey(n.channelPrefix, userID)
	if err := n.client.Publish(ctx, channel, n.instanceID); err != nil && n.logg != nil {
		n.logg.Error(n.logg.WithUserID(ctx, userID), "cart change publish failed", err)
	}
}

// Listen consumes the cross-context channel until ctx is done, waking
// local subscribers for changes made by other instances. Messages
// published by this instance are skipped; everything else is treated
// purely as a wake-up signal.
func (n *Notifier) Listen(ctx context.Context) error {
	if n.client == nil {
		return nil
	}
	pattern := redispkg.BuildKey(n.channelPrefix, "*")
	msgs, closeSub, err := n.client.Subscribe(ctx, pattern)
	if err != nil {
		return err
	}
	defer closeSub()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if msg.Payload == n.instanceID {
				continue
			}
			n.notifyLocal(n.userIDFromChannel(msg.Channel))
		}
	}
}

func (n *Notifier) notifyLocal(userID string) {
	n.mu.Lock()
	handlers := make([]Handler, 0, len(n.subs))
	for _, h := range n.subs {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(userID)
	}
}

func (n *Notifier) userIDFromChannel(channel string) string {
	return strings.TrimPrefix(channel, n.channelPrefix+":")
}
