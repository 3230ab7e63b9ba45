package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redispkg "github.com/shopsmarter/cart-engine/pkg/redis"
)

func TestNotifierSubscribeUnsubscribe(t *testing.T) {
	n := NewNotifier(nil, "chan", nil)

	var first, second int
	unsub1 := n.Subscribe(func(string) { first++ })
	unsub2 := n.Subscribe(func(string) { second++ })

	n.CartChanged(context.Background(), "7")
	if first != 1 || second != 1 {
		t.Fatalf("expected both handlers to fire, got %d/%d", first, second)
	}

	unsub1()
	unsub1() // teardown may fire twice
	n.CartChanged(context.Background(), "7")
	if first != 1 || second != 2 {
		t.Fatalf("unsubscribed handler fired: %d/%d", first, second)
	}
	unsub2()
}

func TestNotifierCrossInstanceDelivery(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redispkg.NewFromAddr(srv.Addr())
	t.Cleanup(func() { _ = client.Close() })

	writer := NewNotifier(client, "shopsmarter:cart-changed", nil)
	reader := NewNotifier(client, "shopsmarter:cart-changed", nil)

	got := make(chan string, 1)
	reader.Subscribe(func(userID string) { got <- userID })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listening := make(chan error, 1)
	go func() { listening <- reader.Listen(ctx) }()

	// Probe until the pattern subscription is established. The probe
	// carries the reader's own instance id, so it is skipped as a
	// loopback and never reaches the handler.
	deadline := time.After(2 * time.Second)
	for srv.Publish("shopsmarter:cart-changed:probe", reader.instanceID) == 0 {
		select {
		case <-deadline:
			t.Fatal("subscription never established")
		case <-time.After(10 * time.Millisecond):
		}
	}

	writer.CartChanged(ctx, "7")

	select {
	case userID := <-got:
		if userID != "7" {
			t.Fatalf("unexpected user id %q", userID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cross-instance signal never delivered")
	}

	cancel()
	select {
	case <-listening:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on cancel")
	}
}

func TestNotifierSkipsOwnPublishes(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redispkg.NewFromAddr(srv.Addr())
	t.Cleanup(func() { _ = client.Close() })

	n := NewNotifier(client, "shopsmarter:cart-changed", nil)

	var fired int
	n.Subscribe(func(string) { fired++ })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = n.Listen(ctx) }()

	deadline := time.After(2 * time.Second)
	for srv.Publish("shopsmarter:cart-changed:probe", n.instanceID) == 0 {
		select {
		case <-deadline:
			t.Fatal("subscription never established")
		case <-time.After(10 * time.Millisecond):
		}
	}

	n.CartChanged(ctx, "7")
	time.Sleep(100 * time.Millisecond)

	// one local delivery, no echo from the loopback publish
	if fired != 1 {
		t.Fatalf("expected exactly one delivery, got %d", fired)
	}
}
