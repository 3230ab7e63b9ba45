package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client := NewFromAddr(srv.Addr())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSetGetDelRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if err := client.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "v" {
		t.Fatalf("expected v got %q", got)
	}

	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "k"); !IsNil(err) {
		t.Fatalf("expected nil-key error after delete, got %v", err)
	}
}

func TestDelMissingKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if err := client.Del(ctx, "never-set"); err != nil {
		t.Fatalf("deleting absent key should not error: %v", err)
	}
}

func TestPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	msgs, closeSub, err := client.Subscribe(ctx, "events:*")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer closeSub()

	if err := client.Publish(ctx, "events:42", ""); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-msgs:
		if msg.Channel != "events:42" {
			t.Fatalf("unexpected channel %q", msg.Channel)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	if got := BuildKey("shopsmarter:cart", "", "7"); got != "shopsmarter:cart:7" {
		t.Fatalf("unexpected key %q", got)
	}
}
