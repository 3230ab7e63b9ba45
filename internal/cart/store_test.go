package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	redispkg "github.com/shopsmarter/cart-engine/pkg/redis"
)

func newTestStore(t *testing.T) (Store, *redispkg.Client, *miniredis.Miniredis, *Notifier) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redispkg.NewFromAddr(srv.Addr())
	t.Cleanup(func() { _ = client.Close() })
	notifier := NewNotifier(client, "shopsmarter:cart-changed", nil)
	store := NewRedisStore(client, notifier, "shopsmarter:cart", nil)
	return store, client, srv, notifier
}

func sampleCart() Cart {
	return Cart{Items: []LineItem{
		{ProductID: 101, Name: "Denim Jacket", UnitPrice: decimal.RequireFromString("20.00"), Category: "clothing", Quantity: 2},
		{ProductID: 102, Name: "Canvas Tote", UnitPrice: decimal.RequireFromString("15.00"), Category: "accessories", Quantity: 1},
	}}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, _, _ := newTestStore(t)

	saved := sampleCart()
	if err := store.Save(ctx, "7", saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := store.Load(ctx, "7")
	if len(loaded.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loaded.Items))
	}
	if loaded.Items[0].ProductID != 101 || loaded.Items[0].Quantity != 2 {
		t.Fatalf("unexpected first item %+v", loaded.Items[0])
	}
	if !loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("frozen price not preserved: %s", loaded.Items[0].UnitPrice)
	}

	// save(load()) must not change the observable record
	if err := store.Save(ctx, "7", loaded); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}
	again := store.Load(ctx, "7")
	if len(again.Items) != len(loaded.Items) {
		t.Fatalf("round trip altered the record")
	}
}

func TestStoreLoadMissingRecordIsEmptyCart(t *testing.T) {
	store, _, _, _ := newTestStore(t)
	if got := store.Load(context.Background(), "nobody"); !got.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestStoreLoadMalformedRecordIsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store, client, _, _ := newTestStore(t)

	for _, raw := range []string{"not json", `{"id":1}`, `42`} {
		if err := client.Set(ctx, "shopsmarter:cart:7", raw, 0); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if got := store.Load(ctx, "7"); !got.IsEmpty() {
			t.Fatalf("raw %q should load as empty cart, got %+v", raw, got)
		}
	}
}

func TestStoreClearRemovesRecordAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _, srv, _ := newTestStore(t)

	if err := store.Save(ctx, "7", sampleCart()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(ctx, "7"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if srv.Exists("shopsmarter:cart:7") {
		t.Fatal("record should be gone after clear")
	}
	if err := store.Clear(ctx, "7"); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
}

func TestStoreWritesBeforeNotifying(t *testing.T) {
	ctx := context.Background()
	store, _, _, notifier := newTestStore(t)

	var seen []int
	unsubscribe := notifier.Subscribe(func(userID string) {
		// the durable record must already hold the new value
		seen = append(seen, len(store.Load(ctx, userID).Items))
	})
	defer unsubscribe()

	if err := store.Save(ctx, "7", sampleCart()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(ctx, "7"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if len(seen) != 2 || seen[0] != 2 || seen[1] != 0 {
		t.Fatalf("observer saw stale state: %v", seen)
	}
}
