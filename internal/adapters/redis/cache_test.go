package redis_test

import (
	"context"
	"testing"
	"time"

	adaptredis "github.com/rafaelleal24/catalog/internal/adapters/redis"
	"github.com/rafaelleal24/catalog/internal/core/domain"
)

func testSnapshot(name string) *domain.ProductSnapshot {
	return &domain.ProductSnapshot{
		ID:      domain.NewID(),
		OwnerID: domain.NewID(),
		Name:    name,
		Price:   domain.NewAmountFromCents(1999),
		Stock:   3,
		Images: []domain.ProductImage{
			domain.NewProductImage("img-b", "/uploads/img-b.png"),
			domain.NewProductImage("img-a", "/uploads/img-a.png"),
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestCache_SetAndGet(t *testing.T) {
	cache := adaptredis.NewCache[domain.ProductSnapshot](testClient, "test-cache")
	ctx := context.Background()

	t.Run("round trips a product snapshot", func(t *testing.T) {
		snapshot := testSnapshot("Lamp")
		if err := cache.Set(ctx, "product:1", snapshot, time.Minute); err != nil {
			t.Fatalf("expected no error on set, got %v", err)
		}

		got, err := cache.Get(ctx, "product:1")
		if err != nil {
			t.Fatalf("expected no error on get, got %v", err)
		}
		if got == nil {
			t.Fatal("expected snapshot, got nil")
		}
		if got.ID != snapshot.ID || got.Name != "Lamp" || got.Price != 1999 {
			t.Fatalf("unexpected snapshot %+v", got)
		}
		if len(got.Images) != 2 || got.Images[0].ID != "img-b" || got.Images[1].ID != "img-a" {
			t.Fatalf("expected image order preserved, got %+v", got.Images)
		}
		if !got.UpdatedAt.Equal(snapshot.UpdatedAt) {
			t.Fatalf("expected updated_at %v, got %v", snapshot.UpdatedAt, got.UpdatedAt)
		}
	})

	t.Run("get returns nil for missing key", func(t *testing.T) {
		got, err := cache.Get(ctx, "nonexistent-key")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("ttl expires value", func(t *testing.T) {
		if err := cache.Set(ctx, "ttl-item", testSnapshot("Ephemeral"), 100*time.Millisecond); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		time.Sleep(200 * time.Millisecond)

		got, err := cache.Get(ctx, "ttl-item")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil (expired), got %+v", got)
		}
	})
}

func TestCache_SetNX(t *testing.T) {
	cache := adaptredis.NewCache[domain.ProductSnapshot](testClient, "test-setnx")
	ctx := context.Background()

	ok, err := cache.SetNX(ctx, "nx-key", testSnapshot("first"), time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("expected first SetNX to succeed")
	}

	ok, err = cache.SetNX(ctx, "nx-key", testSnapshot("second"), time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected second SetNX to fail (key already exists)")
	}

	got, _ := cache.Get(ctx, "nx-key")
	if got == nil || got.Name != "first" {
		t.Fatalf("expected original snapshot, got %+v", got)
	}
}

func TestCache_Del(t *testing.T) {
	cache := adaptredis.NewCache[domain.ProductSnapshot](testClient, "test-del")
	ctx := context.Background()

	t.Run("deletes existing key", func(t *testing.T) {
		_ = cache.Set(ctx, "del-key", testSnapshot("gone"), time.Minute)

		if err := cache.Del(ctx, "del-key"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, _ := cache.Get(ctx, "del-key")
		if got != nil {
			t.Fatalf("expected nil after delete, got %+v", got)
		}
	})

	t.Run("delete non-existing key does not error", func(t *testing.T) {
		if err := cache.Del(ctx, "nonexistent-del-key"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
