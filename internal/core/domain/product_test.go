package domain

import (
	"testing"
	"time"
)

func img(id string) ProductImage {
	return NewProductImage(ID(id), "/uploads/"+id+".png")
}

func imgs(ids ...string) []ProductImage {
	out := make([]ProductImage, len(ids))
	for i, id := range ids {
		out[i] = img(id)
	}
	return out
}

func TestNewProduct(t *testing.T) {
	before := time.Now()
	images := imgs("a", "b")
	p := NewProduct("p1", "owner", "Widget", "A fine widget", NewAmountFromCents(4999), 25, images)
	after := time.Now()

	if p.ID() != "p1" {
		t.Fatalf("expected id 'p1', got %q", p.ID())
	}
	if p.OwnerID() != "owner" {
		t.Fatalf("expected owner 'owner', got %q", p.OwnerID())
	}
	if p.Name() != "Widget" {
		t.Fatalf("expected name 'Widget', got %q", p.Name())
	}
	if p.Description() != "A fine widget" {
		t.Fatalf("expected description 'A fine widget', got %q", p.Description())
	}
	if p.Price() != 4999 {
		t.Fatalf("expected price 4999, got %d", p.Price())
	}
	if p.Stock() != 25 {
		t.Fatalf("expected stock 25, got %d", p.Stock())
	}
	if p.CreatedAt().Before(before) || p.CreatedAt().After(after) {
		t.Fatalf("CreatedAt %v not in expected range [%v, %v]", p.CreatedAt(), before, after)
	}
	if !p.UpdatedAt().Equal(p.CreatedAt()) {
		t.Fatalf("expected UpdatedAt == CreatedAt, got %v and %v", p.UpdatedAt(), p.CreatedAt())
	}

	images[0] = img("mutated")
	if p.Images()[0].ID != "a" {
		t.Fatal("product must not share the caller's image slice")
	}
}

func TestProduct_ImagesReturnsCopy(t *testing.T) {
	p := NewProduct("p1", "owner", "n", "d", 100, 1, imgs("a", "b"))

	got := p.Images()
	got[0] = img("z")

	if p.Images()[0].ID != "a" {
		t.Fatalf("expected first image to stay 'a', got %q", p.Images()[0].ID)
	}
}

func TestProduct_IsOwnedBy(t *testing.T) {
	p := NewProduct("p1", "owner", "n", "d", 100, 1, imgs("a"))
	if !p.IsOwnedBy("owner") {
		t.Fatal("expected owner to own the product")
	}
	if p.IsOwnedBy("someone-else") {
		t.Fatal("expected other actor not to own the product")
	}
}

func TestRestoreProduct_RoundTripsSnapshot(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)
	snap := ProductSnapshot{
		ID:          "p1",
		OwnerID:     "owner",
		Name:        "Lamp",
		Description: "Desk lamp",
		Price:       2599,
		Stock:       3,
		Images:      imgs("a", "b", "c"),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}

	p := RestoreProduct(snap)
	got := p.Snapshot()

	if got.ID != snap.ID || got.OwnerID != snap.OwnerID || got.Name != snap.Name ||
		got.Description != snap.Description || got.Price != snap.Price || got.Stock != snap.Stock {
		t.Fatalf("scalar fields differ: got %+v, want %+v", got, snap)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("timestamps differ: got %v/%v", got.CreatedAt, got.UpdatedAt)
	}
	assertImageIDs(t, got.Images, "a", "b", "c")
}

func TestRemovedImages(t *testing.T) {
	tests := []struct {
		name   string
		before []ProductImage
		after  []ProductImage
		want   []string
	}{
		{"nothing removed", imgs("a", "b"), imgs("b", "a"), nil},
		{"one removed", imgs("a", "b", "c"), imgs("a", "c"), []string{"b"}},
		{"replaced image counts as removed", imgs("a", "b"), imgs("a", "b2"), []string{"b"}},
		{"all removed", imgs("a", "b"), nil, []string{"a", "b"}},
		{"appends are not removals", imgs("a"), imgs("a", "x"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertImageIDs(t, RemovedImages(tt.before, tt.after), tt.want...)
		})
	}
}

func TestNewProductCreatedEvent(t *testing.T) {
	p := NewProduct("p1", "owner", "n", "d", 100, 1, imgs("a", "b"))
	e := NewProductCreatedEvent(p)

	if e.GetName() != "product.created" {
		t.Fatalf("expected name 'product.created', got %q", e.GetName())
	}
	if e.GetEntityName() != "product" {
		t.Fatalf("expected entity 'product', got %q", e.GetEntityName())
	}
	if e.ProductID != "p1" || e.OwnerID != "owner" {
		t.Fatalf("unexpected ids: %+v", e)
	}
	if len(e.ImageIDs) != 2 || e.ImageIDs[0] != "a" || e.ImageIDs[1] != "b" {
		t.Fatalf("unexpected image ids: %v", e.ImageIDs)
	}
}

func TestNewProductUpdatedEvent(t *testing.T) {
	p := NewProduct("p1", "owner", "n", "d", 100, 1, imgs("a"))
	e := NewProductUpdatedEvent(p, imgs("b", "c"))

	if e.GetName() != "product.updated" {
		t.Fatalf("expected name 'product.updated', got %q", e.GetName())
	}
	if len(e.RemovedImageIDs) != 2 || e.RemovedImageIDs[0] != "b" {
		t.Fatalf("unexpected removed ids: %v", e.RemovedImageIDs)
	}
	if !e.UpdatedAt.Equal(p.UpdatedAt()) {
		t.Fatalf("expected UpdatedAt %v, got %v", p.UpdatedAt(), e.UpdatedAt)
	}
}

func assertImageIDs(t *testing.T, got []ProductImage, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d images %v, got %d: %+v", len(want), want, len(got), got)
	}
	for i, id := range want {
		if got[i].ID != ID(id) {
			t.Fatalf("image %d: expected id %q, got %q (all: %+v)", i, id, got[i].ID, got)
		}
	}
}
