package document

import (
	"testing"
	"time"

	"github.com/rafaelleal24/catalog/internal/core/domain"
)

func TestToProductDocument_KeepsImageOrder(t *testing.T) {
	p := domain.NewProduct("p1", "owner", "Lamp", "Desk lamp", 2599, 3, []domain.ProductImage{
		domain.NewProductImage("c", "/uploads/c.png"),
		domain.NewProductImage("a", "/uploads/a.png"),
		domain.NewProductImage("b", "/uploads/b.png"),
	})

	doc := ToProductDocument(p)

	if doc.ID != "p1" || doc.OwnerID != "owner" {
		t.Fatalf("unexpected ids: %q/%q", doc.ID, doc.OwnerID)
	}
	for i, want := range []string{"c", "a", "b"} {
		if doc.Images[i].ID != want || doc.Images[i].Position != i {
			t.Fatalf("image %d: expected %q at position %d, got %+v", i, want, i, doc.Images[i])
		}
	}
}

func TestProductDocument_ToDomainSortsByPosition(t *testing.T) {
	doc := &ProductDocument{
		ID:      "p1",
		OwnerID: "owner",
		Name:    "Lamp",
		Price:   100,
		Images: []ProductImageDocument{
			{ID: "b", URL: "/uploads/b.png", Position: 1},
			{ID: "c", URL: "/uploads/c.png", Position: 2},
			{ID: "a", URL: "/uploads/a.png", Position: 0},
		},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	p := doc.ToDomain()

	images := p.Images()
	for i, want := range []domain.ID{"a", "b", "c"} {
		if images[i].ID != want {
			t.Fatalf("image %d: expected %q, got %q", i, want, images[i].ID)
		}
	}
	if !p.UpdatedAt().Equal(doc.UpdatedAt) {
		t.Fatalf("expected UpdatedAt %v, got %v", doc.UpdatedAt, p.UpdatedAt())
	}
	if doc.Images[0].ID != "b" {
		t.Fatal("ToDomain must not reorder the document's own slice")
	}
}
