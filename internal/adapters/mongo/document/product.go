package document

import (
	"sort"
	"time"

	"github.com/rafaelleal24/catalog/internal/core/domain"
)

type ProductImageDocument struct {
	ID       string `bson:"id"`
	URL      string `bson:"url"`
	Position int    `bson:"position"`
}

type ProductDocument struct {
	ID          string                 `bson:"_id"`
	OwnerID     string                 `bson:"owner_id"`
	Name        string                 `bson:"name"`
	Description string                 `bson:"description"`
	Price       int64                  `bson:"price"`
	Stock       int                    `bson:"stock"`
	Images      []ProductImageDocument `bson:"images"`
	CreatedAt   time.Time              `bson:"created_at"`
	UpdatedAt   time.Time              `bson:"updated_at"`
}

func (doc ProductDocument) GetID() string {
	return doc.ID
}

func (doc *ProductDocument) ToDomain() *domain.Product {
	images := make([]ProductImageDocument, len(doc.Images))
	copy(images, doc.Images)
	sort.SliceStable(images, func(i, j int) bool { return images[i].Position < images[j].Position })

	domainImages := make([]domain.ProductImage, len(images))
	for i, img := range images {
		domainImages[i] = domain.NewProductImage(domain.ID(img.ID), img.URL)
	}

	return domain.RestoreProduct(domain.ProductSnapshot{
		ID:          domain.ID(doc.ID),
		OwnerID:     domain.ID(doc.OwnerID),
		Name:        doc.Name,
		Description: doc.Description,
		Price:       domain.Amount(doc.Price),
		Stock:       doc.Stock,
		Images:      domainImages,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	})
}

func ToProductDocument(p *domain.Product) *ProductDocument {
	images := p.Images()
	imageDocs := make([]ProductImageDocument, len(images))
	for i, img := range images {
		imageDocs[i] = ProductImageDocument{ID: string(img.ID), URL: img.URL, Position: i}
	}

	return &ProductDocument{
		ID:          string(p.ID()),
		OwnerID:     string(p.OwnerID()),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       int64(p.Price()),
		Stock:       p.Stock(),
		Images:      imageDocs,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
