package domain

import "time"

const (
	MinProductImages = 1
	MaxProductImages = 5
)

// ProductImage identifies one stored image and where it can be fetched from.
type ProductImage struct {
	ID  ID     `json:"id"`
	URL string `json:"url"`
}

func NewProductImage(id ID, url string) ProductImage {
	return ProductImage{ID: id, URL: url}
}

// Product is the aggregate root for a merchant listing. Its images are kept in display
// order and may only change through Edit.
type Product struct {
	id          ID
	ownerID     ID
	name        string
	description string
	price       Amount
	stock       int
	images      []ProductImage
	createdAt   time.Time
	updatedAt   time.Time
}

// ProductSnapshot is the read projection of a Product.
type ProductSnapshot struct {
	ID          ID             `json:"id"`
	OwnerID     ID             `json:"owner_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       Amount         `json:"price"`
	Stock       int            `json:"stock"`
	Images      []ProductImage `json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewProduct(id ID, ownerID ID, name string, description string, price Amount, stock int, images []ProductImage) *Product {
	now := time.Now()
	return &Product{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		images:      copyImages(images),
		createdAt:   now,
		updatedAt:   now,
	}
}

// RestoreProduct rebuilds a Product from persisted state.
func RestoreProduct(s ProductSnapshot) *Product {
	return &Product{
		id:          s.ID,
		ownerID:     s.OwnerID,
		name:        s.Name,
		description: s.Description,
		price:       s.Price,
		stock:       s.Stock,
		images:      copyImages(s.Images),
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
}

func (p *Product) ID() ID               { return p.id }
func (p *Product) OwnerID() ID          { return p.ownerID }
func (p *Product) Name() string         { return p.name }
func (p *Product) Description() string  { return p.description }
func (p *Product) Price() Amount        { return p.price }
func (p *Product) Stock() int           { return p.stock }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// Images returns the images in display order. The slice is a copy.
func (p *Product) Images() []ProductImage {
	return copyImages(p.images)
}

func (p *Product) IsOwnedBy(actorID ID) bool {
	return p.ownerID == actorID
}

func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.id,
		OwnerID:     p.ownerID,
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		Stock:       p.stock,
		Images:      copyImages(p.images),
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
}

func copyImages(images []ProductImage) []ProductImage {
	out := make([]ProductImage, len(images))
	copy(out, images)
	return out
}

// RemovedImages returns the images of before that are no longer present in after.
func RemovedImages(before, after []ProductImage) []ProductImage {
	kept := make(map[ID]struct{}, len(after))
	for _, img := range after {
		kept[img.ID] = struct{}{}
	}
	var removed []ProductImage
	for _, img := range before {
		if _, ok := kept[img.ID]; !ok {
			removed = append(removed, img)
		}
	}
	return removed
}

type ProductCreatedEvent struct {
	ProductID ID        `json:"product_id"`
	OwnerID   ID        `json:"owner_id"`
	ImageIDs  []ID      `json:"image_ids"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) GetName() string {
	return "product.created"
}

func (e *ProductCreatedEvent) GetEntityName() string {
	return "product"
}

func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		ProductID: product.id,
		OwnerID:   product.ownerID,
		ImageIDs:  imageIDs(product.images),
		CreatedAt: product.createdAt,
	}
}

type ProductUpdatedEvent struct {
	ProductID       ID        `json:"product_id"`
	OwnerID         ID        `json:"owner_id"`
	ImageIDs        []ID      `json:"image_ids"`
	RemovedImageIDs []ID      `json:"removed_image_ids"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) GetName() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) GetEntityName() string {
	return "product"
}

func NewProductUpdatedEvent(product *Product, removed []ProductImage) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		ProductID:       product.id,
		OwnerID:         product.ownerID,
		ImageIDs:        imageIDs(product.images),
		RemovedImageIDs: imageIDs(removed),
		UpdatedAt:       product.updatedAt,
	}
}

func imageIDs(images []ProductImage) []ID {
	ids := make([]ID, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}
	return ids
}
