package domain

import "time"

// FieldPatch holds the scalar fields to overwrite. Nil fields are left untouched.
type FieldPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *Amount `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
}

func (p *FieldPatch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil)
}

// ImageReplacement swaps the image currently identified by TargetImageID for NewImage,
// keeping its position.
type ImageReplacement struct {
	TargetImageID ID
	NewImage      ProductImage
}

type EditRequest struct {
	ActorID           ID
	Patch             *FieldPatch
	DeleteImageIDs    []ID
	ReplaceImages     []ImageReplacement
	AppendImages      []ProductImage
	ReorderToImageIDs []ID
}

// Edit applies the request in a fixed order: ownership, field patch, deletions,
// replacements, appends, reorder, then the image count bounds. Either every step succeeds
// and the new state is committed, or an *Error is returned and the product is unchanged.
//
// Reorder runs after replace and append so that it validates against the final image ids.
func (p *Product) Edit(req EditRequest) error {
	if req.ActorID != p.ownerID {
		return ErrUnauthorizedEdit
	}

	name, description, price, stock := p.name, p.description, p.price, p.stock
	if patch := req.Patch; patch != nil {
		if patch.Name != nil {
			name = *patch.Name
		}
		if patch.Description != nil {
			description = *patch.Description
		}
		if patch.Price != nil {
			price = *patch.Price
		}
		if patch.Stock != nil {
			stock = *patch.Stock
		}
	}

	images, err := editImages(p.images, req)
	if err != nil {
		return err
	}

	p.name = name
	p.description = description
	p.price = price
	p.stock = stock
	p.images = images
	p.updatedAt = time.Now()
	return nil
}

func editImages(current []ProductImage, req EditRequest) ([]ProductImage, error) {
	images := deleteImages(current, req.DeleteImageIDs)

	images, err := replaceImages(images, req.ReplaceImages)
	if err != nil {
		return nil, err
	}

	images = append(images, req.AppendImages...)
	if _, err := indexImages(images); err != nil {
		return nil, err
	}

	if len(req.ReorderToImageIDs) > 0 {
		images, err = reorderImages(images, req.ReorderToImageIDs)
		if err != nil {
			return nil, err
		}
	}

	if len(images) < MinProductImages {
		return nil, ErrAtLeastOneImageRequired
	}
	if len(images) > MaxProductImages {
		return nil, ErrMaxImagesExceeded
	}
	return images, nil
}

func deleteImages(images []ProductImage, ids []ID) []ProductImage {
	out := make([]ProductImage, 0, len(images))
	if len(ids) == 0 {
		return append(out, images...)
	}
	drop := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	for _, img := range images {
		if _, ok := drop[img.ID]; !ok {
			out = append(out, img)
		}
	}
	return out
}

func replaceImages(images []ProductImage, replacements []ImageReplacement) ([]ProductImage, error) {
	for _, rep := range replacements {
		pos := -1
		for i, img := range images {
			if img.ID == rep.TargetImageID {
				pos = i
				break
			}
		}
		if pos == -1 {
			return nil, ErrInvalidReplaceTarget
		}
		images[pos] = rep.NewImage
	}
	return images, nil
}

func reorderImages(images []ProductImage, order []ID) ([]ProductImage, error) {
	if len(order) != len(images) {
		return nil, ErrInvalidReorderLength
	}
	index, err := indexImages(images)
	if err != nil {
		return nil, err
	}

	reordered := make([]ProductImage, 0, len(order))
	seen := make(map[ID]struct{}, len(order))
	for _, id := range order {
		pos, ok := index[id]
		if !ok {
			return nil, ErrInvalidReorderID
		}
		if _, dup := seen[id]; dup {
			return nil, ErrInvalidReorderID
		}
		seen[id] = struct{}{}
		reordered = append(reordered, images[pos])
	}
	return reordered, nil
}

// indexImages maps each image id to its position and rejects repeated ids.
func indexImages(images []ProductImage) (map[ID]int, error) {
	index := make(map[ID]int, len(images))
	for i, img := range images {
		if _, dup := index[img.ID]; dup {
			return nil, ErrDuplicateImageID
		}
		index[img.ID] = i
	}
	return index, nil
}
