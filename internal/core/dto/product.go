package dto

import "github.com/rafaelleal24/catalog/internal/core/domain"

// UploadedFile is an image file received from the client, already read into memory.
type UploadedFile struct {
	Filename string
	Data     []byte
}

type CreateProductRequest struct {
	OwnerID     domain.ID
	Name        string
	Description string
	Price       domain.Amount
	Stock       int
	Files       []UploadedFile
}

type ReplaceFile struct {
	TargetImageID domain.ID
	File          UploadedFile
}

// EditProductRequest carries one edit call. A nil ReorderToImageIDs means the current
// order is kept.
type EditProductRequest struct {
	ProductID         domain.ID
	ActorID           domain.ID
	Patch             *domain.FieldPatch
	DeleteImageIDs    []domain.ID
	ReorderToImageIDs []domain.ID
	ReplaceFiles      []ReplaceFile
	AppendFiles       []UploadedFile
}
