package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/dto"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/port"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
	"github.com/rafaelleal24/catalog/internal/core/utils"
)

type ProductServiceConfig struct {
	StorageTimeout    time.Duration
	RepositoryTimeout time.Duration
	CacheTTL          time.Duration
}

type ProductService struct {
	productRepository port.ProductPort
	imageStorage      port.ImageStoragePort
	productCache      port.CachePort[domain.ProductSnapshot]
	idempotency       *IdempotencyService[domain.ProductSnapshot]
	config            ProductServiceConfig
}

func NewProductService(
	productRepository port.ProductPort,
	imageStorage port.ImageStoragePort,
	productCache port.CachePort[domain.ProductSnapshot],
	idempotency *IdempotencyService[domain.ProductSnapshot],
	config ProductServiceConfig,
) *ProductService {
	return &ProductService{
		productRepository: productRepository,
		imageStorage:      imageStorage,
		productCache:      productCache,
		idempotency:       idempotency,
		config:            config,
	}
}

func (s *ProductService) getCacheKey(productID domain.ID) string {
	return fmt.Sprintf("product:%s", productID)
}

func (s *ProductService) CreateProduct(ctx context.Context, idempotencyKey string, request *dto.CreateProductRequest) (*domain.ProductSnapshot, error) {
	if idempotencyKey == "" {
		return s.processCreate(ctx, request)
	}

	// keys are scoped per merchant so two merchants never share a result
	idempotencyKey = fmt.Sprintf("%s:%s", request.OwnerID, idempotencyKey)
	payloadHash := createPayloadHash(request)

	existing, err := s.idempotency.Claim(ctx, idempotencyKey, payloadHash)
	if err != nil {
		logger.Error(ctx, "idempotency: claim failed", err, map[string]any{
			"idempotency_key": idempotencyKey,
		})
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	snapshot, err := s.processCreate(ctx, request)
	if err != nil {
		s.idempotency.Release(ctx, idempotencyKey)
		return nil, err
	}

	s.idempotency.Complete(ctx, idempotencyKey, payloadHash, snapshot)

	return snapshot, nil
}

func createPayloadHash(request *dto.CreateProductRequest) string {
	checksums := make([]string, len(request.Files))
	for i, f := range request.Files {
		checksums[i] = utils.HashBytes(f.Data)
	}
	return utils.HashJSON(map[string]any{
		"owner_id":    request.OwnerID,
		"name":        request.Name,
		"description": request.Description,
		"price":       request.Price,
		"stock":       request.Stock,
		"files":       checksums,
	})
}

func (s *ProductService) processCreate(ctx context.Context, request *dto.CreateProductRequest) (*domain.ProductSnapshot, error) {
	name, description, err := validateProductFields(request.Name, request.Description, request.Price, request.Stock)
	if err != nil {
		return nil, err
	}
	if len(request.Files) < domain.MinProductImages {
		return nil, domain.ErrAtLeastOneImageRequired
	}
	if len(request.Files) > domain.MaxProductImages {
		return nil, domain.ErrMaxImagesExceeded
	}

	images := make([]domain.ProductImage, 0, len(request.Files))
	for _, file := range request.Files {
		image, err := s.storeImage(ctx, file)
		if err != nil {
			s.deleteImages(ctx, images)
			return nil, err
		}
		images = append(images, *image)
	}

	product := domain.NewProduct(domain.NewID(), request.OwnerID, name, description, request.Price, request.Stock, images)

	if err := s.save(ctx, product, domain.NewProductCreatedEvent(product)); err != nil {
		logger.Error(ctx, "product: create failed", err, map[string]any{
			"owner_id": request.OwnerID,
			"name":     name,
			"images":   len(images),
		})
		s.deleteImages(ctx, images)
		return nil, err
	}

	snapshot := product.Snapshot()
	s.cacheSnapshot(ctx, &snapshot)

	logger.Info(ctx, "Product created", map[string]any{
		"product_id": product.ID(),
		"owner_id":   product.OwnerID(),
	})
	return &snapshot, nil
}

// EditProduct stores the uploaded files, applies the edit to the aggregate, removes the
// bytes of every image the edit dropped and persists the result. Uploads happen before
// the aggregate validates the image changes, so a rejected edit leaves its uploads behind.
func (s *ProductService) EditProduct(ctx context.Context, request *dto.EditProductRequest) (*domain.ProductSnapshot, error) {
	product, err := s.getProduct(ctx, request.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(request.ActorID) {
		return nil, domain.ErrUnauthorizedEdit
	}

	patch, err := sanitizePatch(request.Patch)
	if err != nil {
		return nil, err
	}

	appendImages := make([]domain.ProductImage, 0, len(request.AppendFiles))
	for _, file := range request.AppendFiles {
		image, err := s.storeImage(ctx, file)
		if err != nil {
			return nil, err
		}
		appendImages = append(appendImages, *image)
	}

	replaceImages := make([]domain.ImageReplacement, 0, len(request.ReplaceFiles))
	for _, rep := range request.ReplaceFiles {
		image, err := s.storeImage(ctx, rep.File)
		if err != nil {
			return nil, err
		}
		replaceImages = append(replaceImages, domain.ImageReplacement{
			TargetImageID: rep.TargetImageID,
			NewImage:      *image,
		})
	}

	before := product.Images()

	err = product.Edit(domain.EditRequest{
		ActorID:           request.ActorID,
		Patch:             patch,
		DeleteImageIDs:    request.DeleteImageIDs,
		ReplaceImages:     replaceImages,
		AppendImages:      appendImages,
		ReorderToImageIDs: resolveReorder(request.ReorderToImageIDs, replaceImages, appendImages),
	})
	if err != nil {
		logger.Warn(ctx, "product: edit rejected", map[string]any{
			"product_id":      request.ProductID,
			"actor_id":        request.ActorID,
			"error":           err.Error(),
			"orphaned_images": len(appendImages) + len(replaceImages),
		})
		return nil, err
	}

	removed := domain.RemovedImages(before, product.Images())
	s.deleteImages(ctx, removed)

	if err := s.save(ctx, product, domain.NewProductUpdatedEvent(product, removed)); err != nil {
		logger.Error(ctx, "product: save after edit failed", err, map[string]any{
			"product_id": product.ID(),
		})
		return nil, err
	}

	snapshot := product.Snapshot()
	s.cacheSnapshot(ctx, &snapshot)

	logger.Info(ctx, "Product edited", map[string]any{
		"product_id":     product.ID(),
		"images":         len(snapshot.Images),
		"removed_images": len(removed),
	})
	return &snapshot, nil
}

// resolveReorder rewrites a client supplied order, which only knows the ids the product had
// before the edit, into one that refers to the final image set: replaced ids become the ids
// of their replacements and appended images go last, in upload order.
func resolveReorder(order []domain.ID, replaced []domain.ImageReplacement, appended []domain.ProductImage) []domain.ID {
	if len(order) == 0 {
		return nil
	}

	substitute := make(map[domain.ID]domain.ID, len(replaced))
	for _, rep := range replaced {
		substitute[rep.TargetImageID] = rep.NewImage.ID
	}

	resolved := make([]domain.ID, 0, len(order)+len(appended))
	present := make(map[domain.ID]struct{}, len(order)+len(appended))
	for _, id := range order {
		if newID, ok := substitute[id]; ok {
			id = newID
		}
		resolved = append(resolved, id)
		present[id] = struct{}{}
	}
	for _, img := range appended {
		if _, ok := present[img.ID]; ok {
			continue
		}
		resolved = append(resolved, img.ID)
	}
	return resolved
}

func (s *ProductService) ListByOwner(ctx context.Context, ownerID domain.ID) ([]domain.ProductSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.RepositoryTimeout)
	defer cancel()

	products, err := s.productRepository.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.ProductSnapshot, len(products))
	for i, p := range products {
		snapshots[i] = p.Snapshot()
	}
	return snapshots, nil
}

// GetByID returns the product projection if actorID owns it.
func (s *ProductService) GetByID(ctx context.Context, actorID, productID domain.ID) (*domain.ProductSnapshot, error) {
	cached, err := s.productCache.Get(ctx, s.getCacheKey(productID))
	if err != nil {
		logger.Error(ctx, "cache: get product failed", err, map[string]any{
			"product_id": productID,
		})
	}

	snapshot := cached
	if snapshot == nil {
		product, err := s.getProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		fresh := product.Snapshot()
		snapshot = &fresh
		s.cacheSnapshot(ctx, snapshot)
	}

	if snapshot.OwnerID != actorID {
		return nil, serviceerrors.NewForbiddenError("not allowed to view this product")
	}
	return snapshot, nil
}

func (s *ProductService) getProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.RepositoryTimeout)
	defer cancel()

	return s.productRepository.GetByID(ctx, id)
}

func (s *ProductService) save(ctx context.Context, product *domain.Product, events ...domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RepositoryTimeout)
	defer cancel()

	return s.productRepository.Save(ctx, product, events...)
}

func (s *ProductService) storeImage(ctx context.Context, file dto.UploadedFile) (*domain.ProductImage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StorageTimeout)
	defer cancel()

	image, err := s.imageStorage.Save(ctx, file.Data, file.Filename)
	if err != nil {
		logger.Error(ctx, "storage: save image failed", err, map[string]any{
			"filename": file.Filename,
			"size":     len(file.Data),
		})
		return nil, fmt.Errorf("store image %q: %w", file.Filename, err)
	}
	return image, nil
}

// deleteImages removes stored bytes on a best effort basis.
func (s *ProductService) deleteImages(ctx context.Context, images []domain.ProductImage) {
	for _, img := range images {
		delCtx, cancel := context.WithTimeout(ctx, s.config.StorageTimeout)
		err := s.imageStorage.Delete(delCtx, img.URL)
		cancel()
		if err != nil {
			logger.Error(ctx, "storage: delete image failed", err, map[string]any{
				"image_id": img.ID,
				"url":      img.URL,
			})
		}
	}
}

func (s *ProductService) cacheSnapshot(ctx context.Context, snapshot *domain.ProductSnapshot) {
	if err := s.productCache.Set(ctx, s.getCacheKey(snapshot.ID), snapshot, s.config.CacheTTL); err != nil {
		logger.Error(ctx, "cache: set product failed", err, map[string]any{
			"product_id": snapshot.ID,
		})
	}
}

func validateProductFields(name, description string, price domain.Amount, stock int) (string, string, error) {
	name = utils.StripMarkup(name)
	if name == "" {
		return "", "", serviceerrors.NewInvalidRequestError("name is required")
	}
	if price < 0 {
		return "", "", serviceerrors.NewInvalidRequestError("price must not be negative")
	}
	if stock < 0 {
		return "", "", serviceerrors.NewInvalidRequestError("stock must not be negative")
	}
	return name, utils.StripMarkup(description), nil
}

func sanitizePatch(patch *domain.FieldPatch) (*domain.FieldPatch, error) {
	if patch.IsEmpty() {
		return nil, nil
	}
	out := *patch
	if out.Name != nil {
		name := utils.StripMarkup(*out.Name)
		if name == "" {
			return nil, serviceerrors.NewInvalidRequestError("name must not be empty")
		}
		out.Name = &name
	}
	if out.Description != nil {
		description := utils.StripMarkup(*out.Description)
		out.Description = &description
	}
	if out.Price != nil && *out.Price < 0 {
		return nil, serviceerrors.NewInvalidRequestError("price must not be negative")
	}
	if out.Stock != nil && *out.Stock < 0 {
		return nil, serviceerrors.NewInvalidRequestError("stock must not be negative")
	}
	return &out, nil
}
