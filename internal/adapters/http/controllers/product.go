package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/catalog/internal/adapters/http/handlers"
	"github.com/rafaelleal24/catalog/internal/adapters/http/middleware"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/dto"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

const filesField = "files"

type ProductService interface {
	CreateProduct(ctx context.Context, idempotencyKey string, request *dto.CreateProductRequest) (*domain.ProductSnapshot, error)
	EditProduct(ctx context.Context, request *dto.EditProductRequest) (*domain.ProductSnapshot, error)
	ListByOwner(ctx context.Context, ownerID domain.ID) ([]domain.ProductSnapshot, error)
	GetByID(ctx context.Context, actorID, productID domain.ID) (*domain.ProductSnapshot, error)
}

type ProductController struct {
	productService ProductService
	maxUploadBytes int64
}

type ImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ProductResponse carries the price in currency units, the same unit create and patch accept.
type ProductResponse struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Stock       int             `json:"stock"`
	Images      []ImageResponse `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewProductResponse(product *domain.ProductSnapshot) ProductResponse {
	images := make([]ImageResponse, len(product.Images))
	for i, img := range product.Images {
		images[i] = ImageResponse{ID: string(img.ID), URL: img.URL}
	}
	return ProductResponse{
		ID:          string(product.ID),
		OwnerID:     string(product.OwnerID),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.ToValue(),
		Stock:       product.Stock,
		Images:      images,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// patchRequest mirrors domain.FieldPatch with the price given in currency units.
type patchRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
	Stock       *int         `json:"stock"`
}

func (p *patchRequest) toDomain() (*domain.FieldPatch, error) {
	patch := &domain.FieldPatch{
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
	}
	if p.Price != nil {
		price, err := domain.ParseAmount(p.Price.String())
		if err != nil {
			return nil, serviceerrors.NewInvalidRequestError("invalid price")
		}
		patch.Price = &price
	}
	return patch, nil
}

func NewProductController(productService ProductService, maxUploadBytes int64) *ProductController {
	return &ProductController{productService: productService, maxUploadBytes: maxUploadBytes}
}

// CreateProduct godoc
// @Summary     Create a product
// @Description Creates a product with 1 to 5 images. Merchant only.
// @Tags        products
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key header   string false "Idempotency key"
// @Param       name            formData string true  "Product name"
// @Param       description     formData string false "Product description"
// @Param       price           formData string true  "Price, e.g. 19.99"
// @Param       stock           formData int    true  "Units in stock"
// @Param       files           formData file   true  "Images (1 to 5)"
// @Success     201             {object} ProductResponse
// @Failure     400             {object} handlers.ErrorResponse
// @Failure     401             {object} handlers.ErrorResponse
// @Failure     403             {object} handlers.ErrorResponse
// @Failure     409             {object} handlers.ErrorResponse
// @Failure     429             {object} handlers.ErrorResponse
// @Failure     500             {object} handlers.ErrorResponse
// @Router      /api/v1/products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handlers.HandleError(c, serviceerrors.NewUnauthenticatedError("missing bearer token"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("expected multipart form data"))
		return
	}

	price, err := domain.ParseAmount(formValueOr(form, "price", "0"))
	if err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("invalid price"))
		return
	}
	stock, err := strconv.Atoi(strings.TrimSpace(formValueOr(form, "stock", "0")))
	if err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("invalid stock"))
		return
	}
	files, err := pc.readFiles(form)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	request := dto.CreateProductRequest{
		OwnerID:     actor.ID,
		Name:        formValueOr(form, "name", ""),
		Description: formValueOr(form, "description", ""),
		Price:       price,
		Stock:       stock,
		Files:       files,
	}
	product, err := pc.productService.CreateProduct(c.Request.Context(), c.GetHeader("Idempotency-Key"), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewProductResponse(product))
}

// EditProduct godoc
// @Summary     Edit a product
// @Description Applies a field patch and image deletions, replacements, appends and a reorder in one atomic edit.
// @Description The first len(replaceTargets) files replace those images in place; remaining files are appended.
// @Tags        products
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id                path     string true  "Product ID"
// @Param       patch             formData string false "JSON object with name, description, price, stock"
// @Param       deleteImageIds    formData string false "JSON array of image IDs to delete"
// @Param       replaceTargets    formData string false "JSON array of image IDs replaced by the leading files"
// @Param       reorderToImageIds formData string false "JSON array with the full final image order"
// @Param       files             formData file   false "Replacement files followed by appended files"
// @Success     200               {object} ProductResponse
// @Failure     400               {object} handlers.ErrorResponse
// @Failure     401               {object} handlers.ErrorResponse
// @Failure     403               {object} handlers.ErrorResponse
// @Failure     404               {object} handlers.ErrorResponse
// @Failure     429               {object} handlers.ErrorResponse
// @Failure     500               {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [put]
func (pc *ProductController) EditProduct(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handlers.HandleError(c, serviceerrors.NewUnauthenticatedError("missing bearer token"))
		return
	}
	productID := c.Param("id")
	if !domain.ValidateID(productID) {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("invalid product ID"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("expected multipart form data"))
		return
	}

	request := dto.EditProductRequest{
		ProductID: domain.ID(productID),
		ActorID:   actor.ID,
	}

	var patch patchRequest
	if found, err := decodeJSONField(form, "patch", &patch); err != nil {
		handlers.HandleError(c, err)
		return
	} else if found {
		if request.Patch, err = patch.toDomain(); err != nil {
			handlers.HandleError(c, err)
			return
		}
	}

	var replaceTargets []domain.ID
	for field, dst := range map[string]*[]domain.ID{
		"deleteImageIds":    &request.DeleteImageIDs,
		"reorderToImageIds": &request.ReorderToImageIDs,
		"replaceTargets":    &replaceTargets,
	} {
		if _, err := decodeJSONField(form, field, dst); err != nil {
			handlers.HandleError(c, err)
			return
		}
	}

	files, err := pc.readFiles(form)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	request.ReplaceFiles, request.AppendFiles = splitEditFiles(replaceTargets, files)

	product, err := pc.productService.EditProduct(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}

// ListProducts godoc
// @Summary     List my products
// @Description Returns the caller's products, most recently updated first
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  ProductResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/products [get]
func (pc *ProductController) ListProducts(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handlers.HandleError(c, serviceerrors.NewUnauthenticatedError("missing bearer token"))
		return
	}
	products, err := pc.productService.ListByOwner(c.Request.Context(), actor.ID)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i := range products {
		response[i] = NewProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetProduct godoc
// @Summary     Get a product
// @Description Returns one of the caller's products
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Product ID"
// @Success     200 {object} ProductResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [get]
func (pc *ProductController) GetProduct(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		handlers.HandleError(c, serviceerrors.NewUnauthenticatedError("missing bearer token"))
		return
	}
	productID := c.Param("id")
	if !domain.ValidateID(productID) {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("invalid product ID"))
		return
	}
	product, err := pc.productService.GetByID(c.Request.Context(), actor.ID, domain.ID(productID))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}

// splitEditFiles pairs the leading files with replaceTargets. When fewer files than
// targets arrive the replacements are dropped.
func splitEditFiles(targets []domain.ID, files []dto.UploadedFile) ([]dto.ReplaceFile, []dto.UploadedFile) {
	var replace []dto.ReplaceFile
	if len(targets) > 0 && len(files) >= len(targets) {
		replace = make([]dto.ReplaceFile, len(targets))
		for i, target := range targets {
			replace[i] = dto.ReplaceFile{TargetImageID: target, File: files[i]}
		}
	}
	return replace, files[min(len(targets), len(files)):]
}

func (pc *ProductController) readFiles(form *multipart.Form) ([]dto.UploadedFile, error) {
	headers := form.File[filesField]
	files := make([]dto.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if pc.maxUploadBytes > 0 && header.Size > pc.maxUploadBytes {
			return nil, serviceerrors.NewInvalidRequestError(fmt.Sprintf("file %q exceeds %d bytes", header.Filename, pc.maxUploadBytes))
		}
		data, err := readFile(header)
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", header.Filename, err)
		}
		files = append(files, dto.UploadedFile{Filename: header.Filename, Data: data})
	}
	return files, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formValueOr(form *multipart.Form, key, fallback string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return fallback
}

func decodeJSONField(form *multipart.Form, field string, dst any) (bool, error) {
	raw := strings.TrimSpace(formValueOr(form, field, ""))
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, serviceerrors.NewInvalidRequestError(fmt.Sprintf("%s must be valid JSON", field))
	}
	return true, nil
}
