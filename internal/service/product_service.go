package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"
	"github.com/mostafayousef44200444-rgb/backend/internal/repository"
	"github.com/mostafayousef44200444-rgb/backend/internal/storage"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	images      storage.ImageStore
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, images storage.ImageStore, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// Create uploads the product images and inserts the product.
func (s *productService) Create(ctx context.Context, input *model.CreateProductInput) (*model.Product, error) {
	if err := validateCreateProductInput(input); err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Images:      urls,
		Category:    input.Category,
		Sizes:       input.Sizes,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID.Hex()).
		Int("image_count", len(urls)).
		Msg("product created")

	return product, nil
}

// GetAll retrieves all products, newest first.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by ID. A malformed ID cannot match
// anything, so it reports not found.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Update applies a partial update. When the client supplies retained image
// URLs or fresh uploads, the image list becomes retained followed by new;
// otherwise the current images are kept.
func (s *productService) Update(ctx context.Context, id string, input *model.UpdateProductInput) (*model.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		if !model.ValidCategory(*input.Category) {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown product category")
		}
		product.Category = *input.Category
	}
	if input.Sizes != nil {
		for _, size := range input.Sizes {
			if !model.ValidSize(size) {
				return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown product size")
			}
		}
		product.Sizes = input.Sizes
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}

	if input.ExistingImages != nil || len(input.Images) > 0 {
		urls, err := s.uploadImages(ctx, input.Images)
		if err != nil {
			return nil, err
		}
		product.Images = append(append([]string{}, input.ExistingImages...), urls...)
		if len(product.Images) == 0 {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Product must keep at least one image")
		}
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.Hex()).Msg("product updated")

	return product, nil
}

// Delete removes a product permanently.
func (s *productService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrProductNotFound
	}

	deleted, err := s.productRepo.Delete(ctx, oid)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	return nil
}

// uploadImages forwards each buffered file to the image store and collects
// the public URLs in upload order.
func (s *productService) uploadImages(ctx context.Context, uploads []model.ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, img := range uploads {
		url, err := s.images.Upload(ctx, img.Filename, img.Data)
		if err != nil {
			s.logger.Error().Err(err).Str("filename", img.Filename).Msg("image upload failed")
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// validateCreateProductInput checks the product creation payload.
func validateCreateProductInput(input *model.CreateProductInput) error {
	if input == nil {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Request body is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Product name is required")
	}
	if input.Price < 0 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Price cannot be negative")
	}
	if input.Stock < 0 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Stock cannot be negative")
	}
	if !model.ValidCategory(input.Category) {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown product category")
	}
	for _, size := range input.Sizes {
		if !model.ValidSize(size) {
			return model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown product size")
		}
	}
	if len(input.Images) == 0 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "At least one product image is required")
	}
	return nil
}
