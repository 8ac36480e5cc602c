package services

import (
	"context"
	"fmt"
	"handmade-store/models"
	"handmade-store/repositories"
	"math"
	"strings"
)

// ValidationError is a client-caused input problem (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type ProductService struct {
	productRepo repositories.ProductRepository
}

func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ValidateProduct normalizes a request into the persisted shape or returns a
// *ValidationError. Offer is clamped into [0,100] and defaults to 0.
func ValidateProduct(req models.ProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalid("description is required")
	}

	if req.Price == nil {
		return nil, invalid("price is required")
	}
	price := *req.Price
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, invalid("price must be a number greater than 0")
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, invalid("category is required")
	}
	if !models.IsValidCategory(category) {
		return nil, invalid("category must be one of: %s", strings.Join(models.ProductCategories, ", "))
	}

	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		return nil, invalid("at least one image is required")
	}

	offer := 0.0
	if req.Offer != nil && !math.IsNaN(*req.Offer) {
		offer = math.Min(100, math.Max(0, *req.Offer))
	}

	return &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Offer:       offer,
		Category:    category,
		Images:      images,
	}, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	product, err := ValidateProduct(req)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces every mutable field of the product. expectedVersion, when
// set, turns the write into a compare-and-swap on the stored version.
func (s *ProductService) Update(ctx context.Context, id string, req models.ProductRequest, expectedVersion *int64) (*models.Product, error) {
	if _, err := repositories.ParseID(id); err != nil {
		return nil, err
	}

	product, err := ValidateProduct(req)
	if err != nil {
		return nil, err
	}
	product.ID = id

	if err := s.productRepo.Update(ctx, product, expectedVersion); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}
