package services

import (
	"context"
	"strings"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"

	"github.com/gosimple/slug"
)

type ProductService interface {
	ListProducts(ctx context.Context, query *dto.ProductQuery) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, userID string, req *dto.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
}

type productService struct {
	products repositories.ProductRepository
	images   ImageService
}

func NewProductService(products repositories.ProductRepository, images ImageService) ProductService {
	return &productService{products: products, images: images}
}

func (s *productService) ListProducts(ctx context.Context, query *dto.ProductQuery) ([]models.Product, int64, error) {
	if query.MinPrice != nil && query.MaxPrice != nil && query.MinPrice.GreaterThan(*query.MaxPrice) {
		return nil, 0, apperrors.NewBadRequestError("price[gte] cannot be greater than price[lte]")
	}

	products, total, err := s.products.List(ctx, repositories.ProductFilter{
		Keyword:    strings.TrimSpace(query.Keyword),
		Category:   strings.TrimSpace(query.Category),
		MinPrice:   query.MinPrice,
		MaxPrice:   query.MaxPrice,
		Pagination: pagination(query.Page, query.PageSize),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return products, total, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrProductNotFound)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID string, req *dto.CreateProductRequest) (*models.Product, error) {
	images, err := s.images.Upload(ctx, FolderProducts, req.Images)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	product := &models.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Category:    strings.TrimSpace(req.Category),
		Stock:       req.Stock,
		Images:      images,
		UserID:      userID,
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.images.Delete(ctx, images...)
		return nil, repoError(err, apperrors.ErrProductNotFound)
	}

	logger.CtxInfo(ctx, "Product created", "product_id", product.ID, "images", len(images))
	return product, nil
}

// UpdateProduct загружает новые изображения, обновляет запись и удаляет старые файлы.
func (s *productService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrProductNotFound)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
		product.Slug = slug.Make(product.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = req.Price.Round(2)
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	var oldImages, newImages []models.Image
	if len(req.Images) > 0 {
		if newImages, err = s.images.Upload(ctx, FolderProducts, req.Images); err != nil {
			return nil, err
		}
		oldImages = product.Images
		product.Images = newImages
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.images.Delete(ctx, newImages...)
		return nil, repoError(err, apperrors.ErrProductNotFound)
	}

	s.images.Delete(ctx, oldImages...)
	return product, nil
}

// DeleteProduct удаляет изображения (ошибки только логируются), затем запись.
func (s *productService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrProductNotFound)
	}

	s.images.Delete(ctx, product.Images...)

	if err := s.products.Delete(ctx, id); err != nil {
		return nil, repoError(err, apperrors.ErrProductNotFound)
	}

	logger.CtxInfo(ctx, "Product deleted", "product_id", id)
	return product, nil
}
