package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo para productos. Stock y costos se manejan vía ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto activo con stock y costos en cero.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if in.SKU == "" || in.Name == "" {
		return nil, domain.NewValidation("sku", "sku y nombre son requeridos")
	}
	if err := validateThresholds(in.MinStock, in.MaxStock); err != nil {
		return nil, err
	}
	if in.SellingPrice.IsNegative() {
		return nil, domain.NewValidation("selling_price", "no puede ser negativo")
	}
	if err := domain.RequireMoneyScale("selling_price", in.SellingPrice); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               in.SKU,
		Name:              in.Name,
		SellingPrice:      in.SellingPrice,
		AverageCost:       decimal.Zero,
		LastPurchasePrice: decimal.Zero,
		MinStock:          in.MinStock,
		MaxStock:          in.MaxStock,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar stock ni costos (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.NewValidation("selling_price", "no puede ser negativo")
		}
		if err := domain.RequireMoneyScale("selling_price", *in.SellingPrice); err != nil {
			return nil, err
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = *in.MaxStock
	}
	if err := validateThresholds(product.MinStock, product.MaxStock); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, activeOnly bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{ActiveOnly: activeOnly, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}, nil
}

// Deactivate desactiva el producto. Los productos nunca se borran: el ledger los referencia.
func (uc *ProductUseCase) Deactivate(ctx context.Context, actorID, id string) error {
	if err := domain.RequireActor(actorID); err != nil {
		return err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NewNotFound("producto", id)
	}
	return uc.repo.Deactivate(ctx, id)
}

func validateThresholds(minStock, maxStock int) error {
	if minStock < 0 || maxStock < 0 {
		return domain.NewValidation("min_stock", "los umbrales no pueden ser negativos")
	}
	if maxStock > 0 && maxStock < minStock {
		return domain.NewValidation("max_stock", "debe ser mayor o igual a min_stock")
	}
	return nil
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		SellingPrice:      p.SellingPrice,
		Stock:             p.Stock,
		AverageCost:       p.AverageCost,
		LastPurchasePrice: p.LastPurchasePrice,
		MinStock:          p.MinStock,
		MaxStock:          p.MaxStock,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
