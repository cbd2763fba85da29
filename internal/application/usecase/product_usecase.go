package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
	"github.com/jhoicas/stock-billing-api/pkg/validator"
)

// ProductUseCase casos de uso del catálogo. El stock nunca se toca aquí: solo vía libro de stock.
type ProductUseCase struct {
	repo            repository.ProductRepository
	defaultMinStock int
}

// NewProductUseCase construye el caso de uso. defaultMinStock <= 0 usa entity.DefaultMinStockLevel.
func NewProductUseCase(repo repository.ProductRepository, defaultMinStock int) *ProductUseCase {
	if defaultMinStock <= 0 {
		defaultMinStock = entity.DefaultMinStockLevel
	}
	return &ProductUseCase{repo: repo, defaultMinStock: defaultMinStock}
}

// Create crea un producto activo con stock 0. SKU duplicado -> domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	in.SKU = strings.TrimSpace(in.SKU)
	if err := validatePrices(in.PurchasePrice, in.SellingPrice); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, in.SKU)
	}

	minStock := uc.defaultMinStock
	if in.MinStockLevel != nil {
		minStock = *in.MinStockLevel
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		SKU:           in.SKU,
		Category:      in.Category,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		CurrentStock:  0,
		MinStockLevel: minStock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// GetBySKU obtiene un producto por SKU.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: SKU %s", domain.ErrNotFound, sku)
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	return listResponses(uc.repo.List(ctx))
}

func (uc *ProductUseCase) ListActive(ctx context.Context) ([]dto.ProductResponse, error) {
	return listResponses(uc.repo.ListActive(ctx))
}

// ListLowStock productos activos con stock actual <= mínimo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	return listResponses(uc.repo.ListLowStock(ctx))
}

// Search busca por nombre o SKU sin distinguir mayúsculas. Keyword vacío es inválido.
func (uc *ProductUseCase) Search(ctx context.Context, keyword string) ([]dto.ProductResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword requerido", domain.ErrInvalidInput)
	}
	return listResponses(uc.repo.Search(ctx, keyword))
}

// Update sobrescribe los campos editables. No modifica el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validatePrices(in.PurchasePrice, in.SellingPrice); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	sku := strings.TrimSpace(in.SKU)
	if sku != product.SKU {
		other, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != product.ID {
			return nil, fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, sku)
		}
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.SKU = sku
	product.Category = in.Category
	product.PurchasePrice = in.PurchasePrice
	product.SellingPrice = in.SellingPrice
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func validatePrices(purchase, selling decimal.Decimal) error {
	if purchase.IsNegative() || selling.IsNegative() {
		return fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

func listResponses(list []*entity.Product, err error) ([]dto.ProductResponse, error) {
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		LowStock:      p.IsLowStock(),
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
