package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/pkg/sku"
)

// maxNameLength coincide con VARCHAR(255).
const maxNameLength = 255

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ProductRepository
}

// NewProductUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewProductUseCase(txRunner repository.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo}
}

// Create crea un producto con stock 0. SKU duplicado (aun de un producto dado de baja) → ErrConflict.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := NewProduct(in.ID, in.Name, in.SKU, in.Category, in.MinStockLevel)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product.LastUpdated = domain.Now()
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto activo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return ToProductResponse(product), nil
}

// List lista productos activos, opcionalmente por categoría.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) ([]dto.ProductResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category: strings.TrimSpace(in.Category),
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ToProductResponse(p))
	}
	return out, nil
}

// Update aplica solo los campos presentes. current_stock no es editable.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	var updated *entity.Product
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || product.IsDeleted {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			if product.Name, err = validateName(*in.Name); err != nil {
				return err
			}
		}
		if in.SKU != nil {
			if product.SKU, err = normalizeSKU(*in.SKU); err != nil {
				return err
			}
		}
		if in.Category != nil {
			product.Category = optionalString(in.Category)
		}
		if in.MinStockLevel != nil {
			if *in.MinStockLevel < 0 {
				return fmt.Errorf("%w: min_stock_level negativo", domain.ErrValidation)
			}
			product.MinStockLevel = *in.MinStockLevel
		}
		product.LastUpdated = domain.Now()
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(updated), nil
}

// Delete da de baja el producto (soft delete) y registra la baja para /sync/pull.
// Los movimientos que lo referencian se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || product.IsDeleted {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		now := domain.Now()
		if err := repos.Products.SoftDelete(ctx, id, now); err != nil {
			return err
		}
		return repos.Changes.Append(ctx, entity.Tombstone(entity.ChangeEntityProduct, id, now))
	})
}

// NewProduct arma y valida un producto nuevo (stock 0). Compartido por el CRUD y la sincronización.
func NewProduct(id *string, name, rawSKU string, category *string, minStockLevel int) (*entity.Product, error) {
	p := &entity.Product{Category: optionalString(category), MinStockLevel: minStockLevel}
	var err error
	if p.ID, err = idOrNew(id); err != nil {
		return nil, err
	}
	if p.Name, err = validateName(name); err != nil {
		return nil, err
	}
	if p.SKU, err = normalizeSKU(rawSKU); err != nil {
		return nil, err
	}
	if minStockLevel < 0 {
		return nil, fmt.Errorf("%w: min_stock_level negativo", domain.ErrValidation)
	}
	return p, nil
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Category:      p.Category,
		MinStockLevel: p.MinStockLevel,
		CurrentStock:  p.CurrentStock,
		LastUpdated:   p.LastUpdated,
		IsDeleted:     p.IsDeleted,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name es obligatorio", domain.ErrValidation)
	}
	if len([]rune(name)) > maxNameLength {
		return "", fmt.Errorf("%w: name supera %d caracteres", domain.ErrValidation, maxNameLength)
	}
	return name, nil
}

func normalizeSKU(raw string) (string, error) {
	s := sku.Normalize(raw)
	if err := sku.Validate(s); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s, nil
}

// idOrNew valida el id del cliente o genera uno.
func idOrNew(id *string) (string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return domain.NewID(), nil
	}
	return domain.ParseID("id", *id)
}

// optionalString recorta; vacío equivale a ausente.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
