package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, sku, category, min_stock_level, current_stock, last_updated, is_deleted`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// scanner lo implementan pgx.Row y pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*entity.Product, error) {
	var p entity.Product
	if err := s.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.MinStockLevel, &p.CurrentStock, &p.LastUpdated, &p.IsDeleted); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Category, product.MinStockLevel,
		product.CurrentStock, product.LastUpdated, product.IsDeleted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: id o SKU duplicado", domain.ErrConflict)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// InsertIfAbsent inserta el producto salvo conflicto con id o SKU (ON CONFLICT DO NOTHING sin target).
func (r *ProductRepo) InsertIfAbsent(ctx context.Context, product *entity.Product) (bool, error) {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Category, product.MinStockLevel,
		product.CurrentStock, product.LastUpdated, product.IsDeleted,
	)
	if err != nil {
		return false, fmt.Errorf("insert product if absent: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene un producto por ID (incluye dados de baja).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU (incluye dados de baja).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables. current_stock solo cambia vía AdjustStock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, category = $4, min_stock_level = $5, last_updated = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Category, product.MinStockLevel, product.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: SKU duplicado", domain.ErrConflict)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SoftDelete marca el producto como dado de baja.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET is_deleted = TRUE, last_updated = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}

// AdjustStock suma delta en una sola sentencia; el UPDATE toma el lock de fila hasta el fin de la tx.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int64, at time.Time) (int64, bool, error) {
	var stock int64
	err := r.q.QueryRow(ctx,
		`UPDATE products SET current_stock = current_stock + $2, last_updated = $3 WHERE id = $1 RETURNING current_stock`,
		id, delta, at,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("adjust stock: %w", err)
	}
	return stock, true, nil
}

// List lista productos activos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_deleted = FALSE`
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY name, id"
	query, args = paginate(query, args, filter.Limit, filter.Offset)
	return r.queryProducts(ctx, query, args...)
}

// ChangedSince productos activos modificados desde since (todos si since es nil).
func (r *ProductRepo) ChangedSince(ctx context.Context, since *time.Time) ([]*entity.Product, error) {
	if since == nil {
		return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE is_deleted = FALSE ORDER BY last_updated, id`)
	}
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_deleted = FALSE AND last_updated >= $1 ORDER BY last_updated, id`,
		*since,
	)
}

// ListBelowMinimum productos activos con current_stock <= min_stock_level.
func (r *ProductRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_deleted = FALSE AND current_stock <= min_stock_level ORDER BY current_stock, name`,
	)
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
