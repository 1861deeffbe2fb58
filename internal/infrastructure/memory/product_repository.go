package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ binding }

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	return r.with(func(st *state) error {
		if !insertProduct(st, product) {
			return fmt.Errorf("%w: id o SKU duplicado", domain.ErrConflict)
		}
		return nil
	})
}

func (r *productRepo) InsertIfAbsent(_ context.Context, product *entity.Product) (bool, error) {
	var inserted bool
	err := r.with(func(st *state) error {
		inserted = insertProduct(st, product)
		return nil
	})
	return inserted, err
}

func insertProduct(st *state, p *entity.Product) bool {
	if _, ok := st.products[p.ID]; ok {
		return false
	}
	if _, ok := st.skuIndex[p.SKU]; ok {
		return false
	}
	st.products[p.ID] = *p
	st.skuIndex[p.SKU] = p.ID
	return true
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(st *state) error {
		if id, ok := st.skuIndex[sku]; ok {
			p := st.products[id]
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, product *entity.Product) error {
	return r.with(func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		if product.SKU != cur.SKU {
			if owner, taken := st.skuIndex[product.SKU]; taken && owner != product.ID {
				return fmt.Errorf("%w: SKU duplicado", domain.ErrConflict)
			}
			delete(st.skuIndex, cur.SKU)
			st.skuIndex[product.SKU] = product.ID
		}
		cur.Name = product.Name
		cur.SKU = product.SKU
		cur.Category = product.Category
		cur.MinStockLevel = product.MinStockLevel
		cur.LastUpdated = product.LastUpdated
		st.products[product.ID] = cur
		return nil
	})
}

func (r *productRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	return r.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			p.IsDeleted = true
			p.LastUpdated = at
			st.products[id] = p
		}
		return nil
	})
}

func (r *productRepo) AdjustStock(_ context.Context, id string, delta int64, at time.Time) (int64, bool, error) {
	var (
		stock int64
		found bool
	)
	err := r.with(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		p.CurrentStock += delta
		p.LastUpdated = at
		st.products[id] = p
		stock, found = p.CurrentStock, true
		return nil
	})
	return stock, found, err
}

func (r *productRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	list, err := r.collect(func(p entity.Product) bool {
		return filter.Category == "" || (p.Category != nil && *p.Category == filter.Category)
	})
	if err != nil {
		return nil, err
	}
	sortBy(list, func(a, b *entity.Product) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *productRepo) ChangedSince(_ context.Context, since *time.Time) ([]*entity.Product, error) {
	list, err := r.collect(func(p entity.Product) bool {
		return since == nil || !p.LastUpdated.Before(*since)
	})
	if err != nil {
		return nil, err
	}
	sortBy(list, func(a, b *entity.Product) bool {
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.Before(b.LastUpdated)
		}
		return a.ID < b.ID
	})
	return list, nil
}

func (r *productRepo) ListBelowMinimum(_ context.Context) ([]*entity.Product, error) {
	list, err := r.collect(func(p entity.Product) bool { return p.BelowMinimum() })
	if err != nil {
		return nil, err
	}
	sortBy(list, func(a, b *entity.Product) bool {
		if a.CurrentStock != b.CurrentStock {
			return a.CurrentStock < b.CurrentStock
		}
		return a.Name < b.Name
	})
	return list, nil
}

// collect devuelve copias de los productos activos que cumplen keep.
func (r *productRepo) collect(keep func(p entity.Product) bool) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.with(func(st *state) error {
		for _, p := range st.products {
			if p.IsDeleted || !keep(p) {
				continue
			}
			p := p
			list = append(list, &p)
		}
		return nil
	})
	return list, err
}
