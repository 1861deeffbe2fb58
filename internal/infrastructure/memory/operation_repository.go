package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*operationRepo)(nil)

type operationRepo struct{ binding }

func (r *operationRepo) Create(_ context.Context, op *entity.Operation) error {
	return r.with(func(st *state) error {
		if _, ok := st.operations[op.ID]; ok {
			return fmt.Errorf("%w: operación duplicada", domain.ErrConflict)
		}
		st.operations[op.ID] = *op
		return nil
	})
}

func (r *operationRepo) InsertIfAbsent(_ context.Context, op *entity.Operation) (bool, error) {
	var inserted bool
	err := r.with(func(st *state) error {
		if _, ok := st.operations[op.ID]; ok {
			return nil
		}
		st.operations[op.ID] = *op
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *operationRepo) GetByID(_ context.Context, id string) (*entity.Operation, error) {
	var out *entity.Operation
	err := r.with(func(st *state) error {
		if o, ok := st.operations[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *operationRepo) Update(_ context.Context, op *entity.Operation) error {
	return r.with(func(st *state) error {
		cur, ok := st.operations[op.ID]
		if !ok {
			return nil
		}
		cur.ReferenceCode = op.ReferenceCode
		cur.Type = op.Type
		cur.Status = op.Status
		cur.LastUpdated = op.LastUpdated
		st.operations[op.ID] = cur
		return nil
	})
}

// Delete borra la operación y, igual que la FK en cascada, sus movimientos restantes.
func (r *operationRepo) Delete(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.with(func(st *state) error {
		if _, ok := st.operations[id]; !ok {
			return nil
		}
		delete(st.operations, id)
		for mid, m := range st.moves {
			if m.OperationID == id {
				delete(st.moves, mid)
			}
		}
		found = true
		return nil
	})
	return found, err
}

func (r *operationRepo) List(_ context.Context, filter repository.OperationFilter) ([]*entity.Operation, error) {
	list, err := r.collect(func(o entity.Operation) bool {
		return (filter.Type == "" || o.Type == filter.Type) && (filter.Status == "" || o.Status == filter.Status)
	})
	if err != nil {
		return nil, err
	}
	sortBy(list, func(a, b *entity.Operation) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *operationRepo) ChangedSince(_ context.Context, since *time.Time) ([]*entity.Operation, error) {
	list, err := r.collect(func(o entity.Operation) bool {
		return since == nil || !o.LastUpdated.Before(*since)
	})
	if err != nil {
		return nil, err
	}
	sortBy(list, func(a, b *entity.Operation) bool {
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.Before(b.LastUpdated)
		}
		return a.ID < b.ID
	})
	return list, nil
}

func (r *operationRepo) collect(keep func(o entity.Operation) bool) ([]*entity.Operation, error) {
	var list []*entity.Operation
	err := r.with(func(st *state) error {
		for _, o := range st.operations {
			if keep(o) {
				o := o
				list = append(list, &o)
			}
		}
		return nil
	})
	return list, err
}
