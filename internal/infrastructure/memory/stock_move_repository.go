package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*stockMoveRepo)(nil)

type stockMoveRepo struct{ binding }

func (r *stockMoveRepo) Create(_ context.Context, move *entity.StockMove) error {
	return r.with(func(st *state) error {
		if _, ok := st.moves[move.ID]; ok {
			return fmt.Errorf("%w: movimiento duplicado", domain.ErrConflict)
		}
		if _, ok := st.operations[move.OperationID]; !ok {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, move.OperationID)
		}
		st.moves[move.ID] = *move
		return nil
	})
}

func (r *stockMoveRepo) InsertIfAbsent(_ context.Context, move *entity.StockMove) (bool, error) {
	var inserted bool
	err := r.with(func(st *state) error {
		if _, ok := st.moves[move.ID]; ok {
			return nil
		}
		if _, ok := st.operations[move.OperationID]; !ok {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, move.OperationID)
		}
		st.moves[move.ID] = *move
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *stockMoveRepo) GetByID(_ context.Context, id string) (*entity.StockMove, error) {
	var out *entity.StockMove
	err := r.with(func(st *state) error {
		if m, ok := st.moves[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *stockMoveRepo) Update(_ context.Context, move *entity.StockMove) error {
	return r.with(func(st *state) error {
		cur, ok := st.moves[move.ID]
		if !ok {
			return nil
		}
		cur.Quantity = move.Quantity
		cur.LocationSource = move.LocationSource
		cur.LocationDest = move.LocationDest
		st.moves[move.ID] = cur
		return nil
	})
}

func (r *stockMoveRepo) Delete(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.with(func(st *state) error {
		if _, ok := st.moves[id]; ok {
			delete(st.moves, id)
			found = true
		}
		return nil
	})
	return found, err
}

func (r *stockMoveRepo) DeleteByOperation(_ context.Context, operationID string) ([]string, error) {
	var ids []string
	err := r.with(func(st *state) error {
		for id, m := range st.moves {
			if m.OperationID == operationID {
				ids = append(ids, id)
				delete(st.moves, id)
			}
		}
		return nil
	})
	sortBy(ids, func(a, b string) bool { return a < b })
	return ids, err
}

func (r *stockMoveRepo) List(_ context.Context, filter repository.StockMoveFilter) ([]*entity.StockMove, error) {
	list, err := r.collect(func(m entity.StockMove) bool {
		return (filter.OperationID == "" || m.OperationID == filter.OperationID) &&
			(filter.ProductID == "" || m.ProductID == filter.ProductID)
	})
	if err != nil {
		return nil, err
	}
	sortMoves(list)
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *stockMoveRepo) CreatedSince(_ context.Context, since *time.Time) ([]*entity.StockMove, error) {
	list, err := r.collect(func(m entity.StockMove) bool {
		return since == nil || !m.CreatedAt.Before(*since)
	})
	if err != nil {
		return nil, err
	}
	sortMoves(list)
	return list, nil
}

func sortMoves(list []*entity.StockMove) {
	sortBy(list, func(a, b *entity.StockMove) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *stockMoveRepo) collect(keep func(m entity.StockMove) bool) ([]*entity.StockMove, error) {
	var list []*entity.StockMove
	err := r.with(func(st *state) error {
		for _, m := range st.moves {
			if keep(m) {
				m := m
				list = append(list, &m)
			}
		}
		return nil
	})
	return list, err
}
