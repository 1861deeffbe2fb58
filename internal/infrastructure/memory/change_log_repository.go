package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.ChangeLogRepository = (*changeLogRepo)(nil)

type changeLogRepo struct{ binding }

func (r *changeLogRepo) Append(_ context.Context, entries ...entity.ChangeLogEntry) error {
	return r.with(func(st *state) error {
		for _, e := range entries {
			st.version++
			e.Version = st.version
			st.changes = append(st.changes, e)
		}
		return nil
	})
}

func (r *changeLogRepo) Since(_ context.Context, since time.Time) ([]entity.ChangeLogEntry, error) {
	var out []entity.ChangeLogEntry
	err := r.with(func(st *state) error {
		for _, e := range st.changes {
			if !e.ChangedAt.Before(since) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}
