package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ binding }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	return r.with(func(st *state) error {
		if _, ok := st.emailIndex[user.Email]; ok {
			return fmt.Errorf("%w: el email ya está registrado", domain.ErrConflict)
		}
		if _, ok := st.users[user.ID]; ok {
			return fmt.Errorf("%w: usuario duplicado", domain.ErrConflict)
		}
		st.users[user.ID] = *user
		st.emailIndex[user.Email] = user.ID
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.with(func(st *state) error {
		if id, ok := st.emailIndex[email]; ok {
			u := st.users[id]
			out = &u
		}
		return nil
	})
	return out, err
}
