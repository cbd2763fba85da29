package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	v view
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.v.do(ctx, func(st *state) error {
		for _, other := range st.users {
			if other.Username == u.Username {
				return fmt.Errorf("%w: el usuario %s ya existe", domain.ErrDuplicate, u.Username)
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.v.do(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
		}
		u.LastLogin = &at
		st.users[id] = u
		return nil
	})
}
