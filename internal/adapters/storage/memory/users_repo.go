package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/users"
)

type UsersRepo struct {
	mu     sync.RWMutex
	byID   map[int]users.User
	nextID int
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:   make(map[int]users.User),
		nextID: 1,
	}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.ID = r.nextID
	r.nextID++
	if u.FechaCreacion.IsZero() {
		u.FechaCreacion = time.Now()
	}
	r.byID[u.ID] = u
	return u.ID, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, apperr.ErrNotFound
}

func (r *UsersRepo) ListByRol(ctx context.Context, rol users.Rol) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0)
	for _, u := range r.byID {
		if u.Rol == rol {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UsersRepo) UpdateEmployee(ctx context.Context, id int, username, email, password string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || u.Rol != users.RolEmpleado {
		return 0, nil
	}
	u.Username = username
	u.Email = email
	u.Password = password
	r.byID[id] = u
	return 1, nil
}

func (r *UsersRepo) DeactivateEmployee(ctx context.Context, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || u.Rol != users.RolEmpleado {
		return 0, nil
	}
	u.Estado = false
	r.byID[id] = u
	return 1, nil
}
