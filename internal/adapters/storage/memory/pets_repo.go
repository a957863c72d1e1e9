package memory

import (
	"context"
	"sort"
	"sync"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/pets"
)

type PetsRepo struct {
	mu     sync.RWMutex
	byID   map[int]pets.Pet
	nextID int
}

func NewPetsRepo() *PetsRepo {
	return &PetsRepo{
		byID:   make(map[int]pets.Pet),
		nextID: 1,
	}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	r.byID[p.ID] = p
	return p.ID, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *PetsRepo) ListActiveByOwner(ctx context.Context, ownerUserID int) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID && p.Activo {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

// Deactivate replica el UPDATE ... WHERE activo = true: la segunda llamada
// sobre la misma mascota afecta 0 filas.
func (r *PetsRepo) Deactivate(ctx context.Context, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok || !p.Activo {
		return 0, nil
	}
	p.Activo = false
	r.byID[id] = p
	return 1, nil
}
