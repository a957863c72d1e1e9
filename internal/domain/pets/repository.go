package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) (int, error)
	// GetByID devuelve la mascota aunque esté inactiva; el workflow de citas
	// decide qué hacer con ella.
	GetByID(ctx context.Context, id int) (Pet, error)
	// ListActiveByOwner excluye las desactivadas, ordenadas por nombre.
	ListActiveByOwner(ctx context.Context, ownerUserID int) ([]Pet, error)
	// Deactivate devuelve las filas afectadas (0 o 1): 0 significa que no
	// existía o ya estaba inactiva, y no es un error.
	Deactivate(ctx context.Context, id int) (int64, error)
}
