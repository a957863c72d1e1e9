package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) (int, error)
	GetByID(ctx context.Context, id int) (User, error)
	// GetByEmail devuelve apperr.ErrNotFound si el email no está registrado.
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByRol(ctx context.Context, rol Rol) ([]User, error)
	// UpdateEmployee y DeactivateEmployee solo tocan filas con rol=empleado;
	// devuelven las filas afectadas para que el caller distinga el miss.
	UpdateEmployee(ctx context.Context, id int, username, email, password string) (int64, error)
	DeactivateEmployee(ctx context.Context, id int) (int64, error)
}
