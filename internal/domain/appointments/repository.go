package appointments

import "context"

type Repository interface {
	// Create inserta la cita y devuelve la fila con su id. El storage es la
	// fuente de verdad del turno único: si otra cita de la misma mascota ya
	// ocupa (fecha, hora), devuelve apperr.ErrConflict sin insertar.
	Create(ctx context.Context, a Appointment) (Appointment, error)
	// ExistsSlot es el chequeo rápido previo al insert; el insert puede
	// fallar igual con ErrConflict si otra request gana la carrera.
	ExistsSlot(ctx context.Context, petID int, fecha, hora string) (bool, error)
	ListByOwner(ctx context.Context, ownerUserID int) ([]OwnedRow, error)
	ListUnassigned(ctx context.Context) ([]Appointment, error)
	ListByEmployee(ctx context.Context, employeeID int) ([]AssignedRow, error)
	// AssignEmployee devuelve apperr.ErrNotFound si la cita no existe.
	AssignEmployee(ctx context.Context, citaID, employeeID int) (Appointment, error)
	// Update aplica merge: los campos nil quedan como estaban.
	Update(ctx context.Context, citaID int, estado, observaciones *string) (Appointment, error)
	// DeleteOwned borra solo si la cita pertenece a ownerUserID; devuelve si
	// borró una fila. Miss y cita ajena son indistinguibles a propósito.
	DeleteOwned(ctx context.Context, citaID, ownerUserID int) (bool, error)
}
