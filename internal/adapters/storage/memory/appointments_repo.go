package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/users"
)

// AppointmentsRepo necesita los otros repos para resolver los joins
// (nombre de mascota y de cliente) igual que lo hace el SQL.
type AppointmentsRepo struct {
	mu     sync.Mutex
	byID   map[int]appointments.Appointment
	bySlot map[string]int // "mascota|fecha|hora" -> id de cita
	nextID int

	pets  pets.Repository
	users users.Repository
}

func NewAppointmentsRepo(petsRepo pets.Repository, usersRepo users.Repository) *AppointmentsRepo {
	return &AppointmentsRepo{
		byID:   make(map[int]appointments.Appointment),
		bySlot: make(map[string]int),
		nextID: 1,
		pets:   petsRepo,
		users:  usersRepo,
	}
}

// Create reserva el turno y asigna el id bajo el mismo lock: es el
// equivalente in-memory del índice único de Postgres, así la carrera de
// dos reservas simultáneas también pierde acá.
func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(a.PetID, a.Fecha, a.Hora)
	if _, taken := r.bySlot[key]; taken {
		return appointments.Appointment{}, apperr.ErrConflict
	}

	a.ID = r.nextID
	r.nextID++
	r.byID[a.ID] = a
	r.bySlot[key] = a.ID
	return a, nil
}

func (r *AppointmentsRepo) ExistsSlot(ctx context.Context, petID int, fecha, hora string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, taken := r.bySlot[slotKey(petID, fecha, hora)]
	return taken, nil
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerUserID int) ([]appointments.OwnedRow, error) {
	r.mu.Lock()
	own := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			own = append(own, a)
		}
	}
	r.mu.Unlock()

	out := make([]appointments.OwnedRow, 0, len(own))
	for _, a := range own {
		nombre := ""
		if p, err := r.pets.GetByID(ctx, a.PetID); err == nil {
			nombre = p.Nombre
		}
		out = append(out, appointments.OwnedRow{
			ID:            a.ID,
			Fecha:         a.Fecha,
			Hora:          a.Hora,
			TipoCita:      a.TipoCita,
			Detalle:       a.Detalle,
			Estado:        a.Estado,
			NombreMascota: nombre,
		})
	}

	// fecha DESC, hora DESC: el formato ISO permite comparar como texto
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fecha != out[j].Fecha {
			return out[i].Fecha > out[j].Fecha
		}
		return out[i].Hora > out[j].Hora
	})
	return out, nil
}

func (r *AppointmentsRepo) ListUnassigned(ctx context.Context) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.EmployeeID == nil {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AppointmentsRepo) ListByEmployee(ctx context.Context, employeeID int) ([]appointments.AssignedRow, error) {
	r.mu.Lock()
	assigned := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.EmployeeID != nil && *a.EmployeeID == employeeID {
			assigned = append(assigned, a)
		}
	}
	r.mu.Unlock()

	out := make([]appointments.AssignedRow, 0, len(assigned))
	for _, a := range assigned {
		row := appointments.AssignedRow{
			ID:            a.ID,
			Fecha:         a.Fecha,
			Hora:          a.Hora,
			TipoCita:      a.TipoCita,
			Detalle:       a.Detalle,
			Estado:        a.Estado,
			Observaciones: a.Observaciones,
			PetID:         a.PetID,
			OwnerUserID:   a.OwnerUserID,
		}
		if p, err := r.pets.GetByID(ctx, a.PetID); err == nil {
			row.NombreMascota = p.Nombre
		}
		if u, err := r.users.GetByID(ctx, a.OwnerUserID); err == nil {
			row.NombreCliente = u.Username
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Fecha != out[j].Fecha {
			return out[i].Fecha < out[j].Fecha
		}
		return out[i].Hora < out[j].Hora
	})
	return out, nil
}

func (r *AppointmentsRepo) AssignEmployee(ctx context.Context, citaID, employeeID int) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[citaID]
	if !ok {
		return appointments.Appointment{}, apperr.ErrNotFound
	}
	a.EmployeeID = &employeeID
	r.byID[citaID] = a
	return a, nil
}

func (r *AppointmentsRepo) Update(ctx context.Context, citaID int, estado, observaciones *string) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[citaID]
	if !ok {
		return appointments.Appointment{}, apperr.ErrNotFound
	}
	if estado != nil {
		a.Estado = estado
	}
	if observaciones != nil {
		a.Observaciones = observaciones
	}
	r.byID[citaID] = a
	return a, nil
}

func (r *AppointmentsRepo) DeleteOwned(ctx context.Context, citaID, ownerUserID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[citaID]
	if !ok || a.OwnerUserID != ownerUserID {
		return false, nil
	}
	delete(r.byID, citaID)
	delete(r.bySlot, slotKey(a.PetID, a.Fecha, a.Hora))
	return true, nil
}

func slotKey(petID int, fecha, hora string) string {
	return fmt.Sprintf("%d|%s|%s", petID, fecha, hora)
}
