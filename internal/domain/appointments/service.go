package appointments

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/users"
)

var horaPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Service implementa el workflow de agendamiento. Las mascotas y los
// usuarios entran como repositorios porque la cita debe verificar propiedad
// de la mascota y rol del empleado, no confiar en los ids del payload.
type Service struct {
	repo  Repository
	pets  pets.Repository
	users users.Repository
	now   func() time.Time
}

func NewService(repo Repository, petsRepo pets.Repository, usersRepo users.Repository) *Service {
	return &Service{
		repo:  repo,
		pets:  petsRepo,
		users: usersRepo,
		now:   time.Now,
	}
}

type BookingInput struct {
	Fecha    string
	Hora     string
	TipoCita string
	Detalle  string
	PetID    int
}

// Book valida la solicitud, rechaza el turno duplicado y crea la cita con
// estado y empleado sin asignar. La mascota tiene que existir, estar activa
// y ser del solicitante; para no filtrar datos ajenos, los tres casos
// responden la misma validación sobre idMascota.
func (s *Service) Book(ctx context.Context, requesterID int, in BookingInput) (Appointment, error) {
	fecha, err := time.Parse("2006-01-02", in.Fecha)
	if err != nil {
		return Appointment{}, apperr.Invalid("fecha", "La fecha debe ser válida (YYYY-MM-DD)")
	}
	if fecha.After(s.now().AddDate(2, 0, 0)) {
		return Appointment{}, apperr.Invalid("fecha", "La fecha no puede ser más de dos años en el futuro")
	}
	if !horaPattern.MatchString(in.Hora) {
		return Appointment{}, apperr.Invalid("hora", "La hora debe ser válida (HH:MM)")
	}
	if !ValidTipo(in.TipoCita) {
		return Appointment{}, apperr.Invalid("tipoCita", "El tipo de cita es inválido")
	}
	detalle := strings.TrimSpace(in.Detalle)
	if detalle == "" {
		return Appointment{}, apperr.Invalid("detalle", "El detalle (motivo o servicio) no puede estar vacío")
	}
	if in.PetID < 1 {
		return Appointment{}, apperr.Invalid("idMascota", "Debe seleccionar una mascota válida")
	}

	pet, err := s.pets.GetByID(ctx, in.PetID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Appointment{}, apperr.Invalid("idMascota", "Debe seleccionar una mascota válida")
		}
		return Appointment{}, err
	}
	if pet.OwnerUserID != requesterID || !pet.Activo {
		return Appointment{}, apperr.Invalid("idMascota", "Debe seleccionar una mascota válida")
	}

	// Chequeo rápido para responder el mensaje amable; la constraint única
	// del storage sigue siendo la que decide bajo concurrencia.
	taken, err := s.repo.ExistsSlot(ctx, in.PetID, in.Fecha, in.Hora)
	if err != nil {
		return Appointment{}, err
	}
	if taken {
		return Appointment{}, apperr.ErrConflict
	}

	return s.repo.Create(ctx, Appointment{
		Fecha:       in.Fecha,
		Hora:        in.Hora,
		TipoCita:    TipoCita(in.TipoCita),
		Detalle:     detalle,
		OwnerUserID: requesterID,
		PetID:       in.PetID,
	})
}

func (s *Service) ListMine(ctx context.Context, userID int) ([]OwnedRow, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *Service) ListPending(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListUnassigned(ctx)
}

func (s *Service) ListAssigned(ctx context.Context, employeeID int) ([]AssignedRow, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

// Assign fija el empleado de una cita. El id tiene que apuntar a un usuario
// con rol empleado; si no, la asignación se rechaza como dato inválido.
func (s *Service) Assign(ctx context.Context, citaID, employeeID int) (Appointment, error) {
	if citaID < 1 {
		return Appointment{}, apperr.Invalid("id_cita", "El id de la cita es obligatorio")
	}
	if employeeID < 1 {
		return Appointment{}, apperr.Invalid("id_empleado", "El id del empleado es obligatorio")
	}

	emp, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Appointment{}, apperr.Invalid("id_empleado", "El empleado no es válido")
		}
		return Appointment{}, err
	}
	if emp.Rol != users.RolEmpleado {
		return Appointment{}, apperr.Invalid("id_empleado", "El empleado no es válido")
	}

	return s.repo.AssignEmployee(ctx, citaID, employeeID)
}

// Update cambia estado y/u observaciones; lo que venga nil queda intacto.
func (s *Service) Update(ctx context.Context, citaID int, estado, observaciones *string) (Appointment, error) {
	if citaID < 1 {
		return Appointment{}, apperr.ErrNotFound
	}
	return s.repo.Update(ctx, citaID, estado, observaciones)
}

// Cancel borra la cita solo si es del solicitante. Devuelve false tanto si
// no existe como si es de otro usuario: el caller no puede distinguirlos.
func (s *Service) Cancel(ctx context.Context, citaID, requesterID int) (bool, error) {
	if citaID < 1 {
		return false, nil
	}
	return s.repo.DeleteOwned(ctx, citaID, requesterID)
}
