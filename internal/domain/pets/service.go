package pets

import (
	"context"
	"strings"
	"time"

	"vet-clinic-backend/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Nombre          string
	Especie         string
	Raza            string
	Sexo            string
	Peso            *float64
	FechaNacimiento *time.Time
}

// Create registra la mascota a nombre de ownerUserID y devuelve el id nuevo.
func (s *Service) Create(ctx context.Context, ownerUserID int, in CreateInput) (int, error) {
	if ownerUserID < 1 {
		return 0, apperr.ErrUnauthorized
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return 0, apperr.Invalid("nombre", "Nombre, especie y sexo son campos obligatorios.")
	}
	if strings.TrimSpace(in.Especie) == "" {
		return 0, apperr.Invalid("especie", "Nombre, especie y sexo son campos obligatorios.")
	}
	if strings.TrimSpace(in.Sexo) == "" {
		return 0, apperr.Invalid("sexo", "Nombre, especie y sexo son campos obligatorios.")
	}

	return s.repo.Create(ctx, Pet{
		OwnerUserID:     ownerUserID,
		Nombre:          strings.TrimSpace(in.Nombre),
		Especie:         strings.TrimSpace(in.Especie),
		Raza:            strings.TrimSpace(in.Raza),
		Sexo:            strings.TrimSpace(in.Sexo),
		Peso:            in.Peso,
		FechaNacimiento: in.FechaNacimiento,
		Activo:          true,
	})
}

func (s *Service) ListActiveByOwner(ctx context.Context, ownerUserID int) ([]Pet, error) {
	return s.repo.ListActiveByOwner(ctx, ownerUserID)
}

// Deactivate es idempotente: repetirla sobre una mascota ya inactiva
// devuelve 0 filas afectadas.
func (s *Service) Deactivate(ctx context.Context, id int) (int64, error) {
	if id < 1 {
		return 0, apperr.Invalid("id", "El id de la mascota es inválido")
	}
	return s.repo.Deactivate(ctx, id)
}
