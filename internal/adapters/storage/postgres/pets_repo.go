package postgres

import (
	"context"
	"database/sql"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO mascotas (id_usuario, nombre, especie, raza, sexo, peso, fecha_nacimiento, activo)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, true)
		RETURNING id
	`, p.OwnerUserID, p.Nombre, p.Especie, p.Raza, p.Sexo, p.Peso, p.FechaNacimiento).Scan(&id)
	return id, err
}

func (r *PetsRepo) GetByID(ctx context.Context, id int) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, id_usuario, nombre, especie, COALESCE(raza, ''), sexo, peso, fecha_nacimiento, activo
		FROM mascotas
		WHERE id = $1
	`, id)

	p, err := scanPet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, apperr.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListActiveByOwner(ctx context.Context, ownerUserID int) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, id_usuario, nombre, especie, COALESCE(raza, ''), sexo, peso, fecha_nacimiento, activo
		FROM mascotas
		WHERE id_usuario = $1 AND activo = true
		ORDER BY nombre ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Deactivate(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mascotas
		SET activo = false
		WHERE id = $1 AND activo = true
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanPet(scan func(dest ...any) error) (pets.Pet, error) {
	var p pets.Pet
	var peso sql.NullFloat64
	var nacimiento sql.NullTime

	if err := scan(&p.ID, &p.OwnerUserID, &p.Nombre, &p.Especie, &p.Raza, &p.Sexo, &peso, &nacimiento, &p.Activo); err != nil {
		return pets.Pet{}, err
	}
	if peso.Valid {
		v := peso.Float64
		p.Peso = &v
	}
	if nacimiento.Valid {
		t := nacimiento.Time
		p.FechaNacimiento = &t
	}
	return p, nil
}
