package postgres

import (
	"context"
	"database/sql"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO usuarios (username, email, password, rol)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.Email, u.Password, string(u.Rol)).Scan(&id)
	return id, err
}

func (r *UsersRepo) GetByID(ctx context.Context, id int) (users.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, rol, fecha_creacion, estado
		FROM usuarios
		WHERE id = $1
	`, id))
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, rol, fecha_creacion, estado
		FROM usuarios
		WHERE email = $1
	`, email))
}

func (r *UsersRepo) ListByRol(ctx context.Context, rol users.Rol) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, email, password, rol, fecha_creacion, estado
		FROM usuarios
		WHERE rol = $1
		ORDER BY id ASC
	`, string(rol))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		var rolStr string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &rolStr, &u.FechaCreacion, &u.Estado); err != nil {
			return nil, err
		}
		u.Rol = users.Rol(rolStr)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) UpdateEmployee(ctx context.Context, id int, username, email, password string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE usuarios
		SET username = $1, email = $2, password = $3
		WHERE id = $4 AND rol = 'empleado'
	`, username, email, password, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UsersRepo) DeactivateEmployee(ctx context.Context, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE usuarios
		SET estado = false
		WHERE id = $1 AND rol = 'empleado'
	`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UsersRepo) scanOne(row *sql.Row) (users.User, error) {
	var u users.User
	var rolStr string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &rolStr, &u.FechaCreacion, &u.Estado); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, apperr.ErrNotFound
		}
		return users.User{}, err
	}
	u.Rol = users.Rol(rolStr)
	return u, nil
}
