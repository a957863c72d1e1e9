package postgres

import (
	"context"
	"database/sql"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/appointments"
)

// citaColumns normaliza fecha y hora a texto en el SELECT para que la API
// y la comparación de turnos trabajen siempre con YYYY-MM-DD y HH:MM.
const citaColumns = `
	id,
	to_char(fecha, 'YYYY-MM-DD'),
	to_char(hora, 'HH24:MI'),
	tipo_cita, detalle, estado, observaciones,
	id_usuario, id_mascota, id_empleado
`

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

// Create inserta la cita. El índice único sobre (id_mascota, fecha, hora) es
// el que corta la carrera entre dos reservas simultáneas del mismo turno: la
// violación se devuelve como apperr.ErrConflict.
func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO citas (fecha, hora, tipo_cita, detalle, id_usuario, id_mascota)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+citaColumns,
		a.Fecha, a.Hora, string(a.TipoCita), a.Detalle, a.OwnerUserID, a.PetID)

	created, err := scanCita(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return appointments.Appointment{}, apperr.ErrConflict
		}
		return appointments.Appointment{}, err
	}
	return created, nil
}

func (r *AppointmentsRepo) ExistsSlot(ctx context.Context, petID int, fecha, hora string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM citas
			WHERE id_mascota = $1 AND fecha = $2 AND hora = $3
		)
	`, petID, fecha, hora).Scan(&exists)
	return exists, err
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerUserID int) ([]appointments.OwnedRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			to_char(c.fecha, 'YYYY-MM-DD'),
			to_char(c.hora, 'HH24:MI'),
			c.tipo_cita, c.detalle, c.estado,
			m.nombre AS nombre_mascota
		FROM citas c
		JOIN mascotas m ON c.id_mascota = m.id
		WHERE c.id_usuario = $1
		ORDER BY c.fecha DESC, c.hora DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.OwnedRow, 0)
	for rows.Next() {
		var c appointments.OwnedRow
		var tipo string
		if err := rows.Scan(&c.ID, &c.Fecha, &c.Hora, &tipo, &c.Detalle, &c.Estado, &c.NombreMascota); err != nil {
			return nil, err
		}
		c.TipoCita = appointments.TipoCita(tipo)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) ListUnassigned(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+citaColumns+`
		FROM citas
		WHERE id_empleado IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanCita(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) ListByEmployee(ctx context.Context, employeeID int) ([]appointments.AssignedRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			to_char(c.fecha, 'YYYY-MM-DD'),
			to_char(c.hora, 'HH24:MI'),
			c.tipo_cita, c.detalle, c.estado, c.observaciones,
			c.id_mascota, c.id_usuario,
			m.nombre AS nombre_mascota,
			u.username AS nombre_cliente
		FROM citas c
		JOIN mascotas m ON c.id_mascota = m.id
		JOIN usuarios u ON c.id_usuario = u.id
		WHERE c.id_empleado = $1
		ORDER BY c.fecha ASC, c.hora ASC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.AssignedRow, 0)
	for rows.Next() {
		var c appointments.AssignedRow
		var tipo string
		if err := rows.Scan(&c.ID, &c.Fecha, &c.Hora, &tipo, &c.Detalle, &c.Estado, &c.Observaciones,
			&c.PetID, &c.OwnerUserID, &c.NombreMascota, &c.NombreCliente); err != nil {
			return nil, err
		}
		c.TipoCita = appointments.TipoCita(tipo)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) AssignEmployee(ctx context.Context, citaID, employeeID int) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE citas
		SET id_empleado = $1
		WHERE id = $2
		RETURNING `+citaColumns,
		employeeID, citaID)

	updated, err := scanCita(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, apperr.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return updated, nil
}

// Update usa COALESCE para tocar solo lo que venga con valor.
func (r *AppointmentsRepo) Update(ctx context.Context, citaID int, estado, observaciones *string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE citas
		SET
			estado = COALESCE($1, estado),
			observaciones = COALESCE($2, observaciones)
		WHERE id = $3
		RETURNING `+citaColumns,
		estado, observaciones, citaID)

	updated, err := scanCita(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, apperr.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return updated, nil
}

func (r *AppointmentsRepo) DeleteOwned(ctx context.Context, citaID, ownerUserID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM citas
		WHERE id = $1 AND id_usuario = $2
	`, citaID, ownerUserID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanCita(scan func(dest ...any) error) (appointments.Appointment, error) {
	var a appointments.Appointment
	var tipo string
	var empleado sql.NullInt64

	if err := scan(&a.ID, &a.Fecha, &a.Hora, &tipo, &a.Detalle, &a.Estado, &a.Observaciones,
		&a.OwnerUserID, &a.PetID, &empleado); err != nil {
		return appointments.Appointment{}, err
	}
	a.TipoCita = appointments.TipoCita(tipo)
	if empleado.Valid {
		v := int(empleado.Int64)
		a.EmployeeID = &v
	}
	return a, nil
}
