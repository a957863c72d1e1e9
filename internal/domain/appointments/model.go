package appointments

// TipoCita son los dos servicios que agenda la clínica.
type TipoCita string

const (
	TipoMedico   TipoCita = "Medico"
	TipoEstetico TipoCita = "Estetico"
)

func ValidTipo(t string) bool {
	return t == string(TipoMedico) || t == string(TipoEstetico)
}

// Appointment mapea la tabla citas. Fecha y Hora se manejan como texto
// normalizado (YYYY-MM-DD y HH:MM): así viajan por la API y así se comparan
// para detectar el turno duplicado.
type Appointment struct {
	ID            int
	Fecha         string
	Hora          string
	TipoCita      TipoCita
	Detalle       string
	Estado        *string
	Observaciones *string
	OwnerUserID   int
	PetID         int
	EmployeeID    *int
}

// OwnedRow es la fila de "mis citas": la cita más el nombre de la mascota.
type OwnedRow struct {
	ID            int
	Fecha         string
	Hora          string
	TipoCita      TipoCita
	Detalle       string
	Estado        *string
	NombreMascota string
}

// AssignedRow es la fila de la agenda del empleado: incluye mascota y cliente.
type AssignedRow struct {
	ID            int
	Fecha         string
	Hora          string
	TipoCita      TipoCita
	Detalle       string
	Estado        *string
	Observaciones *string
	PetID         int
	OwnerUserID   int
	NombreMascota string
	NombreCliente string
}
