package pets

import "time"

// Pet mapea la tabla mascotas. Raza, peso y fecha de nacimiento son
// opcionales; Activo implementa la baja lógica (nunca se borra la fila).
type Pet struct {
	ID              int
	OwnerUserID     int
	Nombre          string
	Especie         string
	Raza            string
	Sexo            string
	Peso            *float64
	FechaNacimiento *time.Time
	Activo          bool
}
