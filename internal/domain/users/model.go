package users

import "time"

// Rol define los tres perfiles del sistema.
type Rol string

const (
	RolUsuario  Rol = "usuario"
	RolEmpleado Rol = "empleado"
	RolAdmin    Rol = "admin"
)

// User mapea la tabla usuarios. Password guarda el valor tal como llegó:
// el login compara en claro por compatibilidad con las filas existentes.
type User struct {
	ID            int
	Username      string
	Email         string
	Password      string
	Rol           Rol
	FechaCreacion time.Time
	Estado        bool
}

// Dashboard devuelve la ruta del tablero que corresponde al rol tras el login.
func Dashboard(rol Rol) string {
	switch rol {
	case RolAdmin:
		return "/dashboard_Admin.html"
	case RolEmpleado:
		return "/dashboard_Empleados.html"
	default:
		return "/dashboard.html"
	}
}
