// Package apperr define los errores de negocio que los handlers traducen a HTTP.
package apperr

import "errors"

var (
	// ErrConflict: cita duplicada para la misma (mascota, fecha, hora).
	ErrConflict = errors.New("conflicto")
	// ErrNotFound: el recurso no existe, o no le pertenece al que pregunta.
	ErrNotFound = errors.New("no encontrado")
	// ErrForbidden: el rol del usuario no alcanza para la operación.
	ErrForbidden = errors.New("acceso denegado")
	// ErrUnauthorized: no hay sesión activa.
	ErrUnauthorized = errors.New("no autorizado")
)

// ValidationError señala el campo que falló la validación de entrada.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation extrae el ValidationError de la cadena, si lo hay.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
