// Package session guarda las sesiones del lado del servidor.
// El cliente solo ve la cookie session_id; el contenido vive en el Store.
package session

import (
	"context"
	"errors"
	"time"
)

const (
	// CookieName es el nombre de la cookie que viaja al navegador.
	CookieName = "session_id"

	// DefaultTTL replica el maxAge de 24 horas de la cookie original.
	DefaultTTL = 24 * time.Hour
)

var ErrNotFound = errors.New("sesión no encontrada")

// Session es la identidad autenticada que se asocia a una cookie.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
}

// Store abstrae el almacenamiento de sesiones (memoria o Redis).
type Store interface {
	// Create persiste la sesión y devuelve el id nuevo para la cookie.
	Create(ctx context.Context, s Session) (string, error)
	// Get devuelve ErrNotFound si el id no existe o ya expiró.
	Get(ctx context.Context, id string) (Session, error)
	// Destroy es idempotente: borrar un id inexistente no es error.
	Destroy(ctx context.Context, id string) error
}
