package middleware

import (
	"context"
	"net/http"

	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/session"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity es el usuario autenticado que viaja en el contexto del request.
// La lógica de negocio la recibe como parámetro, nunca la lee de estado ambiente.
type Identity struct {
	UserID   int
	Username string
	Rol      string
}

// SessionContext resuelve la cookie de sesión contra el store y, si existe,
// cuelga la Identity del contexto. No corta el request: los gates y handlers
// deciden 401/403.
func SessionContext(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				// cookie vencida o id desconocido: sigue como anónimo
				next.ServeHTTP(w, r)
				return
			}

			ident := Identity{UserID: s.UserID, Username: s.Username, Rol: s.Rol}
			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}

// RequireSession corta con 401 si no hay sesión activa.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			httpjson.Failure(w, http.StatusUnauthorized, "No autorizado. Debe iniciar sesión.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole corta con 403 salvo que el rol de la sesión sea uno de los permitidos.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := GetIdentity(r.Context())
			if !ok {
				httpjson.Failure(w, http.StatusUnauthorized, "No autorizado. Debe iniciar sesión.")
				return
			}
			for _, role := range roles {
				if ident.Rol == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpjson.Failure(w, http.StatusForbidden, "Acceso denegado")
		})
	}
}
