package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/logger"
	"vet-clinic-backend/internal/session"
)

// RegisterAuthRoutes monta las rutas públicas de cuenta y sesión.
// Ojo: register y login reportan las fallas de negocio con HTTP 200 y
// success:false; los clientes existentes dependen de ese contrato.
func RegisterAuthRoutes(r chi.Router, svc *Service, sessions session.Store, ttl time.Duration, log logger.Logger) {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	r.Post("/register", registerHandler(svc, log))
	r.Post("/login", loginHandler(svc, sessions, ttl, log))
	r.Get("/session-info", sessionInfoHandler())
	r.Get("/logout", logoutHandler(sessions))
}

// RegisterEmployeeRoutes monta el CRUD de empleados; el router lo protege
// con RequireRole(admin).
func RegisterEmployeeRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/", listEmployeesHandler(svc, log))
	r.Post("/", createEmployeeHandler(svc, log))
	r.Put("/{id}", updateEmployeeHandler(svc, log))
	r.Delete("/{id}", deactivateEmployeeHandler(svc, log))
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type employeeRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type employeeResponse struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Rol           string    `json:"rol"`
	FechaCreacion time.Time `json:"fecha_creacion"`
	Estado        bool      `json:"estado"`
}

func registerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusOK, "Todos los campos son obligatorios")
			return
		}

		err := svc.Register(r.Context(), RegisterInput{
			Nombre:   req.Nombre,
			Email:    req.Email,
			Password: req.Password,
		})
		switch {
		case err == nil:
			httpjson.Message(w, http.StatusOK, "Usuario registrado correctamente")
		case errors.Is(err, ErrEmailTaken):
			httpjson.Failure(w, http.StatusOK, "El email ya está registrado")
		default:
			if ve, ok := apperr.AsValidation(err); ok {
				httpjson.Failure(w, http.StatusOK, ve.Message)
				return
			}
			log.Error("error al registrar usuario", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno del servidor")
		}
	}
}

func loginHandler(svc *Service, sessions session.Store, ttl time.Duration, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusOK, "Credenciales inválidas")
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		switch {
		case err == nil:
			// sigue abajo
		case errors.Is(err, ErrUserNotFound):
			httpjson.Failure(w, http.StatusOK, "Usuario no encontrado")
			return
		case errors.Is(err, ErrWrongPassword):
			httpjson.Failure(w, http.StatusOK, "Contraseña incorrecta")
			return
		default:
			if _, ok := apperr.AsValidation(err); ok {
				httpjson.Failure(w, http.StatusOK, "Credenciales inválidas")
				return
			}
			log.Error("error al iniciar sesión", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		id, err := sessions.Create(r.Context(), session.Session{
			UserID:   u.ID,
			Username: u.Username,
			Rol:      string(u.Rol),
		})
		if err != nil {
			log.Error("error al crear la sesión", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(ttl.Seconds()),
		})

		httpjson.Write(w, http.StatusOK, map[string]any{
			"success":   true,
			"username":  u.Username,
			"rol":       u.Rol,
			"dashboard": Dashboard(u.Rol),
		})
	}
}

func sessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := middleware.GetIdentity(r.Context())
		if !ok {
			httpjson.Write(w, http.StatusUnauthorized, map[string]any{"logged": false})
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]any{
			"logged": true,
			"user": map[string]any{
				"id":       ident.UserID,
				"username": ident.Username,
				"rol":      ident.Rol,
			},
		})
	}
}

func logoutHandler(sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			_ = sessions.Destroy(r.Context(), cookie.Value)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		httpjson.Write(w, http.StatusOK, map[string]any{"success": true})
	}
}

func listEmployeesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListEmployees(r.Context())
		if err != nil {
			log.Error("error al listar empleados", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno")
			return
		}

		out := make([]employeeResponse, 0, len(items))
		for _, u := range items {
			out = append(out, employeeResponse{
				ID:            u.ID,
				Username:      u.Username,
				Email:         u.Email,
				Rol:           string(u.Rol),
				FechaCreacion: u.FechaCreacion,
				Estado:        u.Estado,
			})
		}
		httpjson.Write(w, http.StatusOK, map[string]any{"success": true, "empleados": out})
	}
}

func createEmployeeHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req employeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusOK, "Todos los campos son obligatorios")
			return
		}

		err := svc.CreateEmployee(r.Context(), EmployeeInput(req))
		switch {
		case err == nil:
			httpjson.Message(w, http.StatusOK, "Empleado creado correctamente")
		case errors.Is(err, ErrEmailTaken):
			httpjson.Failure(w, http.StatusOK, "El email ya está registrado")
		default:
			if ve, ok := apperr.AsValidation(err); ok {
				httpjson.Failure(w, http.StatusOK, ve.Message)
				return
			}
			log.Error("error al crear empleado", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno")
		}
	}
}

func updateEmployeeHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Failure(w, http.StatusOK, "Empleado no encontrado")
			return
		}

		var req employeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusOK, "Todos los campos son obligatorios")
			return
		}

		err = svc.UpdateEmployee(r.Context(), id, EmployeeInput(req))
		switch {
		case err == nil:
			httpjson.Message(w, http.StatusOK, "Empleado actualizado")
		case errors.Is(err, apperr.ErrNotFound):
			httpjson.Failure(w, http.StatusOK, "Empleado no encontrado")
		default:
			if ve, ok := apperr.AsValidation(err); ok {
				httpjson.Failure(w, http.StatusOK, ve.Message)
				return
			}
			log.Error("error al actualizar empleado", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno")
		}
	}
}

func deactivateEmployeeHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Failure(w, http.StatusOK, "Empleado no encontrado")
			return
		}

		err = svc.DeactivateEmployee(r.Context(), id)
		switch {
		case err == nil:
			httpjson.Message(w, http.StatusOK, "Empleado desactivado")
		case errors.Is(err, apperr.ErrNotFound):
			httpjson.Failure(w, http.StatusOK, "Empleado no encontrado")
		default:
			log.Error("error al desactivar empleado", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno")
		}
	}
}
