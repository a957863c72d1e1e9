package pets

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/logger"
)

// RegisterRoutes monta las rutas bajo /api/mascotas; el router ya exige sesión.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/", createHandler(svc, log))
	r.Get("/mis-mascotas", listMineHandler(svc, log))
	r.Put("/deactivate/{id}", deactivateHandler(svc, log))
}

type createRequest struct {
	Nombre          string   `json:"nombre"`
	Especie         string   `json:"especie"`
	Raza            string   `json:"raza"`
	Sexo            string   `json:"sexo"`
	Peso            *float64 `json:"peso"`
	FechaNacimiento string   `json:"fecha_nacimiento"` // YYYY-MM-DD opcional
}

type petResponse struct {
	ID              int        `json:"id"`
	Nombre          string     `json:"nombre"`
	Especie         string     `json:"especie"`
	Raza            string     `json:"raza,omitempty"`
	Sexo            string     `json:"sexo"`
	Peso            *float64   `json:"peso,omitempty"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
}

func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := middleware.GetIdentity(r.Context())

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusBadRequest, "Datos inválidos")
			return
		}

		var nacimiento *time.Time
		if strings.TrimSpace(req.FechaNacimiento) != "" {
			t, err := time.Parse("2006-01-02", req.FechaNacimiento)
			if err != nil {
				httpjson.FieldFailure(w, http.StatusBadRequest, "Datos inválidos", fieldErrors("fecha_nacimiento", "La fecha de nacimiento debe ser válida (YYYY-MM-DD)"))
				return
			}
			nacimiento = &t
		}

		id, err := svc.Create(r.Context(), ident.UserID, CreateInput{
			Nombre:          req.Nombre,
			Especie:         req.Especie,
			Raza:            req.Raza,
			Sexo:            req.Sexo,
			Peso:            req.Peso,
			FechaNacimiento: nacimiento,
		})
		if err != nil {
			if ve, ok := apperr.AsValidation(err); ok {
				httpjson.FieldFailure(w, http.StatusBadRequest, ve.Message, fieldErrors(ve.Field, ve.Message))
				return
			}
			log.Error("error al registrar mascota", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno del servidor al registrar mascota.")
			return
		}

		httpjson.Write(w, http.StatusCreated, map[string]any{
			"success":   true,
			"message":   "Mascota registrada.",
			"mascotaId": id,
		})
	}
}

func listMineHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := middleware.GetIdentity(r.Context())

		items, err := svc.ListActiveByOwner(r.Context(), ident.UserID)
		if err != nil {
			log.Error("error al listar mascotas", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno al obtener mascotas.")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, petResponse{
				ID:              p.ID,
				Nombre:          p.Nombre,
				Especie:         p.Especie,
				Raza:            p.Raza,
				Sexo:            p.Sexo,
				Peso:            p.Peso,
				FechaNacimiento: p.FechaNacimiento,
			})
		}
		httpjson.Data(w, http.StatusOK, out)
	}
}

func deactivateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id < 1 {
			httpjson.Failure(w, http.StatusNotFound, "Mascota no encontrada o ya desactivada.")
			return
		}

		n, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			log.Error("error al desactivar mascota", map[string]any{"err": err.Error()})
			httpjson.Failure(w, http.StatusInternalServerError, "Error interno del servidor al desactivar mascota.")
			return
		}
		if n == 0 {
			httpjson.Failure(w, http.StatusNotFound, "Mascota no encontrada o ya desactivada.")
			return
		}
		httpjson.Message(w, http.StatusOK, "Mascota desactivada correctamente.")
	}
}

func fieldErrors(field, message string) []map[string]string {
	return []map[string]string{{"field": field, "message": message}}
}
