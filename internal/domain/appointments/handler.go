package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/logger"
)

// RegisterRoutes monta las rutas bajo /api/citas. El router ya exige sesión;
// acá se agregan los gates por rol de cada operación.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/", bookHandler(svc, log))
	r.Get("/mis-citas", listMineHandler(svc, log))
	r.Delete("/{id}", cancelHandler(svc, log))

	r.With(middleware.RequireRole("admin")).
		Get("/citas-pendientes", listPendingHandler(svc, log))
	r.With(middleware.RequireRole("admin")).
		Put("/asignar-empleado", assignHandler(svc, log))
	r.With(middleware.RequireRole("empleado")).
		Get("/asignadas", listAssignedHandler(svc, log))
	r.With(middleware.RequireRole("empleado", "admin")).
		Put("/{id}", updateHandler(svc, log))
}

type bookingRequest struct {
	Fecha     string `json:"fecha"`
	Hora      string `json:"hora"`
	TipoCita  string `json:"tipoCita"`
	Detalle   string `json:"detalle"`
	IDMascota int    `json:"idMascota"`
}

type assignRequest struct {
	IDCita     int `json:"id_cita"`
	IDEmpleado int `json:"id_empleado"`
}

type updateRequest struct {
	Estado        *string `json:"estado"`
	Observaciones *string `json:"observaciones"`
}

type citaResponse struct {
	ID            int     `json:"id"`
	Fecha         string  `json:"fecha"`
	Hora          string  `json:"hora"`
	TipoCita      string  `json:"tipo_cita"`
	Detalle       string  `json:"detalle"`
	Estado        *string `json:"estado"`
	Observaciones *string `json:"observaciones"`
	IDUsuario     int     `json:"id_usuario"`
	IDMascota     int     `json:"id_mascota"`
	IDEmpleado    *int    `json:"id_empleado"`
}

type ownedCitaResponse struct {
	ID            int     `json:"id"`
	Fecha         string  `json:"fecha"`
	Hora          string  `json:"hora"`
	TipoCita      string  `json:"tipo_cita"`
	Detalle       string  `json:"detalle"`
	Estado        *string `json:"estado"`
	NombreMascota string  `json:"nombre_mascota"`
}

type assignedCitaResponse struct {
	ID            int     `json:"id"`
	Fecha         string  `json:"fecha"`
	Hora          string  `json:"hora"`
	TipoCita      string  `json:"tipo_cita"`
	Detalle       string  `json:"detalle"`
	Estado        *string `json:"estado"`
	Observaciones *string `json:"observaciones"`
	IDMascota     int     `json:"id_mascota"`
	IDUsuario     int     `json:"id_usuario"`
	NombreMascota string  `json:"nombre_mascota"`
	NombreCliente string  `json:"nombre_cliente"`
}

func bookHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := middleware.GetIdentity(r.Context())

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req bookingRequest
		if err := dec.Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusBadRequest, "Datos inválidos")
			return
		}

		created, err := svc.Book(r.Context(), ident.UserID, BookingInput{
			Fecha:    req.Fecha,
			Hora:     req.Hora,
			TipoCita: req.TipoCita,
			Detalle:  req.Detalle,
			PetID:    req.IDMascota,
		})
		if err != nil {
			writeCitaError(log, w, err, "Error interno al crear la cita.")
			return
		}

		httpjson.Data(w, http.StatusCreated, toCitaResponse(created))
	}
}

func listMineHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := middleware.GetIdentity(r.Context())

		rows, err := svc.ListMine(r.Context(), ident.UserID)
		if err != nil {
			writeCitaError(log, w, err, "Error interno al obtener las citas.")
			return
		}

		out := make([]ownedCitaResponse, 0, len(rows))
		for _, c := range rows {
			out = append(out, ownedCitaResponse{
				ID:            c.ID,
				Fecha:         c.Fecha,
				Hora:          c.Hora,
				TipoCita:      string(c.TipoCita),
				Detalle:       c.Detalle,
				Estado:        c.Estado,
				NombreMascota: c.NombreMascota,
			})
		}
		httpjson.Data(w, http.StatusOK, out)
	}
}

func cancelHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := middleware.GetIdentity(r.Context())

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Failure(w, http.StatusNotFound, "Cita no encontrada o no le pertenece.")
			return
		}

		ok, err := svc.Cancel(r.Context(), id, ident.UserID)
		if err != nil {
			writeCitaError(log, w, err, "Error interno al cancelar la cita.")
			return
		}
		if !ok {
			httpjson.Failure(w, http.StatusNotFound, "Cita no encontrada o no le pertenece.")
			return
		}
		httpjson.Message(w, http.StatusOK, "Cita cancelada exitosamente.")
	}
}

func listPendingHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPending(r.Context())
		if err != nil {
			writeCitaError(log, w, err, "Error interno al obtener citas pendientes.")
			return
		}

		out := make([]citaResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCitaResponse(c))
		}
		httpjson.Data(w, http.StatusOK, out)
	}
}

func assignHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req assignRequest
		if err := dec.Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusBadRequest, "Datos inválidos")
			return
		}

		updated, err := svc.Assign(r.Context(), req.IDCita, req.IDEmpleado)
		if err != nil {
			writeCitaError(log, w, err, "Error interno al asignar empleado.")
			return
		}
		httpjson.Data(w, http.StatusOK, toCitaResponse(updated))
	}
}

func listAssignedHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := middleware.GetIdentity(r.Context())

		rows, err := svc.ListAssigned(r.Context(), ident.UserID)
		if err != nil {
			writeCitaError(log, w, err, "Error interno al obtener las citas asignadas.")
			return
		}

		out := make([]assignedCitaResponse, 0, len(rows))
		for _, c := range rows {
			out = append(out, assignedCitaResponse{
				ID:            c.ID,
				Fecha:         c.Fecha,
				Hora:          c.Hora,
				TipoCita:      string(c.TipoCita),
				Detalle:       c.Detalle,
				Estado:        c.Estado,
				Observaciones: c.Observaciones,
				IDMascota:     c.PetID,
				IDUsuario:     c.OwnerUserID,
				NombreMascota: c.NombreMascota,
				NombreCliente: c.NombreCliente,
			})
		}
		httpjson.Data(w, http.StatusOK, out)
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Failure(w, http.StatusNotFound, "Cita no encontrada.")
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateRequest
		if err := dec.Decode(&req); err != nil {
			httpjson.Failure(w, http.StatusBadRequest, "Datos inválidos")
			return
		}

		updated, err := svc.Update(r.Context(), id, req.Estado, req.Observaciones)
		if err != nil {
			writeCitaError(log, w, err, "Error interno al actualizar la cita.")
			return
		}
		httpjson.Data(w, http.StatusOK, toCitaResponse(updated))
	}
}

// writeCitaError traduce el error de negocio al sobre HTTP; lo inesperado
// queda registrado antes de responder el 500 genérico.
func writeCitaError(log logger.Logger, w http.ResponseWriter, err error, internalMsg string) {
	if ve, ok := apperr.AsValidation(err); ok {
		httpjson.FieldFailure(w, http.StatusBadRequest, "Datos inválidos",
			[]map[string]string{{"field": ve.Field, "message": ve.Message}})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrConflict):
		httpjson.Failure(w, http.StatusConflict, "Ya existe una cita para esta mascota en esa fecha y hora.")
	case errors.Is(err, apperr.ErrNotFound):
		httpjson.Failure(w, http.StatusNotFound, "Cita no encontrada.")
	default:
		log.Error(internalMsg, map[string]any{"err": err.Error()})
		httpjson.Failure(w, http.StatusInternalServerError, internalMsg)
	}
}

func toCitaResponse(a Appointment) citaResponse {
	return citaResponse{
		ID:            a.ID,
		Fecha:         a.Fecha,
		Hora:          a.Hora,
		TipoCita:      string(a.TipoCita),
		Detalle:       a.Detalle,
		Estado:        a.Estado,
		Observaciones: a.Observaciones,
		IDUsuario:     a.OwnerUserID,
		IDMascota:     a.PetID,
		IDEmpleado:    a.EmployeeID,
	}
}
