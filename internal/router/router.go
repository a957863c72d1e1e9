package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mem "vet-clinic-backend/internal/adapters/storage/memory"
	pg "vet-clinic-backend/internal/adapters/storage/postgres"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/users"
	"vet-clinic-backend/internal/middleware"
	"vet-clinic-backend/internal/platform/httpjson"
	"vet-clinic-backend/internal/platform/logger"
	"vet-clinic-backend/internal/session"
)

type Options struct {
	// DB opcional: con Postgres usa los repos SQL, sin él cae a in-memory
	// (modo dev y tests).
	DB *sql.DB

	// Sessions opcional; nil crea un MemoryStore con SessionTTL.
	Sessions   session.Store
	SessionTTL time.Duration

	// Log recibe los errores inesperados que los handlers traducen a 500.
	Log logger.Logger

	// Repos explícitos para tests; nil arma el juego in-memory completo.
	Users        users.Repository
	Pets         pets.Repository
	Appointments appointments.Repository
}

func New(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{})
	}

	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore(opts.SessionTTL)
	}

	usersRepo := opts.Users
	petsRepo := opts.Pets
	apptsRepo := opts.Appointments
	if opts.DB != nil {
		usersRepo = pg.NewUsersRepo(opts.DB)
		petsRepo = pg.NewPetsRepo(opts.DB)
		apptsRepo = pg.NewAppointmentsRepo(opts.DB)
	} else {
		if usersRepo == nil {
			usersRepo = mem.NewUsersRepo()
		}
		if petsRepo == nil {
			petsRepo = mem.NewPetsRepo()
		}
		if apptsRepo == nil {
			apptsRepo = mem.NewAppointmentsRepo(petsRepo, usersRepo)
		}
	}

	usersSvc := users.NewService(usersRepo)
	petsSvc := pets.NewService(petsRepo)
	apptsSvc := appointments.NewService(apptsRepo, petsRepo, usersRepo)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SessionContext(sessions))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	users.RegisterAuthRoutes(r, usersSvc, sessions, opts.SessionTTL, log)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(gr chi.Router) {
			gr.Use(middleware.RequireSession)

			gr.Route("/citas", func(cr chi.Router) {
				appointments.RegisterRoutes(cr, apptsSvc, log)
			})
			gr.Route("/mascotas", func(mr chi.Router) {
				pets.RegisterRoutes(mr, petsSvc, log)
			})
		})

		api.Route("/empleados", func(er chi.Router) {
			er.Use(middleware.RequireSession)
			er.Use(middleware.RequireRole("admin"))
			users.RegisterEmployeeRoutes(er, usersSvc, log)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpjson.Failure(w, http.StatusNotFound, "La ruta solicitada no existe")
	})

	return r
}
