package appointments_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	mem "vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/appointments"
	"vet-clinic-backend/internal/domain/pets"
	"vet-clinic-backend/internal/domain/users"
)

type fixture struct {
	svc *appointments.Service

	ownerID    int
	otherID    int
	employeeID int

	petID         int
	inactivePetID int
	foreignPetID  int
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	usersRepo := mem.NewUsersRepo()
	petsRepo := mem.NewPetsRepo()
	apptsRepo := mem.NewAppointmentsRepo(petsRepo, usersRepo)

	ownerID, _ := usersRepo.Create(ctx, users.User{Username: "ana", Email: "ana@test.com", Password: "123", Rol: users.RolUsuario, Estado: true})
	otherID, _ := usersRepo.Create(ctx, users.User{Username: "beto", Email: "beto@test.com", Password: "123", Rol: users.RolUsuario, Estado: true})
	employeeID, _ := usersRepo.Create(ctx, users.User{Username: "vet", Email: "vet@test.com", Password: "123", Rol: users.RolEmpleado, Estado: true})

	petID, _ := petsRepo.Create(ctx, pets.Pet{OwnerUserID: ownerID, Nombre: "Rex", Especie: "Perro", Sexo: "M", Activo: true})
	inactivePetID, _ := petsRepo.Create(ctx, pets.Pet{OwnerUserID: ownerID, Nombre: "Luna", Especie: "Gato", Sexo: "H", Activo: false})
	foreignPetID, _ := petsRepo.Create(ctx, pets.Pet{OwnerUserID: otherID, Nombre: "Toby", Especie: "Perro", Sexo: "M", Activo: true})

	return fixture{
		svc:           appointments.NewService(apptsRepo, petsRepo, usersRepo),
		ownerID:       ownerID,
		otherID:       otherID,
		employeeID:    employeeID,
		petID:         petID,
		inactivePetID: inactivePetID,
		foreignPetID:  foreignPetID,
	}
}

func validBooking(petID int) appointments.BookingInput {
	return appointments.BookingInput{
		Fecha:    "2026-09-01",
		Hora:     "10:00",
		TipoCita: "Medico",
		Detalle:  "control general",
		PetID:    petID,
	}
}

func TestBook_CreatesUnassignedAppointment(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Book(context.Background(), f.ownerID, validBooking(f.petID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Estado != nil {
		t.Fatalf("expected nil estado, got %q", *created.Estado)
	}
	if created.EmployeeID != nil {
		t.Fatalf("expected nil employee, got %d", *created.EmployeeID)
	}
	if created.OwnerUserID != f.ownerID {
		t.Fatalf("owner = %d, want %d", created.OwnerUserID, f.ownerID)
	}
}

func TestBook_Validation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*appointments.BookingInput)
		field  string
	}{
		{"fecha malformada", func(in *appointments.BookingInput) { in.Fecha = "01-09-2026" }, "fecha"},
		{"fecha muy lejana", func(in *appointments.BookingInput) { in.Fecha = "2099-01-01" }, "fecha"},
		{"hora malformada", func(in *appointments.BookingInput) { in.Hora = "9:00" }, "hora"},
		{"hora fuera de rango", func(in *appointments.BookingInput) { in.Hora = "25:30" }, "hora"},
		{"tipo desconocido", func(in *appointments.BookingInput) { in.TipoCita = "Dental" }, "tipoCita"},
		{"detalle vacío", func(in *appointments.BookingInput) { in.Detalle = "   " }, "detalle"},
		{"mascota cero", func(in *appointments.BookingInput) { in.PetID = 0 }, "idMascota"},
		{"mascota inexistente", func(in *appointments.BookingInput) { in.PetID = 9999 }, "idMascota"},
		{"mascota ajena", func(in *appointments.BookingInput) { in.PetID = f.foreignPetID }, "idMascota"},
		{"mascota inactiva", func(in *appointments.BookingInput) { in.PetID = f.inactivePetID }, "idMascota"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validBooking(f.petID)
			tc.mutate(&in)

			_, err := f.svc.Book(context.Background(), f.ownerID, in)
			ve, ok := apperr.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestBook_DuplicateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// otra hora para la misma mascota sigue disponible
	in := validBooking(f.petID)
	in.Hora = "11:00"
	if _, err := f.svc.Book(ctx, f.ownerID, in); err != nil {
		t.Fatalf("different hora: %v", err)
	}

	rows, err := f.svc.ListMine(ctx, f.ownerID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(rows))
	}
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var created, conflicts int
	for err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if created != 1 {
		t.Fatalf("created = %d, want exactly 1", created)
	}
	if conflicts != attempts-1 {
		t.Fatalf("conflicts = %d, want %d", conflicts, attempts-1)
	}
}

func TestAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	t.Run("empleado válido", func(t *testing.T) {
		updated, err := f.svc.Assign(ctx, created.ID, f.employeeID)
		if err != nil {
			t.Fatalf("assign: %v", err)
		}
		if updated.EmployeeID == nil || *updated.EmployeeID != f.employeeID {
			t.Fatalf("employee not set: %+v", updated.EmployeeID)
		}
	})

	t.Run("cita inexistente", func(t *testing.T) {
		_, err := f.svc.Assign(ctx, 9999, f.employeeID)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("id que no es empleado", func(t *testing.T) {
		_, err := f.svc.Assign(ctx, created.ID, f.ownerID)
		ve, ok := apperr.AsValidation(err)
		if !ok || ve.Field != "id_empleado" {
			t.Fatalf("expected id_empleado validation, got %v", err)
		}
	})

	t.Run("ids en cero", func(t *testing.T) {
		if _, err := f.svc.Assign(ctx, 0, f.employeeID); err == nil {
			t.Fatal("expected error for id_cita = 0")
		}
		if _, err := f.svc.Assign(ctx, created.ID, 0); err == nil {
			t.Fatal("expected error for id_empleado = 0")
		}
	})
}

func TestUpdate_MergeSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	estado := "Confirmada"
	updated, err := f.svc.Update(ctx, created.ID, &estado, nil)
	if err != nil {
		t.Fatalf("update estado: %v", err)
	}
	if updated.Estado == nil || *updated.Estado != "Confirmada" {
		t.Fatalf("estado not updated: %+v", updated.Estado)
	}
	if updated.Observaciones != nil {
		t.Fatalf("observaciones should stay nil, got %q", *updated.Observaciones)
	}

	obs := "trae la libreta sanitaria"
	updated, err = f.svc.Update(ctx, created.ID, nil, &obs)
	if err != nil {
		t.Fatalf("update observaciones: %v", err)
	}
	if updated.Estado == nil || *updated.Estado != "Confirmada" {
		t.Fatalf("estado should stay Confirmada, got %+v", updated.Estado)
	}
	if updated.Observaciones == nil || *updated.Observaciones != obs {
		t.Fatalf("observaciones not updated: %+v", updated.Observaciones)
	}

	if _, err := f.svc.Update(ctx, 9999, &estado, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancel_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// cita ajena y cita inexistente devuelven lo mismo: false sin error
	if ok, err := f.svc.Cancel(ctx, created.ID, f.otherID); err != nil || ok {
		t.Fatalf("foreign cancel = (%v, %v), want (false, nil)", ok, err)
	}
	if ok, err := f.svc.Cancel(ctx, 9999, f.ownerID); err != nil || ok {
		t.Fatalf("missing cancel = (%v, %v), want (false, nil)", ok, err)
	}

	// la cita sigue existiendo para su dueño
	rows, _ := f.svc.ListMine(ctx, f.ownerID)
	if len(rows) != 1 {
		t.Fatalf("appointment should survive foreign cancel, got %d rows", len(rows))
	}

	if ok, err := f.svc.Cancel(ctx, created.ID, f.ownerID); err != nil || !ok {
		t.Fatalf("owner cancel = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, _ := f.svc.Cancel(ctx, created.ID, f.ownerID); ok {
		t.Fatal("second cancel should report false")
	}

	// el turno queda libre después de cancelar
	if _, err := f.svc.Book(ctx, f.ownerID, validBooking(f.petID)); err != nil {
		t.Fatalf("slot should be free after cancel: %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots := []struct{ fecha, hora string }{
		{"2026-09-02", "09:00"},
		{"2026-09-01", "15:00"},
		{"2026-09-02", "08:00"},
	}
	var ids []int
	for _, s := range slots {
		in := validBooking(f.petID)
		in.Fecha, in.Hora = s.fecha, s.hora
		created, err := f.svc.Book(ctx, f.ownerID, in)
		if err != nil {
			t.Fatalf("book %s %s: %v", s.fecha, s.hora, err)
		}
		ids = append(ids, created.ID)
	}

	mine, err := f.svc.ListMine(ctx, f.ownerID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	// fecha DESC, hora DESC
	wantMine := []string{"2026-09-02 09:00", "2026-09-02 08:00", "2026-09-01 15:00"}
	for i, row := range mine {
		got := row.Fecha + " " + row.Hora
		if got != wantMine[i] {
			t.Fatalf("mine[%d] = %s, want %s", i, got, wantMine[i])
		}
		if row.NombreMascota != "Rex" {
			t.Fatalf("mine[%d] nombre_mascota = %q", i, row.NombreMascota)
		}
	}

	for _, id := range ids {
		if _, err := f.svc.Assign(ctx, id, f.employeeID); err != nil {
			t.Fatalf("assign %d: %v", id, err)
		}
	}

	assigned, err := f.svc.ListAssigned(ctx, f.employeeID)
	if err != nil {
		t.Fatalf("list assigned: %v", err)
	}
	// fecha ASC, hora ASC
	wantAssigned := []string{"2026-09-01 15:00", "2026-09-02 08:00", "2026-09-02 09:00"}
	for i, row := range assigned {
		got := row.Fecha + " " + row.Hora
		if got != wantAssigned[i] {
			t.Fatalf("assigned[%d] = %s, want %s", i, got, wantAssigned[i])
		}
		if row.NombreCliente != "ana" {
			t.Fatalf("assigned[%d] nombre_cliente = %q", i, row.NombreCliente)
		}
	}

	pending, err := f.svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending after assigning all, got %d", len(pending))
	}
}
