package pets_test

import (
	"context"
	"testing"

	mem "vet-clinic-backend/internal/adapters/storage/memory"
	"vet-clinic-backend/internal/apperr"
	"vet-clinic-backend/internal/domain/pets"
)

func TestCreate_Validation(t *testing.T) {
	svc := pets.NewService(mem.NewPetsRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		in    pets.CreateInput
		field string
	}{
		{"sin nombre", pets.CreateInput{Especie: "Perro", Sexo: "M"}, "nombre"},
		{"sin especie", pets.CreateInput{Nombre: "Rex", Sexo: "M"}, "especie"},
		{"sin sexo", pets.CreateInput{Nombre: "Rex", Especie: "Perro"}, "sexo"},
		{"solo espacios", pets.CreateInput{Nombre: "  ", Especie: "Perro", Sexo: "M"}, "nombre"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 1, tc.in)
			ve, ok := apperr.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}

	if _, err := svc.Create(ctx, 0, pets.CreateInput{Nombre: "Rex", Especie: "Perro", Sexo: "M"}); err != apperr.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for owner 0, got %v", err)
	}
}

func TestCreate_TrimsAndActivates(t *testing.T) {
	repo := mem.NewPetsRepo()
	svc := pets.NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, 7, pets.CreateInput{Nombre: " Rex ", Especie: " Perro ", Raza: " Beagle ", Sexo: " M "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Nombre != "Rex" || p.Especie != "Perro" || p.Raza != "Beagle" || p.Sexo != "M" {
		t.Fatalf("fields not trimmed: %+v", p)
	}
	if !p.Activo {
		t.Fatal("new pet should be active")
	}
	if p.OwnerUserID != 7 {
		t.Fatalf("owner = %d, want 7", p.OwnerUserID)
	}
}

func TestListActiveByOwner(t *testing.T) {
	repo := mem.NewPetsRepo()
	svc := pets.NewService(repo)
	ctx := context.Background()

	for _, nombre := range []string{"Zeus", "Ana", "Milo"} {
		if _, err := svc.Create(ctx, 1, pets.CreateInput{Nombre: nombre, Especie: "Perro", Sexo: "M"}); err != nil {
			t.Fatalf("create %s: %v", nombre, err)
		}
	}
	otherID, _ := svc.Create(ctx, 2, pets.CreateInput{Nombre: "Ajeno", Especie: "Gato", Sexo: "H"})

	list, err := svc.ListActiveByOwner(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Ana", "Milo", "Zeus"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, p := range list {
		if p.Nombre != want[i] {
			t.Fatalf("list[%d] = %q, want %q", i, p.Nombre, want[i])
		}
		if p.ID == otherID {
			t.Fatal("list leaked another owner's pet")
		}
	}
}

func TestDeactivate_Idempotent(t *testing.T) {
	repo := mem.NewPetsRepo()
	svc := pets.NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, 1, pets.CreateInput{Nombre: "Rex", Especie: "Perro", Sexo: "M"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.Deactivate(ctx, id)
	if err != nil || n != 1 {
		t.Fatalf("first deactivate = (%d, %v), want (1, nil)", n, err)
	}
	n, err = svc.Deactivate(ctx, id)
	if err != nil || n != 0 {
		t.Fatalf("second deactivate = (%d, %v), want (0, nil)", n, err)
	}

	list, _ := svc.ListActiveByOwner(ctx, 1)
	if len(list) != 0 {
		t.Fatalf("inactive pet still listed: %+v", list)
	}

	// el registro sobrevive para el historial
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get after deactivate: %v", err)
	}
	if p.Activo {
		t.Fatal("pet should be inactive")
	}
}
