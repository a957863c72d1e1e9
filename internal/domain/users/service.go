package users

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"vet-clinic-backend/internal/apperr"
)

var (
	// Errores de login separados porque la API responde mensajes distintos
	// para usuario inexistente y contraseña incorrecta (compatibilidad).
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrWrongPassword = errors.New("contraseña incorrecta")
	ErrEmailTaken    = errors.New("el email ya está registrado")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterInput struct {
	Nombre   string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if err := validateAccount(in.Nombre, in.Email, in.Password); err != nil {
		return err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	_, err := s.repo.Create(ctx, User{
		Username: strings.TrimSpace(in.Nombre),
		Email:    in.Email,
		Password: in.Password,
		Rol:      RolUsuario,
		Estado:   true,
	})
	return err
}

// Login compara la contraseña en claro contra la almacenada.
// TODO: migrar las filas existentes a hash y recién ahí cambiar esta comparación.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return User{}, apperr.Invalid("email", "Credenciales inválidas")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}

	if password != u.Password {
		return User{}, ErrWrongPassword
	}
	return u, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]User, error) {
	return s.repo.ListByRol(ctx, RolEmpleado)
}

type EmployeeInput struct {
	Username string
	Email    string
	Password string
}

func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) error {
	if err := validateAccount(in.Username, in.Email, in.Password); err != nil {
		return err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	_, err := s.repo.Create(ctx, User{
		Username: strings.TrimSpace(in.Username),
		Email:    in.Email,
		Password: in.Password,
		Rol:      RolEmpleado,
		Estado:   true,
	})
	return err
}

func (s *Service) UpdateEmployee(ctx context.Context, id int, in EmployeeInput) error {
	if id < 1 {
		return apperr.Invalid("id", "El id del empleado es inválido")
	}
	if err := validateAccount(in.Username, in.Email, in.Password); err != nil {
		return err
	}

	n, err := s.repo.UpdateEmployee(ctx, id, strings.TrimSpace(in.Username), in.Email, in.Password)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeactivateEmployee marca estado=false; nunca borra la fila.
func (s *Service) DeactivateEmployee(ctx context.Context, id int) error {
	if id < 1 {
		return apperr.Invalid("id", "El id del empleado es inválido")
	}

	n, err := s.repo.DeactivateEmployee(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func validateAccount(nombre, email, password string) error {
	if strings.TrimSpace(nombre) == "" {
		return apperr.Invalid("nombre", "Todos los campos son obligatorios")
	}
	if strings.TrimSpace(email) == "" {
		return apperr.Invalid("email", "Todos los campos son obligatorios")
	}
	if password == "" {
		return apperr.Invalid("password", "Todos los campos son obligatorios")
	}
	if !emailPattern.MatchString(email) {
		return apperr.Invalid("email", "Email inválido")
	}
	if len(password) < 3 {
		return apperr.Invalid("password", "La contraseña debe tener al menos 3 caracteres")
	}
	return nil
}
