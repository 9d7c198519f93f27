package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/kardex-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de UserRepository
// ──────────────────────────────────────────────────────────────────────────────

type memoryUserRepo struct {
	users map[string]entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]entity.User{}}
}

func (r *memoryUserRepo) Create(u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (r *memoryUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Update(u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) List(limit, offset int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := u
		out = append(out, &cp)
	}
	return out, nil
}

func newAuthEnv() (*auth.AuthUseCase, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		ExpMinutes: 60,
		Issuer:     "kardex-api-test",
	})
	return uc, repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_CreaUsuarioConRolStaffPorDefecto(t *testing.T) {
	uc, repo := newAuthEnv()

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Name:     "Carlos Mora",
		Email:    "carlos@example.com",
		Password: "secreto-largo",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, resp.Role, "sin rol explícito el usuario queda como staff")
	assert.Equal(t, "active", resp.Status)

	stored, err := repo.FindByEmail("carlos@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto-largo", stored.PasswordHash, "el password nunca se guarda en claro")
}

func TestRegisterUser_EmailDuplicado_ErrEmailAlreadyExists(t *testing.T) {
	uc, _ := newAuthEnv()

	req := dto.RegisterRequest{Email: "carlos@example.com", Password: "secreto-largo"}
	_, err := uc.RegisterUser(req)
	require.NoError(t, err)

	_, err = uc.RegisterUser(req)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_PasswordCorto_ErrInvalidInput(t *testing.T) {
	uc, _ := newAuthEnv()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@example.com", Password: "corto"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_RolDesconocido_ErrInvalidInput(t *testing.T) {
	uc, _ := newAuthEnv()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "a@example.com",
		Password: "secreto-largo",
		Role:     "superusuario",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas_RetornaTokenConClaims(t *testing.T) {
	uc, _ := newAuthEnv()

	registered, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "carlos@example.com",
		Password: "secreto-largo",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "carlos@example.com", Password: "secreto-largo"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)

	userID, role, err := pkgjwt.Parse("test-secret-key-for-unit-tests", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto_ErrUnauthorized(t *testing.T) {
	uc, _ := newAuthEnv()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "carlos@example.com", Password: "secreto-largo"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "carlos@example.com", Password: "otro-password"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_ErrUserNotFound(t *testing.T) {
	uc, _ := newAuthEnv()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "lo-que-sea"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo_ErrForbidden(t *testing.T) {
	uc, repo := newAuthEnv()

	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "carlos@example.com", Password: "secreto-largo"})
	require.NoError(t, err)

	stored, err := repo.GetByID(registered.ID)
	require.NoError(t, err)
	stored.Status = "inactive"
	require.NoError(t, repo.Update(stored))

	_, err = uc.Login(dto.LoginRequest{Email: "carlos@example.com", Password: "secreto-largo"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}
