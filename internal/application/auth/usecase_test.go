package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/schoolhub-api/internal/application/auth"
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/memory"
	"github.com/jhoicas/schoolhub-api/pkg/jwt"
)

const (
	secret   = "test-secret"
	schoolID = "11111111-1111-1111-1111-111111111111"
)

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	require.NoError(t, store.Repos().Schools.Create(context.Background(), &entity.School{
		ID: schoolID, Name: "Greenfield", ShortName: "greenfield", Type: entity.SchoolTypeK12,
		Status: entity.SchoolStatusActive, PaymentStatus: entity.PaymentStatusPending, CreatedAt: now, UpdatedAt: now,
	}))
	return auth.NewAuthUseCase(store.Users(), store.Repos().Schools, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "schoolhub"})
}

func TestCreateUserYLogin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	u, err := uc.CreateUser(ctx, dto.CreateUserRequest{SchoolID: schoolID, Email: "Admin@Greenfield.ng", Password: "s3cretpass", Name: "Ada", Role: entity.RoleSchoolAdmin})
	require.NoError(t, err)
	assert.Equal(t, "admin@greenfield.ng", u.Email)
	assert.Equal(t, schoolID, u.SchoolID)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@greenfield.ng", Password: "s3cretpass"})
	require.NoError(t, err)
	userID, sid, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, schoolID, sid)
	assert.Equal(t, entity.RoleSchoolAdmin, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{SchoolID: schoolID, Email: "staff@greenfield.ng", Password: "s3cretpass", Name: "Bola", Role: entity.RoleStaff})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "staff@greenfield.ng", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@greenfield.ng", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateUser_Validaciones(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.ng", Password: "s3cretpass", Role: entity.RoleStaff})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "school_id", verr.Fields[0].Field)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{SchoolID: "22222222-2222-2222-2222-222222222222", Email: "a@b.ng", Password: "s3cretpass", Role: entity.RoleStaff})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.ng", Password: "s3cretpass", Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	root, err := uc.CreateUser(ctx, dto.CreateUserRequest{SchoolID: schoolID, Email: "root@schoolhub.ng", Password: "s3cretpass", Role: entity.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Empty(t, root.SchoolID, "superadmin no pertenece a una escuela")

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ROOT@schoolhub.ng", Password: "s3cretpass", Role: entity.RoleSuperAdmin})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
