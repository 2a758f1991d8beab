package repository

import (
	"context"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail busca por email (único en la plataforma).
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
