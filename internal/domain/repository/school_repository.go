package repository

import (
	"context"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// SchoolRepository define el puerto de persistencia para School (tenant).
type SchoolRepository interface {
	Create(ctx context.Context, school *entity.School) error
	GetByID(ctx context.Context, id string) (*entity.School, error)
	// GetForUpdate bloquea la fila de la escuela (SELECT FOR UPDATE); solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.School, error)
	GetByShortName(ctx context.Context, shortName string) (*entity.School, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.School, error)
	// Update persiste nombre, estado, estado de pago, próximo vencimiento y bloqueo de acceso.
	Update(ctx context.Context, school *entity.School) error
	// List ordena por nombre; limit 0 significa sin límite.
	List(ctx context.Context, limit, offset int) ([]*entity.School, error)
}
