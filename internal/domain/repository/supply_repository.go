package repository

import (
	"context"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// SupplyRepository define el puerto para insumos y su libro de movimientos.
// Usado dentro de transacciones para mantener el saldo consistente con el libro.
type SupplyRepository interface {
	Create(ctx context.Context, supply *entity.Supply) error
	GetByID(ctx context.Context, id string) (*entity.Supply, error)
	// GetForUpdate bloquea la fila del insumo (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Supply, error)
	UpdateBalance(ctx context.Context, supply *entity.Supply) error
	ListBySchool(ctx context.Context, schoolID string) ([]*entity.Supply, error)
	CreateMovement(ctx context.Context, movement *entity.SupplyMovement) error
	ListMovements(ctx context.Context, supplyID string, limit, offset int) ([]*entity.SupplyMovement, error)
}
