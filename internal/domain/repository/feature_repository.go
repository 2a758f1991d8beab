package repository

import (
	"context"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// FeatureRepository define el puerto de persistencia del catálogo de funcionalidades.
type FeatureRepository interface {
	Create(ctx context.Context, feature *entity.Feature) error
	Update(ctx context.Context, feature *entity.Feature) error
	// UpsertByKey inserta o actualiza por clave (seed del catálogo). Devuelve la fila resultante.
	UpsertByKey(ctx context.Context, feature *entity.Feature) (*entity.Feature, error)
	GetByID(ctx context.Context, id string) (*entity.Feature, error)
	GetByKey(ctx context.Context, key string) (*entity.Feature, error)
	// GetByIDs devuelve las funcionalidades existentes entre ids (las ausentes se omiten).
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Feature, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Feature, error)
}
