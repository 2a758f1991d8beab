package repository

import (
	"context"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// EntitlementRepository define el puerto para school_features y school_feature_setups.
type EntitlementRepository interface {
	// Upsert inserta o actualiza (school_id, feature_id) en una sola sentencia (ON CONFLICT).
	Upsert(ctx context.Context, schoolID, featureID string, enabled bool) (*entity.SchoolFeature, error)
	Get(ctx context.Context, schoolID, featureID string) (*entity.SchoolFeature, error)
	// ListBySchool devuelve las filas unidas con la funcionalidad; onlyEnabled filtra enabled = true.
	ListBySchool(ctx context.Context, schoolID string, onlyEnabled bool) ([]*entity.SchoolFeatureDetail, error)
	// HasEnabledFeature consulta por clave de funcionalidad activa y habilitada para la escuela.
	HasEnabledFeature(ctx context.Context, schoolID, featureKey string) (bool, error)
	GetSetup(ctx context.Context, schoolID, featureID string) (*entity.SchoolFeatureSetup, error)
	SaveSetup(ctx context.Context, setup *entity.SchoolFeatureSetup) error
	ListSetups(ctx context.Context, schoolID string) ([]*entity.SchoolFeatureSetup, error)
}
