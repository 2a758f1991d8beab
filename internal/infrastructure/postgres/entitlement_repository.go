package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.EntitlementRepository = (*EntitlementRepo)(nil)

// EntitlementRepo school_features y school_feature_setups sobre PostgreSQL.
type EntitlementRepo struct {
	q Querier
}

// NewEntitlementRepository construye el adaptador.
func NewEntitlementRepository(q Querier) *EntitlementRepo {
	return &EntitlementRepo{q: q}
}

// Upsert una sola sentencia: dos toggles concurrentes nunca producen filas duplicadas.
func (r *EntitlementRepo) Upsert(ctx context.Context, schoolID, featureID string, enabled bool) (*entity.SchoolFeature, error) {
	query := `
		INSERT INTO school_features (id, school_id, feature_id, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (school_id, feature_id) DO UPDATE
		SET enabled = EXCLUDED.enabled, updated_at = NOW()
		RETURNING id, school_id, feature_id, enabled, created_at, updated_at`
	var sf entity.SchoolFeature
	err := r.q.QueryRow(ctx, query, uuid.New().String(), schoolID, featureID, enabled).Scan(
		&sf.ID, &sf.SchoolID, &sf.FeatureID, &sf.Enabled, &sf.CreatedAt, &sf.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return nil, fmt.Errorf("school %s / feature %s: %w", schoolID, featureID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("upsert school feature: %w", err)
	}
	return &sf, nil
}

func (r *EntitlementRepo) Get(ctx context.Context, schoolID, featureID string) (*entity.SchoolFeature, error) {
	query := `
		SELECT id, school_id, feature_id, enabled, created_at, updated_at
		FROM school_features WHERE school_id = $1 AND feature_id = $2`
	var sf entity.SchoolFeature
	err := r.q.QueryRow(ctx, query, schoolID, featureID).Scan(
		&sf.ID, &sf.SchoolID, &sf.FeatureID, &sf.Enabled, &sf.CreatedAt, &sf.UpdatedAt,
	)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school feature: %w", err)
	}
	return &sf, nil
}

func (r *EntitlementRepo) ListBySchool(ctx context.Context, schoolID string, onlyEnabled bool) ([]*entity.SchoolFeatureDetail, error) {
	query := `
		SELECT sf.id, sf.school_id, sf.feature_id, sf.enabled, sf.created_at, sf.updated_at,
		       f.id, f.key, f.name, f.description, f.price, f.pricing_type, f.requires_date_range,
		       f.menu_links, f.is_active, f.created_at, f.updated_at
		FROM school_features sf
		JOIN features f ON f.id = sf.feature_id
		WHERE sf.school_id = $1 AND (NOT $2 OR sf.enabled)
		ORDER BY f.name`
	rows, err := r.q.Query(ctx, query, schoolID, onlyEnabled)
	if err != nil {
		return nil, fmt.Errorf("list school features: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SchoolFeatureDetail, 0)
	for rows.Next() {
		var d entity.SchoolFeatureDetail
		var description *string
		if err := rows.Scan(
			&d.ID, &d.SchoolID, &d.FeatureID, &d.Enabled, &d.CreatedAt, &d.UpdatedAt,
			&d.Feature.ID, &d.Feature.Key, &d.Feature.Name, &description, &d.Feature.Price,
			&d.Feature.PricingType, &d.Feature.RequiresDateRange, &d.Feature.MenuLinks,
			&d.Feature.IsActive, &d.Feature.CreatedAt, &d.Feature.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan school feature: %w", err)
		}
		d.Feature.Description = derefStr(description)
		list = append(list, &d)
	}
	return list, rows.Err()
}

// HasEnabledFeature la funcionalidad debe estar activa en el catálogo y habilitada para la escuela.
func (r *EntitlementRepo) HasEnabledFeature(ctx context.Context, schoolID, featureKey string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM school_features sf
			JOIN features f ON f.id = sf.feature_id
			WHERE sf.school_id = $1 AND f.key = $2 AND sf.enabled AND f.is_active
		)`
	var ok bool
	if err := r.q.QueryRow(ctx, query, schoolID, featureKey).Scan(&ok); err != nil {
		return false, fmt.Errorf("check school feature: %w", err)
	}
	return ok, nil
}

func (r *EntitlementRepo) GetSetup(ctx context.Context, schoolID, featureID string) (*entity.SchoolFeatureSetup, error) {
	query := `
		SELECT school_id, feature_id, menu_links, updated_at
		FROM school_feature_setups WHERE school_id = $1 AND feature_id = $2`
	var st entity.SchoolFeatureSetup
	err := r.q.QueryRow(ctx, query, schoolID, featureID).Scan(&st.SchoolID, &st.FeatureID, &st.MenuLinks, &st.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feature setup: %w", err)
	}
	return &st, nil
}

func (r *EntitlementRepo) SaveSetup(ctx context.Context, st *entity.SchoolFeatureSetup) error {
	query := `
		INSERT INTO school_feature_setups (school_id, feature_id, menu_links, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (school_id, feature_id) DO UPDATE
		SET menu_links = EXCLUDED.menu_links, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, st.SchoolID, st.FeatureID, linksOrEmpty(st.MenuLinks), st.UpdatedAt); err != nil {
		return fmt.Errorf("save feature setup: %w", err)
	}
	return nil
}

func (r *EntitlementRepo) ListSetups(ctx context.Context, schoolID string) ([]*entity.SchoolFeatureSetup, error) {
	rows, err := r.q.Query(ctx, `
		SELECT school_id, feature_id, menu_links, updated_at
		FROM school_feature_setups WHERE school_id = $1`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list feature setups: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SchoolFeatureSetup, 0)
	for rows.Next() {
		var st entity.SchoolFeatureSetup
		if err := rows.Scan(&st.SchoolID, &st.FeatureID, &st.MenuLinks, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan feature setup: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}
