package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.FeatureRepository = (*FeatureRepo)(nil)

const featureColumns = `id, key, name, description, price, pricing_type, requires_date_range, menu_links, is_active, created_at, updated_at`

// FeatureRepo catálogo de funcionalidades sobre PostgreSQL. menu_links es JSONB.
type FeatureRepo struct {
	q Querier
}

// NewFeatureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFeatureRepository(q Querier) *FeatureRepo {
	return &FeatureRepo{q: q}
}

func (r *FeatureRepo) Create(ctx context.Context, f *entity.Feature) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	query := `
		INSERT INTO features (` + featureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Key, f.Name, f.Description, f.Price, f.PricingType, f.RequiresDateRange,
		linksOrEmpty(f.MenuLinks), f.IsActive, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("feature key %q: %w", f.Key, domain.ErrConflict)
		}
		return fmt.Errorf("insert feature: %w", err)
	}
	return nil
}

// Update persiste los campos editables; key no se modifica.
func (r *FeatureRepo) Update(ctx context.Context, f *entity.Feature) error {
	query := `
		UPDATE features
		SET name = $2, description = $3, price = $4, pricing_type = $5,
		    requires_date_range = $6, menu_links = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Description, f.Price, f.PricingType,
		f.RequiresDateRange, linksOrEmpty(f.MenuLinks), f.IsActive, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feature %s: %w", f.ID, domain.ErrNotFound)
	}
	return nil
}

// UpsertByKey inserta o actualiza por key en una sola sentencia; conserva id y created_at existentes.
func (r *FeatureRepo) UpsertByKey(ctx context.Context, f *entity.Feature) (*entity.Feature, error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	query := `
		INSERT INTO features (` + featureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (key) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
		    pricing_type = EXCLUDED.pricing_type, requires_date_range = EXCLUDED.requires_date_range,
		    menu_links = EXCLUDED.menu_links, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at
		RETURNING ` + featureColumns
	row := r.q.QueryRow(ctx, query,
		f.ID, f.Key, f.Name, f.Description, f.Price, f.PricingType, f.RequiresDateRange,
		linksOrEmpty(f.MenuLinks), f.IsActive, f.CreatedAt, f.UpdatedAt,
	)
	out, err := scanFeature(row)
	if err != nil {
		return nil, fmt.Errorf("upsert feature: %w", err)
	}
	return out, nil
}

func (r *FeatureRepo) GetByID(ctx context.Context, id string) (*entity.Feature, error) {
	return r.getOne(ctx, `SELECT `+featureColumns+` FROM features WHERE id = $1`, id)
}

func (r *FeatureRepo) GetByKey(ctx context.Context, key string) (*entity.Feature, error) {
	return r.getOne(ctx, `SELECT `+featureColumns+` FROM features WHERE key = $1`, key)
}

func (r *FeatureRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Feature, error) {
	if len(ids) == 0 {
		return []*entity.Feature{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+featureColumns+` FROM features WHERE id = ANY($1::uuid[]) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("get features by ids: %w", err)
	}
	return collectFeatures(rows)
}

// List ordena por nombre; includeInactive=false solo devuelve is_active = true.
func (r *FeatureRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Feature, error) {
	rows, err := r.q.Query(ctx, `SELECT `+featureColumns+` FROM features WHERE ($1 OR is_active) ORDER BY name`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	return collectFeatures(rows)
}

func (r *FeatureRepo) getOne(ctx context.Context, query string, arg any) (*entity.Feature, error) {
	f, err := scanFeature(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feature: %w", err)
	}
	return f, nil
}

func scanFeature(row pgx.Row) (*entity.Feature, error) {
	var f entity.Feature
	var description *string
	err := row.Scan(
		&f.ID, &f.Key, &f.Name, &description, &f.Price, &f.PricingType, &f.RequiresDateRange,
		&f.MenuLinks, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Description = derefStr(description)
	return &f, nil
}

func collectFeatures(rows pgx.Rows) ([]*entity.Feature, error) {
	defer rows.Close()
	list := make([]*entity.Feature, 0)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
