package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

// CatalogUseCase casos de uso del catálogo de funcionalidades (solo superadmin escribe).
type CatalogUseCase struct {
	repo repository.FeatureRepository
	now  func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.FeatureRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, now: time.Now}
}

// ListFeatures devuelve el catálogo; includeInactive incluye las desactivadas.
func (uc *CatalogUseCase) ListFeatures(ctx context.Context, includeInactive bool) ([]dto.FeatureResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FeatureResponse, 0, len(list))
	for _, f := range list {
		out = append(out, ToFeatureResponse(f))
	}
	return out, nil
}

// GetFeature obtiene una funcionalidad por ID.
func (uc *CatalogUseCase) GetFeature(ctx context.Context, id string) (*dto.FeatureResponse, error) {
	f, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := ToFeatureResponse(f)
	return &res, nil
}

// CreateFeature valida y crea una funcionalidad. Clave duplicada -> ErrConflict.
func (uc *CatalogUseCase) CreateFeature(ctx context.Context, in dto.CreateFeatureRequest) (*dto.FeatureResponse, error) {
	f, err := uc.buildFeature(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByKey(ctx, f.Key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("feature key %q: %w", f.Key, domain.ErrConflict)
	}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	res := ToFeatureResponse(f)
	return &res, nil
}

// UpdateFeature aplica una actualización parcial. La clave es inmutable.
func (uc *CatalogUseCase) UpdateFeature(ctx context.Context, id string, in dto.UpdateFeatureRequest) (*dto.FeatureResponse, error) {
	f, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := domain.NewValidationError("invalid feature")
	if in.Key != nil && *in.Key != f.Key {
		verr.Add("key", "key cannot be changed after creation")
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			verr.Add("name", "name is required")
		}
		f.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			verr.Add("price", "price must be >= 0")
		}
		f.Price = *in.Price
	}
	if in.PricingType != nil {
		if !entity.IsValidPricingType(*in.PricingType) {
			verr.Add("pricing_type", "unknown pricing type")
		}
		f.PricingType = *in.PricingType
	}
	if in.RequiresDateRange != nil {
		f.RequiresDateRange = *in.RequiresDateRange
	}
	if in.MenuLinks != nil {
		f.MenuLinks = ToMenuLinks(*in.MenuLinks)
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	if verr.HasErrors() {
		return nil, verr
	}

	f.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	res := ToFeatureResponse(f)
	return &res, nil
}

// DeactivateFeature baja lógica (is_active = false). Las asignaciones existentes no se tocan.
func (uc *CatalogUseCase) DeactivateFeature(ctx context.Context, id string) error {
	f, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if !f.IsActive {
		return nil
	}
	f.IsActive = false
	f.UpdatedAt = uc.now()
	return uc.repo.Update(ctx, f)
}

// SeedFeatures inserta o actualiza por clave cada funcionalidad del archivo semilla.
// Valida todo el lote antes de escribir.
func (uc *CatalogUseCase) SeedFeatures(ctx context.Context, drafts []dto.CreateFeatureRequest) (*dto.SeedResult, error) {
	features := make([]*entity.Feature, 0, len(drafts))
	seen := make(map[string]bool, len(drafts))
	verr := domain.NewValidationError("invalid feature catalog")
	for i, d := range drafts {
		f, err := uc.buildFeature(d)
		if err != nil {
			verr.Add(fmt.Sprintf("features[%d]", i), err.Error())
			continue
		}
		if seen[f.Key] {
			verr.Add(fmt.Sprintf("features[%d].key", i), "duplicate key in catalog file")
			continue
		}
		seen[f.Key] = true
		features = append(features, f)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	res := &dto.SeedResult{Keys: make([]string, 0, len(features))}
	for _, f := range features {
		saved, err := uc.repo.UpsertByKey(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("seed feature %s: %w", f.Key, err)
		}
		res.Upserted++
		res.Keys = append(res.Keys, saved.Key)
	}
	return res, nil
}

func (uc *CatalogUseCase) get(ctx context.Context, id string) (*entity.Feature, error) {
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (uc *CatalogUseCase) buildFeature(in dto.CreateFeatureRequest) (*entity.Feature, error) {
	verr := domain.NewValidationError("invalid feature")
	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name", "name is required")
	}
	key := strings.TrimSpace(in.Key)
	if key == "" {
		key = entity.FeatureKeyFromName(name)
	}
	if !entity.IsValidFeatureKey(key) {
		verr.Add("key", "key must match ^[a-z0-9_]+$")
	}
	if in.Price < 0 {
		verr.Add("price", "price must be >= 0")
	}
	if !entity.IsValidPricingType(in.PricingType) {
		verr.Add("pricing_type", "unknown pricing type")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	now := uc.now()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &entity.Feature{
		ID:                uuid.New().String(),
		Key:               key,
		Name:              name,
		Description:       in.Description,
		Price:             in.Price,
		PricingType:       in.PricingType,
		RequiresDateRange: in.RequiresDateRange,
		MenuLinks:         ToMenuLinks(in.MenuLinks),
		IsActive:          active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ToMenuLinks convierte DTOs a entidad; Enabled ausente equivale a true.
func ToMenuLinks(in []dto.MenuLinkDTO) []entity.MenuLink {
	out := make([]entity.MenuLink, 0, len(in))
	for _, l := range in {
		enabled := true
		if l.Enabled != nil {
			enabled = *l.Enabled
		}
		out = append(out, entity.MenuLink{Name: l.Name, Href: l.Href, Icon: l.Icon, Enabled: enabled})
	}
	return out
}

// ToFeatureResponse mapea la entidad al DTO de salida.
func ToFeatureResponse(f *entity.Feature) dto.FeatureResponse {
	links := f.MenuLinks
	if links == nil {
		links = []entity.MenuLink{}
	}
	return dto.FeatureResponse{
		ID:                f.ID,
		Key:               f.Key,
		Name:              f.Name,
		Description:       f.Description,
		Price:             f.Price,
		PricingType:       f.PricingType,
		RequiresDateRange: f.RequiresDateRange,
		MenuLinks:         links,
		IsActive:          f.IsActive,
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
	}
}
