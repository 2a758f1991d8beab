package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/schoolhub-api/internal/application/catalog"
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

// Acciones aceptadas por ToggleFeatureByKey.
const (
	ActionEnable  = "enable"
	ActionDisable = "disable"
)

// EntitlementUseCase gestiona qué funcionalidades tiene cada escuela.
// Los cambios no afectan facturas emitidas: las líneas guardan su propio precio.
type EntitlementUseCase struct {
	repo     repository.EntitlementRepository
	features repository.FeatureRepository
	schools  repository.SchoolRepository
	tx       repository.TxRunner
	now      func() time.Time
}

// NewEntitlementUseCase construye el caso de uso.
func NewEntitlementUseCase(
	repo repository.EntitlementRepository,
	features repository.FeatureRepository,
	schools repository.SchoolRepository,
	tx repository.TxRunner,
) *EntitlementUseCase {
	return &EntitlementUseCase{repo: repo, features: features, schools: schools, tx: tx, now: time.Now}
}

// GetSchoolFeatures devuelve todas las asignaciones (habilitadas o no) de la escuela.
func (uc *EntitlementUseCase) GetSchoolFeatures(ctx context.Context, schoolID string) ([]dto.SchoolFeatureResponse, error) {
	return uc.list(ctx, schoolID, false)
}

// GetEnabledSchoolFeatures devuelve solo las habilitadas: es el conjunto facturable.
func (uc *EntitlementUseCase) GetEnabledSchoolFeatures(ctx context.Context, schoolID string) ([]dto.SchoolFeatureResponse, error) {
	return uc.list(ctx, schoolID, true)
}

func (uc *EntitlementUseCase) list(ctx context.Context, schoolID string, onlyEnabled bool) ([]dto.SchoolFeatureResponse, error) {
	if _, err := uc.school(ctx, schoolID); err != nil {
		return nil, err
	}
	rows, err := uc.repo.ListBySchool(ctx, schoolID, onlyEnabled)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SchoolFeatureResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toSchoolFeatureResponse(r))
	}
	return out, nil
}

// ToggleFeature crea o actualiza la asignación en una sola sentencia; repetirla no duplica filas.
func (uc *EntitlementUseCase) ToggleFeature(ctx context.Context, schoolID, featureID string, enabled bool) (*dto.ToggleResponse, error) {
	if _, err := uc.school(ctx, schoolID); err != nil {
		return nil, err
	}
	f, err := uc.features.GetByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("feature %s: %w", featureID, domain.ErrNotFound)
	}
	sf, err := uc.repo.Upsert(ctx, schoolID, featureID, enabled)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{SchoolID: sf.SchoolID, FeatureID: sf.FeatureID, Enabled: sf.Enabled}, nil
}

// ToggleFeatureByKey variante HTTP: acción enable|disable sobre la clave de la funcionalidad.
func (uc *EntitlementUseCase) ToggleFeatureByKey(ctx context.Context, schoolID, key, action string) (*dto.ToggleResponse, error) {
	var enabled bool
	switch action {
	case ActionEnable:
		enabled = true
	case ActionDisable:
		enabled = false
	default:
		return nil, domain.FieldInvalid("action", "action must be enable or disable")
	}
	f, err := uc.features.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("feature %s: %w", key, domain.ErrNotFound)
	}
	return uc.ToggleFeature(ctx, schoolID, f.ID, enabled)
}

// BulkAssignFeatures habilita cada funcionalidad en cada escuela dentro de una transacción.
// Valida que todos los IDs existan antes de escribir.
func (uc *EntitlementUseCase) BulkAssignFeatures(ctx context.Context, in dto.BulkAssignRequest) (*dto.BulkAssignResponse, error) {
	schoolIDs := dedupe(in.SchoolIDs)
	featureIDs := dedupe(in.FeatureIDs)
	verr := domain.NewValidationError("invalid bulk assignment")
	if len(schoolIDs) == 0 {
		verr.Add("school_ids", "at least one school is required")
	}
	if len(featureIDs) == 0 {
		verr.Add("feature_ids", "at least one feature is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	schools, err := uc.schools.GetByIDs(ctx, schoolIDs)
	if err != nil {
		return nil, err
	}
	if len(schools) != len(schoolIDs) {
		return nil, fmt.Errorf("bulk assign schools: %w", domain.ErrNotFound)
	}
	features, err := uc.features.GetByIDs(ctx, featureIDs)
	if err != nil {
		return nil, err
	}
	if len(features) != len(featureIDs) {
		return nil, fmt.Errorf("bulk assign features: %w", domain.ErrNotFound)
	}

	assigned := 0
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		for _, sid := range schoolIDs {
			for _, fid := range featureIDs {
				if _, err := r.Entitlements.Upsert(ctx, sid, fid, true); err != nil {
					return fmt.Errorf("assign %s to %s: %w", fid, sid, err)
				}
				assigned++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkAssignResponse{Assigned: assigned}, nil
}

// HasEnabledFeature indica si la escuela tiene la funcionalidad (por clave) habilitada.
func (uc *EntitlementUseCase) HasEnabledFeature(ctx context.Context, schoolID, key string) (bool, error) {
	return uc.repo.HasEnabledFeature(ctx, schoolID, key)
}

// GetFeatureSetup devuelve el menú personalizado o, si no existe, el del catálogo.
// Solo visible mientras la asignación esté habilitada.
func (uc *EntitlementUseCase) GetFeatureSetup(ctx context.Context, schoolID, featureID string) (*dto.FeatureSetupResponse, error) {
	f, err := uc.enabledFeature(ctx, schoolID, featureID)
	if err != nil {
		return nil, err
	}
	setup, err := uc.repo.GetSetup(ctx, schoolID, featureID)
	if err != nil {
		return nil, err
	}
	res := &dto.FeatureSetupResponse{SchoolID: schoolID, FeatureID: featureID}
	if setup == nil {
		res.MenuLinks = nonNil(f.MenuLinks)
		res.IsDefault = true
		return res, nil
	}
	res.MenuLinks = nonNil(setup.MenuLinks)
	return res, nil
}

// SaveFeatureSetup guarda la personalización; exige una asignación habilitada.
func (uc *EntitlementUseCase) SaveFeatureSetup(ctx context.Context, schoolID, featureID string, in dto.SaveFeatureSetupRequest) (*dto.FeatureSetupResponse, error) {
	if _, err := uc.enabledFeature(ctx, schoolID, featureID); err != nil {
		return nil, err
	}
	setup := &entity.SchoolFeatureSetup{
		SchoolID:  schoolID,
		FeatureID: featureID,
		MenuLinks: catalog.ToMenuLinks(in.MenuLinks),
		UpdatedAt: uc.now(),
	}
	if err := uc.repo.SaveSetup(ctx, setup); err != nil {
		return nil, err
	}
	return &dto.FeatureSetupResponse{SchoolID: schoolID, FeatureID: featureID, MenuLinks: nonNil(setup.MenuLinks)}, nil
}

// GetSchoolMenu arma el menú de la escuela: una sección por funcionalidad activa y habilitada,
// con los enlaces personalizados si existen y sin los enlaces deshabilitados.
func (uc *EntitlementUseCase) GetSchoolMenu(ctx context.Context, schoolID string) ([]dto.MenuSection, error) {
	rows, err := uc.repo.ListBySchool(ctx, schoolID, true)
	if err != nil {
		return nil, err
	}
	setups, err := uc.repo.ListSetups(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	byFeature := make(map[string][]entity.MenuLink, len(setups))
	for _, s := range setups {
		byFeature[s.FeatureID] = s.MenuLinks
	}

	out := make([]dto.MenuSection, 0, len(rows))
	for _, r := range rows {
		if !r.Feature.IsActive {
			continue
		}
		links := r.Feature.MenuLinks
		if custom, ok := byFeature[r.FeatureID]; ok {
			links = custom
		}
		visible := make([]entity.MenuLink, 0, len(links))
		for _, l := range links {
			if l.Enabled {
				visible = append(visible, l)
			}
		}
		out = append(out, dto.MenuSection{FeatureKey: r.Feature.Key, FeatureName: r.Feature.Name, Links: visible})
	}
	return out, nil
}

func (uc *EntitlementUseCase) enabledFeature(ctx context.Context, schoolID, featureID string) (*entity.Feature, error) {
	sf, err := uc.repo.Get(ctx, schoolID, featureID)
	if err != nil {
		return nil, err
	}
	if sf == nil || !sf.Enabled {
		return nil, fmt.Errorf("feature %s not enabled for school: %w", featureID, domain.ErrNotFound)
	}
	f, err := uc.features.GetByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (uc *EntitlementUseCase) school(ctx context.Context, id string) (*entity.School, error) {
	s, err := uc.schools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("school %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

func toSchoolFeatureResponse(d *entity.SchoolFeatureDetail) dto.SchoolFeatureResponse {
	return dto.SchoolFeatureResponse{
		ID:        d.ID,
		SchoolID:  d.SchoolID,
		FeatureID: d.FeatureID,
		Enabled:   d.Enabled,
		Feature:   catalog.ToFeatureResponse(&d.Feature),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func nonNil(links []entity.MenuLink) []entity.MenuLink {
	if links == nil {
		return []entity.MenuLink{}
	}
	return links
}
