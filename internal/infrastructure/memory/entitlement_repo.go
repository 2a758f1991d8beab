package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.EntitlementRepository = (*EntitlementRepo)(nil)

// EntitlementRepo asignaciones y personalizaciones en memoria.
type EntitlementRepo struct{ s *Store }

func (r *EntitlementRepo) Upsert(_ context.Context, schoolID, featureID string, enabled bool) (*entity.SchoolFeature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := timeNow()
	k := entKey(schoolID, featureID)
	sf, ok := r.s.st.entitlements[k]
	if !ok {
		sf = entity.SchoolFeature{ID: uuid.New().String(), SchoolID: schoolID, FeatureID: featureID, CreatedAt: now}
	}
	sf.Enabled = enabled
	sf.UpdatedAt = now
	r.s.st.entitlements[k] = sf
	return &sf, nil
}

func (r *EntitlementRepo) Get(_ context.Context, schoolID, featureID string) (*entity.SchoolFeature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sf, ok := r.s.st.entitlements[entKey(schoolID, featureID)]
	if !ok {
		return nil, nil
	}
	return &sf, nil
}

func (r *EntitlementRepo) ListBySchool(_ context.Context, schoolID string, onlyEnabled bool) ([]*entity.SchoolFeatureDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.SchoolFeatureDetail, 0)
	for _, sf := range r.s.st.entitlements {
		if sf.SchoolID != schoolID || (onlyEnabled && !sf.Enabled) {
			continue
		}
		f, ok := r.s.st.features[sf.FeatureID]
		if !ok {
			continue
		}
		f.MenuLinks = copyLinks(f.MenuLinks)
		out = append(out, &entity.SchoolFeatureDetail{SchoolFeature: sf, Feature: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Feature.Name < out[j].Feature.Name })
	return out, nil
}

func (r *EntitlementRepo) HasEnabledFeature(_ context.Context, schoolID, featureKey string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sf := range r.s.st.entitlements {
		if sf.SchoolID != schoolID || !sf.Enabled {
			continue
		}
		if f, ok := r.s.st.features[sf.FeatureID]; ok && f.Key == featureKey && f.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *EntitlementRepo) GetSetup(_ context.Context, schoolID, featureID string) (*entity.SchoolFeatureSetup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.st.setups[entKey(schoolID, featureID)]
	if !ok {
		return nil, nil
	}
	st.MenuLinks = copyLinks(st.MenuLinks)
	return &st, nil
}

func (r *EntitlementRepo) SaveSetup(_ context.Context, setup *entity.SchoolFeatureSetup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *setup
	c.MenuLinks = copyLinks(setup.MenuLinks)
	r.s.st.setups[entKey(setup.SchoolID, setup.FeatureID)] = c
	return nil
}

func (r *EntitlementRepo) ListSetups(_ context.Context, schoolID string) ([]*entity.SchoolFeatureSetup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.SchoolFeatureSetup, 0)
	for _, st := range r.s.st.setups {
		if st.SchoolID == schoolID {
			st := st
			st.MenuLinks = copyLinks(st.MenuLinks)
			out = append(out, &st)
		}
	}
	return out, nil
}
