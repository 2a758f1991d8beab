package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.FeatureRepository = (*FeatureRepo)(nil)

// FeatureRepo catálogo en memoria.
type FeatureRepo struct{ s *Store }

func (r *FeatureRepo) Create(_ context.Context, f *entity.Feature) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.features {
		if existing.Key == f.Key {
			return domain.ErrConflict
		}
	}
	c := *f
	c.MenuLinks = copyLinks(f.MenuLinks)
	r.s.st.features[f.ID] = c
	return nil
}

func (r *FeatureRepo) Update(_ context.Context, f *entity.Feature) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.features[f.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *f
	c.MenuLinks = copyLinks(f.MenuLinks)
	r.s.st.features[f.ID] = c
	return nil
}

func (r *FeatureRepo) UpsertByKey(_ context.Context, f *entity.Feature) (*entity.Feature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *f
	c.MenuLinks = copyLinks(f.MenuLinks)
	for id, existing := range r.s.st.features {
		if existing.Key == f.Key {
			c.ID = id
			c.CreatedAt = existing.CreatedAt
			break
		}
	}
	r.s.st.features[c.ID] = c
	out := c
	return &out, nil
}

func (r *FeatureRepo) GetByID(_ context.Context, id string) (*entity.Feature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.st.features[id]
	if !ok {
		return nil, nil
	}
	f.MenuLinks = copyLinks(f.MenuLinks)
	return &f, nil
}

func (r *FeatureRepo) GetByKey(_ context.Context, key string) (*entity.Feature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.st.features {
		if f.Key == key {
			f.MenuLinks = copyLinks(f.MenuLinks)
			return &f, nil
		}
	}
	return nil, nil
}

func (r *FeatureRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Feature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Feature, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.s.st.features[id]; ok {
			f.MenuLinks = copyLinks(f.MenuLinks)
			out = append(out, &f)
		}
	}
	return out, nil
}

func (r *FeatureRepo) List(_ context.Context, includeInactive bool) ([]*entity.Feature, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Feature, 0, len(r.s.st.features))
	for _, f := range r.s.st.features {
		if !includeInactive && !f.IsActive {
			continue
		}
		f := f
		f.MenuLinks = copyLinks(f.MenuLinks)
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
