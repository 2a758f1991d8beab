package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.SchoolRepository = (*SchoolRepo)(nil)

// SchoolRepo escuelas en memoria.
type SchoolRepo struct{ s *Store }

func (r *SchoolRepo) Create(_ context.Context, sc *entity.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.schools {
		if existing.ShortName == sc.ShortName {
			return domain.ErrConflict
		}
	}
	r.s.st.schools[sc.ID] = *sc
	return nil
}

func (r *SchoolRepo) GetByID(_ context.Context, id string) (*entity.School, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.st.schools[id]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (r *SchoolRepo) GetForUpdate(ctx context.Context, id string) (*entity.School, error) {
	return r.GetByID(ctx, id)
}

func (r *SchoolRepo) GetByShortName(_ context.Context, shortName string) (*entity.School, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sc := range r.s.st.schools {
		if sc.ShortName == shortName {
			return &sc, nil
		}
	}
	return nil, nil
}

func (r *SchoolRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.School, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.School, 0, len(ids))
	for _, id := range ids {
		if sc, ok := r.s.st.schools[id]; ok {
			out = append(out, &sc)
		}
	}
	return out, nil
}

func (r *SchoolRepo) Update(_ context.Context, sc *entity.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.schools[sc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.schools[sc.ID] = *sc
	return nil
}

func (r *SchoolRepo) List(_ context.Context, limit, offset int) ([]*entity.School, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.School, 0, len(r.s.st.schools))
	for _, sc := range r.s.st.schools {
		sc := sc
		all = append(all, &sc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
