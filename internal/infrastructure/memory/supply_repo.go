package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

// SupplyRepo insumos y movimientos en memoria.
type SupplyRepo struct{ s *Store }

func (r *SupplyRepo) Create(_ context.Context, sp *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.supplies[sp.ID] = *sp
	return nil
}

func (r *SupplyRepo) GetByID(_ context.Context, id string) (*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.st.supplies[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supply, error) {
	return r.GetByID(ctx, id)
}

func (r *SupplyRepo) UpdateBalance(_ context.Context, sp *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.supplies[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.supplies[sp.ID] = *sp
	return nil
}

func (r *SupplyRepo) ListBySchool(_ context.Context, schoolID string) ([]*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Supply, 0)
	for _, sp := range r.s.st.supplies {
		if sp.SchoolID == schoolID {
			sp := sp
			out = append(out, &sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplyRepo) CreateMovement(_ context.Context, m *entity.SupplyMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r *SupplyRepo) ListMovements(_ context.Context, supplyID string, limit, offset int) ([]*entity.SupplyMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.SupplyMovement, 0)
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		if m := r.s.st.movements[i]; m.SupplyID == supplyID {
			all = append(all, &m)
		}
	}
	return page(all, limit, offset), nil
}
