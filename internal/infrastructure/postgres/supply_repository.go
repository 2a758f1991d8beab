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

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

const supplyColumns = `id, school_id, name, unit, quantity_on_hand, unit_cost, created_at, updated_at`

// SupplyRepo insumos y libro de movimientos sobre PostgreSQL.
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador.
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

func (r *SupplyRepo) Create(ctx context.Context, s *entity.Supply) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO supplies (`+supplyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.SchoolID, s.Name, s.Unit, s.QuantityOnHand, s.UnitCost, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("supply %q: %w", s.Name, domain.ErrConflict)
		}
		return fmt.Errorf("insert supply: %w", err)
	}
	return nil
}

func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*entity.Supply, error) {
	return r.getOne(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1`, id)
}

// GetForUpdate bloquea el saldo hasta el fin de la transacción.
func (r *SupplyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supply, error) {
	return r.getOne(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1 FOR UPDATE`, id)
}

func (r *SupplyRepo) UpdateBalance(ctx context.Context, s *entity.Supply) error {
	_, err := r.q.Exec(ctx, `
		UPDATE supplies SET quantity_on_hand = $2, unit_cost = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.QuantityOnHand, s.UnitCost, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supply balance: %w", err)
	}
	return nil
}

func (r *SupplyRepo) ListBySchool(ctx context.Context, schoolID string) ([]*entity.Supply, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Supply, 0)
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SupplyRepo) CreateMovement(ctx context.Context, m *entity.SupplyMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO supply_movements (id, supply_id, school_id, type, quantity, unit_cost, total_cost, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.SupplyID, m.SchoolID, m.Type, m.Quantity, m.UnitCost, m.TotalCost,
		nullIfEmpty(m.Reference), nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supply movement: %w", err)
	}
	return nil
}

// ListMovements más recientes primero.
func (r *SupplyRepo) ListMovements(ctx context.Context, supplyID string, limit, offset int) ([]*entity.SupplyMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, supply_id, school_id, type, quantity, unit_cost, total_cost, reference, created_by, created_at
		FROM supply_movements WHERE supply_id = $1
		ORDER BY created_at DESC, id
		LIMIT NULLIF($2, 0) OFFSET $3`, supplyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list supply movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SupplyMovement, 0)
	for rows.Next() {
		var m entity.SupplyMovement
		var reference, createdBy *string
		if err := rows.Scan(&m.ID, &m.SupplyID, &m.SchoolID, &m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost,
			&reference, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supply movement: %w", err)
		}
		m.Reference = derefStr(reference)
		m.CreatedBy = derefStr(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *SupplyRepo) getOne(ctx context.Context, query string, arg any) (*entity.Supply, error) {
	s, err := scanSupply(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	return s, nil
}

func scanSupply(row pgx.Row) (*entity.Supply, error) {
	var s entity.Supply
	err := row.Scan(&s.ID, &s.SchoolID, &s.Name, &s.Unit, &s.QuantityOnHand, &s.UnitCost, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
