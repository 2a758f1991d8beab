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

var _ repository.SchoolRepository = (*SchoolRepo)(nil)

const schoolColumns = `id, name, short_name, type, status, payment_status, next_payment_due, access_blocked_at, email, phone, created_at, updated_at`

// SchoolRepo implementación de SchoolRepository (usable con pool o tx).
type SchoolRepo struct {
	q Querier
}

// NewSchoolRepository construye el adaptador.
func NewSchoolRepository(q Querier) *SchoolRepo {
	return &SchoolRepo{q: q}
}

func (r *SchoolRepo) Create(ctx context.Context, s *entity.School) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO schools (` + schoolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.ShortName, s.Type, s.Status, s.PaymentStatus, s.NextPaymentDue, s.AccessBlockedAt,
		nullIfEmpty(s.Email), nullIfEmpty(s.Phone), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("short_name %q: %w", s.ShortName, domain.ErrConflict)
		}
		return fmt.Errorf("insert school: %w", err)
	}
	return nil
}

func (r *SchoolRepo) GetByID(ctx context.Context, id string) (*entity.School, error) {
	return r.getOne(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *SchoolRepo) GetForUpdate(ctx context.Context, id string) (*entity.School, error) {
	return r.getOne(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = $1 FOR UPDATE`, id)
}

func (r *SchoolRepo) GetByShortName(ctx context.Context, shortName string) (*entity.School, error) {
	return r.getOne(ctx, `SELECT `+schoolColumns+` FROM schools WHERE short_name = $1`, shortName)
}

func (r *SchoolRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.School, error) {
	if len(ids) == 0 {
		return []*entity.School{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = ANY($1::uuid[]) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("get schools by ids: %w", err)
	}
	return collectSchools(rows)
}

func (r *SchoolRepo) Update(ctx context.Context, s *entity.School) error {
	query := `
		UPDATE schools
		SET name = $2, status = $3, payment_status = $4, next_payment_due = $5,
		    access_blocked_at = $6, email = $7, phone = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Status, s.PaymentStatus, s.NextPaymentDue,
		s.AccessBlockedAt, nullIfEmpty(s.Email), nullIfEmpty(s.Phone), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("school %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SchoolRepo) List(ctx context.Context, limit, offset int) ([]*entity.School, error) {
	rows, err := r.q.Query(ctx, `SELECT `+schoolColumns+` FROM schools ORDER BY name LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return collectSchools(rows)
}

func (r *SchoolRepo) getOne(ctx context.Context, query string, arg any) (*entity.School, error) {
	s, err := scanSchool(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return s, nil
}

func scanSchool(row pgx.Row) (*entity.School, error) {
	var s entity.School
	var email, phone *string
	err := row.Scan(
		&s.ID, &s.Name, &s.ShortName, &s.Type, &s.Status, &s.PaymentStatus, &s.NextPaymentDue,
		&s.AccessBlockedAt, &email, &phone, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Email = derefStr(email)
	s.Phone = derefStr(phone)
	return &s, nil
}

func collectSchools(rows pgx.Rows) ([]*entity.School, error) {
	defer rows.Close()
	list := make([]*entity.School, 0)
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
