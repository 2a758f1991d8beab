package school

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/access"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

// SchoolUseCase alta y administración de escuelas (tenants).
type SchoolUseCase struct {
	txRunner repository.TxRunner
	schools  repository.SchoolRepository
	features repository.FeatureRepository
	gate     access.Gate
	now      func() time.Time
}

// NewSchoolUseCase construye el caso de uso.
func NewSchoolUseCase(txRunner repository.TxRunner, schools repository.SchoolRepository, features repository.FeatureRepository, gate access.Gate) *SchoolUseCase {
	return &SchoolUseCase{txRunner: txRunner, schools: schools, features: features, gate: gate, now: func() time.Time { return time.Now().UTC() }}
}

// CreateSchool crea la escuela y habilita la selección inicial de funcionalidades en la misma transacción.
func (uc *SchoolUseCase) CreateSchool(ctx context.Context, in dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	shortName := strings.ToLower(strings.TrimSpace(in.ShortName))
	verr := domain.NewValidationError("invalid school")
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "name is required")
	}
	if !entity.IsValidShortName(shortName) {
		verr.Add("short_name", "short_name must match ^[a-z0-9-]+$")
	}
	if in.Type != entity.SchoolTypeK12 && in.Type != entity.SchoolTypeNigerian {
		verr.Add("type", "type must be K12 or NIGERIAN")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	existing, err := uc.schools.GetByShortName(ctx, shortName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("short_name %q: %w", shortName, domain.ErrConflict)
	}
	featureIDs := unique(in.FeatureIDs)
	if len(featureIDs) > 0 {
		found, err := uc.features.GetByIDs(ctx, featureIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(featureIDs) {
			return nil, domain.FieldInvalid("feature_ids", "one or more features do not exist")
		}
	}

	now := uc.now()
	s := &entity.School{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(in.Name),
		ShortName:      shortName,
		Type:           in.Type,
		Status:         entity.SchoolStatusActive,
		PaymentStatus:  entity.PaymentStatusPending,
		NextPaymentDue: in.NextPaymentDue,
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Schools.Create(ctx, s); err != nil {
			return err
		}
		for _, fid := range featureIDs {
			if _, err := r.Entitlements.Upsert(ctx, s.ID, fid, true); err != nil {
				return fmt.Errorf("enable feature %s: %w", fid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToSchoolResponse(s), nil
}

// GetSchool obtiene una escuela por ID.
func (uc *SchoolUseCase) GetSchool(ctx context.Context, id string) (*dto.SchoolResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSchoolResponse(s), nil
}

// ListSchools lista escuelas paginadas por nombre.
func (uc *SchoolUseCase) ListSchools(ctx context.Context, page dto.PageRequest) ([]*dto.SchoolResponse, error) {
	page.DefaultPage()
	list, err := uc.schools.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SchoolResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSchoolResponse(s))
	}
	return out, nil
}

// DisableSchool baja lógica: la escuela queda sin acceso pero conserva datos y facturas.
func (uc *SchoolUseCase) DisableSchool(ctx context.Context, id string) (*dto.SchoolResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Status == entity.SchoolStatusDisabled {
		return ToSchoolResponse(s), nil
	}
	s.Status = entity.SchoolStatusDisabled
	s.UpdatedAt = uc.now()
	if err := uc.schools.Update(ctx, s); err != nil {
		return nil, err
	}
	return ToSchoolResponse(s), nil
}

// SetPaymentStatus cambio manual del estado de pago aplicando la regla de access_blocked_at.
func (uc *SchoolUseCase) SetPaymentStatus(ctx context.Context, id string, in dto.SetPaymentStatusRequest) (*dto.SchoolResponse, error) {
	switch in.PaymentStatus {
	case entity.PaymentStatusPending, entity.PaymentStatusPaid, entity.PaymentStatusUnpaid:
	default:
		return nil, domain.FieldInvalid("payment_status", "payment_status must be PENDING, PAID or UNPAID")
	}
	var out *entity.School
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		s, err := r.Schools.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("school %s: %w", id, domain.ErrNotFound)
		}
		s.ApplyPaymentStatus(in.PaymentStatus, uc.now())
		if in.NextPaymentDue != nil {
			s.NextPaymentDue = in.NextPaymentDue
		}
		out = s
		return r.Schools.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return ToSchoolResponse(out), nil
}

// CheckAccess evalúa el control de acceso de la escuela en este instante.
func (uc *SchoolUseCase) CheckAccess(ctx context.Context, id string) (*dto.AccessResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := uc.gate.EvaluateSchool(s, uc.now())
	return &dto.AccessResponse{
		SchoolID:      s.ID,
		PaymentStatus: s.PaymentStatus,
		Allowed:       d.Allowed,
		Reason:        d.Reason,
		DaysOverdue:   d.DaysOverdue,
		GraceDays:     d.GraceDays,
	}, nil
}

// SetClock reemplaza el reloj (tests).
func (uc *SchoolUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

func (uc *SchoolUseCase) get(ctx context.Context, id string) (*entity.School, error) {
	s, err := uc.schools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("school %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// ToSchoolResponse mapea la entidad al DTO de salida.
func ToSchoolResponse(s *entity.School) *dto.SchoolResponse {
	return &dto.SchoolResponse{
		ID:              s.ID,
		Name:            s.Name,
		ShortName:       s.ShortName,
		Type:            s.Type,
		Status:          s.Status,
		PaymentStatus:   s.PaymentStatus,
		NextPaymentDue:  s.NextPaymentDue,
		AccessBlockedAt: s.AccessBlockedAt,
		Email:           s.Email,
		Phone:           s.Phone,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
