package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	domaininventory "github.com/jhoicas/schoolhub-api/internal/domain/inventory"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

// SupplyUseCase insumos de la escuela: alta, listado y libro de movimientos.
type SupplyUseCase struct {
	txRunner repository.TxRunner
	supplies repository.SupplyRepository
	now      func() time.Time
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(txRunner repository.TxRunner, supplies repository.SupplyRepository) *SupplyUseCase {
	return &SupplyUseCase{txRunner: txRunner, supplies: supplies, now: time.Now}
}

// CreateSupply crea un insumo con saldo cero.
func (uc *SupplyUseCase) CreateSupply(ctx context.Context, schoolID string, in dto.CreateSupplyRequest) (*dto.SupplyResponse, error) {
	verr := domain.NewValidationError("invalid supply")
	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add("name", "name is required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		verr.Add("unit", "unit is required")
	}
	if in.UnitCost < 0 {
		verr.Add("unit_cost", "must be greater than or equal to 0")
	}
	if verr.HasErrors() {
		return nil, verr
	}
	now := uc.now()
	s := &entity.Supply{
		ID:        uuid.New().String(),
		SchoolID:  schoolID,
		Name:      name,
		Unit:      strings.TrimSpace(in.Unit),
		UnitCost:  in.UnitCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplies.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplyResponse(s), nil
}

// ListSupplies lista los insumos de la escuela.
func (uc *SupplyUseCase) ListSupplies(ctx context.Context, schoolID string) ([]*dto.SupplyResponse, error) {
	list, err := uc.supplies.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplyResponse(s))
	}
	return out, nil
}

// RecordMovement inicia una transacción, bloquea la fila del insumo (SELECT FOR UPDATE), aplica
// el delta según el tipo y guarda el movimiento. Un saldo negativo hace rollback con ErrInsufficientStock.
func (uc *SupplyUseCase) RecordMovement(ctx context.Context, schoolID, userID, supplyID string, in dto.RecordMovementRequest) (*dto.SupplyMovementResponse, error) {
	delta, err := domaininventory.SignedQuantity(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.UnitCost < 0 {
		return nil, domain.FieldInvalid("unit_cost", "must be greater than or equal to 0")
	}
	if err := uc.ownedSupply(ctx, schoolID, supplyID); err != nil {
		return nil, err
	}

	var mov *entity.SupplyMovement
	var balance int64
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		s, err := r.Supplies.GetForUpdate(ctx, supplyID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		unitCost := s.UnitCost
		if in.Type == entity.SupplyMovementPurchase {
			unitCost = in.UnitCost
		}
		if err := domaininventory.ApplyMovement(s, in.Type, delta, unitCost); err != nil {
			return err
		}
		now := uc.now()
		s.UpdatedAt = now
		if err := r.Supplies.UpdateBalance(ctx, s); err != nil {
			return err
		}
		mov = &entity.SupplyMovement{
			ID:        uuid.New().String(),
			SupplyID:  s.ID,
			SchoolID:  s.SchoolID,
			Type:      in.Type,
			Quantity:  delta,
			UnitCost:  unitCost,
			TotalCost: delta * unitCost,
			Reference: strings.TrimSpace(in.Reference),
			CreatedBy: userID,
			CreatedAt: now,
		}
		balance = s.QuantityOnHand
		return r.Supplies.CreateMovement(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	res := toMovementResponse(mov)
	res.Balance = balance
	return res, nil
}

// ListMovements devuelve el libro de movimientos del insumo, del más reciente al más antiguo.
func (uc *SupplyUseCase) ListMovements(ctx context.Context, schoolID, supplyID string, page dto.PageRequest) ([]*dto.SupplyMovementResponse, error) {
	if err := uc.ownedSupply(ctx, schoolID, supplyID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.supplies.ListMovements(ctx, supplyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplyMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// ownedSupply un insumo de otra escuela se reporta como inexistente.
func (uc *SupplyUseCase) ownedSupply(ctx context.Context, schoolID, supplyID string) error {
	s, err := uc.supplies.GetByID(ctx, supplyID)
	if err != nil {
		return err
	}
	if s == nil || s.SchoolID != schoolID {
		return fmt.Errorf("supply %s: %w", supplyID, domain.ErrNotFound)
	}
	return nil
}

func toSupplyResponse(s *entity.Supply) *dto.SupplyResponse {
	return &dto.SupplyResponse{
		ID:             s.ID,
		SchoolID:       s.SchoolID,
		Name:           s.Name,
		Unit:           s.Unit,
		QuantityOnHand: s.QuantityOnHand,
		UnitCost:       s.UnitCost,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toMovementResponse(m *entity.SupplyMovement) *dto.SupplyMovementResponse {
	return &dto.SupplyMovementResponse{
		ID:        m.ID,
		SupplyID:  m.SupplyID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		TotalCost: m.TotalCost,
		Reference: m.Reference,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}
