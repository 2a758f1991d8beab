package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// WeightedUnitCost costo promedio ponderado en kobo, redondeado al kobo más cercano.
// NuevoCosto = ((SaldoActual * CostoActual) + (CantEntrada * CostoEntrada)) / (SaldoActual + CantEntrada)
func WeightedUnitCost(onHand, currentCost, inQty, inCost int64) int64 {
	if onHand < 0 {
		onHand = 0
	}
	sum := decimal.NewFromInt(onHand).Add(decimal.NewFromInt(inQty))
	if sum.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	num := decimal.NewFromInt(onHand).Mul(decimal.NewFromInt(currentCost)).
		Add(decimal.NewFromInt(inQty).Mul(decimal.NewFromInt(inCost)))
	return num.Div(sum).Round(0).IntPart()
}

// SignedQuantity convierte la cantidad pedida en delta de saldo según el tipo de movimiento.
// PURCHASE suma, ASSIGNMENT y USAGE restan (cantidad positiva), ADJUSTMENT usa el signo recibido.
func SignedQuantity(movementType string, qty int64) (int64, error) {
	switch movementType {
	case entity.SupplyMovementPurchase:
		if qty <= 0 {
			return 0, domain.FieldInvalid("quantity", "must be greater than 0")
		}
		return qty, nil
	case entity.SupplyMovementAssignment, entity.SupplyMovementUsage:
		if qty <= 0 {
			return 0, domain.FieldInvalid("quantity", "must be greater than 0")
		}
		return -qty, nil
	case entity.SupplyMovementAdjustment:
		if qty == 0 {
			return 0, domain.FieldInvalid("quantity", "must not be 0")
		}
		return qty, nil
	default:
		return 0, domain.FieldInvalid("type", fmt.Sprintf("unknown movement type %q", movementType))
	}
}

// ApplyMovement aplica delta al saldo; un saldo negativo devuelve ErrInsufficientStock.
// En PURCHASE recalcula el costo promedio con unitCost.
func ApplyMovement(s *entity.Supply, movementType string, delta, unitCost int64) error {
	next := s.QuantityOnHand + delta
	if next < 0 {
		return fmt.Errorf("%s has %d %s, requested %d: %w", s.Name, s.QuantityOnHand, s.Unit, -delta, domain.ErrInsufficientStock)
	}
	if movementType == entity.SupplyMovementPurchase {
		s.UnitCost = WeightedUnitCost(s.QuantityOnHand, s.UnitCost, delta, unitCost)
	}
	s.QuantityOnHand = next
	return nil
}
