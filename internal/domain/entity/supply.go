package entity

import "time"

// Tipos de movimiento de insumos.
const (
	SupplyMovementPurchase   = "PURCHASE"   // compra: suma al saldo
	SupplyMovementAssignment = "ASSIGNMENT" // entrega a un aula/personal: resta
	SupplyMovementUsage      = "USAGE"      // consumo: resta
	SupplyMovementAdjustment = "ADJUSTMENT" // ajuste de conteo: suma o resta
)

// Supply insumo consumible de una escuela con su saldo disponible.
// UnitCost es costo promedio ponderado en kobo, recalculado en cada compra.
type Supply struct {
	ID             string
	SchoolID       string
	Name           string
	Unit           string
	QuantityOnHand int64
	UnitCost       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SupplyMovement fila del libro de movimientos; Quantity con signo (positivo entra, negativo sale).
type SupplyMovement struct {
	ID        string
	SupplyID  string
	SchoolID  string
	Type      string
	Quantity  int64
	UnitCost  int64
	TotalCost int64
	Reference string
	CreatedBy string
	CreatedAt time.Time
}
