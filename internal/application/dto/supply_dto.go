package dto

import "time"

// CreateSupplyRequest alta de insumo.
type CreateSupplyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Unit     string `json:"unit" validate:"required,max=30"`
	UnitCost int64  `json:"unit_cost" validate:"min=0"`
}

// SupplyResponse insumo con saldo.
type SupplyResponse struct {
	ID             string    `json:"id"`
	SchoolID       string    `json:"school_id"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	QuantityOnHand int64     `json:"quantity_on_hand"`
	UnitCost       int64     `json:"unit_cost"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecordMovementRequest movimiento de insumo. Quantity es positiva salvo en ADJUSTMENT (con signo).
type RecordMovementRequest struct {
	Type      string `json:"type" validate:"required,oneof=PURCHASE ASSIGNMENT USAGE ADJUSTMENT"`
	Quantity  int64  `json:"quantity" validate:"required"`
	UnitCost  int64  `json:"unit_cost" validate:"min=0"`
	Reference string `json:"reference" validate:"omitempty,max=200"`
}

// SupplyMovementResponse movimiento del libro.
type SupplyMovementResponse struct {
	ID        string    `json:"id"`
	SupplyID  string    `json:"supply_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	UnitCost  int64     `json:"unit_cost"`
	TotalCost int64     `json:"total_cost"`
	Reference string    `json:"reference,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Balance   int64     `json:"balance,omitempty"`
}
