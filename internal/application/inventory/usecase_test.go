package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/application/inventory"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/memory"
)

const (
	schoolA = "11111111-1111-1111-1111-111111111111"
	schoolB = "22222222-2222-2222-2222-222222222222"
	userID  = "99999999-0000-0000-0000-000000000001"
)

func newSupplies() *inventory.SupplyUseCase {
	store := memory.NewStore()
	return inventory.NewSupplyUseCase(store, store.Repos().Supplies)
}

func TestRecordMovement_CompraYConsumo(t *testing.T) {
	uc := newSupplies()
	ctx := context.Background()
	s, err := uc.CreateSupply(ctx, schoolA, dto.CreateSupplyRequest{Name: "Chalk", Unit: "box"})
	require.NoError(t, err)

	m, err := uc.RecordMovement(ctx, schoolA, userID, s.ID, dto.RecordMovementRequest{Type: "PURCHASE", Quantity: 10, UnitCost: 300})
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.Balance)
	assert.Equal(t, int64(3000), m.TotalCost)

	m, err = uc.RecordMovement(ctx, schoolA, userID, s.ID, dto.RecordMovementRequest{Type: "PURCHASE", Quantity: 10, UnitCost: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(20), m.Balance)

	m, err = uc.RecordMovement(ctx, schoolA, userID, s.ID, dto.RecordMovementRequest{Type: "USAGE", Quantity: 5, Reference: "JSS1"})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), m.Quantity)
	assert.Equal(t, int64(200), m.UnitCost, "consumo al costo promedio")
	assert.Equal(t, int64(15), m.Balance)

	list, err := uc.ListSupplies(ctx, schoolA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(15), list[0].QuantityOnHand)
	assert.Equal(t, int64(200), list[0].UnitCost)

	movs, err := uc.ListMovements(ctx, schoolA, s.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, "USAGE", movs[0].Type)
}

func TestRecordMovement_SaldoInsuficienteNoEscribe(t *testing.T) {
	uc := newSupplies()
	ctx := context.Background()
	s, err := uc.CreateSupply(ctx, schoolA, dto.CreateSupplyRequest{Name: "Paper", Unit: "ream"})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, schoolA, userID, s.ID, dto.RecordMovementRequest{Type: "PURCHASE", Quantity: 2, UnitCost: 50})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, schoolA, userID, s.ID, dto.RecordMovementRequest{Type: "ASSIGNMENT", Quantity: 3})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	movs, err := uc.ListMovements(ctx, schoolA, s.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRecordMovement_InsumoDeOtraEscuela(t *testing.T) {
	uc := newSupplies()
	ctx := context.Background()
	s, err := uc.CreateSupply(ctx, schoolA, dto.CreateSupplyRequest{Name: "Markers", Unit: "pack"})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, schoolB, userID, s.ID, dto.RecordMovementRequest{Type: "PURCHASE", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.ListMovements(ctx, schoolB, s.ID, dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateSupply_Validacion(t *testing.T) {
	_, err := newSupplies().CreateSupply(context.Background(), schoolA, dto.CreateSupplyRequest{UnitCost: -1})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}
