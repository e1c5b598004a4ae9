package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
)

func newUsageFixture(items ...entity.InventoryItem) (*inventory.UsageUseCase, *fakeItemRepo, *fakeUsageRepo) {
	itemRepo := newFakeItemRepo(items...)
	usageRepo := &fakeUsageRepo{}
	tx := &fakeTxRunner{items: itemRepo, usage: usageRepo}
	return inventory.NewUsageUseCase(tx, usageRepo), itemRepo, usageRepo
}

func fobWithStock(qty int) entity.InventoryItem {
	return entity.InventoryItem{
		ID: "fob-1", SKU: "RSK-FD-FML3", Quantity: qty, LowStockThreshold: 3,
		Cost: decimal.NullDecimal{Decimal: decimal.RequireFromString("4.00"), Valid: true},
	}
}

// TestRecordUsage_DecrementaYCongelaCosto el consumo decrementa el ítem y deja
// en el ledger la instantánea de costo del momento del uso.
func TestRecordUsage_DecrementaYCongelaCosto(t *testing.T) {
	uc, itemRepo, _ := newUsageFixture(fobWithStock(5))

	ev, err := uc.RecordUsage(context.Background(), inventory.RecordUsageInput{
		InventoryID: "fob-1", JobID: "job-9", Notes: "llave para cliente", QuantityUsed: 3,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, 3, ev.QuantityUsed)
	assert.True(t, ev.UnitCostAtUse.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, ev.TotalCostAtUse.Equal(decimal.RequireFromString("12.00")),
		"total del evento = 4.00 * 3, obtuve %s", ev.TotalCostAtUse)

	item, _ := itemRepo.GetByID(context.Background(), "fob-1")
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 1, item.UsageCount)
	require.NotNil(t, item.LastUsedDate)
	assert.True(t, item.TotalCostValue.Equal(decimal.RequireFromString("8.00")),
		"el total derivado sigue a la nueva cantidad")
}

// TestRecordUsage_HastaCeroYLuegoFalla consumir el resto deja la fila en cero
// (estado "out"); un consumo adicional falla con ErrInsufficientStock y no
// escribe nada.
func TestRecordUsage_HastaCeroYLuegoFalla(t *testing.T) {
	uc, itemRepo, usageRepo := newUsageFixture(fobWithStock(5))
	ctx := context.Background()

	_, err := uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: 3})
	require.NoError(t, err)
	_, err = uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: 2})
	require.NoError(t, err)

	item, _ := itemRepo.GetByID(context.Background(), "fob-1")
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, 2, item.UsageCount)

	_, err = uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	item, _ = itemRepo.GetByID(context.Background(), "fob-1")
	assert.Equal(t, 0, item.Quantity, "la cantidad nunca baja de cero")
	assert.Equal(t, 2, usageRepo.count(), "el intento fallido no deja fila en el ledger")
}

func TestRecordUsage_Validacion(t *testing.T) {
	uc, _, usageRepo := newUsageFixture(fobWithStock(5))
	ctx := context.Background()

	_, err := uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "", QuantityUsed: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "nope", QuantityUsed: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, usageRepo.count())
}

// TestRecordUsage_Atomico si el decremento del ítem falla, la fila del ledger
// tampoco queda: evento y decremento viven o mueren juntos.
func TestRecordUsage_Atomico(t *testing.T) {
	uc, itemRepo, usageRepo := newUsageFixture(fobWithStock(5))
	boom := errors.New("fallo simulado de escritura")
	itemRepo.updateErr = boom

	_, err := uc.RecordUsage(context.Background(), inventory.RecordUsageInput{
		InventoryID: "fob-1", QuantityUsed: 1,
	})
	assert.ErrorIs(t, err, boom)

	itemRepo.updateErr = nil
	item, _ := itemRepo.GetByID(context.Background(), "fob-1")
	assert.Equal(t, 5, item.Quantity, "rollback: la cantidad no cambió")
	assert.Zero(t, usageRepo.count(), "rollback: sin fila en el ledger")
}

// TestJobMaterialCost_AisladoDeEdicionesDePrecio el costeo del trabajo suma
// las instantáneas del ledger; subir el precio del ítem después no lo altera.
func TestJobMaterialCost_AisladoDeEdicionesDePrecio(t *testing.T) {
	uc, itemRepo, _ := newUsageFixture(fobWithStock(5))
	ctx := context.Background()

	_, err := uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", JobID: "job-9", QuantityUsed: 2})
	require.NoError(t, err)

	// El precio sube a 9.00 después del consumo.
	item, _ := itemRepo.GetByID(context.Background(), "fob-1")
	item.Cost = decimal.NullDecimal{Decimal: decimal.RequireFromString("9.00"), Valid: true}
	require.NoError(t, itemRepo.Update(context.Background(), item))

	total, err := uc.JobMaterialCost(ctx, "job-9")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("8.00")),
		"el histórico queda congelado a 4.00 * 2, obtuve %s", total)
}

// TestRecordUsage_SinCosto un ítem sin costo definido registra el evento con
// costo cero en vez de fallar.
func TestRecordUsage_SinCosto(t *testing.T) {
	uc, _, _ := newUsageFixture(entity.InventoryItem{ID: "blank-1", SKU: "B", Quantity: 2})

	ev, err := uc.RecordUsage(context.Background(), inventory.RecordUsageInput{
		InventoryID: "blank-1", QuantityUsed: 1,
	})
	require.NoError(t, err)
	assert.True(t, ev.UnitCostAtUse.IsZero())
	assert.True(t, ev.TotalCostAtUse.IsZero())
}

func TestListByItem(t *testing.T) {
	uc, _, _ := newUsageFixture(fobWithStock(5))
	ctx := context.Background()

	_, err := uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: 1})
	require.NoError(t, err)
	_, err = uc.RecordUsage(ctx, inventory.RecordUsageInput{InventoryID: "fob-1", QuantityUsed: 2})
	require.NoError(t, err)

	events, err := uc.ListByItem(ctx, "fob-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = uc.ListByItem(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
