package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
	"github.com/tu-usuario/keystock/internal/domain/stock"
)

// UsageUseCase ledger de consumo: registra uso de inventario contra trabajos
// con instantánea de costo, y expone las lecturas agregadas que consume el
// dominio de trabajos.
type UsageUseCase struct {
	txRunner  TxRunner
	usageRepo repository.UsageRepository
}

// NewUsageUseCase construye el caso de uso.
func NewUsageUseCase(txRunner TxRunner, usageRepo repository.UsageRepository) *UsageUseCase {
	return &UsageUseCase{txRunner: txRunner, usageRepo: usageRepo}
}

// RecordUsageInput entrada para registrar un consumo.
type RecordUsageInput struct {
	InventoryID  string
	JobID        string // referencia opaca opcional al trabajo
	Notes        string
	QuantityUsed int
}

// RecordUsage registra el consumo como unidad atómica: inserta la fila del
// ledger y decrementa el ítem (vía stock.Adjust) en la misma transacción, con
// bloqueo de fila. Congela unitCostAtUse = costo actual (o 0) para que el
// costeo histórico del trabajo quede aislado de ediciones de precio futuras.
// Falla con ErrInvalidQuantity si quantityUsed <= 0 y con ErrInsufficientStock
// si excede la existencia; en ambos casos nada queda escrito.
func (uc *UsageUseCase) RecordUsage(ctx context.Context, in RecordUsageInput) (*entity.UsageEvent, error) {
	if in.InventoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.QuantityUsed <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var event *entity.UsageEvent
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryRepository, usageRepo repository.UsageRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, in.InventoryID)
		if err != nil {
			return err
		}
		if in.QuantityUsed > item.Quantity {
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		unitCost := item.UnitCost()
		next, err := stock.Adjust(item, item.Quantity-in.QuantityUsed)
		if err != nil {
			return err
		}
		next.UsageCount++
		next.LastUsedDate = &now
		next.UpdatedAt = now
		if err := itemRepo.Update(ctx, next); err != nil {
			return err
		}

		ev := &entity.UsageEvent{
			ID:             uuid.New().String(),
			InventoryID:    item.ID,
			JobID:          in.JobID,
			Notes:          in.Notes,
			QuantityUsed:   in.QuantityUsed,
			UnitCostAtUse:  unitCost,
			TotalCostAtUse: unitCost.Mul(decimal.NewFromInt(int64(in.QuantityUsed))),
			UsedAt:         now,
		}
		if err := usageRepo.Create(ctx, ev); err != nil {
			return err
		}
		event = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListByItem historial de consumo de un ítem.
func (uc *UsageUseCase) ListByItem(ctx context.Context, inventoryID string) ([]entity.UsageEvent, error) {
	if inventoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.usageRepo.ListByItem(ctx, inventoryID)
}

// JobMaterialCost costo de materiales agregado de un trabajo, sumando las
// instantáneas del ledger (no los precios actuales de los ítems).
func (uc *UsageUseCase) JobMaterialCost(ctx context.Context, jobID string) (decimal.Decimal, error) {
	if jobID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return uc.usageRepo.SumCostByJob(ctx, jobID)
}
