package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/domain/entity"
)

// UsageRepository define el puerto de persistencia para el libro de consumo.
// Los eventos son inmutables: solo inserción y lectura.
type UsageRepository interface {
	Create(ctx context.Context, ev *entity.UsageEvent) error
	ListByItem(ctx context.Context, inventoryID string) ([]entity.UsageEvent, error)
	ListByJob(ctx context.Context, jobID string) ([]entity.UsageEvent, error)
	// SumCostByJob agrega el costo instantáneo de materiales de un trabajo.
	SumCostByJob(ctx context.Context, jobID string) (decimal.Decimal, error)
}
