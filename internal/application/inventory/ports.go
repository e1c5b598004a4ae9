package inventory

import (
	"context"

	"github.com/tu-usuario/keystock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el par escritura-libro /
// actualización-ítem del ledger de consumo sea una unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryRepository,
		usageRepo repository.UsageRepository,
	) error) error
}
