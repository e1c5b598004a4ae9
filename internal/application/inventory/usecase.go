package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
	"github.com/tu-usuario/keystock/internal/domain/stock"
)

// ItemUseCase comandos sobre filas de stock: crear, editar, borrar y ajustar
// cantidad. La validación local ocurre antes de tocar el almacén; los errores
// del almacén (ErrDuplicate, ErrNotFound) suben sin aplanar.
type ItemUseCase struct {
	txRunner         TxRunner
	itemRepo         repository.InventoryRepository
	defaultThreshold int
}

// NewItemUseCase construye el caso de uso. defaultThreshold es el umbral de
// stock bajo configurado (0 = stock.DefaultThreshold).
func NewItemUseCase(txRunner TxRunner, itemRepo repository.InventoryRepository, defaultThreshold int) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, defaultThreshold: defaultThreshold}
}

// DefaultThreshold umbral configurado que usan clasificación y filtros.
func (uc *ItemUseCase) DefaultThreshold() int {
	if uc.defaultThreshold > 0 {
		return uc.defaultThreshold
	}
	return stock.DefaultThreshold
}

// Status deriva la clasificación tri-estado del ítem con el umbral configurado.
func (uc *ItemUseCase) Status(item *entity.InventoryItem) stock.Status {
	return stock.Classify(item, uc.defaultThreshold)
}

// validate reglas de entrada comunes a Create y Update.
func validate(item *entity.InventoryItem) error {
	if strings.TrimSpace(item.SKU) == "" {
		return domain.ErrInvalidInput
	}
	if item.Quantity < 0 || item.LowStockThreshold < 0 {
		return domain.ErrInvalidInput
	}
	if item.Cost.Valid && item.Cost.Decimal.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if item.YearFrom != 0 && item.YearTo != 0 && item.YearFrom > item.YearTo {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create valida y persiste un ítem nuevo. Asigna ID inmutable y recalcula el
// total derivado. Un SKU duplicado sube como domain.ErrDuplicate.
func (uc *ItemUseCase) Create(ctx context.Context, item *entity.InventoryItem) error {
	if err := validate(item); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.RecomputeTotal()
	return uc.itemRepo.Create(ctx, item)
}

// GetByID obtiene un ítem por ID desde el almacén.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.itemRepo.GetByID(ctx, id)
}

// Update valida y reemplaza los campos editables del ítem. El ID no cambia;
// quantity se edita solo por AdjustQuantity o RecordUsage.
func (uc *ItemUseCase) Update(ctx context.Context, item *entity.InventoryItem) error {
	if item.ID == "" {
		return domain.ErrInvalidInput
	}
	if err := validate(item); err != nil {
		return err
	}
	item.UpdatedAt = time.Now()
	item.RecomputeTotal()
	return uc.itemRepo.Update(ctx, item)
}

// Delete elimina el ítem de forma definitiva (sin soft-delete).
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.itemRepo.Delete(ctx, id)
}

// AdjustQuantity fija la cantidad del ítem a newQuantity dentro de una
// transacción con bloqueo de fila, para que dos decrementos concurrentes se
// serialicen en el almacén en vez de pisarse (ver DESIGN.md). La cantidad
// negativa se rechaza antes de abrir la transacción: la validación local
// nunca llega al almacén.
func (uc *ItemUseCase) AdjustQuantity(ctx context.Context, id string, newQuantity int) (*entity.InventoryItem, error) {
	if id == "" || newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(itemRepo repository.InventoryRepository, _ repository.UsageRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next, err := stock.Adjust(item, newQuantity)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now()
		if err := itemRepo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
