package stock

import (
	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
)

// Status clasificación tri-estado de una fila de stock.
type Status string

const (
	StatusOut Status = "out"
	StatusLow Status = "low"
	StatusIn  Status = "in-stock"
)

// DefaultThreshold umbral de stock bajo cuando ni el ítem ni la configuración
// definen uno. Único punto donde vive este valor; no re-derivar en call sites.
const DefaultThreshold = 5

// Threshold resuelve el umbral efectivo del ítem: el propio si es > 0, si no
// defaultThreshold, y como último recurso DefaultThreshold.
func Threshold(item *entity.InventoryItem, defaultThreshold int) int {
	if item.LowStockThreshold > 0 {
		return item.LowStockThreshold
	}
	if defaultThreshold > 0 {
		return defaultThreshold
	}
	return DefaultThreshold
}

// Classify deriva el estado de stock. Función pura de (quantity, threshold):
//   - out:      quantity == 0
//   - low:      0 < quantity <= umbral
//   - in-stock: quantity > umbral
func Classify(item *entity.InventoryItem, defaultThreshold int) Status {
	switch {
	case item.Quantity == 0:
		return StatusOut
	case item.Quantity <= Threshold(item, defaultThreshold):
		return StatusLow
	default:
		return StatusIn
	}
}

// Adjust valida un cambio de cantidad y devuelve el siguiente estado del ítem
// con TotalCostValue recalculado. Es la única ruta sancionada para cambiar
// quantity; no persiste nada, el caller decide qué hacer con el resultado.
// Rechaza cantidades negativas con domain.ErrInvalidInput: el stock jamás se
// persiste ni se muestra negativo.
func Adjust(item *entity.InventoryItem, newQuantity int) (*entity.InventoryItem, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	next := *item
	next.Quantity = newQuantity
	next.RecomputeTotal()
	return &next, nil
}
