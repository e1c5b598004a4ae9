package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa una fila de stock de cerrajería (llaves, controles,
// hardware). El almacén remoto es la fuente de verdad; la colección local es
// una caché mantenida por el reconciliador.
// TotalCostValue es derivado (cost * quantity) y se recalcula en cada cambio
// de cantidad o costo; nunca es fuente de verdad independiente.
type InventoryItem struct {
	ID                string
	SKU               string // etiqueta visible; índice único en el almacén, no se asume única en memoria
	Category          string
	Make              string
	Module            string
	Supplier          string
	FCCID             string
	Quantity          int // invariante: nunca negativa
	Cost              decimal.NullDecimal
	TotalCostValue    decimal.Decimal
	LowStockThreshold int // 0 = usar el umbral por defecto configurado
	YearFrom          int // 0 = sin dato
	YearTo            int
	UsageCount        int
	LastUsedDate      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UnitCost devuelve el costo unitario o cero si no está definido.
func (i *InventoryItem) UnitCost() decimal.Decimal {
	if i.Cost.Valid {
		return i.Cost.Decimal
	}
	return decimal.Zero
}

// RecomputeTotal recalcula TotalCostValue a partir de cost y quantity.
func (i *InventoryItem) RecomputeTotal() {
	i.TotalCostValue = i.UnitCost().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
