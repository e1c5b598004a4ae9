package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageEvent registra consumo de inventario contra un trabajo (opcional).
// UnitCostAtUse y TotalCostAtUse son instantáneas del costo al momento del
// uso: ediciones posteriores del precio del ítem no alteran el costeo
// histórico del trabajo. Inmutable una vez creado.
type UsageEvent struct {
	ID             string
	InventoryID    string
	JobID          string // referencia opaca al dominio de trabajos; vacío = sin trabajo
	Notes          string
	QuantityUsed   int
	UnitCostAtUse  decimal.Decimal
	TotalCostAtUse decimal.Decimal
	UsedAt         time.Time
}
