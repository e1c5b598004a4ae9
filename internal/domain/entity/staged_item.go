package entity

import "github.com/shopspring/decimal"

// StagedItem es un candidato de inventario parseado desde un listado CSV de
// proveedor, pendiente de revisión. Nada se persiste hasta el commit
// explícito, que reutiliza la ruta ordinaria de creación.
type StagedItem struct {
	Line     int // fila 1-based del archivo fuente, para la revisión
	SKU      string
	Name     string // clave descriptiva normalizada: "{make} {years} {buttons} {category}"
	RawName  string // texto original del proveedor
	Category string
	Make     string
	Buttons  string // ej. "5-Button"; vacío si no aparece
	YearFrom int
	YearTo   int
	Quantity int
	Cost     decimal.NullDecimal
	Supplier string
}
