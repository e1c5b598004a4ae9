package stock

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
)

// FacetAll valor centinela de faceta sin restricción ("todas").
const FacetAll = "all"

// Valores de la faceta de rango de precio.
const (
	PriceNone   = "none"   // sin costo definido
	PriceLow    = "low"    // [0, 10)
	PriceMedium = "medium" // [10, 50)
	PriceHigh   = "high"   // [50, ∞)
)

// SortField enum cerrado de campos ordenables. Cada campo mapea a un
// comparador explícito; no hay selección de campo por string en runtime.
type SortField int

const (
	SortBySKU SortField = iota
	SortByCategory
	SortByMake
	SortBySupplier
	SortByQuantity
	SortByCost
	SortByTotalCost
	SortByUsageCount
	SortByLastUsed
)

// ParseSortField traduce el nombre externo del campo de orden al enum.
// Nombre desconocido es domain.ErrInvalidInput, no un default silencioso.
func ParseSortField(s string) (SortField, error) {
	switch s {
	case "", "sku":
		return SortBySKU, nil
	case "category":
		return SortByCategory, nil
	case "make":
		return SortByMake, nil
	case "supplier":
		return SortBySupplier, nil
	case "quantity":
		return SortByQuantity, nil
	case "cost":
		return SortByCost, nil
	case "total_cost_value":
		return SortByTotalCost, nil
	case "usage_count":
		return SortByUsageCount, nil
	case "last_used_date":
		return SortByLastUsed, nil
	}
	return 0, domain.ErrInvalidInput
}

// FilterState selecciones de facetas independientes + búsqueda libre + orden.
// Objeto de valor puro; derivado, no persistido. El centinela "all" (o vacío)
// significa sin restricción.
type FilterState struct {
	Search         string
	Category       string
	Make           string
	Supplier       string
	PriceRange     string
	StockStatus    string
	FCCID          string // subcadena
	SortField      SortField
	SortDescending bool
}

var tenDollars = decimal.NewFromInt(10)
var fiftyDollars = decimal.NewFromInt(50)

// foldTransform descompone, elimina marcas diacríticas y recompone.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold normaliza texto para búsqueda: minúsculas y sin acentos.
func fold(s string) string {
	out, _, err := transform.String(foldTransform, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Apply aplica búsqueda, facetas y orden sobre la colección en memoria.
// Puro y síncrono: seguro de re-invocar en cada pulsación sin acumular estado.
// El orden es estable; los empates se rompen por ID para que renders repetidos
// de la misma entrada nunca reordenen.
func Apply(items []entity.InventoryItem, f FilterState, defaultThreshold int) []entity.InventoryItem {
	out := make([]entity.InventoryItem, 0, len(items))
	search := fold(strings.TrimSpace(f.Search))
	fccid := fold(strings.TrimSpace(f.FCCID))
	for _, it := range items {
		if !matchesSearch(&it, search) {
			continue
		}
		if !facetMatch(f.Category, it.Category) || !facetMatch(f.Make, it.Make) || !facetMatch(f.Supplier, it.Supplier) {
			continue
		}
		if fccid != "" && !strings.Contains(fold(it.FCCID), fccid) {
			continue
		}
		if !matchesStockStatus(&it, f.StockStatus, defaultThreshold) {
			continue
		}
		if !matchesPriceRange(&it, f.PriceRange) {
			continue
		}
		out = append(out, it)
	}

	cmp := comparator(f.SortField)
	sort.SliceStable(out, func(a, b int) bool {
		c := cmp(&out[a], &out[b])
		if f.SortDescending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// facetMatch una faceta concreta es un predicado AND; "all" nunca excluye.
func facetMatch(selected, value string) bool {
	if selected == "" || selected == FacetAll {
		return true
	}
	return selected == value
}

// matchesSearch subcadena insensible a mayúsculas y acentos, OR sobre
// sku, fccId, supplier, make y category.
func matchesSearch(it *entity.InventoryItem, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range []string{it.SKU, it.FCCID, it.Supplier, it.Make, it.Category} {
		if strings.Contains(fold(field), search) {
			return true
		}
	}
	return false
}

// matchesStockStatus reutiliza Classify: el filtro y el badge jamás divergen.
func matchesStockStatus(it *entity.InventoryItem, selected string, defaultThreshold int) bool {
	if selected == "" || selected == FacetAll {
		return true
	}
	return string(Classify(it, defaultThreshold)) == selected
}

// matchesPriceRange cubetas con límite inferior inclusivo y superior
// exclusivo; la cubeta alta es abierta.
func matchesPriceRange(it *entity.InventoryItem, selected string) bool {
	switch selected {
	case "", FacetAll:
		return true
	case PriceNone:
		return !it.Cost.Valid
	case PriceLow:
		return it.Cost.Valid && it.Cost.Decimal.LessThan(tenDollars)
	case PriceMedium:
		return it.Cost.Valid && it.Cost.Decimal.GreaterThanOrEqual(tenDollars) && it.Cost.Decimal.LessThan(fiftyDollars)
	case PriceHigh:
		return it.Cost.Valid && it.Cost.Decimal.GreaterThanOrEqual(fiftyDollars)
	}
	return false
}

// comparator devuelve el comparador explícito del campo. Los campos string
// comparan con fold para que el orden ignore mayúsculas y acentos.
func comparator(field SortField) func(a, b *entity.InventoryItem) int {
	switch field {
	case SortByCategory:
		return func(a, b *entity.InventoryItem) int { return strings.Compare(fold(a.Category), fold(b.Category)) }
	case SortByMake:
		return func(a, b *entity.InventoryItem) int { return strings.Compare(fold(a.Make), fold(b.Make)) }
	case SortBySupplier:
		return func(a, b *entity.InventoryItem) int { return strings.Compare(fold(a.Supplier), fold(b.Supplier)) }
	case SortByQuantity:
		return func(a, b *entity.InventoryItem) int { return a.Quantity - b.Quantity }
	case SortByCost:
		return func(a, b *entity.InventoryItem) int { return a.UnitCost().Cmp(b.UnitCost()) }
	case SortByTotalCost:
		return func(a, b *entity.InventoryItem) int { return a.TotalCostValue.Cmp(b.TotalCostValue) }
	case SortByUsageCount:
		return func(a, b *entity.InventoryItem) int { return a.UsageCount - b.UsageCount }
	case SortByLastUsed:
		return func(a, b *entity.InventoryItem) int { return compareLastUsed(a, b) }
	default:
		return func(a, b *entity.InventoryItem) int { return strings.Compare(fold(a.SKU), fold(b.SKU)) }
	}
}

// compareLastUsed ítems sin uso van primero en orden ascendente.
func compareLastUsed(a, b *entity.InventoryItem) int {
	switch {
	case a.LastUsedDate == nil && b.LastUsedDate == nil:
		return 0
	case a.LastUsedDate == nil:
		return -1
	case b.LastUsedDate == nil:
		return 1
	case a.LastUsedDate.Before(*b.LastUsedDate):
		return -1
	case a.LastUsedDate.After(*b.LastUsedDate):
		return 1
	}
	return 0
}

// FacetValues conjuntos de valores de faceta derivados de la colección viva
// sin filtrar. Se recalculan en cada cambio de la colección: una lista de
// facetas obsoleta tras un borrado es un defecto.
type FacetValues struct {
	Categories []string
	Makes      []string
	Suppliers  []string
}

// Facets deriva los valores distintos (ordenados) de las facetas ofrecidas.
func Facets(items []entity.InventoryItem) FacetValues {
	return FacetValues{
		Categories: distinct(items, func(i *entity.InventoryItem) string { return i.Category }),
		Makes:      distinct(items, func(i *entity.InventoryItem) string { return i.Make }),
		Suppliers:  distinct(items, func(i *entity.InventoryItem) string { return i.Supplier }),
	}
}

func distinct(items []entity.InventoryItem, get func(*entity.InventoryItem) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		v := get(&it)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
