package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/stock"
)

// ItemRequest cuerpo de creación/edición de un ítem de inventario.
type ItemRequest struct {
	SKU               string           `json:"sku"`
	Category          string           `json:"category"`
	Make              string           `json:"make"`
	Module            string           `json:"module"`
	Supplier          string           `json:"supplier"`
	FCCID             string           `json:"fcc_id"`
	Quantity          int              `json:"quantity"`
	Cost              *decimal.Decimal `json:"cost"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	YearFrom          int              `json:"year_from"`
	YearTo            int              `json:"year_to"`
}

// ToEntity mapea el request a la entidad (sin ID: lo asigna el caso de uso).
func (r *ItemRequest) ToEntity() *entity.InventoryItem {
	item := &entity.InventoryItem{
		SKU:               r.SKU,
		Category:          r.Category,
		Make:              r.Make,
		Module:            r.Module,
		Supplier:          r.Supplier,
		FCCID:             r.FCCID,
		Quantity:          r.Quantity,
		LowStockThreshold: r.LowStockThreshold,
		YearFrom:          r.YearFrom,
		YearTo:            r.YearTo,
	}
	if r.Cost != nil {
		item.Cost = decimal.NullDecimal{Decimal: *r.Cost, Valid: true}
	}
	return item
}

// ItemResponse ítem con su estado derivado (badge y filtro usan la misma
// clasificación, nunca divergen).
type ItemResponse struct {
	ID                string           `json:"id"`
	SKU               string           `json:"sku"`
	Category          string           `json:"category,omitempty"`
	Make              string           `json:"make,omitempty"`
	Module            string           `json:"module,omitempty"`
	Supplier          string           `json:"supplier,omitempty"`
	FCCID             string           `json:"fcc_id,omitempty"`
	Quantity          int              `json:"quantity"`
	Cost              *decimal.Decimal `json:"cost,omitempty"`
	TotalCostValue    decimal.Decimal  `json:"total_cost_value"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	YearFrom          int              `json:"year_from,omitempty"`
	YearTo            int              `json:"year_to,omitempty"`
	UsageCount        int              `json:"usage_count"`
	LastUsedDate      *time.Time       `json:"last_used_date,omitempty"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// FromEntity construye la respuesta con el estado ya clasificado.
func FromEntity(it *entity.InventoryItem, status stock.Status) ItemResponse {
	resp := ItemResponse{
		ID:                it.ID,
		SKU:               it.SKU,
		Category:          it.Category,
		Make:              it.Make,
		Module:            it.Module,
		Supplier:          it.Supplier,
		FCCID:             it.FCCID,
		Quantity:          it.Quantity,
		TotalCostValue:    it.TotalCostValue,
		LowStockThreshold: it.LowStockThreshold,
		YearFrom:          it.YearFrom,
		YearTo:            it.YearTo,
		UsageCount:        it.UsageCount,
		LastUsedDate:      it.LastUsedDate,
		Status:            string(status),
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
	if it.Cost.Valid {
		c := it.Cost.Decimal
		resp.Cost = &c
	}
	return resp
}

// AdjustQuantityRequest fija la cantidad absoluta del ítem.
type AdjustQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// RecordUsageRequest registra consumo contra un trabajo opcional.
type RecordUsageRequest struct {
	InventoryID  string `json:"inventory_id"`
	JobID        string `json:"job_id"`
	Notes        string `json:"notes"`
	QuantityUsed int    `json:"quantity_used"`
}

// UsageEventResponse evento inmutable del ledger.
type UsageEventResponse struct {
	ID             string          `json:"id"`
	InventoryID    string          `json:"inventory_id"`
	JobID          string          `json:"job_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	QuantityUsed   int             `json:"quantity_used"`
	UnitCostAtUse  decimal.Decimal `json:"unit_cost_at_use"`
	TotalCostAtUse decimal.Decimal `json:"total_cost_at_use"`
	UsedAt         time.Time       `json:"used_at"`
}

// FromUsageEvent mapea el evento a la respuesta.
func FromUsageEvent(ev *entity.UsageEvent) UsageEventResponse {
	return UsageEventResponse{
		ID:             ev.ID,
		InventoryID:    ev.InventoryID,
		JobID:          ev.JobID,
		Notes:          ev.Notes,
		QuantityUsed:   ev.QuantityUsed,
		UnitCostAtUse:  ev.UnitCostAtUse,
		TotalCostAtUse: ev.TotalCostAtUse,
		UsedAt:         ev.UsedAt,
	}
}

// ParseCSVRequest texto pegado del listado del proveedor.
type ParseCSVRequest struct {
	Text string `json:"text"`
}

// StagedItemDTO fila staged: respuesta de parse y entrada de commit (el
// operador puede editar entre ambos pasos).
type StagedItemDTO struct {
	Line     int              `json:"line"`
	SKU      string           `json:"sku"`
	Name     string           `json:"name"`
	RawName  string           `json:"raw_name"`
	Category string           `json:"category"`
	Make     string           `json:"make"`
	Buttons  string           `json:"buttons,omitempty"`
	YearFrom int              `json:"year_from,omitempty"`
	YearTo   int              `json:"year_to,omitempty"`
	Quantity int              `json:"quantity"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Supplier string           `json:"supplier"`
}

// FromStaged mapea la fila staged a su DTO.
func FromStaged(s *entity.StagedItem) StagedItemDTO {
	d := StagedItemDTO{
		Line:     s.Line,
		SKU:      s.SKU,
		Name:     s.Name,
		RawName:  s.RawName,
		Category: s.Category,
		Make:     s.Make,
		Buttons:  s.Buttons,
		YearFrom: s.YearFrom,
		YearTo:   s.YearTo,
		Quantity: s.Quantity,
		Supplier: s.Supplier,
	}
	if s.Cost.Valid {
		c := s.Cost.Decimal
		d.Cost = &c
	}
	return d
}

// ToStaged mapea el DTO de vuelta a la fila staged para el commit.
func (d *StagedItemDTO) ToStaged() entity.StagedItem {
	s := entity.StagedItem{
		Line:     d.Line,
		SKU:      d.SKU,
		Name:     d.Name,
		RawName:  d.RawName,
		Category: d.Category,
		Make:     d.Make,
		Buttons:  d.Buttons,
		YearFrom: d.YearFrom,
		YearTo:   d.YearTo,
		Quantity: d.Quantity,
		Supplier: d.Supplier,
	}
	if d.Cost != nil {
		s.Cost = decimal.NullDecimal{Decimal: *d.Cost, Valid: true}
	}
	return s
}

// CommitStagedRequest lote staged (posiblemente editado) a persistir.
type CommitStagedRequest struct {
	Items []StagedItemDTO `json:"items"`
}

// CommitResultDTO resultado por fila del commit.
type CommitResultDTO struct {
	Line  int    `json:"line"`
	SKU   string `json:"sku"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// FromCommitResult mapea el resultado de una fila.
func FromCommitResult(r *inventory.CommitResult) CommitResultDTO {
	d := CommitResultDTO{Line: r.Line, SKU: r.SKU, ID: r.ID}
	if r.Error != nil {
		d.Error = r.Error.Error()
	}
	return d
}

// FacetsResponse valores distintos de las facetas, derivados de la colección
// viva sin filtrar.
type FacetsResponse struct {
	Categories []string `json:"categories"`
	Makes      []string `json:"makes"`
	Suppliers  []string `json:"suppliers"`
}

// JobMaterialCostResponse costo de materiales agregado de un trabajo.
type JobMaterialCostResponse struct {
	JobID        string          `json:"job_id"`
	MaterialCost decimal.Decimal `json:"material_cost"`
}
