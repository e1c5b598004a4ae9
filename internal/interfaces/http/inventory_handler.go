package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/keystock/internal/application/dto"
	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/stock"
)

// InventoryHandler maneja las peticiones HTTP del inventario: listado filtrado
// sobre la colección local, facetas, CRUD y ajuste de cantidad.
type InventoryHandler struct {
	items *inventory.ItemUseCase
	rec   *inventory.Reconciler
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items *inventory.ItemUseCase, rec *inventory.Reconciler) *InventoryHandler {
	return &InventoryHandler{items: items, rec: rec}
}

// List godoc
// @Summary      Listar inventario filtrado y ordenado
// @Description  Aplica búsqueda libre, facetas (category, make, supplier,
//
//	price_range, stock_status, fcc_id) y orden sobre la colección local
//	mantenida por el feed de cambios. Incluye el estado de la suscripción.
//
// @Tags         inventory
// @Produce      json
// @Param        search        query  string  false  "Búsqueda libre (sku, fcc_id, supplier, make, category)"
// @Param        category      query  string  false  "Faceta de categoría ('all' = sin restricción)"
// @Param        make          query  string  false  "Faceta de marca"
// @Param        supplier      query  string  false  "Faceta de proveedor"
// @Param        price_range   query  string  false  "none | low | medium | high | all"
// @Param        stock_status  query  string  false  "out | low | in-stock | all"
// @Param        fcc_id        query  string  false  "Subcadena de FCC ID"
// @Param        sort          query  string  false  "sku | category | make | supplier | quantity | cost | total_cost_value | usage_count | last_used_date"
// @Param        order         query  string  false  "asc (default) | desc"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	sortField, err := stock.ParseSortField(c.Query("sort"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo de orden desconocido"})
	}
	f := stock.FilterState{
		Search:         c.Query("search"),
		Category:       c.Query("category"),
		Make:           c.Query("make"),
		Supplier:       c.Query("supplier"),
		PriceRange:     c.Query("price_range"),
		StockStatus:    c.Query("stock_status"),
		FCCID:          c.Query("fcc_id"),
		SortField:      sortField,
		SortDescending: c.Query("order") == "desc",
	}

	filtered := stock.Apply(h.rec.Snapshot(), f, h.items.DefaultThreshold())
	out := make([]dto.ItemResponse, 0, len(filtered))
	for i := range filtered {
		out = append(out, dto.FromEntity(&filtered[i], h.items.Status(&filtered[i])))
	}
	return c.JSON(fiber.Map{
		"total":              len(out),
		"items":              out,
		"subscription_state": h.rec.State().String(),
	})
}

// Facets godoc
// @Summary      Valores de facetas del inventario
// @Description  Valores distintos de category, make y supplier derivados de la
//
//	colección completa sin filtrar.
//
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.FacetsResponse
// @Router       /api/inventory/facets [get]
func (h *InventoryHandler) Facets(c *fiber.Ctx) error {
	fv := stock.Facets(h.rec.Snapshot())
	return c.JSON(dto.FacetsResponse{
		Categories: fv.Categories,
		Makes:      fv.Makes,
		Suppliers:  fv.Suppliers,
	})
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "sku (único), category, make, module, supplier, fcc_id, quantity, cost, low_stock_threshold, year_from, year_to"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item := in.ToEntity()
	if err := h.items.Create(c.Context(), item); err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromEntity(item, h.items.Status(item)))
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.items.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromEntity(item, h.items.Status(item)))
}

// Update godoc
// @Summary      Editar ítem de inventario
// @Description  Reemplaza los campos editables. La cantidad se cambia por el
//
//	endpoint de ajuste, no por aquí.
//
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del ítem"
// @Param        body  body  dto.ItemRequest  true  "campos editables"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	current, err := h.items.GetByID(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item := in.ToEntity()
	item.ID = id
	item.Quantity = current.Quantity
	item.UsageCount = current.UsageCount
	item.LastUsedDate = current.LastUsedDate
	item.CreatedAt = current.CreatedAt
	if err := h.items.Update(c.Context(), item); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromEntity(item, h.items.Status(item)))
}

// Delete godoc
// @Summary      Eliminar ítem de inventario
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.items.Delete(c.Context(), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ítem eliminado"})
}

// Adjust godoc
// @Summary      Ajustar cantidad absoluta de un ítem
// @Description  Fija quantity al valor dado dentro de una transacción con
//
//	bloqueo de fila. Cantidad negativa se rechaza.
//
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del ítem"
// @Param        body  body  dto.AdjustQuantityRequest  true  "quantity >= 0"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.items.AdjustQuantity(c.Context(), c.Params("id"), in.Quantity)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromEntity(item, h.items.Status(item)))
}

// mapError traduce los centinelas de dominio a estados HTTP.
func (h *InventoryHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_SKU", Message: "el SKU ya existe"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
