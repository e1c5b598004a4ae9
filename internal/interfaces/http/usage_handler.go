package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/keystock/internal/application/dto"
	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain"
)

// UsageHandler maneja el ledger de consumo: registrar uso contra un trabajo,
// historial por ítem y costo de materiales por trabajo.
type UsageHandler struct {
	usage *inventory.UsageUseCase
}

// NewUsageHandler construye el handler.
func NewUsageHandler(usage *inventory.UsageUseCase) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// Record godoc
// @Summary      Registrar consumo de inventario
// @Description  Inserta el evento del ledger y decrementa el ítem en la misma
//
//	transacción. El costo unitario queda congelado al momento del uso.
//
// @Tags         usage
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordUsageRequest  true  "inventory_id, quantity_used > 0, job_id y notes opcionales"
// @Success      201   {object}  dto.UsageEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usage [post]
func (h *UsageHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ev, err := h.usage.RecordUsage(c.Context(), inventory.RecordUsageInput{
		InventoryID:  in.InventoryID,
		JobID:        in.JobID,
		Notes:        in.Notes,
		QuantityUsed: in.QuantityUsed,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromUsageEvent(ev))
}

// ListByItem godoc
// @Summary      Historial de consumo de un ítem
// @Tags         usage
// @Produce      json
// @Param        id   path  string  true  "ID del ítem de inventario"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/usage [get]
func (h *UsageHandler) ListByItem(c *fiber.Ctx) error {
	events, err := h.usage.ListByItem(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.UsageEventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.FromUsageEvent(&events[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "events": out})
}

// JobMaterialCost godoc
// @Summary      Costo de materiales de un trabajo
// @Description  Suma las instantáneas total_cost_at_use del ledger; ediciones
//
//	de precio posteriores no alteran el histórico.
//
// @Tags         usage
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.JobMaterialCostResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/material-cost [get]
func (h *UsageHandler) JobMaterialCost(c *fiber.Ctx) error {
	jobID := c.Params("id")
	total, err := h.usage.JobMaterialCost(c.Context(), jobID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.JobMaterialCostResponse{JobID: jobID, MaterialCost: total})
}

func (h *UsageHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad usada debe ser positiva"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
