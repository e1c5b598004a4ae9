package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/keystock/internal/application/dto"
	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain/entity"
)

// ImportHandler maneja la importación masiva en dos pasos: parse (sin efectos)
// y commit explícito del lote revisado.
type ImportHandler struct {
	imp *inventory.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(imp *inventory.ImportUseCase) *ImportHandler {
	return &ImportHandler{imp: imp}
}

// Parse godoc
// @Summary      Parsear CSV de proveedor a lista staged
// @Description  Normaliza el texto pegado (marca, años, botones, SKU sintético
//
//	si falta el del proveedor) sin persistir nada. El operador revisa y
//	edita la lista antes del commit.
//
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ParseCSVRequest  true  "texto CSV pegado"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/parse [post]
func (h *ImportHandler) Parse(c *fiber.Ctx) error {
	var in dto.ParseCSVRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	staged, err := h.imp.ParseCSV(in.Text)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PARSE_ERROR", Message: err.Error()})
	}
	out := make([]dto.StagedItemDTO, 0, len(staged))
	for i := range staged {
		out = append(out, dto.FromStaged(&staged[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Commit godoc
// @Summary      Persistir lote staged revisado
// @Description  Crea cada fila por la vía ordinaria de creación: unicidad de
//
//	SKU y validación aplican igual que en el alta manual. Una fila mala no
//	aborta el lote; su error queda adjunto al resultado de esa fila.
//
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitStagedRequest  true  "lote staged (posiblemente editado)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/commit [post]
func (h *ImportHandler) Commit(c *fiber.Ctx) error {
	var in dto.CommitStagedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	staged := make([]entity.StagedItem, 0, len(in.Items))
	for i := range in.Items {
		staged = append(staged, in.Items[i].ToStaged())
	}
	results, created := h.imp.CommitStaged(c.Context(), staged)
	out := make([]dto.CommitResultDTO, 0, len(results))
	for i := range results {
		out = append(out, dto.FromCommitResult(&results[i]))
	}
	return c.JSON(fiber.Map{"created": created, "total": len(out), "results": out})
}
