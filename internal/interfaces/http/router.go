package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/keystock/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items      *inventory.ItemUseCase
	Usage      *inventory.UsageUseCase
	Import     *inventory.ImportUseCase
	Reconciler *inventory.Reconciler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Inventario: listado filtrado, facetas y CRUD
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Items, deps.Reconciler)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/facets", inventoryHandler.Facets)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", inventoryHandler.Update)
	inv.Delete("/:id", inventoryHandler.Delete)
	inv.Post("/:id/adjust", inventoryHandler.Adjust)

	// Ledger de consumo
	usageHandler := NewUsageHandler(deps.Usage)
	api.Post("/usage", usageHandler.Record)
	inv.Get("/:id/usage", usageHandler.ListByItem)
	api.Get("/jobs/:id/material-cost", usageHandler.JobMaterialCost)

	// Importación masiva (parse + commit)
	imp := api.Group("/import")
	importHandler := NewImportHandler(deps.Import)
	imp.Post("/parse", importHandler.Parse)
	imp.Post("/commit", importHandler.Commit)
}
