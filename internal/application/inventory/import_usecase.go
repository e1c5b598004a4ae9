package inventory

import (
	"context"
	"errors"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/vendor"
)

// ImportUseCase importación masiva: parseo a lista staged revisable y commit
// explícito que canaliza cada fila por la creación ordinaria, de modo que
// unicidad y validación aplican uniformemente.
type ImportUseCase struct {
	parser *vendor.Parser
	items  *ItemUseCase
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(parser *vendor.Parser, items *ItemUseCase) *ImportUseCase {
	return &ImportUseCase{parser: parser, items: items}
}

// ParseCSV normaliza el texto pegado sin persistir nada.
func (uc *ImportUseCase) ParseCSV(rawText string) ([]entity.StagedItem, error) {
	return uc.parser.Parse(rawText)
}

// CommitResult resultado por fila del commit; una fila mala no aborta el lote.
type CommitResult struct {
	Line  int
	SKU   string
	ID    string // vacío si la fila falló
	Error error  // nil si la fila se creó
}

// CommitStaged persiste cada fila staged vía ItemUseCase.Create. Devuelve un
// resultado por fila (ErrDuplicate, ErrInvalidInput, etc. quedan adjuntos a la
// fila que falló) y el conteo de creadas.
func (uc *ImportUseCase) CommitStaged(ctx context.Context, staged []entity.StagedItem) ([]CommitResult, int) {
	results := make([]CommitResult, 0, len(staged))
	created := 0
	for _, s := range staged {
		item := StagedToItem(&s)
		err := uc.items.Create(ctx, item)
		res := CommitResult{Line: s.Line, SKU: s.SKU, Error: err}
		if err == nil {
			res.ID = item.ID
			created++
		}
		results = append(results, res)
	}
	return results, created
}

// StagedToItem mapea un candidato staged al ítem a crear. La clave descriptiva
// compuesta va en Module (el "módulo" de llave que se muestra en tarjetas);
// el SKU del proveedor (o el sintético) es la etiqueta única.
func StagedToItem(s *entity.StagedItem) *entity.InventoryItem {
	return &entity.InventoryItem{
		SKU:      s.SKU,
		Module:   s.Name,
		Category: s.Category,
		Make:     s.Make,
		Supplier: s.Supplier,
		Quantity: s.Quantity,
		Cost:     s.Cost,
		YearFrom: s.YearFrom,
		YearTo:   s.YearTo,
	}
}

// IsRowError distingue fallas por-fila recuperables (duplicado, validación)
// de fallas de transporte que sí deberían detener la revisión del operador.
func IsRowError(err error) bool {
	return errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrInvalidInput)
}
