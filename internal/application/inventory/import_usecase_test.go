package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/vendor"
)

func newImportFixture(items ...entity.InventoryItem) (*inventory.ImportUseCase, *fakeItemRepo) {
	repo := newFakeItemRepo(items...)
	tx := &fakeTxRunner{items: repo, usage: &fakeUsageRepo{}}
	itemUC := inventory.NewItemUseCase(tx, repo, 5)
	parser := vendor.NewParserWithClock(func() time.Time { return time.Unix(1700000000, 0) })
	return inventory.NewImportUseCase(parser, itemUC), repo
}

// TestParseYCommit_Completo el flujo parse → commit crea un ítem por fila; la
// clave descriptiva compuesta queda en Module y el resto de columnas mapean
// directo.
func TestParseYCommit_Completo(t *testing.T) {
	uc, repo := newImportFixture()
	raw := "Name,Type,Qty,L,M,Cost,T,Supplier,SKU\n" +
		"2013‑2020 Ford/Lincoln 5‑Button Smart Key,smart key,1,,,24.20,,KeylessFactory,RSK-FD-FML3\n" +
		"Honda fob,remote,3,,,5.00,,AKS,AKS-77\n"

	staged, err := uc.ParseCSV(raw)
	require.NoError(t, err)
	require.Len(t, staged, 2)

	results, created := uc.CommitStaged(context.Background(), staged)
	require.Len(t, results, 2)
	assert.Equal(t, 2, created)
	for _, res := range results {
		assert.NoError(t, res.Error)
		assert.NotEmpty(t, res.ID)
	}

	item, err := repo.GetByID(context.Background(), results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "RSK-FD-FML3", item.SKU)
	assert.Equal(t, "Ford/Lincoln 2013-2020 5-Button smart key", item.Module)
	assert.Equal(t, "Ford/Lincoln", item.Make)
	assert.Equal(t, "smart key", item.Category)
	assert.Equal(t, 2013, item.YearFrom)
	assert.Equal(t, 2020, item.YearTo)
	assert.Equal(t, 1, item.Quantity)
	require.True(t, item.Cost.Valid)
	assert.True(t, item.Cost.Decimal.Equal(decimal.RequireFromString("24.20")))
}

// TestCommitStaged_FilaMalaNoAbortaElLote un SKU duplicado deja su error
// adjunto a esa fila; las demás se crean igual.
func TestCommitStaged_FilaMalaNoAbortaElLote(t *testing.T) {
	uc, _ := newImportFixture(entity.InventoryItem{ID: "x1", SKU: "DUP"})
	staged := []entity.StagedItem{
		{Line: 2, SKU: "DUP", Name: "repetido", Quantity: 1},
		{Line: 3, SKU: "NEW-1", Name: "nuevo", Quantity: 2},
	}

	results, created := uc.CommitStaged(context.Background(), staged)
	require.Len(t, results, 2)
	assert.Equal(t, 1, created)

	assert.ErrorIs(t, results[0].Error, domain.ErrDuplicate)
	assert.Empty(t, results[0].ID)
	assert.True(t, inventory.IsRowError(results[0].Error))

	assert.NoError(t, results[1].Error)
	assert.NotEmpty(t, results[1].ID)
}

// TestCommitStaged_ValidacionPorFila las filas pasan por la creación
// ordinaria: una fila editada a SKU vacío falla con ErrInvalidInput.
func TestCommitStaged_ValidacionPorFila(t *testing.T) {
	uc, _ := newImportFixture()
	results, created := uc.CommitStaged(context.Background(), []entity.StagedItem{
		{Line: 2, SKU: "", Name: "sin sku"},
	})
	require.Len(t, results, 1)
	assert.Zero(t, created)
	assert.ErrorIs(t, results[0].Error, domain.ErrInvalidInput)
	assert.True(t, inventory.IsRowError(results[0].Error))
}

func TestStagedToItem_Mapeo(t *testing.T) {
	s := &entity.StagedItem{
		SKU: "AKS-77", Name: "Honda 2016-2021 4-Button remote", RawName: "crudo",
		Category: "remote", Make: "Honda", Quantity: 3,
		YearFrom: 2016, YearTo: 2021, Supplier: "AKS",
	}
	item := inventory.StagedToItem(s)
	assert.Equal(t, "AKS-77", item.SKU)
	assert.Equal(t, "Honda 2016-2021 4-Button remote", item.Module)
	assert.Equal(t, "Honda", item.Make)
	assert.Equal(t, "AKS", item.Supplier)
	assert.Equal(t, 2016, item.YearFrom)
}
