package repository

import (
	"context"

	"github.com/tu-usuario/keystock/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para InventoryItem (DIP).
// El almacén es la única autoridad final sobre quantity; los errores de clave
// duplicada se devuelven como domain.ErrDuplicate, nunca aplanados.
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context) ([]entity.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}
