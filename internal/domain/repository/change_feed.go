package repository

import (
	"context"

	"github.com/tu-usuario/keystock/internal/domain/entity"
)

// ChangeType tipo de evento del feed de cambios.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Change un evento fila-a-fila del feed. Para DELETE solo viaja el ID.
type Change struct {
	Type ChangeType
	Item *entity.InventoryItem
	ID   string
}

// ChangeFeed define el puerto del canal push de cambios del almacén.
// Subscribe entrega eventos en orden de commit dentro de un mismo feed; no se
// asume orden entre feeds independientes. El canal se cierra al perder el
// transporte o al cancelar ctx (unsubscribe); el suscriptor debe resincronizar
// con una consulta completa al reconectar.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan Change, error)
}
