package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
	"github.com/tu-usuario/keystock/pkg/logger"
)

var _ repository.ChangeFeed = (*FeedListener)(nil)

// FeedListener implementa el puerto ChangeFeed con LISTEN/NOTIFY de
// PostgreSQL. Los triggers de migrations/ publican cada INSERT/UPDATE/DELETE
// de la tabla inventory como JSON en el canal configurado.
//
// Una notificación perdida no se repara aquí: al cerrarse el canal el
// reconciliador resincroniza con una consulta completa.
type FeedListener struct {
	pool    *pgxpool.Pool
	channel string
	log     *logger.Logger
}

// NewFeedListener construye el adaptador. channel es el canal NOTIFY
// (config: feed.channel).
func NewFeedListener(pool *pgxpool.Pool, channel string, log *logger.Logger) *FeedListener {
	return &FeedListener{pool: pool, channel: channel, log: log}
}

// feedPayload forma del JSON que emite el trigger.
// Para DELETE solo viaja el id de la fila vieja.
type feedPayload struct {
	Type string   `json:"type"`
	Row  *itemRow `json:"row"`
	ID   string   `json:"id"`
}

// itemRow espejo JSON de la fila inventory (to_jsonb en el trigger).
type itemRow struct {
	ID                string              `json:"id"`
	SKU               string              `json:"sku"`
	Category          string              `json:"category"`
	Make              string              `json:"make"`
	Module            string              `json:"module"`
	Supplier          string              `json:"supplier"`
	FCCID             string              `json:"fcc_id"`
	Quantity          int                 `json:"quantity"`
	Cost              decimal.NullDecimal `json:"cost"`
	TotalCostValue    decimal.Decimal     `json:"total_cost_value"`
	LowStockThreshold int                 `json:"low_stock_threshold"`
	YearFrom          int                 `json:"year_from"`
	YearTo            int                 `json:"year_to"`
	UsageCount        int                 `json:"usage_count"`
	LastUsedDate      *time.Time          `json:"last_used_date"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// Subscribe dedica una conexión del pool a LISTEN y entrega los eventos por
// un canal. El canal se cierra al cancelar ctx (unsubscribe) o al caer el
// transporte; en ambos casos la conexión vuelve al pool.
func (l *FeedListener) Subscribe(ctx context.Context) (<-chan repository.Change, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: adquirir conexión: %v", domain.ErrTransport, err)
	}
	listenSQL := "LISTEN " + pgx.Identifier{l.channel}.Sanitize()
	if _, err := conn.Exec(ctx, listenSQL); err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: LISTEN %s: %v", domain.ErrTransport, l.channel, err)
	}

	ch := make(chan repository.Change, 64)
	go func() {
		defer close(ch)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				// ctx cancelado o transporte caído; el suscriptor resincroniza
				return
			}
			change, err := decodePayload(n.Payload)
			if err != nil {
				l.log.Warn().Err(err).Msg("payload de notificación inválido, descartado")
				continue
			}
			select {
			case ch <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func decodePayload(payload string) (repository.Change, error) {
	var p feedPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return repository.Change{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	change := repository.Change{Type: repository.ChangeType(p.Type), ID: p.ID}
	switch change.Type {
	case repository.ChangeInsert, repository.ChangeUpdate:
		if p.Row == nil {
			return repository.Change{}, fmt.Errorf("evento %s sin fila", p.Type)
		}
		item := p.Row.toEntity()
		change.Item = &item
		change.ID = item.ID
	case repository.ChangeDelete:
		if change.ID == "" {
			return repository.Change{}, fmt.Errorf("DELETE sin id")
		}
	default:
		return repository.Change{}, fmt.Errorf("tipo de evento desconocido %q", p.Type)
	}
	return change, nil
}

func (r *itemRow) toEntity() entity.InventoryItem {
	return entity.InventoryItem{
		ID:                r.ID,
		SKU:               r.SKU,
		Category:          r.Category,
		Make:              r.Make,
		Module:            r.Module,
		Supplier:          r.Supplier,
		FCCID:             r.FCCID,
		Quantity:          r.Quantity,
		Cost:              r.Cost,
		TotalCostValue:    r.TotalCostValue,
		LowStockThreshold: r.LowStockThreshold,
		YearFrom:          r.YearFrom,
		YearTo:            r.YearTo,
		UsageCount:        r.UsageCount,
		LastUsedDate:      r.LastUsedDate,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
