package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

const usageColumns = `id, inventory_id, job_id, notes, quantity_used,
	unit_cost_at_use, total_cost_at_use, used_at`

// UsageRepo implementación del puerto UsageRepository sobre PostgreSQL.
// El ledger es solo-inserción: no hay Update ni Delete.
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

// Create persiste un evento de consumo.
func (r *UsageRepo) Create(ctx context.Context, ev *entity.UsageEvent) error {
	query := `
		INSERT INTO inventory_usage (` + usageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	jobID := (*string)(nil)
	if ev.JobID != "" {
		jobID = &ev.JobID
	}
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.InventoryID, jobID, ev.Notes, ev.QuantityUsed,
		ev.UnitCostAtUse, ev.TotalCostAtUse, ev.UsedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory usage: %w", err)
	}
	return nil
}

// ListByItem historial de consumo de un ítem, más reciente primero.
func (r *UsageRepo) ListByItem(ctx context.Context, inventoryID string) ([]entity.UsageEvent, error) {
	query := `SELECT ` + usageColumns + ` FROM inventory_usage
		WHERE inventory_id = $1 ORDER BY used_at DESC, id`
	return r.list(ctx, query, inventoryID)
}

// ListByJob eventos de consumo de un trabajo.
func (r *UsageRepo) ListByJob(ctx context.Context, jobID string) ([]entity.UsageEvent, error) {
	query := `SELECT ` + usageColumns + ` FROM inventory_usage
		WHERE job_id = $1 ORDER BY used_at DESC, id`
	return r.list(ctx, query, jobID)
}

func (r *UsageRepo) list(ctx context.Context, query, arg string) ([]entity.UsageEvent, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list inventory usage: %w", err)
	}
	defer rows.Close()

	var out []entity.UsageEvent
	for rows.Next() {
		var ev entity.UsageEvent
		var jobID *string
		if err := rows.Scan(
			&ev.ID, &ev.InventoryID, &jobID, &ev.Notes, &ev.QuantityUsed,
			&ev.UnitCostAtUse, &ev.TotalCostAtUse, &ev.UsedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory usage: %w", err)
		}
		if jobID != nil {
			ev.JobID = *jobID
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// SumCostByJob suma las instantáneas de costo del trabajo. Los precios
// actuales de los ítems no participan: el costeo histórico está congelado.
func (r *UsageRepo) SumCostByJob(ctx context.Context, jobID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_cost_at_use), 0)
		FROM inventory_usage WHERE job_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, jobID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum job material cost: %w", err)
	}
	return total, nil
}
