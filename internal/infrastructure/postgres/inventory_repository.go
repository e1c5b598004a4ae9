package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const itemColumns = `id, sku, category, make, module, supplier, fcc_id, quantity, cost,
	total_cost_value, low_stock_threshold, year_from, year_to, usage_count,
	last_used_date, created_at, updated_at`

// InventoryRepo implementación del puerto InventoryRepository sobre
// PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create persiste un ítem nuevo. SKU repetido devuelve domain.ErrDuplicate.
func (r *InventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Category, item.Make, item.Module, item.Supplier,
		item.FCCID, item.Quantity, item.Cost, item.TotalCostValue,
		item.LowStockThreshold, item.YearFrom, item.YearTo, item.UsageCount,
		item.LastUsedDate, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
// Usar dentro de una transacción del TxRunner.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, id, true)
}

func (r *InventoryRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var it entity.InventoryItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.SKU, &it.Category, &it.Make, &it.Module, &it.Supplier,
		&it.FCCID, &it.Quantity, &it.Cost, &it.TotalCostValue,
		&it.LowStockThreshold, &it.YearFrom, &it.YearTo, &it.UsageCount,
		&it.LastUsedDate, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &it, nil
}

// Update reemplaza los campos mutables del ítem.
func (r *InventoryRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory SET
			sku = $2, category = $3, make = $4, module = $5, supplier = $6,
			fcc_id = $7, quantity = $8, cost = $9, total_cost_value = $10,
			low_stock_threshold = $11, year_from = $12, year_to = $13,
			usage_count = $14, last_used_date = $15, updated_at = $16
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Category, item.Make, item.Module, item.Supplier,
		item.FCCID, item.Quantity, item.Cost, item.TotalCostValue,
		item.LowStockThreshold, item.YearFrom, item.YearTo, item.UsageCount,
		item.LastUsedDate, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve la colección completa (la resincronización del reconciliador
// y la carga inicial pasan por aquí).
func (r *InventoryRepo) List(ctx context.Context) ([]entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(
			&it.ID, &it.SKU, &it.Category, &it.Make, &it.Module, &it.Supplier,
			&it.FCCID, &it.Quantity, &it.Cost, &it.TotalCostValue,
			&it.LowStockThreshold, &it.YearFrom, &it.YearTo, &it.UsageCount,
			&it.LastUsedDate, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Delete elimina la fila definitivamente.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
