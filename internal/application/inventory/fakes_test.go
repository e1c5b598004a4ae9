package inventory_test

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/keystock/internal/domain"
	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
)

// fakeItemRepo implementación en memoria del puerto de inventario. Segura para
// uso concurrente (el reconciliador lee List desde su goroutine).
type fakeItemRepo struct {
	mu        sync.Mutex
	items     map[string]entity.InventoryItem
	updateErr error // error forzado en Update, para probar el rollback
	listErr   error // error forzado en List, para probar fallos de arranque
}

func newFakeItemRepo(items ...entity.InventoryItem) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[string]entity.InventoryItem)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := it
	return &out, nil
}

func (r *fakeItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) List(_ context.Context) ([]entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]entity.InventoryItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// setItems reemplaza la colección completa (simula cambios remotos entre
// desconexión y resincronización).
func (r *fakeItemRepo) setItems(items ...entity.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]entity.InventoryItem, len(items))
	for _, it := range items {
		r.items[it.ID] = it
	}
}

func (r *fakeItemRepo) clone() map[string]entity.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]entity.InventoryItem, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

func (r *fakeItemRepo) restore(items map[string]entity.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

// fakeUsageRepo ledger en memoria, solo-inserción como el real.
type fakeUsageRepo struct {
	mu     sync.Mutex
	events []entity.UsageEvent
}

func (r *fakeUsageRepo) Create(_ context.Context, ev *entity.UsageEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *fakeUsageRepo) ListByItem(_ context.Context, inventoryID string) ([]entity.UsageEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.UsageEvent
	for _, ev := range r.events {
		if ev.InventoryID == inventoryID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) ListByJob(_ context.Context, jobID string) ([]entity.UsageEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.UsageEvent
	for _, ev := range r.events {
		if ev.JobID == jobID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) SumCostByJob(_ context.Context, jobID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, ev := range r.events {
		if ev.JobID == jobID {
			total = total.Add(ev.TotalCostAtUse)
		}
	}
	return total, nil
}

func (r *fakeUsageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *fakeUsageRepo) clone() []entity.UsageEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.UsageEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *fakeUsageRepo) restore(events []entity.UsageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = events
}

// fakeTxRunner simula la atomicidad de la transacción: si el callback falla,
// restaura ambos repos al estado previo (el equivalente del rollback).
type fakeTxRunner struct {
	items *fakeItemRepo
	usage *fakeUsageRepo
	runs  int
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryRepository,
	usageRepo repository.UsageRepository,
) error) error {
	r.runs++
	itemsBackup := r.items.clone()
	usageBackup := r.usage.clone()
	if err := fn(r.items, r.usage); err != nil {
		r.items.restore(itemsBackup)
		r.usage.restore(usageBackup)
		return err
	}
	return nil
}

// fakeFeed implementación en memoria del puerto ChangeFeed. Cada Subscribe
// abre un "transporte" nuevo; dropConnection lo corta cerrando el canal, como
// hace el listener real al caer la conexión.
type fakeFeed struct {
	mu      sync.Mutex
	current chan repository.Change
	subs    int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{}
}

func (f *fakeFeed) Subscribe(ctx context.Context) (<-chan repository.Change, error) {
	f.mu.Lock()
	f.current = make(chan repository.Change, 16)
	f.subs++
	cur := f.current
	f.mu.Unlock()

	out := make(chan repository.Change)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-cur:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeFeed) emit(ev repository.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current <- ev
}

func (f *fakeFeed) dropConnection() {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.current)
}

func (f *fakeFeed) subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs
}
