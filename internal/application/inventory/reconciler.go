package inventory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tu-usuario/keystock/internal/domain/entity"
	"github.com/tu-usuario/keystock/internal/domain/repository"
	"github.com/tu-usuario/keystock/pkg/logger"
)

// SubscriptionState estado de la suscripción al feed de cambios.
type SubscriptionState int32

const (
	StateConnecting SubscriptionState = iota
	StateSubscribed
	StateDisconnected
)

// String nombre legible del estado.
func (s SubscriptionState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateSubscribed:
		return "SUBSCRIBED"
	case StateDisconnected:
		return "DISCONNECTED"
	}
	return "UNKNOWN"
}

// Reconciler mantiene la colección local de ítems consistente con el feed de
// cambios del almacén. Es el único punto de mutación de la caché: ni la capa
// HTTP ni los casos de uso escriben la colección directamente — los comandos
// van al almacén y la caché converge cuando llega el evento correspondiente.
//
// Al perder el transporte no intenta reproducir deltas: pasa a DISCONNECTED y
// resincroniza con una consulta completa al reconectar.
type Reconciler struct {
	feed    repository.ChangeFeed
	repo    repository.InventoryRepository
	log     *logger.Logger
	backoff time.Duration

	state atomic.Int32

	mu    sync.RWMutex
	items map[string]entity.InventoryItem

	changed chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewReconciler construye el reconciliador. backoff es la espera entre
// reintentos de suscripción tras una desconexión.
func NewReconciler(feed repository.ChangeFeed, repo repository.InventoryRepository, log *logger.Logger, backoff time.Duration) *Reconciler {
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	return &Reconciler{
		feed:    feed,
		repo:    repo,
		log:     log,
		backoff: backoff,
		items:   make(map[string]entity.InventoryItem),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start carga la colección inicial y arranca el bucle de suscripción.
func (r *Reconciler) Start(ctx context.Context) error {
	if err := r.resync(ctx); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.run(runCtx)
	return nil
}

// Close cancela la suscripción y espera el fin del bucle. Tras Close no hay
// más mutación local y el stream queda liberado. Si Start nunca arrancó el
// bucle (o falló antes de arrancarlo), no hay nada que esperar.
func (r *Reconciler) Close() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// State estado actual de la suscripción.
func (r *Reconciler) State() SubscriptionState {
	return SubscriptionState(r.state.Load())
}

// Changes canal de aviso (coalescido) de que la colección cambió; para que la
// capa de presentación recalcule vistas derivadas.
func (r *Reconciler) Changes() <-chan struct{} {
	return r.changed
}

// Snapshot copia de la colección local ordenada por ID. El pipeline de
// filtrado opera sobre esta copia, nunca sobre la caché viva.
func (r *Reconciler) Snapshot() []entity.InventoryItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.InventoryItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// run bucle suscribir → aplicar eventos → resincronizar al caer, hasta que el
// contexto se cancele. Los eventos se aplican en orden de llegada.
func (r *Reconciler) run(ctx context.Context) {
	defer close(r.done)
	for {
		if ctx.Err() != nil {
			return
		}
		r.state.Store(int32(StateConnecting))

		ch, err := r.feed.Subscribe(ctx)
		if err != nil {
			r.state.Store(int32(StateDisconnected))
			r.log.Warn().Err(err).Dur("backoff", r.backoff).Msg("suscripción al feed falló, reintentando")
			if !sleep(ctx, r.backoff) {
				return
			}
			continue
		}

		// Cubre el hueco entre la última desconexión y esta suscripción.
		if err := r.resync(ctx); err != nil {
			r.state.Store(int32(StateDisconnected))
			r.log.Warn().Err(err).Msg("resincronización completa falló")
			if !sleep(ctx, r.backoff) {
				return
			}
			continue
		}

		r.state.Store(int32(StateSubscribed))
		r.log.Info().Msg("suscrito al feed de cambios de inventario")

		for ev := range ch {
			r.apply(ev)
		}
		// Canal cerrado: transporte perdido o unsubscribe.
		r.state.Store(int32(StateDisconnected))
		if ctx.Err() != nil {
			return
		}
		r.log.Warn().Msg("feed de cambios desconectado")
		if !sleep(ctx, r.backoff) {
			return
		}
	}
}

// apply aplica un evento a la colección. Idempotente frente a entregas
// duplicadas; un UPDATE de un id desconocido (fila borrada o aún no vista) se
// registra y se ignora, nunca tumba el bucle.
func (r *Reconciler) apply(ev repository.Change) {
	r.mu.Lock()
	mutated := false
	switch ev.Type {
	case repository.ChangeInsert:
		if ev.Item != nil {
			if _, exists := r.items[ev.Item.ID]; !exists {
				r.items[ev.Item.ID] = *ev.Item
				mutated = true
			}
		}
	case repository.ChangeUpdate:
		if ev.Item != nil {
			if _, exists := r.items[ev.Item.ID]; exists {
				r.items[ev.Item.ID] = *ev.Item
				mutated = true
			} else {
				r.log.Debug().Str("id", ev.Item.ID).Msg("UPDATE para id desconocido, ignorado")
			}
		}
	case repository.ChangeDelete:
		if _, exists := r.items[ev.ID]; exists {
			delete(r.items, ev.ID)
			mutated = true
		}
	}
	r.mu.Unlock()
	if mutated {
		r.notify()
	}
}

// resync reemplaza la colección local con una consulta completa al almacén.
func (r *Reconciler) resync(ctx context.Context) error {
	list, err := r.repo.List(ctx)
	if err != nil {
		return err
	}
	fresh := make(map[string]entity.InventoryItem, len(list))
	for _, it := range list {
		fresh[it.ID] = it
	}
	r.mu.Lock()
	r.items = fresh
	r.mu.Unlock()
	r.notify()
	return nil
}

func (r *Reconciler) notify() {
	select {
	case r.changed <- struct{}{}:
	default: // aviso pendiente, coalescer
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
