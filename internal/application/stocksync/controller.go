// Package stocksync mantiene el store alineado con el servidor: consultas pull
// bajo demanda y refetch disparado por la suscripción de movimientos.
//
// Cada consulta lleva un número de secuencia monótono por clave; una respuesta
// más vieja que la última aplicada para esa clave se descarta. Cada consulta
// está ligada al contexto de su consumidor: si se cancela antes de que llegue
// la respuesta, el resultado no se escribe.
package stocksync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
	"github.com/jhoicas/Inventario-eventos/pkg/notify"
)

// DefaultRootLocationName nombre del grupo raíz de ubicaciones.
const DefaultRootLocationName = "Locations"

// Config dependencias opcionales del controlador.
type Config struct {
	Logger           *logger.Logger
	Metrics          Metrics
	RootLocationName string
}

// Controller controlador de sincronización. Seguro para uso concurrente.
type Controller struct {
	api      ports.StockQueries
	subs     ports.MovementSubscriber
	store    *store.Store
	log      *logger.Logger
	metrics  Metrics
	rootName string

	mu       sync.Mutex
	issued   map[Key]uint64
	applied  map[Key]uint64
	inflight map[Key]int
	resolved map[string]entity.EventLocation
	views    map[string]*View

	loading *notify.Hub[LoadingChange]
}

// NewController construye el controlador.
func NewController(api ports.StockQueries, subs ports.MovementSubscriber, st *store.Store, cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.RootLocationName == "" {
		cfg.RootLocationName = DefaultRootLocationName
	}
	return &Controller{
		api:      api,
		subs:     subs,
		store:    st,
		log:      cfg.Logger.Component("stocksync"),
		metrics:  cfg.Metrics,
		rootName: cfg.RootLocationName,
		issued:   make(map[Key]uint64),
		applied:  make(map[Key]uint64),
		inflight: make(map[Key]int),
		resolved: make(map[string]entity.EventLocation),
		views:    make(map[string]*View),
		loading:  notify.NewHub[LoadingChange](),
	}
}

// ── Consultas pull ────────────────────────────────────────────────────────────

// FetchAllStock reemplaza el stock completo del evento.
func (c *Controller) FetchAllStock(ctx context.Context, eventID string) error {
	if err := c.requireEvent(eventID); err != nil {
		return err
	}
	return c.pull(ctx, Key{Kind: KindAllStock, ID: eventID}, func(ctx context.Context) (store.Action, error) {
		rows, err := c.api.AllStock(ctx, eventID)
		if err != nil {
			return store.Action{}, err
		}
		return store.ReplaceAllStock(rows), nil
	})
}

// FetchAllItems reemplaza el catálogo de ítems del evento.
func (c *Controller) FetchAllItems(ctx context.Context, eventID string) error {
	if err := c.requireEvent(eventID); err != nil {
		return err
	}
	return c.pull(ctx, Key{Kind: KindAllItems, ID: eventID}, func(ctx context.Context) (store.Action, error) {
		items, err := c.api.AllItems(ctx, eventID)
		if err != nil {
			return store.Action{}, err
		}
		return store.ReplaceAllItems(items), nil
	})
}

// FetchLocations reemplaza la jerarquía de ubicaciones (un grupo raíz con todas las ubicaciones).
func (c *Controller) FetchLocations(ctx context.Context, eventID string) error {
	if err := c.requireEvent(eventID); err != nil {
		return err
	}
	return c.pull(ctx, Key{Kind: KindLocations, ID: eventID}, func(ctx context.Context) (store.Action, error) {
		locs, err := c.api.Locations(ctx, eventID)
		if err != nil {
			return store.Action{}, err
		}
		return store.ReplaceLocations(entity.NewLocationHierarchy(c.rootName, locs)), nil
	})
}

// FetchLocationStock sobrescribe la entrada de la ubicación en el mapa de stock por ubicación.
func (c *Controller) FetchLocationStock(ctx context.Context, locationID string) error {
	if locationID == "" {
		return domain.ErrInvalidInput
	}
	if !session.Allows(c.store.Session(), session.CapLocationStock) || !c.LocationInScope(locationID) {
		return domain.ErrForbidden
	}
	return c.pull(ctx, Key{Kind: KindLocationStock, ID: locationID}, func(ctx context.Context) (store.Action, error) {
		rows, err := c.api.LocationStock(ctx, locationID)
		if err != nil {
			return store.Action{}, err
		}
		return store.SetLocationStock(locationID, entity.NewLocationStock(rows)), nil
	})
}

// ResolveLocation traduce un id externo de ubicación a su id interno. El resultado se cachea
// por id externo y no se escribe en el store.
func (c *Controller) ResolveLocation(ctx context.Context, externalID string) (entity.EventLocation, error) {
	if externalID == "" {
		return entity.EventLocation{}, domain.ErrInvalidInput
	}
	if !session.Allows(c.store.Session(), session.CapLocationStock) {
		return entity.EventLocation{}, domain.ErrForbidden
	}
	c.mu.Lock()
	if loc, ok := c.resolved[externalID]; ok {
		c.mu.Unlock()
		return loc, nil
	}
	c.mu.Unlock()

	key := Key{Kind: KindResolveLocation, ID: externalID}
	c.begin(key)
	defer c.end(key)

	loc, err := c.api.ResolveInternalLocationID(ctx, externalID)
	if err != nil {
		c.metrics.PullFailed(key.Kind)
		c.log.Error().Err(err).Str("key", key.String()).Msg("resolución de ubicación fallida")
		return entity.EventLocation{}, fmt.Errorf("resolver ubicación %s: %w", externalID, err)
	}
	if loc.ID == "" {
		return entity.EventLocation{}, domain.ErrNotFound
	}
	c.mu.Lock()
	c.resolved[externalID] = loc
	c.mu.Unlock()
	c.metrics.PullApplied(key.Kind)
	return loc, nil
}

// LocationInScope indica si la sesión vigente puede operar sobre la ubicación (id interno).
// Un usuario de ubicación solo alcanza el id interno resuelto desde el id que escaneó, así
// que primero debe pasar por ResolveLocation; el administrador alcanza cualquiera.
func (c *Controller) LocationInScope(locationID string) bool {
	sess := c.store.Session()
	if sess.Permission != entity.PermissionLocationUser {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	loc, ok := c.resolved[sess.PermissionID]
	return ok && loc.ID == locationID
}

// RefetchAffected vuelve a pedir el stock de las ubicaciones afectadas por una mutación y,
// si la sesión administra un evento, el stock completo del evento.
func (c *Controller) RefetchAffected(ctx context.Context, locationIDs ...string) error {
	seen := make(map[string]bool, len(locationIDs))
	var g errgroup.Group
	for _, id := range locationIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		id := id
		g.Go(func() error { return c.FetchLocationStock(ctx, id) })
	}
	sess := c.store.Session()
	if sess.EventID != "" && session.Allows(sess, session.CapEventStock) {
		g.Go(func() error { return c.FetchAllStock(ctx, sess.EventID) })
	}
	return g.Wait()
}

// ── Banderas de carga ─────────────────────────────────────────────────────────

// Loading indica si hay una consulta en vuelo para la clave.
func (c *Controller) Loading(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key] > 0
}

// LoadingKeys claves con consultas en vuelo, ordenadas.
func (c *Controller) LoadingKeys() []Key {
	c.mu.Lock()
	out := make([]Key, 0, len(c.inflight))
	for k, n := range c.inflight {
		if n > 0 {
			out = append(out, k)
		}
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// SubscribeLoading notificaciones de cambio de banderas de carga.
func (c *Controller) SubscribeLoading(buffer int) (<-chan LoadingChange, func()) {
	return c.loading.Subscribe(buffer)
}

// ── Internos ──────────────────────────────────────────────────────────────────

// requireEvent admite solo el evento de la sesión vigente.
func (c *Controller) requireEvent(eventID string) error {
	if eventID == "" {
		return domain.ErrNoEventScope
	}
	sess := c.store.Session()
	if !session.Allows(sess, session.CapEventStock) || eventID != sess.EventID {
		return domain.ErrForbidden
	}
	return nil
}

// pull ejecuta fetch con número de secuencia y escribe el resultado solo si
// sigue siendo el más reciente para la clave, el consumidor sigue vivo y la
// sesión no cambió desde la emisión.
func (c *Controller) pull(ctx context.Context, key Key, fetch func(context.Context) (store.Action, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	epoch := c.store.Epoch()
	seq := c.begin(key)
	defer c.end(key)
	c.metrics.PullIssued(key.Kind)

	action, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			c.metrics.PullDiscarded(key.Kind, DiscardCancelled)
			return ctx.Err()
		}
		c.metrics.PullFailed(key.Kind)
		c.log.Error().Err(err).Str("key", key.String()).Uint64("seq", seq).Msg("consulta fallida")
		return fmt.Errorf("%s: %w", key, err)
	}
	if ctx.Err() != nil {
		c.metrics.PullDiscarded(key.Kind, DiscardCancelled)
		c.log.Debug().Str("key", key.String()).Uint64("seq", seq).Msg("respuesta descartada: consumidor cerrado")
		return ctx.Err()
	}

	if reason := c.apply(key, seq, epoch, action); reason != "" {
		c.metrics.PullDiscarded(key.Kind, reason)
		c.log.Debug().Str("key", key.String()).Uint64("seq", seq).Str("reason", reason).Msg("respuesta descartada")
		return nil
	}
	c.metrics.PullApplied(key.Kind)
	return nil
}

// apply devuelve el motivo de descarte o "" si la acción se aplicó.
func (c *Controller) apply(key Key, seq, epoch uint64, action store.Action) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.applied[key] {
		return DiscardStale
	}
	if _, ok := c.store.DispatchIf(func(st store.State) bool { return st.SessionEpoch == epoch }, action); !ok {
		return DiscardSessionChanged
	}
	c.applied[key] = seq
	return ""
}

func (c *Controller) begin(key Key) uint64 {
	c.mu.Lock()
	c.issued[key]++
	seq := c.issued[key]
	c.inflight[key]++
	first := c.inflight[key] == 1
	c.mu.Unlock()
	if first {
		c.loading.Publish(LoadingChange{Key: key, Loading: true})
	}
	return seq
}

func (c *Controller) end(key Key) {
	c.mu.Lock()
	c.inflight[key]--
	done := c.inflight[key] <= 0
	if done {
		delete(c.inflight, key)
	}
	c.mu.Unlock()
	if done {
		c.loading.Publish(LoadingChange{Key: key, Loading: false})
	}
}

// isCancellation distingue cierres de vista de errores reales.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
