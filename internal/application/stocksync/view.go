package stocksync

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
)

// ViewKind tipo de vista montada.
type ViewKind string

const (
	// ViewEventOverview stock completo + catálogo del evento.
	ViewEventOverview ViewKind = "event_overview"
	// ViewMissingItems stock completo + catálogo + ubicaciones.
	ViewMissingItems ViewKind = "missing_items"
	// ViewMove ubicaciones + stock de la ubicación origen; suscripción filtrada por origen.
	ViewMove ViewKind = "move"
	// ViewLocationDetails stock de una ubicación; admite id externo (QR).
	ViewLocationDetails ViewKind = "location_details"
	// ViewStockItemDetails stock de una ubicación si se indica, si no el stock completo del evento.
	ViewStockItemDetails ViewKind = "stock_item_details"
)

// ViewSpec parámetros de montaje. EventID vacío toma el de la sesión; otro evento se rechaza.
type ViewSpec struct {
	Kind               ViewKind `json:"kind"`
	EventID            string   `json:"event_id,omitempty"`
	LocationID         string   `json:"location_id,omitempty"`
	ExternalLocationID string   `json:"external_location_id,omitempty"`
}

func (s ViewSpec) capability() (session.Capability, error) {
	switch s.Kind {
	case ViewEventOverview, ViewMissingItems:
		return session.CapEventStock, nil
	case ViewMove:
		return session.CapRelocate, nil
	case ViewLocationDetails:
		if s.LocationID == "" && s.ExternalLocationID == "" {
			return "", domain.ErrInvalidInput
		}
		return session.CapLocationStock, nil
	case ViewStockItemDetails:
		if s.LocationID != "" {
			return session.CapLocationStock, nil
		}
		return session.CapEventStock, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// View consumidor montado: su contexto acota todas sus consultas y su suscripción.
type View struct {
	id     string
	spec   ViewSpec
	ctl    *Controller
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	locationID string
	lastErr    error

	ready     chan struct{}
	closeOnce sync.Once
}

// Mount monta una vista: dispara la carga inicial y abre la suscripción de movimientos.
// La vista vive hasta Close o hasta que se cancele parent.
func (c *Controller) Mount(parent context.Context, spec ViewSpec) (*View, error) {
	capability, err := spec.capability()
	if err != nil {
		return nil, err
	}
	sess := c.store.Session()
	if !session.Allows(sess, capability) {
		return nil, domain.ErrForbidden
	}
	switch {
	case spec.EventID == "":
		spec.EventID = sess.EventID
	case spec.EventID != sess.EventID:
		return nil, domain.ErrForbidden
	}
	if (spec.Kind == ViewEventOverview || spec.Kind == ViewMissingItems || spec.Kind == ViewMove) && spec.EventID == "" {
		return nil, domain.ErrNoEventScope
	}

	ctx, cancel := context.WithCancel(parent)
	v := &View{
		id:         uuid.NewString(),
		spec:       spec,
		ctl:        c,
		ctx:        ctx,
		cancel:     cancel,
		locationID: spec.LocationID,
		ready:      make(chan struct{}),
	}

	c.mu.Lock()
	c.views[v.id] = v
	c.mu.Unlock()

	c.log.Debug().Str("view", v.id).Str("kind", string(spec.Kind)).Msg("vista montada")

	go func() {
		err := v.load()
		v.mu.Lock()
		v.lastErr = err
		v.mu.Unlock()
		close(v.ready)
	}()
	go v.listen()
	go func() {
		<-ctx.Done()
		c.forget(v.id)
	}()
	return v, nil
}

// ID identificador de la vista.
func (v *View) ID() string { return v.id }

// Spec parámetros con los que se montó.
func (v *View) Spec() ViewSpec { return v.spec }

// LocationID id interno de la ubicación de la vista (resuelto si vino de un QR).
func (v *View) LocationID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.locationID
}

// Done se cierra cuando la vista se cierra.
func (v *View) Done() <-chan struct{} { return v.ctx.Done() }

// WaitReady espera la carga inicial y devuelve su error.
func (v *View) WaitReady(ctx context.Context) error {
	select {
	case <-v.ready:
		v.mu.Lock()
		defer v.mu.Unlock()
		return v.lastErr
	case <-ctx.Done():
		return ctx.Err()
	case <-v.ctx.Done():
		return domain.ErrViewClosed
	}
}

// Refresh recarga todas las claves de la vista (pull-to-refresh).
func (v *View) Refresh() error {
	if v.ctx.Err() != nil {
		return domain.ErrViewClosed
	}
	return v.load()
}

// Focus recarga al volver la vista a primer plano.
func (v *View) Focus() error { return v.Refresh() }

// Close cancela las consultas en vuelo y la suscripción. Idempotente.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.cancel()
		v.ctl.forget(v.id)
		v.ctl.log.Debug().Str("view", v.id).Msg("vista cerrada")
	})
}

func (v *View) load() error {
	c := v.ctl
	ctx := v.ctx
	eventID := v.spec.EventID

	var g errgroup.Group
	switch v.spec.Kind {
	case ViewEventOverview:
		g.Go(func() error { return c.FetchAllStock(ctx, eventID) })
		g.Go(func() error { return c.FetchAllItems(ctx, eventID) })
	case ViewMissingItems:
		g.Go(func() error { return c.FetchAllStock(ctx, eventID) })
		g.Go(func() error { return c.FetchAllItems(ctx, eventID) })
		g.Go(func() error { return c.FetchLocations(ctx, eventID) })
	case ViewMove:
		g.Go(func() error { return c.FetchLocations(ctx, eventID) })
		if from := v.LocationID(); from != "" {
			g.Go(func() error { return c.FetchLocationStock(ctx, from) })
		}
	case ViewLocationDetails:
		g.Go(func() error {
			loc, err := v.resolveLocation()
			if err != nil {
				return err
			}
			return c.FetchLocationStock(ctx, loc)
		})
	case ViewStockItemDetails:
		if loc := v.LocationID(); loc != "" {
			g.Go(func() error { return c.FetchLocationStock(ctx, loc) })
		} else {
			g.Go(func() error { return c.FetchAllStock(ctx, eventID) })
		}
	}
	err := g.Wait()
	if err != nil && isCancellation(err) {
		return domain.ErrViewClosed
	}
	return err
}

// resolveLocation prioriza el id interno resuelto sobre el de la ubicación escaneada.
func (v *View) resolveLocation() (string, error) {
	if loc := v.LocationID(); loc != "" {
		return loc, nil
	}
	loc, err := v.ctl.ResolveLocation(v.ctx, v.spec.ExternalLocationID)
	if err != nil {
		return "", err
	}
	v.mu.Lock()
	v.locationID = loc.ID
	v.mu.Unlock()
	return loc.ID, nil
}

// listen recarga la vista en cada notificación de movimiento. Sin reconexión:
// si el servidor corta la suscripción, la vista sigue viva y solo refresca a mano.
func (v *View) listen() {
	c := v.ctl
	if c.subs == nil || !session.Allows(c.store.Session(), session.CapSubscribe) {
		return
	}
	var filter string
	if v.spec.Kind == ViewMove {
		filter = v.spec.LocationID
	}
	ch, err := c.subs.SubscribeMovements(v.ctx, filter)
	if err != nil {
		if v.ctx.Err() == nil {
			c.log.Warn().Err(err).Str("view", v.id).Msg("suscripción de movimientos no disponible")
		}
		return
	}
	for {
		select {
		case <-v.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				if v.ctx.Err() == nil {
					c.log.Warn().Str("view", v.id).Err(domain.ErrSubscriptionEnded).Msg("suscripción cerrada")
				}
				return
			}
			c.metrics.MovementNotified()
			go func() {
				if err := v.load(); err != nil && !errors.Is(err, domain.ErrViewClosed) {
					c.log.Error().Err(err).Str("view", v.id).Msg("refetch por movimiento fallido")
				}
			}()
		}
	}
}

// ── Registro de vistas ────────────────────────────────────────────────────────

// View busca una vista montada por id.
func (c *Controller) View(id string) (*View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	return v, ok
}

// Views vistas montadas ordenadas por id.
func (c *Controller) Views() []*View {
	c.mu.Lock()
	out := make([]*View, 0, len(c.views))
	for _, v := range c.views {
		out = append(out, v)
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// CloseViews cierra todas las vistas montadas.
func (c *Controller) CloseViews() {
	for _, v := range c.Views() {
		v.Close()
	}
}

// ResetCache olvida las resoluciones de ubicación cacheadas.
func (c *Controller) ResetCache() {
	c.mu.Lock()
	c.resolved = make(map[string]entity.EventLocation)
	c.mu.Unlock()
}

func (c *Controller) forget(id string) {
	c.mu.Lock()
	delete(c.views, id)
	c.mu.Unlock()
}
