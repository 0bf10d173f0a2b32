// Package store es el único dueño del estado de entidades y sesión del cliente.
// Todas las escrituras pasan por Dispatch con una de las acciones nombradas;
// los lectores obtienen instantáneas completas y se suscriben a cambios.
package store

import (
	"sync"

	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/pkg/notify"
)

// Change notificación emitida tras cada acción aplicada.
type Change struct {
	Version uint64
	Kind    ActionKind
	// LocationID presente en acciones por ubicación.
	LocationID string
}

// Store contenedor de un solo escritor.
type Store struct {
	mu      sync.RWMutex
	state   State
	version uint64
	hub     *notify.Hub[Change]
}

// New construye el store en estado Guest.
func New() *Store {
	return &Store{state: InitialState(), hub: notify.NewHub[Change]()}
}

// Dispatch aplica la acción de forma atómica respecto a los lectores.
func (s *Store) Dispatch(a Action) Change {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.version++
	ch := Change{Version: s.version, Kind: a.kind, LocationID: a.locationID}
	s.mu.Unlock()

	s.hub.Publish(ch)
	return ch
}

// DispatchIf aplica la acción solo si guard acepta el estado actual; guard se
// evalúa bajo el mismo bloqueo que la escritura.
func (s *Store) DispatchIf(guard func(State) bool, a Action) (Change, bool) {
	s.mu.Lock()
	if !guard(s.state) {
		s.mu.Unlock()
		return Change{}, false
	}
	s.state = Reduce(s.state, a)
	s.version++
	ch := Change{Version: s.version, Kind: a.kind, LocationID: a.locationID}
	s.mu.Unlock()

	s.hub.Publish(ch)
	return ch, true
}

// Snapshot devuelve el estado actual completo.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session devuelve solo la sesión actual.
func (s *Store) Session() entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Session
}

// Epoch época de sesión actual.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SessionEpoch
}

// Version número de acciones aplicadas.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registra un consumidor de notificaciones de cambio.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	return s.hub.Subscribe(buffer)
}
