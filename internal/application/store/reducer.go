package store

import "github.com/jhoicas/Inventario-eventos/internal/domain/entity"

// State contenido normalizado del store. Los valores devueltos por Snapshot
// son inmutables por contrato: el reducer nunca modifica slices ni mapas existentes.
type State struct {
	AllStock      []entity.StockRecord
	AllItems      []entity.Item
	Locations     []entity.LocationGroup
	LocationStock map[string]entity.LocationStock
	Session       entity.Session
	// SessionEpoch se incrementa en cada transición de sesión; las respuestas
	// emitidas en una época anterior se descartan.
	SessionEpoch uint64
}

// InitialState estado Guest sin datos.
func InitialState() State {
	return State{
		AllStock:      []entity.StockRecord{},
		AllItems:      []entity.Item{},
		Locations:     []entity.LocationGroup{},
		LocationStock: map[string]entity.LocationStock{},
		Session:       entity.GuestSession(),
	}
}

// Reduce aplica una acción: (estado anterior, acción) → estado nuevo. Función pura.
// Cada transición de sesión purga los datos de entidades del alcance anterior.
func Reduce(state State, a Action) State {
	switch a.kind {
	case ActionReplaceAllStock:
		state.AllStock = a.stock
	case ActionReplaceAllItems:
		state.AllItems = a.items
	case ActionReplaceLocations:
		state.Locations = a.locations
	case ActionSetLocationStock:
		merged := make(map[string]entity.LocationStock, len(state.LocationStock)+1)
		for k, v := range state.LocationStock {
			merged[k] = v
		}
		merged[a.locationID] = a.locationStock
		state.LocationStock = merged
	case ActionResetSession:
		next := InitialState()
		next.SessionEpoch = state.SessionEpoch + 1
		return next
	case ActionSetEventSession:
		next := InitialState()
		next.SessionEpoch = state.SessionEpoch + 1
		next.Session = entity.Session{
			Permission:   entity.PermissionEventAdmin,
			PermissionID: a.eventID,
			EventID:      a.eventID,
			APIHost:      a.apiHost,
		}
		return next
	case ActionSetLocationSession:
		next := InitialState()
		next.SessionEpoch = state.SessionEpoch + 1
		next.Session = entity.Session{
			Permission:   entity.PermissionLocationUser,
			PermissionID: a.locationID,
			APIHost:      a.apiHost,
		}
		return next
	}
	return state
}
