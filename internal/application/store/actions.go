package store

import "github.com/jhoicas/Inventario-eventos/internal/domain/entity"

// ActionKind nombre de una operación de actualización del store.
type ActionKind string

// Operaciones de actualización permitidas (conjunto cerrado).
const (
	ActionReplaceAllStock    ActionKind = "REPLACE_ALL_STOCK"
	ActionReplaceAllItems    ActionKind = "REPLACE_ALL_ITEMS"
	ActionReplaceLocations   ActionKind = "REPLACE_LOCATIONS"
	ActionSetLocationStock   ActionKind = "SET_LOCATION_STOCK"
	ActionResetSession       ActionKind = "RESET_SESSION"
	ActionSetEventSession    ActionKind = "SET_EVENT_SESSION"
	ActionSetLocationSession ActionKind = "SET_LOCATION_SESSION"
)

// Action describe una actualización. Se construye solo con las funciones de este archivo.
type Action struct {
	kind          ActionKind
	stock         []entity.StockRecord
	items         []entity.Item
	locations     []entity.LocationGroup
	locationID    string
	locationStock entity.LocationStock
	eventID       string
	apiHost       string
}

// Kind nombre de la acción.
func (a Action) Kind() ActionKind { return a.kind }

// LocationID ubicación afectada (SET_LOCATION_STOCK, SET_LOCATION_SESSION).
func (a Action) LocationID() string { return a.locationID }

// ReplaceAllStock reemplaza completo el stock del evento activo.
func ReplaceAllStock(rows []entity.StockRecord) Action {
	return Action{kind: ActionReplaceAllStock, stock: cloneRecords(rows)}
}

// ReplaceAllItems reemplaza completo el catálogo de ítems.
func ReplaceAllItems(items []entity.Item) Action {
	cp := make([]entity.Item, len(items))
	copy(cp, items)
	return Action{kind: ActionReplaceAllItems, items: cp}
}

// ReplaceLocations reemplaza la jerarquía de ubicaciones.
func ReplaceLocations(groups []entity.LocationGroup) Action {
	cp := make([]entity.LocationGroup, len(groups))
	for i, g := range groups {
		children := make([]entity.Location, len(g.Children))
		copy(children, g.Children)
		cp[i] = entity.LocationGroup{ID: g.ID, Name: g.Name, Children: children}
	}
	return Action{kind: ActionReplaceLocations, locations: cp}
}

// SetLocationStock sobrescribe la entrada de una ubicación; las demás se conservan.
func SetLocationStock(locationID string, data entity.LocationStock) Action {
	return Action{
		kind:          ActionSetLocationStock,
		locationID:    locationID,
		locationStock: entity.NewLocationStock(data.Records),
	}
}

// ResetSession vuelve a Guest.
func ResetSession() Action {
	return Action{kind: ActionResetSession}
}

// SetEventSession activa EventAdmin sobre eventID.
func SetEventSession(eventID, apiHost string) Action {
	return Action{kind: ActionSetEventSession, eventID: eventID, apiHost: apiHost}
}

// SetLocationSession activa LocationUser sobre locationID.
func SetLocationSession(locationID, apiHost string) Action {
	return Action{kind: ActionSetLocationSession, locationID: locationID, apiHost: apiHost}
}

func cloneRecords(rows []entity.StockRecord) []entity.StockRecord {
	cp := make([]entity.StockRecord, len(rows))
	copy(cp, rows)
	return cp
}
