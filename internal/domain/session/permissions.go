package session

import "github.com/jhoicas/Inventario-eventos/internal/domain/entity"

// Capability operación de red que el permiso actual puede emitir.
type Capability string

const (
	CapEventStock    Capability = "event_stock"    // AllStock, AllItems, Locations
	CapLocationStock Capability = "location_stock" // LocationStock, ResolveInternalLocationId
	CapSubscribe     Capability = "subscribe"      // MovementEvents
	CapRelocate      Capability = "relocate"
	CapConsume       Capability = "consume"
	CapSupply        Capability = "supply"
)

var capabilities = map[entity.Permission]map[Capability]bool{
	entity.PermissionGuest: {},
	entity.PermissionEventAdmin: {
		CapEventStock:    true,
		CapLocationStock: true,
		CapSubscribe:     true,
		CapRelocate:      true,
		CapConsume:       true,
		CapSupply:        true,
	},
	entity.PermissionLocationUser: {
		CapLocationStock: true,
		CapSubscribe:     true,
		CapConsume:       true,
	},
}

// Allows indica si la sesión puede emitir la operación.
func Allows(s entity.Session, c Capability) bool {
	return capabilities[s.Permission][c]
}

// Route identificador de una ruta navegable de la capa de presentación.
type Route string

const (
	RouteScanner          Route = "scanner"
	RouteOverview         Route = "overview"          // pestaña/stack de resumen
	RouteOverviewByItem   Route = "overview.by_item"  // solo admin
	RouteOverviewByLoc    Route = "overview.by_location"
	RouteMissingItems     Route = "overview.missing_items"
	RouteStockMatrix      Route = "overview.matrix"
	RouteStockItemDetails Route = "stock_item_details"
	RouteLocationDetails  Route = "location_details"
	RouteItemDetails      Route = "item_details"
	RouteMove             Route = "move"
	RouteSupply           Route = "supply"
)

// RouteSet conjunto de rutas alcanzables.
type RouteSet map[Route]struct{}

// Has indica si la ruta es alcanzable.
func (rs RouteSet) Has(r Route) bool {
	_, ok := rs[r]
	return ok
}

// List devuelve las rutas en un orden estable (el de declaración).
func (rs RouteSet) List() []Route {
	out := make([]Route, 0, len(rs))
	for _, r := range allRoutes {
		if rs.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

var allRoutes = []Route{
	RouteOverview, RouteOverviewByItem, RouteOverviewByLoc, RouteMissingItems, RouteStockMatrix,
	RouteStockItemDetails, RouteLocationDetails, RouteItemDetails,
	RouteMove, RouteSupply, RouteScanner,
}

// ReachableRoutes único punto de decisión de navegación según el permiso.
// El escáner siempre es alcanzable; Guest solo ve el escáner.
func ReachableRoutes(s entity.Session) RouteSet {
	rs := RouteSet{RouteScanner: {}}
	switch s.Permission {
	case entity.PermissionEventAdmin:
		for _, r := range allRoutes {
			rs[r] = struct{}{}
		}
	case entity.PermissionLocationUser:
		rs[RouteOverview] = struct{}{}
		rs[RouteStockItemDetails] = struct{}{}
		rs[RouteLocationDetails] = struct{}{}
	}
	return rs
}
