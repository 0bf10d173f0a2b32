package stocksync

// QueryKind tipo de consulta pull.
type QueryKind string

const (
	KindAllStock        QueryKind = "all_stock"
	KindAllItems        QueryKind = "all_items"
	KindLocations       QueryKind = "locations"
	KindLocationStock   QueryKind = "location_stock"
	KindResolveLocation QueryKind = "resolve_location"
)

// Key identidad lógica de una consulta: tipo + eventId/locationId.
type Key struct {
	Kind QueryKind `json:"kind"`
	ID   string    `json:"id"`
}

func (k Key) String() string { return string(k.Kind) + ":" + k.ID }

// LoadingChange notificación de cambio de la bandera de carga de una clave.
type LoadingChange struct {
	Key     Key  `json:"key"`
	Loading bool `json:"loading"`
}

// Metrics contadores del controlador; la implementación por defecto no hace nada.
type Metrics interface {
	PullIssued(kind QueryKind)
	PullApplied(kind QueryKind)
	PullDiscarded(kind QueryKind, reason string)
	PullFailed(kind QueryKind)
	MovementNotified()
}

// Motivos de descarte de una respuesta.
const (
	DiscardStale          = "stale"
	DiscardCancelled      = "cancelled"
	DiscardSessionChanged = "session_changed"
)

type nopMetrics struct{}

func (nopMetrics) PullIssued(QueryKind)            {}
func (nopMetrics) PullApplied(QueryKind)           {}
func (nopMetrics) PullDiscarded(QueryKind, string) {}
func (nopMetrics) PullFailed(QueryKind)            {}
func (nopMetrics) MovementNotified()               {}
