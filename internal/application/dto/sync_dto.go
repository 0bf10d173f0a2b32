package dto

// MountViewRequest body para POST /api/views.
type MountViewRequest struct {
	Kind               string `json:"kind"` // event_overview|missing_items|move|location_details|stock_item_details
	EventID            string `json:"event_id,omitempty"`
	LocationID         string `json:"location_id,omitempty"`
	ExternalLocationID string `json:"external_location_id,omitempty"`
}

// ViewResponse vista montada.
type ViewResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	LocationID string `json:"location_id,omitempty"` // id interno resuelto
}

// LoadingKeyDTO clave de consulta con una carga en vuelo.
type LoadingKeyDTO struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// LoadingResponse respuesta de GET /api/sync/loading.
type LoadingResponse struct {
	Loading []LoadingKeyDTO `json:"loading"`
}

// StreamEvent evento del canal SSE (/api/events).
// Type: store|loading|toast.
type StreamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StoreChangeDTO notificación de cambio del store.
type StoreChangeDTO struct {
	Version    uint64 `json:"version"`
	Action     string `json:"action"`
	LocationID string `json:"location_id,omitempty"`
}

// LoadingChangeDTO cambio de una bandera de carga.
type LoadingChangeDTO struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Loading bool   `json:"loading"`
}
