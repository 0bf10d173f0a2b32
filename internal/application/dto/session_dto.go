package dto

// ScanRequest body para POST /api/session/scan: texto decodificado del QR.
type ScanRequest struct {
	Code string `json:"code"`
}

// SessionResponse sesión vigente y rutas que habilita.
type SessionResponse struct {
	Permission   string   `json:"permission"`
	PermissionID string   `json:"permission_id,omitempty"`
	EventID      string   `json:"event_id,omitempty"`
	APIHost      string   `json:"api_host,omitempty"`
	Epoch        uint64   `json:"epoch"`
	Routes       []string `json:"routes"`
	Token        string   `json:"token,omitempty"`
}
