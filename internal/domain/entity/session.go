package entity

// Permission modo de permiso activo de la sesión.
type Permission string

// Permisos válidos. Exactamente uno está activo a la vez.
const (
	PermissionGuest        Permission = "GUEST"
	PermissionEventAdmin   Permission = "EVENT_ADMIN"
	PermissionLocationUser Permission = "LOCATION_USER"
)

// Session alcance de permisos actual y los identificadores asociados.
// PermissionID es el eventId (EventAdmin) o el locationId (LocationUser).
type Session struct {
	Permission   Permission
	PermissionID string
	EventID      string
	APIHost      string
}

// GuestSession sesión inicial y tras un reset.
func GuestSession() Session {
	return Session{Permission: PermissionGuest}
}

// IsEventAdmin indica si la sesión administra un evento completo.
func (s Session) IsEventAdmin() bool { return s.Permission == PermissionEventAdmin }

// IsLocationUser indica si la sesión opera una única ubicación.
func (s Session) IsLocationUser() bool { return s.Permission == PermissionLocationUser }
