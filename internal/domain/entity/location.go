package entity

// RootLocationGroupID id del grupo raíz que contiene todas las ubicaciones del evento.
const RootLocationGroupID = "0"

// Location representa un lugar físico que contiene stock. ExternalID es el id que
// codifica el QR de la ubicación; el servidor lo traduce al ID interno.
type Location struct {
	ID         string
	ExternalID string
	Name       string
}

// LocationGroup jerarquía de ubicaciones: un único grupo raíz con sus hijas.
type LocationGroup struct {
	ID       string
	Name     string
	Children []Location
}

// NewLocationHierarchy envuelve las ubicaciones del evento en el grupo raíz.
func NewLocationHierarchy(rootName string, locations []Location) []LocationGroup {
	children := make([]Location, len(locations))
	copy(children, locations)
	return []LocationGroup{{ID: RootLocationGroupID, Name: rootName, Children: children}}
}

// EventLocation respuesta de la resolución de un id externo de ubicación.
type EventLocation struct {
	ID   string
	Name string
}
