// Package session implementa la máquina de estados de permisos:
// interpretación del texto escaneado, capacidades y rutas alcanzables.
package session

import (
	"regexp"

	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// Formatos de código QR reconocidos (mutuamente excluyentes).
//
//	https://<host>/vendor/locations/<locationId>
//	https://<host>/logistics/events/<eventId>/overview
var (
	locationRefRe = regexp.MustCompile(`^https://(.+)/vendor/locations/([0-9A-Za-z-]+)$`)
	eventRefRe    = regexp.MustCompile(`^https://(.+)/logistics/events/([0-9A-Za-z-]+)/overview$`)
)

// Context resultado de interpretar un código escaneado.
type Context struct {
	Permission entity.Permission
	ID         string // eventId o locationId según Permission
	APIHost    string
}

// Session sesión completa que produce el escaneo.
func (c Context) Session() entity.Session {
	s := entity.Session{
		Permission:   c.Permission,
		PermissionID: c.ID,
		APIHost:      c.APIHost,
	}
	if c.Permission == entity.PermissionEventAdmin {
		s.EventID = c.ID
	}
	return s
}

// Parse interpreta el texto decodificado de un QR.
// La referencia de ubicación se evalúa primero; si ninguna coincide devuelve ErrUnrecognizedScan.
// El texto se evalúa tal cual: espacios alrededor no se recortan.
func Parse(scanned string) (Context, error) {
	if m := locationRefRe.FindStringSubmatch(scanned); m != nil {
		return Context{Permission: entity.PermissionLocationUser, ID: m[2], APIHost: m[1]}, nil
	}
	if m := eventRefRe.FindStringSubmatch(scanned); m != nil {
		return Context{Permission: entity.PermissionEventAdmin, ID: m[2], APIHost: m[1]}, nil
	}
	return Context{}, domain.ErrUnrecognizedScan
}

// LocationReference construye el texto del QR de una ubicación (etiquetas imprimibles).
func LocationReference(host, locationID string) string {
	return "https://" + host + "/vendor/locations/" + locationID
}

// EventReference construye el texto del QR de administración de un evento.
func EventReference(host, eventID string) string {
	return "https://" + host + "/logistics/events/" + eventID + "/overview"
}
