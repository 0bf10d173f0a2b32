package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrForbidden         = errors.New("acceso denegado para el permiso actual")
	ErrUnrecognizedScan  = errors.New("código escaneado no reconocido")
	ErrNoEventScope      = errors.New("no hay evento activo en la sesión")
	ErrTransport         = errors.New("fallo de transporte con el servidor")
	ErrSubscriptionEnded = errors.New("suscripción finalizada por el servidor")
	ErrViewClosed        = errors.New("la vista fue cerrada")
	ErrUnauthorized      = errors.New("token de sesión inválido o vencido")
)
