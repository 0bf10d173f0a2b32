package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// Refetcher vuelve a pedir las claves afectadas por un movimiento (lo implementa stocksync.Controller).
type Refetcher interface {
	RefetchAffected(ctx context.Context, locationIDs ...string) error
}

// LocationScope acota las ubicaciones que la sesión puede tocar (lo implementa
// stocksync.Controller). Si el Refetcher también lo implementa, cada ubicación afectada
// por un movimiento debe estar en alcance.
type LocationScope interface {
	LocationInScope(locationID string) bool
}

// SessionSource lectura de la sesión vigente (lo implementa store.Store).
type SessionSource interface {
	Session() entity.Session
}

// Metrics contadores de mutaciones por tipo y resultado.
type Metrics interface {
	MovementSubmitted(movementType, status string)
}

type nopMetrics struct{}

func (nopMetrics) MovementSubmitted(string, string) {}
