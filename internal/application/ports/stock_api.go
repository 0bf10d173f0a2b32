package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// StockQueries puerto de salida de las consultas pull al servidor de logística.
// Cada llamada debe respetar la cancelación del contexto.
type StockQueries interface {
	AllStock(ctx context.Context, eventID string) ([]entity.StockRecord, error)
	AllItems(ctx context.Context, eventID string) ([]entity.Item, error)
	Locations(ctx context.Context, eventID string) ([]entity.Location, error)
	LocationStock(ctx context.Context, locationID string) ([]entity.StockRecord, error)
	// ResolveInternalLocationID traduce el id externo (el del QR) al id interno.
	ResolveInternalLocationID(ctx context.Context, externalLocationID string) (entity.EventLocation, error)
}

// StockMutations puerto de salida de las mutaciones. Una respuesta sin mensajes es éxito;
// el error se reserva para fallos de transporte.
type StockMutations interface {
	Relocate(ctx context.Context, amount decimal.Decimal, sourceLocationID, destinationLocationID, itemID string) ([]entity.ValidationMessage, error)
	Consume(ctx context.Context, amount decimal.Decimal, locationID, itemID string) ([]entity.ValidationMessage, error)
	Supply(ctx context.Context, amount decimal.Decimal, destinationLocationID, itemID string) ([]entity.ValidationMessage, error)
}

// MovementSubscriber puerto de la suscripción push de movimientos.
// El canal entrega una señal vacía por cada movimiento completado en el alcance
// (locationID vacío = todo el evento) y se cierra al cancelar ctx o al terminar el transporte.
type MovementSubscriber interface {
	SubscribeMovements(ctx context.Context, locationID string) (<-chan struct{}, error)
}
