package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

// Estados de un movimiento tras RegisterMovement.
const (
	StatusSkipped   = "skipped"   // no pasó la validación local; no se envió
	StatusOK        = "ok"        // el servidor no devolvió mensajes
	StatusRejected  = "rejected"  // el servidor devolvió mensajes de validación
	StatusFailed    = "failed"    // fallo de transporte
	StatusForbidden = "forbidden" // el permiso vigente no admite la operación
)

// Códigos de aviso para la capa de presentación.
const (
	ToastRelocateSuccess = "relocate.success"
	ToastConsumeSuccess  = "consume.success"
	ToastSupplySuccess   = "supply.success"
	ToastValidation      = "movement.validation"
	ToastNetworkError    = "movement.network_error"
)

// MovementInputDTO entrada de un movimiento.
// RELOCATE: SourceLocationID, DestinationLocationID, ItemID, Amount > 0.
// SUPPLY: DestinationLocationID, ItemID, Amount > 0.
// CONSUME: SourceLocationID, ItemID, Amount con signo (positivo consume, negativo devuelve).
type MovementInputDTO struct {
	Type                  string
	SourceLocationID      string
	DestinationLocationID string
	ItemID                string
	Amount                decimal.Decimal
}

// Outcome resultado de un movimiento.
type Outcome struct {
	Movement entity.Movement
	Status   string
	Messages []entity.ValidationMessage
	Err      error
}

// Submitted indica si el movimiento llegó a enviarse al servidor.
func (o Outcome) Submitted() bool {
	return o.Status != StatusSkipped && o.Status != StatusForbidden
}

// RegisterMovementUseCase envía movimientos al servidor, traduce el resultado a avisos
// y siempre pide refetch de las ubicaciones afectadas. Nunca escribe en el store.
type RegisterMovementUseCase struct {
	api      ports.StockMutations
	refetch  Refetcher
	sessions SessionSource
	notifier ports.Notifier
	metrics  Metrics
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. metrics puede ser nil.
func NewRegisterMovementUseCase(
	api ports.StockMutations,
	refetch Refetcher,
	sessions SessionSource,
	notifier ports.Notifier,
	metrics Metrics,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if notifier == nil {
		notifier = ports.NotifierFunc(func(ports.Toast) {})
	}
	return &RegisterMovementUseCase{
		api:      api,
		refetch:  refetch,
		sessions: sessions,
		notifier: notifier,
		metrics:  metrics,
		log:      log.Component("inventory"),
	}
}

// Relocate traslada amount del ítem entre dos ubicaciones.
func (uc *RegisterMovementUseCase) Relocate(ctx context.Context, sourceLocationID, destinationLocationID, itemID string, amount decimal.Decimal) Outcome {
	return uc.RegisterMovement(ctx, MovementInputDTO{
		Type:                  entity.MovementTypeRelocate,
		SourceLocationID:      sourceLocationID,
		DestinationLocationID: destinationLocationID,
		ItemID:                itemID,
		Amount:                amount,
	})
}

// Consume registra un consumo con signo en una ubicación.
func (uc *RegisterMovementUseCase) Consume(ctx context.Context, locationID, itemID string, signedAmount decimal.Decimal) Outcome {
	return uc.RegisterMovement(ctx, MovementInputDTO{
		Type:             entity.MovementTypeConsume,
		SourceLocationID: locationID,
		ItemID:           itemID,
		Amount:           signedAmount,
	})
}

// Supply registra una entrada desde fuera del sistema en la ubicación destino.
func (uc *RegisterMovementUseCase) Supply(ctx context.Context, destinationLocationID, itemID string, amount decimal.Decimal) Outcome {
	return uc.RegisterMovement(ctx, MovementInputDTO{
		Type:                  entity.MovementTypeSupply,
		DestinationLocationID: destinationLocationID,
		ItemID:                itemID,
		Amount:                amount,
	})
}

// RegisterMovement valida, envía, avisa y pide refetch de las ubicaciones afectadas.
// Un movimiento que no pasa la validación local se omite sin aviso.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) Outcome {
	out := uc.submit(ctx, input)
	if out.Submitted() {
		uc.refetchAffected(ctx, out.Movement.AffectedLocations()...)
	}
	return out
}

// submit hace todo menos el refetch; los lotes piden un único refetch al final.
func (uc *RegisterMovementUseCase) submit(ctx context.Context, input MovementInputDTO) Outcome {
	mov, ok := buildMovement(input)
	if !ok {
		uc.metrics.MovementSubmitted(input.Type, StatusSkipped)
		return Outcome{Movement: mov, Status: StatusSkipped}
	}
	if !session.Allows(uc.sessions.Session(), capabilityFor(mov.Type)) || !uc.inScope(mov) {
		uc.metrics.MovementSubmitted(mov.Type, StatusForbidden)
		return Outcome{Movement: mov, Status: StatusForbidden, Err: domain.ErrForbidden}
	}
	mov.ID = uuid.New().String()

	var (
		msgs []entity.ValidationMessage
		err  error
	)
	switch mov.Type {
	case entity.MovementTypeRelocate:
		msgs, err = uc.api.Relocate(ctx, mov.Amount, mov.SourceLocationID, mov.DestinationLocationID, mov.ItemID)
	case entity.MovementTypeConsume:
		msgs, err = uc.api.Consume(ctx, mov.Amount, mov.SourceLocationID, mov.ItemID)
	case entity.MovementTypeSupply:
		msgs, err = uc.api.Supply(ctx, mov.Amount, mov.DestinationLocationID, mov.ItemID)
	}

	mlog := uc.log.With().Str("movement_id", mov.ID).Str("type", mov.Type).
		Str("item_id", mov.ItemID).Str("amount", mov.Amount.String()).Logger()

	switch {
	case err != nil:
		mlog.Error().Err(err).Msg("movimiento no enviado")
		uc.notifier.Notify(ports.Toast{Kind: ports.ToastError, Code: ToastNetworkError})
		uc.metrics.MovementSubmitted(mov.Type, StatusFailed)
		if !errors.Is(err, domain.ErrTransport) {
			err = errors.Join(domain.ErrTransport, err)
		}
		return Outcome{Movement: mov, Status: StatusFailed, Err: err}
	case len(msgs) > 0:
		texts := make([]string, len(msgs))
		for i, m := range msgs {
			texts[i] = m.String()
			uc.notifier.Notify(ports.Toast{Kind: ports.ToastError, Code: ToastValidation, Text: m.String()})
		}
		mlog.Info().Str("messages", strings.Join(texts, "; ")).Msg("movimiento rechazado")
		uc.metrics.MovementSubmitted(mov.Type, StatusRejected)
		return Outcome{Movement: mov, Status: StatusRejected, Messages: msgs}
	default:
		mlog.Info().Msg("movimiento registrado")
		uc.notifier.Notify(ports.Toast{Kind: ports.ToastSuccess, Code: successCode(mov.Type)})
		uc.metrics.MovementSubmitted(mov.Type, StatusOK)
		return Outcome{Movement: mov, Status: StatusOK}
	}
}

func (uc *RegisterMovementUseCase) inScope(mov entity.Movement) bool {
	scope, ok := uc.refetch.(LocationScope)
	if !ok {
		return true
	}
	for _, id := range mov.AffectedLocations() {
		if !scope.LocationInScope(id) {
			return false
		}
	}
	return true
}

func (uc *RegisterMovementUseCase) refetchAffected(ctx context.Context, locationIDs ...string) {
	if uc.refetch == nil || len(locationIDs) == 0 {
		return
	}
	// El refetch sobrevive a la cancelación del request que disparó la mutación.
	if err := uc.refetch.RefetchAffected(context.WithoutCancel(ctx), locationIDs...); err != nil {
		uc.log.Warn().Err(err).Strs("locations", locationIDs).Msg("refetch tras movimiento fallido")
	}
}

// buildMovement aplica las precondiciones locales.
func buildMovement(in MovementInputDTO) (entity.Movement, bool) {
	mov := entity.Movement{
		Type:                  in.Type,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		ItemID:                in.ItemID,
		Amount:                in.Amount,
	}
	if in.ItemID == "" {
		return mov, false
	}
	switch in.Type {
	case entity.MovementTypeRelocate:
		if in.SourceLocationID == "" || in.DestinationLocationID == "" || !in.Amount.IsPositive() {
			return mov, false
		}
	case entity.MovementTypeSupply:
		mov.SourceLocationID = ""
		if in.DestinationLocationID == "" || !in.Amount.IsPositive() {
			return mov, false
		}
	case entity.MovementTypeConsume:
		mov.DestinationLocationID = ""
		if in.SourceLocationID == "" {
			return mov, false
		}
	default:
		return mov, false
	}
	return mov, true
}

func capabilityFor(movementType string) session.Capability {
	switch movementType {
	case entity.MovementTypeRelocate:
		return session.CapRelocate
	case entity.MovementTypeSupply:
		return session.CapSupply
	default:
		return session.CapConsume
	}
}

func successCode(movementType string) string {
	switch movementType {
	case entity.MovementTypeRelocate:
		return ToastRelocateSuccess
	case entity.MovementTypeSupply:
		return ToastSupplySuccess
	default:
		return ToastConsumeSuccess
	}
}
