package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// ── Lotes ─────────────────────────────────────────────────────────────────────

// BatchResult resultados de un lote en el orden de las filas de entrada.
type BatchResult struct {
	Outcomes []Outcome
}

// Submitted filas enviadas al servidor.
func (r BatchResult) Submitted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Submitted() {
			n++
		}
	}
	return n
}

// Skipped filas omitidas por validación local.
func (r BatchResult) Skipped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped {
			n++
		}
	}
	return n
}

// Succeeded filas aceptadas por el servidor sin mensajes.
func (r BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusOK {
			n++
		}
	}
	return n
}

// RelocateBatch traslada varias filas entre el mismo par de ubicaciones. Cada fila es un
// request independiente y concurrente; no hay atomicidad entre filas.
func (uc *RegisterMovementUseCase) RelocateBatch(ctx context.Context, sourceLocationID, destinationLocationID string, rows []dto.AmountRow) BatchResult {
	inputs := make([]MovementInputDTO, len(rows))
	valid := make([]bool, len(rows))
	for i, row := range rows {
		amount, ok := ParseAmount(row.Amount)
		valid[i] = ok
		inputs[i] = MovementInputDTO{
			Type:                  entity.MovementTypeRelocate,
			SourceLocationID:      sourceLocationID,
			DestinationLocationID: destinationLocationID,
			ItemID:                row.ItemID,
			Amount:                amount,
		}
	}
	return uc.SubmitBatch(ctx, inputs, valid)
}

// SupplyBatch abastece varias filas en la ubicación destino.
func (uc *RegisterMovementUseCase) SupplyBatch(ctx context.Context, destinationLocationID string, rows []dto.AmountRow) BatchResult {
	inputs := make([]MovementInputDTO, len(rows))
	valid := make([]bool, len(rows))
	for i, row := range rows {
		amount, ok := ParseAmount(row.Amount)
		valid[i] = ok
		inputs[i] = MovementInputDTO{
			Type:                  entity.MovementTypeSupply,
			DestinationLocationID: destinationLocationID,
			ItemID:                row.ItemID,
			Amount:                amount,
		}
	}
	return uc.SubmitBatch(ctx, inputs, valid)
}

// SubmitBatch envía las filas en paralelo y pide un único refetch con la unión de
// ubicaciones afectadas por las filas enviadas. parsed marca las filas cuyo monto
// se pudo leer; nil equivale a todas.
func (uc *RegisterMovementUseCase) SubmitBatch(ctx context.Context, inputs []MovementInputDTO, parsed []bool) BatchResult {
	outcomes := make([]Outcome, len(inputs))
	var g errgroup.Group
	for i, in := range inputs {
		if parsed != nil && !parsed[i] {
			uc.metrics.MovementSubmitted(in.Type, StatusSkipped)
			outcomes[i] = Outcome{Movement: entity.Movement{Type: in.Type, ItemID: in.ItemID}, Status: StatusSkipped}
			continue
		}
		i, in := i, in
		g.Go(func() error {
			outcomes[i] = uc.submit(ctx, in)
			return nil
		})
	}
	_ = g.Wait()

	var affected []string
	for _, o := range outcomes {
		if o.Submitted() {
			affected = append(affected, o.Movement.AffectedLocations()...)
		}
	}
	uc.refetchAffected(ctx, affected...)

	res := BatchResult{Outcomes: outcomes}
	uc.log.Info().Int("rows", len(inputs)).Int("submitted", res.Submitted()).
		Int("succeeded", res.Succeeded()).Msg("lote de movimientos procesado")
	return res
}

// ── Consumo a valor objetivo ──────────────────────────────────────────────────

// ConsumeToTarget convierte la edición del stock a un valor objetivo en un consumo con
// signo: stock - objetivo. Un objetivo que no parsea se omite sin enviarse.
func (uc *RegisterMovementUseCase) ConsumeToTarget(ctx context.Context, record entity.StockRecord, target string) Outcome {
	delta, ok := ConsumeDelta(record.Stock, target)
	if !ok {
		uc.metrics.MovementSubmitted(entity.MovementTypeConsume, StatusSkipped)
		return Outcome{Movement: entity.Movement{Type: entity.MovementTypeConsume, ItemID: record.ItemID}, Status: StatusSkipped}
	}
	return uc.Consume(ctx, record.LocationID, record.ItemID, delta)
}

// ConsumeDelta devuelve stock - objetivo.
func ConsumeDelta(stock int, target string) (decimal.Decimal, bool) {
	t, ok := ParseAmount(target)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(int64(stock)).Sub(t), true
}

// ParseAmount lee un monto escrito por el usuario. Acepta coma decimal.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ── Mapeo a DTO ───────────────────────────────────────────────────────────────

// ToOutcomeDTO traduce un resultado para la respuesta HTTP.
func ToOutcomeDTO(o Outcome) dto.MovementOutcomeDTO {
	out := dto.MovementOutcomeDTO{
		ID:     o.Movement.ID,
		Type:   o.Movement.Type,
		ItemID: o.Movement.ItemID,
		Status: o.Status,
	}
	if o.Status != StatusSkipped {
		out.Amount = o.Movement.Amount.String()
	}
	for _, m := range o.Messages {
		out.Messages = append(out.Messages, dto.MessageDTO{Field: m.Field, Message: m.Message})
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return out
}

// ToBatchDTO traduce un lote para la respuesta HTTP.
func ToBatchDTO(r BatchResult) dto.BatchResultDTO {
	out := dto.BatchResultDTO{
		Submitted: r.Submitted(),
		Skipped:   r.Skipped(),
		Succeeded: r.Succeeded(),
		Outcomes:  make([]dto.MovementOutcomeDTO, len(r.Outcomes)),
	}
	for i, o := range r.Outcomes {
		out.Outcomes[i] = ToOutcomeDTO(o)
	}
	return out
}
