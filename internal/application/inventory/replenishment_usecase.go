package inventory

import (
	"context"
	"sort"
	"strconv"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
)

// StockSnapshot lectura consistente del store.
type StockSnapshot interface {
	Snapshot() store.State
}

// SupplyPlanUseCase arma el plan "abastecer todo" de una ubicación a partir de los
// faltantes del stock del evento y lo envía como lote de Supply.
type SupplyPlanUseCase struct {
	stock     StockSnapshot
	movements *RegisterMovementUseCase
}

// NewSupplyPlanUseCase construye el caso de uso de plan de abastecimiento.
func NewSupplyPlanUseCase(stock StockSnapshot, movements *RegisterMovementUseCase) *SupplyPlanUseCase {
	return &SupplyPlanUseCase{stock: stock, movements: movements}
}

// GeneratePlan devuelve una fila por faltante positivo que cumpla el filtro, con el monto
// prellenado con el faltante. Orden: mayor faltante primero; empate por orden de entrada.
func (uc *SupplyPlanUseCase) GeneratePlan(filter aggregation.MissingFilter) ([]dto.SupplyPlanRowDTO, error) {
	st := uc.stock.Snapshot()
	if !session.Allows(st.Session, session.CapEventStock) {
		return nil, domain.ErrForbidden
	}

	missing := aggregation.FilterMissing(st.AllStock, filter)
	rows := make([]dto.SupplyPlanRowDTO, 0, len(missing))
	for _, r := range missing {
		if r.MissingCount <= 0 {
			continue
		}
		rows = append(rows, planRow(r))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MissingCount > rows[j].MissingCount })
	for i := range rows {
		rows[i].Priority = i + 1
	}
	return rows, nil
}

// SupplyAll envía el plan a la ubicación del filtro. Sin ubicación no hay destino.
func (uc *SupplyPlanUseCase) SupplyAll(ctx context.Context, locationID string) (BatchResult, error) {
	if locationID == "" {
		return BatchResult{}, domain.ErrInvalidInput
	}
	plan, err := uc.GeneratePlan(aggregation.MissingFilter{LocationID: locationID})
	if err != nil {
		return BatchResult{}, err
	}
	rows := make([]dto.AmountRow, len(plan))
	for i, p := range plan {
		rows[i] = dto.AmountRow{ItemID: p.ItemID, Amount: p.Amount}
	}
	return uc.movements.SupplyBatch(ctx, locationID, rows), nil
}

func planRow(r entity.StockRecord) dto.SupplyPlanRowDTO {
	return dto.SupplyPlanRowDTO{
		ItemID:       r.ItemID,
		DisplayName:  r.DisplayName,
		Unit:         r.Unit,
		LocationID:   r.LocationID,
		LocationName: r.LocationName,
		MissingCount: r.MissingCount,
		Amount:       strconv.Itoa(r.MissingCount),
	}
}
