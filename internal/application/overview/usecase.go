// Package overview contiene las lecturas de presentación: vistas agrupadas, filtradas
// y la matriz de stock, recalculadas desde la instantánea del store en cada llamada.
package overview

import (
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

// UseCase lecturas del resumen del evento y de ubicaciones.
//
// Nunca dispara consultas: lo que no esté cargado se devuelve vacío (o ErrNotFound
// para una ubicación puntual). Las cargas las hacen las vistas montadas.
type UseCase struct {
	stock StockSnapshot
}

// NewUseCase construye el caso de uso.
func NewUseCase(stock StockSnapshot) *UseCase {
	return &UseCase{stock: stock}
}

// ── Evento completo (EventAdmin) ──────────────────────────────────────────────

// StockByItem stock del evento agrupado por grupo de ítems.
func (uc *UseCase) StockByItem() ([]dto.StockGroupDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	return toStockGroups(aggregation.GroupByItemGroup(st.AllStock)), nil
}

// StockByLocation stock del evento agrupado por ubicación.
func (uc *UseCase) StockByLocation() ([]dto.LocationStockDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	locs := aggregation.GroupByLocation(st.AllStock)
	out := make([]dto.LocationStockDTO, len(locs))
	for i, l := range locs {
		out[i] = dto.LocationStockDTO{ID: l.ID, Name: l.Name, StockItems: toRecords(l.StockItems)}
	}
	return out, nil
}

// Items catálogo agrupado con etiquetas "nombre (unidad)".
func (uc *UseCase) Items() ([]dto.ItemGroupDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	groups := aggregation.GroupByItemGroup(st.AllItems)
	options := aggregation.ItemOptions(st.AllItems)
	out := make([]dto.ItemGroupDTO, len(groups))
	for i, g := range groups {
		items := make([]dto.ItemDTO, len(g.Children))
		for j, it := range g.Children {
			items[j] = dto.ItemDTO{ID: it.ID, Name: it.Name, Unit: it.Unit, Label: options[i].Children[j].Label}
		}
		out[i] = dto.ItemGroupDTO{ID: g.ID, Name: g.Name, Items: items}
	}
	return out, nil
}

// ItemOptions selector de ítems para Supply (todo el catálogo).
func (uc *UseCase) ItemOptions() ([]dto.OptionGroupDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	return toOptionGroups(aggregation.ItemOptions(st.AllItems)), nil
}

// Matrix grilla ítems × ubicaciones.
func (uc *UseCase) Matrix() (*dto.MatrixDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	m := aggregation.BuildMatrix(st.AllItems, st.AllStock)

	out := &dto.MatrixDTO{
		Locations: make([]dto.LocationDTO, len(m.Locations)),
		Sections:  make([]dto.MatrixSectionDTO, len(m.Sections)),
	}
	for i, l := range m.Locations {
		out.Locations[i] = dto.LocationDTO{ID: l.ID, Name: l.Name}
	}
	for i, sec := range m.Sections {
		rows := make([]dto.MatrixRowDTO, len(sec.Rows))
		for j, row := range sec.Rows {
			cells := make([]dto.MatrixCellDTO, len(row.Cells))
			for k, cell := range row.Cells {
				cells[k] = dto.MatrixCellDTO{Present: cell.Present, Stock: cell.Stock, Status: string(cell.Status)}
			}
			rows[j] = dto.MatrixRowDTO{ItemID: row.Item.ID, Name: row.Item.Name, Unit: row.Item.Unit, Cells: cells}
		}
		out.Sections[i] = dto.MatrixSectionDTO{GroupID: sec.GroupID, GroupName: sec.GroupName, Rows: rows}
	}
	return out, nil
}

// Locations jerarquía de ubicaciones del evento.
func (uc *UseCase) Locations() ([]dto.LocationGroupDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationGroupDTO, len(st.Locations))
	for i, g := range st.Locations {
		children := make([]dto.LocationDTO, len(g.Children))
		for j, l := range g.Children {
			children[j] = dto.LocationDTO{ID: l.ID, ExternalID: l.ExternalID, Name: l.Name}
		}
		out[i] = dto.LocationGroupDTO{ID: g.ID, Name: g.Name, Children: children}
	}
	return out, nil
}

// Missing faltantes (missingCount != 0) con filtros opcionales, agrupados.
func (uc *UseCase) Missing(filter aggregation.MissingFilter) (*dto.MissingListDTO, error) {
	st, err := uc.snapshot(session.CapEventStock)
	if err != nil {
		return nil, err
	}
	missing := aggregation.FilterMissing(st.AllStock, filter)
	return &dto.MissingListDTO{
		Total:  len(missing),
		Groups: toStockGroups(aggregation.GroupByItemGroup(missing)),
	}, nil
}

// ── Ubicación puntual (EventAdmin o LocationUser) ─────────────────────────────

// LocationStock detalle de una ubicación ya cargada en el store.
//
// Retorna:
//   - domain.ErrForbidden  si la sesión no consulta stock por ubicación.
//   - domain.ErrNotFound   si la ubicación aún no se cargó.
func (uc *UseCase) LocationStock(locationID string) (*dto.LocationDetailDTO, error) {
	st, err := uc.snapshot(session.CapLocationStock)
	if err != nil {
		return nil, err
	}
	ls, ok := st.LocationStock[locationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &dto.LocationDetailDTO{
		LocationID:        locationID,
		Records:           toRecords(aggregation.SortByStock(ls.Records)),
		Groups:            toStockGroups(aggregation.GroupByItemGroup(ls.Records)),
		RelocationOptions: toOptionGroups(aggregation.RelocationOptions(ls)),
	}, nil
}

// Record registro de un ítem en una ubicación cargada (consumo a valor objetivo).
func (uc *UseCase) Record(locationID, itemID string) (entity.StockRecord, error) {
	st, err := uc.snapshot(session.CapLocationStock)
	if err != nil {
		return entity.StockRecord{}, err
	}
	r, ok := st.LocationStock[locationID].ItemByID[itemID]
	if !ok {
		return entity.StockRecord{}, domain.ErrNotFound
	}
	return r, nil
}

func (uc *UseCase) snapshot(c session.Capability) (store.State, error) {
	st := uc.stock.Snapshot()
	if !session.Allows(st.Session, c) {
		return store.State{}, domain.ErrForbidden
	}
	return st, nil
}

// ── Mapeo a DTO ───────────────────────────────────────────────────────────────

// ToRecordDTO traduce un registro de stock.
func ToRecordDTO(r entity.StockRecord) dto.StockRecordDTO {
	return dto.StockRecordDTO{
		ItemID:        r.ItemID,
		LocationID:    r.LocationID,
		Stock:         r.Stock,
		Consumption:   r.Consumption,
		MovementIn:    r.MovementIn,
		MovementOut:   r.MovementOut,
		Supply:        r.Supply,
		MissingCount:  r.MissingCount,
		Status:        string(r.Status),
		Unit:          r.Unit,
		DisplayName:   r.DisplayName,
		LocationName:  r.LocationName,
		ItemGroupID:   r.ItemGroupID,
		ItemGroupName: r.ItemGroupName,
	}
}

func toRecords(rows []entity.StockRecord) []dto.StockRecordDTO {
	out := make([]dto.StockRecordDTO, len(rows))
	for i, r := range rows {
		out[i] = ToRecordDTO(r)
	}
	return out
}

func toStockGroups(groups []aggregation.Group[entity.StockRecord]) []dto.StockGroupDTO {
	out := make([]dto.StockGroupDTO, len(groups))
	for i, g := range groups {
		out[i] = dto.StockGroupDTO{ID: g.ID, Name: g.Name, Items: toRecords(g.Children)}
	}
	return out
}

func toOptionGroups(groups []aggregation.OptionGroup) []dto.OptionGroupDTO {
	out := make([]dto.OptionGroupDTO, len(groups))
	for i, g := range groups {
		opts := make([]dto.OptionDTO, len(g.Children))
		for j, o := range g.Children {
			opts[j] = dto.OptionDTO{Value: o.Value, Label: o.Label}
		}
		out[i] = dto.OptionGroupDTO{ID: g.ID, Name: g.Name, Options: opts}
	}
	return out
}
