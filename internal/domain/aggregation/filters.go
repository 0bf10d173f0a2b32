package aggregation

import (
	"sort"

	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// MissingFilter filtros opcionales del listado de faltantes; vacío = sin restricción.
type MissingFilter struct {
	LocationID string
	ItemID     string
}

// FilterMissing selecciona los registros con MissingCount != 0 que cumplen
// ambos filtros (AND). Un filtro vacío no restringe.
func FilterMissing(records []entity.StockRecord, f MissingFilter) []entity.StockRecord {
	out := make([]entity.StockRecord, 0)
	for _, r := range records {
		if r.MissingCount == 0 {
			continue
		}
		if f.LocationID != "" && r.LocationID != f.LocationID {
			continue
		}
		if f.ItemID != "" && r.ItemID != f.ItemID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByStock devuelve una copia ordenada por stock ascendente (estable).
func SortByStock(records []entity.StockRecord) []entity.StockRecord {
	out := make([]entity.StockRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out
}

// AvailableForRelocation registros con stock > 0, candidatos a trasladarse desde la ubicación.
func AvailableForRelocation(ls entity.LocationStock) []entity.StockRecord {
	out := make([]entity.StockRecord, 0, len(ls.Records))
	for _, r := range ls.Records {
		if r.Stock > 0 {
			out = append(out, r)
		}
	}
	return out
}
