// Package aggregation deriva vistas agrupadas y filtradas del stock en memoria.
// Todas las funciones son puras: no modifican la entrada, se recalculan en cada
// lectura y respetan el orden relativo de la secuencia recibida.
package aggregation

import "github.com/jhoicas/Inventario-eventos/internal/domain/entity"

// Groupable cualquier fila que pertenece a un grupo de ítems (Item o StockRecord).
type Groupable interface {
	GroupKey() (id, name string)
}

// Group partición de filas con la misma identidad de grupo de ítems.
type Group[T Groupable] struct {
	ID       string
	Name     string
	Children []T
}

// GroupByItemGroup particiona rows por grupo de ítems.
// Los grupos aparecen en el orden de su primera ocurrencia y los hijos conservan el orden de entrada;
// la suma de hijos es siempre len(rows).
func GroupByItemGroup[T Groupable](rows []T) []Group[T] {
	groups := make([]Group[T], 0)
	index := make(map[string]int)
	for _, row := range rows {
		id, name := row.GroupKey()
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group[T]{ID: id, Name: name})
		}
		groups[i].Children = append(groups[i].Children, row)
	}
	return groups
}

// Flatten concatena los hijos de los grupos en orden.
func Flatten[T Groupable](groups []Group[T]) []T {
	n := 0
	for _, g := range groups {
		n += len(g.Children)
	}
	out := make([]T, 0, n)
	for _, g := range groups {
		out = append(out, g.Children...)
	}
	return out
}

// LocationAggregate registros de stock de una ubicación para presentación.
type LocationAggregate struct {
	ID         string
	Name       string
	StockItems []entity.StockRecord
}

// GroupByLocation particiona los registros por ubicación, en orden de primera ocurrencia.
func GroupByLocation(records []entity.StockRecord) []LocationAggregate {
	out := make([]LocationAggregate, 0)
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.LocationID]
		if !ok {
			i = len(out)
			index[r.LocationID] = i
			out = append(out, LocationAggregate{ID: r.LocationID, Name: r.LocationName})
		}
		out[i].StockItems = append(out[i].StockItems, r)
	}
	return out
}

// Find busca el registro de un ítem dentro del agregado.
func (a LocationAggregate) Find(itemID string) (entity.StockRecord, bool) {
	for _, r := range a.StockItems {
		if r.ItemID == itemID {
			return r, true
		}
	}
	return entity.StockRecord{}, false
}
