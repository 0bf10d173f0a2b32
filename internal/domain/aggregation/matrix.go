package aggregation

import "github.com/jhoicas/Inventario-eventos/internal/domain/entity"

// MatrixCell stock de un ítem en una ubicación; Present=false si no hay registro.
type MatrixCell struct {
	Present bool
	Stock   int
	Status  entity.StockStatus
}

// MatrixRow fila de la grilla: un ítem con una celda por columna de ubicación.
type MatrixRow struct {
	Item  entity.Item
	Cells []MatrixCell
}

// MatrixSection filas de un grupo de ítems.
type MatrixSection struct {
	GroupID   string
	GroupName string
	Rows      []MatrixRow
}

// Matrix grilla ítems × ubicaciones.
type Matrix struct {
	Locations []LocationAggregate
	Sections  []MatrixSection
}

// BuildMatrix cruza el catálogo de ítems (agrupado) con el stock agrupado por ubicación.
func BuildMatrix(items []entity.Item, stock []entity.StockRecord) Matrix {
	locations := GroupByLocation(stock)
	lookup := make([]map[string]entity.StockRecord, len(locations))
	for i, loc := range locations {
		m := make(map[string]entity.StockRecord, len(loc.StockItems))
		for _, r := range loc.StockItems {
			m[r.ItemID] = r
		}
		lookup[i] = m
	}

	groups := GroupByItemGroup(items)
	sections := make([]MatrixSection, 0, len(groups))
	for _, g := range groups {
		sec := MatrixSection{GroupID: g.ID, GroupName: g.Name, Rows: make([]MatrixRow, 0, len(g.Children))}
		for _, item := range g.Children {
			row := MatrixRow{Item: item, Cells: make([]MatrixCell, len(locations))}
			for i := range locations {
				if r, ok := lookup[i][item.ID]; ok {
					row.Cells[i] = MatrixCell{Present: true, Stock: r.Stock, Status: r.Status}
				}
			}
			sec.Rows = append(sec.Rows, row)
		}
		sections = append(sections, sec)
	}
	return Matrix{Locations: locations, Sections: sections}
}
