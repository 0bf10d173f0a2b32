package aggregation

import (
	"fmt"

	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// Option entrada de un selector: valor y etiqueta visible.
type Option struct {
	Value string
	Label string
}

// OptionGroup sección de un selector.
type OptionGroup struct {
	ID       string
	Name     string
	Children []Option
}

// ItemOptions opciones "nombre (unidad)" del catálogo, agrupadas.
func ItemOptions(items []entity.Item) []OptionGroup {
	groups := GroupByItemGroup(items)
	out := make([]OptionGroup, 0, len(groups))
	for _, g := range groups {
		og := OptionGroup{ID: g.ID, Name: g.Name, Children: make([]Option, 0, len(g.Children))}
		for _, it := range g.Children {
			og.Children = append(og.Children, Option{Value: it.ID, Label: fmt.Sprintf("%s (%s)", it.Name, it.Unit)})
		}
		out = append(out, og)
	}
	return out
}

// RelocationOptions opciones "nombre (unidad) [stock]" de una ubicación origen, solo con stock > 0.
func RelocationOptions(ls entity.LocationStock) []OptionGroup {
	groups := GroupByItemGroup(AvailableForRelocation(ls))
	out := make([]OptionGroup, 0, len(groups))
	for _, g := range groups {
		og := OptionGroup{ID: g.ID, Name: g.Name, Children: make([]Option, 0, len(g.Children))}
		for _, r := range g.Children {
			og.Children = append(og.Children, Option{
				Value: r.ItemID,
				Label: fmt.Sprintf("%s (%s) [%d]", r.DisplayName, r.Unit, r.Stock),
			})
		}
		out = append(out, og)
	}
	return out
}
