package entity

// ItemGroup agrupa ítems solo para el orden de presentación (sin efecto en el comportamiento).
type ItemGroup struct {
	ID   string
	Name string
}

// Item representa un bien rastreable dentro de un evento.
type Item struct {
	ID        string
	Name      string
	Unit      string
	ItemGroup ItemGroup
}

// GroupKey identidad del grupo del ítem.
func (i Item) GroupKey() (id, name string) {
	if i.ItemGroup.ID != "" {
		return i.ItemGroup.ID, i.ItemGroup.Name
	}
	return i.ItemGroup.Name, i.ItemGroup.Name
}
