package entity

// StockStatus clasificación de un registro de stock calculada por el servidor.
// El cliente la reenvía tal cual; nunca la deriva.
type StockStatus string

const (
	StockStatusNormal    StockStatus = "NORMAL"
	StockStatusWarning   StockStatus = "WARNING"
	StockStatusImportant StockStatus = "IMPORTANT"
)

// StockRecord representa la cantidad y estado de un ítem en una ubicación.
// Identidad compuesta: (ItemID, LocationID).
type StockRecord struct {
	ItemID        string
	LocationID    string
	Stock         int // siempre >= 0
	Consumption   int
	MovementIn    int
	MovementOut   int
	Supply        int
	MissingCount  int // faltante calculado por el servidor
	Status        StockStatus
	Unit          string
	DisplayName   string
	LocationName  string
	ItemGroupID   string
	ItemGroupName string
}

// Key devuelve la identidad compuesta del registro.
func (r StockRecord) Key() string {
	return r.ItemID + "@" + r.LocationID
}

// GroupKey identidad del grupo de ítems; el nombre sirve de respaldo si el servidor no envía id.
func (r StockRecord) GroupKey() (id, name string) {
	if r.ItemGroupID != "" {
		return r.ItemGroupID, r.ItemGroupName
	}
	return r.ItemGroupName, r.ItemGroupName
}

// LocationStock es el stock de una ubicación indexado por ItemID.
// Records conserva el orden en que el servidor devolvió los registros.
type LocationStock struct {
	Records  []StockRecord
	ItemByID map[string]StockRecord
}

// NewLocationStock construye el índice a partir de los registros de una ubicación.
// Si el servidor repite un ItemID, prevalece el último registro.
func NewLocationStock(records []StockRecord) LocationStock {
	ordered := make([]StockRecord, 0, len(records))
	pos := make(map[string]int, len(records))
	for _, r := range records {
		if i, ok := pos[r.ItemID]; ok {
			ordered[i] = r
			continue
		}
		pos[r.ItemID] = len(ordered)
		ordered = append(ordered, r)
	}
	byID := make(map[string]StockRecord, len(ordered))
	for _, r := range ordered {
		byID[r.ItemID] = r
	}
	return LocationStock{Records: ordered, ItemByID: byID}
}
