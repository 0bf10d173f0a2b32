package dto

// ── Stock ─────────────────────────────────────────────────────────────────────

// StockRecordDTO registro de stock tal cual lo calculó el servidor.
type StockRecordDTO struct {
	ItemID        string `json:"item_id"`
	LocationID    string `json:"location_id"`
	Stock         int    `json:"stock"`
	Consumption   int    `json:"consumption"`
	MovementIn    int    `json:"movement_in"`
	MovementOut   int    `json:"movement_out"`
	Supply        int    `json:"supply"`
	MissingCount  int    `json:"missing_count"`
	Status        string `json:"status"` // NORMAL|WARNING|IMPORTANT
	Unit          string `json:"unit"`
	DisplayName   string `json:"display_name"`
	LocationName  string `json:"location_name"`
	ItemGroupID   string `json:"item_group_id"`
	ItemGroupName string `json:"item_group_name"`
}

// StockGroupDTO registros de un grupo de ítems, en el orden del servidor.
type StockGroupDTO struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Items []StockRecordDTO `json:"items"`
}

// LocationStockDTO registros agrupados por ubicación (GET /api/overview/stock-by-location).
type LocationStockDTO struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	StockItems []StockRecordDTO `json:"stock_items"`
}

// LocationDetailDTO stock de una ubicación: lista por stock ascendente, agrupada y
// las opciones de traslado (solo ítems con stock > 0).
type LocationDetailDTO struct {
	LocationID        string           `json:"location_id"`
	Records           []StockRecordDTO `json:"records"`
	Groups            []StockGroupDTO  `json:"groups"`
	RelocationOptions []OptionGroupDTO `json:"relocation_options"`
}

// MissingListDTO faltantes agrupados por grupo de ítems.
type MissingListDTO struct {
	Total  int             `json:"total"`
	Groups []StockGroupDTO `json:"groups"`
}

// ── Catálogo y ubicaciones ────────────────────────────────────────────────────

// ItemDTO ítem del catálogo con su etiqueta "nombre (unidad)".
type ItemDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Label string `json:"label"`
}

// ItemGroupDTO ítems de un grupo.
type ItemGroupDTO struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Items []ItemDTO `json:"items"`
}

// OptionDTO entrada de un selector.
type OptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionGroupDTO sección de un selector.
type OptionGroupDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Options []OptionDTO `json:"options"`
}

// LocationDTO ubicación.
type LocationDTO struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name"`
}

// LocationGroupDTO grupo raíz de ubicaciones (id "0").
type LocationGroupDTO struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Children []LocationDTO `json:"children"`
}

// ── Matriz ítems × ubicaciones ────────────────────────────────────────────────

// MatrixCellDTO celda; present=false si la ubicación no tiene registro del ítem.
type MatrixCellDTO struct {
	Present bool   `json:"present"`
	Stock   int    `json:"stock"`
	Status  string `json:"status,omitempty"`
}

// MatrixRowDTO fila de un ítem.
type MatrixRowDTO struct {
	ItemID string          `json:"item_id"`
	Name   string          `json:"name"`
	Unit   string          `json:"unit"`
	Cells  []MatrixCellDTO `json:"cells"`
}

// MatrixSectionDTO filas de un grupo de ítems.
type MatrixSectionDTO struct {
	GroupID   string         `json:"group_id"`
	GroupName string         `json:"group_name"`
	Rows      []MatrixRowDTO `json:"rows"`
}

// MatrixDTO respuesta de GET /api/overview/matrix. Las celdas siguen el orden de Locations.
type MatrixDTO struct {
	Locations []LocationDTO      `json:"locations"`
	Sections  []MatrixSectionDTO `json:"sections"`
}
