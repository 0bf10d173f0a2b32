package dto

// AmountRow fila editada en un formulario de lote. Amount llega como texto tal cual lo
// escribió el usuario; una fila que no parsea se omite sin enviarse.
type AmountRow struct {
	ItemID string `json:"item_id"`
	Amount string `json:"amount"`
}

// RelocateRequest body para POST /api/inventory/relocate.
type RelocateRequest struct {
	SourceLocationID      string      `json:"source_location_id"`
	DestinationLocationID string      `json:"destination_location_id"`
	Rows                  []AmountRow `json:"rows"`
}

// SupplyRequest body para POST /api/inventory/supply.
type SupplyRequest struct {
	DestinationLocationID string      `json:"destination_location_id"`
	Rows                  []AmountRow `json:"rows"`
}

// ConsumeRequest body para POST /api/inventory/consume.
// Con Target se consume la diferencia entre el stock actual y el valor objetivo.
type ConsumeRequest struct {
	LocationID string `json:"location_id"`
	ItemID     string `json:"item_id"`
	Amount     string `json:"amount,omitempty"`
	Target     string `json:"target,omitempty"`
}

// MovementOutcomeDTO resultado de una fila enviada (o omitida).
type MovementOutcomeDTO struct {
	ID       string       `json:"id,omitempty"`
	Type     string       `json:"type"`
	ItemID   string       `json:"item_id"`
	Amount   string       `json:"amount,omitempty"`
	Status   string       `json:"status"` // skipped|ok|rejected|failed|forbidden
	Messages []MessageDTO `json:"messages,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// BatchResultDTO resumen de un lote: Submitted = filas enviadas (N - omitidas).
type BatchResultDTO struct {
	Submitted int                  `json:"submitted"`
	Skipped   int                  `json:"skipped"`
	Succeeded int                  `json:"succeeded"`
	Outcomes  []MovementOutcomeDTO `json:"outcomes"`
}

// SupplyPlanRowDTO fila prellenada del plan "abastecer todo" a partir de faltantes.
type SupplyPlanRowDTO struct {
	ItemID       string `json:"item_id"`
	DisplayName  string `json:"display_name"`
	Unit         string `json:"unit"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	MissingCount int    `json:"missing_count"`
	Amount       string `json:"amount"`   // prellenado con el faltante
	Priority     int    `json:"priority"` // 1 = mayor faltante
}
