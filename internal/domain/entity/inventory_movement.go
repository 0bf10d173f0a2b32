package entity

import "github.com/shopspring/decimal"

// Tipos de movimiento de stock.
const (
	MovementTypeRelocate = "RELOCATE" // traslado entre ubicaciones
	MovementTypeConsume  = "CONSUME"  // consumo en sitio (delta con signo)
	MovementTypeSupply   = "SUPPLY"   // entrada desde fuera del sistema rastreado
)

// Movement representa una operación de stock lista para enviarse al servidor.
// Para CONSUME solo se usa SourceLocationID; para SUPPLY solo DestinationLocationID.
type Movement struct {
	ID                    string
	Type                  string
	SourceLocationID      string
	DestinationLocationID string
	ItemID                string
	Amount                decimal.Decimal
}

// AffectedLocations ubicaciones cuyo stock cambia con el movimiento.
func (m Movement) AffectedLocations() []string {
	out := make([]string, 0, 2)
	if m.SourceLocationID != "" {
		out = append(out, m.SourceLocationID)
	}
	if m.DestinationLocationID != "" && m.DestinationLocationID != m.SourceLocationID {
		out = append(out, m.DestinationLocationID)
	}
	return out
}

// ValidationMessage rechazo de regla de negocio reportado por el servidor.
type ValidationMessage struct {
	Field   string
	Message string
}

// String formato usado en las notificaciones: "<campo> <mensaje>".
func (m ValidationMessage) String() string {
	if m.Field == "" {
		return m.Message
	}
	return m.Field + " " + m.Message
}
