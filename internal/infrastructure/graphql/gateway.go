package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// Verificar en tiempo de compilación que StockGateway implementa los puertos.
var (
	_ ports.StockQueries   = (*StockGateway)(nil)
	_ ports.StockMutations = (*StockGateway)(nil)
)

// StockGateway implementa las consultas y mutaciones de stock sobre Client.
type StockGateway struct {
	client *Client
}

// NewStockGateway construye el gateway.
func NewStockGateway(client *Client) *StockGateway {
	return &StockGateway{client: client}
}

// ── Estructuras de respuesta ──────────────────────────────────────────────────

type groupNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stockNode struct {
	ItemID       string     `json:"itemId"`
	LocationID   string     `json:"locationId"`
	Stock        float64    `json:"stock"`
	Consumption  float64    `json:"consumption"`
	MovementIn   float64    `json:"movementIn"`
	MovementOut  float64    `json:"movementOut"`
	Supply       float64    `json:"supply"`
	MissingCount float64    `json:"missingCount"`
	Status       string     `json:"status"`
	Unit         string     `json:"unit"`
	Name         string     `json:"name"`
	LocationName string     `json:"locationName"`
	ItemGroup    *groupNode `json:"itemGroup"`
}

type itemNode struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Unit      string     `json:"unit"`
	ItemGroup *groupNode `json:"itemGroup"`
}

type locationNode struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
}

// connection lista paginada estilo Relay; algunos servidores devuelven nodes en vez de edges.
type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
	Nodes []T `json:"nodes"`
}

func (c connection[T]) items() []T {
	out := make([]T, 0, len(c.Edges)+len(c.Nodes))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return append(out, c.Nodes...)
}

type eventEnvelope struct {
	Event *struct {
		Typename  string                   `json:"__typename"`
		Stock     []stockNode              `json:"stock"`
		Items     connection[itemNode]     `json:"items"`
		Locations connection[locationNode] `json:"locations"`
	} `json:"event"`
}

type messagesPayload struct {
	Messages []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"messages"`
}

func (p *messagesPayload) toEntity() []entity.ValidationMessage {
	if p == nil {
		return nil
	}
	out := make([]entity.ValidationMessage, 0, len(p.Messages))
	for _, m := range p.Messages {
		out = append(out, entity.ValidationMessage{Field: m.Field, Message: m.Message})
	}
	return out
}

func toCount(f float64) int {
	return int(math.Round(f))
}

func (n stockNode) toEntity() entity.StockRecord {
	r := entity.StockRecord{
		ItemID:       n.ItemID,
		LocationID:   n.LocationID,
		Stock:        toCount(n.Stock),
		Consumption:  toCount(n.Consumption),
		MovementIn:   toCount(n.MovementIn),
		MovementOut:  toCount(n.MovementOut),
		Supply:       toCount(n.Supply),
		MissingCount: toCount(n.MissingCount),
		Status:       entity.StockStatus(n.Status),
		Unit:         n.Unit,
		DisplayName:  n.Name,
		LocationName: n.LocationName,
	}
	if n.ItemGroup != nil {
		r.ItemGroupID = n.ItemGroup.ID
		r.ItemGroupName = n.ItemGroup.Name
	}
	return r
}

func toRecords(nodes []stockNode) []entity.StockRecord {
	out := make([]entity.StockRecord, len(nodes))
	for i, n := range nodes {
		out[i] = n.toEntity()
	}
	return out
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (g *StockGateway) event(ctx context.Context, operation, query, eventID string) (*eventEnvelope, error) {
	var env eventEnvelope
	if err := g.client.Do(ctx, operation, query, map[string]any{"eventId": eventID}, &env); err != nil {
		return nil, err
	}
	if env.Event == nil || (env.Event.Typename != "" && env.Event.Typename != "Event") {
		return nil, fmt.Errorf("evento %s: %w", eventID, domain.ErrNotFound)
	}
	return &env, nil
}

// AllStock stock de todas las ubicaciones del evento.
func (g *StockGateway) AllStock(ctx context.Context, eventID string) ([]entity.StockRecord, error) {
	env, err := g.event(ctx, "AllStock", allStockQuery, eventID)
	if err != nil {
		return nil, err
	}
	return toRecords(env.Event.Stock), nil
}

// AllItems catálogo de ítems del evento.
func (g *StockGateway) AllItems(ctx context.Context, eventID string) ([]entity.Item, error) {
	env, err := g.event(ctx, "AllItems", allItemsQuery, eventID)
	if err != nil {
		return nil, err
	}
	nodes := env.Event.Items.items()
	out := make([]entity.Item, len(nodes))
	for i, n := range nodes {
		out[i] = entity.Item{ID: n.ID, Name: n.Name, Unit: n.Unit}
		if n.ItemGroup != nil {
			out[i].ItemGroup = entity.ItemGroup{ID: n.ItemGroup.ID, Name: n.ItemGroup.Name}
		}
	}
	return out, nil
}

// Locations ubicaciones del evento.
func (g *StockGateway) Locations(ctx context.Context, eventID string) ([]entity.Location, error) {
	env, err := g.event(ctx, "Locations", locationsQuery, eventID)
	if err != nil {
		return nil, err
	}
	nodes := env.Event.Locations.items()
	out := make([]entity.Location, len(nodes))
	for i, n := range nodes {
		out[i] = entity.Location{ID: n.ID, ExternalID: n.ExternalID, Name: n.Name}
	}
	return out, nil
}

// LocationStock stock de una ubicación (id interno).
func (g *StockGateway) LocationStock(ctx context.Context, locationID string) ([]entity.StockRecord, error) {
	var data struct {
		LocationStock []stockNode `json:"locationStock"`
	}
	if err := g.client.Do(ctx, "LocationStock", locationStockQuery, map[string]any{"locationId": locationID}, &data); err != nil {
		return nil, err
	}
	return toRecords(data.LocationStock), nil
}

// ResolveInternalLocationID traduce el id externo del QR al id interno de la ubicación.
func (g *StockGateway) ResolveInternalLocationID(ctx context.Context, externalLocationID string) (entity.EventLocation, error) {
	var data struct {
		EventLocation *locationNode `json:"eventLocation"`
	}
	if err := g.client.Do(ctx, "EventLocation", eventLocationQuery, map[string]any{"externalId": externalLocationID}, &data); err != nil {
		return entity.EventLocation{}, err
	}
	if data.EventLocation == nil || data.EventLocation.ID == "" {
		return entity.EventLocation{}, fmt.Errorf("ubicación %s: %w", externalLocationID, domain.ErrNotFound)
	}
	return entity.EventLocation{ID: data.EventLocation.ID, Name: data.EventLocation.Name}, nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// amountJSON envía el monto como número JSON, no como string.
func amountJSON(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Relocate traslada stock entre ubicaciones.
func (g *StockGateway) Relocate(ctx context.Context, amount decimal.Decimal, sourceLocationID, destinationLocationID, itemID string) ([]entity.ValidationMessage, error) {
	var data struct {
		Relocate *messagesPayload `json:"relocate"`
	}
	input := map[string]any{
		"amount":                amountJSON(amount),
		"sourceLocationId":      sourceLocationID,
		"destinationLocationId": destinationLocationID,
		"itemId":                itemID,
	}
	if err := g.client.Do(ctx, "Relocate", relocateMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return data.Relocate.toEntity(), nil
}

// Consume registra un consumo con signo.
func (g *StockGateway) Consume(ctx context.Context, amount decimal.Decimal, locationID, itemID string) ([]entity.ValidationMessage, error) {
	var data struct {
		Consume *messagesPayload `json:"consume"`
	}
	input := map[string]any{
		"amount":     amountJSON(amount),
		"locationId": locationID,
		"itemId":     itemID,
	}
	if err := g.client.Do(ctx, "Consume", consumeMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return data.Consume.toEntity(), nil
}

// Supply registra una entrada de stock desde fuera del evento.
func (g *StockGateway) Supply(ctx context.Context, amount decimal.Decimal, destinationLocationID, itemID string) ([]entity.ValidationMessage, error) {
	var data struct {
		Supply *messagesPayload `json:"supply"`
	}
	input := map[string]any{
		"amount":                amountJSON(amount),
		"destinationLocationId": destinationLocationID,
		"itemId":                itemID,
	}
	if err := g.client.Do(ctx, "Supply", supplyMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return data.Supply.toEntity(), nil
}
