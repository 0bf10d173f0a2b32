// Package mocks dobles de los puertos de aplicación con testify/mock.
package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

// StockAPI implementa ports.StockQueries y ports.StockMutations.
type StockAPI struct {
	mock.Mock
}

var (
	_ ports.StockQueries   = (*StockAPI)(nil)
	_ ports.StockMutations = (*StockAPI)(nil)
)

func (m *StockAPI) AllStock(ctx context.Context, eventID string) ([]entity.StockRecord, error) {
	args := m.Called(ctx, eventID)
	rows, _ := args.Get(0).([]entity.StockRecord)
	return rows, args.Error(1)
}

func (m *StockAPI) AllItems(ctx context.Context, eventID string) ([]entity.Item, error) {
	args := m.Called(ctx, eventID)
	items, _ := args.Get(0).([]entity.Item)
	return items, args.Error(1)
}

func (m *StockAPI) Locations(ctx context.Context, eventID string) ([]entity.Location, error) {
	args := m.Called(ctx, eventID)
	locs, _ := args.Get(0).([]entity.Location)
	return locs, args.Error(1)
}

func (m *StockAPI) LocationStock(ctx context.Context, locationID string) ([]entity.StockRecord, error) {
	args := m.Called(ctx, locationID)
	rows, _ := args.Get(0).([]entity.StockRecord)
	return rows, args.Error(1)
}

func (m *StockAPI) ResolveInternalLocationID(ctx context.Context, externalLocationID string) (entity.EventLocation, error) {
	args := m.Called(ctx, externalLocationID)
	loc, _ := args.Get(0).(entity.EventLocation)
	return loc, args.Error(1)
}

func (m *StockAPI) Relocate(ctx context.Context, amount decimal.Decimal, sourceLocationID, destinationLocationID, itemID string) ([]entity.ValidationMessage, error) {
	args := m.Called(ctx, amount, sourceLocationID, destinationLocationID, itemID)
	msgs, _ := args.Get(0).([]entity.ValidationMessage)
	return msgs, args.Error(1)
}

func (m *StockAPI) Consume(ctx context.Context, amount decimal.Decimal, locationID, itemID string) ([]entity.ValidationMessage, error) {
	args := m.Called(ctx, amount, locationID, itemID)
	msgs, _ := args.Get(0).([]entity.ValidationMessage)
	return msgs, args.Error(1)
}

func (m *StockAPI) Supply(ctx context.Context, amount decimal.Decimal, destinationLocationID, itemID string) ([]entity.ValidationMessage, error) {
	args := m.Called(ctx, amount, destinationLocationID, itemID)
	msgs, _ := args.Get(0).([]entity.ValidationMessage)
	return msgs, args.Error(1)
}

// Subscriber implementa ports.MovementSubscriber.
type Subscriber struct {
	mock.Mock
}

var _ ports.MovementSubscriber = (*Subscriber)(nil)

func (m *Subscriber) SubscribeMovements(ctx context.Context, locationID string) (<-chan struct{}, error) {
	args := m.Called(ctx, locationID)
	switch ch := args.Get(0).(type) {
	case chan struct{}:
		return ch, args.Error(1)
	case <-chan struct{}:
		return ch, args.Error(1)
	default:
		return nil, args.Error(1)
	}
}

// Notifier implementa ports.Notifier.
type Notifier struct {
	mock.Mock
}

var _ ports.Notifier = (*Notifier)(nil)

func (m *Notifier) Notify(t ports.Toast) {
	m.Called(t)
}
