package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports/mocks"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
)

type refetchMock struct {
	mock.Mock
}

func (m *refetchMock) RefetchAffected(ctx context.Context, locationIDs ...string) error {
	return m.Called(locationIDs).Error(0)
}

type fixture struct {
	api      *mocks.StockAPI
	refetch  *refetchMock
	notifier *mocks.Notifier
	store    *store.Store
	uc       *inventory.RegisterMovementUseCase
}

func newFixture(t *testing.T, sess store.Action) *fixture {
	t.Helper()
	f := &fixture{
		api:      new(mocks.StockAPI),
		refetch:  new(refetchMock),
		notifier: new(mocks.Notifier),
		store:    store.New(),
	}
	f.store.Dispatch(sess)
	f.notifier.On("Notify", mock.Anything).Maybe()
	f.refetch.On("RefetchAffected", mock.Anything).Return(nil).Maybe()
	f.uc = inventory.NewRegisterMovementUseCase(f.api, f.refetch, f.store, f.notifier, nil, nil)
	return f
}

func amount(n int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(n)) })
}

func TestRelocate_ExitoAvisaYRefetch(t *testing.T) {
	f := newFixture(t, store.SetEventSession("E1", "h"))
	f.api.On("Relocate", mock.Anything, amount(5), "S", "D", "I").Return(nil, nil).Once()
	version := f.store.Version()

	out := f.uc.Relocate(context.Background(), "S", "D", "I", decimal.NewFromInt(5))

	assert.Equal(t, inventory.StatusOK, out.Status)
	assert.NotEmpty(t, out.Movement.ID)
	f.notifier.AssertCalled(t, "Notify", ports.Toast{Kind: ports.ToastSuccess, Code: inventory.ToastRelocateSuccess})
	f.refetch.AssertCalled(t, "RefetchAffected", []string{"S", "D"})
	assert.Equal(t, version, f.store.Version(), "sin escritura optimista")
	f.api.AssertExpectations(t)
}

func TestRelocate_RechazoAvisaCadaMensajeYRefetch(t *testing.T) {
	f := newFixture(t, store.SetEventSession("E1", "h"))
	msgs := []entity.ValidationMessage{{Field: "amount", Message: "must be positive"}, {Field: "item", Message: "unknown"}}
	f.api.On("Relocate", mock.Anything, amount(5), "S", "D", "I").Return(msgs, nil)

	out := f.uc.Relocate(context.Background(), "S", "D", "I", decimal.NewFromInt(5))

	assert.Equal(t, inventory.StatusRejected, out.Status)
	assert.Equal(t, msgs, out.Messages)
	f.notifier.AssertCalled(t, "Notify", ports.Toast{Kind: ports.ToastError, Code: inventory.ToastValidation, Text: "amount must be positive"})
	f.notifier.AssertCalled(t, "Notify", ports.Toast{Kind: ports.ToastError, Code: inventory.ToastValidation, Text: "item unknown"})
	f.notifier.AssertNotCalled(t, "Notify", ports.Toast{Kind: ports.ToastSuccess, Code: inventory.ToastRelocateSuccess})
	f.refetch.AssertCalled(t, "RefetchAffected", []string{"S", "D"})
}

func TestRelocate_FalloDeTransporteIgualRefetch(t *testing.T) {
	f := newFixture(t, store.SetEventSession("E1", "h"))
	f.api.On("Relocate", mock.Anything, amount(1), "S", "D", "I").Return(nil, assert.AnError)

	out := f.uc.Relocate(context.Background(), "S", "D", "I", decimal.NewFromInt(1))

	assert.Equal(t, inventory.StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, domain.ErrTransport)
	assert.ErrorIs(t, out.Err, assert.AnError)
	f.notifier.AssertCalled(t, "Notify", ports.Toast{Kind: ports.ToastError, Code: inventory.ToastNetworkError})
	f.refetch.AssertCalled(t, "RefetchAffected", []string{"S", "D"})
}

func TestRegisterMovement_PrecondicionesOmitenEnSilencio(t *testing.T) {
	f := newFixture(t, store.SetEventSession("E1", "h"))
	ctx := context.Background()

	cases := []inventory.Outcome{
		f.uc.Relocate(ctx, "S", "D", "I", decimal.Zero),
		f.uc.Relocate(ctx, "S", "D", "I", decimal.NewFromInt(-2)),
		f.uc.Relocate(ctx, "", "D", "I", decimal.NewFromInt(2)),
		f.uc.Relocate(ctx, "S", "", "I", decimal.NewFromInt(2)),
		f.uc.Relocate(ctx, "S", "D", "", decimal.NewFromInt(2)),
		f.uc.Supply(ctx, "", "I", decimal.NewFromInt(2)),
		f.uc.Supply(ctx, "D", "I", decimal.Zero),
		f.uc.Consume(ctx, "", "I", decimal.NewFromInt(1)),
	}
	for i, out := range cases {
		assert.Equal(t, inventory.StatusSkipped, out.Status, "caso %d", i)
		assert.False(t, out.Submitted())
	}
	f.api.AssertNotCalled(t, "Relocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.api.AssertNotCalled(t, "Supply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.api.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything)
	f.refetch.AssertNotCalled(t, "RefetchAffected", mock.Anything)
}

func TestConsume_AdmiteDeltaConSigno(t *testing.T) {
	f := newFixture(t, store.SetLocationSession("ext", "h"))
	f.api.On("Consume", mock.Anything, amount(-3), "L1", "I").Return(nil, nil).Once()
	f.api.On("Consume", mock.Anything, amount(0), "L1", "I").Return(nil, nil).Once()

	assert.Equal(t, inventory.StatusOK, f.uc.Consume(context.Background(), "L1", "I", decimal.NewFromInt(-3)).Status)
	assert.Equal(t, inventory.StatusOK, f.uc.Consume(context.Background(), "L1", "I", decimal.Zero).Status)
	f.refetch.AssertCalled(t, "RefetchAffected", []string{"L1"})
	f.api.AssertExpectations(t)
}

func TestRelocate_PermisoDeUbicacionNoPuedeTrasladar(t *testing.T) {
	f := newFixture(t, store.SetLocationSession("ext", "h"))

	out := f.uc.Relocate(context.Background(), "S", "D", "I", decimal.NewFromInt(1))

	assert.Equal(t, inventory.StatusForbidden, out.Status)
	assert.ErrorIs(t, out.Err, domain.ErrForbidden)
	f.api.AssertNotCalled(t, "Relocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.refetch.AssertNotCalled(t, "RefetchAffected", mock.Anything)
}

// scopedRefetch refetcher que además acota las ubicaciones alcanzables.
type scopedRefetch struct {
	refetchMock
	allowed string
}

func (s *scopedRefetch) LocationInScope(locationID string) bool { return locationID == s.allowed }

func TestConsume_UbicacionFueraDeAlcanceNoSeEnvia(t *testing.T) {
	st := store.New()
	st.Dispatch(store.SetLocationSession("ext", "h"))
	api := new(mocks.StockAPI)
	refetch := &scopedRefetch{allowed: "L1"}
	refetch.On("RefetchAffected", mock.Anything).Return(nil).Maybe()
	notifier := new(mocks.Notifier)
	notifier.On("Notify", mock.Anything).Maybe()
	uc := inventory.NewRegisterMovementUseCase(api, refetch, st, notifier, nil, nil)
	api.On("Consume", mock.Anything, amount(2), "L1", "I").Return(nil, nil).Once()

	out := uc.Consume(context.Background(), "L2", "I", decimal.NewFromInt(2))
	assert.Equal(t, inventory.StatusForbidden, out.Status)
	assert.ErrorIs(t, out.Err, domain.ErrForbidden)
	api.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, "L2", mock.Anything)
	refetch.AssertNotCalled(t, "RefetchAffected", mock.Anything)

	out = uc.Consume(context.Background(), "L1", "I", decimal.NewFromInt(2))
	assert.Equal(t, inventory.StatusOK, out.Status)
	refetch.AssertCalled(t, "RefetchAffected", []string{"L1"})
}

func TestRelocateBatch_FilasInvalidasNoBloqueanLasValidas(t *testing.T) {
	f := newFixture(t, store.SetEventSession("E1", "h"))
	f.api.On("Relocate", mock.Anything, amount(2), "S", "D", "a").Return(nil, nil).Once()
	f.api.On("Relocate", mock.Anything, amount(3), "S", "D", "d").
		Return([]entity.ValidationMessage{{Field: "amount", Message: "exceeds stock"}}, nil).Once()

	res := f.uc.RelocateBatch(context.Background(), "S", "D", []dto.AmountRow{
		{ItemID: "a", Amount: "2"},
		{ItemID: "b", Amount: ""},
		{ItemID: "c", Amount: "x"},
		{ItemID: "d", Amount: " 3 "},
		{ItemID: "e", Amount: "-1"},
	})

	require.Len(t, res.Outcomes, 5)
	assert.Equal(t, 2, res.Submitted())
	assert.Equal(t, 3, res.Skipped())
	assert.Equal(t, 1, res.Succeeded())
	assert.Equal(t, "a", res.Outcomes[0].Movement.ItemID)
	assert.Equal(t, inventory.StatusRejected, res.Outcomes[3].Status)
	f.api.AssertExpectations(t)
	f.refetch.AssertNumberOfCalls(t, "RefetchAffected", 1)

	body := inventory.ToBatchDTO(res)
	assert.Equal(t, 2, body.Submitted)
	assert.Equal(t, "skipped", body.Outcomes[1].Status)
	assert.Equal(t, []dto.MessageDTO{{Field: "amount", Message: "exceeds stock"}}, body.Outcomes[3].Messages)
}

func TestConsumeToTarget_DeltaEsStockMenosObjetivo(t *testing.T) {
	f := newFixture(t, store.SetEventSession("E1", "h"))
	f.api.On("Consume", mock.Anything, amount(3), "L1", "I").Return(nil, nil).Once()
	rec := entity.StockRecord{ItemID: "I", LocationID: "L1", Stock: 10}

	out := f.uc.ConsumeToTarget(context.Background(), rec, "7")
	assert.Equal(t, inventory.StatusOK, out.Status)

	out = f.uc.ConsumeToTarget(context.Background(), rec, "siete")
	assert.Equal(t, inventory.StatusSkipped, out.Status)
	f.api.AssertExpectations(t)
}

func TestParseAmount(t *testing.T) {
	d, ok := inventory.ParseAmount("2,5")
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("2.5")))

	_, ok = inventory.ParseAmount("  ")
	assert.False(t, ok)
	_, ok = inventory.ParseAmount("NaN")
	assert.False(t, ok)
}
