package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/traffic"

	"github.com/stretchr/testify/require"
)

var (
	testNow  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	moscow   = kernel.MustNewLocation(55.7558, 37.6173)
	defaults = commands.CourierDefaults{Capacity: 50, MaxOrders: 5}
)

// engine wires the handlers to a real in-memory store.
type engine struct {
	traffic    *traffic.State
	uow        commands.UoWFactory
	courierUoW commands.CourierUoWFactory
	trafficUoW commands.TrafficUoWFactory
}

type uowFunc func() commands.UoW

func (f uowFunc) Create() commands.UoW { return f() }

type courierUoWFunc func() commands.CourierUoW

func (f courierUoWFunc) Create() commands.CourierUoW { return f() }

type trafficUoWFunc func() commands.TrafficUoW

func (f trafficUoWFunc) Create() commands.TrafficUoW { return f() }

func newEngine() *engine {
	state := traffic.NewState(traffic.Normal)
	f := memory.NewUnitOfWorkFactory(memory.NewStore(state))
	return &engine{
		traffic:    state,
		uow:        uowFunc(func() commands.UoW { return f.Create() }),
		courierUoW: courierUoWFunc(func() commands.CourierUoW { return f.Create() }),
		trafficUoW: trafficUoWFunc(func() commands.TrafficUoW { return f.Create() }),
	}
}

func (e *engine) heartbeat(t *testing.T, id int64, loc kernel.Location, transport courier.TransportType) {
	t.Helper()
	cmd, err := commands.NewUpsertCourierCommand(id, loc, testNow)
	require.NoError(t, err)
	_, err = commands.NewUpsertCourierCommandHandler(e.uow, defaults).Handle(t.Context(), cmd.WithTransport(transport))
	require.NoError(t, err)
}

func (e *engine) addOrder(t *testing.T, id int64, weight float64, priority order.Priority, createdAt time.Time) {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(id, moscow, weight, priority, "", "", createdAt)
	require.NoError(t, err)
	_, err = commands.NewCreateOrderCommandHandler(e.uow).Handle(t.Context(), cmd)
	require.NoError(t, err)
}

func (e *engine) courier(t *testing.T, id int64) *courier.Courier {
	t.Helper()
	ctx := t.Context()
	uow := e.uow.Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	c, err := uow.CourierRepository().Get(ctx, id)
	require.NoError(t, err)
	return c
}

func (e *engine) order(t *testing.T, id int64) *order.Order {
	t.Helper()
	ctx := t.Context()
	uow := e.uow.Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	o, err := uow.OrderRepository().Get(ctx, id)
	require.NoError(t, err)
	return o
}

func (e *engine) assignmentCount(t *testing.T) int {
	t.Helper()
	ctx := t.Context()
	uow := e.uow.Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	all, err := uow.AssignmentLog().GetAll(ctx)
	require.NoError(t, err)
	return len(all)
}
