package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_StoresPendingWithoutCouriers(t *testing.T) {
	e := newEngine()
	cmd, err := commands.NewCreateOrderCommand(101, moscow, 5, order.PriorityNormal, "10:00-12:00", "flowers", testNow)
	require.NoError(t, err)

	made, err := commands.NewCreateOrderCommandHandler(e.uow).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Empty(t, made)
	o := e.order(t, 101)
	assert.Equal(t, order.Pending, o.Status())
	assert.Equal(t, "10:00-12:00", o.TimeWindow())
	assert.Equal(t, "flowers", o.Description())
}

func TestCreateOrderCommandHandler_Handle_AssignsImmediately(t *testing.T) {
	e := newEngine()
	e.heartbeat(t, 1, kernel.MustNewLocation(55.75, 37.61), courier.Car)
	cmd, err := commands.NewCreateOrderCommand(101, moscow, 5, order.PriorityNormal, "", "", testNow)
	require.NoError(t, err)

	made, err := commands.NewCreateOrderCommandHandler(e.uow).Handle(t.Context(), cmd)

	require.NoError(t, err)
	require.Len(t, made, 1)
	assert.Equal(t, int64(1), made[0].CourierID())
	assert.Equal(t, order.Assigned, e.order(t, 101).Status())
}

func TestCreateOrderCommandHandler_Handle_DuplicateIsIgnored(t *testing.T) {
	// Given an order 101 that is already assigned
	e := newEngine()
	e.heartbeat(t, 1, kernel.MustNewLocation(55.75, 37.61), courier.Car)
	e.addOrder(t, 101, 5, order.PriorityNormal, testNow)
	require.Equal(t, 1, e.assignmentCount(t))

	// When the same ID is submitted again with different data
	cmd, err := commands.NewCreateOrderCommand(101, moscow, 40, order.PriorityHigh, "", "", testNow)
	require.NoError(t, err)
	_, err = commands.NewCreateOrderCommandHandler(e.uow).Handle(t.Context(), cmd)

	// Then it is rejected and nothing changes
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	o := e.order(t, 101)
	assert.InDelta(t, 5.0, o.Weight(), 1e-9)
	assert.Equal(t, order.Assigned, o.Status())
	assert.InDelta(t, 5.0, e.courier(t, 1).CurrentWeight(), 1e-9)
	assert.Equal(t, 1, e.assignmentCount(t))
}

func TestCreateOrderCommandHandler_Handle_CapacityLeavesOrderPending(t *testing.T) {
	e := newEngine()
	e.heartbeat(t, 1, moscow, courier.Car)

	e.addOrder(t, 1, 30, order.PriorityNormal, testNow)
	e.addOrder(t, 2, 30, order.PriorityNormal, testNow.Add(time.Second))

	assert.Equal(t, order.Assigned, e.order(t, 1).Status())
	assert.Equal(t, order.Pending, e.order(t, 2).Status(), "50kg courier cannot carry 60kg")
	assert.InDelta(t, 30.0, e.courier(t, 1).CurrentWeight(), 1e-9)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(101, moscow, 5, order.PriorityNormal, "", "", testNow)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewCreateOrderCommandHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	var cmd commands.CreateOrderCommand
	factory := new(MockUoWFactory)

	_, err := commands.NewCreateOrderCommandHandler(factory).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
