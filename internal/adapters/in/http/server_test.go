package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCoordinator struct {
	mock.Mock
}

func (m *MockCoordinator) SystemStatus(ctx context.Context) (queries.SystemStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(queries.SystemStatus), args.Error(1)
}

func (m *MockCoordinator) Statistics(ctx context.Context) (queries.StatisticsView, error) {
	args := m.Called(ctx)
	return args.Get(0).(queries.StatisticsView), args.Error(1)
}

func (m *MockCoordinator) CreateOrder(ctx context.Context, payload coordinator.OrderPayload) error {
	return m.Called(ctx, payload).Error(0)
}

func (m *MockCoordinator) CompleteDelivery(ctx context.Context, courierID, orderID int64) error {
	return m.Called(ctx, courierID, orderID).Error(0)
}

func (m *MockCoordinator) CancelOrder(ctx context.Context, orderID int64) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockCoordinator) DeclareEmergency(ctx context.Context, courierID int64) error {
	return m.Called(ctx, courierID).Error(0)
}

func (m *MockCoordinator) UpdateTraffic(ctx context.Context, condition string) error {
	return m.Called(ctx, condition).Error(0)
}

func (m *MockCoordinator) SessionCount() int {
	return m.Called().Int(0)
}

func newEcho(coord *MockCoordinator) *echo.Echo {
	e := echo.New()
	httpadapter.NewServer(coord).Register(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	coord := &MockCoordinator{}
	coord.On("SessionCount").Return(3)

	rec := do(newEcho(coord), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":3}`, rec.Body.String())
}

func TestServer_GetStatus(t *testing.T) {
	coord := &MockCoordinator{}
	coord.On("SystemStatus", mock.Anything).Return(queries.SystemStatus{
		Couriers:    []queries.CourierView{},
		Orders:      []queries.OrderView{},
		Assignments: []queries.AssignmentView{},
		Traffic:     "busy",
	}, nil)

	rec := do(newEcho(coord), http.MethodGet, "/api/v1/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "busy", body["traffic"])
	assert.Empty(t, body["couriers"])
}

func TestServer_GetStatistics(t *testing.T) {
	coord := &MockCoordinator{}
	coord.On("Statistics", mock.Anything).Return(queries.StatisticsView{TotalOrders: 4, Delivered: 1}, nil)

	rec := do(newEcho(coord), http.MethodGet, "/api/v1/statistics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body queries.StatisticsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.TotalOrders)
	assert.Equal(t, 1, body.Delivered)
}

func TestServer_CreateOrder(t *testing.T) {
	tests := map[string]struct {
		body     string
		err      error
		wantCode int
	}{
		"created": {
			body:     `{"id":101,"destination":[55.75,37.61],"weight":5,"priority":"high"}`,
			wantCode: http.StatusCreated,
		},
		"duplicate": {
			body:     `{"id":101,"destination":[55.75,37.61],"weight":5}`,
			err:      errs.NewObjectAlreadyExistsError("orderID", 101),
			wantCode: http.StatusConflict,
		},
		"invalid weight": {
			body:     `{"id":101,"destination":[55.75,37.61],"weight":0}`,
			err:      errs.NewValueIsInvalidError("weight"),
			wantCode: http.StatusBadRequest,
		},
		"internal": {
			body:     `{"id":101,"destination":[55.75,37.61],"weight":5}`,
			err:      fmt.Errorf("boom"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			coord := &MockCoordinator{}
			coord.On("CreateOrder", mock.Anything, mock.MatchedBy(func(p coordinator.OrderPayload) bool {
				return p.ID == 101 && len(p.Destination) == 2
			})).Return(tt.err)

			rec := do(newEcho(coord), http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			coord.AssertExpectations(t)
		})
	}
}

func TestServer_CreateOrder_MalformedBody(t *testing.T) {
	coord := &MockCoordinator{}

	rec := do(newEcho(coord), http.MethodPost, "/api/v1/orders", `{"id":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	coord.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestServer_DeliverOrder(t *testing.T) {
	tests := map[string]struct {
		err      error
		wantCode int
	}{
		"delivered":      {wantCode: http.StatusNoContent},
		"unknown order":  {err: errs.NewObjectNotFoundError("orderID", 9), wantCode: http.StatusNotFound},
		"not held":       {err: courier.ErrOrderNotHeld, wantCode: http.StatusConflict},
		"already closed": {err: order.ErrInvalidStatusTransition, wantCode: http.StatusConflict},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			coord := &MockCoordinator{}
			coord.On("CompleteDelivery", mock.Anything, int64(1), int64(9)).Return(tt.err)

			rec := do(newEcho(coord), http.MethodPost, "/api/v1/orders/9/delivered", `{"courier_id":1}`)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestServer_InvalidPathID(t *testing.T) {
	coord := &MockCoordinator{}
	e := newEcho(coord)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/orders/abc/cancel", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/couriers/x/emergency", "").Code)
	coord.AssertExpectations(t)
}

func TestServer_CancelOrder(t *testing.T) {
	coord := &MockCoordinator{}
	coord.On("CancelOrder", mock.Anything, int64(7)).Return(nil)

	rec := do(newEcho(coord), http.MethodPost, "/api/v1/orders/7/cancel", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	coord.AssertExpectations(t)
}

func TestServer_DeclareEmergency(t *testing.T) {
	coord := &MockCoordinator{}
	coord.On("DeclareEmergency", mock.Anything, int64(3)).Return(errs.NewObjectNotFoundError("courierID", 3))

	rec := do(newEcho(coord), http.MethodPost, "/api/v1/couriers/3/emergency", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_UpdateTraffic(t *testing.T) {
	coord := &MockCoordinator{}
	coord.On("UpdateTraffic", mock.Anything, "blocked").Return(nil)
	coord.On("UpdateTraffic", mock.Anything, "jammed").Return(traffic.ErrInvalidCondition)
	e := newEcho(coord)

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPut, "/api/v1/traffic", `{"condition":"blocked"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPut, "/api/v1/traffic", `{"condition":"jammed"}`).Code)
}
