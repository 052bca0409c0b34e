package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Coordinator is the part of coordinator.Coordinator exposed over HTTP.
type Coordinator interface {
	SystemStatus(ctx context.Context) (queries.SystemStatus, error)
	Statistics(ctx context.Context) (queries.StatisticsView, error)
	CreateOrder(ctx context.Context, payload coordinator.OrderPayload) error
	CompleteDelivery(ctx context.Context, courierID, orderID int64) error
	CancelOrder(ctx context.Context, orderID int64) error
	DeclareEmergency(ctx context.Context, courierID int64) error
	UpdateTraffic(ctx context.Context, condition string) error
	SessionCount() int
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type DeliveredRequest struct {
	CourierID int64 `json:"courier_id"`
}

type TrafficRequest struct {
	Condition string `json:"condition"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Server maps the observer/control API onto the coordinator, so HTTP
// mutations are broadcast to TCP sessions like any other event.
type Server struct {
	coord Coordinator
}

func NewServer(coord Coordinator) *Server {
	return &Server{coord: coord}
}

// Register mounts the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.GET("/status", s.GetStatus)
	api.GET("/statistics", s.GetStatistics)
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/delivered", s.DeliverOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/couriers/:id/emergency", s.DeclareEmergency)
	api.PUT("/traffic", s.UpdateTraffic)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, HealthResponse{Status: "ok", Sessions: s.coord.SessionCount()})
}

// GetStatus handles GET /api/v1/status - the same snapshot TCP observers get.
func (s *Server) GetStatus(ctx echo.Context) error {
	status, err := s.coord.SystemStatus(ctx.Request().Context())
	if err != nil {
		return errorResponse(ctx, err, "Failed to build system status")
	}
	return ctx.JSON(http.StatusOK, status)
}

// GetStatistics handles GET /api/v1/statistics.
func (s *Server) GetStatistics(ctx echo.Context) error {
	stats, err := s.coord.Statistics(ctx.Request().Context())
	if err != nil {
		return errorResponse(ctx, err, "Failed to calculate statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var payload coordinator.OrderPayload
	if err := ctx.Bind(&payload); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if err := s.coord.CreateOrder(ctx.Request().Context(), payload); err != nil {
		return errorResponse(ctx, err, "Failed to create order")
	}
	return ctx.NoContent(http.StatusCreated)
}

// DeliverOrder handles POST /api/v1/orders/:id/delivered.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	var req DeliveredRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if err := s.coord.CompleteDelivery(ctx.Request().Context(), req.CourierID, orderID); err != nil {
		return errorResponse(ctx, err, "Failed to complete delivery")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	if err := s.coord.CancelOrder(ctx.Request().Context(), orderID); err != nil {
		return errorResponse(ctx, err, "Failed to cancel order")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeclareEmergency handles POST /api/v1/couriers/:id/emergency.
func (s *Server) DeclareEmergency(ctx echo.Context) error {
	courierID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	if err := s.coord.DeclareEmergency(ctx.Request().Context(), courierID); err != nil {
		return errorResponse(ctx, err, "Failed to declare emergency")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateTraffic handles PUT /api/v1/traffic.
func (s *Server) UpdateTraffic(ctx echo.Context) error {
	var req TrafficRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if err := s.coord.UpdateTraffic(ctx.Request().Context(), req.Condition); err != nil {
		return errorResponse(ctx, err, "Failed to update traffic")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func pathID(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

func errorResponse(ctx echo.Context, err error, fallback string) error {
	code := statusCode(err)
	message := fallback
	if code != http.StatusInternalServerError {
		message = fallback + ": " + err.Error()
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, order.ErrInvalidStatusTransition),
		errors.Is(err, courier.ErrOrderNotHeld):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, traffic.ErrInvalidCondition):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
