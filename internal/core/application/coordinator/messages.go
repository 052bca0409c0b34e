package coordinator

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
)

// Inbound message types.
const (
	TypeCourierUpdate  = "courier_update"
	TypeNewOrder       = "new_order"
	TypeOrderDelivered = "order_delivered"
	TypeEmergency      = "emergency"
	TypeTrafficUpdate  = "traffic_update"
	TypeGetStatus      = "get_status"
	TypeCancelOrder    = "cancel_order"
)

// Outbound message types.
const (
	TypeSystemStatus   = "system_status"
	TypePeriodicUpdate = "periodic_update"
)

// Emergency kinds carried by TypeEmergency.
const (
	EmergencyCourierUnavailable = "courier_unavailable"
	EmergencyTrafficAccident    = "traffic_accident"
)

type envelope struct {
	Type string `json:"type"`
}

type courierUpdateMessage struct {
	CourierID     int64     `json:"courier_id"`
	Location      []float64 `json:"location"`
	Status        *string   `json:"status"`
	TransportType *string   `json:"transport_type"`
	Name          string    `json:"name"`
	MaxCapacity   float64   `json:"max_capacity"`
}

// CourierPayload describes a courier registered without a session, e.g.
// from the seed file. It always starts available.
type CourierPayload struct {
	ID            int64
	Location      []float64
	TransportType string
	Name          string
	MaxCapacity   float64
}

// OrderPayload is the order object of a new_order message. The HTTP API
// accepts the same shape.
type OrderPayload struct {
	ID          int64     `json:"id"`
	Destination []float64 `json:"destination"`
	Weight      float64   `json:"weight"`
	Priority    string    `json:"priority"`
	TimeWindow  string    `json:"time_window"`
	Description string    `json:"description"`
}

type newOrderMessage struct {
	Order *OrderPayload `json:"order"`
}

type orderDeliveredMessage struct {
	CourierID int64 `json:"courier_id"`
	OrderID   int64 `json:"order_id"`
}

type emergencyMessage struct {
	EmergencyType string `json:"emergency_type"`
	CourierID     int64  `json:"courier_id"`
}

type trafficUpdateMessage struct {
	Condition string `json:"condition"`
}

type cancelOrderMessage struct {
	OrderID int64 `json:"order_id"`
}

type systemStatusMessage struct {
	Type string `json:"type"`
	queries.SystemStatus
}

type periodicUpdateMessage struct {
	Type       string                 `json:"type"`
	Statistics queries.StatisticsView `json:"statistics"`
	Timestamp  time.Time              `json:"timestamp"`
}
