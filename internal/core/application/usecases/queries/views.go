package queries

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// CourierView is the read model of a courier as observers see it.
type CourierView struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Location        [2]float64 `json:"location"`
	TransportType   string     `json:"transport_type"`
	MaxCapacity     float64    `json:"max_capacity"`
	CurrentCapacity float64    `json:"current_capacity"`
	CurrentOrders   []int64    `json:"current_orders"`
	Status          string     `json:"status"`
	LastHeartbeat   time.Time  `json:"last_heartbeat"`
}

// OrderView is the read model of an order. CreatedTime is Unix seconds.
type OrderView struct {
	ID              int64      `json:"id"`
	Destination     [2]float64 `json:"destination"`
	Weight          float64    `json:"weight"`
	Priority        string     `json:"priority"`
	TimeWindow      string     `json:"time_window"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	AssignedCourier *int64     `json:"assigned_courier"`
	CreatedTime     float64    `json:"created_time"`
}

// AssignmentView is one record of the assignment log. EstimatedTime is in minutes.
type AssignmentView struct {
	ID            string    `json:"id"`
	CourierID     int64     `json:"courier_id"`
	OrderID       int64     `json:"order_id"`
	EstimatedTime float64   `json:"estimated_time"`
	Score         float64   `json:"score"`
	AssignedAt    time.Time `json:"assigned_at"`
}

type StatisticsView struct {
	TotalOrders        int     `json:"total_orders"`
	Delivered          int     `json:"delivered"`
	InProgress         int     `json:"in_progress"`
	Pending            int     `json:"pending"`
	Cancelled          int     `json:"cancelled"`
	AvgDeliveryTime    float64 `json:"avg_delivery_time"`
	CourierUtilization float64 `json:"courier_utilization"`
}

func NewCourierView(c *courier.Courier) CourierView {
	return CourierView{
		ID:              c.ID(),
		Name:            c.Name(),
		Location:        c.Location().Pair(),
		TransportType:   c.Transport().String(),
		MaxCapacity:     c.MaxCapacity(),
		CurrentCapacity: c.CurrentWeight(),
		CurrentOrders:   c.HeldOrderIDs(),
		Status:          c.Status().String(),
		LastHeartbeat:   c.LastHeartbeat(),
	}
}

func NewOrderView(o *order.Order) OrderView {
	return OrderView{
		ID:              o.ID(),
		Destination:     o.Destination().Pair(),
		Weight:          o.Weight(),
		Priority:        o.Priority().String(),
		TimeWindow:      o.TimeWindow(),
		Description:     o.Description(),
		Status:          o.Status().String(),
		AssignedCourier: o.CourierID(),
		CreatedTime:     float64(o.CreatedAt().UnixNano()) / float64(time.Second),
	}
}

func NewAssignmentView(a assignment.Assignment) AssignmentView {
	return AssignmentView{
		ID:            a.ID().String(),
		CourierID:     a.CourierID(),
		OrderID:       a.OrderID(),
		EstimatedTime: a.EstimatedMinutes(),
		Score:         a.Score(),
		AssignedAt:    a.AssignedAt(),
	}
}

func NewStatisticsView(s services.Statistics) StatisticsView {
	return StatisticsView{
		TotalOrders:        s.TotalOrders,
		Delivered:          s.DeliveredOrders,
		InProgress:         s.InProgressOrders,
		Pending:            s.PendingOrders,
		Cancelled:          s.CancelledOrders,
		AvgDeliveryTime:    s.AverageDeliveryMinutes,
		CourierUtilization: s.CourierUtilization,
	}
}
