package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore writes the shutdown dump to a single file. The file is
// replaced atomically.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

type courierDTO struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Location        [2]float64 `json:"location"`
	TransportType   string     `json:"transport_type"`
	MaxCapacity     float64    `json:"max_capacity"`
	CurrentCapacity float64    `json:"current_capacity"`
	CurrentOrders   []int64    `json:"current_orders"`
	Status          string     `json:"status"`
}

type orderDTO struct {
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

type assignmentDTO struct {
	ID            string  `json:"id"`
	CourierID     int64   `json:"courier_id"`
	OrderID       int64   `json:"order_id"`
	EstimatedTime float64 `json:"estimated_time"`
	Score         float64 `json:"score"`
	AssignedAt    float64 `json:"assigned_at"`
}

type statisticsDTO struct {
	TotalOrders        int     `json:"total_orders"`
	Delivered          int     `json:"delivered"`
	InProgress         int     `json:"in_progress"`
	Pending            int     `json:"pending"`
	Cancelled          int     `json:"cancelled"`
	AvgDeliveryTime    float64 `json:"avg_delivery_time"`
	CourierUtilization float64 `json:"courier_utilization"`
}

type snapshotDTO struct {
	Assignments []assignmentDTO `json:"assignments"`
	Statistics  statisticsDTO   `json:"statistics"`
	Couriers    []courierDTO    `json:"couriers"`
	Orders      []orderDTO      `json:"orders"`
	Traffic     string          `json:"traffic"`
	Timestamp   float64         `json:"timestamp"`
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot ports.DispatchSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(toSnapshotDTO(snapshot), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func toSnapshotDTO(s ports.DispatchSnapshot) snapshotDTO {
	dto := snapshotDTO{
		Assignments: make([]assignmentDTO, 0, len(s.Assignments)),
		Statistics:  toStatisticsDTO(s.Statistics),
		Couriers:    make([]courierDTO, 0, len(s.Couriers)),
		Orders:      make([]orderDTO, 0, len(s.Orders)),
		Traffic:     s.Traffic.String(),
		Timestamp:   unixSeconds(s.TakenAt.UnixMicro()),
	}
	for _, a := range s.Assignments {
		dto.Assignments = append(dto.Assignments, toAssignmentDTO(a))
	}
	for _, c := range s.Couriers {
		dto.Couriers = append(dto.Couriers, toCourierDTO(c))
	}
	for _, o := range s.Orders {
		dto.Orders = append(dto.Orders, toOrderDTO(o))
	}
	return dto
}

func toCourierDTO(c *courier.Courier) courierDTO {
	return courierDTO{
		ID:              c.ID(),
		Name:            c.Name(),
		Location:        c.Location().Pair(),
		TransportType:   c.Transport().String(),
		MaxCapacity:     c.MaxCapacity(),
		CurrentCapacity: c.CurrentWeight(),
		CurrentOrders:   c.HeldOrderIDs(),
		Status:          c.Status().String(),
	}
}

func toOrderDTO(o *order.Order) orderDTO {
	return orderDTO{
		ID:              o.ID(),
		Destination:     o.Destination().Pair(),
		Weight:          o.Weight(),
		Priority:        o.Priority().String(),
		TimeWindow:      o.TimeWindow(),
		Description:     o.Description(),
		Status:          o.Status().String(),
		AssignedCourier: o.CourierID(),
		CreatedTime:     unixSeconds(o.CreatedAt().UnixMicro()),
	}
}

func toAssignmentDTO(a assignment.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:            a.ID().String(),
		CourierID:     a.CourierID(),
		OrderID:       a.OrderID(),
		EstimatedTime: a.EstimatedMinutes(),
		Score:         a.Score(),
		AssignedAt:    unixSeconds(a.AssignedAt().UnixMicro()),
	}
}

func toStatisticsDTO(s services.Statistics) statisticsDTO {
	return statisticsDTO{
		TotalOrders:        s.TotalOrders,
		Delivered:          s.DeliveredOrders,
		InProgress:         s.InProgressOrders,
		Pending:            s.PendingOrders,
		Cancelled:          s.CancelledOrders,
		AvgDeliveryTime:    s.AverageDeliveryMinutes,
		CourierUtilization: s.CourierUtilization,
	}
}

func unixSeconds(micros int64) float64 {
	return float64(micros) / 1e6
}
