package memory

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

type heldOrderDTO struct {
	OrderID int64
	Weight  float64
}

type courierDTO struct {
	ID            int64
	Name          string
	Transport     courier.TransportType
	Lat           float64
	Lon           float64
	MaxCapacity   float64
	MaxOrders     int
	HeldOrders    []heldOrderDTO
	Status        courier.Status
	LastHeartbeat time.Time
}

func courierFromDomain(c *courier.Courier) courierDTO {
	held := c.HeldOrders()
	dtos := make([]heldOrderDTO, 0, len(held))
	for _, h := range held {
		dtos = append(dtos, heldOrderDTO{OrderID: h.OrderID(), Weight: h.Weight()})
	}

	return courierDTO{
		ID:            c.ID(),
		Name:          c.Name(),
		Transport:     c.Transport(),
		Lat:           c.Location().Lat(),
		Lon:           c.Location().Lon(),
		MaxCapacity:   c.MaxCapacity(),
		MaxOrders:     c.MaxOrders(),
		HeldOrders:    dtos,
		Status:        c.Status(),
		LastHeartbeat: c.LastHeartbeat(),
	}
}

func courierToDomain(dto courierDTO) (*courier.Courier, error) {
	location, err := kernel.NewLocation(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	held := make([]courier.HeldOrder, 0, len(dto.HeldOrders))
	for _, h := range dto.HeldOrders {
		ho, err := courier.NewHeldOrder(h.OrderID, h.Weight)
		if err != nil {
			return nil, err
		}
		held = append(held, ho)
	}

	return courier.RestoreCourier(courier.RestoreParams{
		ID:            dto.ID,
		Name:          dto.Name,
		Transport:     dto.Transport,
		Location:      location,
		MaxCapacity:   dto.MaxCapacity,
		MaxOrders:     dto.MaxOrders,
		HeldOrders:    held,
		Status:        dto.Status,
		LastHeartbeat: dto.LastHeartbeat,
	})
}

type orderDTO struct {
	ID          int64
	Lat         float64
	Lon         float64
	Weight      float64
	Priority    order.Priority
	TimeWindow  string
	Description string
	Status      order.Status
	CourierID   *int64
	DeliveredBy *int64
	CreatedAt   time.Time
	AssignedAt  time.Time
	DeliveredAt time.Time
}

func orderFromDomain(o *order.Order) orderDTO {
	return orderDTO{
		ID:          o.ID(),
		Lat:         o.Destination().Lat(),
		Lon:         o.Destination().Lon(),
		Weight:      o.Weight(),
		Priority:    o.Priority(),
		TimeWindow:  o.TimeWindow(),
		Description: o.Description(),
		Status:      o.Status(),
		CourierID:   o.CourierID(),
		DeliveredBy: o.DeliveredBy(),
		CreatedAt:   o.CreatedAt(),
		AssignedAt:  o.AssignedAt(),
		DeliveredAt: o.DeliveredAt(),
	}
}

func orderToDomain(dto orderDTO) (*order.Order, error) {
	destination, err := kernel.NewLocation(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:          dto.ID,
		Destination: destination,
		Weight:      dto.Weight,
		Priority:    dto.Priority,
		TimeWindow:  dto.TimeWindow,
		Description: dto.Description,
		Status:      dto.Status,
		CourierID:   dto.CourierID,
		DeliveredBy: dto.DeliveredBy,
		CreatedAt:   dto.CreatedAt,
		AssignedAt:  dto.AssignedAt,
		DeliveredAt: dto.DeliveredAt,
	})
}

type assignmentDTO struct {
	ID               kernel.UUID
	CourierID        int64
	OrderID          int64
	EstimatedMinutes float64
	Score            float64
	AssignedAt       time.Time
}

func assignmentFromDomain(a assignment.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:               a.ID(),
		CourierID:        a.CourierID(),
		OrderID:          a.OrderID(),
		EstimatedMinutes: a.EstimatedMinutes(),
		Score:            a.Score(),
		AssignedAt:       a.AssignedAt(),
	}
}

func assignmentToDomain(dto assignmentDTO) (assignment.Assignment, error) {
	return assignment.RestoreAssignment(
		dto.ID, dto.CourierID, dto.OrderID, dto.EstimatedMinutes, dto.Score, dto.AssignedAt)
}
