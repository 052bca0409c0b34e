// Package snapshotrepo maps a dispatch snapshot onto relational tables. One
// snapshots row owns the courier, order and assignment rows taken with it.
package snapshotrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SnapshotDTO is the header row of a snapshot and carries its statistics.
type SnapshotDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	TakenAt            time.Time `gorm:"not null;index"`
	Traffic            string    `gorm:"type:varchar(16);not null"`
	TotalOrders        int       `gorm:"type:int;not null"`
	DeliveredOrders    int       `gorm:"type:int;not null"`
	InProgressOrders   int       `gorm:"type:int;not null"`
	PendingOrders      int       `gorm:"type:int;not null"`
	CancelledOrders    int       `gorm:"type:int;not null"`
	AvgDeliveryMinutes float64   `gorm:"not null"`
	CourierUtilization float64   `gorm:"not null"`

	Couriers    []CourierDTO    `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Orders      []OrderDTO      `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Assignments []AssignmentDTO `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

func (SnapshotDTO) TableName() string {
	return "snapshots"
}

type LocationDTO struct {
	Lat float64
	Lon float64
}

type CourierDTO struct {
	SnapshotID      uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CourierID       int64         `gorm:"primaryKey;autoIncrement:false"`
	Name            string        `gorm:"type:varchar(255);not null"`
	TransportType   string        `gorm:"type:varchar(16);not null"`
	Location        LocationDTO   `gorm:"embedded;embeddedPrefix:location_"`
	MaxCapacity     float64       `gorm:"not null"`
	CurrentCapacity float64       `gorm:"not null"`
	MaxOrders       int           `gorm:"type:int;not null"`
	CurrentOrders   pq.Int64Array `gorm:"type:bigint[]"`
	Status          string        `gorm:"type:varchar(16);not null"`
	LastHeartbeat   time.Time
}

func (CourierDTO) TableName() string {
	return "snapshot_couriers"
}

type OrderDTO struct {
	SnapshotID      uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID         int64       `gorm:"primaryKey;autoIncrement:false"`
	Destination     LocationDTO `gorm:"embedded;embeddedPrefix:destination_"`
	Weight          float64     `gorm:"not null"`
	Priority        string      `gorm:"type:varchar(16);not null"`
	TimeWindow      string      `gorm:"type:varchar(64)"`
	Description     string      `gorm:"type:text"`
	Status          string      `gorm:"type:varchar(16);not null"`
	AssignedCourier *int64
	DeliveredBy     *int64
	CreatedAt       time.Time
}

func (OrderDTO) TableName() string {
	return "snapshot_orders"
}

type AssignmentDTO struct {
	SnapshotID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq              int       `gorm:"type:int;primaryKey;autoIncrement:false"`
	AssignmentID     uuid.UUID `gorm:"type:uuid;not null"`
	CourierID        int64     `gorm:"not null"`
	OrderID          int64     `gorm:"not null"`
	EstimatedMinutes float64   `gorm:"not null"`
	Score            float64   `gorm:"not null"`
	AssignedAt       time.Time `gorm:"not null"`
}

func (AssignmentDTO) TableName() string {
	return "snapshot_assignments"
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&SnapshotDTO{}, &CourierDTO{}, &OrderDTO{}, &AssignmentDTO{}}
}

// FromDomain converts a snapshot into its rows under a fresh snapshot id.
func FromDomain(s ports.DispatchSnapshot) SnapshotDTO {
	id := kernel.NewUUID().Value()

	dto := SnapshotDTO{
		ID:                 id,
		TakenAt:            s.TakenAt.UTC(),
		Traffic:            s.Traffic.String(),
		TotalOrders:        s.Statistics.TotalOrders,
		DeliveredOrders:    s.Statistics.DeliveredOrders,
		InProgressOrders:   s.Statistics.InProgressOrders,
		PendingOrders:      s.Statistics.PendingOrders,
		CancelledOrders:    s.Statistics.CancelledOrders,
		AvgDeliveryMinutes: s.Statistics.AverageDeliveryMinutes,
		CourierUtilization: s.Statistics.CourierUtilization,
		Couriers:           make([]CourierDTO, 0, len(s.Couriers)),
		Orders:             make([]OrderDTO, 0, len(s.Orders)),
		Assignments:        make([]AssignmentDTO, 0, len(s.Assignments)),
	}

	for _, c := range s.Couriers {
		dto.Couriers = append(dto.Couriers, courierFromDomain(id, c))
	}
	for _, o := range s.Orders {
		dto.Orders = append(dto.Orders, orderFromDomain(id, o))
	}
	for i, a := range s.Assignments {
		dto.Assignments = append(dto.Assignments, assignmentFromDomain(id, i, a))
	}

	return dto
}

func courierFromDomain(snapshotID uuid.UUID, c *courier.Courier) CourierDTO {
	return CourierDTO{
		SnapshotID:      snapshotID,
		CourierID:       c.ID(),
		Name:            c.Name(),
		TransportType:   c.Transport().String(),
		Location:        LocationDTO{Lat: c.Location().Lat(), Lon: c.Location().Lon()},
		MaxCapacity:     c.MaxCapacity(),
		CurrentCapacity: c.CurrentWeight(),
		MaxOrders:       c.MaxOrders(),
		CurrentOrders:   pq.Int64Array(c.HeldOrderIDs()),
		Status:          c.Status().String(),
		LastHeartbeat:   c.LastHeartbeat().UTC(),
	}
}

func orderFromDomain(snapshotID uuid.UUID, o *order.Order) OrderDTO {
	return OrderDTO{
		SnapshotID:      snapshotID,
		OrderID:         o.ID(),
		Destination:     LocationDTO{Lat: o.Destination().Lat(), Lon: o.Destination().Lon()},
		Weight:          o.Weight(),
		Priority:        o.Priority().String(),
		TimeWindow:      o.TimeWindow(),
		Description:     o.Description(),
		Status:          o.Status().String(),
		AssignedCourier: o.CourierID(),
		DeliveredBy:     o.DeliveredBy(),
		CreatedAt:       o.CreatedAt().UTC(),
	}
}

func assignmentFromDomain(snapshotID uuid.UUID, seq int, a assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		SnapshotID:       snapshotID,
		Seq:              seq,
		AssignmentID:     a.ID().Value(),
		CourierID:        a.CourierID(),
		OrderID:          a.OrderID(),
		EstimatedMinutes: a.EstimatedMinutes(),
		Score:            a.Score(),
		AssignedAt:       a.AssignedAt().UTC(),
	}
}
