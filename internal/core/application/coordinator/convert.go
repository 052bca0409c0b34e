package coordinator

import (
	"fmt"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func parseLocation(param string, pair []float64) (kernel.Location, error) {
	if len(pair) != 2 {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause(
			param, fmt.Errorf("expected [lat, lon], got %d values", len(pair)))
	}
	return kernel.NewLocation(pair[0], pair[1])
}

func heartbeatCommand(msg courierUpdateMessage, at time.Time) (commands.UpsertCourierCommand, error) {
	location, err := parseLocation("location", msg.Location)
	if err != nil {
		return commands.UpsertCourierCommand{}, err
	}

	cmd, err := commands.NewUpsertCourierCommand(msg.CourierID, location, at)
	if err != nil {
		return commands.UpsertCourierCommand{}, err
	}

	if msg.Status != nil {
		status, err := courier.ParseStatus(*msg.Status)
		if err != nil {
			return commands.UpsertCourierCommand{}, err
		}
		cmd = cmd.WithStatus(status)
	}
	if msg.TransportType != nil {
		transport, err := courier.ParseTransportType(*msg.TransportType)
		if err != nil {
			return commands.UpsertCourierCommand{}, err
		}
		cmd = cmd.WithTransport(transport)
	}
	if msg.MaxCapacity > 0 {
		cmd = cmd.WithCapacity(msg.MaxCapacity)
	}

	return cmd.WithName(msg.Name), nil
}

func createOrderCommand(p OrderPayload, at time.Time) (commands.CreateOrderCommand, error) {
	destination, err := parseLocation("destination", p.Destination)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	priority := order.PriorityNormal
	if p.Priority != "" {
		priority, err = order.ParsePriority(p.Priority)
		if err != nil {
			return commands.CreateOrderCommand{}, err
		}
	}

	return commands.NewCreateOrderCommand(p.ID, destination, p.Weight, priority, p.TimeWindow, p.Description, at)
}
