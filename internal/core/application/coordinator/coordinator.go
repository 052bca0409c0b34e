// Package coordinator bridges concurrent client sessions to the dispatch
// engine. Every mutation goes through a command handler, whose unit of work
// is the engine's exclusive section; snapshots are copied out inside a query
// and sent to sessions only after the section has been released.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrMalformedMessage wraps decoding failures of inbound messages.
var ErrMalformedMessage = errors.New("malformed message")

// Retention decides what happens to a courier when its session ends.
type Retention int

const (
	// RetentionKeep leaves couriers untouched; staleness only hides them.
	RetentionKeep Retention = iota
	// RetentionMarkOffline marks the bound courier offline on disconnect.
	RetentionMarkOffline
)

func ParseRetention(s string) (Retention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return RetentionKeep, nil
	case "mark-offline":
		return RetentionMarkOffline, nil
	}
	return RetentionKeep, errs.NewValueIsInvalidErrorWithCause("retention", fmt.Errorf("%q is not keep or mark-offline", s))
}

func (r Retention) String() string {
	if r == RetentionMarkOffline {
		return "mark-offline"
	}
	return "keep"
}

type Config struct {
	// StaleAfter hides couriers without a heartbeat for longer from snapshots.
	StaleAfter time.Duration
	// WriteTimeout bounds a single session write during a broadcast.
	WriteTimeout time.Duration
	Retention    Retention
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Handlers are the use cases the coordinator drives.
type Handlers struct {
	UpsertCourier       commands.UpsertCourierCommandHandler
	CreateOrder         commands.CreateOrderCommandHandler
	AssignPending       commands.AssignPendingCommandHandler
	CompleteDelivery    commands.CompleteDeliveryCommandHandler
	DeclareEmergency    commands.DeclareEmergencyCommandHandler
	UpdateTraffic       commands.UpdateTrafficCommandHandler
	CancelOrder         commands.CancelOrderCommandHandler
	MarkCourierOffline  commands.MarkCourierOfflineCommandHandler
	ExpireStaleCouriers commands.ExpireStaleCouriersCommandHandler

	SystemStatus   queries.GetSystemStatusQueryHandler
	Statistics     queries.GetStatisticsQueryHandler
	ExportSnapshot queries.ExportSnapshotQueryHandler
}

type Coordinator struct {
	handlers   Handlers
	cfg        Config
	sessions   *registry
	publishers []ports.StatusPublisher
	logger     *slog.Logger
}

func New(handlers Handlers, cfg Config, logger *slog.Logger, publishers ...ports.StatusPublisher) *Coordinator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 300 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		handlers:   handlers,
		cfg:        cfg,
		sessions:   newRegistry(),
		publishers: publishers,
		logger:     logger.With("component", "coordinator"),
	}
}

// Connect adds s to the broadcast set.
func (c *Coordinator) Connect(s Session) {
	c.sessions.add(s)
	c.logger.Info("session connected", "session", s.ID().String(), "sessions", c.sessions.len())
}

// Disconnect removes s. Under RetentionMarkOffline the courier it reported
// as is marked offline.
func (c *Coordinator) Disconnect(ctx context.Context, s Session) {
	courierID, ok := c.sessions.remove(s.ID())
	if !ok {
		return
	}
	c.logger.Info("session disconnected", "session", s.ID().String(), "courier_id", courierID)

	if c.cfg.Retention != RetentionMarkOffline || courierID == 0 {
		return
	}

	cmd, err := commands.NewMarkCourierOfflineCommand(courierID)
	if err == nil {
		err = c.handlers.MarkCourierOffline.Handle(ctx, cmd)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "mark courier offline failed", "courier_id", courierID, "error", err)
	}
}

// SessionCount returns the number of live sessions.
func (c *Coordinator) SessionCount() int {
	return c.sessions.len()
}

// HandleMessage decodes one inbound line from s and applies it. Errors are
// logged and never close the session.
func (c *Coordinator) HandleMessage(ctx context.Context, s Session, line []byte) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		c.logger.WarnContext(ctx, "malformed message", "session", s.ID().String(), "error", err)
		return
	}

	var err error
	switch env.Type {
	case TypeCourierUpdate:
		err = c.handleCourierUpdate(ctx, s, line)
	case TypeNewOrder:
		var msg newOrderMessage
		if err = decode(line, &msg); err == nil {
			if msg.Order == nil {
				err = errs.NewValueIsRequiredError("order")
			} else {
				err = c.CreateOrder(ctx, *msg.Order)
			}
		}
	case TypeOrderDelivered:
		var msg orderDeliveredMessage
		if err = decode(line, &msg); err == nil {
			err = c.CompleteDelivery(ctx, msg.CourierID, msg.OrderID)
		}
	case TypeEmergency:
		var msg emergencyMessage
		if err = decode(line, &msg); err == nil {
			err = c.handleEmergency(ctx, msg)
		}
	case TypeTrafficUpdate:
		var msg trafficUpdateMessage
		if err = decode(line, &msg); err == nil {
			err = c.UpdateTraffic(ctx, msg.Condition)
		}
	case TypeCancelOrder:
		var msg cancelOrderMessage
		if err = decode(line, &msg); err == nil {
			err = c.CancelOrder(ctx, msg.OrderID)
		}
	case TypeGetStatus:
		err = c.sendStatus(ctx, s)
	default:
		err = fmt.Errorf("%w: unknown message type %q", ErrMalformedMessage, env.Type)
	}

	if err != nil {
		c.logFailure(ctx, env.Type, s, err)
	}
}

func decode(line []byte, v any) error {
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return nil
}

func (c *Coordinator) logFailure(ctx context.Context, msgType string, s Session, err error) {
	attrs := []any{"type", msgType, "session", s.ID().String(), "error", err}
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, ErrMalformedMessage),
		errors.Is(err, traffic.ErrInvalidCondition):
		c.logger.WarnContext(ctx, "message rejected", attrs...)
	default:
		c.logger.ErrorContext(ctx, "message failed", attrs...)
	}
}

func (c *Coordinator) handleCourierUpdate(ctx context.Context, s Session, line []byte) error {
	var msg courierUpdateMessage
	if err := decode(line, &msg); err != nil {
		return err
	}

	cmd, err := heartbeatCommand(msg, c.cfg.Now())
	if err != nil {
		return err
	}

	made, err := c.handlers.UpsertCourier.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	c.sessions.bind(s, msg.CourierID)
	c.logAssignments(ctx, made)

	c.BroadcastStatus(ctx)
	return nil
}

func (c *Coordinator) handleEmergency(ctx context.Context, msg emergencyMessage) error {
	switch msg.EmergencyType {
	case EmergencyCourierUnavailable:
		return c.DeclareEmergency(ctx, msg.CourierID)
	case EmergencyTrafficAccident:
		return c.UpdateTraffic(ctx, traffic.Heavy.String())
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"emergency_type", fmt.Errorf("%q is not a known emergency", msg.EmergencyType))
}

// RegisterCourier adds or refreshes a courier as if it had sent a heartbeat.
func (c *Coordinator) RegisterCourier(ctx context.Context, payload CourierPayload) error {
	transport := payload.TransportType
	cmd, err := heartbeatCommand(courierUpdateMessage{
		CourierID:     payload.ID,
		Location:      payload.Location,
		TransportType: &transport,
		Name:          payload.Name,
		MaxCapacity:   payload.MaxCapacity,
	}, c.cfg.Now())
	if err != nil {
		return err
	}

	made, err := c.handlers.UpsertCourier.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "courier registered", "courier_id", payload.ID, "assigned", len(made))
	c.logAssignments(ctx, made)

	c.BroadcastStatus(ctx)
	return nil
}

// CreateOrder adds an order and broadcasts on success. A duplicate ID fails
// with errs.ErrObjectAlreadyExists and is not broadcast.
func (c *Coordinator) CreateOrder(ctx context.Context, payload OrderPayload) error {
	cmd, err := createOrderCommand(payload, c.cfg.Now())
	if err != nil {
		return err
	}

	made, err := c.handlers.CreateOrder.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "order added", "order_id", payload.ID, "assigned", len(made))
	c.logAssignments(ctx, made)

	c.BroadcastStatus(ctx)
	return nil
}

func (c *Coordinator) CompleteDelivery(ctx context.Context, courierID, orderID int64) error {
	cmd, err := commands.NewCompleteDeliveryCommand(courierID, orderID, c.cfg.Now())
	if err != nil {
		return err
	}
	if err := c.handlers.CompleteDelivery.Handle(ctx, cmd); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "order delivered", "order_id", orderID, "courier_id", courierID)

	c.BroadcastStatus(ctx)
	return nil
}

func (c *Coordinator) DeclareEmergency(ctx context.Context, courierID int64) error {
	cmd, err := commands.NewDeclareEmergencyCommand(courierID, c.cfg.Now())
	if err != nil {
		return err
	}
	made, err := c.handlers.DeclareEmergency.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	c.logger.WarnContext(ctx, "courier emergency", "courier_id", courierID, "reassigned", len(made))
	c.logAssignments(ctx, made)

	c.BroadcastStatus(ctx)
	return nil
}

func (c *Coordinator) UpdateTraffic(ctx context.Context, condition string) error {
	cond, err := traffic.ParseCondition(condition)
	if err != nil {
		return err
	}
	if err := c.handlers.UpdateTraffic.Handle(ctx, commands.NewUpdateTrafficCommand(cond)); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "traffic updated", "condition", cond.String(), "description", cond.Description())

	c.BroadcastStatus(ctx)
	return nil
}

func (c *Coordinator) CancelOrder(ctx context.Context, orderID int64) error {
	cmd, err := commands.NewCancelOrderCommand(orderID, c.cfg.Now())
	if err != nil {
		return err
	}
	made, err := c.handlers.CancelOrder.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "order cancelled", "order_id", orderID)
	c.logAssignments(ctx, made)

	c.BroadcastStatus(ctx)
	return nil
}

// SystemStatus returns the current observer snapshot.
func (c *Coordinator) SystemStatus(ctx context.Context) (queries.SystemStatus, error) {
	query, err := queries.NewGetSystemStatusQuery(c.cfg.Now(), c.cfg.StaleAfter)
	if err != nil {
		return queries.SystemStatus{}, err
	}
	return c.handlers.SystemStatus.Handle(ctx, query)
}

func (c *Coordinator) Statistics(ctx context.Context) (queries.StatisticsView, error) {
	query, err := queries.NewGetStatisticsQuery(c.cfg.Now(), c.cfg.StaleAfter)
	if err != nil {
		return queries.StatisticsView{}, err
	}
	return c.handlers.Statistics.Handle(ctx, query)
}

// ExportSnapshot returns the complete state for the shutdown dump.
func (c *Coordinator) ExportSnapshot(ctx context.Context) (ports.DispatchSnapshot, error) {
	query, err := queries.NewExportSnapshotQuery(c.cfg.Now())
	if err != nil {
		return ports.DispatchSnapshot{}, err
	}
	return c.handlers.ExportSnapshot.Handle(ctx, query)
}

// Tick runs the periodic work: an assignment sweep, a full status broadcast
// and a statistics update.
func (c *Coordinator) Tick(ctx context.Context) error {
	cmd, err := commands.NewAssignPendingCommand(c.cfg.Now())
	if err != nil {
		return err
	}
	made, err := c.handlers.AssignPending.Handle(ctx, cmd)
	if err != nil {
		return fmt.Errorf("assignment sweep: %w", err)
	}
	if len(made) > 0 {
		c.logger.InfoContext(ctx, "periodic sweep assigned orders", "assigned", len(made))
		c.logAssignments(ctx, made)
	}

	c.BroadcastStatus(ctx)

	stats, err := c.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("statistics: %w", err)
	}
	c.Broadcast(ctx, TypePeriodicUpdate, periodicUpdateMessage{
		Type:       TypePeriodicUpdate,
		Statistics: stats,
		Timestamp:  c.cfg.Now(),
	})

	c.logger.DebugContext(ctx, "tick",
		"sessions", c.sessions.len(),
		"orders", stats.TotalOrders,
		"delivered", stats.Delivered,
	)
	return nil
}

// ExpireStaleCouriers marks couriers offline whose heartbeat is too old.
// It is only scheduled under RetentionMarkOffline.
func (c *Coordinator) ExpireStaleCouriers(ctx context.Context) ([]int64, error) {
	cmd, err := commands.NewExpireStaleCouriersCommand(c.cfg.Now(), c.cfg.StaleAfter)
	if err != nil {
		return nil, err
	}
	expired, err := c.handlers.ExpireStaleCouriers.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(expired) > 0 {
		c.logger.InfoContext(ctx, "stale couriers marked offline", "courier_ids", expired)
		c.BroadcastStatus(ctx)
	}
	return expired, nil
}

// BroadcastStatus sends a system_status snapshot to every session.
func (c *Coordinator) BroadcastStatus(ctx context.Context) {
	status, err := c.SystemStatus(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "build system status", "error", err)
		return
	}
	c.Broadcast(ctx, TypeSystemStatus, systemStatusMessage{Type: TypeSystemStatus, SystemStatus: status})
}

// Broadcast encodes msg once and writes it to every session concurrently,
// each write bounded by WriteTimeout. Sessions whose write fails are removed
// and closed. The payload is also handed to every StatusPublisher.
func (c *Coordinator) Broadcast(ctx context.Context, topic string, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.ErrorContext(ctx, "encode broadcast", "type", topic, "error", err)
		return
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []Session
	)
	for _, s := range c.sessions.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
			defer cancel()
			if err := s.Send(sendCtx, payload); err != nil {
				mu.Lock()
				failed = append(failed, s)
				mu.Unlock()
				c.logger.WarnContext(ctx, "broadcast write failed", "session", s.ID().String(), "error", err)
			}
		}()
	}
	wg.Wait()

	for _, s := range failed {
		c.drop(ctx, s)
	}

	for _, p := range c.publishers {
		if err := p.Publish(ctx, topic, payload); err != nil {
			c.logger.WarnContext(ctx, "publish status", "type", topic, "error", err)
		}
	}
}

func (c *Coordinator) sendStatus(ctx context.Context, s Session) error {
	status, err := c.SystemStatus(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(systemStatusMessage{Type: TypeSystemStatus, SystemStatus: status})
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()
	if err := s.Send(sendCtx, payload); err != nil {
		c.drop(ctx, s)
		return err
	}
	return nil
}

func (c *Coordinator) drop(ctx context.Context, s Session) {
	c.Disconnect(ctx, s)
	if err := s.Close(); err != nil {
		c.logger.DebugContext(ctx, "close session", "session", s.ID().String(), "error", err)
	}
}

func (c *Coordinator) logAssignments(ctx context.Context, made []assignment.Assignment) {
	for _, a := range made {
		c.logger.InfoContext(ctx, "order assigned",
			"order_id", a.OrderID(),
			"courier_id", a.CourierID(),
			"estimated_minutes", a.EstimatedMinutes(),
			"score", a.Score(),
		)
	}
}
