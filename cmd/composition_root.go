package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/tcp"
	"dispatch/internal/adapters/out/jsonfile"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/rabbitmq"
	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/labstack/echo/v4"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	store      *memory.Store
	uowFactory *memory.UnitOfWorkFactory
}

func NewCompositionRoot(cfg Config, logger *slog.Logger) CompositionRoot {
	store := memory.NewStore(traffic.NewState(traffic.Normal))
	return CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		uowFactory: memory.NewUnitOfWorkFactory(store),
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoW() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) trafficUoW() commands.TrafficUoWFactory {
	return FuncTrafficUoWFactory(func() commands.TrafficUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) readUoW() queries.ReadUoWFactory {
	return FuncReadUoWFactory(func() queries.ReadUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateUpsertCourierCommandHandler() commands.UpsertCourierCommandHandler {
	return commands.NewUpsertCourierCommandHandler(c.uow(), commands.CourierDefaults{
		Capacity:  c.cfg.DefaultCourierCapacity,
		MaxOrders: c.cfg.MaxOrdersPerCourier,
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAssignPendingCommandHandler() commands.AssignPendingCommandHandler {
	return commands.NewAssignPendingCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateDeclareEmergencyCommandHandler() commands.DeclareEmergencyCommandHandler {
	return commands.NewDeclareEmergencyCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateUpdateTrafficCommandHandler() commands.UpdateTrafficCommandHandler {
	return commands.NewUpdateTrafficCommandHandler(c.trafficUoW())
}

func (c *CompositionRoot) CreateMarkCourierOfflineCommandHandler() commands.MarkCourierOfflineCommandHandler {
	return commands.NewMarkCourierOfflineCommandHandler(c.courierUoW())
}

func (c *CompositionRoot) CreateExpireStaleCouriersCommandHandler() commands.ExpireStaleCouriersCommandHandler {
	return commands.NewExpireStaleCouriersCommandHandler(c.courierUoW())
}

func (c *CompositionRoot) CreateGetSystemStatusQueryHandler() queries.GetSystemStatusQueryHandler {
	return queries.NewGetSystemStatusQueryHandler(c.readUoW())
}

func (c *CompositionRoot) CreateGetStatisticsQueryHandler() queries.GetStatisticsQueryHandler {
	return queries.NewGetStatisticsQueryHandler(c.readUoW())
}

func (c *CompositionRoot) CreateExportSnapshotQueryHandler() queries.ExportSnapshotQueryHandler {
	return queries.NewExportSnapshotQueryHandler(c.readUoW())
}

func (c *CompositionRoot) CreateCoordinator(publishers ...ports.StatusPublisher) *coordinator.Coordinator {
	handlers := coordinator.Handlers{
		UpsertCourier:       c.CreateUpsertCourierCommandHandler(),
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		AssignPending:       c.CreateAssignPendingCommandHandler(),
		CompleteDelivery:    c.CreateCompleteDeliveryCommandHandler(),
		DeclareEmergency:    c.CreateDeclareEmergencyCommandHandler(),
		UpdateTraffic:       c.CreateUpdateTrafficCommandHandler(),
		CancelOrder:         c.CreateCancelOrderCommandHandler(),
		MarkCourierOffline:  c.CreateMarkCourierOfflineCommandHandler(),
		ExpireStaleCouriers: c.CreateExpireStaleCouriersCommandHandler(),
		SystemStatus:        c.CreateGetSystemStatusQueryHandler(),
		Statistics:          c.CreateGetStatisticsQueryHandler(),
		ExportSnapshot:      c.CreateExportSnapshotQueryHandler(),
	}
	return coordinator.New(handlers, coordinator.Config{
		StaleAfter:   c.cfg.StaleAfter,
		WriteTimeout: c.cfg.WriteTimeout,
		Retention:    c.cfg.Retention,
	}, c.logger, publishers...)
}

func (c *CompositionRoot) CreateTCPServer(coord *coordinator.Coordinator) *tcp.Server {
	return tcp.NewServer(tcp.Config{Addr: c.cfg.TCPAddr, IdleTimeout: c.cfg.IdleTimeout}, coord, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer(coord *coordinator.Coordinator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	httpadapter.NewServer(coord).Register(e)
	return e
}

// CreateJobManager schedules the periodic sweep, plus the stale courier
// check when couriers are marked offline.
func (c *CompositionRoot) CreateJobManager(coord *coordinator.Coordinator) *jobs.JobManager {
	cfg := jobs.Config{SweepInterval: c.cfg.SweepInterval}
	if c.cfg.Retention == coordinator.RetentionMarkOffline {
		cfg.StaleCheckInterval = c.cfg.SweepInterval
	}
	return jobs.NewJobManager(coord, cfg, c.logger)
}

// CreateStatusPublishers connects to RabbitMQ when it is configured. The
// returned close function is never nil.
func (c *CompositionRoot) CreateStatusPublishers() ([]ports.StatusPublisher, func() error, error) {
	if c.cfg.RabbitMQURL == "" {
		return nil, func() error { return nil }, nil
	}
	pub, err := rabbitmq.Dial(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange)
	if err != nil {
		return nil, nil, err
	}
	return []ports.StatusPublisher{pub}, pub.Close, nil
}

// CreateSnapshotStores returns the JSON file store and, when DB_HOST is set,
// the PostgreSQL store with its tables migrated.
func (c *CompositionRoot) CreateSnapshotStores(ctx context.Context) ([]ports.SnapshotStore, error) {
	stores := []ports.SnapshotStore{jsonfile.NewSnapshotStore(c.cfg.OutputPath)}

	dsn := c.cfg.DSN()
	if dsn == "" {
		return stores, nil
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := postgres.NewGormSnapshotStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return append(stores, store), nil
}

// Seed loads the seed file into the engine. Orders are always added;
// couriers only when SEED_COURIERS is set, since couriers normally appear
// through their own heartbeats.
func (c *CompositionRoot) Seed(ctx context.Context, coord *coordinator.Coordinator) error {
	seed, err := jsonfile.LoadSeed(c.cfg.SeedPath)
	if err != nil {
		c.logger.WarnContext(ctx, "Seed file unavailable, using defaults", "path", c.cfg.SeedPath, "error", err)
	}

	var errList []error
	if c.cfg.SeedCouriers {
		for _, sc := range seed.Couriers {
			if err := coord.RegisterCourier(ctx, seedCourier(sc)); err != nil {
				errList = append(errList, fmt.Errorf("courier %d: %w", sc.ID, err))
			}
		}
	}
	for _, so := range seed.Orders {
		if err := coord.CreateOrder(ctx, seedOrder(so)); err != nil {
			errList = append(errList, fmt.Errorf("order %d: %w", so.ID, err))
		}
	}

	c.logger.InfoContext(ctx, "Seed loaded", "orders", len(seed.Orders), "couriers_seeded", c.cfg.SeedCouriers)
	return errors.Join(errList...)
}

func seedCourier(sc jsonfile.SeedCourier) coordinator.CourierPayload {
	return coordinator.CourierPayload{
		ID:            sc.ID,
		Location:      sc.Location[:],
		TransportType: sc.TransportType,
		Name:          sc.Name,
		MaxCapacity:   sc.MaxCapacity,
	}
}

func seedOrder(so jsonfile.SeedOrder) coordinator.OrderPayload {
	return coordinator.OrderPayload{
		ID:          so.ID,
		Destination: so.Destination[:],
		Weight:      so.Weight,
		Priority:    so.Priority,
		TimeWindow:  so.TimeWindow,
		Description: so.Description,
	}
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncTrafficUoWFactory func() commands.TrafficUoW

func (f FuncTrafficUoWFactory) Create() commands.TrafficUoW {
	return f()
}

type FuncReadUoWFactory func() queries.ReadUoW

func (f FuncReadUoWFactory) Create() queries.ReadUoW {
	return f()
}
