package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/in/tcp"
	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cmd.NewCompositionRoot(configs, logger)

	publishers, closePublishers, err := app.CreateStatusPublishers()
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	defer func() {
		if err := closePublishers(); err != nil {
			logger.Warn("Close status publishers", "error", err)
		}
	}()

	snapshotStores, err := app.CreateSnapshotStores(ctx)
	if err != nil {
		log.Fatalf("Error preparing snapshot stores: %v", err)
	}

	coord := app.CreateCoordinator(publishers...)
	if err := app.Seed(ctx, coord); err != nil {
		logger.Warn("Some seed entries were rejected", "error", err)
	}

	tcpServer := app.CreateTCPServer(coord)
	go func() {
		if err := tcpServer.ListenAndServe(ctx); err != nil && !errors.Is(err, tcp.ErrServerClosed) {
			log.Fatalf("TCP server failed: %v", err)
		}
	}()

	e := app.CreateHTTPServer(coord)
	startWebServer(e, configs.HTTPPort)

	jobManager := app.CreateJobManager(coord)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}

	logger.Info("Dispatch service started",
		"tcp_addr", configs.TCPAddr,
		"http_port", configs.HTTPPort,
		"retention", configs.Retention.String(),
	)

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	jobManager.StopAll()
	if err := tcpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("TCP server shutdown", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", "error", err)
	}

	saveSnapshot(shutdownCtx, logger, coord, snapshotStores)
}

func startWebServer(e *echo.Echo, port string) {
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()
}

func saveSnapshot(
	ctx context.Context,
	logger *slog.Logger,
	coord *coordinator.Coordinator,
	stores []ports.SnapshotStore,
) {
	snapshot, err := coord.ExportSnapshot(ctx)
	if err != nil {
		logger.Error("Export snapshot", "error", err)
		return
	}

	for _, store := range stores {
		if err := store.Save(ctx, snapshot); err != nil {
			logger.Error("Save snapshot", "store", fmt.Sprintf("%T", store), "error", err)
			continue
		}
		logger.Info("Snapshot saved", "store", fmt.Sprintf("%T", store),
			"orders", len(snapshot.Orders), "couriers", len(snapshot.Couriers))
	}
}
