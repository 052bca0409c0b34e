package cmd_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"dispatch/cmd"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot(t *testing.T, seedCouriers bool) cmd.CompositionRoot {
	t.Helper()
	cfg, err := cmd.LoadConfig("")
	require.NoError(t, err)
	cfg.SeedPath = filepath.Join(t.TempDir(), "absent.json")
	cfg.OutputPath = filepath.Join(t.TempDir(), "output_results.json")
	cfg.SeedCouriers = seedCouriers
	return cmd.NewCompositionRoot(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompositionRoot_Seed_OrdersOnly(t *testing.T) {
	root := newRoot(t, false)
	coord := root.CreateCoordinator()

	require.NoError(t, root.Seed(t.Context(), coord))

	snapshot, err := coord.ExportSnapshot(t.Context())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Couriers)
	require.Len(t, snapshot.Orders, 2)
	for _, o := range snapshot.Orders {
		assert.Equal(t, order.Pending, o.Status())
	}
}

func TestCompositionRoot_Seed_WithCouriers(t *testing.T) {
	root := newRoot(t, true)
	coord := root.CreateCoordinator()

	require.NoError(t, root.Seed(t.Context(), coord))

	snapshot, err := coord.ExportSnapshot(t.Context())
	require.NoError(t, err)
	require.Len(t, snapshot.Couriers, 2)
	require.Len(t, snapshot.Orders, 2)
	for _, o := range snapshot.Orders {
		assert.Equal(t, order.Assigned, o.Status())
	}
	assert.Len(t, snapshot.Assignments, 2)
}

func TestCompositionRoot_SnapshotStores(t *testing.T) {
	root := newRoot(t, false)
	coord := root.CreateCoordinator()
	require.NoError(t, root.Seed(t.Context(), coord))

	stores, err := root.CreateSnapshotStores(t.Context())
	require.NoError(t, err)
	require.Len(t, stores, 1)

	snapshot, err := coord.ExportSnapshot(t.Context())
	require.NoError(t, err)
	require.NoError(t, stores[0].Save(t.Context(), snapshot))
}

func TestCompositionRoot_StatusPublishersDisabled(t *testing.T) {
	root := newRoot(t, false)

	publishers, closeFn, err := root.CreateStatusPublishers()

	require.NoError(t, err)
	assert.Empty(t, publishers)
	require.NoError(t, closeFn())
}
