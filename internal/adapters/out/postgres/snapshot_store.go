// Package postgres stores shutdown snapshots in PostgreSQL through GORM.
// Live dispatch state never touches the database; a snapshot is written once,
// in a single transaction, when the service stops.
package postgres

import (
	"context"
	"fmt"

	"dispatch/internal/adapters/out/postgres/snapshotrepo"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

var _ ports.SnapshotStore = (*GormSnapshotStore)(nil)

type GormSnapshotStore struct {
	db *gorm.DB
}

func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

// Migrate creates or updates the snapshot tables.
func (s *GormSnapshotStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(snapshotrepo.Models()...); err != nil {
		return fmt.Errorf("migrate snapshot tables: %w", err)
	}
	return nil
}

// Save inserts the snapshot and all of its rows in one transaction.
func (s *GormSnapshotStore) Save(ctx context.Context, snapshot ports.DispatchSnapshot) error {
	dto := snapshotrepo.FromDomain(snapshot)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", dto.ID, err)
	}
	return nil
}

// Latest loads the most recent snapshot with its rows, ordered as they were
// taken. It returns gorm.ErrRecordNotFound when none exists.
func (s *GormSnapshotStore) Latest(ctx context.Context) (snapshotrepo.SnapshotDTO, error) {
	var dto snapshotrepo.SnapshotDTO
	err := s.db.WithContext(ctx).
		Preload("Couriers", func(db *gorm.DB) *gorm.DB { return db.Order("courier_id") }).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("order_id") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("taken_at DESC").
		First(&dto).Error
	if err != nil {
		return snapshotrepo.SnapshotDTO{}, err
	}
	return dto, nil
}
