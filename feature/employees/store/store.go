package store

import (
	"context"
	"fmt"

	"employee-sync/feature/employees/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the database side of the reconciler.
type Repository interface {
	// SelectAll reads the full table ordered by id.
	SelectAll(ctx context.Context) (models.Snapshot, error)
	// Upsert inserts the record or replaces the row with the same id, bumping LAST_UPDATED.
	Upsert(ctx context.Context, record models.Record) error
	// Delete removes the row with the given id. A missing row is not an error.
	Delete(ctx context.Context, id int64) error
}

// Store implements Repository on top of gorm.
type Store struct {
	db *gorm.DB
}

// New creates a store for the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SelectAll reads every employee ordered by id.
func (s *Store) SelectAll(ctx context.Context) (models.Snapshot, error) {
	var records []models.Record
	if err := s.db.WithContext(ctx).Order("ID").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to select employees: %w", err)
	}
	return models.Snapshot(records), nil
}

// Upsert writes one record in its own transaction with a single qualified statement.
func (s *Store) Upsert(ctx context.Context, record models.Record) error {
	if record.ID <= 0 {
		return fmt.Errorf("refusing to upsert employee with id %d", record.ID)
	}

	// LAST_UPDATED is stamped by gorm on create and copied on conflict
	record.LastModified = s.db.NowFunc()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ID"}},
			DoUpdates: clause.AssignmentColumns([]string{"NAME", "ROLE", "SALARY_USD", "LAST_UPDATED"}),
		}).Create(&record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert employee %d: %w", record.ID, err)
	}
	return nil
}

// Delete removes one employee in its own transaction.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("ID = ?", id).Delete(&models.Record{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	return nil
}
