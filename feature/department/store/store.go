package store

import (
	"context"
	"fmt"
	"strings"

	"datasync/core/database"
	"datasync/core/reconcile"
	"datasync/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultBatchSize is the number of statements flushed together during apply.
const DefaultBatchSize = 5

// savepointName marks the pre-apply state inside the apply transaction.
const savepointName = "pre_apply"

// Store reads and writes the managed table through gorm.
type Store struct {
	db     *gorm.DB
	cfg    Config
	logger *zap.Logger
}

var _ reconcile.Store = (*Store)(nil)

// New creates a store over db. A zero BatchSize falls back to DefaultBatchSize.
func New(db *gorm.DB, cfg Config, logger *zap.Logger) *Store {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, cfg: cfg, logger: logger}
}

// VerifySchema checks that the managed table exists with its three columns.
func (s *Store) VerifySchema(ctx context.Context) error {
	return database.RequireColumns(s.db.WithContext(ctx), s.cfg.Name,
		s.cfg.CodeColumn, s.cfg.JobColumn, s.cfg.DescriptionColumn)
}

// FetchAll loads every row of the managed table. Rows with a NULL key column
// or a repeated key are rejected.
func (s *Store) FetchAll(ctx context.Context) (*reconcile.Collection, error) {
	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Table(s.cfg.Name).
		Select([]string{s.cfg.CodeColumn, s.cfg.JobColumn, s.cfg.DescriptionColumn}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.cfg.Name, err)
	}

	b := reconcile.NewBuilder(len(rows))
	for i, row := range rows {
		code, job := column(row, s.cfg.CodeColumn), column(row, s.cfg.JobColumn)
		if code == nil || job == nil {
			return nil, fmt.Errorf("row %d of %s has a NULL key column", i+1, s.cfg.Name)
		}

		record := reconcile.Record{
			Key: reconcile.Key{
				Code: utils.ToString(code),
				Job:  utils.ToString(job),
			},
			Description: utils.ToNullString(column(row, s.cfg.DescriptionColumn)),
		}
		if err := b.Add(record); err != nil {
			return nil, fmt.Errorf("table %s: %w", s.cfg.Name, err)
		}
	}

	s.logger.Debug("Fetched rows from store", zap.String("table", s.cfg.Name), zap.Int("rows", b.Len()))
	return b.Collection(), nil
}

// Apply executes the change set in one transaction: deletes, then updates,
// then inserts, queued and flushed every BatchSize statements. Any failure rolls back to
// the savepoint taken before the first statement and is returned as a
// *reconcile.StoreWriteError.
func (s *Store) Apply(ctx context.Context, cs *reconcile.ChangeSet) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return &reconcile.StoreWriteError{Err: fmt.Errorf("failed to begin transaction: %w", tx.Error)}
	}

	if err := tx.SavePoint(savepointName).Error; err != nil {
		s.abort(tx, false)
		return &reconcile.StoreWriteError{Err: fmt.Errorf("failed to create savepoint: %w", err)}
	}

	b := newBatch(s, tx, s.cfg.BatchSize)
	if err := s.stage(b, cs); err != nil {
		s.abort(tx, true)
		return &reconcile.StoreWriteError{Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		return &reconcile.StoreWriteError{Err: fmt.Errorf("failed to commit: %w", err)}
	}

	s.logger.Debug("Committed changes", zap.Int("statements", b.executed), zap.Int("round_trips", b.trips))
	return nil
}

// stage queues every statement of cs in apply order and flushes the remainder.
func (s *Store) stage(b *batch, cs *reconcile.ChangeSet) error {
	for _, r := range cs.ToDelete.Records() {
		if err := b.add(opDelete, r); err != nil {
			return err
		}
	}
	for _, r := range cs.ToUpdate.Records() {
		if err := b.add(opUpdate, r); err != nil {
			return err
		}
	}
	for _, r := range cs.ToInsert.Records() {
		if err := b.add(opInsert, r); err != nil {
			return err
		}
	}
	return b.flush()
}

// abort rolls back to the savepoint (when one was taken) and ends the
// transaction. Rollback failures are only logged.
func (s *Store) abort(tx *gorm.DB, toSavepoint bool) {
	if toSavepoint {
		if err := tx.RollbackTo(savepointName).Error; err != nil {
			s.logger.Warn("Failed to roll back to savepoint", zap.Error(err))
		}
	}
	if err := tx.Rollback().Error; err != nil {
		s.logger.Warn("Failed to roll back transaction", zap.Error(err))
	}
}

// column returns row[name], falling back to a case-insensitive match since
// drivers differ in how they report column names.
func column(row map[string]any, name string) any {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}
