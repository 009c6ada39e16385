package department

import (
	"context"
	"errors"
	"fmt"

	"datasync/core/prompt"
	"datasync/core/reconcile"

	"go.uber.org/zap"
)

// Stage names attached to failures of a run.
const (
	StageConnect      = "connect"
	StageFetchStore   = "fetch store"
	StageValidateFile = "validate file"
	StageReadFile     = "read file"
	StageWriteFile    = "write file"
	StageConfirm      = "confirm"
	StageDiff         = "diff"
	StageArchive      = "archive"
	StageApply        = "apply"
)

// Store is the database side of a run.
type Store interface {
	reconcile.Store
	// VerifySchema checks the managed table and its columns exist.
	VerifySchema(ctx context.Context) error
}

// Snapshots is the file side of a run.
type Snapshots interface {
	Exists(path string) (bool, error)
	CheckReadable(path string) error
	CheckWritable(path string) error
	ReadAll(path string) (*reconcile.Collection, error)
	WriteAll(path string, c *reconcile.Collection) ([]byte, error)
}

// SyncOptions controls a sync run.
type SyncOptions struct {
	// DryRun computes and reports the change set without applying it.
	DryRun bool
}

// SyncResult describes a finished sync.
type SyncResult struct {
	Plan     *reconcile.ReconcilePlan
	Executed int
	// BackupKey is the object key of the archived pre-sync table snapshot.
	BackupKey string
}

// Service runs export and sync between the store and snapshot files.
type Service struct {
	store    Store
	files    Snapshots
	confirm  prompt.Confirmer
	archiver Archiver
	logger   *zap.Logger
}

// NewService creates a new department service.
func NewService(store Store, files Snapshots, confirm prompt.Confirmer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		files:   files,
		confirm: confirm,
		logger:  logger,
	}
}

// Export writes every store row to path. An existing file is only replaced
// after the user agrees; declining returns reconcile.ErrAborted.
func (s *Service) Export(ctx context.Context, path string) (int, error) {
	s.logger.Info("Exporting table to file", zap.String("file", path))

	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return 0, reconcile.Stage(StageFetchStore, err)
	}
	s.logger.Info("Fetched rows from table", zap.Int("rows", records.Len()))

	if err := s.files.CheckWritable(path); err != nil {
		return 0, reconcile.Stage(StageValidateFile, err)
	}

	exists, err := s.files.Exists(path)
	if err != nil {
		return 0, reconcile.Stage(StageValidateFile, err)
	}
	if exists {
		ok, err := s.confirm.Confirm(fmt.Sprintf("File %s already exists. Overwrite it?", path))
		if err != nil {
			return 0, reconcile.Stage(StageConfirm, err)
		}
		if !ok {
			return 0, reconcile.ErrAborted
		}
	}

	data, err := s.files.WriteAll(path, records)
	if err != nil {
		return 0, reconcile.Stage(StageWriteFile, err)
	}
	s.logger.Info("Wrote file", zap.String("file", path), zap.Int("rows", records.Len()), zap.Int("bytes", len(data)))

	if _, err := s.archive(ctx, archiveKindExport, path, data); err != nil {
		return 0, reconcile.Stage(StageArchive, err)
	}

	return records.Len(), nil
}

// Sync makes the store match the file at path. An empty file wipes the table
// only after the user agrees. When nothing differs reconcile.ErrNoChanges is
// returned.
func (s *Service) Sync(ctx context.Context, path string, opts SyncOptions) (*SyncResult, error) {
	s.logger.Info("Syncing table from file", zap.String("file", path), zap.Bool("dry_run", opts.DryRun))

	if err := s.store.VerifySchema(ctx); err != nil {
		return nil, reconcile.Stage(StageFetchStore, err)
	}

	target, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, reconcile.Stage(StageFetchStore, err)
	}
	s.logger.Info("Fetched rows from table", zap.Int("rows", target.Len()))

	if err := s.files.CheckReadable(path); err != nil {
		return nil, reconcile.Stage(StageValidateFile, err)
	}

	source, err := s.files.ReadAll(path)
	if err != nil {
		return nil, reconcile.Stage(StageReadFile, err)
	}
	s.logger.Info("Read rows from file", zap.Int("rows", source.Len()))

	if source.Len() == 0 {
		ok, err := s.confirm.Confirm(fmt.Sprintf("File %s is empty. All %d rows of the table will be deleted. Continue?", path, target.Len()))
		if err != nil {
			return nil, reconcile.Stage(StageConfirm, err)
		}
		if !ok {
			return nil, reconcile.ErrAborted
		}
	}

	plan, err := reconcile.ReconcileWithPlan(source, target)
	if err != nil {
		if errors.Is(err, reconcile.ErrNoChanges) {
			return nil, err
		}
		return nil, reconcile.Stage(StageDiff, err)
	}
	printPlan(s.logger, plan)

	result := &SyncResult{Plan: plan}
	if opts.DryRun {
		s.logger.Info("Dry-run mode: No changes were made.")
		return result, nil
	}

	result.BackupKey, err = s.archiveCollection(ctx, archiveKindBackup, path, target)
	if err != nil {
		return nil, reconcile.Stage(StageArchive, err)
	}

	// Reaching this point with an empty source means the wipe was confirmed
	result.Executed, err = reconcile.ApplyPlan(ctx, s.store, plan, reconcile.ReconcileOptions{Confirmed: true})
	if err != nil {
		return nil, reconcile.Stage(StageApply, err)
	}

	s.logger.Info("Successfully applied changes", zap.Int("count", result.Executed))
	return result, nil
}

// printPlan logs the change counts and a sample of each kind.
func printPlan(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary
	l.Info("Planned changes",
		zap.Int("deletes", s.Deletes),
		zap.Int("updates", s.Updates),
		zap.Int("inserts", s.Inserts),
		zap.Int("total", s.Total()),
		zap.Bool("wipes_table", plan.WipesTarget),
	)

	sample(l, "delete", plan.Changes.ToDelete.Records())
	sample(l, "update", plan.Changes.ToUpdate.Records())
	sample(l, "insert", plan.Changes.ToInsert.Records())
}

const maxSample = 5

func sample(l *zap.Logger, op string, records []reconcile.Record) {
	n := min(len(records), maxSample)
	for _, r := range records[:n] {
		l.Debug("Sample change", zap.String("op", op), zap.Stringer("record", r))
	}
	if len(records) > n {
		l.Debug("Additional changes not shown", zap.String("op", op), zap.Int("count", len(records)-n))
	}
}
