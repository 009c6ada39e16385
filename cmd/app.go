package cmd

import (
	"fmt"
	"os"

	"datasync/core/config"
	"datasync/core/database"
	"datasync/core/logger"
	"datasync/core/prompt"
	"datasync/core/reconcile"
	"datasync/core/storage"
	"datasync/feature/department"
	"datasync/feature/department/snapshot"
	"datasync/feature/department/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	configPath string
	yesConfirm bool
)

// app holds everything a command run needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	store    *store.Store
	archiver *storage.Archiver
}

// newApp loads configuration, builds the logger and connects to the database.
// Connection failures are reported under the "connect" stage.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	l, runID := logger.WithRunID(l)
	runLogger = l
	l.Debug("Starting run", zap.String("run_id", runID), zap.String("driver", cfg.Database.Driver))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		_ = l.Sync()
		return nil, reconcile.Stage(department.StageConnect, fmt.Errorf("failed to connect to database: %w", err))
	}

	a := &app{
		cfg:    cfg,
		logger: l,
		db:     db,
		store:  store.New(db, cfg.Table, l.Named("store")),
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			a.close()
			return nil, reconcile.Stage(department.StageConnect, fmt.Errorf("failed to connect to storage: %w", err))
		}
		a.archiver = storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.Prefix)
	}

	return a, nil
}

// service builds the department service over the OS file system.
func (a *app) service() *department.Service {
	var confirm prompt.Confirmer = prompt.NewTerminal(os.Stdin, os.Stdout)
	if yesConfirm {
		confirm = prompt.NewAutoYes(os.Stdout)
	}

	svc := department.NewService(a.store, snapshot.New(nil), confirm, a.logger)
	if a.archiver != nil {
		svc.WithArchiver(a.archiver)
	}
	return svc
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
