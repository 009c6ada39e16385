package department

import (
	"context"

	"datasync/core/reconcile"
	"datasync/feature/department/snapshot"

	"go.uber.org/zap"
)

// Archive kinds, used as the second path segment of object keys.
const (
	archiveKindExport = "export"
	archiveKindBackup = "backup"
)

// Archiver stores a copy of a snapshot document.
type Archiver interface {
	Archive(ctx context.Context, kind, name string, data []byte) (string, error)
}

// WithArchiver enables archiving of exported files and pre-sync backups.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// archive uploads data when an archiver is set and returns the object key.
func (s *Service) archive(ctx context.Context, kind, name string, data []byte) (string, error) {
	if s.archiver == nil {
		return "", nil
	}

	key, err := s.archiver.Archive(ctx, kind, name, data)
	if err != nil {
		return "", err
	}

	s.logger.Info("Archived snapshot", zap.String("kind", kind), zap.String("object", key))
	return key, nil
}

// archiveCollection encodes c as a snapshot document and archives it.
func (s *Service) archiveCollection(ctx context.Context, kind, name string, c *reconcile.Collection) (string, error) {
	if s.archiver == nil {
		return "", nil
	}

	data, err := snapshot.Encode(c)
	if err != nil {
		return "", err
	}
	return s.archive(ctx, kind, name, data)
}
