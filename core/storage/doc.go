// Package storage provides the object storage archive for snapshot documents.
//
// It wraps the MinIO Go client behind a small Client interface so that
// archiving can be mocked in unit tests (see core/storage/mocks). Both AWS S3
// and self-hosted MinIO instances are supported.
//
// # Archiver
//
// When storage.enabled is set, every exported file and the store snapshot
// taken just before a sync is applied are uploaded as
// <prefix>/<kind>/<timestamp>-<file name>.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archiver := storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.Prefix)
//	key, err := archiver.Archive(ctx, "export", path, data)
package storage
