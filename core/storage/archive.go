package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
)

// Archiver uploads snapshot documents to a bucket under a fixed prefix.
type Archiver struct {
	client Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewArchiver returns an archiver writing to bucket/prefix.
func NewArchiver(client Client, bucket, prefix string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Check verifies that the archive bucket is reachable and exists.
func (a *Archiver) Check(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", a.bucket)
	}
	return nil
}

// EnsureBucket creates the archive bucket when it does not exist and reports
// whether it did.
func (a *Archiver) EnsureBucket(ctx context.Context, opts minio.MakeBucketOptions) (bool, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return false, nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, opts); err != nil {
		return false, fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return true, nil
}

// Archive uploads data as <prefix>/<kind>/<timestamp>-<name> and returns the
// object key.
func (a *Archiver) Archive(ctx context.Context, kind, name string, data []byte) (string, error) {
	if err := a.Check(ctx); err != nil {
		return "", err
	}

	stamp := a.now().UTC().Format("20060102T150405Z")
	objectKey := path.Join(a.prefix, kind, stamp+"-"+path.Base(name))

	_, err := a.client.PutObject(
		ctx,
		a.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/xml"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	return objectKey, nil
}
