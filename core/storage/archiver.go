package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver stores raw SavedVariables captures under a per-file, timestamped
// object name. Archive failures are reported to the caller, which logs and
// moves on; archival never gates delivery.
type Archiver struct {
	client Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewArchiver creates an archiver, creating the target bucket if needed.
func NewArchiver(ctx context.Context, client Client, bucket string, logger *zap.Logger) (*Archiver, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}
	return &Archiver{client: client, bucket: bucket, logger: logger, now: time.Now}, nil
}

// Store archives one capture. sourcePath is the local SavedVariables path;
// only its base name appears in the object key.
func (a *Archiver) Store(ctx context.Context, sourcePath string, data []byte) error {
	object := a.objectName(sourcePath)
	_, err := a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/x-lua",
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", object, err)
	}
	a.logger.Debug("Capture archived", zap.String("object", object), zap.Int("bytes", len(data)))
	return nil
}

func (a *Archiver) objectName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stamp := a.now().UTC().Format("20060102T150405Z")
	return fmt.Sprintf("raw/%s/%s", base, stamp+".lua")
}
