// Package storage wraps the MinIO client for the part metadata archive.
//
// Client exposes only the operations the archive needs so that tests can use
// the testify mock in core/storage/mocks. EnsureBucket creates the archive
// bucket on startup and IsNotFound recognizes missing objects.
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    log.Fatal("Storage unavailable", zap.Error(err))
//	}
package storage
