// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface. The reconciler uses it to keep
// its last-known snapshots durable across restarts; both AWS S3 and self-hosted MinIO work.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket at startup.
//   - PutObject: writes the state document.
//   - GetObject: reads it back; IsNotFound distinguishes a first run from a failure.
//   - RemoveObject: discards the state document (sync --reset-state).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
package storage
