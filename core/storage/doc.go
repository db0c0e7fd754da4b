// Package storage provides the S3/MinIO backend for pipeline namespaces.
//
// It wraps the MinIO Go client behind the Client interface and adapts one bucket
// to the pipeline.Backend contract. Both AWS S3 and self-hosted MinIO instances
// are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Bucket Backend
//
//   - ContainerExists / CreateContainer: BucketExists and MakeBucket (idempotent).
//   - DeleteContainer: RemoveBucket, emptying the bucket first through RemoveObjects when forced.
//   - List: recursive ListObjects under a prefix, drained into a slice.
//   - Read / Write / Exists / DeleteObject: GetObject, PutObject, StatObject, RemoveObject.
//
// Missing objects are reported as pipeline.ErrObjectNotFound.
//
// # Usage
//
//	bucket, err := storage.Open(cfg.Storage)
//	ns, err := pipeline.New(ctx, bucket, pipeline.Options{RootPrefix: "output"})
package storage
