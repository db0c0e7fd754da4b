// Package backend selects the storage backend for the pipeline namespace.
//
// The kind is read from the pipeline section of the configuration:
//
//   - s3: an S3/MinIO bucket (core/storage)
//   - database: a MySQL or SQLite object table (core/database)
//   - memory: a process-local map, lost on exit (core/pipeline)
//
// # Usage
//
//	be, err := backend.Open(cfg.Pipeline, cfg.Storage, cfg.Database)
//	ns, err := pipeline.New(ctx, be, pipeline.Options{RootPrefix: cfg.Pipeline.RootPrefix})
package backend
