// Package database provides the relational backend for pipeline namespaces.
//
// It wraps GORM to open MySQL or SQLite connections from the application's
// configuration and stores pipeline artifacts in a shared object table.
//
// # Connect
//
// Connect opens the configured driver (mysql or sqlite) with bounded timeouts
// and verifies the connection with a ping.
//
// # Object Store
//
// ObjectStore implements pipeline.Backend. A container is a row in
// pipeline_containers; objects live in pipeline_objects keyed by
// (container, name). CreateContainer migrates both tables.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live schema so the object table
// can be verified before use (see ObjectStore.VerifySchema).
//
// # Usage
//
//	store, err := database.Open(cfg.Database, "artifacts")
//	ns, err := pipeline.New(ctx, store, pipeline.Options{RootPrefix: "output"})
package database
