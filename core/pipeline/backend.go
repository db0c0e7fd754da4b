package pipeline

import "context"

// ObjectInfo describes one object returned by a backend listing.
type ObjectInfo struct {
	// Name is the physical address of the object.
	Name string
	// Size is the object size in bytes, when the backend reports it.
	Size int64
}

// Backend is the object-storage collaborator a Namespace operates on.
// Implementations must be safe for concurrent use.
type Backend interface {
	// ContainerExists reports whether the backing container (bucket, table partition) exists.
	ContainerExists(ctx context.Context) (bool, error)
	// CreateContainer creates the container. It must be idempotent.
	CreateContainer(ctx context.Context) error
	// DeleteContainer removes the container. With force, contained objects are removed first.
	DeleteContainer(ctx context.Context, force bool) error
	// List returns every object whose name starts with prefix, fully materialized.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Read returns the object content. Missing objects yield ErrObjectNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write stores data under name, replacing any previous content.
	Write(ctx context.Context, name string, data []byte) error
	// Exists reports whether an object is stored under name.
	Exists(ctx context.Context, name string) (bool, error)
	// DeleteObject removes the object stored under name.
	DeleteObject(ctx context.Context, name string) error
}
