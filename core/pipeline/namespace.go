package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is the text encoding used when none is configured.
const DefaultEncoding = "utf-8"

// Options configures a root Namespace.
type Options struct {
	// RootPrefix scopes every key of the namespace. Empty means the container root.
	RootPrefix string
	// Encoding is the default text encoding for GetText and SetText.
	Encoding string
	// Logger receives failure context. Nil disables logging.
	Logger *zap.Logger
}

// session is the state shared by a namespace and all of its children.
type session struct {
	backend Backend
	logger  *zap.Logger
	flight  singleflight.Group
}

// Namespace is a view of a backend scoped to one root prefix.
//
// Reads and writes are best-effort: Get/GetText report failures as a missing value and
// Set/SetText report them through WriteResult, after logging. Has, Delete, Clear and Find
// are fail-fast and return errors wrapping ErrStorageUnavailable.
type Namespace struct {
	*session
	root     string
	encoding string
	codec    encoding.Encoding
}

// WriteResult is the outcome of a best-effort write.
type WriteResult struct {
	// Key is the logical key that was written.
	Key string
	// Address is the physical address the key resolved to.
	Address string
	// Err is the reason the value was not persisted, if any.
	Err error
}

// Persisted reports whether the write reached the backend.
func (r WriteResult) Persisted() bool {
	return r.Err == nil
}

// New creates a Namespace over backend and ensures the backend container exists.
func New(ctx context.Context, backend Backend, opts Options) (*Namespace, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrConfiguration)
	}

	name := opts.Encoding
	if name == "" {
		name = DefaultEncoding
	}
	codec, err := lookupEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ns := &Namespace{
		session:  &session{backend: backend, logger: logger},
		root:     NormalizePrefix(opts.RootPrefix),
		encoding: name,
		codec:    codec,
	}

	ns.logger.Info("Creating pipeline storage", zap.String("root", ns.root), zap.String("encoding", name))
	if err := ns.ensureContainer(ctx); err != nil {
		return nil, err
	}
	return ns, nil
}

// Root returns the namespace root prefix.
func (n *Namespace) Root() string {
	return n.root
}

// Encoding returns the default text encoding name.
func (n *Namespace) Encoding() string {
	return n.encoding
}

// Child returns a namespace rooted at name below the receiver.
// An empty name returns the receiver itself; names escaping the receiver
// (see ValidateChildName) are rejected with ErrConfiguration.
func (n *Namespace) Child(ctx context.Context, name string) (*Namespace, error) {
	if name == "" {
		return n, nil
	}
	if err := ValidateChildName(name); err != nil {
		return nil, err
	}

	child := &Namespace{
		session:  n.session,
		root:     NormalizePrefix(Resolve(n.root, strings.Trim(name, Separator))),
		encoding: n.encoding,
		codec:    n.codec,
	}
	if err := child.ensureContainer(ctx); err != nil {
		return nil, err
	}
	return child, nil
}

// ensureContainer creates the backend container if it is missing.
// Concurrent calls on the same backend share one round trip.
func (n *Namespace) ensureContainer(ctx context.Context) error {
	_, err, _ := n.flight.Do("container", func() (any, error) {
		exists, err := n.backend.ContainerExists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, nil
		}
		return nil, n.backend.CreateContainer(ctx)
	})
	if err != nil {
		n.logger.Error("Failed to ensure storage container", zap.String("root", n.root), zap.Error(err))
		return fmt.Errorf("%w: ensure container: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns the raw content stored under key. ok is false when the key is
// missing or the backend failed; the failure is logged, never returned.
func (n *Namespace) Get(ctx context.Context, key string) (data []byte, ok bool) {
	address := Resolve(n.root, key)
	data, err := n.backend.Read(ctx, address)
	if err != nil {
		n.logReadFailure(key, address, err)
		return nil, false
	}
	return data, true
}

// GetText returns the content stored under key decoded with enc, or with the
// namespace default when enc is empty. Failures behave as in Get.
func (n *Namespace) GetText(ctx context.Context, key, enc string) (string, bool) {
	codec, err := n.codecFor(enc)
	if err != nil {
		n.logReadFailure(key, Resolve(n.root, key), err)
		return "", false
	}

	data, ok := n.Get(ctx, key)
	if !ok {
		return "", false
	}

	text, err := codec.NewDecoder().Bytes(data)
	if err != nil {
		n.logReadFailure(key, Resolve(n.root, key), err)
		return "", false
	}
	return string(text), true
}

func (n *Namespace) logReadFailure(key, address string, err error) {
	if errors.Is(err, ErrObjectNotFound) {
		n.logger.Debug("Key not found", zap.String("key", key), zap.String("address", address))
		return
	}
	n.logger.Error("Error getting key", zap.String("key", key), zap.String("address", address), zap.Error(err))
}

// Set stores data under key as-is.
func (n *Namespace) Set(ctx context.Context, key string, data []byte) WriteResult {
	result := WriteResult{Key: key, Address: Resolve(n.root, key)}
	if err := n.backend.Write(ctx, result.Address, data); err != nil {
		n.logger.Error("Error setting key", zap.String("key", key), zap.String("address", result.Address), zap.Error(err))
		result.Err = err
	}
	return result
}

// SetText encodes text with enc, or the namespace default when enc is empty, and stores it under key.
func (n *Namespace) SetText(ctx context.Context, key, text, enc string) WriteResult {
	codec, err := n.codecFor(enc)
	if err == nil {
		var data []byte
		if data, err = codec.NewEncoder().Bytes([]byte(text)); err == nil {
			return n.Set(ctx, key, data)
		}
	}

	result := WriteResult{Key: key, Address: Resolve(n.root, key), Err: err}
	n.logger.Error("Error encoding value", zap.String("key", key), zap.String("encoding", enc), zap.Error(err))
	return result
}

// Has reports whether key is stored in the namespace.
func (n *Namespace) Has(ctx context.Context, key string) (bool, error) {
	address := Resolve(n.root, key)
	exists, err := n.backend.Exists(ctx, address)
	if err != nil {
		n.logger.Error("Error checking key", zap.String("key", key), zap.String("address", address), zap.Error(err))
		return false, fmt.Errorf("%w: has %q: %w", ErrStorageUnavailable, key, err)
	}
	return exists, nil
}

// Delete removes key from the namespace.
func (n *Namespace) Delete(ctx context.Context, key string) error {
	address := Resolve(n.root, key)
	if err := n.backend.DeleteObject(ctx, address); err != nil {
		n.logger.Error("Error deleting key", zap.String("key", key), zap.String("address", address), zap.Error(err))
		return fmt.Errorf("%w: delete %q: %w", ErrStorageUnavailable, key, err)
	}
	return nil
}

// Clear deletes every object under the namespace root. Sibling namespaces sharing
// a textual prefix ("out" and "outer") are left untouched. Clear is not atomic.
func (n *Namespace) Clear(ctx context.Context) error {
	prefix := scope(n.root)
	objects, err := n.backend.List(ctx, prefix)
	if err != nil {
		n.logger.Error("Error listing namespace for clear", zap.String("root", n.root), zap.Error(err))
		return fmt.Errorf("%w: clear %q: %w", ErrStorageUnavailable, n.root, err)
	}

	for _, obj := range objects {
		if err := n.backend.DeleteObject(ctx, obj.Name); err != nil {
			n.logger.Error("Error clearing object", zap.String("root", n.root), zap.String("address", obj.Name), zap.Error(err))
			return fmt.Errorf("%w: clear %q: %w", ErrStorageUnavailable, n.root, err)
		}
	}

	n.logger.Info("Cleared namespace", zap.String("root", n.root), zap.Int("objects", len(objects)))
	return nil
}

// Keys is not supported: the backend contract cannot enumerate keys without a pattern. Use Find.
func (n *Namespace) Keys(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: keys cannot be listed without a pattern", ErrUnsupported)
}

// ContainerExists reports whether the backend container exists.
func (n *Namespace) ContainerExists(ctx context.Context) (bool, error) {
	exists, err := n.backend.ContainerExists(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return exists, nil
}

// CreateContainer creates the backend container if it does not exist.
func (n *Namespace) CreateContainer(ctx context.Context) error {
	return n.ensureContainer(ctx)
}

// DeleteContainer deletes the backend container shared by every namespace of this session.
func (n *Namespace) DeleteContainer(ctx context.Context, force bool) error {
	exists, err := n.ContainerExists(ctx)
	if err != nil || !exists {
		return err
	}
	if err := n.backend.DeleteContainer(ctx, force); err != nil {
		n.logger.Error("Error deleting container", zap.Bool("force", force), zap.Error(err))
		return fmt.Errorf("%w: delete container: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (n *Namespace) codecFor(name string) (encoding.Encoding, error) {
	if name == "" || name == n.encoding {
		return n.codec, nil
	}
	return lookupEncoding(name)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	codec, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return codec, nil
}
