package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"pipeline-storage/core/pipeline"

	"github.com/minio/minio-go/v7"
)

// Bucket implements pipeline.Backend on a single S3/MinIO bucket.
type Bucket struct {
	client Client
	name   string
	region string
}

var _ pipeline.Backend = (*Bucket)(nil)

// NewBucket creates a backend for bucket using client.
func NewBucket(client Client, bucket, region string) *Bucket {
	return &Bucket{client: client, name: bucket, region: region}
}

// Open connects to the storage service described by cfg and returns its bucket backend.
func Open(cfg Config) (*Bucket, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: storage bucket is required", pipeline.ErrConfiguration)
	}
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
	}
	return NewBucket(client, cfg.Bucket, cfg.Region), nil
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

func (b *Bucket) ContainerExists(ctx context.Context) (bool, error) {
	exists, err := b.client.BucketExists(ctx, b.name)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return exists, nil
}

func (b *Bucket) CreateContainer(ctx context.Context) error {
	exists, err := b.ContainerExists(ctx)
	if err != nil || exists {
		return err
	}

	err = b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{Region: b.region})
	if err != nil {
		// Lost a creation race against another writer.
		switch minio.ToErrorResponse(err).Code {
		case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", b.name, err)
	}
	return nil
}

func (b *Bucket) DeleteContainer(ctx context.Context, force bool) error {
	if force {
		if err := b.removeAll(ctx); err != nil {
			return err
		}
	}
	if err := b.client.RemoveBucket(ctx, b.name); err != nil {
		if minio.ToErrorResponse(err).Code == "BucketNotEmpty" {
			return fmt.Errorf("%w: %s", pipeline.ErrContainerNotEmpty, b.name)
		}
		return fmt.Errorf("failed to remove bucket %s: %w", b.name, err)
	}
	return nil
}

// removeAll deletes every object in the bucket through the batch API.
func (b *Bucket) removeAll(ctx context.Context) error {
	objects, err := b.List(ctx, "")
	if err != nil {
		return err
	}

	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for _, obj := range objects {
			select {
			case objectsCh <- minio.ObjectInfo{Key: obj.Name}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var errs []error
	for rErr := range b.client.RemoveObjects(ctx, b.name, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", rErr.ObjectName, rErr.Err))
	}
	return errors.Join(errs...)
}

func (b *Bucket) List(ctx context.Context, prefix string) ([]pipeline.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	var objects []pipeline.ObjectInfo
	for obj := range b.client.ListObjects(ctx, b.name, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", prefix, obj.Err)
		}
		objects = append(objects, pipeline.ObjectInfo{Name: obj.Key, Size: obj.Size})
	}
	return objects, nil
}

func (b *Bucket) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.name, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.objectError(name, err)
	}
	defer obj.Close()

	// Minio objects are lazy: a missing key only surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, b.objectError(name, err)
	}
	return data, nil
}

func (b *Bucket) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.name, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

func (b *Bucket) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.name, name, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return true, nil
}

func (b *Bucket) DeleteObject(ctx context.Context, name string) error {
	if err := b.client.RemoveObject(ctx, b.name, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

func (b *Bucket) objectError(name string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", pipeline.ErrObjectNotFound, name)
	}
	return fmt.Errorf("failed to download %s: %w", name, err)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
