package storage_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/storage"
	"pipeline-storage/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func (r failingReader) Close() error {
	return nil
}

func listing(objects ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		ch <- obj
	}
	close(ch)
	return ch
}

func TestBucketContainer(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateWhenMissing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "artifacts").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "artifacts", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		err := storage.NewBucket(client, "artifacts", "eu-west-1").CreateContainer(ctx)
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("CreateIsIdempotent", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "artifacts").Return(true, nil)

		err := storage.NewBucket(client, "artifacts", "").CreateContainer(ctx)
		assert.NoError(t, err)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CreateRace", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "artifacts").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "artifacts", mock.Anything).Return(minio.ErrorResponse{Code: "BucketAlreadyOwnedByYou"})

		err := storage.NewBucket(client, "artifacts", "").CreateContainer(ctx)
		assert.NoError(t, err)
	})

	t.Run("ForceDelete", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "artifacts", mock.Anything).Return(listing(minio.ObjectInfo{Key: "out/a"}, minio.ObjectInfo{Key: "out/b"}))
		client.On("RemoveObjects", mock.Anything, "artifacts", mock.Anything, mock.Anything).Return(nil)
		client.On("RemoveBucket", mock.Anything, "artifacts").Return(nil)

		err := storage.NewBucket(client, "artifacts", "").DeleteContainer(ctx, true)
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("DeleteNotEmpty", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("RemoveBucket", mock.Anything, "artifacts").Return(minio.ErrorResponse{Code: "BucketNotEmpty"})

		err := storage.NewBucket(client, "artifacts", "").DeleteContainer(ctx, false)
		assert.True(t, errors.Is(err, pipeline.ErrContainerNotEmpty))
		client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBucketList(t *testing.T) {
	ctx := context.Background()

	t.Run("RecursiveUnderPrefix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "artifacts", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "out/" && opts.Recursive
		})).Return(listing(
			minio.ObjectInfo{Key: "out/2021.json", Size: 10},
			minio.ObjectInfo{Key: "out/deep/2022.json", Size: 12},
		))

		objects, err := storage.NewBucket(client, "artifacts", "").List(ctx, "out/")
		require.NoError(t, err)
		assert.Equal(t, []pipeline.ObjectInfo{
			{Name: "out/2021.json", Size: 10},
			{Name: "out/deep/2022.json", Size: 12},
		}, objects)
	})

	t.Run("ListingError", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "artifacts", mock.Anything).Return(listing(
			minio.ObjectInfo{Key: "out/a"},
			minio.ObjectInfo{Err: errors.New("access denied")},
		))

		objects, err := storage.NewBucket(client, "artifacts", "").List(ctx, "out/")
		assert.Nil(t, objects)
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestBucketObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("Read", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "artifacts", "out/a", mock.Anything).Return(io.NopCloser(strings.NewReader("hello")), nil)

		data, err := storage.NewBucket(client, "artifacts", "").Read(ctx, "out/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("ReadMissing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "artifacts", "out/a", mock.Anything).Return(failingReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}, nil)

		_, err := storage.NewBucket(client, "artifacts", "").Read(ctx, "out/a")
		assert.True(t, errors.Is(err, pipeline.ErrObjectNotFound))
	})

	t.Run("Write", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "artifacts", "out/a", mock.Anything, int64(5), mock.Anything).Return(minio.UploadInfo{}, nil)

		err := storage.NewBucket(client, "artifacts", "").Write(ctx, "out/a", []byte("hello"))
		assert.NoError(t, err)
		client.AssertNumberOfCalls(t, "PutObject", 1)
	})

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "artifacts", "out/a", mock.Anything).Return(minio.ObjectInfo{Key: "out/a"}, nil)
		client.On("StatObject", mock.Anything, "artifacts", "out/b", mock.Anything).Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
		client.On("StatObject", mock.Anything, "artifacts", "out/c", mock.Anything).Return(minio.ObjectInfo{}, errors.New("timeout"))
		bucket := storage.NewBucket(client, "artifacts", "")

		exists, err := bucket.Exists(ctx, "out/a")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = bucket.Exists(ctx, "out/b")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = bucket.Exists(ctx, "out/c")
		assert.Error(t, err)
	})

	t.Run("DeleteObject", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("RemoveObject", mock.Anything, "artifacts", "out/a", mock.Anything).Return(nil)

		err := storage.NewBucket(client, "artifacts", "").DeleteObject(ctx, "out/a")
		assert.NoError(t, err)
	})
}

func TestBucketAsNamespaceBackend(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "artifacts").Return(true, nil)
	client.On("ListObjects", mock.Anything, "artifacts", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "out/"
	})).Return(listing(
		minio.ObjectInfo{Key: "out/2021.json"},
		minio.ObjectInfo{Key: "out/2022.json"},
		minio.ObjectInfo{Key: "out/notes.txt"},
	))

	ns, err := pipeline.New(ctx, storage.NewBucket(client, "artifacts", ""), pipeline.Options{RootPrefix: "out"})
	require.NoError(t, err)

	seq, err := ns.Find(ctx, regexp.MustCompile(`(?P<year>\d{4})\.json$`), pipeline.FindOptions{})
	require.NoError(t, err)

	var keys []string
	for key, groups := range seq {
		keys = append(keys, key+"="+groups["year"])
	}
	assert.Equal(t, []string{"2021.json=2021", "2022.json=2022"}, keys)
}
