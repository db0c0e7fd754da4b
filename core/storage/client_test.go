package storage_test

import (
	"errors"
	"testing"

	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "artifacts",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MissingEndpoint", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{AccessKey: "testkey", SecretKey: "testsecret"})
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestOpen(t *testing.T) {
	t.Run("MissingBucket", func(t *testing.T) {
		bucket, err := storage.Open(storage.Config{Endpoint: "localhost:9000"})
		assert.True(t, errors.Is(err, pipeline.ErrConfiguration))
		assert.Nil(t, bucket)
	})

	t.Run("Valid", func(t *testing.T) {
		bucket, err := storage.Open(storage.Config{Endpoint: "localhost:9000", Bucket: "artifacts"})
		assert.NoError(t, err)
		assert.Equal(t, "artifacts", bucket.Name())
	})
}
