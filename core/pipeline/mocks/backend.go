package mocks

import (
	"context"

	"pipeline-storage/core/pipeline"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of pipeline.Backend
type Backend struct {
	mock.Mock
}

func (m *Backend) ContainerExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *Backend) CreateContainer(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Backend) DeleteContainer(ctx context.Context, force bool) error {
	args := m.Called(ctx, force)
	return args.Error(0)
}

func (m *Backend) List(ctx context.Context, prefix string) ([]pipeline.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	if objects, ok := args.Get(0).([]pipeline.ObjectInfo); ok {
		return objects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) Write(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *Backend) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *Backend) DeleteObject(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
