package mocks

import (
	"context"
	"time"

	"github.com/TechyShie/ecopulse/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ResponseCache is a mock for repository.ResponseCache.
type ResponseCache struct {
	mock.Mock
}

func (m *ResponseCache) Get(ctx context.Context, owner, key string) ([]byte, time.Time, error) {
	args := m.Called(ctx, owner, key)
	body, _ := args.Get(0).([]byte)
	storedAt, _ := args.Get(1).(time.Time)
	return body, storedAt, args.Error(2)
}

func (m *ResponseCache) Put(ctx context.Context, owner, key string, body []byte) error {
	args := m.Called(ctx, owner, key, body)
	return args.Error(0)
}

func (m *ResponseCache) Purge(ctx context.Context, owner string) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

// PendingLogRepository is a mock for repository.PendingLogRepository.
type PendingLogRepository struct {
	mock.Mock
}

func (m *PendingLogRepository) Save(ctx context.Context, owner string, log activity.Log) error {
	args := m.Called(ctx, owner, log)
	return args.Error(0)
}

func (m *PendingLogRepository) Get(ctx context.Context, owner string, id activity.LogID) (*activity.Log, error) {
	args := m.Called(ctx, owner, id)
	if log, ok := args.Get(0).(*activity.Log); ok {
		return log, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PendingLogRepository) List(ctx context.Context, owner string) ([]activity.Log, error) {
	args := m.Called(ctx, owner)
	if list, ok := args.Get(0).([]activity.Log); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PendingLogRepository) Remove(ctx context.Context, owner string, id activity.LogID) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
