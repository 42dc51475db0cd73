package mocks

import (
	"context"
	"io"
	"time"

	"github.com/rozgar/jobportal/internal/events"
	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/stretchr/testify/mock"
)

type ApplicationEventRepository struct{ mock.Mock }

func (m *ApplicationEventRepository) Insert(ctx context.Context, e *models.ApplicationEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *ApplicationEventRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error) {
	a := m.Called(ctx, applicationID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.ApplicationEvent), a.Error(1)
}

type Notifier struct{ mock.Mock }

func (m *Notifier) Emit(ctx context.Context, n *models.Notification) sideeffect.Result {
	return m.Called(ctx, n).Get(0).(sideeffect.Result)
}

type Publisher struct{ mock.Mock }

func (m *Publisher) PublishJobPosted(ctx context.Context, ev events.JobPosted) error {
	return m.Called(ctx, ev).Error(0)
}

type EventHandler struct{ mock.Mock }

func (m *EventHandler) HandleJobPosted(ctx context.Context, ev events.JobPosted) error {
	return m.Called(ctx, ev).Error(0)
}

type Broadcaster struct{ mock.Mock }

func (m *Broadcaster) Publish(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type Cache struct{ mock.Mock }

func (m *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	a := m.Called(ctx, key, dst)
	return a.Bool(0), a.Error(1)
}

func (m *Cache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	return m.Called(ctx, key, val, ttl).Error(0)
}

func (m *Cache) Del(ctx context.Context, keys ...string) error {
	args := []any{ctx}
	for _, k := range keys {
		args = append(args, k)
	}
	return m.Called(args...).Error(0)
}

type Store struct{ mock.Mock }

func (m *Store) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	a := m.Called(ctx, objectName, contentType, r)
	return a.String(0), a.Error(1)
}

func (m *Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	a := m.Called(ctx, prefix)
	return a.Int(0), a.Error(1)
}
