package mocks

import (
	"context"
	"time"

	"github.com/rozgar/jobportal/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository struct{ mock.Mock }

func (m *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *NotificationRepository) InsertOnce(ctx context.Context, n *models.Notification) (bool, error) {
	a := m.Called(ctx, n)
	return a.Bool(0), a.Error(1)
}

func (m *NotificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	a := m.Called(ctx, id)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Notification), a.Error(1)
}

func (m *NotificationRepository) ListForUser(ctx context.Context, userID primitive.ObjectID, includeAdmin, unreadOnly bool, limit int64) ([]models.Notification, error) {
	a := m.Called(ctx, userID, includeAdmin, unreadOnly, limit)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.Notification), a.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Notification, error) {
	a := m.Called(ctx, id, at)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Notification), a.Error(1)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID, at time.Time) (int64, error) {
	a := m.Called(ctx, userID, at)
	return a.Get(0).(int64), a.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	a := m.Called(ctx, userID)
	return a.Get(0).(int64), a.Error(1)
}
