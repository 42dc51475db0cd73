package mocks

import (
	"context"
	"time"

	"github.com/rozgar/jobportal/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationRepository struct{ mock.Mock }

func (m *ApplicationRepository) Insert(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *ApplicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	a := m.Called(ctx, id)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Application), a.Error(1)
}

func (m *ApplicationRepository) FindByUserAndJob(ctx context.Context, userID, jobID primitive.ObjectID) (*models.Application, error) {
	a := m.Called(ctx, userID, jobID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Application), a.Error(1)
}

func (m *ApplicationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error) {
	a := m.Called(ctx, userID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.Application), a.Error(1)
}

func (m *ApplicationRepository) ListByEmployer(ctx context.Context, employerID primitive.ObjectID, skip, limit int64) ([]models.Application, int64, error) {
	a := m.Called(ctx, employerID, skip, limit)
	if a.Get(0) == nil {
		return nil, 0, a.Error(2)
	}
	return a.Get(0).([]models.Application), a.Get(1).(int64), a.Error(2)
}

func (m *ApplicationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}

func (m *ApplicationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ApplicationRepository) DeleteIfStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) (bool, error) {
	a := m.Called(ctx, id, status)
	return a.Bool(0), a.Error(1)
}
