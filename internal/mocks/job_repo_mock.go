package mocks

import (
	"context"

	"github.com/rozgar/jobportal/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobRepository struct{ mock.Mock }

func (m *JobRepository) Insert(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *JobRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	a := m.Called(ctx, id)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Job), a.Error(1)
}

func (m *JobRepository) List(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error) {
	a := m.Called(ctx, f)
	if a.Get(0) == nil {
		return nil, 0, a.Error(2)
	}
	return a.Get(0).([]models.Job), a.Get(1).(int64), a.Error(2)
}

func (m *JobRepository) ListByEmployer(ctx context.Context, employerID primitive.ObjectID) ([]models.Job, error) {
	a := m.Called(ctx, employerID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.Job), a.Error(1)
}

func (m *JobRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Job, error) {
	a := m.Called(ctx, id, set)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Job), a.Error(1)
}

func (m *JobRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
