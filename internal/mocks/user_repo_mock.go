package mocks

import (
	"context"

	"github.com/rozgar/jobportal/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Insert(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	a := m.Called(ctx, id)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	a := m.Called(ctx, ids)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.User), a.Error(1)
}

func (m *UserRepository) FindByEmailRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	a := m.Called(ctx, email, role)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserRepository) ListIDsByRole(ctx context.Context, role models.UserRole) ([]primitive.ObjectID, error) {
	a := m.Called(ctx, role)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]primitive.ObjectID), a.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	a := m.Called(ctx, id, set)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
