package mocks

import (
	"context"
	"io"

	"github.com/rozgar/jobportal/internal/events"
	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/services"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/stretchr/testify/mock"
)

type ApplicationService struct{ mock.Mock }

func (m *ApplicationService) Apply(ctx context.Context, userID, jobID, coverLetter string) (*models.Application, error) {
	a := m.Called(ctx, userID, jobID, coverLetter)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Application), a.Error(1)
}

func (m *ApplicationService) UpdateStatus(ctx context.Context, applicationID, status, actorID string) (*models.Application, error) {
	a := m.Called(ctx, applicationID, status, actorID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Application), a.Error(1)
}

func (m *ApplicationService) Withdraw(ctx context.Context, applicationID, actorID string) error {
	return m.Called(ctx, applicationID, actorID).Error(0)
}

func (m *ApplicationService) AdminDelete(ctx context.Context, applicationID, adminID string) error {
	return m.Called(ctx, applicationID, adminID).Error(0)
}

func (m *ApplicationService) ListMine(ctx context.Context, userID string) ([]models.Application, error) {
	a := m.Called(ctx, userID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.Application), a.Error(1)
}

func (m *ApplicationService) ListForEmployer(ctx context.Context, employerID string, page, limit int64) (*services.EmployerApplicationsPage, error) {
	a := m.Called(ctx, employerID, page, limit)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*services.EmployerApplicationsPage), a.Error(1)
}

func (m *ApplicationService) History(ctx context.Context, applicationID, actorID string, role models.UserRole) ([]models.ApplicationEvent, error) {
	a := m.Called(ctx, applicationID, actorID, role)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.ApplicationEvent), a.Error(1)
}

type JobService struct{ mock.Mock }

func (m *JobService) Create(ctx context.Context, employerID string, in services.JobInput) (*models.Job, error) {
	a := m.Called(ctx, employerID, in)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Job), a.Error(1)
}

func (m *JobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	a := m.Called(ctx, jobID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Job), a.Error(1)
}

func (m *JobService) List(ctx context.Context, q services.JobQuery) (*services.JobPage, error) {
	a := m.Called(ctx, q)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*services.JobPage), a.Error(1)
}

func (m *JobService) ListMine(ctx context.Context, employerID string) ([]models.Job, error) {
	a := m.Called(ctx, employerID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.Job), a.Error(1)
}

func (m *JobService) Update(ctx context.Context, jobID, actorID string, role models.UserRole, patch services.JobPatch) (*models.Job, error) {
	a := m.Called(ctx, jobID, actorID, role, patch)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Job), a.Error(1)
}

func (m *JobService) Delete(ctx context.Context, jobID, actorID string, role models.UserRole) error {
	return m.Called(ctx, jobID, actorID, role).Error(0)
}

type NotificationService struct{ mock.Mock }

func (m *NotificationService) Emit(ctx context.Context, n *models.Notification) sideeffect.Result {
	return m.Called(ctx, n).Get(0).(sideeffect.Result)
}

func (m *NotificationService) HandleJobPosted(ctx context.Context, ev events.JobPosted) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *NotificationService) List(ctx context.Context, userID string, role models.UserRole, unreadOnly bool, limit int64) ([]models.Notification, error) {
	a := m.Called(ctx, userID, role, unreadOnly, limit)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).([]models.Notification), a.Error(1)
}

func (m *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	a := m.Called(ctx, userID, notificationID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.Notification), a.Error(1)
}

func (m *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	a := m.Called(ctx, userID)
	return a.Get(0).(int64), a.Error(1)
}

func (m *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	a := m.Called(ctx, userID)
	return a.Get(0).(int64), a.Error(1)
}

type AuthService struct{ mock.Mock }

func (m *AuthService) Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	a := m.Called(ctx, in)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*services.AuthResult), a.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password, role string) (*services.AuthResult, error) {
	a := m.Called(ctx, email, password, role)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*services.AuthResult), a.Error(1)
}

type UserService struct{ mock.Mock }

func (m *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	a := m.Called(ctx, userID)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserService) UpdateProfile(ctx context.Context, userID string, patch services.ProfilePatch) (*models.User, error) {
	a := m.Called(ctx, userID, patch)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserService) UploadResume(ctx context.Context, userID string, size int64, r io.Reader) (*models.User, error) {
	a := m.Called(ctx, userID, size, r)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserService) CreateUser(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	a := m.Called(ctx, in)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserService) SetBlocked(ctx context.Context, adminID, userID string, blocked bool) (*models.User, error) {
	a := m.Called(ctx, adminID, userID, blocked)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.User), a.Error(1)
}

func (m *UserService) Delete(ctx context.Context, adminID, userID string) error {
	return m.Called(ctx, adminID, userID).Error(0)
}
