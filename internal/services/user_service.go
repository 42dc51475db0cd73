package services

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rozgar/jobportal/internal/models"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/rozgar/jobportal/internal/storage"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

const MaxResumeBytes = 10 << 20

type ProfilePatch struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	City    *string `json:"city"`
	Pincode *string `json:"pincode"`

	Skills *[]string `json:"skills"`

	CompanyName        *string `json:"companyName"`
	CompanyWebsite     *string `json:"companyWebsite"`
	CompanyDescription *string `json:"companyDescription"`
}

type UserService interface {
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error)
	UploadResume(ctx context.Context, userID string, size int64, r io.Reader) (*models.User, error)

	CreateUser(ctx context.Context, in RegisterInput) (*models.User, error)
	SetBlocked(ctx context.Context, adminID, userID string, blocked bool) (*models.User, error)
	Delete(ctx context.Context, adminID, userID string) error
}

type userService struct {
	users  mongorepo.UserRepository
	files  storage.Store
	runner *sideeffect.Runner
}

func NewUserService(users mongorepo.UserRepository, files storage.Store, l *logrus.Logger) UserService {
	if files == nil {
		files = storage.Disabled{}
	}
	return &userService{users: users, files: files, runner: sideeffect.NewRunner(l)}
}

func (s *userService) Me(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Me"

	id, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, "User not found", "failed to load user", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (*models.User, error) {
	const op = "UserService.UpdateProfile"

	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "name must not be empty", nil)
		}
		set["name"] = name
	}
	if p.Phone != nil {
		set["phone"] = strings.TrimSpace(*p.Phone)
	}
	if p.City != nil {
		set["city"] = strings.TrimSpace(*p.City)
	}
	if p.Pincode != nil {
		set["pincode"] = strings.TrimSpace(*p.Pincode)
	}

	// role-specific fields are ignored for other roles
	switch u.Role {
	case models.RoleWorker:
		if p.Skills != nil {
			set["skills"] = *p.Skills
		}
	case models.RoleEmployer:
		if p.CompanyName != nil {
			set["company_name"] = strings.TrimSpace(*p.CompanyName)
		}
		if p.CompanyWebsite != nil {
			set["company_website"] = strings.TrimSpace(*p.CompanyWebsite)
		}
		if p.CompanyDescription != nil {
			set["company_description"] = strings.TrimSpace(*p.CompanyDescription)
		}
	}
	if len(set) == 0 {
		return u, nil
	}

	updated, err := s.users.Update(ctx, u.ID, set)
	if err != nil {
		return nil, notFoundOr(op, "User not found", "failed to update profile", err)
	}
	return updated, nil
}

// UploadResume expects r to already be a sniffed PDF stream of size bytes.
func (s *userService) UploadResume(ctx context.Context, userID string, size int64, r io.Reader) (*models.User, error) {
	const op = "UserService.UploadResume"

	if size <= 0 || size > MaxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil)
	}
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleWorker {
		return nil, utils.E(utils.CodeForbidden, op, "Only workers can upload a resume", nil)
	}

	path, err := s.files.Upload(ctx, storage.ResumeObject(userID, uuid.NewString()), "application/pdf", r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
	}

	updated, err := s.users.Update(ctx, u.ID, bson.M{"resume_path": path})
	if err != nil {
		return nil, notFoundOr(op, "User not found", "failed to save resume path", err)
	}
	return updated, nil
}

func (s *userService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "UserService.CreateUser"

	u, err := buildUser(op, in, false)
	if err != nil {
		return nil, err
	}
	if err := insertUser(ctx, op, s.users, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) SetBlocked(ctx context.Context, adminID, userID string, blocked bool) (*models.User, error) {
	const op = "UserService.SetBlocked"

	id, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	if adminID == userID {
		return nil, utils.E(utils.CodeInvalidArgument, op, "You cannot block yourself", nil)
	}

	u, err := s.users.Update(ctx, id, bson.M{"is_blocked": blocked})
	if err != nil {
		return nil, notFoundOr(op, "User not found", "failed to update user", err)
	}
	return u, nil
}

// Delete removes the user and then, best-effort, their stored files.
func (s *userService) Delete(ctx context.Context, adminID, userID string) error {
	const op = "UserService.Delete"

	id, err := parseID(op, "user id", userID)
	if err != nil {
		return err
	}
	if adminID == userID {
		return utils.E(utils.CodeInvalidArgument, op, "You cannot delete yourself", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(op, "User not found", "failed to delete user", err)
	}

	for _, prefix := range []string{storage.ResumePrefix(userID), storage.PhotoPrefix(userID)} {
		s.runner.Run(ctx, "storage:delete_prefix", logrus.Fields{"op": op, "prefix": prefix}, func(ctx context.Context) error {
			_, err := s.files.DeletePrefix(ctx, prefix)
			return err
		})
	}
	return nil
}
