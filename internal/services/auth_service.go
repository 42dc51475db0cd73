package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rozgar/jobportal/internal/models"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	"github.com/rozgar/jobportal/internal/utils"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`

	City    string   `json:"city"`
	Pincode string   `json:"pincode"`
	Skills  []string `json:"skills"`

	CompanyName        string `json:"companyName"`
	CompanyWebsite     string `json:"companyWebsite"`
	CompanyDescription string `json:"companyDescription"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password, role string) (*AuthResult, error)
}

type authService struct {
	users  mongorepo.UserRepository
	secret string
	ttl    time.Duration
}

func NewAuthService(users mongorepo.UserRepository, jwtSecret string, ttl time.Duration) AuthService {
	return &authService{users: users, secret: jwtSecret, ttl: ttl}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// buildUser validates input and hashes the password. Only admins may
// create admins, so selfService rejects that role.
func buildUser(op string, in RegisterInput, selfService bool) (*models.User, error) {
	role := models.UserRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = models.RoleWorker
	}
	if !role.Valid() || (selfService && role == models.RoleAdmin) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid role", nil)
	}

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name and email are required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid email", err)
	}
	if len(in.Password) < utils.MinPasswordLength {
		return nil, utils.E(utils.CodeInvalidArgument, op, "password must be at least 6 characters", nil)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
	}
	switch role {
	case models.RoleWorker:
		u.City = strings.TrimSpace(in.City)
		u.Pincode = strings.TrimSpace(in.Pincode)
		u.Skills = in.Skills
	case models.RoleEmployer:
		u.City = strings.TrimSpace(in.City)
		u.Pincode = strings.TrimSpace(in.Pincode)
		u.CompanyName = strings.TrimSpace(in.CompanyName)
		u.CompanyWebsite = strings.TrimSpace(in.CompanyWebsite)
		u.CompanyDescription = strings.TrimSpace(in.CompanyDescription)
	}
	return u, nil
}

func insertUser(ctx context.Context, op string, users mongorepo.UserRepository, u *models.User) error {
	if err := users.Insert(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return utils.E(utils.CodeConflict, op, "User already exists with this email and role", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return nil
}

func (s *authService) issue(op string, u *models.User) (*AuthResult, error) {
	tok, err := utils.IssueToken(s.secret, u.ID.Hex(), string(u.Role), s.ttl)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "AuthService.Register"

	u, err := buildUser(op, in, true)
	if err != nil {
		return nil, err
	}
	if err := insertUser(ctx, op, s.users, u); err != nil {
		return nil, err
	}
	return s.issue(op, u)
}

func (s *authService) Login(ctx context.Context, email, password, role string) (*AuthResult, error) {
	const op = "AuthService.Login"

	r := models.UserRole(strings.ToLower(strings.TrimSpace(role)))
	if r == "" {
		r = models.RoleWorker
	}
	if !r.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid role", nil)
	}
	if normalizeEmail(email) == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.FindByEmailRole(ctx, normalizeEmail(email), r)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeUnauthorized, op, "Invalid credentials", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "Invalid credentials", nil)
	}
	if u.IsBlocked {
		return nil, utils.E(utils.CodeForbidden, op, "Your account has been blocked", nil)
	}
	return s.issue(op, u)
}
