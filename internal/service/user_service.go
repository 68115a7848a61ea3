package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
)

var (
	ErrEmailTaken       = errors.New("email is already registered")
	ErrStudentRequired  = errors.New("student accounts must reference a student")
	ErrStudentNotFound  = errors.New("student not found")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// UserService manages accounts and logins.
type UserService struct {
	userRepo    *repository.UserRepository
	studentRepo *repository.StudentRepository
	auth        *AuthService
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, studentRepo *repository.StudentRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		auth:        auth,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &model.LoginResponse{
		Token:       token,
		User:        *user,
		Permissions: model.PermissionCodes(user.Role),
	}, nil
}

// GetByID retrieves a user.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// Create registers a new account. Only student accounts carry a student link.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	user := &model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Role:  req.Role,
	}

	if req.Role == model.RoleStudent {
		if req.StudentID == nil {
			return nil, ErrStudentRequired
		}
		if _, err := s.studentRepo.GetByID(ctx, *req.StudentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		user.StudentID = req.StudentID
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

// Delete removes an account other than the caller's own.
func (s *UserService) Delete(ctx context.Context, actor Actor, id int) error {
	if actor.UserID == id {
		return ErrCannotDeleteSelf
	}
	return s.userRepo.Delete(ctx, id)
}
