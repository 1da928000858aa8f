package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

const minPasswordLength = 8

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AccountService describes account lifecycle operations.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	// Delete removes the user (the profile row cascades) and returns the
	// avatar blob key that was attached, if any, so the caller can clean
	// up remote storage.
	Delete(ctx context.Context, userID int64) (avatarKey string, err error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type accountService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

func NewAccountService(users repository.UserRepository, profiles repository.ProfileRepository) AccountService {
	return &accountService{
		users:    users,
		profiles: profiles,
	}
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" {
		return nil, NewValidationError("username is required")
	}
	if len(username) > 150 {
		return nil, NewValidationError("username must be at most 150 characters")
	}
	if email == "" {
		return nil, NewValidationError("email is required")
	}
	if in.Password == "" {
		return nil, NewValidationError("password is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, NewValidationError("password must be at least 8 characters")
	}
	if in.Password != in.ConfirmPassword {
		return nil, NewValidationError("passwords do not match")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *accountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *accountService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return NewValidationError("old_password and new_password are required")
	}
	if len(newPassword) < minPasswordLength {
		return NewValidationError("password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrIncorrectOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *accountService) Delete(ctx context.Context, userID int64) (string, error) {
	var avatarKey string
	if profile, err := s.profiles.GetByUserID(ctx, userID); err == nil {
		avatarKey = profile.AvatarKey
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return avatarKey, nil
}

func (s *accountService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
