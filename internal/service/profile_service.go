package service

import (
	"context"
	"strings"
	"time"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

// ProfileUpdate names only the fields the client actually supplied; nil
// pointers leave the stored value untouched.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	Bio         *string
	PhoneCode   *string
	PhoneNumber *string
	Country     *string
	DOB         *time.Time
	Gender      *string
}

// ProfileService describes profile read/update operations. The profile row
// is created lazily on first access.
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*domain.User, *domain.Profile, error)
	Update(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, *domain.Profile, error)
	// UpdateAvatar records the new blob key and returns the key it replaced.
	UpdateAvatar(ctx context.Context, userID int64, key string) (oldKey string, err error)
}

type profileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository) ProfileService {
	return &profileService{
		users:    users,
		profiles: profiles,
	}
}

func (s *profileService) Get(ctx context.Context, userID int64) (*domain.User, *domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return sanitizeUser(user), profile, nil
}

func (s *profileService) Update(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, *domain.Profile, error) {
	user, profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var username string
	if update.Username != nil {
		username = strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, nil, NewValidationError("username must not be blank")
		}
		if len(username) > 150 {
			return nil, nil, NewValidationError("username must be at most 150 characters")
		}
		if username == user.Username {
			username = ""
		}
	}

	if update.DisplayName != nil {
		if len(*update.DisplayName) > 50 {
			return nil, nil, NewValidationError("display_name must be at most 50 characters")
		}
		profile.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		if len(*update.Bio) > 500 {
			return nil, nil, NewValidationError("bio must be at most 500 characters")
		}
		profile.Bio = *update.Bio
	}
	if update.PhoneCode != nil {
		if len(*update.PhoneCode) > 10 {
			return nil, nil, NewValidationError("phone_code must be at most 10 characters")
		}
		profile.PhoneCode = *update.PhoneCode
	}
	if update.PhoneNumber != nil {
		if len(*update.PhoneNumber) > 20 {
			return nil, nil, NewValidationError("phone_number must be at most 20 characters")
		}
		profile.PhoneNumber = *update.PhoneNumber
	}
	if update.Country != nil {
		if len(*update.Country) > 50 {
			return nil, nil, NewValidationError("country must be at most 50 characters")
		}
		profile.Country = *update.Country
	}
	if update.DOB != nil {
		dob := update.DOB.UTC()
		profile.DOB = &dob
	}
	if update.Gender != nil {
		if len(*update.Gender) > 20 {
			return nil, nil, NewValidationError("gender must be at most 20 characters")
		}
		profile.Gender = *update.Gender
	}

	if err := s.profiles.Save(ctx, profile, username); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, nil, ErrUsernameTaken
		}
		return nil, nil, err
	}

	if username != "" {
		user.Username = username
	}
	return user, profile, nil
}

func (s *profileService) UpdateAvatar(ctx context.Context, userID int64, key string) (string, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}

	oldKey := profile.AvatarKey
	if err := s.profiles.SetAvatarKey(ctx, userID, key); err != nil {
		return "", err
	}
	if oldKey == key {
		oldKey = ""
	}
	return oldKey, nil
}
