package repository

import (
	"context"

	"account-api/internal/domain"
)

// ProfileRepository defines persistence operations for Profile entities.
type ProfileRepository interface {
	Init(ctx context.Context) error
	GetOrCreate(ctx context.Context, userID int64) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	// Save writes the profile fields and, when username is non-empty, the
	// owning user's username in the same transaction. Either both writes
	// land or neither does.
	Save(ctx context.Context, profile *domain.Profile, username string) error
	SetAvatarKey(ctx context.Context, userID int64, key string) error
}
