package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"account-api/internal/domain"
	"account-api/internal/repository"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	display_name TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	phone_code TEXT NOT NULL DEFAULT '',
	phone_number TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	dob DATETIME,
	gender TEXT NOT NULL DEFAULT '',
	avatar_key TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !strings.Contains(err.Error(), "not found") {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (user_id, created_at, updated_at)
VALUES (?, ?, ?)`,
		userID,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("profile last insert id: %w", err)
	}

	return &domain.Profile{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, display_name, bio, phone_code, phone_number, country, dob, gender, avatar_key, created_at, updated_at
FROM profiles
WHERE user_id = ?`,
		userID,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile, username string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profile tx: %w", err)
	}
	defer tx.Rollback()

	profile.UpdatedAt = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
UPDATE profiles
SET display_name = ?, bio = ?, phone_code = ?, phone_number = ?, country = ?, dob = ?, gender = ?, updated_at = ?
WHERE id = ?`,
		profile.DisplayName,
		profile.Bio,
		profile.PhoneCode,
		profile.PhoneNumber,
		profile.Country,
		profile.DOB,
		profile.Gender,
		profile.UpdatedAt,
		profile.ID,
	); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if username != "" {
		if _, err := tx.ExecContext(ctx, `
UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
			username,
			profile.UpdatedAt,
			profile.UserID,
		); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				return fmt.Errorf("user already exists: %w", err)
			}
			return fmt.Errorf("update username: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit profile tx: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE profiles SET avatar_key = ?, updated_at = ? WHERE user_id = ?`,
		key,
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("update avatar key: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (*domain.Profile, error) {
	var profile domain.Profile
	var dob sql.NullTime
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.PhoneCode,
		&profile.PhoneNumber,
		&profile.Country,
		&dob,
		&profile.Gender,
		&profile.AvatarKey,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	if dob.Valid {
		t := dob.Time
		profile.DOB = &t
	}
	return &profile, nil
}
