package service

import (
	"context"
	"fmt"
	"time"

	"account-api/internal/domain"
)

// In-memory repository fakes mirroring the error strings the sqlite
// implementations produce.

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, fmt.Errorf("user already exists")
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user not found")
	}
	delete(r.users, id)
	return nil
}

type fakeProfileRepo struct {
	users    *fakeUserRepo
	profiles map[int64]*domain.Profile
	nextID   int64
}

func newFakeProfileRepo(users *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{users: users, profiles: make(map[int64]*domain.Profile), nextID: 1}
}

func (r *fakeProfileRepo) Init(ctx context.Context) error { return nil }

func (r *fakeProfileRepo) GetOrCreate(ctx context.Context, userID int64) (*domain.Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	now := time.Now().UTC()
	p := &domain.Profile{ID: r.nextID, UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.nextID++
	r.profiles[userID] = p
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) Save(ctx context.Context, profile *domain.Profile, username string) error {
	if username != "" {
		for _, u := range r.users.users {
			if u.Username == username && u.ID != profile.UserID {
				return fmt.Errorf("user already exists")
			}
		}
		if u, ok := r.users.users[profile.UserID]; ok {
			u.Username = username
		}
	}
	copied := *profile
	r.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeProfileRepo) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.AvatarKey = key
	p.UpdatedAt = time.Now().UTC()
	return nil
}
