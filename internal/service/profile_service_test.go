package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (ProfileService, int64) {
	t.Helper()
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo(users)
	accounts := NewAccountService(users, profiles)

	user, err := accounts.Register(context.Background(), registerInput())
	require.NoError(t, err)
	return NewProfileService(users, profiles), user.ID
}

func strptr(s string) *string { return &s }

func TestGetCreatesProfileLazily(t *testing.T) {
	svc, userID := newProfileFixture(t)
	ctx := context.Background()

	user, profile, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, userID, profile.UserID)
	assert.Empty(t, profile.DisplayName)

	_, again, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestGetUnknownUser(t *testing.T) {
	svc, _ := newProfileFixture(t)

	_, _, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePartialLeavesOtherFields(t *testing.T) {
	svc, userID := newProfileFixture(t)
	ctx := context.Background()

	_, _, err := svc.Update(ctx, userID, ProfileUpdate{
		DisplayName: strptr("Alice"),
		Country:     strptr("Portugal"),
	})
	require.NoError(t, err)

	_, profile, err := svc.Update(ctx, userID, ProfileUpdate{Bio: strptr("hello there")})
	require.NoError(t, err)

	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, "Portugal", profile.Country)
	assert.Equal(t, "hello there", profile.Bio)
}

func TestUpdateUsernameWritesThroughToUser(t *testing.T) {
	svc, userID := newProfileFixture(t)
	ctx := context.Background()

	user, _, err := svc.Update(ctx, userID, ProfileUpdate{Username: strptr("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)

	user, _, err = svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)
}

func TestUpdateDOBAndGender(t *testing.T) {
	svc, userID := newProfileFixture(t)
	ctx := context.Background()

	dob := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	_, profile, err := svc.Update(ctx, userID, ProfileUpdate{DOB: &dob, Gender: strptr("female")})
	require.NoError(t, err)
	require.NotNil(t, profile.DOB)
	assert.Equal(t, "1990-04-02", profile.DOB.Format("2006-01-02"))
	assert.Equal(t, "female", profile.Gender)
}

func TestUpdateFieldLimits(t *testing.T) {
	svc, userID := newProfileFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		update ProfileUpdate
	}{
		{"long display_name", ProfileUpdate{DisplayName: strptr(strings.Repeat("x", 51))}},
		{"long bio", ProfileUpdate{Bio: strptr(strings.Repeat("x", 501))}},
		{"long phone_code", ProfileUpdate{PhoneCode: strptr(strings.Repeat("1", 11))}},
		{"long phone_number", ProfileUpdate{PhoneNumber: strptr(strings.Repeat("1", 21))}},
		{"long country", ProfileUpdate{Country: strptr(strings.Repeat("x", 51))}},
		{"long gender", ProfileUpdate{Gender: strptr(strings.Repeat("x", 21))}},
		{"long username", ProfileUpdate{Username: strptr(strings.Repeat("x", 151))}},
		{"blank username", ProfileUpdate{Username: strptr("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Update(ctx, userID, tt.update)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestUpdateUsernameConflict(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo(users)
	accounts := NewAccountService(users, profiles)
	svc := NewProfileService(users, profiles)
	ctx := context.Background()

	_, err := accounts.Register(ctx, registerInput())
	require.NoError(t, err)

	other := registerInput()
	other.Username = "bob"
	other.Email = "b@x.com"
	second, err := accounts.Register(ctx, other)
	require.NoError(t, err)

	_, _, err = svc.Update(ctx, second.ID, ProfileUpdate{Username: strptr("alice")})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateAvatarReturnsReplacedKey(t *testing.T) {
	svc, userID := newProfileFixture(t)
	ctx := context.Background()

	oldKey, err := svc.UpdateAvatar(ctx, userID, "avatars/first.png")
	require.NoError(t, err)
	assert.Empty(t, oldKey)

	oldKey, err = svc.UpdateAvatar(ctx, userID, "avatars/second.png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/first.png", oldKey)

	_, profile, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "avatars/second.png", profile.AvatarKey)
}
