package domain

import "time"

// Profile holds the editable personal attributes of a User. Exactly one
// profile exists per user; it is created lazily on first access.
type Profile struct {
	ID          int64
	UserID      int64
	DisplayName string
	Bio         string
	PhoneCode   string
	PhoneNumber string
	Country     string
	DOB         *time.Time
	Gender      string
	AvatarKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
