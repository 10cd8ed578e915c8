package domain

import (
	"time"
	"unicode/utf8"
)

// MinPasswordLength is the shortest plaintext password accepted at signup and
// on password change.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// User is a registered account. PasswordHash never leaves the process: it has
// no JSON encoding and handlers render users through a projection.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Link         string    `json:"link"`
	ProfileImg   string    `json:"profileImg"`
	CoverImg     string    `json:"coverImg"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	LikedPosts   []string  `json:"likedPosts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsFollowing reports whether u follows the user with the given id.
func (u *User) IsFollowing(id string) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means
// "leave unchanged".
type ProfileUpdate struct {
	FullName        *string
	Username        *string
	Email           *string
	Bio             *string
	Link            *string
	ProfileImg      *string
	CoverImg        *string
	CurrentPassword string
	NewPassword     string
}

// ValidatePassword enforces the plaintext password length rules.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
