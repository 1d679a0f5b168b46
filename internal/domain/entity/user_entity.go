package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt digest, never the plain text.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Loaded on demand for responses.
	Posts      []Post
	LikedPosts []Post
}

// NewUserInput carries registration fields as submitted by a client.
type NewUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// NewUser validates the input and returns a user whose password has been
// replaced with the digest produced by hash.
func NewUser(in NewUserInput, hash func(string) (string, error)) (*User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	digest, err := hash(in.Password)
	if err != nil {
		return nil, err
	}
	return &User{
		Username: username,
		Email:    strings.TrimSpace(in.Email),
		Password: digest,
		Role:     role,
		IsActive: true,
	}, nil
}

func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

const passwordSymbols = "!@#$%^&*()_+={}[]:;<>,.?~"

// ValidatePassword enforces the complexity policy: at least 8 characters,
// two lowercase letters, two uppercase letters and one symbol.
func ValidatePassword(p string) error {
	if len(p) < 8 {
		return ErrWeakPassword
	}
	var lower, upper, symbol int
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower++
		case r >= 'A' && r <= 'Z':
			upper++
		case strings.ContainsRune(passwordSymbols, r):
			symbol++
		}
	}
	if lower < 2 || upper < 2 || symbol < 1 {
		return ErrWeakPassword
	}
	return nil
}
