package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account record. PasswordHash never leaves the persistence layer
// in API responses.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Ref is the display subset of a user embedded in enriched message payloads.
type Ref struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Ref() Ref {
	return Ref{ID: u.ID, Name: u.Name, Email: u.Email}
}

var (
	ErrInvalidName     = errors.New("user: name must be at least 2 characters")
	ErrInvalidEmail    = errors.New("user: invalid email address")
	ErrInvalidPassword = errors.New("user: password must be at least 6 characters")
)

// New validates registration input and returns a user with a bcrypt password hash.
func New(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(name) < 2 {
		return nil, ErrInvalidName
	}
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword reports whether the candidate matches the stored hash.
func (u User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}
