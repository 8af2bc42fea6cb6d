package models

import (
	"time"

	"github.com/google/uuid"

	"notes-api/apperr"
)

// Account is a registered user. PasswordHash is only populated by the
// store's include-secret read path and never serialized.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Note struct {
	ID        string
	Owner     string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is what the access guard attaches to a request once its token
// has been verified and resolved to a live account.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// NewID returns a fresh time-ordered identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ParseID normalizes a client-supplied identifier. Anything that is not a
// UUID yields apperr.ErrMalformedIdentifier.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", apperr.ErrMalformedIdentifier
	}
	return id.String(), nil
}
