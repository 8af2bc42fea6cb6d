// Package store persists accounts and notes.
//
// Two implementations share one contract: SQL (MySQL or PostgreSQL through
// database/sql) and Memory. Both assign identifiers and timestamps, enforce
// email uniqueness, and report missing records as apperr.ErrNotFound.
// Concurrent updates of one note are last-write-wins.
package store

import (
	"context"
	"time"

	"notes-api/models"
)

type Store interface {
	// CreateAccount assigns acc.ID and acc.CreatedAt. A taken email yields
	// apperr.ErrDuplicateAccount.
	CreateAccount(ctx context.Context, acc *models.Account) error
	// AccountByEmail fills PasswordHash only when withSecret is set.
	AccountByEmail(ctx context.Context, email string, withSecret bool) (*models.Account, error)
	// AccountByID never fills PasswordHash.
	AccountByID(ctx context.Context, id string) (*models.Account, error)

	// CreateNote assigns n.ID and sets CreatedAt and UpdatedAt to the same instant.
	CreateNote(ctx context.Context, n *models.Note) error
	NoteByID(ctx context.Context, id string) (*models.Note, error)
	// NotesByOwner returns the owner's notes, newest created first.
	NotesByOwner(ctx context.Context, owner string) ([]models.Note, error)
	// UpdateNote writes Title and Content of the note with n.ID and refreshes
	// n from the stored record. Owner and CreatedAt are never changed.
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock replaces time.Now as the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp is the stored form of a timestamp: UTC with microsecond precision,
// which both SQL backends keep exactly.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// nextUpdate returns an update timestamp strictly later than prev even when
// the clock has not advanced.
func nextUpdate(now, prev time.Time) time.Time {
	t := stamp(now)
	if !t.After(prev) {
		t = prev.Add(time.Microsecond)
	}
	return t
}
