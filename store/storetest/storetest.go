// Package storetest holds the conformance checks every store.Store
// implementation has to pass.
package storetest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-api/apperr"
	"notes-api/models"
	"notes-api/store"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

func (c *stepClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 5, 10, 8, 30, 0, 123456789, time.UTC)}
}

// Factory returns an empty store whose record timestamps come from now.
type Factory func(t *testing.T, now func() time.Time) store.Store

// Run exercises the store contract against the implementation built by
// newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("Accounts", func(t *testing.T) {
		clock := newStepClock()
		s := newStore(t, clock.Now)

		acc := &models.Account{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash-1"}
		require.NoError(t, s.CreateAccount(ctx, acc))
		require.NotEmpty(t, acc.ID)
		assert.Equal(t, clock.Now().UTC().Truncate(time.Microsecond), acc.CreatedAt)

		dup := &models.Account{Name: "Other", Email: "ada@example.com", PasswordHash: "hash-2"}
		assert.ErrorIs(t, s.CreateAccount(ctx, dup), apperr.ErrDuplicateAccount)

		other := &models.Account{Name: "Ada", Email: "ADA@example.com", PasswordHash: "hash-3"}
		require.NoError(t, s.CreateAccount(ctx, other), "email matching is exact")

		got, err := s.AccountByEmail(ctx, "ada@example.com", false)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		assert.Equal(t, "Ada", got.Name)
		assert.Empty(t, got.PasswordHash)

		got, err = s.AccountByEmail(ctx, "ada@example.com", true)
		require.NoError(t, err)
		assert.Equal(t, "hash-1", got.PasswordHash)

		got, err = s.AccountByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", got.Email)
		assert.Empty(t, got.PasswordHash)

		_, err = s.AccountByEmail(ctx, "nobody@example.com", true)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = s.AccountByID(ctx, models.NewID())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Notes", func(t *testing.T) {
		clock := newStepClock()
		s := newStore(t, clock.Now)

		owner := &models.Account{Name: "Bo", Email: "bo@example.com", PasswordHash: "h"}
		require.NoError(t, s.CreateAccount(ctx, owner))
		stranger := &models.Account{Name: "Cy", Email: "cy@example.com", PasswordHash: "h"}
		require.NoError(t, s.CreateAccount(ctx, stranger))

		first := &models.Note{Owner: owner.ID, Title: "first", Content: "a"}
		require.NoError(t, s.CreateNote(ctx, first))
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, first.CreatedAt, first.UpdatedAt)

		clock.Advance(time.Second)
		second := &models.Note{Owner: owner.ID, Title: "second", Content: "b"}
		require.NoError(t, s.CreateNote(ctx, second))

		require.NoError(t, s.CreateNote(ctx, &models.Note{Owner: stranger.ID, Title: "x", Content: "y"}))

		notes, err := s.NotesByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, second.ID, notes[0].ID)
		assert.Equal(t, first.ID, notes[1].ID)

		none, err := s.NotesByOwner(ctx, models.NewID())
		require.NoError(t, err)
		assert.Empty(t, none)

		got, err := s.NoteByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
		assert.Equal(t, owner.ID, got.Owner)

		_, err = s.NoteByID(ctx, models.NewID())
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		// The clock does not move; updatedAt still has to.
		upd := &models.Note{ID: first.ID, Owner: stranger.ID, Title: "renamed", Content: "changed"}
		require.NoError(t, s.UpdateNote(ctx, upd))
		assert.Equal(t, owner.ID, upd.Owner)
		assert.Equal(t, first.CreatedAt, upd.CreatedAt)
		assert.True(t, upd.UpdatedAt.After(first.UpdatedAt))

		again := &models.Note{ID: first.ID, Title: "renamed", Content: "changed"}
		require.NoError(t, s.UpdateNote(ctx, again))
		assert.True(t, again.UpdatedAt.After(upd.UpdatedAt))

		got, err = s.NoteByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, "changed", got.Content)
		assert.Equal(t, again.UpdatedAt, got.UpdatedAt)

		assert.ErrorIs(t, s.UpdateNote(ctx, &models.Note{ID: models.NewID(), Title: "t", Content: "c"}), apperr.ErrNotFound)

		require.NoError(t, s.DeleteNote(ctx, first.ID))
		_, err = s.NoteByID(ctx, first.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.ErrorIs(t, s.DeleteNote(ctx, first.ID), apperr.ErrNotFound)

		notes, err = s.NotesByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, second.ID, notes[0].ID)
	})

	t.Run("Long fields round-trip", func(t *testing.T) {
		s := newStore(t, time.Now)

		owner := &models.Account{
			Name:         strings.Repeat("é", 255),
			Email:        strings.Repeat("e", 243) + "@example.com",
			PasswordHash: "h",
		}
		require.NoError(t, s.CreateAccount(ctx, owner))

		acc, err := s.AccountByEmail(ctx, owner.Email, false)
		require.NoError(t, err)
		assert.Equal(t, owner.Name, acc.Name)

		title := strings.Repeat("t", 100_000)
		content := strings.Repeat("c", 500_000)
		n := &models.Note{Owner: owner.ID, Title: title, Content: content}
		require.NoError(t, s.CreateNote(ctx, n))

		got, err := s.NoteByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, content, got.Content)

		longer := &models.Note{ID: n.ID, Title: title + "!", Content: "short"}
		require.NoError(t, s.UpdateNote(ctx, longer))
		got, err = s.NoteByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, title+"!", got.Title)
	})

	t.Run("Same instant ordering", func(t *testing.T) {
		clock := newStepClock()
		s := newStore(t, clock.Now)

		owner := &models.Account{Name: "Di", Email: "di@example.com", PasswordHash: "h"}
		require.NoError(t, s.CreateAccount(ctx, owner))

		for i := 0; i < 3; i++ {
			require.NoError(t, s.CreateNote(ctx, &models.Note{Owner: owner.ID, Title: "t", Content: "c"}))
		}

		notes, err := s.NotesByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		for i := 1; i < len(notes); i++ {
			assert.Greater(t, notes[i-1].ID, notes[i].ID)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t, time.Now)
		assert.NoError(t, s.Ping(ctx))
	})
}

