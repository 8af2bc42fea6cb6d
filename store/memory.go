package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"notes-api/apperr"
	"notes-api/models"
)

// Memory keeps everything in process memory. It backs DATABASE_URL=memory://
// and the tests.
type Memory struct {
	opts options

	mu       sync.RWMutex
	accounts map[string]models.Account
	byEmail  map[string]string
	notes    map[string]models.Note
}

var _ Store = (*Memory)(nil)

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:     buildOptions(opts),
		accounts: make(map[string]models.Account),
		byEmail:  make(map[string]string),
		notes:    make(map[string]models.Note),
	}
}

func (m *Memory) CreateAccount(_ context.Context, acc *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[acc.Email]; taken {
		return apperr.ErrDuplicateAccount
	}

	acc.ID = models.NewID()
	acc.CreatedAt = stamp(m.opts.now())
	m.accounts[acc.ID] = *acc
	m.byEmail[acc.Email] = acc.ID
	return nil
}

func (m *Memory) AccountByEmail(_ context.Context, email string, withSecret bool) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", email, apperr.ErrNotFound)
	}
	acc := m.accounts[id]
	if !withSecret {
		acc.PasswordHash = ""
	}
	return &acc, nil
}

func (m *Memory) AccountByID(_ context.Context, id string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, apperr.ErrNotFound)
	}
	acc.PasswordHash = ""
	return &acc, nil
}

func (m *Memory) CreateNote(_ context.Context, n *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = models.NewID()
	n.CreatedAt = stamp(m.opts.now())
	n.UpdatedAt = n.CreatedAt
	m.notes[n.ID] = *n
	return nil
}

func (m *Memory) NoteByID(_ context.Context, id string) (*models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
	}
	return &n, nil
}

func (m *Memory) NotesByOwner(_ context.Context, owner string) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var notes []models.Note
	for _, n := range m.notes {
		if n.Owner == owner {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
	return notes, nil
}

func (m *Memory) UpdateNote(_ context.Context, n *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.notes[n.ID]
	if !ok {
		return fmt.Errorf("note %s: %w", n.ID, apperr.ErrNotFound)
	}

	stored.Title = n.Title
	stored.Content = n.Content
	stored.UpdatedAt = nextUpdate(m.opts.now(), stored.UpdatedAt)
	m.notes[n.ID] = stored
	*n = stored
	return nil
}

func (m *Memory) DeleteNote(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[id]; !ok {
		return fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
	}
	delete(m.notes, id)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
