package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-api/apperr"
	"notes-api/middleware"
	"notes-api/models"
	"notes-api/respond"
)

const (
	msgCreateFields = "Please provide title and content"
	msgUpdateFields = "Please provide title and content for update"
)

// NoteStore is the part of the document store the note endpoints use.
type NoteStore interface {
	CreateNote(ctx context.Context, n *models.Note) error
	NoteByID(ctx context.Context, id string) (*models.Note, error)
	NotesByOwner(ctx context.Context, owner string) ([]models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id string) error
}

// Notes serves the owner-scoped note endpoints. Every route runs behind
// middleware.RequireAuth.
type Notes struct {
	store NoteStore
}

func NewNotes(store NoteStore) *Notes {
	return &Notes{store: store}
}

func caller(r *http.Request) (models.Identity, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return models.Identity{}, apperr.ErrNoToken
	}
	return id, nil
}

// List handles GET /api/notes.
func (h *Notes) List(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	notes, err := h.store.NotesByOwner(r.Context(), id.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, models.NewNoteList(notes))
}

// Create handles POST /api/notes.
func (h *Notes) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	req, err := decodeNote(w, r, msgCreateFields)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	note := &models.Note{Owner: id.ID, Title: req.Title, Content: req.Content}
	if err := h.store.CreateNote(r.Context(), note); err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "note created", "note_id", note.ID, "owner", note.Owner)
	respond.JSON(w, http.StatusCreated, models.NewNoteResponse(*note))
}

// Get handles GET /api/notes/{id}.
func (h *Notes) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, models.NewNoteResponse(*note))
}

// Update handles PUT /api/notes/{id}. The body is checked before the note
// is looked up.
func (h *Notes) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeNote(w, r, msgUpdateFields)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	note, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	note.Title = req.Title
	note.Content = req.Content
	if err := h.store.UpdateNote(r.Context(), note); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, models.NewNoteResponse(*note))
}

// Delete handles DELETE /api/notes/{id}.
func (h *Notes) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.store.DeleteNote(r.Context(), note.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "note deleted", "note_id", note.ID, "owner", note.Owner)
	respond.JSON(w, http.StatusOK, models.DeleteResponse{Msg: "Note removed", ID: note.ID})
}

// owned loads the note named by the {id} path parameter and checks that the
// caller owns it.
func (h *Notes) owned(r *http.Request) (*models.Note, error) {
	id, err := caller(r)
	if err != nil {
		return nil, err
	}

	noteID, err := models.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}

	note, err := h.store.NoteByID(r.Context(), noteID)
	if err != nil {
		return nil, err
	}

	if note.Owner != id.ID {
		return nil, apperr.ErrOwnership
	}
	return note, nil
}

func decodeNote(w http.ResponseWriter, r *http.Request, msg string) (models.NoteRequest, error) {
	var req models.NoteRequest
	if err := respond.Decode(w, r, &req, msg); err != nil {
		return req, err
	}
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return req, apperr.Validation(msg)
	}
	return req, nil
}

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /api/health.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.ErrorContext(r.Context(), "health check failed", "error", err)
			}
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
