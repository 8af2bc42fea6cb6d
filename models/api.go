package models

import (
	"strings"
	"time"
)

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NoteRequest is the body of both create and update.
type NoteRequest struct {
	Title   string `json:"title" validate:"required,notblank"`
	Content string `json:"content" validate:"required,notblank"`
}

// Normalize trims the title the way it is stored.
func (r *NoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

// Response DTOs

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

type DeleteResponse struct {
	Msg string `json:"msg"`
	ID  string `json:"id"`
}

// NoteResponse keeps the field names the web client reads (_id, user) and
// repeats the identifier as id.
type NoteResponse struct {
	LegacyID  string    `json:"_id"`
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewNoteResponse(n Note) NoteResponse {
	return NoteResponse{
		LegacyID:  n.ID,
		ID:        n.ID,
		User:      n.Owner,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NewNoteList never returns nil so an empty list encodes as [].
func NewNoteList(notes []Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, NewNoteResponse(n))
	}
	return out
}
