package handlers

import (
	"context"
	"net/http"

	"notes-api/models"
	"notes-api/respond"
)

// Authenticator is the credential service behind the auth endpoints.
type Authenticator interface {
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
}

type Auth struct {
	creds Authenticator
}

func NewAuth(creds Authenticator) *Auth {
	return &Auth{creds: creds}
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := respond.Decode(w, r, &req, "Please provide name, email and password"); err != nil {
		respond.Error(w, r, err)
		return
	}

	token, err := h.creds.Register(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := respond.Decode(w, r, &req, "Please provide email and password"); err != nil {
		respond.Error(w, r, err)
		return
	}

	token, err := h.creds.Login(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, models.TokenResponse{Token: token})
}
