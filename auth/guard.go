package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notes-api/apperr"
	"notes-api/models"
)

// AccountLookup is the point lookup the guard performs per request.
type AccountLookup interface {
	AccountByID(ctx context.Context, id string) (*models.Account, error)
}

// Guard turns an Authorization header into an Identity. It establishes who
// the caller is; whether the caller may touch a given record is decided by
// the resource handlers.
type Guard struct {
	accounts AccountLookup
	tokens   *Signer
}

func NewGuard(accounts AccountLookup, tokens *Signer) *Guard {
	return &Guard{accounts: accounts, tokens: tokens}
}

func (g *Guard) Verify(ctx context.Context, header string) (models.Identity, error) {
	token, ok := bearerToken(header)
	if !ok {
		return models.Identity{}, apperr.ErrNoToken
	}

	subject, err := g.tokens.Parse(token)
	if err != nil {
		return models.Identity{}, err
	}

	acc, err := g.accounts.AccountByID(ctx, subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.Identity{}, apperr.ErrUnknownSubject
		}
		return models.Identity{}, fmt.Errorf("resolve token subject: %w", err)
	}

	return models.Identity{ID: acc.ID, Name: acc.Name, Email: acc.Email}, nil
}

// bearerToken extracts <token> from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
