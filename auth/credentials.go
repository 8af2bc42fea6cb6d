package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"notes-api/apperr"
	"notes-api/models"
)

const hashCost = bcrypt.DefaultCost

const (
	msgRegisterFields = "Please provide name, email and password"
	msgFieldLength    = "Name and email must be at most 255 characters"
	msgPasswordLength = "Password must be at most 72 bytes"
	msgLoginFields    = "Please provide email and password"
)

// AccountStore is the part of the document store the credential service
// needs.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc *models.Account) error
	AccountByEmail(ctx context.Context, email string, withSecret bool) (*models.Account, error)
}

// Credentials registers accounts and authenticates logins. It is the only
// producer of session tokens.
type Credentials struct {
	accounts AccountStore
	tokens   *Signer
}

func NewCredentials(accounts AccountStore, tokens *Signer) *Credentials {
	return &Credentials{accounts: accounts, tokens: tokens}
}

// Register creates an account and returns a token for it.
func (c *Credentials) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := models.Validate(req); err != nil {
		if models.FailedTag(err, "Name") == "max" || models.FailedTag(err, "Email") == "max" {
			return "", apperr.Validation(msgFieldLength)
		}
		return "", apperr.Validation(msgRegisterFields)
	}

	_, err := c.accounts.AccountByEmail(ctx, req.Email, false)
	switch {
	case err == nil:
		return "", apperr.ErrDuplicateAccount
	case !errors.Is(err, apperr.ErrNotFound):
		return "", fmt.Errorf("lookup account: %w", err)
	}

	// Fail before writing anything if no token could be issued afterwards.
	if !c.tokens.Configured() {
		return "", apperr.ErrConfiguration
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation(msgPasswordLength)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	acc := &models.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	// The unique index still catches a concurrent registration of the same
	// email and reports ErrDuplicateAccount.
	if err := c.accounts.CreateAccount(ctx, acc); err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}

	return c.tokens.Mint(acc.ID)
}

// Login checks email and password and returns a fresh token. An unknown
// email and a wrong password produce the same error.
func (c *Credentials) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := models.Validate(req); err != nil {
		return "", apperr.Validation(msgLoginFields)
	}

	acc, err := c.accounts.AccountByEmail(ctx, req.Email, true)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			return "", apperr.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		return "", apperr.ErrInvalidCredentials
	}

	return c.tokens.Mint(acc.ID)
}

var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	if err != nil {
		panic(err)
	}
	return hash
})
