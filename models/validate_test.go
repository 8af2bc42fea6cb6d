package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string
		wantTag   string
	}{
		{name: "valid", req: RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"}},
		{name: "missing name", req: RegisterRequest{Email: "ann@example.com", Password: "pw"}, wantField: "Name", wantTag: "required"},
		{name: "blank name", req: RegisterRequest{Name: "   ", Email: "ann@example.com", Password: "pw"}, wantField: "Name", wantTag: "notblank"},
		{name: "missing email", req: RegisterRequest{Name: "Ann", Password: "pw"}, wantField: "Email", wantTag: "required"},
		{name: "email without @", req: RegisterRequest{Name: "Ann", Email: "ann", Password: "pw"}},
		{name: "long name", req: RegisterRequest{Name: strings.Repeat("n", 256), Email: "ann@example.com", Password: "pw"}, wantField: "Name", wantTag: "max"},
		{name: "long email", req: RegisterRequest{Name: "Ann", Email: strings.Repeat("e", 256), Password: "pw"}, wantField: "Email", wantTag: "max"},
		{name: "multibyte name at limit", req: RegisterRequest{Name: strings.Repeat("é", 255), Email: "ann@example.com", Password: "pw"}},
		{name: "missing password", req: RegisterRequest{Name: "Ann", Email: "ann@example.com"}, wantField: "Password", wantTag: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantTag, FailedTag(err, tt.wantField))
		})
	}
}

func TestValidateNoteRequest(t *testing.T) {
	assert.NoError(t, Validate(NoteRequest{Title: "T", Content: "C"}))
	assert.Error(t, Validate(NoteRequest{Title: "T"}))
	assert.Error(t, Validate(NoteRequest{Content: "C"}))
	assert.Error(t, Validate(NoteRequest{Title: "T", Content: " \n\t"}))
}

func TestFailedTagWithoutValidationErrors(t *testing.T) {
	assert.Equal(t, "", FailedTag(nil, "Email"))
	assert.Equal(t, "", FailedTag(Validate(LoginRequest{Email: "a", Password: "b"}), "Email"))
}
