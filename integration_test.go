package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-api/auth"
	"notes-api/models"
	"notes-api/server"
	"notes-api/store"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testApp struct {
	t      *testing.T
	router http.Handler
	store  *store.Memory
	clock  *testClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	st := store.NewMemory(store.WithClock(clock.Now))
	tokens := auth.NewSigner([]byte("integration-secret"), auth.TokenTTL, auth.WithClock(clock.Now))

	return &testApp{
		t:     t,
		store: st,
		clock: clock,
		router: server.NewRouter(server.Deps{
			Store:       st,
			Credentials: auth.NewCredentials(st, tokens),
			Verifier:    auth.NewGuard(st, tokens),
		}),
	}
}

func (a *testApp) request(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) register(name, email, password string) string {
	a.t.Helper()
	rr := a.request(http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Name: name, Email: email, Password: password})
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())

	var resp models.TokenResponse
	require.NoError(a.t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

func (a *testApp) createNote(token, title, content string) models.NoteResponse {
	a.t.Helper()
	rr := a.request(http.MethodPost, "/api/notes", token, models.NoteRequest{Title: title, Content: content})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())

	var n models.NoteResponse
	require.NoError(a.t, json.Unmarshal(rr.Body.Bytes(), &n))
	return n
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestRegistrationIsUniquePerEmail(t *testing.T) {
	app := newTestApp(t)
	app.register("Ada", "ada@example.com", "first")

	rr := app.request(http.MethodPost, "/api/auth/register", "",
		models.RegisterRequest{Name: "Eve", Email: "ada@example.com", Password: "second"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User already exists", decode[models.MessageResponse](t, rr).Msg)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)
	app.register("Ada", "ada@example.com", "correct")

	wrong := app.request(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	unknown := app.request(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ghost@example.com", Password: "correct"})

	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	ok := app.request(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ada@example.com", Password: "correct"})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.NotEmpty(t, decode[models.TokenResponse](t, ok).Token)
}

func TestTokenExpires(t *testing.T) {
	app := newTestApp(t)
	token := app.register("Ada", "ada@example.com", "pw")

	rr := app.request(http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	app.clock.Advance(auth.TokenTTL - time.Second)
	rr = app.request(http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	app.clock.Advance(time.Second)
	rr = app.request(http.MethodGet, "/api/notes", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Not authorized, token failed (expired)", decode[models.MessageResponse](t, rr).Msg)
}

func TestOwnershipIsolation(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("Alice", "alice@example.com", "pw")
	bob := app.register("Bob", "bob@example.com", "pw")

	note := app.createNote(alice, "private", "alice only")
	path := "/api/notes/" + note.ID

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = models.NoteRequest{Title: "stolen", Content: "by bob"}
		}
		rr := app.request(method, path, bob, body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, method)
		assert.Equal(t, "Not authorized", decode[models.MessageResponse](t, rr).Msg, method)
	}

	rr := app.request(http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[models.NoteResponse](t, rr)
	assert.Equal(t, "private", got.Title)
	assert.Equal(t, "alice only", got.Content)

	rr = app.request(http.MethodGet, "/api/notes", bob, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]models.NoteResponse](t, rr))
}

func TestNoteLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.register("Ada", "ada@example.com", "pw")
	acc, err := app.store.AccountByEmail(t.Context(), "ada@example.com", false)
	require.NoError(t, err)

	created := app.createNote(token, "T", "C")
	assert.Equal(t, acc.ID, created.User)

	rr := app.request(http.MethodGet, "/api/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	fetched := decode[models.NoteResponse](t, rr)
	assert.Equal(t, "T", fetched.Title)
	assert.Equal(t, "C", fetched.Content)
	assert.Equal(t, acc.ID, fetched.User)

	// Same clock reading as creation; updatedAt must still move forward.
	rr = app.request(http.MethodPut, "/api/notes/"+created.ID, token, models.NoteRequest{Title: "T2", Content: "C2"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = app.request(http.MethodGet, "/api/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[models.NoteResponse](t, rr)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "C2", updated.Content)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	rr = app.request(http.MethodDelete, "/api/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.DeleteResponse{Msg: "Note removed", ID: created.ID}, decode[models.DeleteResponse](t, rr))

	rr = app.request(http.MethodGet, "/api/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Note not found", decode[models.MessageResponse](t, rr).Msg)
}

func TestListingIsNewestFirst(t *testing.T) {
	app := newTestApp(t)
	token := app.register("Ada", "ada@example.com", "pw")

	n1 := app.createNote(token, "N1", "first")
	app.clock.Advance(time.Minute)
	n2 := app.createNote(token, "N2", "second")

	rr := app.request(http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	notes := decode[[]models.NoteResponse](t, rr)
	require.Len(t, notes, 2)
	assert.Equal(t, n2.ID, notes[0].ID)
	assert.Equal(t, n1.ID, notes[1].ID)
}

func TestNoteFieldValidation(t *testing.T) {
	app := newTestApp(t)
	token := app.register("Ada", "ada@example.com", "pw")
	existing := app.createNote(token, "keep", "me")

	invalid := []map[string]string{
		{},
		{"title": "T"},
		{"content": "C"},
		{"title": "", "content": "C"},
		{"title": "T", "content": ""},
	}

	for _, body := range invalid {
		rr := app.request(http.MethodPost, "/api/notes", token, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "create %v", body)

		rr = app.request(http.MethodPut, "/api/notes/"+existing.ID, token, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "update %v", body)
	}

	rr := app.request(http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	notes := decode[[]models.NoteResponse](t, rr)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep", notes[0].Title)
	assert.Equal(t, existing.UpdatedAt, notes[0].UpdatedAt)
}

func TestPasswordNeverReturned(t *testing.T) {
	app := newTestApp(t)
	token := app.register("Ada", "ada@example.com", "hunter2hunter2")

	acc, err := app.store.AccountByEmail(t.Context(), "ada@example.com", true)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", acc.PasswordHash)

	app.createNote(token, "T", "C")
	rr := app.request(http.MethodGet, "/api/notes", token, nil)
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.NotContains(t, rr.Body.String(), acc.PasswordHash)

	encoded, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), acc.PasswordHash)
}
