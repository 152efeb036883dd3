package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// memUserStore is an in-memory UserStore for testing.
type memUserStore struct {
	users map[string]*model.User // keyed by ID
	err   error                  // forced error for failure paths
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (s *memUserStore) CreateUser(ctx context.Context, user *model.User) error {
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// stubIssuer is a TokenIssuer for testing.
type stubIssuer struct {
	token string
	err   error
}

func (s *stubIssuer) Issue(subject string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token + ":" + subject, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, nil))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func newUserHandler(store *memUserStore) *UserHandler {
	return NewUserHandler(store, nil, auth.NewHasher(4), &stubIssuer{token: "tok"}, testLogger())
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.MsgResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Msg
}

func registerBody(name, email, password, confirm string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	}
}

func TestRegister_Success(t *testing.T) {
	store := newMemUserStore()
	h := newUserHandler(store)

	rec := postJSON(t, h.Register, "/auth/register", registerBody("Ana", "a@x.com", "secret1", "secret1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(store.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(store.users))
	}

	for _, u := range store.users {
		if u.PasswordHash == "secret1" || u.PasswordHash == "" {
			t.Error("expected password to be stored hashed")
		}
	}
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  dto.RegisterRequest
		msg  string
	}{
		{"missing name", registerBody("", "a@x.com", "p", "p"), "Name is required!"},
		{"missing email", registerBody("Ana", "", "p", "p"), "Email is required!"},
		{"missing password", registerBody("Ana", "a@x.com", "", ""), "Password is required!"},
		{"mismatched confirmation", registerBody("Ana", "a@x.com", "p1", "p2"), "Password and confirmation must match!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newUserHandler(newMemUserStore())
			rec := postJSON(t, h.Register, "/auth/register", tc.req)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected status 422, got %d", rec.Code)
			}
			if got := decodeMsg(t, rec); got != tc.msg {
				t.Errorf("expected message %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMemUserStore()
	h := newUserHandler(store)

	rec := postJSON(t, h.Register, "/auth/register", registerBody("Ana", "a@x.com", "secret1", "secret1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first registration: expected 201, got %d", rec.Code)
	}

	rec = postJSON(t, h.Register, "/auth/register", registerBody("Other", "a@x.com", "secret2", "secret2"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("second registration: expected 422, got %d", rec.Code)
	}
	if got := decodeMsg(t, rec); got != "Please use another email!" {
		t.Errorf("unexpected message: %q", got)
	}

	if len(store.users) != 1 {
		t.Errorf("expected no second user created, got %d users", len(store.users))
	}
}

func TestRegister_StoreUniqueIndexRace(t *testing.T) {
	// The pre-check passes but the insert hits the unique index: maps to 422.
	store := newMemUserStore()

	// Seed a user whose email the pre-check will miss by forcing the
	// lookup to report not-found.
	store.users["u1"] = &model.User{ID: "u1", Name: "Ana", Email: "a@x.com"}
	lookupMiss := &raceUserStore{memUserStore: store}

	h := NewUserHandler(lookupMiss, nil, auth.NewHasher(4), &stubIssuer{token: "tok"}, testLogger())

	rec := postJSON(t, h.Register, "/auth/register", registerBody("Dup", "a@x.com", "p", "p"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 from unique index conflict, got %d", rec.Code)
	}
}

// raceUserStore simulates a concurrent registration slipping past the
// advisory email pre-check.
type raceUserStore struct {
	*memUserStore
}

func (s *raceUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}

func TestLogin_Success(t *testing.T) {
	store := newMemUserStore()
	h := newUserHandler(store)

	rec := postJSON(t, h.Register, "/auth/register", registerBody("Ana", "a@x.com", "secret1", "secret1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d", rec.Code)
	}

	rec = postJSON(t, h.Login, "/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.UserID == "" {
		t.Error("expected a userId in the response")
	}
	if _, ok := store.users[resp.UserID]; !ok {
		t.Error("expected userId to reference the registered user")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	h := newUserHandler(newMemUserStore())

	rec := postJSON(t, h.Login, "/auth/login", dto.LoginRequest{Email: "nobody@x.com", Password: "p"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMemUserStore()
	h := newUserHandler(store)

	postJSON(t, h.Register, "/auth/register", registerBody("Ana", "a@x.com", "secret1", "secret1"))

	rec := postJSON(t, h.Login, "/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", rec.Code)
	}
	if got := decodeMsg(t, rec); got != "Invalid password!" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h := newUserHandler(newMemUserStore())

	rec := postJSON(t, h.Login, "/auth/login", dto.LoginRequest{Password: "p"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing email: expected 422, got %d", rec.Code)
	}

	rec = postJSON(t, h.Login, "/auth/login", dto.LoginRequest{Email: "a@x.com"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing password: expected 422, got %d", rec.Code)
	}
}

func userRouter(h *UserHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/user/{id}", h.GetByID)
	r.Get("/listarUsuario/{username}", h.GetByName)
	return r
}

func TestGetByID_ExcludesPasswordHash(t *testing.T) {
	store := newMemUserStore()
	store.users["u1"] = &model.User{ID: "u1", Name: "Ana", Email: "a@x.com", PasswordHash: "supersecret"}
	h := newUserHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/user/u1", nil)
	rec := httptest.NewRecorder()
	userRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if bytes.Contains([]byte(body), []byte("supersecret")) {
		t.Error("response must not contain the password hash")
	}

	var resp dto.UserResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	h := newUserHandler(newMemUserStore())

	req := httptest.NewRequest(http.MethodGet, "/user/missing", nil)
	rec := httptest.NewRecorder()
	userRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestGetByName(t *testing.T) {
	store := newMemUserStore()
	store.users["u1"] = &model.User{ID: "u1", Name: "Ana", Email: "a@x.com", PasswordHash: "x"}
	h := newUserHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/listarUsuario/Ana", nil)
	rec := httptest.NewRecorder()
	userRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/listarUsuario/Nobody", nil)
	rec = httptest.NewRecorder()
	userRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown name, got %d", rec.Code)
	}
}

// stubUserCache records cache traffic for the read-through path.
type stubUserCache struct {
	users map[string]*model.User
	sets  int
}

func (c *stubUserCache) GetUser(ctx context.Context, id string) (*model.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("cache miss")
}

func (c *stubUserCache) SetUser(ctx context.Context, user *model.User) error {
	c.users[user.ID] = user
	c.sets++
	return nil
}

func TestGetByID_ReadThroughCache(t *testing.T) {
	store := newMemUserStore()
	store.users["u1"] = &model.User{ID: "u1", Name: "Ana", Email: "a@x.com", PasswordHash: "x"}
	cache := &stubUserCache{users: make(map[string]*model.User)}
	h := NewUserHandler(store, cache, auth.NewHasher(4), &stubIssuer{token: "tok"}, testLogger())

	// First lookup misses the cache and populates it.
	req := httptest.NewRequest(http.MethodGet, "/user/u1", nil)
	rec := httptest.NewRecorder()
	userRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if cache.sets != 1 {
		t.Errorf("expected cache to be populated once, got %d sets", cache.sets)
	}

	// Second lookup is served from cache even if the store errors.
	store.err = errors.New("db down")
	req = httptest.NewRequest(http.MethodGet, "/user/u1", nil)
	rec = httptest.NewRecorder()
	userRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected cached lookup to succeed, got %d", rec.Code)
	}
}

func TestStoreFailure_Opaque500(t *testing.T) {
	store := newMemUserStore()
	store.err = errors.New("connection refused: password=hunter2")
	h := newUserHandler(store)

	rec := postJSON(t, h.Login, "/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "p"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	if bytes.Contains(rec.Body.Bytes(), []byte("hunter2")) {
		t.Error("internal error detail must not leak to the client")
	}
	if got := decodeMsg(t, rec); got != "Internal server error" {
		t.Errorf("expected opaque message, got %q", got)
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	h := newUserHandler(newMemUserStore())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
