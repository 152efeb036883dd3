package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// UserStore persists and looks up user records.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
}

// UserCache is a read-through cache for user lookups by ID.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// UserHandler handles registration, login and user lookups.
type UserHandler struct {
	store  UserStore
	cache  UserCache
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler. cache may be nil, in which
// case lookups always hit the store.
func NewUserHandler(store UserStore, cache UserCache, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		store:  store,
		cache:  cache,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register handles POST /auth/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Presence checks short-circuit on the first missing field.
	if req.Name == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Name is required!")
		return
	}
	if req.Email == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Email is required!")
		return
	}
	if req.Password == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Password is required!")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeMsg(w, http.StatusUnprocessableEntity, "Password and confirmation must match!")
		return
	}

	// Advisory pre-check. The unique index on users.email is the
	// authoritative guard; a concurrent registration surfaces as
	// ErrEmailTaken from CreateUser below.
	_, err := h.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		writeMsg(w, http.StatusUnprocessableEntity, "Please use another email!")
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		h.logger.Error("failed to check email", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeMsg(w, http.StatusUnprocessableEntity, "Please use another email!")
			return
		}
		h.logger.Error("failed to create user", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	writeMsg(w, http.StatusCreated, "User created successfully!")
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Email is required!")
		return
	}
	if req.Password == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Password is required!")
		return
	}

	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeMsg(w, http.StatusNotFound, "User not found!")
			return
		}
		h.logger.Error("failed to look up user", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		writeMsg(w, http.StatusUnprocessableEntity, "Invalid password!")
		return
	}

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	h.logger.Info("user logged in", slog.String("user_id", user.ID))

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Msg:    "Authentication successful!",
		Token:  tok,
		UserID: user.ID,
	})
}

// GetByID handles GET /user/{id} (protected).
// The id is the caller-supplied path parameter, not the token subject;
// any authenticated caller may look up any user.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if h.cache != nil {
		if user, err := h.cache.GetUser(ctx, id); err == nil {
			writeJSON(w, http.StatusOK, dto.UserResponse{User: user})
			return
		}
	}

	user, err := h.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeMsg(w, http.StatusNotFound, "User not found!")
			return
		}
		h.logger.Error("failed to get user", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	if h.cache != nil {
		// Best effort; a cache failure never fails the request.
		if err := h.cache.SetUser(ctx, user); err != nil {
			h.logger.Warn("failed to cache user", slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{User: user})
}

// GetByName handles GET /listarUsuario/{username} (unprotected).
func (h *UserHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	user, err := h.store.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeMsg(w, http.StatusNotFound, "User not found!")
			return
		}
		h.logger.Error("failed to get user by name", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{User: user})
}
