// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/handler/dto"
)

// Handler serves the unauthenticated utility endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Welcome is the root info endpoint.
// GET /
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"success": true,
		"message": "Welcome to the API!",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeMsg(w, http.StatusNotFound, "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeMsg(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeMsg writes a {"msg": ...} response with the given status code.
func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.MsgResponse{Msg: msg})
}

// writeInternalError writes an opaque 500 response. The underlying error
// is logged by the caller, never echoed to the client.
func writeInternalError(w http.ResponseWriter) {
	writeMsg(w, http.StatusInternalServerError, "Internal server error")
}
