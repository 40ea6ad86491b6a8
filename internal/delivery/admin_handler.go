package delivery

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/whisper_relay/internal/user"
)

type AdminHandler struct {
	users user.Service
}

func NewAdminHandler(users user.Service) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "missing email", http.StatusBadRequest)
		return
	}

	id, err := h.users.EnsureUser(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "failed to save user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"id": id})
}

func (h *AdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Role == "" {
		http.Error(w, "missing role", http.StatusBadRequest)
		return
	}

	if err := h.users.AssignRole(r.Context(), userID, req.Role); err != nil {
		http.Error(w, "failed to assign role: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
