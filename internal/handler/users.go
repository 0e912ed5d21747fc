package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/directoryai/directoryai/internal/audit"
	"github.com/directoryai/directoryai/internal/models"
	"github.com/directoryai/directoryai/internal/store"
)

// UsersHandler exposes direct CRUD over the user directory
type UsersHandler struct {
	users       *store.UserStore
	auditLogger *audit.Logger
}

func NewUsersHandler(users *store.UserStore, auditLogger *audit.Logger) *UsersHandler {
	return &UsersHandler{users: users, auditLogger: auditLogger}
}

// Create handles POST /api/v1/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" || req.Email == "" {
		models.WriteError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	apiKey := r.Header.Get("X-API-Key")
	u, err := h.users.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			h.auditLogger.LogMutation("create", 0, apiKey, 0, false, err.Error())
			models.WriteError(w, http.StatusConflict, "a user with that email already exists")
			return
		}
		h.auditLogger.LogMutation("create", 0, apiKey, 0, false, err.Error())
		models.WriteError(w, http.StatusInternalServerError, "create user failed: "+err.Error())
		return
	}

	h.auditLogger.LogMutation("create", u.ID, apiKey, 1, true, "")
	models.WriteJSON(w, http.StatusCreated, models.UserResponse{Status: "success", User: u})
}

// Get handles GET /api/v1/users/{user_id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "get user failed: "+err.Error())
		return
	}
	if u == nil {
		models.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	models.WriteJSON(w, http.StatusOK, models.UserResponse{Status: "success", User: u})
}

// List handles GET /api/v1/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "list users failed: "+err.Error())
		return
	}
	if users == nil {
		users = []models.User{}
	}
	models.WriteJSON(w, http.StatusOK, models.UserListResponse{
		Status: "success",
		Users:  users,
		Count:  len(users),
	})
}

// Update handles PATCH /api/v1/users/{user_id}.
// A missing ID yields 200 with affected:0, matching the store behavior.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Empty() {
		models.WriteError(w, http.StatusBadRequest, "at least one of name or email must be provided")
		return
	}

	apiKey := r.Header.Get("X-API-Key")
	affected, err := h.users.Update(r.Context(), id, store.UserFields{Name: req.Name, Email: req.Email})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			h.auditLogger.LogMutation("update", id, apiKey, 0, false, err.Error())
			models.WriteError(w, http.StatusConflict, "a user with that email already exists")
			return
		}
		h.auditLogger.LogMutation("update", id, apiKey, 0, false, err.Error())
		models.WriteError(w, http.StatusInternalServerError, "update user failed: "+err.Error())
		return
	}

	var u *models.User
	if affected > 0 {
		u, err = h.users.Get(r.Context(), id)
		if err != nil {
			models.WriteError(w, http.StatusInternalServerError, "read back user failed: "+err.Error())
			return
		}
	}

	h.auditLogger.LogMutation("update", id, apiKey, affected, true, "")
	models.WriteJSON(w, http.StatusOK, models.AffectedResponse{
		Status:   "success",
		Affected: affected,
		User:     u,
	})
}

// Delete handles DELETE /api/v1/users/{user_id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	apiKey := r.Header.Get("X-API-Key")
	affected, err := h.users.Delete(r.Context(), id)
	if err != nil {
		h.auditLogger.LogMutation("delete", id, apiKey, 0, false, err.Error())
		models.WriteError(w, http.StatusInternalServerError, "delete user failed: "+err.Error())
		return
	}

	h.auditLogger.LogMutation("delete", id, apiKey, affected, true, "")
	models.WriteJSON(w, http.StatusOK, models.AffectedResponse{
		Status:   "success",
		Affected: affected,
	})
}

// DeleteAll handles DELETE /api/v1/users
func (h *UsersHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	affected, err := h.users.DeleteAll(r.Context())
	if err != nil {
		h.auditLogger.LogMutation("delete_all", 0, apiKey, 0, false, err.Error())
		models.WriteError(w, http.StatusInternalServerError, "delete all users failed: "+err.Error())
		return
	}

	h.auditLogger.LogMutation("delete_all", 0, apiKey, affected, true, "")
	models.WriteJSON(w, http.StatusOK, models.AffectedResponse{
		Status:   "success",
		Affected: affected,
	})
}

// Seed handles POST /api/v1/users/seed
func (h *UsersHandler) Seed(w http.ResponseWriter, r *http.Request) {
	created, existing, err := h.users.Seed(r.Context())
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "seed users failed: "+err.Error())
		return
	}
	if existing > 0 {
		models.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "skipped",
			"existing_count": existing,
		})
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status":        "success",
		"created_count": len(created),
		"created_users": created,
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid user_id: "+raw)
		return 0, false
	}
	return id, true
}
