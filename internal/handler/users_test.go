package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/directoryai/directoryai/internal/audit"
	"github.com/directoryai/directoryai/internal/handler"
	"github.com/directoryai/directoryai/internal/models"
	"github.com/directoryai/directoryai/internal/store"
)

func newTestRouter(t *testing.T, name string) *chi.Mux {
	t.Helper()
	d, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	users := store.NewUserStore(d)
	usersH := handler.NewUsersHandler(users, audit.NewLogger(false))
	healthH := handler.NewHealthHandler(users)

	r := chi.NewRouter()
	r.Get("/health", healthH.Health)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", usersH.Create)
		r.Get("/", usersH.List)
		r.Delete("/", usersH.DeleteAll)
		r.Post("/seed", usersH.Seed)
		r.Get("/{user_id}", usersH.Get)
		r.Patch("/{user_id}", usersH.Update)
		r.Delete("/{user_id}", usersH.Delete)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUsersLifecycle(t *testing.T) {
	r := newTestRouter(t, "hlifecycle")

	// Create
	rr := doJSON(t, r, http.MethodPost, "/users", `{"name":"Alice","email":"a@x.com"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created models.UserResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.User == nil || created.User.ID == 0 || created.User.Email != "a@x.com" {
		t.Fatalf("unexpected create response: %s", rr.Body.String())
	}

	// Read it back
	rr = doJSON(t, r, http.MethodGet, "/users/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}
	var got models.UserResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if got.User.Name != "Alice" || got.User.Email != "a@x.com" {
		t.Fatalf("round trip mismatch: %+v", got.User)
	}

	// Partial update: email only, name preserved
	rr = doJSON(t, r, http.MethodPatch, "/users/1", `{"email":"alice@x.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var updated models.AffectedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode patch response: %v", err)
	}
	if updated.Affected != 1 || updated.User == nil || updated.User.Name != "Alice" || updated.User.Email != "alice@x.com" {
		t.Fatalf("unexpected patch response: %s", rr.Body.String())
	}

	// Delete
	rr = doJSON(t, r, http.MethodDelete, "/users/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}
	var deleted models.AffectedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode delete response: %v", err)
	}
	if deleted.Affected != 1 {
		t.Fatalf("delete affected = %d, want 1", deleted.Affected)
	}

	// Read after delete is 404
	rr = doJSON(t, r, http.MethodGet, "/users/1", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rr.Code)
	}
}

func TestUsersListCount(t *testing.T) {
	r := newTestRouter(t, "hlist")

	for _, body := range []string{
		`{"name":"Alice","email":"a@x.com"}`,
		`{"name":"Bob","email":"b@x.com"}`,
		`{"name":"Charlie","email":"c@x.com"}`,
	} {
		if rr := doJSON(t, r, http.MethodPost, "/users", body); rr.Code != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d", rr.Code)
		}
	}

	rr := doJSON(t, r, http.MethodGet, "/users", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	var list models.UserListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if list.Count != 3 || len(list.Users) != 3 {
		t.Fatalf("expected 3 users, got %s", rr.Body.String())
	}
}

func TestUpdateMissingUserAffectsZero(t *testing.T) {
	r := newTestRouter(t, "hupdmissing")

	rr := doJSON(t, r, http.MethodPatch, "/users/9999", `{"name":"Nobody"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with affected 0, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.AffectedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Affected != 0 || resp.User != nil {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestDeleteMissingUserAffectsZero(t *testing.T) {
	r := newTestRouter(t, "hdelmissing")

	rr := doJSON(t, r, http.MethodDelete, "/users/9999", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with affected 0, got %d", rr.Code)
	}
	var resp models.AffectedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Affected != 0 {
		t.Fatalf("affected = %d, want 0", resp.Affected)
	}
}

func TestCreateValidation(t *testing.T) {
	r := newTestRouter(t, "hvalidation")

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing email", `{"name":"Alice"}`, http.StatusBadRequest},
		{"missing name", `{"email":"a@x.com"}`, http.StatusBadRequest},
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"valid", `{"name":"Alice","email":"a@x.com"}`, http.StatusCreated},
		{"duplicate email", `{"name":"Alice2","email":"a@x.com"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		rr := doJSON(t, r, http.MethodPost, "/users", tc.body)
		if rr.Code != tc.want {
			t.Errorf("%s: expected %d, got %d: %s", tc.name, tc.want, rr.Code, rr.Body.String())
		}
	}
}

func TestUpdateValidation(t *testing.T) {
	r := newTestRouter(t, "hupdvalidation")

	if rr := doJSON(t, r, http.MethodPost, "/users", `{"name":"Alice","email":"a@x.com"}`); rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rr.Code)
	}

	// Empty patch body
	if rr := doJSON(t, r, http.MethodPatch, "/users/1", `{}`); rr.Code != http.StatusBadRequest {
		t.Errorf("empty patch: expected 400, got %d", rr.Code)
	}

	// Non-numeric ID
	if rr := doJSON(t, r, http.MethodPatch, "/users/abc", `{"name":"X"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", rr.Code)
	}
}

func TestSeedAndDeleteAll(t *testing.T) {
	r := newTestRouter(t, "hseed")

	rr := doJSON(t, r, http.MethodPost, "/users/seed", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// Second seed skips
	rr = doJSON(t, r, http.MethodPost, "/users/seed", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "skipped") {
		t.Fatalf("second seed: expected skip, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, r, http.MethodDelete, "/users", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete all: expected 200, got %d", rr.Code)
	}
	var resp models.AffectedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Affected != 5 {
		t.Fatalf("delete all affected = %d, want 5", resp.Affected)
	}

	rr = doJSON(t, r, http.MethodGet, "/users", "")
	var list models.UserListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 0 {
		t.Fatalf("expected empty directory after delete all, got %d", list.Count)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, "hhealth")

	rr := doJSON(t, r, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if resp.Status != "healthy" || resp.Checks["storage"] != "ok" {
		t.Fatalf("unexpected health response: %s", rr.Body.String())
	}
}
