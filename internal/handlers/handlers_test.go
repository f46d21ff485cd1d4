package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/falbue/todo-denzl/internal/auth"
	"github.com/falbue/todo-denzl/internal/repo"
	"github.com/falbue/todo-denzl/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires real services over an in-memory sqlite database and an
// in-memory session store. No Redis and no cache: caching is optional by
// construction.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessions := auth.NewMemoryStore(24 * time.Hour)
	userSvc := service.NewUserService(repo.NewSQLiteUserRepo(db))
	taskSvc := service.NewTaskService(repo.NewSQLiteTaskRepo(db), nil)

	authHandler := NewAuthHandler(sessions, userSvc)
	taskHandler := NewTaskHandler(taskSvc)
	pageHandler := NewPageHandler(sessions)

	r := gin.New()
	r.GET("/", pageHandler.Index)
	api := r.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	protected := api.Group("", auth.RequireSession(sessions))
	protected.GET("/tasks", taskHandler.List)
	protected.POST("/tasks", taskHandler.Create)
	protected.PUT("/tasks/:id", taskHandler.Update)
	protected.PATCH("/tasks/:id/status", taskHandler.ToggleStatus)
	protected.DELETE("/tasks/:id", taskHandler.Delete)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerUser(t *testing.T, r *gin.Engine, username, email string) *http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": username, "email": email, "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "alice", "email": "a@x.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp["username"])

	// Duplicates conflict regardless of the other fields.
	w = doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "alice", "email": "new@x.com", "password": "other99",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "bob", "email": "a@x.com", "password": "other99",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Login by username and by email.
	w = doJSON(r, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/api/login", gin.H{"username": "A@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Bad credentials: 401 with a message that names no field.
	w = doJSON(r, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := w.Body.String()
	w = doJSON(r, http.MethodPost, "/api/login", gin.H{"username": "nobody", "password": "secret1"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, wrongPassword, w.Body.String())

	// Missing fields are 400, not 401.
	w = doJSON(r, http.MethodPost, "/api/login", gin.H{"username": "alice"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	r := newTestRouter(t)
	cookie := registerUser(t, r, "alice", "a@x.com")
	cookies := []*http.Cookie{cookie}

	// Create: 201, pending, generated id and timestamps.
	w := doJSON(r, http.MethodPost, "/api/tasks", gin.H{"title": "buy milk"}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Equal(t, "pending", task["status"])
	id := int64(task["id"].(float64))
	require.NotZero(t, id)

	// Toggle to completed, then back to pending.
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", id), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Equal(t, "completed", task["status"])

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", id), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Equal(t, "pending", task["status"])

	// Update with an unknown status coerces to pending.
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), gin.H{
		"title": "buy oat milk", "description": "2 liters", "status": "archived",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	require.Equal(t, "pending", task["status"])
	require.Equal(t, "buy oat milk", task["title"])

	// Delete, then the list is empty.
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/tasks", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Empty(t, list)
}

func TestTaskValidationResponses(t *testing.T) {
	r := newTestRouter(t)
	cookies := []*http.Cookie{registerUser(t, r, "alice", "a@x.com")}

	w := doJSON(r, http.MethodPost, "/api/tasks", gin.H{"title": "   "}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/tasks/abc", gin.H{"title": "x"}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrossUserIsolation(t *testing.T) {
	r := newTestRouter(t)
	aliceCookies := []*http.Cookie{registerUser(t, r, "alice", "a@x.com")}
	bobCookies := []*http.Cookie{registerUser(t, r, "bobby", "b@x.com")}

	w := doJSON(r, http.MethodPost, "/api/tasks", gin.H{"title": "alice's task"}, aliceCookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var task map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	id := int64(task["id"].(float64))

	// Every mutation path reports 404 for the other user's session.
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), gin.H{"title": "x"}, bobCookies)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", id), nil, bobCookies)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, bobCookies)
	require.Equal(t, http.StatusNotFound, w.Code)

	// And bob's list stays empty.
	w = doJSON(r, http.MethodGet, "/api/tasks", nil, bobCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Empty(t, list)
}

func TestListSorting(t *testing.T) {
	r := newTestRouter(t)
	cookies := []*http.Cookie{registerUser(t, r, "alice", "a@x.com")}

	for _, title := range []string{"banana", "apple", "cherry"} {
		w := doJSON(r, http.MethodPost, "/api/tasks", gin.H{"title": title}, cookies)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	titles := func(w *httptest.ResponseRecorder) []string {
		var list []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		out := make([]string, len(list))
		for i, item := range list {
			out[i] = item["title"].(string)
		}
		return out
	}

	w := doJSON(r, http.MethodGet, "/api/tasks?sort=title&order=asc", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"apple", "banana", "cherry"}, titles(w))

	// Unknown sort/order never error, they fall back silently.
	w = doJSON(r, http.MethodGet, "/api/tasks?sort=bogus&order=sideways", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, titles(w), 3)
}

func TestLogoutEndsSession(t *testing.T) {
	r := newTestRouter(t)
	cookies := []*http.Cookie{registerUser(t, r, "alice", "a@x.com")}

	w := doJSON(r, http.MethodPost, "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// Logging out twice is fine.
	w = doJSON(r, http.MethodPost, "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The old cookie no longer grants access; the 401 carries a hint.
	w = doJSON(r, http.MethodGet, "/api/tasks", nil, cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "/login", body["redirect"])
}

func TestIndexRedirects(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	cookie := registerUser(t, r, "alice", "a@x.com")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/todo", w.Header().Get("Location"))
}
