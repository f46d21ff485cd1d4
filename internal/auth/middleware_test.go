package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newGuardedRouter(t *testing.T, store Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/tasks", RequireSession(store), func(c *gin.Context) {
		sess, _ := SessionFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": sess.Username})
	})
	r.GET("/todo", RequireSession(store), func(c *gin.Context) {
		c.String(http.StatusOK, "todo page")
	})
	return r
}

func TestRequireSessionAPIMode(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	r := newGuardedRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["redirect"] != LoginPath {
		t.Errorf("redirect hint = %q, want %q", body["redirect"], LoginPath)
	}
}

func TestRequireSessionPageMode(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	r := newGuardedRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location = %q, want %q", loc, LoginPath)
	}
}

func TestRequireSessionJSONAcceptHeader(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	r := newGuardedRouter(t, store)

	// A fetch client hitting a page route still gets JSON when it asks for it.
	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireSessionPassesSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	id, err := store.Create(context.Background(), Session{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	r := newGuardedRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body["username"] != "alice" {
		t.Errorf("username = %q, want alice", body["username"])
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	id, err := store.Create(context.Background(), Session{UserID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := store.Get(context.Background(), id); ok {
		t.Error("expired session still resolves")
	}
}
