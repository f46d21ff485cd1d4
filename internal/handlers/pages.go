package handlers

import (
	"net/http"

	"github.com/falbue/todo-denzl/internal/auth"

	"github.com/gin-gonic/gin"
)

const todoPath = "/todo"

// PageHandler serves the HTML shells. Pages never render for the wrong
// session state: they redirect instead.
type PageHandler struct {
	sessions auth.Store
}

func NewPageHandler(sessions auth.Store) *PageHandler {
	return &PageHandler{sessions: sessions}
}

// Index redirects / to the task view or the login page. It renders nothing.
func (h *PageHandler) Index(c *gin.Context) {
	if _, ok := auth.CurrentSession(c, h.sessions); ok {
		c.Redirect(http.StatusFound, todoPath)
		return
	}
	c.Redirect(http.StatusFound, auth.LoginPath)
}

// Login serves the login page, or the task view if already signed in.
func (h *PageHandler) Login(c *gin.Context) {
	if _, ok := auth.CurrentSession(c, h.sessions); ok {
		c.Redirect(http.StatusFound, todoPath)
		return
	}
	c.HTML(http.StatusOK, "login.html", nil)
}

// Register serves the registration page, or the task view if already signed in.
func (h *PageHandler) Register(c *gin.Context) {
	if _, ok := auth.CurrentSession(c, h.sessions); ok {
		c.Redirect(http.StatusFound, todoPath)
		return
	}
	c.HTML(http.StatusOK, "register.html", nil)
}

// Todo serves the task view. Runs behind RequireSession in redirect mode.
func (h *PageHandler) Todo(c *gin.Context) {
	sess, _ := auth.SessionFromContext(c)
	c.HTML(http.StatusOK, "index.html", gin.H{"Username": sess.Username})
}
