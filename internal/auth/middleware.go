package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "session_id"

const contextKeySession = "auth.session"

// LoginPath is where unauthenticated browser requests are sent.
const LoginPath = "/login"

// SessionFromContext returns the session set by the guard middleware.
func SessionFromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

// UserIDFromContext returns the current user ID set by the guard. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	sess, ok := SessionFromContext(c)
	if !ok {
		return 0
	}
	return sess.UserID
}

// CurrentSession resolves the session from the request cookie without
// rejecting: page handlers use it to decide where to redirect.
func CurrentSession(c *gin.Context, store Store) (Session, bool) {
	id, err := c.Cookie(SessionCookieName)
	if err != nil || id == "" {
		return Session{}, false
	}
	return store.Get(c.Request.Context(), id)
}

// RequireSession returns a middleware that checks for a valid session cookie
// and sets the session in context. The same backend serves JSON clients and
// browser navigation, so rejection is dual-mode: API callers get a 401 with
// a redirect hint, everyone else gets a 302 to the login page.
func RequireSession(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c, store)
		if !ok {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":    "authorization required",
					"redirect": LoginPath,
				})
				return
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(contextKeySession, sess)
		c.Next()
	}
}

// wantsJSON reports whether the caller expects a JSON response: anything
// under /api, or a request that declares JSON in Accept or Content-Type.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.Contains(c.ContentType(), "application/json")
}
