package handlers

import (
	"errors"
	"net/http"

	"github.com/falbue/todo-denzl/internal/auth"
	"github.com/falbue/todo-denzl/internal/dto"
	"github.com/falbue/todo-denzl/internal/service"

	"github.com/gin-gonic/gin"
)

const sessionMaxAgeSeconds = 24 * 60 * 60

// AuthHandler handles register, login and logout.
type AuthHandler struct {
	sessions auth.Store
	userSvc  *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(sessions auth.Store, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc}
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		// Validation and conflict failures both answer 400.
		if isRegistrationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if !h.openSession(c, auth.Session{UserID: user.ID, Username: user.Username}) {
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{Message: "registration successful", Username: user.Username})
}

// Login godoc
// @Summary      Login with username or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !h.openSession(c, auth.Session{UserID: user.ID, Username: user.Username}) {
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{Message: "login successful", Username: user.Username})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Idempotent: clearing an absent session is fine.
	if sessionID, err := c.Cookie(auth.SessionCookieName); err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *AuthHandler) openSession(c *gin.Context, sess auth.Session) bool {
	sessionID, err := h.sessions.Create(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return false
	}
	c.SetCookie(auth.SessionCookieName, sessionID, sessionMaxAgeSeconds, "/", "", false, true) // 24h, httpOnly
	return true
}

func isRegistrationError(err error) bool {
	return errors.Is(err, service.ErrFieldsRequired) ||
		errors.Is(err, service.ErrUsernameTooShort) ||
		errors.Is(err, service.ErrUsernameTooLong) ||
		errors.Is(err, service.ErrPasswordTooShort) ||
		errors.Is(err, service.ErrInvalidEmail) ||
		errors.Is(err, service.ErrUserExists)
}
