package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	dom "github.com/falbue/todo-denzl/internal/domain"
	"github.com/falbue/todo-denzl/internal/repo"
	"github.com/falbue/todo-denzl/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrFieldsRequired     = errors.New("username, email and password are required")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong    = errors.New("username is too long (max 50 characters)")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUserExists         = errors.New("user with this username or email already exists")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

// UserService handles registration and credential checks.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register validates the fields, rejects duplicates and creates the user
// with a bcrypt hash. Username is matched exactly; email uniqueness is
// checked case-insensitively against the stored value at this point only.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return dom.User{}, ErrFieldsRequired
	}
	if utf8.RuneCountInString(username) < minUsernameLen {
		return dom.User{}, ErrUsernameTooShort
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return dom.User{}, ErrUsernameTooLong
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return dom.User{}, ErrPasswordTooShort
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return dom.User{}, ErrInvalidEmail
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return dom.User{}, err
	}
	if taken {
		return dom.User{}, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		// Backstop for a concurrent registration racing past the check.
		if utils.IsUniqueViolation(err) {
			return dom.User{}, ErrUserExists
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks the identifier (username exact, or email as
// lowercased exact match) and password. Unknown identifier and wrong
// password report the same error on purpose.
func (s *UserService) ValidateCredentials(ctx context.Context, identifier, password string) (dom.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return dom.User{}, ErrMissingCredentials
	}
	u, err := s.repo.GetByUsernameOrEmail(ctx, identifier, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}
