package repo

import (
	"context"
	"database/sql"

	dom "github.com/falbue/todo-denzl/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, username, email, passwordHash string) (dom.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (dom.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// SQLiteUserRepo implements UserRepo with sqlite.
type SQLiteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo returns a new SQLiteUserRepo.
func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

// Create inserts a new user and returns it.
func (r *SQLiteUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash,
	)
	if err != nil {
		return dom.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return dom.User{}, err
	}
	return r.getByID(ctx, id)
}

// GetByUsernameOrEmail returns the user whose username matches exactly or
// whose email matches the (already lowercased) email argument exactly.
func (r *SQLiteUserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE username = ? OR email = ?`,
		username, email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// ExistsByUsernameOrEmail reports whether a user already claims the username
// (exact) or the email. Email is compared case-insensitively here, and only
// here: the stored value keeps its case.
func (r *SQLiteUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ? OR LOWER(email) = LOWER(?)`,
		username, email,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteUserRepo) getByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
