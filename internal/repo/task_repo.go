package repo

import (
	"context"
	"database/sql"

	dom "github.com/falbue/todo-denzl/internal/domain"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, field SortField, order SortOrder) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	SetStatus(ctx context.Context, userID, id int64, status dom.Status) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

// Every query is scoped by user_id: a row owned by someone else scans the
// same as a missing row.
type SQLiteTaskRepo struct {
	db *sql.DB
}

func NewSQLiteTaskRepo(db *sql.DB) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status) VALUES (?, ?, ?, ?)`,
		t.UserID, t.Title, t.Description, t.Status,
	)
	if err != nil {
		return dom.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return dom.Task{}, err
	}
	return r.GetByID(ctx, t.UserID, id)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	var t dom.Task
	err := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *SQLiteTaskRepo) List(ctx context.Context, userID int64, field SortField, order SortOrder) ([]dom.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? `+orderBy(field, order),
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		patch.Title, patch.Description, patch.Status, id, userID,
	)
	if err != nil {
		return dom.Task{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dom.Task{}, err
	}
	if n == 0 {
		return dom.Task{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, userID, id)
}

func (r *SQLiteTaskRepo) SetStatus(ctx context.Context, userID, id int64, status dom.Status) (dom.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		status, id, userID,
	)
	if err != nil {
		return dom.Task{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dom.Task{}, err
	}
	if n == 0 {
		return dom.Task{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, userID, id)
}

// Delete hard-deletes the row. Returns false when nothing matched.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
