package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/falbue/todo-denzl/internal/cache"
	dom "github.com/falbue/todo-denzl/internal/domain"
	"github.com/falbue/todo-denzl/internal/repo"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound           = errors.New("task not found")
	ErrTitleRequired      = errors.New("task title is required")
	ErrTitleTooLong       = errors.New("title is too long (max 200 characters)")
	ErrDescriptionTooLong = errors.New("description is too long (max 1000 characters)")
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

func validateFields(title, desc string) (string, string, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if title == "" {
		return "", "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", "", ErrTitleTooLong
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return "", "", ErrDescriptionTooLong
	}
	return title, desc, nil
}

// Create stores a new task for the user. Status always starts pending.
func (s *TaskService) Create(ctx context.Context, userID int64, title, desc string) (dom.Task, error) {
	title, desc, err := validateFields(title, desc)
	if err != nil {
		return dom.Task{}, err
	}
	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: desc,
		Status:      dom.StatusPending,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's tasks in the requested order, serving from cache
// when possible.
func (s *TaskService) List(ctx context.Context, userID int64, field repo.SortField, order repo.SortOrder) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.List(ctx, userID, field, order)
	}
	key := fmt.Sprintf("list:%d:%s:%s", userID, field, order)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID, field, order); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx, userID, field, order)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, field, order, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// Update replaces title, description and status. An unknown status is
// coerced to pending rather than rejected.
func (s *TaskService) Update(ctx context.Context, userID, id int64, title, desc string, status dom.Status) (dom.Task, error) {
	title, desc, err := validateFields(title, desc)
	if err != nil {
		return dom.Task{}, err
	}
	if !status.Valid() {
		status = dom.StatusPending
	}
	t, err := s.repo.Update(ctx, userID, id, dom.Task{
		Title:       title,
		Description: desc,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// ToggleStatus flips pending <-> completed.
func (s *TaskService) ToggleStatus(ctx context.Context, userID, id int64) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	t, err := s.repo.SetStatus(ctx, userID, id, existing.Status.Toggled())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete hard-deletes the task. A row owned by another user reports
// ErrNotFound, same as a missing row.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
