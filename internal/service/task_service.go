package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskflow/internal/cache"
	"taskflow/internal/domain"
	"taskflow/internal/repo"
	"taskflow/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrForbidden       = errors.New("task belongs to another user")
	ErrTaskDeleted     = errors.New("cannot update a deleted task")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrConflict        = errors.New("task id already exists")
)

// CreateTaskInput carries the validated create fields. Empty Priority means
// the default (medium).
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
}

// UpdateTaskInput carries a partial update. nil = leave unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.Status
	Priority    *domain.Priority
}

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create persists a new task for userID with status pending and, unless set,
// priority medium. Nothing is written when validation fails.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Task{}, ErrEmptyTitle
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Task{}, ErrInvalidPriority
	}

	now := time.Now().UTC()
	t, err := s.repo.Create(ctx, domain.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.StatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return domain.Task{}, ErrConflict
		}
		return domain.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns userID's tasks, newest first, never including deleted ones.
// Unfiltered listings go through the cache.
func (s *TaskService) List(ctx context.Context, userID string, f repo.TaskFilter) ([]domain.Task, error) {
	if f.Status != nil && !f.Status.UpdatableByClient() {
		return nil, ErrInvalidStatus
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if s.cache != nil && f.Empty() {
		key := "list:" + userID
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByUser(ctx, userID, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Task), nil
	}
	return s.repo.ListByUser(ctx, userID, f)
}

// Get returns the task with id if it belongs to userID. A missing row is
// ErrNotFound; a row owned by someone else is ErrForbidden. Soft-deleted
// tasks are still returned here; only listings hide them.
func (s *TaskService) Get(ctx context.Context, userID, id string) (domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	if t.UserID != userID {
		return domain.Task{}, ErrForbidden
	}
	return t, nil
}

// Update applies the non-nil fields of in to userID's task. Updating a
// deleted task fails with ErrTaskDeleted.
func (s *TaskService) Update(ctx context.Context, userID, id string, in UpdateTaskInput) (domain.Task, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Task{}, err
	}
	if existing.Deleted() {
		return domain.Task{}, ErrTaskDeleted
	}
	patch := existing
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.Task{}, ErrEmptyTitle
		}
		patch.Title = title
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.UpdatableByClient() {
			return domain.Task{}, ErrInvalidStatus
		}
		patch.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return domain.Task{}, ErrInvalidPriority
		}
		patch.Priority = *in.Priority
	}
	patch.UpdatedAt = time.Now().UTC()

	t, err := s.repo.Update(ctx, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete soft-deletes userID's task. Deleting an already deleted task
// succeeds without touching the row.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.Deleted() {
		return nil
	}
	if err := s.repo.SoftDelete(ctx, id, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// Search matches q against title and description of userID's tasks.
// An empty query returns an empty result.
func (s *TaskService) Search(ctx context.Context, userID, q string) ([]domain.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if s.cache != nil {
		key := "search:" + userID + ":" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, userID, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.SearchByUser(ctx, userID, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, userID, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Task), nil
	}
	return s.repo.SearchByUser(ctx, userID, q)
}

func (s *TaskService) invalidateCache(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
