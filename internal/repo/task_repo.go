package repo

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskFilter narrows a listing. Nil fields mean no constraint.
type TaskFilter struct {
	Status   *domain.Status
	Priority *domain.Priority
}

// Empty reports whether the filter imposes no constraint.
func (f TaskFilter) Empty() bool { return f.Status == nil && f.Priority == nil }

type TaskRepo interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	// GetByID fetches a single row regardless of owner or status. The
	// service layer owns the 403/404 decision, so no user predicate here.
	GetByID(ctx context.Context, id string) (domain.Task, error)
	ListByUser(ctx context.Context, userID string, f TaskFilter) ([]domain.Task, error)
	SearchByUser(ctx context.Context, userID, q string) ([]domain.Task, error)
	// Update and SoftDelete carry the user id in the WHERE clause even
	// though the service has already checked ownership.
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	SoftDelete(ctx context.Context, id, userID string, at time.Time) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = "id, user_id, title, description, status, priority, created_at, updated_at"

func (r *PGTaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns
	var out domain.Task
	err := r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Status, &out.Priority,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id string) (domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	var t domain.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) ListByUser(ctx context.Context, userID string, f TaskFilter) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 AND status <> 'deleted'`
	args := []any{userID}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) SearchByUser(ctx context.Context, userID, q string) ([]domain.Task, error) {
	pattern := "%" + q + "%"
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status <> 'deleted' AND (title ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, status = $5, priority = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	var out domain.Task
	err := r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.UpdatedAt,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Status, &out.Priority,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) SoftDelete(ctx context.Context, id, userID string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = 'deleted', updated_at = $3 WHERE id = $1 AND user_id = $2`,
		id, userID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
