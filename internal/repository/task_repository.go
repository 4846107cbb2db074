// internal/repository/task_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/boardmaster/internal/models"
)

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	query := r.db.Rebind(`INSERT INTO tasks
		(id, project_id, title, description, status, sort_order, priority, due_date, assignee_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Order, t.Priority,
		t.DueDate, t.AssigneeID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID looks a task up by id alone; ownership is always resolved through
// the task's project afterwards. Returns sql.ErrNoRows when absent.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	query := r.db.Rebind(`SELECT * FROM tasks WHERE id = ?`)
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListPartition returns all tasks of one (project, status) column in board
// order. Duplicate sort_order values are possible under concurrent appends;
// created_at and id keep the sequence deterministic.
func (r *TaskRepository) ListPartition(ctx context.Context, projectID, status string) ([]models.Task, error) {
	tasks := []models.Task{}
	query := r.db.Rebind(`SELECT * FROM tasks
		WHERE project_id = ? AND status = ?
		ORDER BY sort_order ASC, created_at ASC, id ASC`)

	if err := r.db.SelectContext(ctx, &tasks, query, projectID, status); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// MaxOrder returns the highest sort_order inside a partition, or 0 when the
// partition is empty.
func (r *TaskRepository) MaxOrder(ctx context.Context, projectID, status string) (int, error) {
	var max int
	query := r.db.Rebind(`SELECT COALESCE(MAX(sort_order), 0) FROM tasks
		WHERE project_id = ? AND status = ?`)

	if err := r.db.GetContext(ctx, &max, query, projectID, status); err != nil {
		return 0, fmt.Errorf("max order: %w", err)
	}
	return max, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	query := r.db.Rebind(`UPDATE tasks
		SET title = ?, description = ?, status = ?, sort_order = ?, priority = ?,
		    due_date = ?, assignee_id = ?, updated_at = ?
		WHERE id = ?`)

	_, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Status, t.Order, t.Priority,
		t.DueDate, t.AssigneeID, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM tasks WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteByProject removes every task under a project. Deleting an already
// empty set is a no-op, so retries are safe.
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) error {
	query := r.db.Rebind(`DELETE FROM tasks WHERE project_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	return nil
}
