// internal/service/task_service.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/boardmaster/internal/models"
	"github.com/gurkanbulca/boardmaster/internal/repository"
	"github.com/gurkanbulca/boardmaster/pkg/apperror"
)

// OrderGap is the spacing between appended tasks. With a gap of 100 up to 99
// manual insertions fit between two neighbors before values collide;
// collisions are tolerated, not auto-resolved.
const OrderGap = 100

// TaskDraft describes a task to create. Status, Order, and Priority are
// optional; omitted values are resolved by the ordering engine.
type TaskDraft struct {
	Title       string
	Description string
	Status      *string
	Order       *int
	Priority    *string
	DueDate     *time.Time
	AssigneeID  *string
}

// TaskPatch carries a partial task update; nil fields are left as-is.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Order       *int
	Priority    *string
	DueDate     *time.Time
	AssigneeID  *string
}

// TaskService is the ordering engine: it computes stable sparse positions
// within (project, status) partitions and enforces the archived guard before
// every mutation. Authorization always runs through the project owner check
// first.
type TaskService struct {
	tasks    *repository.TaskRepository
	projects *ProjectService
}

func NewTaskService(tasks *repository.TaskRepository, projects *ProjectService) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
	}
}

// List returns one column of an owned project, sorted by board order.
// Listing is allowed regardless of the project's lifecycle status.
func (s *TaskService) List(ctx context.Context, ownerID, projectID, status string) ([]models.Task, error) {
	if _, err := s.projects.RequireOwned(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListPartition(ctx, projectID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return tasks, nil
}

// Create adds a task to a column. An explicit order is used verbatim; the
// caller accepts responsibility for placement. Otherwise the task is
// appended at max(order in partition) + gap, seeding empty partitions at the
// gap value.
func (s *TaskService) Create(ctx context.Context, ownerID, projectID string, draft TaskDraft) (*models.Task, error) {
	project, err := s.projects.RequireOwned(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.projects.EnsureNotArchived(project); err != nil {
		return nil, err
	}

	status := models.TaskStatusTodo
	if draft.Status != nil {
		status = *draft.Status
	}

	var order int
	if draft.Order != nil {
		order = *draft.Order
	} else {
		order, err = s.nextOrder(ctx, project.ID, status)
		if err != nil {
			return nil, err
		}
	}

	priority := models.PriorityMedium
	if draft.Priority != nil {
		priority = *draft.Priority
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New().String(),
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		Status:      status,
		Order:       order,
		Priority:    priority,
		DueDate:     draft.DueDate,
		AssigneeID:  draft.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperror.Internal(err)
	}
	return task, nil
}

// Update applies a partial patch. Order resolution:
//   - an explicit order wins verbatim, whether or not the column changed;
//   - a column change without an explicit order appends to the end of the
//     destination column;
//   - otherwise the order stays untouched.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch TaskPatch) (*models.Task, error) {
	task, project, err := s.requireOwnedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.projects.EnsureNotArchived(project); err != nil {
		return nil, err
	}

	currentStatus := task.Status
	newStatus := currentStatus
	if patch.Status != nil {
		newStatus = *patch.Status
		task.Status = newStatus
	}

	switch {
	case patch.Order != nil:
		task.Order = *patch.Order
	case newStatus != currentStatus:
		order, err := s.nextOrder(ctx, task.ProjectID, newStatus)
		if err != nil {
			return nil, err
		}
		task.Order = order
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.AssigneeID != nil {
		task.AssigneeID = patch.AssigneeID
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperror.Internal(err)
	}
	return task, nil
}

// Delete removes a task. There is no archived guard here: removal cannot
// corrupt a read-only board the way an edit could.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	task, _, err := s.requireOwnedTask(ctx, ownerID, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// requireOwnedTask resolves the task by id, then authorizes through its
// project. Task identity is global; authorization is always mediated by
// project ownership.
func (s *TaskService) requireOwnedTask(ctx context.Context, ownerID, taskID string) (*models.Task, *models.Project, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperror.NotFound(apperror.CodeTaskNotFound, "Task not found")
		}
		return nil, nil, apperror.Internal(err)
	}

	project, err := s.projects.RequireOwned(ctx, ownerID, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

// nextOrder computes the tail position of a partition. Two concurrent
// appends can read the same max and produce duplicate orders; listing
// tie-breaks keep the sequence deterministic.
func (s *TaskService) nextOrder(ctx context.Context, projectID, status string) (int, error) {
	max, err := s.tasks.MaxOrder(ctx, projectID, status)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return max + OrderGap, nil
}
