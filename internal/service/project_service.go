// internal/service/project_service.go
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

// ProjectUpdate carries a partial project patch; nil fields are left as-is.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

// ProjectPage is one page of a project listing.
type ProjectPage struct {
	Projects []models.Project `json:"projects"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	Total    int              `json:"total"`
}

// ProjectService enforces per-owner isolation and the ACTIVE/ARCHIVED
// lifecycle, and owns the cascading hard delete.
type ProjectService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
}

func NewProjectService(projects *repository.ProjectRepository, tasks *repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
	}
}

// RequireOwned resolves the project through a combined id+owner filter.
// A project that does not exist and a project owned by someone else produce
// the same NotFound, so existence cannot be probed.
func (s *ProjectService) RequireOwned(ctx context.Context, ownerID, projectID string) (*models.Project, error) {
	project, err := s.projects.GetByIDAndOwner(ctx, projectID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, projectNotFound()
		}
		return nil, apperror.Internal(err)
	}
	return project, nil
}

// List returns one page of the owner's projects with the given status.
func (s *ProjectService) List(ctx context.Context, ownerID, status string, opts repository.ProjectListOptions) (*ProjectPage, error) {
	projects, err := s.projects.List(ctx, ownerID, status, opts)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	total, err := s.projects.Count(ctx, ownerID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	page := 0
	if opts.Limit > 0 {
		page = opts.Offset / opts.Limit
	}
	return &ProjectPage{
		Projects: projects,
		Page:     page,
		Size:     opts.Limit,
		Total:    total,
	}, nil
}

// Create opens a new ACTIVE project for the owner.
func (s *ProjectService) Create(ctx context.Context, ownerID, title, description string) (*models.Project, error) {
	now := time.Now().UTC()
	project := &models.Project{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      models.ProjectStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperror.Internal(err)
	}
	return project, nil
}

// Get returns an owned project.
func (s *ProjectService) Get(ctx context.Context, ownerID, projectID string) (*models.Project, error) {
	return s.RequireOwned(ctx, ownerID, projectID)
}

// Update applies a partial patch under the lifecycle guard: an archived
// project rejects every edit unless the same request flips status to ACTIVE.
// The status change is applied first, then the guard is re-evaluated against
// the new status, then the remaining field edits.
func (s *ProjectService) Update(ctx context.Context, ownerID, projectID string, patch ProjectUpdate) (*models.Project, error) {
	project, err := s.RequireOwned(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	wasArchived := project.Status == models.ProjectStatusArchived
	wantsUnarchive := patch.Status != nil && *patch.Status == models.ProjectStatusActive

	if wasArchived && !wantsUnarchive {
		return nil, projectReadOnly()
	}

	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Title != nil {
		project.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		project.Description = strings.TrimSpace(*patch.Description)
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperror.Internal(err)
	}
	return project, nil
}

// HardDelete removes a project and every task under it. The store has no
// cross-table transactions, so this is a two-step saga: tasks go first, and
// the project is only removed once its tasks are gone. A failure in between
// leaves an empty project behind, never orphaned tasks.
func (s *ProjectService) HardDelete(ctx context.Context, ownerID, projectID string) error {
	project, err := s.RequireOwned(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	if err := s.tasks.DeleteByProject(ctx, project.ID); err != nil {
		return apperror.Internal(err)
	}
	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// EnsureNotArchived rejects mutations under an archived project.
func (s *ProjectService) EnsureNotArchived(project *models.Project) error {
	if project.Status == models.ProjectStatusArchived {
		return projectReadOnly()
	}
	return nil
}

func projectNotFound() error {
	return apperror.NotFound(apperror.CodeProjectNotFound, "Project not found")
}

func projectReadOnly() error {
	return apperror.Conflict(apperror.CodeProjectReadOnly, "Archived projects are read-only")
}
