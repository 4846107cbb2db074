// internal/repository/project_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/boardmaster/internal/models"
)

// ProjectListOptions controls sorting and pagination of project listings.
// SortField uses the API field names; unknown fields fall back to updatedAt.
type ProjectListOptions struct {
	SortField  string
	Descending bool
	Limit      int
	Offset     int
}

var projectSortColumns = map[string]string{
	"title":     "title",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := r.db.Rebind(`INSERT INTO projects
		(id, owner_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Description, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByIDAndOwner resolves a project through a single combined filter so a
// missing project and a foreign-owned project are indistinguishable to the
// caller. Returns sql.ErrNoRows when no row matches.
func (r *ProjectRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Project, error) {
	var p models.Project
	query := r.db.Rebind(`SELECT * FROM projects WHERE id = ? AND owner_id = ?`)
	if err := r.db.GetContext(ctx, &p, query, id, ownerID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, ownerID, status string, opts ProjectListOptions) ([]models.Project, error) {
	column, ok := projectSortColumns[opts.SortField]
	if !ok {
		column = "updated_at"
	}
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	query := r.db.Rebind(fmt.Sprintf(
		`SELECT * FROM projects WHERE owner_id = ? AND status = ? ORDER BY %s %s LIMIT ? OFFSET ?`,
		column, direction))

	projects := []models.Project{}
	if err := r.db.SelectContext(ctx, &projects, query, ownerID, status, opts.Limit, opts.Offset); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Count(ctx context.Context, ownerID, status string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM projects WHERE owner_id = ? AND status = ?`)
	if err := r.db.GetContext(ctx, &count, query, ownerID, status); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	query := r.db.Rebind(`UPDATE projects
		SET title = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?`)

	_, err := r.db.ExecContext(ctx, query, p.Title, p.Description, p.Status, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM projects WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
