package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/internal/models"
	"github.com/gurkanbulca/boardmaster/internal/repository"
	"github.com/gurkanbulca/boardmaster/internal/service"
	"github.com/gurkanbulca/boardmaster/pkg/apperror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// handleListProjects returns one page of the caller's projects, filtered by
// status (default ACTIVE), sorted by "field,DIR" (default updatedAt,DESC).
func (s *Server) handleListProjects(c *gin.Context) {
	me := currentUser(c)

	status := c.DefaultQuery("status", models.ProjectStatusActive)
	if !models.ValidProjectStatus(status) {
		s.respondError(c, apperror.Validation("unknown project status: "+status))
		return
	}

	page, err := parseNonNegative(c.DefaultQuery("page", "0"))
	if err != nil {
		s.respondError(c, apperror.Validation("page must be a non-negative integer"))
		return
	}
	size, err := parseNonNegative(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size == 0 {
		s.respondError(c, apperror.Validation("size must be a positive integer"))
		return
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	sortField, descending := parseSort(c.DefaultQuery("sort", "updatedAt,DESC"))

	result, err := s.projects.List(c.Request.Context(), me.ID, status, repository.ProjectListOptions{
		SortField:  sortField,
		Descending: descending,
		Limit:      size,
		Offset:     page * size,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleCreateProject opens a new active project for the caller.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	me := currentUser(c)
	project, err := s.projects.Create(c.Request.Context(), me.ID, req.Title, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	me := currentUser(c)

	project, err := s.projects.Get(c.Request.Context(), me.ID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	me := currentUser(c)
	project, err := s.projects.Update(c.Request.Context(), me.ID, c.Param("id"), service.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// handleDeleteProject hard-deletes a project and its tasks. The cascade is
// irreversible, so it only runs with an explicit force indicator.
func (s *Server) handleDeleteProject(c *gin.Context) {
	if c.Query("force") != "true" {
		s.respondError(c, apperror.Conflict(apperror.CodeForceRequired,
			"Deleting a project removes all of its tasks; pass force=true to confirm"))
		return
	}

	me := currentUser(c)
	if err := s.projects.HardDelete(c.Request.Context(), me.ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseNonNegative(raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

// parseSort splits a "field,DIR" sort parameter. Anything that is not an
// explicit ASC falls back to descending.
func parseSort(raw string) (field string, descending bool) {
	parts := strings.Split(raw, ",")
	field = strings.TrimSpace(parts[0])
	descending = true
	if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "ASC") {
		descending = false
	}
	return field, descending
}
