package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/internal/models"
	"github.com/gurkanbulca/boardmaster/internal/service"
	"github.com/gurkanbulca/boardmaster/pkg/apperror"
)

// handleListTasks returns one column of a project. The status parameter is
// required: omitting it is a client error, not a default-to-all.
func (s *Server) handleListTasks(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		s.respondError(c, apperror.Validation("status query parameter is required"))
		return
	}
	if !models.ValidTaskStatus(status) {
		s.respondError(c, apperror.Validation("unknown task status: "+status))
		return
	}

	me := currentUser(c)
	tasks, err := s.tasks.List(c.Request.Context(), me.ID, c.Param("id"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	me := currentUser(c)
	task, err := s.tasks.Create(c.Request.Context(), me.ID, c.Param("id"), service.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Order:       req.Order,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	me := currentUser(c)
	task, err := s.tasks.Update(c.Request.Context(), me.ID, c.Param("id"), service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Order:       req.Order,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	me := currentUser(c)

	if err := s.tasks.Delete(c.Request.Context(), me.ID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
