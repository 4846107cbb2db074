package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/internal/service"
)

// handleUpdateProfile applies a partial name/surname patch to the caller.
func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	me := currentUser(c)
	user, err := s.users.UpdateProfile(c.Request.Context(), me.ID, service.ProfileUpdate{
		Name:    req.Name,
		Surname: req.Surname,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIdentity(user))
}

// handleChangePassword replaces the caller's password after verifying the
// current one.
func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	me := currentUser(c)
	if err := s.users.ChangePassword(c.Request.Context(), me.ID, req.CurrentPassword, req.NewPassword); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
