package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/pkg/apperror"
	"github.com/gurkanbulca/boardmaster/pkg/auth"
)

// handleRegister creates a new account. No session is issued; the client
// logs in afterwards.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Name, req.Surname, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIdentity(user))
}

// handleLogin authenticates and sets the access/refresh cookie pair.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, bindError(err))
		return
	}

	user, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.setSessionCookies(c, user.ID, user.Email); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIdentity(user))
}

// handleRefresh rotates the session pair from the refresh cookie. The token
// must carry the refresh type claim; a well-signed access token is rejected.
func (s *Server) handleRefresh(c *gin.Context) {
	token, err := c.Cookie(auth.RefreshCookieName)
	if err != nil || token == "" {
		s.respondError(c, apperror.Unauthorized(apperror.CodeNotAuthenticated, "Missing refresh token"))
		return
	}

	claims, err := s.tokens.Parse(token)
	if err != nil || claims.Type != auth.TokenTypeRefresh {
		s.respondError(c, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid refresh token"))
		return
	}

	user, err := s.users.Get(c.Request.Context(), claims.Subject)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.setSessionCookies(c, user.ID, user.Email); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIdentity(user))
}

// handleLogout clears both session cookies.
func (s *Server) handleLogout(c *gin.Context) {
	http.SetCookie(c.Writer, s.cookies.ClearAccess())
	http.SetCookie(c.Writer, s.cookies.ClearRefresh())
	c.Status(http.StatusNoContent)
}

// handleMe returns the authenticated caller identity.
func (s *Server) handleMe(c *gin.Context) {
	me := currentUser(c)

	user, err := s.users.Get(c.Request.Context(), me.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIdentity(user))
}

func (s *Server) setSessionCookies(c *gin.Context, userID, email string) error {
	access, err := s.tokens.IssueAccess(userID, email)
	if err != nil {
		return apperror.Internal(err)
	}
	refresh, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return apperror.Internal(err)
	}

	http.SetCookie(c.Writer, s.cookies.Access(access))
	http.SetCookie(c.Writer, s.cookies.Refresh(refresh))
	return nil
}
