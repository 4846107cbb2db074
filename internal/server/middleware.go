package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/pkg/apperror"
	"github.com/gurkanbulca/boardmaster/pkg/auth"
)

const principalKey = "principal"

// Principal is the authenticated caller identity derived from the access
// cookie.
type Principal struct {
	ID    string
	Email string
}

// requestLogger records method, path, status, duration, and client info for
// every request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// requireAuth authenticates the request from the access cookie. The token
// must parse and carry the access type claim; a refresh token presented here
// is well-signed but still rejected.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.AccessCookieName)
		if err != nil || token == "" {
			s.abortError(c, apperror.Unauthorized(apperror.CodeNotAuthenticated, "Not authenticated"))
			return
		}

		claims, err := s.tokens.Parse(token)
		if err != nil {
			s.abortError(c, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid or expired token"))
			return
		}
		if claims.Type != auth.TokenTypeAccess {
			s.abortError(c, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid or expired token"))
			return
		}

		c.Set(principalKey, Principal{ID: claims.Subject, Email: claims.Email})
		c.Next()
	}
}

// currentUser returns the authenticated principal set by requireAuth.
func currentUser(c *gin.Context) Principal {
	p, _ := c.Get(principalKey)
	principal, _ := p.(Principal)
	return principal
}
