package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/boardmaster/internal/service"
	"github.com/gurkanbulca/boardmaster/pkg/auth"
)

// Server provides the HTTP surface of the task board: the cookie-based auth
// endpoints under /auth and the board API under /api.
type Server struct {
	engine   *gin.Engine
	logger   *slog.Logger
	users    *service.UserService
	projects *service.ProjectService
	tasks    *service.TaskService
	tokens   *auth.TokenManager
	cookies  *auth.CookieManager
}

// New constructs the HTTP server with routes and middleware configured.
func New(
	users *service.UserService,
	projects *service.ProjectService,
	tasks *service.TaskService,
	tokens *auth.TokenManager,
	cookies *auth.CookieManager,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:   router,
		logger:   logger,
		users:    users,
		projects: projects,
		tasks:    tasks,
		tokens:   tokens,
		cookies:  cookies,
	}

	router.Use(srv.requestLogger())
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the auth and board surfaces together. Everything
// under /api requires a valid access cookie.
func (s *Server) registerRoutes() {
	authGroup := s.engine.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/refresh", s.handleRefresh)
		authGroup.POST("/logout", s.handleLogout)
		authGroup.GET("/me", s.requireAuth(), s.handleMe)
	}

	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		authed := api.Group("", s.requireAuth())
		{
			authed.GET("/projects", s.handleListProjects)
			authed.POST("/projects", s.handleCreateProject)
			authed.GET("/projects/:id", s.handleGetProject)
			authed.PUT("/projects/:id", s.handleUpdateProject)
			authed.DELETE("/projects/:id", s.handleDeleteProject)

			authed.GET("/projects/:id/tasks", s.handleListTasks)
			authed.POST("/projects/:id/tasks", s.handleCreateTask)
			authed.PUT("/tasks/:id", s.handleUpdateTask)
			authed.DELETE("/tasks/:id", s.handleDeleteTask)

			authed.PUT("/me", s.handleUpdateProfile)
			authed.PUT("/me/password", s.handleChangePassword)
		}
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
