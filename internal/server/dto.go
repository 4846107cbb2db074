package server

import (
	"time"

	"github.com/gurkanbulca/boardmaster/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Surname *string `json:"surname" binding:"omitempty,min=1,max=100"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=2000"`
}

type updateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status" binding:"omitempty,oneof=ACTIVE ARCHIVED"`
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=160"`
	Description string     `json:"description" binding:"max=4000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Order       *int       `json:"order"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *string    `json:"assigneeId"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=160"`
	Description *string    `json:"description" binding:"omitempty,max=4000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Order       *int       `json:"order"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *string    `json:"assigneeId"`
}

// identityResponse is the caller identity payload returned by the auth and
// profile endpoints.
type identityResponse struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Surname string   `json:"surname"`
	Roles   []string `json:"roles"`
}

func toIdentity(u *models.User) identityResponse {
	return identityResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Surname: u.Surname,
		Roles:   u.RoleList(),
	}
}
