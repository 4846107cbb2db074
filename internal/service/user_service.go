// internal/service/user_service.go
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
	"github.com/gurkanbulca/boardmaster/pkg/auth"
)

const defaultRole = "USER"

// ProfileUpdate carries a partial profile patch; nil fields are left as-is.
type ProfileUpdate struct {
	Name    *string
	Surname *string
}

// UserService owns registration, authentication, and profile mutations.
type UserService struct {
	users           *repository.UserRepository
	passwordManager *auth.PasswordManager
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{
		users:           users,
		passwordManager: auth.NewPasswordManager(),
	}
}

// Register creates a new account. The email is trimmed and case-folded
// before both the uniqueness check and storage.
func (s *UserService) Register(ctx context.Context, email, name, surname, rawPassword string) (*models.User, error) {
	email = foldEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict(apperror.CodeEmailTaken, "Email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal(err)
	}

	hash, err := s.passwordManager.HashPassword(rawPassword)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Surname:      surname,
		Roles:        defaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password fail
// with the same error so callers cannot probe which one it was.
func (s *UserService) Authenticate(ctx context.Context, email, rawPassword string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, foldEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidCredentials()
		}
		return nil, apperror.Internal(err)
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, rawPassword); err != nil {
		return nil, invalidCredentials()
	}
	return user, nil
}

// Get returns the user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// UpdateProfile applies a partial name/surname patch, trimming whitespace.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Surname != nil {
		user.Surname = strings.TrimSpace(*patch.Surname)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password. A wrong current password fails the same way a bad login does.
func (s *UserService) ChangePassword(ctx context.Context, id, currentRaw, newRaw string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, currentRaw); err != nil {
		return invalidCredentials()
	}

	hash, err := s.passwordManager.HashPassword(newRaw)
	if err != nil {
		return apperror.Validation(err.Error())
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return apperror.Unauthorized(apperror.CodeInvalidCreds, "Invalid credentials")
}
