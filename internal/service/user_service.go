package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaidashi/backoffice-api/internal/auth"
	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

// UserSearchFields are matched by the list search term
var UserSearchFields = []string{"name", "email", "phone"}

// CreateUserInput is an account created directly by a super admin
type CreateUserInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

// UserService manages administrator accounts
type UserService struct {
	Dependencies
	hasher *auth.PasswordHasher
}

// NewUserService creates a new UserService
func NewUserService(deps Dependencies, hasher *auth.PasswordHasher) *UserService {
	return &UserService{Dependencies: deps, hasher: hasher}
}

func (s *UserService) List(ctx context.Context, opts query.Options) (query.Page[models.User], error) {
	var users []models.User
	_ = s.Store.View(func(d *store.Dataset) error {
		users = make([]models.User, len(d.Users))
		for i, u := range d.Users {
			users[i] = *u
		}
		return nil
	})
	return query.Apply(users, opts), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.Store.View(func(d *store.Dataset) error {
		u, err := findUser(d, id)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create adds an ACTIVE account approved today
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	v := &validator{}
	v.required(in.Name, "name")
	v.email(in.Email, "email")
	v.check(len(in.Password) >= auth.MinPasswordLength, "password",
		fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	v.check(in.Role.Valid(), "role", "invalid role")
	if err := v.err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.Logger.Error("Failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to create user")
	}

	var created models.User
	err = s.Store.Update(func(d *store.Dataset) error {
		if d.UserEmailTaken(in.Email, "") {
			return errors.NewDuplicateEmailError()
		}
		today := s.today()
		u := &models.User{
			ID:         nextUserID(d),
			Name:       in.Name,
			Email:      in.Email,
			Password:   hash,
			Phone:      in.Phone,
			Role:       in.Role,
			Status:     models.UserStatusActive,
			CreatedAt:  today,
			ApprovedAt: today,
		}
		d.Users = append(d.Users, u)
		created = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("User created", "user_id", created.ID, "role", created.Role)
	return &created, nil
}

// Update changes basic info only
func (s *UserService) Update(ctx context.Context, id string, in ProfileInput) (*models.User, error) {
	return updateProfile(s.Dependencies, id, in)
}

func (s *UserService) ChangeRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, errors.NewValidationError("invalid role").WithField("role", "invalid role")
	}
	return s.mutate(id, func(u *models.User) error {
		u.Role = role
		return nil
	})
}

// ChangeStatus moves an account between ACTIVE, INACTIVE and SUSPENDED.
// Pending and rejected accounts go through Approve and Reject instead.
func (s *UserService) ChangeStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	if !status.Editable() {
		return nil, errors.NewValidationError("invalid status").WithField("status", "status must be ACTIVE, INACTIVE or SUSPENDED")
	}
	user, err := s.mutate(id, func(u *models.User) error {
		if !u.Status.Editable() {
			return errors.NewBusinessError(errors.CodeInvalidStatusChange,
				fmt.Sprintf("cannot change status of a %s account", u.Status))
		}
		u.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("User status changed", "user_id", id, "status", status)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if id == actor.ID {
		return errors.NewValidationError("you cannot delete your own account")
	}
	err := s.Store.Update(func(d *store.Dataset) error {
		if err := d.RemoveUser(id); err != nil {
			return notFound("user")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.Info("User deleted", "user_id", id, "deleted_by", actor.ID)
	return nil
}

// Approve activates a pending registration
func (s *UserService) Approve(ctx context.Context, id string) (*models.User, error) {
	user, err := s.mutate(id, func(u *models.User) error {
		if u.Status != models.UserStatusPending {
			return errors.NewBusinessError(errors.CodeInvalidStatusChange, "only pending accounts can be approved")
		}
		u.Status = models.UserStatusActive
		u.ApprovedAt = s.today()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, models.AggregateUser, user.ID, models.EventUserApproved, map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	s.Logger.Info("User approved", "user_id", id)
	return user, nil
}

// Reject refuses a pending registration with a reason
func (s *UserService) Reject(ctx context.Context, id, reason string) (*models.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.NewValidationError("rejection reason is required").WithField("reason", "reason is required")
	}
	user, err := s.mutate(id, func(u *models.User) error {
		if u.Status != models.UserStatusPending {
			return errors.NewBusinessError(errors.CodeInvalidStatusChange, "only pending accounts can be rejected")
		}
		u.Status = models.UserStatusRejected
		u.RejectedAt = s.today()
		u.RejectionReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, models.AggregateUser, user.ID, models.EventUserRejected, map[string]interface{}{
		"user_id": user.ID,
		"reason":  reason,
	})
	s.Logger.Info("User rejected", "user_id", id)
	return user, nil
}

// mutate applies fn to the user with id and returns the updated copy
func (s *UserService) mutate(id string, fn func(u *models.User) error) (*models.User, error) {
	var updated models.User
	err := s.Store.Update(func(d *store.Dataset) error {
		u, err := findUser(d, id)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
		updated = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
