package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vaidashi/backoffice-api/internal/auth"
	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// RegisterInput is a self-registration request
type RegisterInput struct {
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Password       string      `json:"password"`
	Phone          string      `json:"phone"`
	Role           models.Role `json:"role"`
	RequestMessage string      `json:"requestMessage"`
}

// ProfileInput updates basic info. Nil fields are left unchanged.
type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// AuthService handles sessions and the caller's own account
type AuthService struct {
	Dependencies
	tokens  *auth.TokenManager
	hasher  *auth.PasswordHasher
	revoker auth.Revoker
}

// NewAuthService creates a new AuthService
func NewAuthService(deps Dependencies, tokens *auth.TokenManager, hasher *auth.PasswordHasher, revoker auth.Revoker) *AuthService {
	return &AuthService{
		Dependencies: deps,
		tokens:       tokens,
		hasher:       hasher,
		revoker:      revoker,
	}
}

// Login verifies credentials and issues a token for an ACTIVE account
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.NewValidationError("email and password are required")
	}

	var user models.User
	err := s.Store.View(func(d *store.Dataset) error {
		u, err := d.FindUserByEmail(email)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil || !s.hasher.Compare(user.Password, password) {
		s.Logger.Info("Login rejected", "email", email)
		return nil, errors.NewUnauthorizedError(errors.CodeInvalidCredentials, "invalid email or password")
	}

	if err := accountUsable(&user); err != nil {
		s.Logger.Info("Login refused for unusable account", "user_id", user.ID, "status", user.Status)
		return nil, err
	}

	token, _, err := s.tokens.Issue(&user)
	if err != nil {
		s.Logger.Error("Failed to issue token", "error", err, "user_id", user.ID)
		return nil, errors.NewInternalError("failed to issue token")
	}

	s.Logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{User: user, Token: token}, nil
}

func accountUsable(u *models.User) error {
	switch u.Status {
	case models.UserStatusActive:
		return nil
	case models.UserStatusPending:
		return errors.NewForbiddenError(errors.CodeAccountPending, "account is awaiting approval")
	case models.UserStatusRejected:
		msg := "account registration was rejected"
		if u.RejectionReason != "" {
			msg = fmt.Sprintf("%s: %s", msg, u.RejectionReason)
		}
		return errors.NewForbiddenError(errors.CodeAccountRejected, msg)
	case models.UserStatusSuspended:
		return errors.NewForbiddenError(errors.CodeAccountSuspended, "account is suspended")
	default:
		return errors.NewForbiddenError(errors.CodeAccountInactive, "account is inactive")
	}
}

// Register creates a PENDING account that a super admin must approve
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	v := &validator{}
	v.required(in.Name, "name")
	v.email(in.Email, "email")
	v.check(len(in.Password) >= auth.MinPasswordLength, "password",
		fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	v.required(in.Phone, "phone")
	v.check(in.Role.Valid(), "role", "invalid role")
	if err := v.err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.Logger.Error("Failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to register")
	}

	var created models.User
	err = s.Store.Update(func(d *store.Dataset) error {
		if d.UserEmailTaken(in.Email, "") {
			return errors.NewDuplicateEmailError()
		}
		u := &models.User{
			ID:             nextUserID(d),
			Name:           in.Name,
			Email:          in.Email,
			Password:       hash,
			Phone:          in.Phone,
			Role:           in.Role,
			Status:         models.UserStatusPending,
			CreatedAt:      s.today(),
			RequestMessage: strings.TrimSpace(in.RequestMessage),
		}
		d.Users = append(d.Users, u)
		created = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("User registered", "user_id", created.ID, "role", created.Role)
	return &created, nil
}

// Authenticate resolves a bearer token to its claims
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if stderrors.Is(err, auth.ErrTokenExpired) {
			return nil, errors.NewUnauthorizedError(errors.CodeTokenExpired, "token has expired")
		}
		return nil, errors.NewUnauthorizedError(errors.CodeInvalidToken, "invalid token")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.Logger.Error("Failed to check token revocation", "error", err)
		return nil, errors.NewTemporaryError("unable to verify token")
	}
	if revoked {
		return nil, errors.NewUnauthorizedError(errors.CodeInvalidToken, "token has been revoked")
	}
	return claims, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.Logger.Error("Failed to revoke token", "error", err, "user_id", claims.UserID)
		return errors.NewTemporaryError("failed to log out")
	}
	s.Logger.Info("User logged out", "user_id", claims.UserID)
	return nil
}

// Me returns the caller's own account
func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	var user models.User
	err := s.Store.View(func(d *store.Dataset) error {
		u, err := findUser(d, actor.ID)
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

// UpdateMe changes the caller's name, email or phone
func (s *AuthService) UpdateMe(ctx context.Context, actor Actor, in ProfileInput) (*models.User, error) {
	return updateProfile(s.Dependencies, actor.ID, in)
}

// ChangePassword replaces the caller's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, current, next string) error {
	if len(next) < auth.MinPasswordLength {
		return errors.NewValidationError(fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength)).
			WithField("newPassword", "password is too short")
	}

	var stored string
	err := s.Store.View(func(d *store.Dataset) error {
		u, err := findUser(d, actor.ID)
		if err != nil {
			return err
		}
		stored = u.Password
		return nil
	})
	if err != nil {
		return err
	}
	if !s.hasher.Compare(stored, current) {
		return errors.NewUnauthorizedError(errors.CodeInvalidPassword, "current password is incorrect")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		s.Logger.Error("Failed to hash password", "error", err)
		return errors.NewInternalError("failed to change password")
	}

	err = s.Store.Update(func(d *store.Dataset) error {
		u, err := findUser(d, actor.ID)
		if err != nil {
			return err
		}
		// someone else changed it between the check and now
		if u.Password != stored {
			return errors.NewUnauthorizedError(errors.CodeInvalidPassword, "current password is incorrect")
		}
		u.Password = hash
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("Password changed", "user_id", actor.ID)
	return nil
}

func nextUserID(d *store.Dataset) string {
	ids := make([]string, len(d.Users))
	for i, u := range d.Users {
		ids[i] = u.ID
	}
	return fmt.Sprint(nextSeq(ids, ""))
}

// updateProfile applies basic info changes to the user with id
func updateProfile(deps Dependencies, id string, in ProfileInput) (*models.User, error) {
	in.Name, in.Email, in.Phone = trimmed(in.Name), trimmed(in.Email), trimmed(in.Phone)

	v := &validator{}
	if in.Name != nil {
		v.required(*in.Name, "name")
	}
	if in.Email != nil {
		v.email(*in.Email, "email")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	var updated models.User
	err := deps.Store.Update(func(d *store.Dataset) error {
		u, err := findUser(d, id)
		if err != nil {
			return err
		}
		if in.Email != nil && d.UserEmailTaken(*in.Email, u.ID) {
			return errors.NewDuplicateEmailError()
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		updated = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
