package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/users"
	pkgAuth "github.com/timerapp/timerapp-backend/pkg/auth"
	"github.com/timerapp/timerapp-backend/pkg/auth/session"
	"github.com/timerapp/timerapp-backend/pkg/config"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
)

const tokenTypeBearer = "Bearer"

// Service defines the behavior needed by the auth controller.
type Service interface {
	DevLogin(ctx context.Context, req DevLoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	users   userService
	session sessionManager
	jwtCfg  config.JWTConfig
	now     func() time.Time
}

type userService interface {
	DevSignIn(ctx context.Context, input users.DevSignInInput) (*users.UserDTO, bool, error)
}

type sessionManager interface {
	Register(ctx context.Context, accessID string, userID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          userService
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user service is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:   params.Users,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) DevLogin(ctx context.Context, req DevLoginRequest) (*LoginResponse, error) {
	user, created, err := s.users.DevSignIn(ctx, users.DevSignInInput{
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	username := ""
	if user.Username != nil {
		username = *user.Username
	}

	accessID := session.NewAccessID()
	token, expiresAt, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Username: username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Register(ctx, accessID, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store access session")
	}

	return &LoginResponse{
		UserID:      user.ID,
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
		Created:     created,
		User:        user,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke access session")
	}
	return nil
}
