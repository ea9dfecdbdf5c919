package users

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/repo"
	pkgauth "github.com/jihowes/free-trial-snetinal-sub000/pkg/auth"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/config"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	minPasswordLen            = 8
)

// RegisterInput carries a signup request.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// LoginInput carries a login request.
type LoginInput struct {
	Email    string
	Password string
}

// UserDTO is the API projection of a user.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse is what register and login hand back to the client.
type AuthResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
}

// ServiceParams bundles the dependencies required to build the user service.
type ServiceParams struct {
	UserRepo     Repository
	EmailService emails.Service
	JWTConfig    config.JWTConfig
	Password     config.PasswordConfig
	Logger       *logger.Logger
	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// Service handles registration, login and profile lookup.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (AuthResponse, error)
	Get(ctx context.Context, userID uuid.UUID) (UserDTO, error)
}

type service struct {
	userRepo Repository
	emails   emails.Service
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a user service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		userRepo: params.UserRepo,
		emails:   params.EmailService,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.Password,
		logg:     params.Logger,
		now:      clock,
	}, nil
}

// Register creates the account, issues a token and kicks off the welcome
// email in the background. Email delivery never blocks or fails signup.
func (s *service) Register(ctx context.Context, input RegisterInput) (AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}
	if len(input.Password) < minPasswordLen {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        emailAddr,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	token, err := s.mintToken(user)
	if err != nil {
		return AuthResponse{}, err
	}

	if s.emails != nil {
		bgCtx := context.WithoutCancel(ctx)
		go func() {
			if _, err := s.emails.SendWelcome(bgCtx, user.ID, user.Email, user.DisplayName); err != nil {
				welcomeCtx := s.logg.WithUserID(bgCtx, user.ID.String())
				s.logg.Error(welcomeCtx, "welcome email failed", err)
			}
		}()
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "user registered")
	return AuthResponse{User: toUserDTO(user), AccessToken: token}, nil
}

// Login verifies credentials and returns a fresh access token. Unknown email
// and wrong password produce the same response.
func (s *service) Login(ctx context.Context, input LoginInput) (AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	if emailAddr == "" || input.Password == "" {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.userRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		if repo.IsNotFound(err) {
			return AuthResponse{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !match {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logg.Error(ctx, "update last login", err)
	}
	user.LastLoginAt = &now

	token, err := s.mintToken(*user)
	if err != nil {
		return AuthResponse{}, err
	}

	ctx = s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(ctx, "user logged in")
	return AuthResponse{User: toUserDTO(*user), AccessToken: token}, nil
}

// Get loads the user's profile.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	if userID == uuid.Nil {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toUserDTO(*user), nil
}

func (s *service) mintToken(user models.User) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return token, nil
}

func toUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
