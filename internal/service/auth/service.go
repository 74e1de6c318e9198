package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/db"
	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/repository"
	"github.com/oggyb/ideaji/internal/validation"
)

const welcomeTimeout = 10 * time.Second

// Welcomer sends the post-registration email.
type Welcomer interface {
	SendWelcome(ctx context.Context, to, name string) error
}

// Service handles registration, login and profile lookups.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	tokens   *TokenManager
	welcomer Welcomer
}

func NewAuthService(appCtx *app.AppContext, tokens *TokenManager, welcomer Welcomer) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		tokens:   tokens,
		welcomer: welcomer,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *db.User  `json:"user"`
}

// Register creates a verified USER account.
// The welcome email is best effort: a delivery failure is logged only.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*db.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, svcErr.Conflict("user with this email already exists", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Internal("registration failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, svcErr.Internal("registration failed", err)
	}

	verified := time.Now().UTC()
	u := &db.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  string(hash),
		Role:          db.RoleUser,
		EmailVerified: &verified,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, svcErr.Conflict("user with this email already exists", err)
		}
		s.appCtx.Logger.Error("create user failed", "email", in.Email, "err", err)
		return nil, svcErr.Internal("registration failed", err)
	}
	s.appCtx.Logger.Info("user registered", "user", u.ID)

	if s.welcomer != nil {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeTimeout)
		defer cancel()
		if err := s.welcomer.SendWelcome(mctx, u.Email, u.Name); err != nil {
			s.appCtx.Logger.Warn("welcome email failed", "user", u.ID, "err", err)
		}
	}
	return u, nil
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Unauthenticated("invalid email or password")
	} else if err != nil {
		return nil, svcErr.Internal("login failed", err)
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, svcErr.Unauthenticated("invalid email or password")
	}
	if u.EmailVerified == nil {
		return nil, svcErr.Forbidden("email not verified")
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, svcErr.Internal("login failed", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID string) (*db.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("user not found")
	} else if err != nil {
		return nil, svcErr.Internal("failed to load profile", err)
	}
	return u, nil
}
