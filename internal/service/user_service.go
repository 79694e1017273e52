package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tasklist-api/internal/apperr"
	"tasklist-api/internal/auth"
	"tasklist-api/internal/models"
	"tasklist-api/internal/repository"
	"tasklist-api/pkg/logger"
)

type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int) (models.User, error)
}

// AuthResult is what registration and login hand back to the client.
type AuthResult struct {
	User  models.User
	Token string
}

var errInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid email or password")

type UserService struct {
	users  UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	log    *logger.Loggers

	// dummyHash is compared against when the email is unknown so that both
	// login failures cost one bcrypt comparison.
	dummyHash string
}

func NewUserService(users UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, log *logger.Loggers) (*UserService, error) {
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &UserService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		dummyHash: dummyHash,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return AuthResult{}, apperr.Invalid("username, email and password are required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return AuthResult{}, apperr.Invalid(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, apperr.InternalErr(err)
	}

	user, err := s.users.Create(ctx, username, email, hash)
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		s.log.Security.Warn("Duplicate username", zap.String("username", username))
		return AuthResult{}, apperr.New(apperr.Conflict, "username already exists")
	case errors.Is(err, repository.ErrEmailTaken):
		s.log.Security.Warn("Duplicate email", zap.String("email", email))
		return AuthResult{}, apperr.New(apperr.Conflict, "email already exists")
	case errors.Is(err, repository.ErrDuplicate):
		return AuthResult{}, apperr.New(apperr.Conflict, "username or email already exists")
	case err != nil:
		return AuthResult{}, apperr.InternalErr(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, apperr.InternalErr(err)
	}

	s.log.Audit.Info("User registered successfully", zap.Int("user_id", user.ID))
	return AuthResult{User: user, Token: token}, nil
}

// Login returns the same Unauthenticated error for an unknown email and for
// a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, apperr.Invalid("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		_, _ = s.hasher.Verify(password, s.dummyHash)
		s.log.Security.Warn("Login with unknown email", zap.String("email", email))
		return AuthResult{}, errInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, apperr.InternalErr(err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, apperr.InternalErr(err)
	}
	if !ok {
		s.log.Security.Warn("Invalid password", zap.Int("user_id", user.ID))
		return AuthResult{}, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, apperr.InternalErr(err)
	}

	s.log.Audit.Info("Login success", zap.Int("user_id", user.ID))
	return AuthResult{User: user, Token: token}, nil
}

func (s *UserService) Profile(ctx context.Context, userID int) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, apperr.New(apperr.NotFoundOrUnauthorized, "user not found")
	}
	if err != nil {
		return models.User{}, apperr.InternalErr(err)
	}
	return user, nil
}
