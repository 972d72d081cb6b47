package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const minPasswordLength = 5

// AuthService registers users and verifies login credentials.
type AuthService struct {
	users  UserStore
	logger *log.Logger
}

func NewAuthService(users UserStore, logger *log.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

// Register creates a new account with a bcrypt-hashed password. Birthdate is
// optional; pass the zero Date to leave it unset.
func (s *AuthService) Register(ctx context.Context, username, email, password string, birthdate core.Date) (core.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return core.User{}, core.ErrMissingCredentials
	}
	if len(password) < minPasswordLength {
		return core.User{}, core.ErrPasswordTooShort
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return core.User{}, core.ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Birthdate:    birthdate,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldUserID, user.ID)
	return user, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password both come back as ErrInvalidCredentials so a caller cannot probe
// which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return core.User{}, core.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, core.ErrInvalidCredentials
		}
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return core.User{}, core.ErrInvalidCredentials
	}

	s.logger.DebugContext(ctx, "User authenticated", log.FieldUserID, user.ID)
	return user, nil
}

// GetUser looks up an account by ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (core.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// DeleteAccount removes the user and, through the schema cascade, every
// transaction and goal they own.
func (s *AuthService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "Account deleted", log.FieldUserID, id)
	return nil
}
