package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUser        = errors.New("invalid user")
)

var knownRoles = []string{models.RoleSistemas, models.RoleGerencia, models.RoleStaff}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

type NewUser struct {
	Username   string
	Password   string
	Role       string
	Department string
	Phone      string
}

type Service struct {
	log         *slog.Logger
	repo        repository.UserRepoIface
	tokens      TokenIssuer
	departments []string
}

func NewService(log *slog.Logger, repo repository.UserRepoIface, tokens TokenIssuer, departments []string) *Service {
	return &Service{log: log, repo: repo, tokens: tokens, departments: departments}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "users"),
	)
}

// Login checks the credentials and returns a signed session token with the user record.
func (s *Service) Login(ctx context.Context, username, password string) (string, models.User, error) {
	const opn = "Users.Login"
	log := s.initLogger(opn)

	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.InfoContext(ctx, "login for unknown user", "username", username)
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	match, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		log.ErrorContext(ctx, "stored password hash is unreadable", "username", user.Username, sl.Err(err))
		return "", models.User{}, ErrInvalidCredentials
	}
	if !match {
		log.InfoContext(ctx, "login with wrong password", "username", user.Username)
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, user, nil
}

// CreateUser validates and stores a new account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	const opn = "Users.CreateUser"
	log := s.initLogger(opn)

	user, err := s.validate(in)
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash, err = auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return models.User{}, fmt.Errorf("%w: %s", ErrUserExists, user.Username)
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	log.InfoContext(ctx, "user created", "username", created.Username, "role", created.Role,
		sl.Department(created.Department))

	return created, nil
}

// ChangePassword replaces the password of an existing user.
func (s *Service) ChangePassword(ctx context.Context, username, newPassword string) error {
	const opn = "Users.ChangePassword"
	log := s.initLogger(opn)

	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}

	if err = s.repo.UpdatePassword(ctx, username, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return fmt.Errorf("failed to change password: %w", err)
	}

	log.InfoContext(ctx, "password changed", "username", username)

	return nil
}

// EnsureAdmin creates the bootstrap sistemas account unless the username is taken.
func (s *Service) EnsureAdmin(ctx context.Context, username, password, department string) error {
	const opn = "Users.EnsureAdmin"
	log := s.initLogger(opn)

	if username == "" || password == "" {
		log.WarnContext(ctx, "bootstrap admin is not configured, skipping")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	created, err := s.repo.EnsureUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleSistemas,
		Department:   department,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}

	if created {
		log.InfoContext(ctx, "bootstrap admin created", "username", username)
	}

	return nil
}

func (s *Service) validate(in NewUser) (models.User, error) {
	user := models.User{
		Username:   strings.TrimSpace(in.Username),
		Role:       strings.ToLower(strings.TrimSpace(in.Role)),
		Department: strings.TrimSpace(in.Department),
		Phone:      strings.TrimSpace(in.Phone),
	}

	if user.Username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if in.Password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", ErrInvalidUser)
	}
	if user.Role == "" {
		user.Role = models.RoleStaff
	}
	if !slices.Contains(knownRoles, user.Role) {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, in.Role)
	}
	if !slices.Contains(s.departments, user.Department) {
		return models.User{}, fmt.Errorf("%w: unknown department %q", ErrInvalidUser, in.Department)
	}

	return user, nil
}
